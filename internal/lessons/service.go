package lessons

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/magedabdelsalam/ustaz-sub000/internal/content"
	"github.com/magedabdelsalam/ustaz-sub000/internal/engine"
	"github.com/magedabdelsalam/ustaz-sub000/internal/llm"
	"github.com/magedabdelsalam/ustaz-sub000/internal/mastery"
)

// Service generates plans, content, criteria, and replies through the
// orchestrated pipeline. Every call goes through cache, throttle,
// repair, retry, and fallback.
type Service struct {
	provider llm.Provider
	orch     *engine.Orchestrator
	cfg      Config
}

// NewService creates a lesson generation service.
func NewService(provider llm.Provider, orch *engine.Orchestrator, cfg Config) *Service {
	return &Service{provider: provider, orch: orch, cfg: cfg}
}

// GeneratePlan produces the lesson plan for a subject. On total
// generation failure a small deterministic starter plan is returned.
func (s *Service) GeneratePlan(ctx context.Context, subject string) (*LessonPlan, error) {
	ctx = llm.WithPurpose(ctx, "lesson-plan")

	req := engine.Request{
		Type:   "lesson-plan",
		Params: map[string]any{"subject": subject, "lessons": s.cfg.LessonCount},
		Shape: engine.Shape{
			Required: []string{"subject", "lessons"},
			Arrays:   []string{"lessons"},
		},
		Schema: PlanSchema,
		Simplified: s.generateFn(PlanSchema, planSystemPrompt, buildPlanUserMessageSimplified(subject), s.cfg.SimplifiedMaxTokens, 0.3),
		Fallback:   func() json.RawMessage { return fallbackPlanJSON(subject) },
	}

	raw, err := s.orch.Call(ctx, req,
		s.generateFn(PlanSchema, planSystemPrompt, buildPlanUserMessage(subject, s.cfg.LessonCount), s.cfg.MaxTokens, 0.3))
	if err != nil {
		return nil, err
	}
	return decodePlan(subject, raw)
}

// GenerateContent produces one content item for the lesson's current
// concept. history carries summaries of recently generated items so
// the model avoids repetition.
func (s *Service) GenerateContent(ctx context.Context, subject string, lesson *Lesson, concept ConceptInfo, kind content.Kind, history []string) (content.LessonContent, error) {
	ctx = llm.WithPurpose(ctx, "lesson-content")

	req := engine.Request{
		Type: "lesson-content",
		Params: map[string]any{
			"subject": subject,
			"lesson":  lesson.ID,
			"concept": concept.ID,
			"kind":    string(kind),
			"seen":    len(history),
		},
		Shape: engine.Shape{
			Required: []string{"type", "data"},
		},
		Schema: ContentSchema,
		Simplified: s.generateFn(ContentSchema, contentSystemPrompt, buildContentUserMessageSimplified(subject, concept, kind), s.cfg.SimplifiedMaxTokens, s.cfg.Temperature),
		Fallback: func() json.RawMessage {
			data, _ := json.Marshal(content.Fallback(kind, concept.Name))
			return data
		},
	}

	raw, err := s.orch.Call(ctx, req,
		s.generateFn(ContentSchema, contentSystemPrompt, buildContentUserMessage(subject, lesson, concept, kind, history), s.cfg.MaxTokens, s.cfg.Temperature))
	if err != nil {
		return content.LessonContent{}, err
	}

	var lc content.LessonContent
	if err := json.Unmarshal(raw, &lc); err != nil {
		return content.LessonContent{}, fmt.Errorf("decoding lesson content: %w", err)
	}
	if !lc.Type.Valid() {
		lc.Type = kind
	}
	return lc, nil
}

// GenerateCriteria derives readiness criteria for a subject. On total
// generation failure the static category preset is returned, so the
// caller always gets usable criteria.
func (s *Service) GenerateCriteria(ctx context.Context, subject string) (mastery.Criteria, error) {
	ctx = llm.WithPurpose(ctx, "progress-criteria")

	req := engine.Request{
		Type:   "progress-criteria",
		Params: map[string]any{"subject": subject},
		Shape: engine.Shape{
			Required: []string{"minCorrectAnswers", "minTotalAttempts", "minAccuracy", "adaptiveFactors"},
		},
		Schema: CriteriaSchema,
		Fallback: func() json.RawMessage {
			data, _ := json.Marshal(mastery.PresetFor(subject))
			return data
		},
	}

	raw, err := s.orch.Call(ctx, req,
		s.generateFn(CriteriaSchema, criteriaSystemPrompt, buildCriteriaUserMessage(subject), s.cfg.SimplifiedMaxTokens, 0))
	if err != nil {
		return mastery.Criteria{}, err
	}

	var c mastery.Criteria
	if err := json.Unmarshal(raw, &c); err != nil {
		return mastery.Criteria{}, fmt.Errorf("decoding criteria: %w", err)
	}
	return c.Clamp(), nil
}

// GenerateReply produces a short tutor reply to a learner action.
// Replies are conversational, so they bypass the cache by carrying a
// per-call nonce in the params.
func (s *Service) GenerateReply(ctx context.Context, subject, action, detail string) (string, error) {
	ctx = llm.WithPurpose(ctx, "tutor-response")

	req := engine.Request{
		Type:   "tutor-response",
		Params: map[string]any{"subject": subject, "action": action, "nonce": uuid.NewString()},
		Shape: engine.Shape{
			Required: []string{"text"},
		},
		Schema: ReplySchema,
		Fallback: func() json.RawMessage {
			data, _ := json.Marshal(map[string]string{"text": content.FallbackReply(subject)})
			return data
		},
	}

	raw, err := s.orch.Call(ctx, req,
		s.generateFn(ReplySchema, replySystemPrompt, buildReplyUserMessage(subject, action, detail), s.cfg.SimplifiedMaxTokens, s.cfg.Temperature))
	if err != nil {
		return "", err
	}

	var out struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("decoding tutor reply: %w", err)
	}
	return out.Text, nil
}

// generateFn adapts a provider call into the orchestrator's generate
// function shape.
func (s *Service) generateFn(schema *llm.Schema, system, user string, maxTokens int, temperature float64) engine.GenerateFunc {
	return func(ctx context.Context) (string, error) {
		resp, err := s.provider.Generate(ctx, llm.Request{
			System:      system,
			Messages:    []llm.Message{{Role: llm.RoleUser, Content: user}},
			Schema:      schema,
			MaxTokens:   maxTokens,
			Temperature: temperature,
		})
		if err != nil {
			return "", err
		}
		return string(resp.Content), nil
	}
}

type planOutput struct {
	Subject string             `json:"subject"`
	Lessons []planLessonOutput `json:"lessons"`
}

type planLessonOutput struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Concepts    []planConceptOutput `json:"concepts"`
}

type planConceptOutput struct {
	Name                   string `json:"name"`
	Description            string `json:"description"`
	Difficulty             string `json:"difficulty"`
	EstimatedPracticeItems int    `json:"estimatedPracticeItems"`
}

// decodePlan converts raw plan JSON into a LessonPlan, assigning IDs
// and normalizing model-supplied values.
func decodePlan(subject string, raw json.RawMessage) (*LessonPlan, error) {
	var out planOutput
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decoding lesson plan: %w", err)
	}
	if len(out.Lessons) == 0 {
		return nil, fmt.Errorf("decoding lesson plan: no lessons")
	}

	plan := &LessonPlan{Subject: subject}
	for _, l := range out.Lessons {
		lesson := Lesson{
			ID:          uuid.NewString(),
			Title:       l.Title,
			Description: l.Description,
		}
		for _, c := range l.Concepts {
			d := content.Difficulty(c.Difficulty)
			if !d.Valid() {
				d = content.DifficultyBeginner
			}
			items := c.EstimatedPracticeItems
			if items < 1 {
				items = 3
			}
			lesson.Concepts = append(lesson.Concepts, ConceptInfo{
				ID:                     uuid.NewString(),
				Name:                   c.Name,
				Description:            c.Description,
				Difficulty:             d,
				EstimatedPracticeItems: items,
			})
		}
		plan.Lessons = append(plan.Lessons, lesson)
	}
	return plan, nil
}
