package lessons

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/magedabdelsalam/ustaz-sub000/internal/content"
	"github.com/magedabdelsalam/ustaz-sub000/internal/engine"
	"github.com/magedabdelsalam/ustaz-sub000/internal/llm"
	"github.com/magedabdelsalam/ustaz-sub000/internal/respcache"
	"github.com/magedabdelsalam/ustaz-sub000/internal/throttle"
)

func newTestService(provider llm.Provider) *Service {
	orch := engine.New(respcache.New(), throttle.NewWithDelay(0), engine.Config{
		MaxRetries:     2,
		InitialBackoff: time.Millisecond,
		Multiplier:     2,
	})
	return NewService(provider, orch, DefaultConfig())
}

const planJSON = `{
	"subject": "Algebra",
	"lessons": [
		{
			"title": "Variables and Expressions",
			"description": "What a variable is and how to read an expression.",
			"concepts": [
				{"name": "Variables", "description": "Letters standing for numbers.", "difficulty": "beginner", "estimatedPracticeItems": 3},
				{"name": "Evaluating expressions", "description": "Substituting values.", "difficulty": "intermediate", "estimatedPracticeItems": 4}
			]
		},
		{
			"title": "Solving Equations",
			"description": "One-step and two-step equations.",
			"concepts": [
				{"name": "One-step equations", "description": "Undoing a single operation.", "difficulty": "intermediate", "estimatedPracticeItems": 4}
			]
		}
	]
}`

func TestGeneratePlan(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(planJSON)})
	svc := newTestService(mock)

	plan, err := svc.GeneratePlan(context.Background(), "Algebra")
	if err != nil {
		t.Fatalf("GeneratePlan: %v", err)
	}
	if plan.Subject != "Algebra" {
		t.Errorf("Subject = %q", plan.Subject)
	}
	if len(plan.Lessons) != 2 {
		t.Fatalf("len(Lessons) = %d, want 2", len(plan.Lessons))
	}
	if plan.CurrentLessonIndex != 0 {
		t.Errorf("CurrentLessonIndex = %d, want 0", plan.CurrentLessonIndex)
	}
	for _, l := range plan.Lessons {
		if l.ID == "" {
			t.Errorf("lesson %q has empty ID", l.Title)
		}
		for _, c := range l.Concepts {
			if c.ID == "" {
				t.Errorf("concept %q has empty ID", c.Name)
			}
		}
	}
	if got := plan.Lessons[0].Concepts[1].Difficulty; got != content.DifficultyIntermediate {
		t.Errorf("difficulty = %q", got)
	}
}

func TestGeneratePlanNormalizesZeroItems(t *testing.T) {
	raw := `{"subject":"Algebra","lessons":[{"title":"L","description":"d","concepts":[{"name":"c","description":"d","difficulty":"beginner","estimatedPracticeItems":0}]}]}`
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(raw)})
	svc := newTestService(mock)

	plan, err := svc.GeneratePlan(context.Background(), "Algebra")
	if err != nil {
		t.Fatalf("GeneratePlan: %v", err)
	}
	c := plan.Lessons[0].Concepts[0]
	if c.EstimatedPracticeItems != 3 {
		t.Errorf("EstimatedPracticeItems = %d, want default 3", c.EstimatedPracticeItems)
	}
}

func TestDecodePlanNormalizesUnknownDifficulty(t *testing.T) {
	raw := json.RawMessage(`{"subject":"Algebra","lessons":[{"title":"L","description":"d","concepts":[{"name":"c","description":"d","difficulty":"impossible","estimatedPracticeItems":2}]}]}`)
	plan, err := decodePlan("Algebra", raw)
	if err != nil {
		t.Fatalf("decodePlan: %v", err)
	}
	if got := plan.Lessons[0].Concepts[0].Difficulty; got != content.DifficultyBeginner {
		t.Errorf("unknown difficulty normalized to %q", got)
	}
}

func TestGeneratePlanRetriesOnSchemaViolation(t *testing.T) {
	// First response violates the schema (difficulty outside the enum),
	// second conforms. The orchestrator treats the violation as
	// structural and retries.
	bad := `{"subject":"Algebra","lessons":[{"title":"L","description":"d","concepts":[{"name":"c","description":"d","difficulty":"impossible","estimatedPracticeItems":2}]}]}`
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(bad)},
		llm.MockResponse{Content: json.RawMessage(planJSON)},
	)
	svc := newTestService(mock)

	plan, err := svc.GeneratePlan(context.Background(), "Algebra")
	if err != nil {
		t.Fatalf("GeneratePlan: %v", err)
	}
	if mock.CallCount() != 2 {
		t.Errorf("CallCount = %d, want 2", mock.CallCount())
	}
	if len(plan.Lessons) != 2 {
		t.Errorf("len(Lessons) = %d, want 2 from the conforming response", len(plan.Lessons))
	}
}

func TestGeneratePlanFallsBack(t *testing.T) {
	// Empty mock queue: every attempt fails with provider unavailable.
	mock := llm.NewMockProvider()
	svc := newTestService(mock)

	plan, err := svc.GeneratePlan(context.Background(), "Chemistry")
	if err != nil {
		t.Fatalf("GeneratePlan: %v", err)
	}
	if len(plan.Lessons) == 0 {
		t.Fatal("fallback plan has no lessons")
	}
	if plan.Subject != "Chemistry" {
		t.Errorf("Subject = %q", plan.Subject)
	}
	for _, l := range plan.Lessons {
		if len(l.Concepts) == 0 {
			t.Errorf("fallback lesson %q has no concepts", l.Title)
		}
	}
}

func TestGenerateContent(t *testing.T) {
	raw := `{"type":"multiple-choice","data":{"question":"What is 2x when x=3?","options":["5","6","8","9"],"answer":1}}`
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(raw)})
	svc := newTestService(mock)

	lesson := &Lesson{ID: "l1", Title: "Variables", Description: "d"}
	concept := ConceptInfo{ID: "c1", Name: "Variables", Difficulty: content.DifficultyBeginner}

	lc, err := svc.GenerateContent(context.Background(), "Algebra", lesson, concept, content.KindMultipleChoice, nil)
	if err != nil {
		t.Fatalf("GenerateContent: %v", err)
	}
	if lc.Type != content.KindMultipleChoice {
		t.Errorf("Type = %q", lc.Type)
	}
	if len(lc.Data) == 0 {
		t.Error("empty Data payload")
	}
}

func TestGenerateContentRepairsTruncatedResponse(t *testing.T) {
	// Missing closing braces, as a max-token cutoff produces.
	raw := `{"type":"explainer","data":{"title":"Slope","body":"Rise over run"`
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(raw)})
	svc := newTestService(mock)

	lesson := &Lesson{ID: "l1", Title: "Lines"}
	concept := ConceptInfo{ID: "c1", Name: "Slope"}

	lc, err := svc.GenerateContent(context.Background(), "Algebra", lesson, concept, content.KindExplainer, nil)
	if err != nil {
		t.Fatalf("GenerateContent: %v", err)
	}
	if lc.Type != content.KindExplainer {
		t.Errorf("Type = %q", lc.Type)
	}
}

func TestGenerateContentFallsBackToTemplate(t *testing.T) {
	mock := llm.NewMockProvider()
	svc := newTestService(mock)

	lesson := &Lesson{ID: "l1", Title: "Lines"}
	concept := ConceptInfo{ID: "c1", Name: "Slope"}

	lc, err := svc.GenerateContent(context.Background(), "Algebra", lesson, concept, content.KindMultipleChoice, nil)
	if err != nil {
		t.Fatalf("GenerateContent: %v", err)
	}
	if lc.Type != content.KindMultipleChoice {
		t.Errorf("fallback Type = %q", lc.Type)
	}
}

func TestGenerateCriteria(t *testing.T) {
	raw := `{"minCorrectAnswers":4,"minTotalAttempts":5,"minAccuracy":0.75,"adaptiveFactors":{"difficultyAdjustment":1.0,"engagementWeight":0.1,"retentionFactor":0.85}}`
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(raw)})
	svc := newTestService(mock)

	c, err := svc.GenerateCriteria(context.Background(), "Algebra")
	if err != nil {
		t.Fatalf("GenerateCriteria: %v", err)
	}
	if c.MinCorrectAnswers != 4 || c.MinTotalAttempts != 5 || c.MinAccuracy != 0.75 {
		t.Errorf("criteria = %+v", c)
	}
}

func TestGenerateCriteriaFallsBackToPreset(t *testing.T) {
	mock := llm.NewMockProvider()
	svc := newTestService(mock)

	c, err := svc.GenerateCriteria(context.Background(), "Algebra Basics")
	if err != nil {
		t.Fatalf("GenerateCriteria: %v", err)
	}
	// Math preset values.
	if c.MinCorrectAnswers != 4 || c.MinAccuracy != 0.75 {
		t.Errorf("preset fallback criteria = %+v", c)
	}
}

func TestGenerateCriteriaClampsModelValues(t *testing.T) {
	raw := `{"minCorrectAnswers":0,"minTotalAttempts":0,"minAccuracy":2.0,"adaptiveFactors":{"difficultyAdjustment":5,"engagementWeight":2,"retentionFactor":0}}`
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(raw)})
	svc := newTestService(mock)

	c, err := svc.GenerateCriteria(context.Background(), "Algebra")
	if err != nil {
		t.Fatalf("GenerateCriteria: %v", err)
	}
	if c.MinCorrectAnswers < 1 || c.MinAccuracy > 0.95 {
		t.Errorf("unclamped criteria = %+v", c)
	}
}

func TestGenerateReply(t *testing.T) {
	raw := `{"text":"Nice work! Ready for a slightly harder one?"}`
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(raw)})
	svc := newTestService(mock)

	reply, err := svc.GenerateReply(context.Background(), "Algebra", "answer-correct", "solved 2x=6")
	if err != nil {
		t.Fatalf("GenerateReply: %v", err)
	}
	if reply == "" {
		t.Error("empty reply")
	}
}

func TestGenerateReplyFallsBack(t *testing.T) {
	mock := llm.NewMockProvider()
	svc := newTestService(mock)

	reply, err := svc.GenerateReply(context.Background(), "Algebra", "answer-wrong", "")
	if err != nil {
		t.Fatalf("GenerateReply: %v", err)
	}
	if reply == "" {
		t.Error("fallback reply is empty")
	}
}

func TestGenerateRepliesNotCached(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(`{"text":"first"}`)},
		llm.MockResponse{Content: json.RawMessage(`{"text":"second"}`)},
	)
	svc := newTestService(mock)

	r1, err := svc.GenerateReply(context.Background(), "Algebra", "answer-correct", "")
	if err != nil {
		t.Fatalf("first reply: %v", err)
	}
	r2, err := svc.GenerateReply(context.Background(), "Algebra", "answer-correct", "")
	if err != nil {
		t.Fatalf("second reply: %v", err)
	}
	if r1 == r2 {
		t.Errorf("identical replies %q: second call served from cache", r1)
	}
}

func TestCurrentLessonAndConcept(t *testing.T) {
	plan := &LessonPlan{
		Subject: "Algebra",
		Lessons: []Lesson{
			{ID: "l1", Concepts: []ConceptInfo{{ID: "c1"}, {ID: "c2"}}, CurrentConceptIndex: 1},
			{ID: "l2"},
		},
	}

	lesson, ok := plan.CurrentLesson()
	if !ok || lesson.ID != "l1" {
		t.Fatalf("CurrentLesson = %v, %v", lesson, ok)
	}
	concept, ok := lesson.CurrentConcept()
	if !ok || concept.ID != "c2" {
		t.Fatalf("CurrentConcept = %v, %v", concept, ok)
	}

	empty := &LessonPlan{Subject: "x"}
	if _, ok := empty.CurrentLesson(); ok {
		t.Error("CurrentLesson on empty plan reported ok")
	}
	if _, ok := (&Lesson{}).CurrentConcept(); ok {
		t.Error("CurrentConcept on empty lesson reported ok")
	}
}
