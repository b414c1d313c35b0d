// Package tutor is the session service object: it owns the cache,
// throttle, generation services, progress engine, and variety tracker
// for a tutoring session, and exposes the UI and persistence
// boundaries.
package tutor

import (
	"context"
	"fmt"
	"sync"

	"github.com/magedabdelsalam/ustaz-sub000/internal/content"
	"github.com/magedabdelsalam/ustaz-sub000/internal/engine"
	"github.com/magedabdelsalam/ustaz-sub000/internal/lessons"
	"github.com/magedabdelsalam/ustaz-sub000/internal/llm"
	"github.com/magedabdelsalam/ustaz-sub000/internal/mastery"
	"github.com/magedabdelsalam/ustaz-sub000/internal/respcache"
	"github.com/magedabdelsalam/ustaz-sub000/internal/store"
	"github.com/magedabdelsalam/ustaz-sub000/internal/throttle"
	"github.com/magedabdelsalam/ustaz-sub000/internal/variety"
)

// ErrNoPlan indicates an operation that needs a lesson plan ran before
// one was generated or loaded.
type ErrNoPlan struct {
	Subject string
}

func (e *ErrNoPlan) Error() string {
	return fmt.Sprintf("no lesson plan for subject %q", e.Subject)
}

// ErrLastLesson indicates advancement was requested at the final lesson.
type ErrLastLesson struct {
	Subject string
}

func (e *ErrLastLesson) Error() string {
	return fmt.Sprintf("subject %q is already at its last lesson", e.Subject)
}

// Service coordinates one learner's tutoring session across subjects.
// All state lives on the service; callers receive it by injection
// rather than through package globals. Safe for concurrent use.
type Service struct {
	gen      *lessons.Service
	progress *mastery.Service
	tracker  *variety.Tracker
	sessions store.SessionRepo

	mu           sync.Mutex
	plans        map[string]*lessons.LessonPlan
	criteriaDone map[string]bool
}

// NewService wires a full session service over the given provider.
// sessions may be nil when snapshot persistence is not configured.
func NewService(provider llm.Provider, sessions store.SessionRepo) *Service {
	orch := engine.New(respcache.New(), throttle.New(), engine.DefaultConfig())
	gen := lessons.NewService(provider, orch, lessons.DiscoverConfig())
	return NewServiceWith(gen, variety.NewTracker(), sessions)
}

// NewServiceWith assembles a Service from pre-built collaborators.
func NewServiceWith(gen *lessons.Service, tracker *variety.Tracker, sessions store.SessionRepo) *Service {
	return &Service{
		gen:          gen,
		progress:     mastery.NewService(tracker),
		tracker:      tracker,
		sessions:     sessions,
		plans:        make(map[string]*lessons.LessonPlan),
		criteriaDone: make(map[string]bool),
	}
}

// EnsurePlan returns the subject's lesson plan, generating one (and
// deriving readiness criteria) on first use.
func (s *Service) EnsurePlan(ctx context.Context, subject string) (*lessons.LessonPlan, error) {
	s.mu.Lock()
	plan, ok := s.plans[subject]
	s.mu.Unlock()
	if ok {
		return plan, nil
	}

	plan, err := s.gen.GeneratePlan(ctx, subject)
	if err != nil {
		return nil, fmt.Errorf("generating plan for %q: %w", subject, err)
	}

	s.mu.Lock()
	// Another caller may have won the race while we generated.
	if existing, ok := s.plans[subject]; ok {
		s.mu.Unlock()
		return existing, nil
	}
	s.plans[subject] = plan
	needCriteria := !s.criteriaDone[subject]
	s.mu.Unlock()

	if needCriteria {
		s.deriveCriteria(ctx, subject)
	}
	return plan, nil
}

// deriveCriteria fetches criteria for a subject once. GenerateCriteria
// degrades to the category preset internally, so after this call the
// subject always has pinned criteria.
func (s *Service) deriveCriteria(ctx context.Context, subject string) {
	c, err := s.gen.GenerateCriteria(ctx, subject)
	if err != nil {
		c = mastery.PresetFor(subject)
	}
	s.progress.SetCriteria(subject, c)

	s.mu.Lock()
	s.criteriaDone[subject] = true
	s.mu.Unlock()
}

// NextContent generates one content item of the given kind for the
// subject's current concept and records it in the variety history.
func (s *Service) NextContent(ctx context.Context, subject string, kind content.Kind) (content.LessonContent, error) {
	s.mu.Lock()
	plan, ok := s.plans[subject]
	s.mu.Unlock()
	if !ok {
		return content.LessonContent{}, &ErrNoPlan{Subject: subject}
	}

	lesson, ok := plan.CurrentLesson()
	if !ok {
		return content.LessonContent{}, &ErrNoPlan{Subject: subject}
	}
	concept, ok := lesson.CurrentConcept()
	if !ok {
		concept = lessons.ConceptInfo{Name: lesson.Title, Difficulty: content.DifficultyBeginner}
	}

	history := s.recentTopics(subject, lesson.ID)
	lc, err := s.gen.GenerateContent(ctx, subject, lesson, concept, kind, history)
	if err != nil {
		return content.LessonContent{}, err
	}

	s.tracker.Record(subject, lesson.ID, lc.Type, concept.Name, string(concept.Difficulty))

	s.mu.Lock()
	lesson.Content = &lc
	s.mu.Unlock()
	return lc, nil
}

// recentTopics summarizes the last few history records for prompt
// context.
func (s *Service) recentTopics(subject, lessonID string) []string {
	records := s.tracker.History(subject, lessonID)
	if len(records) > 5 {
		records = records[len(records)-5:]
	}
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, fmt.Sprintf("%s on %s (%s)", r.Kind, r.Topic, r.Difficulty))
	}
	return out
}

// SubmitAnswer records one answer against the subject's current lesson
// and returns the re-evaluated progress.
func (s *Service) SubmitAnswer(subject string, correct bool) mastery.Progress {
	lessonID := ""
	s.mu.Lock()
	if plan, ok := s.plans[subject]; ok {
		if lesson, ok := plan.CurrentLesson(); ok {
			lessonID = lesson.ID
		}
	}
	s.mu.Unlock()

	return s.progress.UpdateProgress(subject, correct, lessonID)
}

// TutorReply generates a short conversational reply to a learner action.
func (s *Service) TutorReply(ctx context.Context, subject, action, detail string) (string, error) {
	return s.gen.GenerateReply(ctx, subject, action, detail)
}

// AdvanceToNextLesson moves the subject to its next lesson: the current
// lesson is marked completed, its variety history is cleared, and
// progress resets for the new lesson. Fails without mutating anything
// when the subject is already at its last lesson.
func (s *Service) AdvanceToNextLesson(subject string) error {
	s.mu.Lock()
	plan, ok := s.plans[subject]
	if !ok {
		s.mu.Unlock()
		return &ErrNoPlan{Subject: subject}
	}
	if plan.CurrentLessonIndex >= len(plan.Lessons)-1 {
		s.mu.Unlock()
		return &ErrLastLesson{Subject: subject}
	}

	current := &plan.Lessons[plan.CurrentLessonIndex]
	current.Completed = true
	lessonID := current.ID
	plan.CurrentLessonIndex++
	s.mu.Unlock()

	s.tracker.Clear(subject, lessonID)
	s.progress.ResetProgress(subject)
	return nil
}

// CompleteSubject marks the subject's full plan finished.
func (s *Service) CompleteSubject(subject string) {
	s.mu.Lock()
	if plan, ok := s.plans[subject]; ok {
		if lesson, ok := plan.CurrentLesson(); ok {
			lesson.Completed = true
			s.tracker.Clear(subject, lesson.ID)
		}
	}
	s.mu.Unlock()
	s.progress.MarkCompleted(subject)
}

// State reports the subject's progress state.
func (s *Service) State(subject string) mastery.State {
	return s.progress.State(subject)
}

// GetLessonPlan is the persistence-boundary reader for a subject's plan.
func (s *Service) GetLessonPlan(subject string) (*lessons.LessonPlan, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	plan, ok := s.plans[subject]
	return plan, ok
}

// LoadLessonPlan installs an externally persisted plan for a subject.
func (s *Service) LoadLessonPlan(subject string, plan *lessons.LessonPlan) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if plan == nil {
		delete(s.plans, subject)
		return
	}
	s.plans[subject] = plan
}

// GetProgress is the persistence-boundary reader for a subject's
// progress.
func (s *Service) GetProgress(subject string) mastery.Progress {
	return s.progress.Progress(subject)
}

// LoadProgress installs externally persisted progress for a subject.
func (s *Service) LoadProgress(subject string, p mastery.Progress) {
	s.progress.LoadProgress(subject, p)
}
