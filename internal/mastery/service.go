package mastery

import (
	"math"
	"sync"

	"github.com/magedabdelsalam/ustaz-sub000/internal/variety"
)

// Service tracks per-subject progress and decides lesson advancement.
// All methods are safe for concurrent use.
type Service struct {
	mu        sync.Mutex
	progress  map[string]Progress
	criteria  map[string]Criteria
	completed map[string]bool
	tracker   *variety.Tracker
}

// NewService returns a Service that consults tracker for content
// variety and engagement when evaluating readiness.
func NewService(tracker *variety.Tracker) *Service {
	return &Service{
		progress:  make(map[string]Progress),
		criteria:  make(map[string]Criteria),
		completed: make(map[string]bool),
		tracker:   tracker,
	}
}

// SetCriteria installs criteria for a subject, replacing any preset.
// Values are clamped before storage.
func (s *Service) SetCriteria(subject string, c Criteria) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.criteria[subject] = c.Clamp()
}

// CriteriaFor returns the stored criteria for a subject, falling back
// to the category preset.
func (s *Service) CriteriaFor(subject string) Criteria {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.criteriaLocked(subject)
}

func (s *Service) criteriaLocked(subject string) Criteria {
	if c, ok := s.criteria[subject]; ok {
		return c
	}
	return PresetFor(subject)
}

// UpdateProgress records one answer for a subject and re-evaluates
// readiness against the subject's adjusted thresholds. lessonID scopes
// the variety history consulted for engagement; an empty lessonID
// yields a neutral engagement score.
func (s *Service) UpdateProgress(subject string, isCorrect bool, lessonID string) Progress {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.progress[subject]
	p.TotalAttempts++
	if isCorrect {
		p.CorrectAnswers++
	}
	accuracy := p.Accuracy()

	c := s.criteriaLocked(subject)
	// Without a lesson context there is no variety history to judge,
	// so engagement stays neutral and the variety gate is open.
	engagement := 0.5
	hasVariety := true
	if s.tracker != nil && lessonID != "" {
		engagement = s.tracker.EngagementScore(subject, lessonID)
		hasVariety = s.tracker.HasVariety(subject, lessonID, accuracy)
	}

	adjMinCorrect := int(math.Ceil(float64(c.MinCorrectAnswers) * c.Factors.DifficultyAdjustment))
	adjMinAccuracy := c.MinAccuracy * (1 + (engagement-0.5)*c.Factors.EngagementWeight)
	adjMinAttempts := c.MinTotalAttempts
	if adjMinCorrect+1 > adjMinAttempts {
		adjMinAttempts = adjMinCorrect + 1
	}

	p.ReadyForNext = p.CorrectAnswers >= adjMinCorrect &&
		p.TotalAttempts >= adjMinAttempts &&
		accuracy >= adjMinAccuracy &&
		hasVariety
	p.NeedsReview = !p.ReadyForNext && accuracy < adjMinAccuracy*0.8

	s.progress[subject] = p
	return p
}

// Progress returns the current progress for a subject.
func (s *Service) Progress(subject string) Progress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress[subject]
}

// LoadProgress restores previously persisted progress for a subject.
func (s *Service) LoadProgress(subject string, p Progress) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress[subject] = p
}

// ResetProgress clears counters for a subject, typically after
// advancing to the next lesson.
func (s *Service) ResetProgress(subject string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.progress, subject)
}

// MarkCompleted flags a subject's full lesson plan as finished.
func (s *Service) MarkCompleted(subject string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.completed[subject] = true
}

// State reports the lifecycle state for a subject.
func (s *Service) State(subject string) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.completed[subject] {
		return StateCompleted
	}
	p, ok := s.progress[subject]
	if !ok || p.TotalAttempts == 0 {
		return StateNotStarted
	}
	switch {
	case p.ReadyForNext:
		return StateReadyForNext
	case p.NeedsReview:
		return StateNeedsReview
	default:
		return StateInProgress
	}
}
