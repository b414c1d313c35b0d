package tutor

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/magedabdelsalam/ustaz-sub000/internal/lessons"
	"github.com/magedabdelsalam/ustaz-sub000/internal/mastery"
	"github.com/magedabdelsalam/ustaz-sub000/internal/variety"
)

// snapshotKeep bounds how many snapshots per subject survive a save.
const snapshotKeep = 10

// snapshot is the persisted form of one subject's session state.
type snapshot struct {
	Plan     *lessons.LessonPlan `json:"plan"`
	Progress mastery.Progress    `json:"progress"`
	Criteria mastery.Criteria    `json:"criteria"`
	History  []variety.Record    `json:"history,omitempty"`
}

// SaveSnapshot persists the subject's current plan, progress, criteria,
// and content history through the session repo.
func (s *Service) SaveSnapshot(ctx context.Context, subject string) error {
	if s.sessions == nil {
		return fmt.Errorf("snapshot save for %q: no session store configured", subject)
	}

	s.mu.Lock()
	plan, ok := s.plans[subject]
	s.mu.Unlock()
	if !ok {
		return &ErrNoPlan{Subject: subject}
	}

	snap := snapshot{
		Plan:     plan,
		Progress: s.progress.Progress(subject),
		Criteria: s.progress.CriteriaFor(subject),
	}
	if lesson, ok := plan.CurrentLesson(); ok {
		snap.History = s.tracker.History(subject, lesson.ID)
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding snapshot for %q: %w", subject, err)
	}
	if err := s.sessions.Save(ctx, subject, data); err != nil {
		return fmt.Errorf("saving snapshot for %q: %w", subject, err)
	}
	return s.sessions.Prune(ctx, subject, snapshotKeep)
}

// RestoreSnapshot loads the latest persisted state for a subject.
// Returns false when no snapshot exists.
func (s *Service) RestoreSnapshot(ctx context.Context, subject string) (bool, error) {
	if s.sessions == nil {
		return false, nil
	}

	stored, err := s.sessions.Latest(ctx, subject)
	if err != nil {
		return false, fmt.Errorf("loading snapshot for %q: %w", subject, err)
	}
	if stored == nil {
		return false, nil
	}

	var snap snapshot
	if err := json.Unmarshal(stored.Data, &snap); err != nil {
		return false, fmt.Errorf("decoding snapshot for %q: %w", subject, err)
	}
	if snap.Plan == nil {
		return false, fmt.Errorf("decoding snapshot for %q: missing plan", subject)
	}

	s.LoadLessonPlan(subject, snap.Plan)
	s.LoadProgress(subject, snap.Progress)
	s.progress.SetCriteria(subject, snap.Criteria)
	if lesson, ok := snap.Plan.CurrentLesson(); ok {
		s.tracker.Restore(subject, lesson.ID, snap.History)
	}

	s.mu.Lock()
	s.criteriaDone[subject] = true
	s.mu.Unlock()
	return true, nil
}
