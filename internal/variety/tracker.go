// Package variety keeps a rolling history of generated exercise items
// per (subject, lesson). Its checks are a proxy for engagement: a
// learner who has only seen one exercise shape is not judged ready, and
// a struggling learner needs broader exposure than a strong one.
package variety

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/magedabdelsalam/ustaz-sub000/internal/content"
)

// Record is one generated content item.
type Record struct {
	ID         string
	Kind       content.Kind
	Topic      string
	Difficulty string
	Timestamp  time.Time
}

// Tracker records generated content history. Safe for concurrent use.
type Tracker struct {
	mu      sync.Mutex
	history map[historyKey][]Record
	now     func() time.Time
}

type historyKey struct {
	subject  string
	lessonID string
}

// NewTracker creates an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{
		history: make(map[historyKey][]Record),
		now:     time.Now,
	}
}

// NewTrackerWithClock creates a Tracker with an injected clock.
func NewTrackerWithClock(clock func() time.Time) *Tracker {
	t := NewTracker()
	t.now = clock
	return t
}

// Record appends a generated item to the (subject, lesson) history.
func (t *Tracker) Record(subject, lessonID string, kind content.Kind, topic, difficulty string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := historyKey{subject: subject, lessonID: lessonID}
	t.history[key] = append(t.history[key], Record{
		ID:         uuid.NewString(),
		Kind:       kind,
		Topic:      topic,
		Difficulty: difficulty,
		Timestamp:  t.now(),
	})
}

// History returns the ordered record list for a (subject, lesson), a copy.
func (t *Tracker) History(subject, lessonID string) []Record {
	t.mu.Lock()
	defer t.mu.Unlock()

	records := t.history[historyKey{subject: subject, lessonID: lessonID}]
	out := make([]Record, len(records))
	copy(out, records)
	return out
}

// Restore replaces the history for a (subject, lesson) with previously
// persisted records, preserving their order and timestamps.
func (t *Tracker) Restore(subject, lessonID string, records []Record) {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := historyKey{subject: subject, lessonID: lessonID}
	if len(records) == 0 {
		delete(t.history, key)
		return
	}
	t.history[key] = append([]Record(nil), records...)
}

// Clear drops the history for a (subject, lesson). Called when a lesson
// completes so stale repetition checks don't bleed into the next one.
func (t *Tracker) Clear(subject, lessonID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.history, historyKey{subject: subject, lessonID: lessonID})
}

// HasVariety reports whether the learner has seen enough distinct
// content for their accuracy tier. Strong performers (≥0.8) need little
// friction; struggling learners need broader exposure before being
// judged ready.
func (t *Tracker) HasVariety(subject, lessonID string, accuracy float64) bool {
	records := t.History(subject, lessonID)
	kinds := distinctKinds(records)

	switch {
	case accuracy >= 0.8:
		return len(records) >= 2
	case accuracy >= 0.6:
		return len(records) >= 3 && kinds >= 2
	default:
		return len(records) >= 4 && kinds >= 3
	}
}

// Engagement score weights.
const (
	recencyWeight     = 0.4
	kindVarietyWeight = 0.3
	countWeight       = 0.3

	recencyWindow  = 24 * time.Hour
	kindVarietyCap = 3
	interactionCap = 3
	neutralEngaged = 0.5
)

// EngagementScore blends recency, kind variety, and interaction count
// into [0,1]. Returns the neutral midpoint when there is no lesson
// context or no history yet.
func (t *Tracker) EngagementScore(subject, lessonID string) float64 {
	if lessonID == "" {
		return neutralEngaged
	}
	records := t.History(subject, lessonID)
	if len(records) == 0 {
		return neutralEngaged
	}

	// Recency decays linearly to 0 over 24h from the most recent item.
	latest := records[len(records)-1].Timestamp
	age := t.now().Sub(latest)
	recency := 1 - float64(age)/float64(recencyWindow)
	if recency < 0 {
		recency = 0
	}

	kinds := float64(distinctKinds(records))
	if kinds > kindVarietyCap {
		kinds = kindVarietyCap
	}

	count := float64(len(records))
	if count > interactionCap {
		count = interactionCap
	}

	return recencyWeight*recency +
		kindVarietyWeight*(kinds/kindVarietyCap) +
		countWeight*(count/interactionCap)
}

func distinctKinds(records []Record) int {
	seen := make(map[content.Kind]bool)
	for _, r := range records {
		seen[r.Kind] = true
	}
	return len(seen)
}
