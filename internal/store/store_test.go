package store

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func appendEvent(t *testing.T, repo EventRepo, data LLMRequestEventData) {
	t.Helper()
	if err := repo.AppendLLMRequest(context.Background(), data); err != nil {
		t.Fatalf("AppendLLMRequest: %v", err)
	}
}

func TestAppendAndQueryLLMEvents(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.EventRepo()

	appendEvent(t, repo, LLMRequestEventData{
		Provider: "mock", Model: "mock", Purpose: "lesson-plan",
		InputTokens: 100, OutputTokens: 50, LatencyMs: 250, Success: true,
	})
	appendEvent(t, repo, LLMRequestEventData{
		Provider: "mock", Model: "mock", Purpose: "tutor-response",
		Success: false, ErrorMessage: "completion provider unavailable",
	})

	events, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("QueryLLMEvents: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("len(events) = %d, want 2", len(events))
	}

	// Newest first.
	if events[0].Purpose != "tutor-response" || events[0].Success {
		t.Errorf("events[0] = %+v, want the failed tutor-response event", events[0])
	}
	if events[1].Purpose != "lesson-plan" || events[1].InputTokens != 100 {
		t.Errorf("events[1] = %+v, want the lesson-plan event", events[1])
	}
	if events[1].Timestamp.IsZero() {
		t.Error("persisted event has zero timestamp")
	}
}

func TestQueryLLMEventsFilters(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.EventRepo()

	for i := 0; i < 5; i++ {
		appendEvent(t, repo, LLMRequestEventData{
			Provider: "mock", Model: "mock", Purpose: "lesson-content", Success: true,
		})
	}
	appendEvent(t, repo, LLMRequestEventData{
		Provider: "mock", Model: "mock", Purpose: "criteria", Success: true,
	})

	events, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 3})
	if err != nil {
		t.Fatalf("QueryLLMEvents: %v", err)
	}
	if len(events) != 3 {
		t.Errorf("limited query returned %d events, want 3", len(events))
	}

	events, err = repo.QueryLLMEvents(ctx, QueryOpts{Purpose: "criteria"})
	if err != nil {
		t.Fatalf("QueryLLMEvents: %v", err)
	}
	if len(events) != 1 || events[0].Purpose != "criteria" {
		t.Errorf("purpose filter returned %+v, want one criteria event", events)
	}
}

func TestSessionSnapshotRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.SessionRepo()

	none, err := repo.Latest(ctx, "Algebra")
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if none != nil {
		t.Fatalf("Latest on empty store = %+v, want nil", none)
	}

	saves := []struct {
		subject string
		data    string
	}{
		{"Algebra", `{"version":1,"lessonIndex":0}`},
		{"Algebra", `{"version":1,"lessonIndex":2}`},
		{"Biology", `{"version":1,"lessonIndex":5}`},
	}
	for _, sv := range saves {
		if err := repo.Save(ctx, sv.subject, json.RawMessage(sv.data)); err != nil {
			t.Fatalf("Save(%s): %v", sv.subject, err)
		}
	}

	snap, err := repo.Latest(ctx, "Algebra")
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if snap == nil {
		t.Fatal("Latest returned nil after saves")
	}
	if snap.Subject != "Algebra" {
		t.Errorf("Subject = %q", snap.Subject)
	}
	var got struct {
		LessonIndex int `json:"lessonIndex"`
	}
	if err := json.Unmarshal(snap.Data, &got); err != nil {
		t.Fatalf("snapshot data not valid JSON: %v", err)
	}
	if got.LessonIndex != 2 {
		t.Errorf("lessonIndex = %d, want the most recent save (2)", got.LessonIndex)
	}
}

func TestSessionSnapshotPrune(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.SessionRepo()

	for i := 0; i < 5; i++ {
		if err := repo.Save(ctx, "Algebra", json.RawMessage(`{"v":1}`)); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}
	if err := repo.Prune(ctx, "Algebra", 2); err != nil {
		t.Fatalf("Prune: %v", err)
	}

	var count int
	if err := s.DB().QueryRow(
		`SELECT COUNT(*) FROM session_snapshots WHERE subject = ?`, "Algebra").Scan(&count); err != nil {
		t.Fatalf("count query: %v", err)
	}
	if count != 2 {
		t.Errorf("snapshots after prune = %d, want 2", count)
	}

	// Latest survives pruning.
	snap, err := repo.Latest(ctx, "Algebra")
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if snap == nil {
		t.Fatal("Latest returned nil after prune")
	}
}
