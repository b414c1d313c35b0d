package tutor

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/magedabdelsalam/ustaz-sub000/internal/content"
	"github.com/magedabdelsalam/ustaz-sub000/internal/llm"
	"github.com/magedabdelsalam/ustaz-sub000/internal/store"
)

// fakeSessionRepo keeps snapshots in memory, newest last.
type fakeSessionRepo struct {
	saved map[string][]json.RawMessage
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{saved: make(map[string][]json.RawMessage)}
}

func (f *fakeSessionRepo) Save(_ context.Context, subject string, data json.RawMessage) error {
	f.saved[subject] = append(f.saved[subject], data)
	return nil
}

func (f *fakeSessionRepo) Latest(_ context.Context, subject string) (*store.SessionSnapshot, error) {
	snaps := f.saved[subject]
	if len(snaps) == 0 {
		return nil, nil
	}
	return &store.SessionSnapshot{Subject: subject, Data: snaps[len(snaps)-1]}, nil
}

func (f *fakeSessionRepo) Prune(_ context.Context, subject string, keep int) error {
	snaps := f.saved[subject]
	if len(snaps) > keep {
		f.saved[subject] = snaps[len(snaps)-keep:]
	}
	return nil
}

func TestSnapshotRoundTrip(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(planJSON)},
		llm.MockResponse{Content: json.RawMessage(criteriaJSON)},
	)
	repo := newFakeSessionRepo()
	svc := newTestTutor(t, mock, repo)

	if _, err := svc.EnsurePlan(context.Background(), "Algebra"); err != nil {
		t.Fatalf("EnsurePlan: %v", err)
	}
	plan, _ := svc.GetLessonPlan("Algebra")
	lesson, _ := plan.CurrentLesson()
	svc.tracker.Record("Algebra", lesson.ID, content.KindExplainer, "variables", "beginner")
	svc.SubmitAnswer("Algebra", true)
	svc.SubmitAnswer("Algebra", false)

	if err := svc.SaveSnapshot(context.Background(), "Algebra"); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}

	// A fresh service restores the same state without any generation.
	restored := newTestTutor(t, llm.NewMockProvider(), repo)
	ok, err := restored.RestoreSnapshot(context.Background(), "Algebra")
	if err != nil {
		t.Fatalf("RestoreSnapshot: %v", err)
	}
	if !ok {
		t.Fatal("RestoreSnapshot found no snapshot")
	}

	gotPlan, ok := restored.GetLessonPlan("Algebra")
	if !ok || len(gotPlan.Lessons) != len(plan.Lessons) {
		t.Fatalf("restored plan = %+v", gotPlan)
	}
	if got := restored.GetProgress("Algebra"); got.TotalAttempts != 2 || got.CorrectAnswers != 1 {
		t.Errorf("restored progress = %+v", got)
	}
	if got := restored.progress.CriteriaFor("Algebra"); got.MinCorrectAnswers != 4 {
		t.Errorf("restored criteria = %+v", got)
	}
	gotLesson, _ := gotPlan.CurrentLesson()
	if got := restored.tracker.History("Algebra", gotLesson.ID); len(got) != 1 {
		t.Errorf("restored history length = %d, want 1", len(got))
	}
}

func TestRestoreSnapshotAbsent(t *testing.T) {
	svc := newTestTutor(t, llm.NewMockProvider(), newFakeSessionRepo())
	ok, err := svc.RestoreSnapshot(context.Background(), "Algebra")
	if err != nil {
		t.Fatalf("RestoreSnapshot: %v", err)
	}
	if ok {
		t.Error("RestoreSnapshot reported a snapshot where none exists")
	}
}

func TestSaveSnapshotWithoutPlan(t *testing.T) {
	svc := newTestTutor(t, llm.NewMockProvider(), newFakeSessionRepo())
	err := svc.SaveSnapshot(context.Background(), "Algebra")
	if err == nil {
		t.Fatal("SaveSnapshot succeeded without a plan")
	}
}

func TestSnapshotPruneKeepsRecent(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(planJSON)},
		llm.MockResponse{Content: json.RawMessage(criteriaJSON)},
	)
	repo := newFakeSessionRepo()
	svc := newTestTutor(t, mock, repo)

	if _, err := svc.EnsurePlan(context.Background(), "Algebra"); err != nil {
		t.Fatalf("EnsurePlan: %v", err)
	}
	for i := 0; i < snapshotKeep+3; i++ {
		if err := svc.SaveSnapshot(context.Background(), "Algebra"); err != nil {
			t.Fatalf("SaveSnapshot %d: %v", i, err)
		}
	}
	if got := len(repo.saved["Algebra"]); got > snapshotKeep {
		t.Errorf("%d snapshots retained, want at most %d", got, snapshotKeep)
	}
}

func TestRestoredProgressKeepsCriteria(t *testing.T) {
	// Restoring must not re-trigger criteria derivation on EnsurePlan.
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(planJSON)},
		llm.MockResponse{Content: json.RawMessage(criteriaJSON)},
	)
	repo := newFakeSessionRepo()
	svc := newTestTutor(t, mock, repo)

	if _, err := svc.EnsurePlan(context.Background(), "Algebra"); err != nil {
		t.Fatalf("EnsurePlan: %v", err)
	}
	if err := svc.SaveSnapshot(context.Background(), "Algebra"); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}

	fresh := llm.NewMockProvider()
	restored := newTestTutor(t, fresh, repo)
	if _, err := restored.RestoreSnapshot(context.Background(), "Algebra"); err != nil {
		t.Fatalf("RestoreSnapshot: %v", err)
	}
	if _, err := restored.EnsurePlan(context.Background(), "Algebra"); err != nil {
		t.Fatalf("EnsurePlan after restore: %v", err)
	}
	if fresh.CallCount() != 0 {
		t.Errorf("EnsurePlan after restore made %d generation calls", fresh.CallCount())
	}
	if got := restored.progress.CriteriaFor("Algebra"); got.MinCorrectAnswers != 4 {
		t.Errorf("criteria after restore = %+v", got)
	}
}
