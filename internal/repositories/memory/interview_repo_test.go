package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/yoockh/skillsync/internal/models"
	"github.com/yoockh/skillsync/internal/repositories/memory"
	"github.com/yoockh/skillsync/internal/utils"
)

func TestInterviewRepo_OwnerScoping(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewInterviewRepo()

	s := &models.InterviewSession{ID: "s1", UserID: "alice", Questions: []models.Question{{ID: "q1"}}}
	if err := repo.Create(ctx, s); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Create(ctx, s); !errors.Is(err, utils.ErrConflict) {
		t.Fatalf("expected conflict on duplicate id, got %v", err)
	}

	if _, err := repo.GetForOwner(ctx, "s1", "bob"); !errors.Is(err, utils.ErrNotFound) {
		t.Fatalf("expected not found for other owner, got %v", err)
	}
	got, err := repo.GetForOwner(ctx, "s1", "alice")
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	// mutating the returned copy must not leak into the store
	got.Questions[0].UserAnswer = "changed"
	again, _ := repo.Get(ctx, "s1")
	if again.Questions[0].UserAnswer != "" {
		t.Fatalf("store aliases caller state")
	}

	got.UserID = "bob"
	if err := repo.Save(ctx, got); !errors.Is(err, utils.ErrNotFound) {
		t.Fatalf("save under another owner must fail, got %v", err)
	}
}

func TestInterviewRepo_Listing(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewInterviewRepo()
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"old", "mid", "new"} {
		s := &models.InterviewSession{ID: id, UserID: "alice", CreatedAt: base.Add(time.Duration(i) * time.Hour)}
		if id == "mid" {
			s.Stats.Status = models.StatusCompleted
		}
		if err := repo.Create(ctx, s); err != nil {
			t.Fatalf("create %s: %v", id, err)
		}
	}
	_ = repo.Create(ctx, &models.InterviewSession{ID: "other", UserID: "bob"})

	all, err := repo.ListByOwner(ctx, "alice")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 || all[0].ID != "new" || all[2].ID != "old" {
		t.Fatalf("expected newest first, got %+v", all)
	}

	done, err := repo.ListCompletedByOwner(ctx, "alice")
	if err != nil {
		t.Fatalf("list completed: %v", err)
	}
	if len(done) != 1 || done[0].ID != "mid" {
		t.Fatalf("unexpected completed list %+v", done)
	}
}
