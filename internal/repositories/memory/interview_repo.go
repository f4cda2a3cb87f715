package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/yoockh/skillsync/internal/models"
	"github.com/yoockh/skillsync/internal/repositories"
	"github.com/yoockh/skillsync/internal/utils"
)

type interviewRepo struct {
	mu       sync.RWMutex
	sessions map[string]*models.InterviewSession
}

// NewInterviewRepo returns a process-local store. Every read and write copies
// the aggregate so callers never alias stored state.
func NewInterviewRepo() repositories.InterviewRepository {
	return &interviewRepo{sessions: map[string]*models.InterviewSession{}}
}

func (r *interviewRepo) Create(_ context.Context, s *models.InterviewSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[s.ID]; ok {
		return utils.ErrConflict
	}
	now := time.Now().UTC()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now
	r.sessions[s.ID] = s.Clone()
	return nil
}

func (r *interviewRepo) Get(_ context.Context, id string) (*models.InterviewSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return s.Clone(), nil
}

func (r *interviewRepo) GetForOwner(ctx context.Context, id, userID string) (*models.InterviewSession, error) {
	s, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.UserID != userID {
		return nil, utils.ErrNotFound
	}
	return s, nil
}

func (r *interviewRepo) Save(_ context.Context, s *models.InterviewSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.sessions[s.ID]
	if !ok || existing.UserID != s.UserID {
		return utils.ErrNotFound
	}
	s.UpdatedAt = time.Now().UTC()
	r.sessions[s.ID] = s.Clone()
	return nil
}

func (r *interviewRepo) ListByOwner(_ context.Context, userID string) ([]models.InterviewSession, error) {
	return r.list(userID, func(*models.InterviewSession) bool { return true }), nil
}

func (r *interviewRepo) ListCompletedByOwner(_ context.Context, userID string) ([]models.InterviewSession, error) {
	return r.list(userID, func(s *models.InterviewSession) bool {
		return s.Stats.Status == models.StatusCompleted
	}), nil
}

func (r *interviewRepo) list(userID string, keep func(*models.InterviewSession) bool) []models.InterviewSession {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []models.InterviewSession{}
	for _, s := range r.sessions {
		if s.UserID == userID && keep(s) {
			out = append(out, *s.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}
