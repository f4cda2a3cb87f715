package repositories

import (
	"context"

	"github.com/yoockh/skillsync/internal/models"
)

// InterviewRepository persists InterviewSession aggregates. Lookups that miss
// return utils.ErrNotFound. Save replaces the whole document.
type InterviewRepository interface {
	Create(ctx context.Context, s *models.InterviewSession) error
	Get(ctx context.Context, id string) (*models.InterviewSession, error)
	GetForOwner(ctx context.Context, id, userID string) (*models.InterviewSession, error)
	Save(ctx context.Context, s *models.InterviewSession) error
	ListByOwner(ctx context.Context, userID string) ([]models.InterviewSession, error)
	ListCompletedByOwner(ctx context.Context, userID string) ([]models.InterviewSession, error)
}
