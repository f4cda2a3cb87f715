package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/yoockh/skillsync/internal/models"
	"github.com/yoockh/skillsync/internal/repositories"
	"github.com/yoockh/skillsync/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const InterviewCollection = "interview_sessions"

type interviewRepo struct {
	col *mongo.Collection
}

func NewInterviewRepo(db *mongo.Database) repositories.InterviewRepository {
	return &interviewRepo{col: db.Collection(InterviewCollection)}
}

func (r *interviewRepo) Create(ctx context.Context, s *models.InterviewSession) error {
	now := time.Now().UTC()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now
	_, err := r.col.InsertOne(ctx, s)
	if mongo.IsDuplicateKeyError(err) {
		return utils.ErrConflict
	}
	return err
}

func (r *interviewRepo) Get(ctx context.Context, id string) (*models.InterviewSession, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *interviewRepo) GetForOwner(ctx context.Context, id, userID string) (*models.InterviewSession, error) {
	return r.findOne(ctx, bson.M{"_id": id, "user_id": userID})
}

func (r *interviewRepo) findOne(ctx context.Context, filter bson.M) (*models.InterviewSession, error) {
	var s models.InterviewSession
	err := r.col.FindOne(ctx, filter).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *interviewRepo) Save(ctx context.Context, s *models.InterviewSession) error {
	s.UpdatedAt = time.Now().UTC()
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": s.ID, "user_id": s.UserID}, s)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *interviewRepo) ListByOwner(ctx context.Context, userID string) ([]models.InterviewSession, error) {
	return r.find(ctx, bson.M{"user_id": userID})
}

func (r *interviewRepo) ListCompletedByOwner(ctx context.Context, userID string) ([]models.InterviewSession, error) {
	return r.find(ctx, bson.M{
		"user_id":              userID,
		"session_stats.status": models.StatusCompleted,
	})
}

func (r *interviewRepo) find(ctx context.Context, filter bson.M) ([]models.InterviewSession, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.InterviewSession{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
