package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/yoockh/skillsync/internal/models"
	"github.com/yoockh/skillsync/internal/repositories"
	"github.com/yoockh/skillsync/internal/utils"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// interviewRow is the relational shape of an InterviewSession. Nested parts
// live in JSONB columns; status and timestamps are lifted out for filtering.
type interviewRow struct {
	ID         string `gorm:"column:id;type:uuid;primaryKey"`
	UserID     string `gorm:"column:user_id;type:text;index:idx_interview_user_created,priority:1"`
	JobRole    string `gorm:"column:job_role;type:text"`
	Difficulty string `gorm:"column:difficulty;type:text"`
	Category   string `gorm:"column:category;type:text"`
	Status     string `gorm:"column:status;type:text;index"`

	Categories pq.StringArray `gorm:"column:categories;type:text[]"`

	Questions datatypes.JSON `gorm:"column:questions;type:jsonb"`
	Settings  datatypes.JSON `gorm:"column:session_settings;type:jsonb"`
	Stats     datatypes.JSON `gorm:"column:session_stats;type:jsonb"`
	Results   datatypes.JSON `gorm:"column:results;type:jsonb"`

	CompletedAt *time.Time `gorm:"column:completed_at;type:timestamptz"`
	CreatedAt   time.Time  `gorm:"column:created_at;type:timestamptz;index:idx_interview_user_created,priority:2,sort:desc"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;type:timestamptz"`
}

func (interviewRow) TableName() string { return "interview_sessions" }

type interviewRepo struct {
	db *gorm.DB
}

func NewInterviewRepo(db *gorm.DB) repositories.InterviewRepository {
	return &interviewRepo{db: db}
}

// Migrate creates or updates the interview_sessions table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&interviewRow{})
}

func (r *interviewRepo) Create(ctx context.Context, s *models.InterviewSession) error {
	now := time.Now().UTC()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now

	row, err := toRow(s)
	if err != nil {
		return err
	}
	err = r.db.WithContext(ctx).Create(row).Error
	if isUniqueViolation(err) {
		return utils.ErrConflict
	}
	return err
}

func (r *interviewRepo) Get(ctx context.Context, id string) (*models.InterviewSession, error) {
	if !isSessionID(id) {
		return nil, utils.ErrNotFound
	}
	return r.take(ctx, r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *interviewRepo) GetForOwner(ctx context.Context, id, userID string) (*models.InterviewSession, error) {
	if !isSessionID(id) {
		return nil, utils.ErrNotFound
	}
	return r.take(ctx, r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID))
}

func (r *interviewRepo) take(_ context.Context, q *gorm.DB) (*models.InterviewSession, error) {
	var row interviewRow
	err := q.Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return fromRow(&row)
}

func (r *interviewRepo) Save(ctx context.Context, s *models.InterviewSession) error {
	if !isSessionID(s.ID) {
		return utils.ErrNotFound
	}
	s.UpdatedAt = time.Now().UTC()
	row, err := toRow(s)
	if err != nil {
		return err
	}

	res := r.db.WithContext(ctx).
		Model(&interviewRow{}).
		Where("id = ? AND user_id = ?", s.ID, s.UserID).
		Select("*").
		Omit("id", "created_at").
		Updates(row)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *interviewRepo) ListByOwner(ctx context.Context, userID string) ([]models.InterviewSession, error) {
	return r.list(r.db.WithContext(ctx).Where("user_id = ?", userID))
}

func (r *interviewRepo) ListCompletedByOwner(ctx context.Context, userID string) ([]models.InterviewSession, error) {
	return r.list(r.db.WithContext(ctx).Where("user_id = ? AND status = ?", userID, string(models.StatusCompleted)))
}

func (r *interviewRepo) list(q *gorm.DB) ([]models.InterviewSession, error) {
	var rows []interviewRow
	if err := q.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]models.InterviewSession, 0, len(rows))
	for i := range rows {
		s, err := fromRow(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, nil
}

func toRow(s *models.InterviewSession) (*interviewRow, error) {
	questions, err := json.Marshal(s.Questions)
	if err != nil {
		return nil, err
	}
	settings, err := json.Marshal(s.Settings)
	if err != nil {
		return nil, err
	}
	stats, err := json.Marshal(s.Stats)
	if err != nil {
		return nil, err
	}
	results, err := json.Marshal(s.Results)
	if err != nil {
		return nil, err
	}

	cats := make(pq.StringArray, 0, len(s.Settings.Categories))
	for _, c := range s.Settings.Categories {
		cats = append(cats, string(c))
	}

	return &interviewRow{
		ID:          s.ID,
		UserID:      s.UserID,
		JobRole:     s.JobRole,
		Difficulty:  string(s.Difficulty),
		Category:    string(s.Category),
		Status:      string(s.Stats.Status),
		Categories:  cats,
		Questions:   datatypes.JSON(questions),
		Settings:    datatypes.JSON(settings),
		Stats:       datatypes.JSON(stats),
		Results:     datatypes.JSON(results),
		CompletedAt: s.Stats.CompletedAt,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}, nil
}

func fromRow(row *interviewRow) (*models.InterviewSession, error) {
	s := &models.InterviewSession{
		ID:         row.ID,
		UserID:     row.UserID,
		JobRole:    row.JobRole,
		Difficulty: models.Difficulty(row.Difficulty),
		Category:   models.Category(row.Category),
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}
	if err := unmarshalColumn(row.Questions, &s.Questions); err != nil {
		return nil, err
	}
	if err := unmarshalColumn(row.Settings, &s.Settings); err != nil {
		return nil, err
	}
	if err := unmarshalColumn(row.Stats, &s.Stats); err != nil {
		return nil, err
	}
	if err := unmarshalColumn(row.Results, &s.Results); err != nil {
		return nil, err
	}
	if s.Questions == nil {
		s.Questions = []models.Question{}
	}
	return s, nil
}

func unmarshalColumn(raw datatypes.JSON, v any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, v)
}

// isSessionID reports whether id can match the uuid primary key. Anything else
// would be rejected by Postgres with 22P02, so it is treated as absent.
func isSessionID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
