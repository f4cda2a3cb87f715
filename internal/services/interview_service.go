package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yoockh/skillsync/internal/cache"
	"github.com/yoockh/skillsync/internal/events"
	"github.com/yoockh/skillsync/internal/interview"
	"github.com/yoockh/skillsync/internal/models"
	"github.com/yoockh/skillsync/internal/repositories"
	"github.com/yoockh/skillsync/internal/utils"
)

const (
	DefaultQuestionCount = 10
	MinQuestionCount     = 5
	MaxQuestionCount     = 20

	DefaultTimeLimit = 300
	MinTimeLimit     = 60
	MaxTimeLimit     = 600
)

const msgSessionNotFound = "interview session not found"

type CreateSessionInput struct {
	JobRole       string
	Difficulty    models.Difficulty
	Category      models.Category
	QuestionCount int // 0 means default
	TimeLimit     int // seconds, 0 means default
	Skills        []string
}

type InterviewService interface {
	Create(ctx context.Context, userID string, in CreateSessionInput) (*models.InterviewSession, error)
	Get(ctx context.Context, userID, sessionID string) (*models.InterviewSession, error)
	Start(ctx context.Context, userID, sessionID string) (*models.InterviewSession, error)
	SubmitAnswer(ctx context.Context, userID, sessionID, questionID, answer string, timeSpent int) (*models.InterviewSession, error)
	Complete(ctx context.Context, userID, sessionID string) (*models.InterviewSession, error)
	Abandon(ctx context.Context, userID, sessionID string) (*models.InterviewSession, error)
	History(ctx context.Context, userID string) ([]models.SessionSummary, error)
	Analytics(ctx context.Context, userID string) (*models.Analytics, error)
}

type InterviewServiceConfig struct {
	DefaultJobRole    string
	AnalyticsCacheTTL time.Duration
	Now               func() time.Time
}

type interviewService struct {
	repo      repositories.InterviewRepository
	generator QuestionGenerator
	cache     cache.Cache
	bus       events.Bus
	logger    *logrus.Logger

	defaultJobRole string
	analyticsTTL   time.Duration
	now            func() time.Time
}

func NewInterviewService(
	repo repositories.InterviewRepository,
	generator QuestionGenerator,
	c cache.Cache,
	bus events.Bus,
	logger *logrus.Logger,
	cfg InterviewServiceConfig,
) InterviewService {
	if c == nil {
		c = cache.Noop{}
	}
	if cfg.Now == nil {
		cfg.Now = func() time.Time { return time.Now().UTC() }
	}
	if cfg.DefaultJobRole == "" {
		cfg.DefaultJobRole = "Software Developer"
	}
	return &interviewService{
		repo:           repo,
		generator:      generator,
		cache:          c,
		bus:            bus,
		logger:         logger,
		defaultJobRole: cfg.DefaultJobRole,
		analyticsTTL:   cfg.AnalyticsCacheTTL,
		now:            cfg.Now,
	}
}

func (s *interviewService) Create(ctx context.Context, userID string, in CreateSessionInput) (*models.InterviewSession, error) {
	const op = "InterviewService.Create"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}
	if err := normalizeCreateInput(&in, s.defaultJobRole); err != nil {
		return nil, utils.E(utils.CodeInvalidArgument, op, err.Error(), nil)
	}

	questions := s.generator.Generate(ctx, GenerateRequest{
		JobRole:    in.JobRole,
		Skills:     in.Skills,
		Difficulty: in.Difficulty,
		Count:      in.QuestionCount,
	})
	if questions == nil {
		questions = []models.Question{}
	}

	sess := &models.InterviewSession{
		ID:         uuid.NewString(),
		UserID:     userID,
		JobRole:    in.JobRole,
		Difficulty: in.Difficulty,
		Category:   in.Category,
		Questions:  questions,
		Settings: models.SessionSettings{
			QuestionCount:    in.QuestionCount,
			TimeLimitSeconds: in.TimeLimit,
			Categories:       interview.CategoriesFor(in.Category),
			IncludeTimer:     true,
		},
		Stats:     models.SessionStats{Status: models.StatusNotStarted},
		CreatedAt: s.now(),
	}
	interview.RecomputeStats(sess)

	if err := s.repo.Create(ctx, sess); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create interview session", err)
	}

	s.publish(ctx, sess, models.EventSessionCreated, nil)
	s.logger.WithFields(logrus.Fields{
		"session_id": sess.ID,
		"user_id":    userID,
		"questions":  len(sess.Questions),
	}).Info("interview session created")
	return sess, nil
}

func (s *interviewService) Get(ctx context.Context, userID, sessionID string) (*models.InterviewSession, error) {
	return s.load(ctx, "InterviewService.Get", userID, sessionID)
}

func (s *interviewService) Start(ctx context.Context, userID, sessionID string) (*models.InterviewSession, error) {
	const op = "InterviewService.Start"

	sess, err := s.load(ctx, op, userID, sessionID)
	if err != nil {
		return nil, err
	}

	changed, err := interview.Start(sess, s.now())
	if err != nil {
		return nil, transitionError(op, err)
	}
	if !changed {
		return sess, nil
	}
	if err := s.save(ctx, op, sess); err != nil {
		return nil, err
	}
	s.publish(ctx, sess, models.EventSessionStarted, nil)
	return sess, nil
}

func (s *interviewService) SubmitAnswer(ctx context.Context, userID, sessionID, questionID, answer string, timeSpent int) (*models.InterviewSession, error) {
	const op = "InterviewService.SubmitAnswer"

	if questionID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "question_id is required", nil)
	}
	sess, err := s.load(ctx, op, userID, sessionID)
	if err != nil {
		return nil, err
	}

	wasStarted := sess.Stats.Status != models.StatusNotStarted
	q, err := interview.ApplyAnswer(sess, questionID, answer, timeSpent, s.now())
	if err != nil {
		return nil, transitionError(op, err)
	}
	if err := s.save(ctx, op, sess); err != nil {
		return nil, err
	}

	if !wasStarted {
		s.publish(ctx, sess, models.EventSessionStarted, nil)
	}
	score := q.Score
	s.publish(ctx, sess, models.EventAnswerSubmitted, &models.SessionEvent{QuestionID: q.ID, Score: &score})
	return sess, nil
}

func (s *interviewService) Complete(ctx context.Context, userID, sessionID string) (*models.InterviewSession, error) {
	const op = "InterviewService.Complete"

	sess, err := s.load(ctx, op, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if err := interview.Complete(sess, s.now()); err != nil {
		return nil, transitionError(op, err)
	}
	if err := s.save(ctx, op, sess); err != nil {
		return nil, err
	}

	if _, err := s.cache.Incr(ctx, cache.AnalyticsVersionKey(userID)); err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Warn("failed to invalidate analytics cache")
	}
	s.publish(ctx, sess, models.EventSessionCompleted, nil)
	s.logger.WithFields(logrus.Fields{
		"session_id":    sess.ID,
		"user_id":       userID,
		"overall_score": sess.Results.OverallScore,
		"answered":      sess.Stats.AnsweredQuestions,
	}).Info("interview session completed")
	return sess, nil
}

func (s *interviewService) Abandon(ctx context.Context, userID, sessionID string) (*models.InterviewSession, error) {
	const op = "InterviewService.Abandon"

	sess, err := s.load(ctx, op, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if err := interview.Abandon(sess); err != nil {
		return nil, transitionError(op, err)
	}
	if err := s.save(ctx, op, sess); err != nil {
		return nil, err
	}
	s.publish(ctx, sess, models.EventSessionAbandoned, nil)
	return sess, nil
}

func (s *interviewService) History(ctx context.Context, userID string) ([]models.SessionSummary, error) {
	const op = "InterviewService.History"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}
	list, err := s.repo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list interview sessions", err)
	}
	return interview.Summarize(list), nil
}

func (s *interviewService) Analytics(ctx context.Context, userID string) (*models.Analytics, error) {
	const op = "InterviewService.Analytics"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}

	// The version is read before listing: a completion landing in between
	// bumps it, and the snapshot written below goes to an orphaned key.
	var version int64
	cacheable := s.analyticsTTL > 0
	if cacheable {
		if _, err := s.cache.GetJSON(ctx, cache.AnalyticsVersionKey(userID), &version); err != nil {
			s.logger.WithError(err).WithField("user_id", userID).Warn("analytics cache version read failed")
			cacheable = false
		}
	}
	key := cache.AnalyticsKey(userID, version)

	if cacheable {
		var cached models.Analytics
		if hit, err := s.cache.GetJSON(ctx, key, &cached); err != nil {
			s.logger.WithError(err).WithField("user_id", userID).Warn("analytics cache read failed")
		} else if hit {
			return &cached, nil
		}
	}

	list, err := s.repo.ListCompletedByOwner(ctx, userID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list completed sessions", err)
	}
	out := interview.BuildAnalytics(list)

	if cacheable {
		if err := s.cache.SetJSON(ctx, key, out, s.analyticsTTL); err != nil {
			s.logger.WithError(err).WithField("user_id", userID).Warn("analytics cache write failed")
		}
	}
	return &out, nil
}

func (s *interviewService) load(ctx context.Context, op, userID, sessionID string) (*models.InterviewSession, error) {
	if userID == "" || sessionID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id and session_id are required", nil)
	}
	sess, err := s.repo.GetForOwner(ctx, sessionID, userID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, msgSessionNotFound, err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get interview session", err)
	}
	return sess, nil
}

func (s *interviewService) save(ctx context.Context, op string, sess *models.InterviewSession) error {
	if err := s.repo.Save(ctx, sess); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeNotFound, op, msgSessionNotFound, err)
		}
		return utils.E(utils.CodeInternal, op, "failed to save interview session", err)
	}
	return nil
}

// publish is best effort; a lost event never fails the request.
func (s *interviewService) publish(ctx context.Context, sess *models.InterviewSession, typ models.EventType, extra *models.SessionEvent) {
	if s.bus == nil {
		return
	}
	ev := models.SessionEvent{
		Type:      typ,
		SessionID: sess.ID,
		UserID:    sess.UserID,
		Status:    sess.Stats.Status,
		Stats:     sess.Stats,
		Timestamp: s.now(),
	}
	if extra != nil {
		ev.QuestionID = extra.QuestionID
		ev.Score = extra.Score
	}
	if err := s.bus.Publish(ctx, ev); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"session_id": sess.ID,
			"event":      typ,
		}).Warn("failed to publish session event")
	}
}

func transitionError(op string, err error) error {
	switch {
	case errors.Is(err, interview.ErrQuestionNotFound):
		return utils.E(utils.CodeNotFound, op, "question not found", err)
	case errors.Is(err, interview.ErrInvalidTransition):
		return utils.E(utils.CodeConflict, op, "session status does not allow this operation", err)
	default:
		return utils.E(utils.CodeInternal, op, "unexpected state error", err)
	}
}

func normalizeCreateInput(in *CreateSessionInput, defaultRole string) error {
	in.JobRole = strings.TrimSpace(in.JobRole)
	if in.JobRole == "" {
		in.JobRole = defaultRole
	}

	switch in.Difficulty {
	case "":
		in.Difficulty = models.DifficultyMedium
	case models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard:
	default:
		return errors.New("difficulty must be one of Easy, Medium, Hard")
	}

	switch in.Category {
	case "":
		in.Category = models.CategoryMixed
	case models.CategoryTechnical, models.CategoryBehavioral, models.CategoryMixed:
	default:
		return errors.New("category must be one of Technical, Behavioral, Mixed")
	}

	if in.QuestionCount == 0 {
		in.QuestionCount = DefaultQuestionCount
	}
	if in.QuestionCount < MinQuestionCount || in.QuestionCount > MaxQuestionCount {
		return errors.New("questionCount must be between 5 and 20")
	}

	if in.TimeLimit == 0 {
		in.TimeLimit = DefaultTimeLimit
	}
	if in.TimeLimit < MinTimeLimit || in.TimeLimit > MaxTimeLimit {
		return errors.New("timeLimit must be between 60 and 600")
	}

	skills := make([]string, 0, len(in.Skills))
	for _, sk := range in.Skills {
		if sk = strings.TrimSpace(sk); sk != "" {
			skills = append(skills, sk)
		}
	}
	in.Skills = skills
	return nil
}
