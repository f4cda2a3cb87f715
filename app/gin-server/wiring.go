package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/yoockh/skillsync/config"
	"github.com/yoockh/skillsync/internal/api/handlers"
	"github.com/yoockh/skillsync/internal/api/middleware"
	"github.com/yoockh/skillsync/internal/api/routes"
	"github.com/yoockh/skillsync/internal/cache"
	"github.com/yoockh/skillsync/internal/events"
	"github.com/yoockh/skillsync/internal/interview"
	"github.com/yoockh/skillsync/internal/providers/llm"
	"github.com/yoockh/skillsync/internal/providers/stt"
	"github.com/yoockh/skillsync/internal/repositories"
	"github.com/yoockh/skillsync/internal/repositories/memory"
	mongorepo "github.com/yoockh/skillsync/internal/repositories/mongo"
	pgrepo "github.com/yoockh/skillsync/internal/repositories/postgres"
	"github.com/yoockh/skillsync/internal/services"
	"github.com/yoockh/skillsync/internal/storage"
	"github.com/yoockh/skillsync/internal/validator"
	"github.com/yoockh/skillsync/internal/workers"
)

type application struct {
	router  *gin.Engine
	archive *workers.ArchiveWorkerPool
	closers []func() error
	logger  *logrus.Logger
}

func (a *application) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.WithError(err).Warn("close failed")
		}
	}
}

func (a *application) wait() {
	if a.archive != nil {
		a.archive.Wait()
	}
}

func build(ctx context.Context, cfg *config.Config, l *logrus.Logger) (*application, error) {
	app := &application{logger: l}
	validator.Setup()

	repo, err := openStore(ctx, cfg, l, app)
	if err != nil {
		app.close()
		return nil, err
	}

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb, err = config.InitRedis(ctx, cfg.RedisURL)
		if err != nil {
			app.close()
			return nil, fmt.Errorf("redis: %w", err)
		}
		app.closers = append(app.closers, rdb.Close)
		l.Info("redis connected")
	}

	var (
		c   cache.Cache = cache.Noop{}
		bus events.Bus  = events.NewLocalBus()
	)
	if rdb != nil {
		c = cache.NewRedisCache(rdb)
		bus = events.NewRedisBus(rdb, l)
	}

	provider, err := openProvider(ctx, cfg, l)
	if err != nil {
		app.close()
		return nil, err
	}
	if provider != nil {
		app.closers = append(app.closers, provider.Close)
	}

	var speech stt.Provider
	if cfg.SpeechEnabled {
		gs, err := stt.NewGoogleSpeech(ctx)
		if err != nil {
			app.close()
			return nil, fmt.Errorf("speech: %w", err)
		}
		app.closers = append(app.closers, gs.Close)
		speech = gs
		l.Info("speech transcription enabled")
	}

	gen := services.NewQuestionGenerator(provider, interview.NewLineParser(), cfg.AITimeout, l)
	svc := services.NewInterviewService(repo, gen, c, bus, l, services.InterviewServiceConfig{
		DefaultJobRole:    cfg.DefaultJobRole,
		AnalyticsCacheTTL: cfg.AnalyticsCacheTTL,
	})

	if cfg.GCSBucket != "" && rdb != nil {
		up, err := storage.NewGCSUploader(ctx, cfg.GCSBucket)
		if err != nil {
			app.close()
			return nil, fmt.Errorf("gcs: %w", err)
		}
		app.closers = append(app.closers, up.Close)

		app.archive = &workers.ArchiveWorkerPool{
			Redis:    rdb,
			Sessions: repo,
			Uploader: up,
			Logger:   l,
		}
		if err := app.archive.Start(ctx); err != nil {
			app.close()
			return nil, fmt.Errorf("archive worker: %w", err)
		}
		l.WithField("bucket", cfg.GCSBucket).Info("archive worker started")
	}

	var limiter *middleware.RateLimiter
	if cfg.CreateRatePerMinute > 0 {
		limiter = middleware.NewRateLimiter(ctx, cfg.CreateRatePerMinute, time.Minute)
	}

	app.router = routes.NewRouter(routes.Deps{
		Interview: handlers.NewInterviewHandler(svc, speech),
		WS:        handlers.NewWSHandler(svc, bus, l, cfg.AllowedOrigins),
		JWT: middleware.JWTConfig{
			Secret:   cfg.JWTSecret,
			Issuer:   cfg.JWTIssuer,
			Audience: cfg.JWTAudience,
		},
		CreateLimiter:  limiter,
		Logger:         l,
		AllowedOrigins: cfg.AllowedOrigins,
	})
	return app, nil
}

func openStore(ctx context.Context, cfg *config.Config, l *logrus.Logger, app *application) (repositories.InterviewRepository, error) {
	switch cfg.StoreDriver {
	case config.StoreMongo:
		client, err := config.InitMongo(ctx, cfg.MongoURI)
		if err != nil {
			return nil, fmt.Errorf("mongo: %w", err)
		}
		app.closers = append(app.closers, func() error {
			dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return client.Disconnect(dctx)
		})
		db := client.Database(cfg.MongoDB)
		if err := config.EnsureMongoIndexes(ctx, db); err != nil {
			return nil, fmt.Errorf("mongo indexes: %w", err)
		}
		l.WithField("db", cfg.MongoDB).Info("mongodb connected")
		return mongorepo.NewInterviewRepo(db), nil

	case config.StorePostgres:
		db, err := config.InitPostgres(cfg.PostgresURI)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		if sqlDB, err := db.DB(); err == nil {
			app.closers = append(app.closers, sqlDB.Close)
		}
		if err := pgrepo.Migrate(db); err != nil {
			return nil, fmt.Errorf("postgres migrate: %w", err)
		}
		l.Info("postgresql connected")
		return pgrepo.NewInterviewRepo(db), nil

	default:
		l.Warn("using in-memory store; sessions are lost on restart")
		return memory.NewInterviewRepo(), nil
	}
}

// openProvider prefers the API-key client, then Vertex. No provider means
// every session uses the built-in questions.
func openProvider(ctx context.Context, cfg *config.Config, l *logrus.Logger) (llm.Provider, error) {
	switch {
	case cfg.GeminiAPIKey != "":
		p, err := llm.NewGeminiAPI(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, fmt.Errorf("gemini: %w", err)
		}
		l.WithFields(logrus.Fields{"provider": p.Name(), "model": cfg.GeminiModel}).Info("question provider ready")
		return p, nil
	case cfg.VertexProjectID != "":
		p, err := llm.NewVertexGemini(ctx, cfg.VertexProjectID, cfg.VertexLocation, cfg.VertexModel)
		if err != nil {
			return nil, fmt.Errorf("vertex: %w", err)
		}
		l.WithFields(logrus.Fields{"provider": p.Name(), "model": cfg.VertexModel}).Info("question provider ready")
		return p, nil
	default:
		l.Warn("no question provider configured; using built-in questions")
		return nil, nil
	}
}
