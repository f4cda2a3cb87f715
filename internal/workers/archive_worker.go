package workers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/yoockh/skillsync/internal/events"
	"github.com/yoockh/skillsync/internal/models"
	"github.com/yoockh/skillsync/internal/repositories"
	"github.com/yoockh/skillsync/internal/storage"
	"github.com/yoockh/skillsync/internal/utils"
)

// SessionReport is the archived form of a completed session.
type SessionReport struct {
	Session    *models.InterviewSession `json:"session"`
	ArchivedAt time.Time                `json:"archived_at"`
}

// ArchiveWorkerPool consumes the completion stream and stores one JSON report
// per completed session in object storage.
type ArchiveWorkerPool struct {
	Redis      *redis.Client
	Sessions   repositories.InterviewRepository
	Uploader   storage.Uploader
	NumWorkers int

	Logger *logrus.Logger

	Stream         string
	Group          string
	ConsumerPrefix string

	// ClaimIdle is how long a failed entry stays pending before a consumer
	// claims it again.
	ClaimIdle time.Duration

	wg sync.WaitGroup
}

// errMalformed marks messages that can never be archived; they are acked.
var errMalformed = errors.New("malformed archive message")

func (p *ArchiveWorkerPool) Start(ctx context.Context) error {
	if p.Redis == nil || p.Sessions == nil || p.Uploader == nil {
		return errors.New("ArchiveWorkerPool missing dependency: Redis/Sessions/Uploader must be set")
	}
	p.defaults()

	// BUSYGROUP just means the group already exists
	_ = p.Redis.XGroupCreateMkStream(ctx, p.Stream, p.Group, "0").Err()

	for i := 0; i < p.NumWorkers; i++ {
		consumer := p.ConsumerPrefix + "-" + strconv.Itoa(i+1)
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			p.runConsumer(ctx, consumer)
		}()
	}
	return nil
}

// Wait blocks until every consumer has returned after ctx cancellation.
func (p *ArchiveWorkerPool) Wait() { p.wg.Wait() }

func (p *ArchiveWorkerPool) defaults() {
	if p.Stream == "" {
		p.Stream = events.CompletedStream
	}
	if p.Group == "" {
		p.Group = "archive-workers"
	}
	if p.ConsumerPrefix == "" {
		p.ConsumerPrefix = "archiver"
	}
	if p.NumWorkers <= 0 {
		p.NumWorkers = 2
	}
	if p.ClaimIdle <= 0 {
		p.ClaimIdle = time.Minute
	}
	if p.Logger == nil {
		p.Logger = logrus.New()
	}
}

func (p *ArchiveWorkerPool) runConsumer(ctx context.Context, consumer string) {
	var lastClaim time.Time
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if time.Since(lastClaim) >= p.ClaimIdle {
			p.reclaim(ctx, consumer)
			lastClaim = time.Now()
		}

		res, err := p.Redis.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    p.Group,
			Consumer: consumer,
			Streams:  []string{p.Stream, ">"},
			Count:    10,
			Block:    5 * time.Second,
		}).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) || ctx.Err() != nil {
				continue
			}
			p.Logger.WithError(err).WithField("consumer", consumer).Warn("archive stream read failed")
			sleepCtx(ctx, 500*time.Millisecond)
			continue
		}

		for _, stream := range res {
			for _, msg := range stream.Messages {
				p.process(ctx, msg)
			}
		}
	}
}

// reclaim takes over entries left pending by failed attempts, including those
// of consumers that died mid-message.
func (p *ArchiveWorkerPool) reclaim(ctx context.Context, consumer string) {
	start := "0-0"
	for {
		msgs, next, err := p.Redis.XAutoClaim(ctx, &redis.XAutoClaimArgs{
			Stream:   p.Stream,
			Group:    p.Group,
			Consumer: consumer,
			MinIdle:  p.ClaimIdle,
			Start:    start,
			Count:    10,
		}).Result()
		if err != nil {
			if ctx.Err() == nil {
				p.Logger.WithError(err).WithField("consumer", consumer).Warn("archive reclaim failed")
			}
			return
		}
		for _, msg := range msgs {
			p.process(ctx, msg)
		}
		if next == "0-0" || len(msgs) == 0 {
			return
		}
		start = next
	}
}

func (p *ArchiveWorkerPool) process(ctx context.Context, msg redis.XMessage) {
	err := p.handleMsg(ctx, msg)
	if err != nil {
		p.Logger.WithError(err).WithFields(logrus.Fields{
			"redis_id": msg.ID,
			"retry":    shouldRetry(err),
		}).Error("archive failed")
	}
	if shouldRetry(err) {
		return
	}
	_ = p.Redis.XAck(ctx, p.Stream, p.Group, msg.ID).Err()
}

// shouldRetry reports whether the entry must stay pending for a later claim.
func shouldRetry(err error) bool {
	return err != nil && !errors.Is(err, errMalformed)
}

func (p *ArchiveWorkerPool) handleMsg(ctx context.Context, msg redis.XMessage) error {
	getStr := func(k string) string {
		v, ok := msg.Values[k]
		if !ok || v == nil {
			return ""
		}
		s, _ := v.(string)
		return s
	}

	sessionID := getStr("session_id")
	if sessionID == "" {
		return fmt.Errorf("%w: no session_id", errMalformed)
	}
	log := p.Logger.WithFields(logrus.Fields{
		"redis_id":   msg.ID,
		"session_id": sessionID,
	})

	sess, err := p.Sessions.Get(ctx, sessionID)
	if errors.Is(err, utils.ErrNotFound) {
		log.Warn("completed session vanished before archiving")
		return nil
	}
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if sess.Stats.Status != models.StatusCompleted {
		log.WithField("status", sess.Stats.Status).Warn("skipping archive of session that is not completed")
		return nil
	}

	body, err := json.Marshal(SessionReport{Session: sess, ArchivedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("%w: encode report: %v", errMalformed, err)
	}

	path, err := p.Uploader.Upload(ctx, ReportObjectName(sess), "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("upload report: %w", err)
	}
	log.WithFields(logrus.Fields{
		"path":          path,
		"overall_score": sess.Results.OverallScore,
	}).Info("session report archived")
	return nil
}

func ReportObjectName(s *models.InterviewSession) string {
	return "reports/" + s.UserID + "/" + s.ID + ".json"
}

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
