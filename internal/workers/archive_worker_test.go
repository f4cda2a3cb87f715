package workers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/yoockh/skillsync/internal/models"
	"github.com/yoockh/skillsync/internal/repositories/memory"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recordingUploader struct {
	objects map[string][]byte
	err     error
}

func (u *recordingUploader) Upload(_ context.Context, name, contentType string, r io.Reader) (string, error) {
	if u.err != nil {
		return "", u.err
	}
	if contentType != "application/json" {
		return "", errors.New("unexpected content type " + contentType)
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if u.objects == nil {
		u.objects = map[string][]byte{}
	}
	u.objects[name] = b
	return "gs://test/" + name, nil
}

func newPool(t *testing.T, up *recordingUploader) (*ArchiveWorkerPool, context.Context) {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	repo := memory.NewInterviewRepo()
	ctx := context.Background()
	now := time.Now().UTC()
	for id, st := range map[string]models.SessionStatus{"done": models.StatusCompleted, "open": models.StatusInProgress} {
		s := &models.InterviewSession{ID: id, UserID: "u1", Stats: models.SessionStats{Status: st}}
		if st == models.StatusCompleted {
			s.Stats.CompletedAt = &now
			s.Results.OverallScore = 7.5
		}
		if err := repo.Create(ctx, s); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	p := &ArchiveWorkerPool{Sessions: repo, Uploader: up, Logger: log}
	p.defaults()
	return p, ctx
}

func TestHandleMsg_ArchivesCompletedSession(t *testing.T) {
	up := &recordingUploader{}
	p, ctx := newPool(t, up)

	err := p.handleMsg(ctx, redis.XMessage{ID: "1-0", Values: map[string]any{"session_id": "done", "user_id": "u1"}})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	raw, ok := up.objects["reports/u1/done.json"]
	if !ok {
		t.Fatalf("report not uploaded, got %v", up.objects)
	}
	var rep SessionReport
	if err := json.Unmarshal(raw, &rep); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rep.Session.ID != "done" || rep.Session.Results.OverallScore != 7.5 || rep.ArchivedAt.IsZero() {
		t.Fatalf("unexpected report %+v", rep)
	}
}

func TestHandleMsg_SkipsAndErrors(t *testing.T) {
	up := &recordingUploader{}
	p, ctx := newPool(t, up)

	err := p.handleMsg(ctx, redis.XMessage{ID: "1-1", Values: map[string]any{}})
	if err == nil {
		t.Fatalf("message without session id should error")
	}
	if shouldRetry(err) {
		t.Fatalf("malformed message must be acked, not retried")
	}
	if err := p.handleMsg(ctx, redis.XMessage{ID: "1-2", Values: map[string]any{"session_id": "open"}}); err != nil {
		t.Fatalf("open session should be skipped quietly: %v", err)
	}
	if err := p.handleMsg(ctx, redis.XMessage{ID: "1-3", Values: map[string]any{"session_id": "gone"}}); err != nil {
		t.Fatalf("missing session should be skipped quietly: %v", err)
	}
	if len(up.objects) != 0 {
		t.Fatalf("nothing should have been uploaded: %v", up.objects)
	}

	up.err = errors.New("bucket unavailable")
	err = p.handleMsg(ctx, redis.XMessage{ID: "1-4", Values: map[string]any{"session_id": "done"}})
	if err == nil {
		t.Fatalf("upload failure must surface")
	}
	if !shouldRetry(err) {
		t.Fatalf("upload failure must stay pending for a retry")
	}

	// the retried entry succeeds once storage is back
	up.err = nil
	if err := p.handleMsg(ctx, redis.XMessage{ID: "1-4", Values: map[string]any{"session_id": "done"}}); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if _, ok := up.objects["reports/u1/done.json"]; !ok {
		t.Fatalf("report missing after retry")
	}
}

func TestShouldRetry(t *testing.T) {
	if shouldRetry(nil) {
		t.Fatalf("success is never retried")
	}
	if shouldRetry(fmt.Errorf("%w: bad payload", errMalformed)) {
		t.Fatalf("malformed messages are dropped")
	}
	if !shouldRetry(errors.New("load session: connection reset")) {
		t.Fatalf("store errors are retried")
	}
}

func TestDefaults_ClaimIdle(t *testing.T) {
	p := &ArchiveWorkerPool{}
	p.defaults()
	if p.ClaimIdle != time.Minute || p.NumWorkers != 2 || p.Group == "" {
		t.Fatalf("unexpected defaults %+v", p)
	}
}

func TestStart_RequiresDependencies(t *testing.T) {
	p := &ArchiveWorkerPool{}
	if err := p.Start(context.Background()); err == nil {
		t.Fatalf("expected missing dependency error")
	}
}

func TestSleepCtx_ReturnsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	sleepCtx(ctx, time.Minute)
	if time.Since(start) > time.Second {
		t.Fatalf("sleepCtx ignored cancellation")
	}
}
