package events

import (
	"context"

	"github.com/yoockh/skillsync/internal/models"
)

// CompletedStream carries one entry per completed session for background
// consumers (see workers.ArchiveWorkerPool).
const CompletedStream = "interview:completed"

func SessionChannel(sessionID string) string {
	return "session:" + sessionID + ":events"
}

type Bus interface {
	Publish(ctx context.Context, ev models.SessionEvent) error
	// Subscribe delivers events of one session until ctx is done or cancel
	// is called. The channel is closed afterwards.
	Subscribe(ctx context.Context, sessionID string) (ch <-chan models.SessionEvent, cancel func(), err error)
}
