package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/yoockh/skillsync/internal/events"
	"github.com/yoockh/skillsync/internal/services"
	"github.com/yoockh/skillsync/internal/utils"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = 50 * time.Second
)

// WSHandler streams lifecycle events of one session to its owner.
type WSHandler struct {
	sessions services.InterviewService
	bus      events.Bus
	logger   *logrus.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(sessions services.InterviewService, bus events.Bus, logger *logrus.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		sessions: sessions,
		bus:      bus,
		logger:   logger,
		upgrader: websocket.Upgrader{CheckOrigin: originChecker(allowedOrigins)},
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	set := map[string]struct{}{}
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}

type wsConn struct {
	c  *websocket.Conn
	mu sync.Mutex
}

func (w *wsConn) write(messageType int, b []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	_ = w.c.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return w.c.WriteMessage(messageType, b)
}

func (h *WSHandler) SessionEvents(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	sessionID := c.Param("id")

	// ownership check before upgrading so errors still get a JSON body
	sess, err := h.sessions.Get(c.Request.Context(), userID, sessionID)
	if err != nil {
		writeError(c, err)
		return
	}

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	evs, unsubscribe, err := h.bus.Subscribe(ctx, sessionID)
	if err != nil {
		writeError(c, utils.E(utils.CodeUnavailable, "WSHandler.SessionEvents", "event feed unavailable", err))
		return
	}
	defer unsubscribe()

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// upgrade already wrote the response
		return
	}
	defer conn.Close()
	wc := &wsConn{c: conn}

	log := h.logger.WithFields(logrus.Fields{"session_id": sessionID, "user_id": userID})
	log.Debug("session feed opened")

	// the current status first, so clients need no separate fetch
	if b, err := json.Marshal(gin.H{"type": "snapshot", "session_id": sess.ID, "status": sess.Stats.Status, "stats": sess.Stats}); err == nil {
		if err := wc.write(websocket.TextMessage, b); err != nil {
			return
		}
	}

	// reader: only control frames are expected; a read error means the
	// client went away
	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(wsPongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(wsPingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-readDone:
			log.Debug("session feed closed by client")
			return
		case <-ctx.Done():
			return
		case <-ping.C:
			if err := wc.write(websocket.PingMessage, nil); err != nil {
				return
			}
		case ev, ok := <-evs:
			if !ok {
				return
			}
			b, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			if err := wc.write(websocket.TextMessage, b); err != nil {
				return
			}
		}
	}
}
