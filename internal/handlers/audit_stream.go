package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"session_auth/internal/models"
	"session_auth/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 1 << 12 // 4 KB

	envelopeSnapshot = "snapshot"
	envelopeEvent    = "event"
	envelopeError    = "error"
)

type wsEnvelope struct {
	Type  string `json:"type"`
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

// upgrader accepts origins allowed by the CORS configuration.
func (h *Handler) upgrader() websocket.Upgrader {
	return websocket.Upgrader{CheckOrigin: h.checkOrigin}
}

func (h *Handler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || len(h.allowedOrigins) == 0 {
		return true
	}
	for _, o := range h.allowedOrigins {
		if o == "*" || strings.EqualFold(o, origin) {
			return true
		}
	}
	return false
}

// @Summary      Live sign-in attempts
// @Description  WebSocket feed. Sends one {"type":"snapshot"} envelope with the stored events, then one {"type":"event"} envelope per new attempt.
// @Tags         audit
// @Param        type  query  string  false  "Event type"  Enums(SIGN_IN,SIGN_IN_FAILED)
// @Success      101
// @Failure      401  {object}  errorResponse
// @Security     BearerAuth
// @Router       /api/v1/audit/ws [get]
func (h *Handler) auditStream(c *gin.Context) {
	up := h.upgrader()
	conn, err := up.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err)
		}
		return
	}
	defer func() { _ = conn.Close() }()

	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	done := make(chan struct{})
	go h.startReader(conn, done)

	// Subscribe before the snapshot so nothing recorded in between is lost.
	events := h.services.AuditLog.Subscribe(ctx)
	eventType := strings.ToUpper(strings.TrimSpace(c.Query("type")))

	snapshot, err := h.services.AuditLog.List(ctx, service.LogFilter{Type: eventType})
	if err != nil {
		if h.log != nil {
			h.log.Infow("ws_snapshot_failed", "err", err)
		}
		_ = writeEnvelope(conn, wsEnvelope{Type: envelopeError, Error: err.Error()})
		return
	}
	seen := make(map[string]struct{}, len(snapshot))
	for _, ev := range snapshot {
		seen[ev.EventID] = struct{}{}
	}
	if err := writeEnvelope(conn, wsEnvelope{Type: envelopeSnapshot, Data: snapshot}); err != nil {
		if h.log != nil {
			h.log.Infow("ws_write_failed_initial", "err", err)
		}
		return
	}

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				if h.log != nil {
					h.log.Infow("ws_ping_failed", "err", err)
				}
				return
			}
		case ev, ok := <-events:
			if !ok {
				return
			}
			if !matchesType(ev, eventType) {
				continue
			}
			if _, dup := seen[ev.EventID]; dup {
				delete(seen, ev.EventID)
				continue
			}
			if err := writeEnvelope(conn, wsEnvelope{Type: envelopeEvent, Data: ev}); err != nil {
				if h.log != nil {
					h.log.Infow("ws_write_failed", "err", err)
				}
				return
			}
		}
	}
}

func matchesType(ev models.AuthEvent, typ string) bool {
	return typ == "" || ev.Type == typ
}

// startReader drains incoming frames so control messages are processed and closure is detected.
func (h *Handler) startReader(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if h.log != nil {
				h.log.Infow("ws_read_closed", "err", err)
			}
			return
		}
	}
}

func writeEnvelope(conn *websocket.Conn, env wsEnvelope) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(env)
}
