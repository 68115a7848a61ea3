package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/markbook/internal/config"
	"github.com/stemsi/markbook/internal/middleware"
	"github.com/stemsi/markbook/internal/model"
	"github.com/stemsi/markbook/internal/response"
	ws "github.com/stemsi/markbook/internal/websocket"
)

const wsPingInterval = 30 * time.Second

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams mark submissions to teachers.
type WSHandler struct {
	rdb      *redis.Client
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(rdb *redis.Client, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		rdb:      rdb,
		log:      log.With().Str("component", "ws_handler").Logger(),
		upgrader: buildUpgrader(allowedOrigins),
	}
}

// MarksStream godoc
// WS /ws/v1/marks/stream?token=&exam_id=
// Relays marks_submitted events, optionally for a single exam, and answers
// ping actions with pong.
func (h *WSHandler) MarksStream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var examFilter string
	if raw := c.Query("exam_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
			return
		}
		examFilter = id.String()
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().Int("user_id", claims.UserID).Str("exam_filter", examFilter).Logger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub := h.rdb.Subscribe(ctx, config.CacheKey.MarksEventsChannel())
	defer sub.Close()
	if _, err := sub.Receive(ctx); err != nil {
		wsLog.Error().Err(err).Msg("Marks subscription failed")
		ws.WriteError(conn, "stream unavailable")
		return
	}

	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(ws.ReadWait))
	})

	// All data frames go through the writer goroutine; gorilla allows one
	// concurrent writer.
	out := make(chan interface{}, 8)
	out <- ws.SubscribedResponse{Event: ws.EventSubscribed, ExamID: examFilter}
	go h.writeLoop(ctx, cancel, conn, sub.Channel(), out, examFilter, wsLog)

	wsLog.Info().Msg("Marks stream connected")

	for {
		var msg ws.RequestEnvelope
		if err := ws.ReadJSON(conn, &msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			} else {
				wsLog.Debug().Msg("Connection closed")
			}
			return
		}

		var reply interface{} = ws.PongResponse{Event: ws.EventPong}
		if msg.Action != ws.ActionPing {
			reply = ws.ErrorResponse{Event: ws.EventError, Error: "unknown action: " + string(msg.Action)}
		}

		select {
		case out <- reply:
		case <-ctx.Done():
			return
		}
	}
}

func (h *WSHandler) writeLoop(
	ctx context.Context,
	cancel context.CancelFunc,
	conn *websocket.Conn,
	events <-chan *redis.Message,
	out <-chan interface{},
	examFilter string,
	wsLog zerolog.Logger,
) {
	defer cancel()

	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()

	for {
		var err error
		select {
		case <-ctx.Done():
			return

		case v := <-out:
			err = ws.WriteTyped(conn, v)

		case msg, ok := <-events:
			if !ok {
				return
			}
			evt, relay := decodeMarksEvent(msg.Payload, examFilter)
			if !relay {
				continue
			}
			err = ws.WriteTyped(conn, ws.MarksSubmittedResponse{Event: ws.EventMarksSubmitted, Data: evt})

		case <-ticker.C:
			err = ws.WritePing(conn)
		}

		if err != nil {
			wsLog.Debug().Err(err).Msg("Write failed, closing stream")
			conn.Close()
			return
		}
	}
}

// decodeMarksEvent parses a pub/sub payload and reports whether it passes
// the exam filter.
func decodeMarksEvent(payload, examFilter string) (model.MarksEvent, bool) {
	var evt model.MarksEvent
	if err := json.Unmarshal([]byte(payload), &evt); err != nil {
		return evt, false
	}
	if examFilter != "" && evt.ExamID.String() != examFilter {
		return evt, false
	}
	return evt, true
}
