package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/fieldquote/backend/internal/log"
)

// WebSocket message types
const (
	// Client -> Server messages
	MsgTypeReset = "reset"
	MsgTypePing  = "ping"

	// Server -> Client messages
	MsgTypeConnected = "connected"
	MsgTypeState     = "state"
	MsgTypePong      = "pong"
	MsgTypeError     = "error"
)

const wsWriteTimeout = 10 * time.Second

// WSMessage is the envelope of every websocket frame.
type WSMessage struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

// WSErrorPayload is the payload of an error frame.
type WSErrorPayload struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// WebSocketHandler pushes every upload snapshot to connected clients.
type WebSocketHandler struct {
	pipeline Pipeline
	tracker  *FileTracker
	upgrader websocket.Upgrader
	logger   log.Logger
}

// NewWebSocketHandler creates a new WebSocket snapshot handler
func NewWebSocketHandler(pipeline Pipeline, tracker *FileTracker, logger log.Logger) *WebSocketHandler {
	if logger == nil {
		logger = log.Noop
	}
	return &WebSocketHandler{
		pipeline: pipeline,
		tracker:  tracker,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// Allow connections from dev server
				return true
			},
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 16 * 1024,
		},
		logger: logger.WithValues(log.Kv{"svc": "api.WebSocketHandler"}),
	}
}

// HandleWebSocket upgrades the connection and streams snapshots until the
// client disconnects. Clients may send "reset" and "ping".
func (wsh *WebSocketHandler) HandleWebSocket(c echo.Context) error {
	ws, err := wsh.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer ws.Close()

	states, unsubscribe := wsh.pipeline.Subscribe()
	defer unsubscribe()

	var writeMu sync.Mutex
	send := func(msgType string, payload any) error {
		msg := WSMessage{Type: msgType, Timestamp: time.Now().UnixMilli()}
		if payload != nil {
			data, err := json.Marshal(payload)
			if err != nil {
				return err
			}
			msg.Payload = data
		}

		writeMu.Lock()
		defer writeMu.Unlock()
		_ = ws.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		return ws.WriteJSON(msg)
	}

	wsh.logger.Debugf("client connected from %s", c.RealIP())
	if err := send(MsgTypeConnected, nil); err != nil {
		return nil
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var msg WSMessage
			if err := ws.ReadJSON(&msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					wsh.logger.Warningf("connection error: %v", err)
				}
				return
			}

			switch msg.Type {
			case MsgTypePing:
				_ = send(MsgTypePong, nil)
			case MsgTypeReset:
				wsh.tracker.Reset()
			default:
				_ = send(MsgTypeError, WSErrorPayload{Message: "Unknown message type: " + msg.Type, Code: "INVALID_TYPE"})
			}
		}
	}()

	for {
		select {
		case <-done:
			wsh.logger.Debugf("client disconnected")
			return nil
		case st, ok := <-states:
			if !ok {
				return nil
			}
			if err := send(MsgTypeState, st); err != nil {
				return nil
			}
		}
	}
}
