package infrastructure

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"studentForum/internal/modules/realtime/domain"
	"studentForum/internal/shared/logging"
)

const (
	writeWait    = 5 * time.Second
	pongWait     = 60 * time.Second
	pingInterval = 30 * time.Second
	readLimit    = 1 << 16
)

type enqueueResult int

const (
	enqueueClosed enqueueResult = iota
	enqueueAccepted
	enqueueEvicted
	enqueueFull
)

// Session is one live client connection. Its topic memberships are owned by the Hub.
type Session struct {
	hub        *Hub
	conn       *websocket.Conn
	send       chan []byte
	id         string
	userID     string
	roles      []string
	commands   *CommandProcessor
	limiter    *rateLimiter
	subscribed map[string]struct{}

	mu        sync.Mutex
	closed    bool
	closeOnce sync.Once
}

// NewSession creates a session with a fresh id and a bounded outbound queue.
// userID is empty for anonymous connections.
func NewSession(hub *Hub, conn *websocket.Conn, userID string, roles []string, buf int, commands *CommandProcessor) *Session {
	if buf <= 0 {
		buf = 1
	}
	return &Session{
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, buf),
		id:         uuid.NewString(),
		userID:     strings.TrimSpace(userID),
		roles:      roles,
		commands:   commands,
		subscribed: make(map[string]struct{}),
	}
}

// WithRateLimit throttles inbound commands to capacity per interval.
func (s *Session) WithRateLimit(capacity int, interval time.Duration) *Session {
	if capacity > 0 {
		s.limiter = newRateLimiter(capacity, interval)
	}
	return s
}

func (s *Session) ID() string { return s.id }

func (s *Session) UserID() string { return s.userID }

// Authenticated reports whether the connection presented a valid token.
func (s *Session) Authenticated() bool { return s.userID != "" }

func (s *Session) enqueue(data []byte, policy OverflowPolicy) enqueueResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return enqueueClosed
	}
	select {
	case s.send <- data:
		return enqueueAccepted
	default:
	}
	if policy != OverflowDropOldest {
		return enqueueFull
	}
	select {
	case <-s.send:
	default:
	}
	select {
	case s.send <- data:
		return enqueueEvicted
	default:
		return enqueueFull
	}
}

func (s *Session) close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		close(s.send)
		s.mu.Unlock()
		if s.conn != nil {
			_ = s.conn.Close()
		}
	})
}

// Send writes a frame to this session only.
func (s *Session) Send(evt *domain.Event) {
	data, err := json.Marshal(evt)
	if err != nil {
		slog.Error("websocket marshal error", slog.Any("error", err))
		return
	}
	policy := OverflowDisconnect
	if s.hub != nil {
		policy = s.hub.overflow
	}
	if s.enqueue(data, policy) == enqueueFull {
		slog.Warn("websocket send buffer full", slog.String("sessionId", s.id), slog.String("userId", s.userID))
		if s.hub != nil {
			go s.hub.dropSession(s)
		}
	}
}

// SendError answers a command with an error frame.
func (s *Session) SendError(action, reason string) {
	s.Send(domain.SystemEvent(domain.KindError, map[string]string{
		"sessionId": s.id,
		"action":    action,
	}, map[string]string{"error": reason}))
}

func (s *Session) WritePump() {
	ping := time.NewTicker(pingInterval)
	defer ping.Stop()

	for {
		select {
		case msg, ok := <-s.send:
			if !ok {
				_ = s.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
				return
			}
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				slog.Warn("websocket write error", slog.String("sessionId", s.id), slog.Any("error", err))
				s.hub.dropSession(s)
				return
			}
		case <-ping.C:
			if err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				slog.Warn("websocket ping error", slog.String("sessionId", s.id), slog.Any("error", err))
				s.hub.dropSession(s)
				return
			}
		}
	}
}

func (s *Session) ReadPump() {
	s.conn.SetReadLimit(readLimit)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	defer s.hub.dropSession(s)
	for {
		_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Warn("websocket read error", slog.String("sessionId", s.id), slog.String("userId", s.userID), slog.Any("error", err))
			}
			return
		}
		if s.limiter != nil && !s.limiter.allow() {
			s.SendError("", "rate limited")
			continue
		}
		// A frame that does not decode leaves memberships untouched.
		var cmd Command
		if err := json.Unmarshal(data, &cmd); err != nil {
			slog.Debug("ws frame rejected", slog.String("sessionId", s.id), slog.Any("error", err))
			s.SendError("", "invalid frame")
			continue
		}
		slog.Log(context.Background(), logging.LevelTrace, "ws frame", slog.String("sessionId", s.id), slog.String("action", cmd.Action), slog.String("topic", cmd.Topic))
		s.processCommand(cmd)
	}
}

func (s *Session) processCommand(cmd Command) {
	if s.commands == nil {
		return
	}
	s.commands.Process(s, cmd)
}
