package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"studentForum/internal/modules/realtime/domain"
	"studentForum/internal/shared/auth"
	"studentForum/internal/shared/normalization"
)

var (
	// ErrTopicRejected is returned by a TopicGuard for topic strings that match no known variant.
	ErrTopicRejected = errors.New("unknown topic")
	// ErrTopicForbidden is returned by a TopicGuard when the session may not join the topic.
	ErrTopicForbidden = errors.New("topic forbidden")
)

// Command is a client frame: {"action": "join", "topic": "question:42"}.
type Command struct {
	Action  string          `json:"action"`
	Topic   string          `json:"topic,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// UnmarshalJSON accepts a scalar topic so legacy clients can send `"topic": 42`.
func (c *Command) UnmarshalJSON(data []byte) error {
	var frame struct {
		Action  string          `json:"action"`
		Topic   json.RawMessage `json:"topic"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(data, &frame); err != nil {
		return err
	}
	*c = Command{Action: frame.Action, Payload: frame.Payload}
	if len(frame.Topic) > 0 {
		var raw any
		if err := json.Unmarshal(frame.Topic, &raw); err != nil {
			return err
		}
		c.Topic = normalization.AsID(raw)
	}
	return nil
}

func (c Command) actionKey() string {
	return normalizeAction(c.Action)
}

// Arg returns the scalar argument legacy clients send as payload (an id), falling back to Topic.
func (c Command) Arg() string {
	if len(c.Payload) > 0 {
		var raw any
		if err := json.Unmarshal(c.Payload, &raw); err == nil {
			if id := normalization.AsID(raw); id != "" {
				return id
			}
		}
	}
	return strings.TrimSpace(c.Topic)
}

type CommandHandler func(ctx context.Context, session *Session, cmd Command)

// TopicGuard decides whether a session may join a topic. A nil guard accepts every topic.
type TopicGuard func(ctx context.Context, session *Session, topic string) error

// ParticipantCheck reports whether userID takes part in the mentorship.
type ParticipantCheck func(ctx context.Context, mentorshipID, userID string) (bool, error)

type CommandProcessor struct {
	hub      *Hub
	handlers map[string]CommandHandler
	guard    TopicGuard
	timeout  time.Duration
}

func NewCommandProcessor(hub *Hub, guard TopicGuard) *CommandProcessor {
	processor := &CommandProcessor{
		hub:      hub,
		handlers: make(map[string]CommandHandler),
		guard:    guard,
		timeout:  10 * time.Second,
	}
	processor.Register("join", processor.handleJoin)
	processor.Register("subscribe", processor.handleJoin)
	processor.Register("leave", processor.handleLeave)
	processor.Register("unsubscribe", processor.handleLeave)
	processor.Register("ping", processor.handlePing)
	return processor
}

func (p *CommandProcessor) Register(action string, handler CommandHandler) {
	if handler == nil {
		return
	}
	key := normalizeAction(action)
	if key == "" {
		return
	}
	p.handlers[key] = handler
}

func (p *CommandProcessor) Process(session *Session, cmd Command) {
	if session == nil {
		return
	}

	action := cmd.actionKey()
	if action == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	if handler, ok := p.handlers[action]; ok {
		handler(ctx, session, cmd)
		return
	}

	if topic, membership, ok := domain.ResolveAlias(action, cmd.Arg()); ok {
		switch membership {
		case domain.MembershipJoin:
			p.join(ctx, session, action, topic)
		case domain.MembershipLeave:
			p.leave(session, action, topic)
		}
		return
	}

	slog.Debug("ws command ignored", slog.String("sessionId", session.id), slog.String("userId", session.userID), slog.String("action", action))
	session.SendError(action, "unsupported action")
}

func (p *CommandProcessor) handleJoin(ctx context.Context, session *Session, cmd Command) {
	p.join(ctx, session, cmd.actionKey(), commandTopic(cmd))
}

func (p *CommandProcessor) handleLeave(_ context.Context, session *Session, cmd Command) {
	p.leave(session, cmd.actionKey(), commandTopic(cmd))
}

func (p *CommandProcessor) join(ctx context.Context, session *Session, action, topic string) {
	if topic == "" {
		slog.Debug("ws join ignored empty topic", slog.String("sessionId", session.id))
		session.SendError(action, "missing topic")
		return
	}
	if p.guard != nil {
		if err := p.guard(ctx, session, topic); err != nil {
			slog.Warn("ws join rejected", slog.String("sessionId", session.id), slog.String("userId", session.userID), slog.String("topic", topic), slog.Any("error", err))
			session.SendError(action, err.Error())
			return
		}
	}
	if !p.hub.Join(session.id, topic) {
		return
	}
	session.Send(domain.SystemEvent(domain.KindJoined, map[string]string{"sessionId": session.id}, map[string]string{"topic": topic}))
}

func (p *CommandProcessor) leave(session *Session, action, topic string) {
	if topic == "" {
		session.SendError(action, "missing topic")
		return
	}
	p.hub.Leave(session.id, topic)
	session.Send(domain.SystemEvent(domain.KindLeft, map[string]string{"sessionId": session.id}, map[string]string{"topic": topic}))
}

func (p *CommandProcessor) handlePing(_ context.Context, session *Session, _ Command) {
	session.Send(domain.SystemEvent(domain.KindPong, map[string]string{"sessionId": session.id}, nil))
}

// commandTopic reads the topic of a join/leave. A bare id without topic is the
// legacy `join(userId)` form and addresses that user's notification feed.
func commandTopic(cmd Command) string {
	if topic := strings.TrimSpace(cmd.Topic); topic != "" {
		return topic
	}
	return domain.NotificationsTopic(cmd.Arg())
}

// NewStrictTopicGuard only admits known topic shapes. Notification feeds are limited to
// their owner and mentorship rooms to the mentorship's participants; admins join anything.
// With a nil check, mentorship rooms only require an authenticated session.
func NewStrictTopicGuard(mentorships ParticipantCheck) TopicGuard {
	return func(ctx context.Context, session *Session, topic string) error {
		kind, id, ok := domain.ParseTopic(topic)
		if !ok {
			return ErrTopicRejected
		}
		if session.hasRole(auth.RoleAdmin) {
			return nil
		}
		switch kind {
		case domain.TopicNotifications:
			if id != session.userID {
				return ErrTopicForbidden
			}
		case domain.TopicMentorship:
			if !session.Authenticated() {
				return ErrTopicForbidden
			}
			if mentorships == nil {
				return nil
			}
			allowed, err := mentorships(ctx, id, session.userID)
			if err != nil {
				slog.Warn("ws mentorship access check failed", slog.String("topic", topic), slog.Any("error", err))
				return ErrTopicForbidden
			}
			if !allowed {
				return ErrTopicForbidden
			}
		}
		return nil
	}
}

func (s *Session) hasRole(role string) bool {
	for _, r := range s.roles {
		if strings.EqualFold(r, role) {
			return true
		}
	}
	return false
}

func normalizeAction(action string) string {
	return strings.ToLower(strings.TrimSpace(action))
}
