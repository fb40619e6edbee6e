package infrastructure

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"studentForum/internal/modules/realtime/domain"
)

// OverflowPolicy decides what happens when a session's outbound queue is full.
type OverflowPolicy string

const (
	// OverflowDisconnect drops the session; the client recovers by reconnecting and refetching.
	OverflowDisconnect OverflowPolicy = "disconnect"
	// OverflowDropOldest evicts the oldest queued frame to make room for the new one.
	OverflowDropOldest OverflowPolicy = "drop-oldest"
)

// ParseOverflowPolicy maps configuration strings to a policy, defaulting to disconnect.
func ParseOverflowPolicy(raw string) (OverflowPolicy, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "disconnect":
		return OverflowDisconnect, true
	case "drop-oldest", "drop_oldest", "dropoldest":
		return OverflowDropOldest, true
	default:
		return OverflowDisconnect, false
	}
}

// Hub is the room registry: per topic the sessions joined to it, per session the topics it joined.
// Topics exist only while they have members.
type Hub struct {
	topics   map[string]map[*Session]struct{}
	sessions map[string]*Session
	mu       sync.RWMutex
	overflow OverflowPolicy

	published atomic.Int64
	delivered atomic.Int64
	dropped   atomic.Int64
	overflows atomic.Int64
}

// HubStats is a point-in-time view of the registry.
type HubStats struct {
	Sessions  int   `json:"sessions"`
	Topics    int   `json:"topics"`
	Published int64 `json:"published"`
	Delivered int64 `json:"delivered"`
	Dropped   int64 `json:"dropped"`
	Overflows int64 `json:"overflowDisconnects"`
}

func NewHub(policy OverflowPolicy) *Hub {
	if policy == "" {
		policy = OverflowDisconnect
	}
	return &Hub{
		topics:   make(map[string]map[*Session]struct{}),
		sessions: make(map[string]*Session),
		overflow: policy,
	}
}

// Register makes a session addressable by its id. A stale session with the same id is dropped first.
func (h *Hub) Register(s *Session) {
	if s == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if existing, ok := h.sessions[s.id]; ok && existing != s {
		h.detachLocked(existing)
	}
	h.sessions[s.id] = s
	slog.Info("ws session registered", slog.String("sessionId", s.id), slog.String("userId", s.userID))
}

// Join adds the session to topic. Joining twice is a no-op; unknown sessions and empty topics are ignored.
func (h *Hub) Join(sessionID, topic string) bool {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.sessions[sessionID]
	if !ok {
		return false
	}
	if h.topics[topic] == nil {
		h.topics[topic] = make(map[*Session]struct{})
	}
	h.topics[topic][s] = struct{}{}
	s.subscribed[topic] = struct{}{}
	slog.Debug("ws session joined", slog.String("sessionId", sessionID), slog.String("topic", topic))
	return true
}

// Leave removes the session from topic and forgets the topic once it has no members.
func (h *Hub) Leave(sessionID, topic string) {
	topic = strings.TrimSpace(topic)
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.sessions[sessionID]
	if !ok {
		return
	}
	h.removeLocked(s, topic)
	slog.Debug("ws session left", slog.String("sessionId", sessionID), slog.String("topic", topic))
}

// DropSession releases every membership of the session, unregisters it and closes its queue.
// Memberships are gone before the connection is closed, so nothing is published into a dead socket.
func (h *Hub) DropSession(sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.detachLocked(h.sessions[sessionID])
}

func (h *Hub) dropSession(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if current, ok := h.sessions[s.id]; ok && current == s {
		h.detachLocked(s)
		return
	}
	// already replaced or dropped; make sure the connection is released anyway
	s.close()
}

func (h *Hub) detachLocked(s *Session) {
	if s == nil {
		return
	}
	joined := len(s.subscribed)
	for topic := range s.subscribed {
		h.removeLocked(s, topic)
	}
	delete(h.sessions, s.id)
	s.close()
	slog.Info("ws session detached", slog.String("sessionId", s.id), slog.String("userId", s.userID), slog.Int("topics", joined))
}

func (h *Hub) removeLocked(s *Session, topic string) {
	if members, ok := h.topics[topic]; ok {
		delete(members, s)
		if len(members) == 0 {
			delete(h.topics, topic)
		}
	}
	delete(s.subscribed, topic)
}

// Publish enqueues the event for every session joined to its topic at call time and returns
// how many sessions accepted it. It never blocks on a slow receiver.
func (h *Hub) Publish(_ context.Context, evt *domain.Event) int {
	if evt == nil || strings.TrimSpace(evt.Topic) == "" {
		return 0
	}
	data, err := json.Marshal(evt)
	if err != nil {
		slog.Error("publish marshal error", slog.String("topic", evt.Topic), slog.Any("error", err))
		return 0
	}

	h.mu.RLock()
	members := h.topics[evt.Topic]
	recipients := make([]*Session, 0, len(members))
	for s := range members {
		recipients = append(recipients, s)
	}
	h.mu.RUnlock()

	h.published.Add(1)
	delivered := 0
	for _, s := range recipients {
		if h.deliver(s, data) {
			delivered++
		}
	}
	slog.Debug("ws publish", slog.String("topic", evt.Topic), slog.String("event", string(evt.Kind)), slog.Int("members", len(recipients)), slog.Int("delivered", delivered))
	return delivered
}

func (h *Hub) deliver(s *Session, data []byte) bool {
	switch s.enqueue(data, h.overflow) {
	case enqueueAccepted:
		h.delivered.Add(1)
		return true
	case enqueueEvicted:
		h.delivered.Add(1)
		h.dropped.Add(1)
		slog.Warn("ws send buffer full, oldest frame dropped", slog.String("sessionId", s.id), slog.String("userId", s.userID))
		return true
	case enqueueFull:
		h.dropped.Add(1)
		h.overflows.Add(1)
		slog.Warn("ws send buffer full, dropping session", slog.String("sessionId", s.id), slog.String("userId", s.userID))
		go h.dropSession(s)
		return false
	default:
		return false
	}
}

// Members lists the session ids joined to topic, sorted.
func (h *Hub) Members(topic string) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	members := h.topics[strings.TrimSpace(topic)]
	ids := make([]string, 0, len(members))
	for s := range members {
		ids = append(ids, s.id)
	}
	sort.Strings(ids)
	return ids
}

// Topics lists the topics a session is joined to, sorted.
func (h *Hub) Topics(sessionID string) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	s, ok := h.sessions[sessionID]
	if !ok {
		return nil
	}
	topics := make([]string, 0, len(s.subscribed))
	for topic := range s.subscribed {
		topics = append(topics, topic)
	}
	sort.Strings(topics)
	return topics
}

func (h *Hub) Stats() HubStats {
	h.mu.RLock()
	sessions, topics := len(h.sessions), len(h.topics)
	h.mu.RUnlock()
	return HubStats{
		Sessions:  sessions,
		Topics:    topics,
		Published: h.published.Load(),
		Delivered: h.delivered.Load(),
		Dropped:   h.dropped.Load(),
		Overflows: h.overflows.Load(),
	}
}

// Close drops every registered session.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, s := range h.sessions {
		h.detachLocked(s)
	}
}
