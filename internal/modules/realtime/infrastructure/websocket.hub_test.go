package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"studentForum/internal/modules/realtime/domain"
)

type frame struct {
	Topic    string            `json:"topic"`
	Event    string            `json:"event"`
	Data     json.RawMessage   `json:"data"`
	Metadata map[string]string `json:"metadata"`
}

func newTestSession(t *testing.T, hub *Hub, userID string, buf int) *Session {
	t.Helper()
	s := NewSession(hub, nil, userID, nil, buf, nil)
	hub.Register(s)
	return s
}

func readFrame(t *testing.T, s *Session) frame {
	t.Helper()
	select {
	case data, ok := <-s.send:
		require.True(t, ok, "session queue closed")
		var f frame
		require.NoError(t, json.Unmarshal(data, &f))
		return f
	case <-time.After(time.Second):
		t.Fatalf("no frame queued for session %s", s.ID())
		return frame{}
	}
}

func requireNoFrame(t *testing.T, s *Session) {
	t.Helper()
	select {
	case data, ok := <-s.send:
		if ok {
			t.Fatalf("unexpected frame %s", data)
		}
	default:
	}
}

func TestHubPublishReachesOnlyMembers(t *testing.T) {
	hub := NewHub(OverflowDisconnect)
	a := newTestSession(t, hub, "u1", 4)
	b := newTestSession(t, hub, "u2", 4)
	c := newTestSession(t, hub, "", 4)

	require.True(t, hub.Join(a.ID(), "question:42"))
	require.True(t, hub.Join(b.ID(), "question:42"))
	require.True(t, hub.Join(c.ID(), "question:7"))

	n := hub.Publish(context.Background(), domain.NewEvent("question:42", domain.KindNewAnswer, map[string]string{"id": "a1"}))

	require.Equal(t, 2, n)
	for _, s := range []*Session{a, b} {
		f := readFrame(t, s)
		require.Equal(t, "question:42", f.Topic)
		require.Equal(t, string(domain.KindNewAnswer), f.Event)
		require.JSONEq(t, `{"id":"a1"}`, string(f.Data))
	}
	requireNoFrame(t, c)
}

func TestHubJoinIsIdempotent(t *testing.T) {
	hub := NewHub(OverflowDisconnect)
	s := newTestSession(t, hub, "u1", 4)

	require.True(t, hub.Join(s.ID(), "chat:c1"))
	require.True(t, hub.Join(s.ID(), "chat:c1"))
	require.Equal(t, []string{s.ID()}, hub.Members("chat:c1"))

	require.Equal(t, 1, hub.Publish(context.Background(), domain.NewEvent("chat:c1", domain.KindMessageReceived, "hi")))
	readFrame(t, s)
	requireNoFrame(t, s)
}

func TestHubJoinIgnoresUnknownSessionAndEmptyTopic(t *testing.T) {
	hub := NewHub(OverflowDisconnect)
	s := newTestSession(t, hub, "u1", 4)

	require.False(t, hub.Join("missing", "chat:c1"))
	require.False(t, hub.Join(s.ID(), "  "))
	require.Zero(t, hub.Stats().Topics)
}

func TestHubLeaveStopsDeliveryAndForgetsEmptyTopic(t *testing.T) {
	hub := NewHub(OverflowDisconnect)
	s := newTestSession(t, hub, "u1", 4)
	hub.Join(s.ID(), "mentorship:m1")
	hub.Join(s.ID(), "questions-feed")

	hub.Leave(s.ID(), "mentorship:m1")
	hub.Leave(s.ID(), "mentorship:m1")

	require.Zero(t, hub.Publish(context.Background(), domain.NewEvent("mentorship:m1", domain.KindMentorshipUpdate, nil)))
	require.Empty(t, hub.Members("mentorship:m1"))
	require.Equal(t, []string{"questions-feed"}, hub.Topics(s.ID()))
	require.Equal(t, 1, hub.Stats().Topics)
	requireNoFrame(t, s)
}

func TestHubDropSessionReleasesMemberships(t *testing.T) {
	hub := NewHub(OverflowDisconnect)
	s := newTestSession(t, hub, "u1", 4)
	other := newTestSession(t, hub, "u2", 4)
	hub.Join(s.ID(), "question:1")
	hub.Join(s.ID(), "user-notifications:u1")
	hub.Join(other.ID(), "question:1")

	hub.DropSession(s.ID())
	hub.DropSession(s.ID())

	require.Nil(t, hub.Topics(s.ID()))
	require.Equal(t, []string{other.ID()}, hub.Members("question:1"))
	require.Empty(t, hub.Members("user-notifications:u1"))
	require.Equal(t, 1, hub.Publish(context.Background(), domain.NewEvent("question:1", domain.KindNewAnswer, nil)))

	_, open := <-s.send
	require.False(t, open)
	stats := hub.Stats()
	require.Equal(t, 1, stats.Sessions)
	require.Equal(t, 1, stats.Topics)
}

func TestHubPublishWithoutMembers(t *testing.T) {
	hub := NewHub(OverflowDisconnect)

	require.Zero(t, hub.Publish(context.Background(), domain.NewEvent("chat:nobody", domain.KindMessageReceived, nil)))
	require.Zero(t, hub.Publish(context.Background(), nil))
	require.Zero(t, hub.Publish(context.Background(), &domain.Event{Kind: domain.KindNewQuestion}))
	require.Equal(t, int64(1), hub.Stats().Published)
}

func TestHubLateJoinerGetsNoReplay(t *testing.T) {
	hub := NewHub(OverflowDisconnect)
	s := newTestSession(t, hub, "u1", 4)

	require.Zero(t, hub.Publish(context.Background(), domain.NewEvent("question:9", domain.KindNewAnswer, "before")))
	require.True(t, hub.Join(s.ID(), "question:9"))
	requireNoFrame(t, s)

	require.Equal(t, 1, hub.Publish(context.Background(), domain.NewEvent("question:9", domain.KindNewAnswer, "after")))
	require.Equal(t, `"after"`, string(readFrame(t, s).Data))
	requireNoFrame(t, s)
}

func TestHubLeaveAffectsOnlyLeavingMember(t *testing.T) {
	hub := NewHub(OverflowDisconnect)
	a := newTestSession(t, hub, "u1", 4)
	b := newTestSession(t, hub, "u2", 4)
	hub.Join(a.ID(), domain.QuestionsFeedTopic)
	hub.Join(b.ID(), domain.QuestionsFeedTopic)

	require.Equal(t, 2, hub.Publish(context.Background(), domain.NewEvent(domain.QuestionsFeedTopic, domain.KindNewQuestion, "q1")))
	readFrame(t, a)
	readFrame(t, b)

	hub.Leave(a.ID(), domain.QuestionsFeedTopic)

	require.Equal(t, 1, hub.Publish(context.Background(), domain.NewEvent(domain.QuestionsFeedTopic, domain.KindNewQuestion, "q2")))
	require.Equal(t, `"q2"`, string(readFrame(t, b).Data))
	requireNoFrame(t, a)
}

func TestHubDropOfLastMemberEmptiesTopic(t *testing.T) {
	hub := NewHub(OverflowDisconnect)
	s := newTestSession(t, hub, "u1", 4)
	hub.Join(s.ID(), "chat:7")

	hub.dropSession(s)

	require.Zero(t, hub.Publish(context.Background(), domain.NewEvent("chat:7", domain.KindMessageReceived, "hi")))
	require.Empty(t, hub.Members("chat:7"))
	require.Zero(t, hub.Stats().Topics)
}

func TestHubPreservesPublishOrderPerSession(t *testing.T) {
	hub := NewHub(OverflowDisconnect)
	s := newTestSession(t, hub, "u1", 8)
	hub.Join(s.ID(), "chat:c1")

	for i := 0; i < 5; i++ {
		hub.Publish(context.Background(), domain.NewEvent("chat:c1", domain.KindMessageReceived, i))
	}
	for i := 0; i < 5; i++ {
		f := readFrame(t, s)
		require.Equal(t, fmt.Sprint(i), string(f.Data))
	}
}

func TestHubOverflowDisconnectsSlowSession(t *testing.T) {
	hub := NewHub(OverflowDisconnect)
	slow := newTestSession(t, hub, "slow", 1)
	fast := newTestSession(t, hub, "fast", 8)
	hub.Join(slow.ID(), "questions-feed")
	hub.Join(fast.ID(), "questions-feed")

	require.Equal(t, 2, hub.Publish(context.Background(), domain.NewEvent("questions-feed", domain.KindNewQuestion, 1)))
	require.Equal(t, 1, hub.Publish(context.Background(), domain.NewEvent("questions-feed", domain.KindNewQuestion, 2)))

	require.Eventually(t, func() bool {
		return len(hub.Members("questions-feed")) == 1
	}, time.Second, 10*time.Millisecond)
	require.Equal(t, []string{fast.ID()}, hub.Members("questions-feed"))
	stats := hub.Stats()
	require.Equal(t, int64(1), stats.Overflows)
	require.Equal(t, int64(1), stats.Dropped)

	readFrame(t, fast)
	readFrame(t, fast)
}

func TestHubOverflowDropOldestKeepsSession(t *testing.T) {
	hub := NewHub(OverflowDropOldest)
	s := newTestSession(t, hub, "u1", 1)
	hub.Join(s.ID(), "chat:c1")

	hub.Publish(context.Background(), domain.NewEvent("chat:c1", domain.KindMessageReceived, "first"))
	require.Equal(t, 1, hub.Publish(context.Background(), domain.NewEvent("chat:c1", domain.KindMessageReceived, "second")))

	f := readFrame(t, s)
	require.JSONEq(t, `"second"`, string(f.Data))
	require.Equal(t, []string{s.ID()}, hub.Members("chat:c1"))
	require.Equal(t, int64(1), hub.Stats().Dropped)
	require.Zero(t, hub.Stats().Overflows)
}

func TestHubRegisterReplacesStaleSession(t *testing.T) {
	hub := NewHub(OverflowDisconnect)
	s := newTestSession(t, hub, "u1", 2)
	hub.Join(s.ID(), "chat:c1")

	replacement := NewSession(hub, nil, "u1", nil, 2, nil)
	replacement.id = s.ID()
	hub.Register(replacement)

	require.Empty(t, hub.Topics(s.ID()))
	require.Empty(t, hub.Members("chat:c1"))
	_, open := <-s.send
	require.False(t, open)
}

func TestHubConcurrentMembershipAndPublish(t *testing.T) {
	hub := NewHub(OverflowDropOldest)
	sessions := make([]*Session, 16)
	for i := range sessions {
		sessions[i] = newTestSession(t, hub, fmt.Sprintf("u%d", i), 4)
	}

	var wg sync.WaitGroup
	for i, s := range sessions {
		wg.Add(2)
		go func(s *Session, i int) {
			defer wg.Done()
			topic := fmt.Sprintf("question:%d", i%3)
			for j := 0; j < 50; j++ {
				hub.Join(s.ID(), topic)
				hub.Leave(s.ID(), topic)
			}
			hub.Join(s.ID(), topic)
		}(s, i)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				hub.Publish(context.Background(), domain.NewEvent(fmt.Sprintf("question:%d", i%3), domain.KindNewAnswer, j))
			}
		}(i)
	}
	wg.Wait()

	total := 0
	for i := 0; i < 3; i++ {
		total += len(hub.Members(fmt.Sprintf("question:%d", i)))
	}
	require.Equal(t, len(sessions), total)

	hub.Close()
	require.Zero(t, hub.Stats().Sessions)
	require.Zero(t, hub.Stats().Topics)
}
