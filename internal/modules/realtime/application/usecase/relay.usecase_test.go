package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"studentForum/internal/mocks"
	"studentForum/internal/modules/realtime/domain"
)

type recordingBroadcaster struct {
	mu     sync.Mutex
	events []*domain.Event
}

func (r *recordingBroadcaster) Publish(_ context.Context, evt *domain.Event) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
	return 1
}

func TestRelayPublishesOncePerTarget(t *testing.T) {
	rec := &recordingBroadcaster{}
	relay := NewRelayUseCase(rec)
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	relay.now = func() time.Time { return fixed }

	payload := map[string]any{"id": "q1", "title": "Limits"}
	relay.Notify(context.Background(), domain.MutationQuestionUpdated, domain.AffectedIDs{QuestionID: "q1"}, payload)

	require.Len(t, rec.events, 2)
	require.Equal(t, domain.QuestionsFeedTopic, rec.events[0].Topic)
	require.Equal(t, "question:q1", rec.events[1].Topic)
	for _, evt := range rec.events {
		require.Equal(t, domain.KindQuestionUpdated, evt.Kind)
		require.Equal(t, payload, evt.Payload)
		require.Equal(t, fixed, evt.Timestamp)
	}
}

func TestRelayDropsUnroutableMutation(t *testing.T) {
	rec := &recordingBroadcaster{}
	relay := NewRelayUseCase(rec)

	relay.Notify(context.Background(), domain.MutationAnswerCreated, domain.AffectedIDs{}, nil)
	relay.Notify(context.Background(), "post-liked", domain.AffectedIDs{QuestionID: "q1"}, nil)

	require.Empty(t, rec.events)
}

func TestRelayNotifyMutation(t *testing.T) {
	rec := &recordingBroadcaster{}
	relay := NewRelayUseCase(rec)

	relay.NotifyMutation(context.Background(), domain.Mutation{
		Kind: domain.MutationNotificationCreated,
		IDs:  domain.AffectedIDs{UserID: "u1"},
	})

	require.Len(t, rec.events, 1)
	require.Equal(t, "user-notifications:u1", rec.events[0].Topic)
	require.Equal(t, domain.KindNewNotification, rec.events[0].Kind)
}

func TestBroadcastUseCaseForwards(t *testing.T) {
	rec := &recordingBroadcaster{}
	uc := NewBroadcastUseCase(rec)

	n := uc.Execute(context.Background(), domain.NewEvent("chat:c1", domain.KindMessageReceived, "hi"))

	require.Equal(t, 1, n)
	require.Len(t, rec.events, 1)
}

func TestRelaySkipsPublishForMissingIDs(t *testing.T) {
	ctrl := gomock.NewController(t)
	broadcaster := mocks.NewMockBroadcaster(ctrl)
	broadcaster.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(0)

	NewRelayUseCase(broadcaster).Notify(context.Background(), domain.MutationMentorshipUpdated, domain.AffectedIDs{}, nil)
}
