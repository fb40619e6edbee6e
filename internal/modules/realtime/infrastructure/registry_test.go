package infrastructure

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"studentForum/internal/mocks"
	"studentForum/internal/modules/realtime/domain"
)

func TestHandlerRegistryDispatchesByTopic(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)

	primary := mocks.NewMockTopicHandler(ctrl)
	primary.EXPECT().Topic().Return("forum.mutations").AnyTimes()
	legacy := mocks.NewMockTopicHandler(ctrl)
	legacy.EXPECT().Topic().Return("legacy.events").AnyTimes()
	unnamed := mocks.NewMockTopicHandler(ctrl)
	unnamed.EXPECT().Topic().Return("").AnyTimes()

	registry := NewHandlerRegistry()
	registry.Register(primary)
	registry.Register(legacy)
	registry.Register(unnamed)
	registry.Register(nil)
	req.Equal([]string{"forum.mutations", "legacy.events"}, registry.Topics())

	mutation := &domain.Mutation{Kind: domain.MutationQuestionCreated}
	boom := errors.New("boom")
	primary.EXPECT().Handle(gomock.Any(), mutation).Return(nil)
	legacy.EXPECT().Handle(gomock.Any(), mutation).Return(boom)

	ctx := context.Background()
	req.NoError(registry.Dispatch(ctx, "forum.mutations", mutation))
	req.ErrorIs(registry.Dispatch(ctx, "legacy.events", mutation), boom)
	req.NoError(registry.Dispatch(ctx, "unknown", mutation))
}
