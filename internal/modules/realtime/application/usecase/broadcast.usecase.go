package usecase

import (
	"context"

	"studentForum/internal/modules/realtime/application/port"
	"studentForum/internal/modules/realtime/domain"
)

// BroadcastUseCase publishes pre-built events, e.g. the client `new-message` passthrough.
type BroadcastUseCase struct {
	broadcaster port.Broadcaster
}

func NewBroadcastUseCase(b port.Broadcaster) *BroadcastUseCase {
	return &BroadcastUseCase{broadcaster: b}
}

func (uc *BroadcastUseCase) Execute(ctx context.Context, evt *domain.Event) int {
	return uc.broadcaster.Publish(ctx, evt)
}
