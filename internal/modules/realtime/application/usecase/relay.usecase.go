package usecase

import (
	"context"
	"log/slog"
	"time"

	"studentForum/internal/modules/realtime/application/port"
	"studentForum/internal/modules/realtime/domain"
)

// RelayUseCase turns committed store writes into published events. It holds no state
// between calls and performs exactly one publish per routed topic, without retries.
type RelayUseCase struct {
	broadcaster port.Broadcaster
	now         func() time.Time
}

func NewRelayUseCase(b port.Broadcaster) *RelayUseCase {
	return &RelayUseCase{broadcaster: b, now: time.Now}
}

func (uc *RelayUseCase) Notify(ctx context.Context, kind domain.MutationKind, ids domain.AffectedIDs, payload any) {
	targets, err := domain.Route(kind, ids)
	if err != nil {
		slog.Warn("relay route failed", slog.String("kind", string(kind)), slog.Any("ids", ids), slog.Any("error", err))
		return
	}
	at := uc.now().UTC()
	for _, target := range targets {
		delivered := uc.broadcaster.Publish(ctx, &domain.Event{
			Topic:     target.Topic,
			Kind:      target.Kind,
			Payload:   payload,
			Timestamp: at,
		})
		slog.Debug("relay published", slog.String("kind", string(kind)), slog.String("topic", target.Topic), slog.String("event", string(target.Kind)), slog.Int("delivered", delivered))
	}
}

// NotifyMutation relays a mutation received from an external producer.
func (uc *RelayUseCase) NotifyMutation(ctx context.Context, mutation domain.Mutation) {
	uc.Notify(ctx, mutation.Kind, mutation.IDs, mutation.Payload)
}

var _ port.Relay = (*RelayUseCase)(nil)
