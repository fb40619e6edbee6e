package handler

import (
	"context"
	"log/slog"
	"strings"

	"studentForum/internal/modules/realtime/application/port"
	"studentForum/internal/modules/realtime/application/usecase"
	"studentForum/internal/modules/realtime/domain"
)

// MutationStreamHandler reenvía las mutaciones publicadas por otros escritores en un tópico Kafka al relay.
// Con allowedKinds vacío se aceptan todos los tipos.
type MutationStreamHandler struct {
	kafkaTopic   string
	allowedKinds map[domain.MutationKind]struct{}
	relay        *usecase.RelayUseCase
}

func NewMutationStreamHandler(kafkaTopic string, allowedKinds []string, relay *usecase.RelayUseCase) *MutationStreamHandler {
	kinds := make(map[domain.MutationKind]struct{}, len(allowedKinds))
	for _, k := range allowedKinds {
		if v := domain.NormalizeMutationKind(k); v != "" {
			kinds[v] = struct{}{}
		}
	}
	return &MutationStreamHandler{
		kafkaTopic:   strings.TrimSpace(kafkaTopic),
		allowedKinds: kinds,
		relay:        relay,
	}
}

func (h *MutationStreamHandler) Topic() string { return h.kafkaTopic }

func (h *MutationStreamHandler) Handle(ctx context.Context, mutation *domain.Mutation) error {
	if mutation == nil || mutation.Kind == "" {
		return nil
	}
	if len(h.allowedKinds) > 0 {
		if _, ok := h.allowedKinds[mutation.Kind]; !ok {
			slog.Debug("mutation-stream skipped", slog.String("topic", h.kafkaTopic), slog.String("kind", string(mutation.Kind)))
			return nil
		}
	}
	h.relay.NotifyMutation(ctx, *mutation)
	return nil
}

var _ port.TopicHandler = (*MutationStreamHandler)(nil)
