package infrastructure

import (
	"context"
	"slices"

	"github.com/samber/lo"

	"studentForum/internal/modules/realtime/application/port"
	"studentForum/internal/modules/realtime/domain"
)

// HandlerRegistry routes mutations consumed from the broker to the handler registered for their source topic.
type HandlerRegistry struct {
	handlers map[string]port.TopicHandler
}

func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{handlers: make(map[string]port.TopicHandler)}
}

func (r *HandlerRegistry) Register(h port.TopicHandler) {
	if h == nil || h.Topic() == "" {
		return
	}
	r.handlers[h.Topic()] = h
}

// Topics lists the broker topics that have a handler, sorted.
func (r *HandlerRegistry) Topics() []string {
	topics := lo.Keys(r.handlers)
	slices.Sort(topics)
	return topics
}

func (r *HandlerRegistry) Dispatch(ctx context.Context, topic string, mutation *domain.Mutation) error {
	if handler, ok := r.handlers[topic]; ok {
		return handler.Handle(ctx, mutation)
	}
	return nil
}
