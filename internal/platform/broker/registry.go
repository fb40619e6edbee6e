package broker

import (
	"context"
	"log/slog"
	"sync"

	"studentForum/internal/modules/realtime/domain"
	"studentForum/internal/modules/realtime/infrastructure"
)

// StartKafkaConsumers runs one consumer per topic and returns a wait function that
// blocks until every consumer has stopped after ctx is cancelled.
func StartKafkaConsumers(
	ctx context.Context,
	registry *infrastructure.HandlerRegistry,
	brokers []string,
	groupID string,
	topics []string,
) (wait func()) {
	var wg sync.WaitGroup
	if len(brokers) == 0 || len(topics) == 0 {
		// kafka.NewReader panics on an empty broker list
		return wg.Wait
	}
	for _, topic := range topics {
		wg.Add(1)
		go func(tp string) {
			defer wg.Done()
			consumer := NewKafkaConsumer(brokers, groupID, tp)
			err := consumer.Consume(ctx, func(mutation *domain.Mutation) error {
				return registry.Dispatch(ctx, tp, mutation)
			})
			slog.Info("kafka consumer stopped", slog.String("topic", tp), slog.Any("reason", err))
		}(topic)
	}
	return wg.Wait
}
