//go:generate go run go.uber.org/mock/mockgen -source=pubsub.port.go -destination=../../../../mocks/mock_pubsub.go -package=mocks

package port

import (
	"context"

	"studentForum/internal/modules/realtime/domain"
)

// Broadcaster define el contrato para enviar eventos a las sesiones WebSocket unidas a un tópico.
// Publish returns the number of sessions the event was enqueued for.
type Broadcaster interface {
	Publish(ctx context.Context, evt *domain.Event) int
}

// Relay is the handle REST services receive to announce a committed store write.
// It is fire-and-forget: it never fails and never waits on delivery.
type Relay interface {
	Notify(ctx context.Context, kind domain.MutationKind, ids domain.AffectedIDs, payload any)
}

// TopicHandler define la interfaz que deben implementar los handlers registrados por tópico Kafka.
type TopicHandler interface {
	Topic() string
	Handle(ctx context.Context, mutation *domain.Mutation) error
}
