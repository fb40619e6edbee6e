//go:generate go run go.uber.org/mock/mockgen -source=assistant.port.go -destination=../../../../mocks/mock_assistant.go -package=mocks

package port

import (
	"context"

	"studentForum/internal/modules/chats/domain"
)

// Assistant produces the assistant reply for a conversation whose last message is the user's.
type Assistant interface {
	Reply(ctx context.Context, history []domain.Message) (string, error)
}
