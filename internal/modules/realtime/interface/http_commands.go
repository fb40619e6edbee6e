package transport

import (
	"context"
	"encoding/json"
	"log/slog"

	"studentForum/internal/modules/realtime/application/usecase"
	domain "studentForum/internal/modules/realtime/domain"
	"studentForum/internal/modules/realtime/infrastructure"
	"studentForum/internal/shared/normalization"
)

// NewCommandProcessor builds the socket command set: membership commands from the
// registry plus the `new-message` passthrough. guard may be nil.
func NewCommandProcessor(hub *infrastructure.Hub, broadcastUC *usecase.BroadcastUseCase, guard infrastructure.TopicGuard) *infrastructure.CommandProcessor {
	processor := infrastructure.NewCommandProcessor(hub, guard)
	processor.Register("new-message", newMessageHandler(broadcastUC))
	return processor
}

// newMessageHandler re-publishes the payload verbatim to the chat named by payload.chatId.
// The sender is not checked against the chat's participants.
func newMessageHandler(broadcastUC *usecase.BroadcastUseCase) infrastructure.CommandHandler {
	return func(ctx context.Context, session *infrastructure.Session, cmd infrastructure.Command) {
		if len(cmd.Payload) == 0 {
			session.SendError("new-message", "missing payload")
			return
		}
		var body map[string]any
		if err := json.Unmarshal(cmd.Payload, &body); err != nil {
			session.SendError("new-message", "invalid payload")
			return
		}
		chatID := normalization.AsID(body["chatId"])
		if chatID == "" {
			session.SendError("new-message", "missing chatId")
			return
		}
		topic := domain.ChatTopic(chatID)
		delivered := broadcastUC.Execute(ctx, domain.NewEvent(topic, domain.KindMessageReceived, cmd.Payload))
		slog.Debug("ws new-message relayed", slog.String("sessionId", session.ID()), slog.String("topic", topic), slog.Int("delivered", delivered))
	}
}
