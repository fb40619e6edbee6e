package broker

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"studentForum/internal/modules/realtime/domain"
	"studentForum/internal/shared/normalization"
)

const readBackoff = time.Second

type KafkaConsumer struct {
	reader *kafka.Reader
}

func NewKafkaConsumer(brokers []string, groupID string, topic string) *KafkaConsumer {
	return &KafkaConsumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers: brokers,
			GroupID: groupID,
			Topic:   topic,
		}),
	}
}

// Consume reads until ctx is cancelled. Handler errors are logged and the message is committed anyway.
func (c *KafkaConsumer) Consume(ctx context.Context, handler func(*domain.Mutation) error) error {
	defer c.reader.Close()
	for {
		m, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return ctx.Err()
			}
			slog.Warn("kafka read error", slog.Any("error", err))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(readBackoff):
			}
			continue
		}
		mutation, err := DecodeMutation(m.Topic, m.Value)
		if err != nil {
			slog.Warn("kafka message skipped",
				slog.String("topic", m.Topic),
				slog.Int("partition", m.Partition),
				slog.Int64("offset", m.Offset),
				slog.Any("error", err),
			)
			continue
		}
		slog.Info("kafka message consumed",
			slog.String("topic", m.Topic),
			slog.Int("partition", m.Partition),
			slog.Int64("offset", m.Offset),
			slog.String("kind", string(mutation.Kind)),
			slog.Any("ids", mutation.IDs),
		)
		if err := handler(mutation); err != nil {
			slog.Warn("kafka handler error", slog.Any("error", err))
		}
	}
}

// rawEvent accepts both the native {kind, ids, payload} envelope and the
// entity/action envelope used by the other platform services.
type rawEvent struct {
	Kind       string             `json:"kind"`
	IDs        domain.AffectedIDs `json:"ids"`
	Payload    any                `json:"payload"`
	Entity     string             `json:"entity"`
	Action     string             `json:"action"`
	ResourceID string             `json:"resourceId"`
	Metadata   map[string]string  `json:"metadata"`
	Data       any                `json:"data"`
}

var errUndecodable = errors.New("message has neither kind nor entity/action")

// DecodeMutation turns a broker message into a mutation. When the body names no
// entity, the last two dot-separated parts of the broker topic are used (e.g. forum.question.created).
func DecodeMutation(topic string, value []byte) (*domain.Mutation, error) {
	var event rawEvent
	if err := json.Unmarshal(value, &event); err != nil {
		return nil, err
	}

	if kind := domain.NormalizeMutationKind(event.Kind); kind != "" {
		return &domain.Mutation{Kind: kind, IDs: event.IDs, Payload: firstPayload(event.Payload, event.Data)}, nil
	}

	entity, action := event.Entity, event.Action
	if strings.TrimSpace(entity) == "" || strings.TrimSpace(action) == "" {
		inferredEntity, inferredAction := inferEntityActionFromTopic(topic)
		entity = firstNonEmpty(entity, inferredEntity)
		action = firstNonEmpty(action, inferredAction)
	}
	entity = normalization.NormalizeEntity(entity)
	action = normalization.NormalizeAction(action)
	if entity == "" || action == "" {
		return nil, errUndecodable
	}

	ids := event.IDs
	fillIDs(&ids, event.Metadata)
	resource := strings.TrimSpace(event.ResourceID)
	switch entity {
	case "question":
		ids.QuestionID = firstNonEmpty(ids.QuestionID, resource)
	case "answer":
		ids.AnswerID = firstNonEmpty(ids.AnswerID, resource)
	case "mentorship":
		ids.MentorshipID = firstNonEmpty(ids.MentorshipID, resource)
	}

	// resourceId of a chat message names the message; the chat comes from ids or metadata.
	kind := domain.NormalizeMutationKind(entity + "-" + action)
	if entity == "chat-message" && action == "created" {
		kind = domain.MutationChatMessageAppended
	}

	return &domain.Mutation{
		Kind:    kind,
		IDs:     ids,
		Payload: firstPayload(event.Payload, event.Data),
	}, nil
}

func fillIDs(ids *domain.AffectedIDs, metadata map[string]string) {
	if len(metadata) == 0 {
		return
	}
	ids.QuestionID = firstNonEmpty(ids.QuestionID, metadata["questionId"])
	ids.AnswerID = firstNonEmpty(ids.AnswerID, metadata["answerId"])
	ids.ChatID = firstNonEmpty(ids.ChatID, metadata["chatId"])
	ids.UserID = firstNonEmpty(ids.UserID, metadata["userId"])
	ids.MentorshipID = firstNonEmpty(ids.MentorshipID, metadata["mentorshipId"])
}

func firstPayload(values ...any) any {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

func inferEntityActionFromTopic(topic string) (string, string) {
	parts := strings.Split(topic, ".")
	if len(parts) >= 2 {
		entity := strings.TrimSpace(parts[len(parts)-2])
		action := strings.TrimSpace(parts[len(parts)-1])
		if entity != "" && action != "" {
			return entity, action
		}
	}
	return "", ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
