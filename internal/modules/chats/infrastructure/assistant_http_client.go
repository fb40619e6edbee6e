package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"studentForum/internal/modules/chats/application/port"
	"studentForum/internal/modules/chats/domain"
	"studentForum/internal/shared/normalization"
)

var ErrEmptyReply = errors.New("assistant returned an empty reply")

// AssistantHTTPClient asks a remote completion service for the reply.
// It POSTs {"messages":[{role,content}]} to /chat and accepts {"reply"}, {"message"} or {"content"},
// optionally wrapped in {"data": ...}.
type AssistantHTTPClient struct {
	endpoint jsonEndpoint
}

func NewAssistantHTTPClient(baseURL string, timeout time.Duration, client *http.Client) *AssistantHTTPClient {
	return &AssistantHTTPClient{endpoint: newJSONEndpoint(baseURL, timeout, client)}
}

type assistantMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func (c *AssistantHTTPClient) Reply(ctx context.Context, history []domain.Message) (string, error) {
	messages := make([]assistantMessage, 0, len(history))
	for _, m := range history {
		messages = append(messages, assistantMessage{Role: m.Role, Content: m.Content})
	}
	body, err := c.endpoint.post(ctx, "/chat", map[string]any{"messages": messages})
	if err != nil {
		slog.Error("assistant call failed", slog.String("url", c.endpoint.url("/chat")), slog.Any("error", err))
		return "", err
	}
	defer body.Close()
	return decodeReply(body)
}

func decodeReply(body io.Reader) (string, error) {
	var payload any
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode assistant reply: %w", err)
	}
	if text := normalization.AsString(payload); text != "" {
		return text, nil
	}
	fields := normalization.MapFromPayload(payload)
	for _, key := range []string{"reply", "message", "content", "text"} {
		if text := normalization.AsString(fields[key]); text != "" {
			return text, nil
		}
	}
	return "", ErrEmptyReply
}

var _ port.Assistant = (*AssistantHTTPClient)(nil)
