package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"studentForum/internal/modules/chats/application/port"
	"studentForum/internal/modules/chats/domain"
	rtport "studentForum/internal/modules/realtime/application/port"
	rtdomain "studentForum/internal/modules/realtime/domain"
	"studentForum/internal/platform/store"
)

type ChatService struct {
	store     store.DocumentStore
	relay     rtport.Relay
	assistant port.Assistant
	now       func() time.Time
}

func NewChatService(s store.DocumentStore, relay rtport.Relay, assistant port.Assistant) *ChatService {
	return &ChatService{store: s, relay: relay, assistant: assistant, now: time.Now}
}

// List returns the user's chats, most recently active first.
func (s *ChatService) List(ctx context.Context, userID string) ([]domain.Chat, error) {
	chats, err := store.FindAs[domain.Chat](ctx, s.store, store.Chats, store.Filter{"userId": userID})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(chats, func(i, j int) bool { return chats[i].UpdatedAt.After(chats[j].UpdatedAt) })
	return chats, nil
}

func (s *ChatService) Create(ctx context.Context, userID string) (domain.Chat, error) {
	now := s.now().UTC()
	chat := domain.Chat{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     domain.DefaultTitle,
		Messages:  []domain.Message{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Insert(ctx, store.Chats, chat.ID, chat); err != nil {
		return domain.Chat{}, fmt.Errorf("insert chat: %w", err)
	}
	return chat, nil
}

func (s *ChatService) Get(ctx context.Context, userID, id string) (domain.Chat, error) {
	chat, err := store.GetAs[domain.Chat](ctx, s.store, store.Chats, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Chat{}, domain.ErrChatNotFound
	}
	if err != nil {
		return domain.Chat{}, err
	}
	if chat.UserID != userID {
		return domain.Chat{}, domain.ErrNotOwner
	}
	return chat, nil
}

func (s *ChatService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	return s.store.Delete(ctx, store.Chats, id)
}

// SendMessage appends the user's message, asks the assistant and appends its reply.
// Each appended message is relayed to the chat topic. Assistant failures produce the fallback reply.
func (s *ChatService) SendMessage(ctx context.Context, userID, id, content string) (domain.Chat, error) {
	chat, err := s.Get(ctx, userID, id)
	if err != nil {
		return domain.Chat{}, err
	}

	userMsg := domain.Message{Role: domain.RoleUser, Content: strings.TrimSpace(content), Timestamp: s.now().UTC()}
	if len(chat.Messages) == 0 {
		chat.Title = domain.TitleFrom(userMsg.Content)
	}
	chat.Messages = append(chat.Messages, userMsg)
	if err := s.save(ctx, &chat, userMsg); err != nil {
		return domain.Chat{}, err
	}

	reply, err := s.assistant.Reply(ctx, chat.Messages)
	if err != nil || strings.TrimSpace(reply) == "" {
		slog.Warn("assistant reply failed", slog.String("chatId", chat.ID), slog.Any("error", err))
		reply = domain.FallbackReply
	}
	assistantMsg := domain.Message{Role: domain.RoleAssistant, Content: strings.TrimSpace(reply), Timestamp: s.now().UTC()}
	chat.Messages = append(chat.Messages, assistantMsg)
	if err := s.save(ctx, &chat, assistantMsg); err != nil {
		return domain.Chat{}, err
	}
	return chat, nil
}

func (s *ChatService) save(ctx context.Context, chat *domain.Chat, appended domain.Message) error {
	chat.UpdatedAt = appended.Timestamp
	if err := s.store.Replace(ctx, store.Chats, chat.ID, chat); err != nil {
		return fmt.Errorf("save chat: %w", err)
	}
	s.relay.Notify(ctx, rtdomain.MutationChatMessageAppended, rtdomain.AffectedIDs{ChatID: chat.ID, UserID: chat.UserID}, map[string]any{
		"chatId":  chat.ID,
		"message": appended,
	})
	return nil
}
