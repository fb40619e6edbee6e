package domain

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

var (
	ErrChatNotFound = errors.New("chat not found")
	ErrNotOwner     = errors.New("chat belongs to another user")
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"

	DefaultTitle  = "New Chat"
	FallbackReply = "Sorry, I'm having trouble responding right now."

	titleLength = 30
)

type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type Chat struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TitleFrom derives a chat title from its first user message.
func TitleFrom(content string) string {
	content = strings.Join(strings.Fields(content), " ")
	if content == "" {
		return DefaultTitle
	}
	if utf8.RuneCountInString(content) <= titleLength {
		return content
	}
	runes := []rune(content)
	return strings.TrimSpace(string(runes[:titleLength])) + "..."
}
