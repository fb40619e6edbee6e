package store

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrDuplicate = errors.New("document already exists")
)

// Collections used by the forum services.
const (
	Users              = "users"
	UserEmails         = "user_emails"
	Questions          = "questions"
	Answers            = "answers"
	Posts              = "posts"
	Mentorships        = "mentorships"
	MentorshipMessages = "mentorship_messages"
	Chats              = "chats"
	Notifications      = "notifications"
	Opportunities      = "opportunities"
	Scholarships       = "scholarships"
)

// Filter matches documents whose top-level string fields equal the given values.
// An empty filter matches every document of the collection.
type Filter map[string]string

// Decoder decodes the current document into out.
type Decoder func(out any) error

// DocumentStore is the persistence contract shared by every module. Documents are
// addressed by collection and id and are serialized through their JSON tags.
type DocumentStore interface {
	Insert(ctx context.Context, collection, id string, doc any) error
	Get(ctx context.Context, collection, id string, out any) error
	Replace(ctx context.Context, collection, id string, doc any) error
	Delete(ctx context.Context, collection, id string) error
	Find(ctx context.Context, collection string, filter Filter, each func(Decoder) error) error
	Close() error
}

// GetAs loads one document into a fresh T.
func GetAs[T any](ctx context.Context, s DocumentStore, collection, id string) (T, error) {
	var out T
	if err := s.Get(ctx, collection, id, &out); err != nil {
		return out, err
	}
	return out, nil
}

// FindAs collects every document matching filter.
func FindAs[T any](ctx context.Context, s DocumentStore, collection string, filter Filter) ([]T, error) {
	var out []T
	err := s.Find(ctx, collection, filter, func(decode Decoder) error {
		var item T
		if err := decode(&item); err != nil {
			return err
		}
		out = append(out, item)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", collection, err)
	}
	return out, nil
}

func matches(filter Filter, doc map[string]any) bool {
	for field, want := range filter {
		value, ok := doc[field]
		if !ok || value == nil {
			return false
		}
		if fmt.Sprint(value) != want {
			return false
		}
	}
	return true
}
