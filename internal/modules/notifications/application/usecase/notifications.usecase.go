package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"studentForum/internal/modules/notifications/domain"
	"studentForum/internal/modules/realtime/application/port"
	rtdomain "studentForum/internal/modules/realtime/domain"
	"studentForum/internal/platform/store"
)

type NotificationService struct {
	store store.DocumentStore
	relay port.Relay
	now   func() time.Time
}

func NewNotificationService(s store.DocumentStore, relay port.Relay) *NotificationService {
	return &NotificationService{store: s, relay: relay, now: time.Now}
}

// Create stores the notification and pushes it to the recipient's feed.
func (s *NotificationService) Create(ctx context.Context, n domain.Notification) (domain.Notification, error) {
	n.RecipientID = strings.TrimSpace(n.RecipientID)
	if n.RecipientID == "" {
		return domain.Notification{}, domain.ErrMissingRecipient
	}
	n.ID = uuid.NewString()
	n.Read = false
	n.CreatedAt = s.now().UTC()
	if err := s.store.Insert(ctx, store.Notifications, n.ID, n); err != nil {
		return domain.Notification{}, fmt.Errorf("insert notification: %w", err)
	}
	s.relay.Notify(ctx, rtdomain.MutationNotificationCreated, rtdomain.AffectedIDs{UserID: n.RecipientID}, n)
	return n, nil
}

// List returns the recipient's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, recipientID string) ([]domain.Notification, error) {
	items, err := store.FindAs[domain.Notification](ctx, s.store, store.Notifications, store.Filter{"recipientId": recipientID})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
	return items, nil
}

// Unread counts the recipient's unread notifications.
func (s *NotificationService) Unread(ctx context.Context, recipientID string) (int, error) {
	items, err := s.List(ctx, recipientID)
	if err != nil {
		return 0, err
	}
	return lo.CountBy(items, func(n domain.Notification) bool { return !n.Read }), nil
}

func (s *NotificationService) MarkRead(ctx context.Context, recipientID, id string) (domain.Notification, error) {
	n, err := s.owned(ctx, recipientID, id)
	if err != nil {
		return domain.Notification{}, err
	}
	if n.Read {
		return n, nil
	}
	n.Read = true
	if err := s.store.Replace(ctx, store.Notifications, n.ID, n); err != nil {
		return domain.Notification{}, err
	}
	return n, nil
}

// MarkAllRead returns how many notifications changed.
func (s *NotificationService) MarkAllRead(ctx context.Context, recipientID string) (int, error) {
	items, err := s.List(ctx, recipientID)
	if err != nil {
		return 0, err
	}
	changed := 0
	for _, n := range lo.Filter(items, func(n domain.Notification, _ int) bool { return !n.Read }) {
		n.Read = true
		if err := s.store.Replace(ctx, store.Notifications, n.ID, n); err != nil {
			return changed, err
		}
		changed++
	}
	return changed, nil
}

func (s *NotificationService) Delete(ctx context.Context, recipientID, id string) error {
	if _, err := s.owned(ctx, recipientID, id); err != nil {
		return err
	}
	return s.store.Delete(ctx, store.Notifications, id)
}

func (s *NotificationService) owned(ctx context.Context, recipientID, id string) (domain.Notification, error) {
	n, err := store.GetAs[domain.Notification](ctx, s.store, store.Notifications, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Notification{}, domain.ErrNotificationNotFound
	}
	if err != nil {
		return domain.Notification{}, err
	}
	if n.RecipientID != recipientID {
		return domain.Notification{}, domain.ErrNotRecipient
	}
	return n, nil
}
