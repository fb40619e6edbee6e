package port

import (
	"context"

	notifications "studentForum/internal/modules/notifications/domain"
)

// Notifier stores a notification and pushes it to its recipient.
type Notifier interface {
	Create(ctx context.Context, n notifications.Notification) (notifications.Notification, error)
}
