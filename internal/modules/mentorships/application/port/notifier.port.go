package port

import (
	"context"

	notifications "studentForum/internal/modules/notifications/domain"
)

type Notifier interface {
	Create(ctx context.Context, n notifications.Notification) (notifications.Notification, error)
}
