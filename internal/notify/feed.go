package notify

import (
	"context"
	"fmt"
	"sync"

	"stafflink/internal/api"
	"stafflink/internal/models"
)

// Feed holds the notification snapshot for one identity. There is no
// polling: the list is fetched on view mount and after mutations.
type Feed struct {
	api  *api.Client
	self int64

	mux           sync.RWMutex
	notifications []models.Notification
}

func NewFeed(client *api.Client, selfID int64) *Feed {
	return &Feed{api: client, self: selfID}
}

// Refresh fetches the full list and replaces the local snapshot. No
// incremental merging.
func (f *Feed) Refresh(ctx context.Context) error {
	var notifications []models.Notification
	path := fmt.Sprintf("/api/employees/%d/notifications", f.self)
	if err := f.api.Get(ctx, path, &notifications); err != nil {
		return err
	}

	f.mux.Lock()
	f.notifications = notifications
	f.mux.Unlock()

	return nil
}

// Notifications returns a copy of the current snapshot.
func (f *Feed) Notifications() []models.Notification {
	f.mux.RLock()
	defer f.mux.RUnlock()

	result := make([]models.Notification, len(f.notifications))
	copy(result, f.notifications)
	return result
}

// UnreadCount counts unread notifications in the current snapshot, for the
// bell badge.
func (f *Feed) UnreadCount() int {
	f.mux.RLock()
	defer f.mux.RUnlock()

	count := 0
	for _, n := range f.notifications {
		if !n.IsRead {
			count++
		}
	}
	return count
}

// MarkRead flips one notification to read upstream, then re-fetches the
// whole list. This is the eager variant used by the header bell, which must
// never show a stale badge.
func (f *Feed) MarkRead(ctx context.Context, notificationID int64) error {
	if err := f.markRead(ctx, notificationID); err != nil {
		return err
	}
	return f.Refresh(ctx)
}

// MarkReadLocal flips one notification upstream and patches only that record
// in place. This is the fast-path variant used by the full panel view, where
// a re-fetch per click would be wasteful.
func (f *Feed) MarkReadLocal(ctx context.Context, notificationID int64) error {
	if err := f.markRead(ctx, notificationID); err != nil {
		return err
	}

	f.mux.Lock()
	for i := range f.notifications {
		if f.notifications[i].ID == notificationID {
			f.notifications[i].IsRead = true
			break
		}
	}
	f.mux.Unlock()

	return nil
}

func (f *Feed) markRead(ctx context.Context, notificationID int64) error {
	path := fmt.Sprintf("/api/employees/notifications/%d", notificationID)
	return f.api.Patch(ctx, path, map[string]any{"is_read": true}, nil)
}
