// Package service hosts side-effect helpers that sit between handlers
// and external systems: the notification dispatcher, the queue publisher
// and the AI assistant client.
package service

import (
	"context"
	"log"

	"github.com/iliyamo/mentor-match/internal/model"
	"github.com/iliyamo/mentor-match/internal/realtime"
)

// notificationStore is the slice of NotificationRepo the dispatcher
// needs; kept small so tests can supply a double.
type notificationStore interface {
	Create(ctx context.Context, userID uint64, message, link string) (model.Notification, error)
}

// Notifier persists notification rows and pushes them over the live
// channel when the recipient is connected. The row is written first and
// is the durable copy; push failures are invisible to callers.
type Notifier struct {
	Store    notificationStore
	Registry realtime.Registry
}

func NewNotifier(store notificationStore, reg realtime.Registry) *Notifier {
	return &Notifier{Store: store, Registry: reg}
}

// Notify persists the notification and attempts best-effort live
// delivery. The returned error covers persistence only.
func (n *Notifier) Notify(ctx context.Context, userID uint64, message, link string) error {
	row, err := n.Store.Create(ctx, userID, message, link)
	if err != nil {
		return err
	}
	if n.Registry != nil {
		n.Registry.Send(userID, realtime.Event{Name: "newNotification", Data: row})
	}
	return nil
}

// NotifyQuiet is Notify for fire-and-forget call sites: a failed write
// is logged and swallowed so it never rolls back the primary change.
func (n *Notifier) NotifyQuiet(ctx context.Context, userID uint64, message, link string) {
	if err := n.Notify(ctx, userID, message, link); err != nil {
		log.Printf("notify user %d failed: %v", userID, err)
	}
}

// Push sends an arbitrary event over the live channel without writing a
// notification row (used for newSession / sessionUpdated signals).
func (n *Notifier) Push(userID uint64, name string, data any) {
	if n.Registry != nil {
		n.Registry.Send(userID, realtime.Event{Name: name, Data: data})
	}
}
