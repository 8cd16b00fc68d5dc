// Package feed maintains a live, capped, newest-first view of notifications
// with read/unread accounting, driven by insert/update/delete events from
// a subscription so every connected dashboard session stays current.
package feed

import (
	"context"
	"log/slog"
	"sync"

	"github.com/havenhouse/hms/internal/model"
	"github.com/havenhouse/hms/internal/storage"
)

// EventKind discriminates subscription events.
type EventKind string

const (
	EventInsert EventKind = "insert"
	EventUpdate EventKind = "update"
	EventDelete EventKind = "delete"
)

// Event is a single change pushed by the underlying store.
type Event struct {
	Kind         EventKind
	Notification model.Notification
}

// Subscription is a transport-independent stream of notification changes.
// The Kafka adapter implements it for production; tests feed a plain channel.
type Subscription interface {
	Events() <-chan Event
	Close() error
}

// Alerter surfaces a newly arrived notification to the host environment.
// Failures are logged and ignored, they never affect feed state.
type Alerter interface {
	Alert(title, message string) error
}

// ChangePublisher announces local read flips and deletions so other
// sessions converge. Publishing is best-effort and never affects feed state.
type ChangePublisher interface {
	PublishChange(ctx context.Context, change model.NotificationChange) error
}

// Snapshot is the feed state handed to HTTP handlers.
type Snapshot struct {
	Notifications []model.Notification `json:"notifications"`
	UnreadCount   int                  `json:"unreadCount"`
}

// Feed holds the in-memory notification list. All exported methods are safe
// for concurrent use.
type Feed struct {
	store   storage.NotificationStorage
	alerter Alerter
	changes ChangePublisher
	logger  *slog.Logger
	size    int

	mu     sync.Mutex
	items  []model.Notification
	unread int

	errs chan error
}

func New(store storage.NotificationStorage, alerter Alerter, changes ChangePublisher, size int, logger *slog.Logger) *Feed {
	return &Feed{
		store:   store,
		alerter: alerter,
		changes: changes,
		logger:  logger.With("layer", "feed", "component", "notificationFeed"),
		size:    size,
		errs:    make(chan error, 16),
	}
}

// Errors reports persistence failures encountered on load or mutation.
// A failed operation leaves the in-memory state unchanged.
func (f *Feed) Errors() <-chan error { return f.errs }

// Load fetches the most recent notifications from storage, newest first,
// replacing any prior in-memory state.
func (f *Feed) Load(ctx context.Context) error {
	items, err := f.store.FindRecent(ctx, f.size)
	if err != nil {
		f.logger.Error("Failed to load notifications", slog.Any("error", err))
		f.reportError(err)
		return err
	}

	unread := 0
	for _, n := range items {
		if !n.IsRead {
			unread++
		}
	}

	f.mu.Lock()
	f.items = items
	f.unread = unread
	f.mu.Unlock()

	f.logger.Info("Feed loaded", slog.Int("count", len(items)), slog.Int("unread", unread))
	return nil
}

// Run consumes subscription events until the context ends or the
// subscription's channel closes.
func (f *Feed) Run(ctx context.Context, sub Subscription) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-sub.Events():
			if !ok {
				return
			}
			f.Apply(ev)
		}
	}
}

// Apply folds a single subscription event into the feed.
//
// Inserts are prepended and bump the unread counter; the list is trimmed to
// the configured size. Updates patch the matching record in place without
// reordering, and a false→true flip of is_read decrements the counter,
// floored at zero. Deletes remove the matching record and decrement the
// counter when it was unread. Updates and deletes for unknown ids are
// dropped.
func (f *Feed) Apply(ev Event) {
	f.mu.Lock()

	switch ev.Kind {
	case EventInsert:
		f.items = append([]model.Notification{ev.Notification}, f.items...)
		if len(f.items) > f.size {
			f.items = f.items[:f.size]
		}
		if !ev.Notification.IsRead {
			f.unread++
		}
		f.mu.Unlock()

		if f.alerter != nil {
			if err := f.alerter.Alert(ev.Notification.Title, ev.Notification.Message); err != nil {
				f.logger.Warn("Failed to surface alert", slog.Any("error", err))
			}
		}
		return

	case EventUpdate:
		for i := range f.items {
			if f.items[i].ID != ev.Notification.ID {
				continue
			}
			wasRead := f.items[i].IsRead
			f.items[i] = ev.Notification
			if !wasRead && ev.Notification.IsRead && f.unread > 0 {
				f.unread--
			}
			break
		}

	case EventDelete:
		for i := range f.items {
			if f.items[i].ID != ev.Notification.ID {
				continue
			}
			if !f.items[i].IsRead && f.unread > 0 {
				f.unread--
			}
			f.items = append(f.items[:i], f.items[i+1:]...)
			break
		}
	}

	f.mu.Unlock()
}

// Snapshot returns a copy of the current list and unread count.
func (f *Feed) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	items := make([]model.Notification, len(f.items))
	copy(items, f.items)
	return Snapshot{Notifications: items, UnreadCount: f.unread}
}

// MarkAsRead persists the read flag and patches local state. Marking an
// already-read notification is a no-op for the counter.
func (f *Feed) MarkAsRead(ctx context.Context, id string) error {
	if err := f.store.MarkRead(ctx, id); err != nil {
		f.logger.Error("Failed to mark notification read", slog.String("id", id), slog.Any("error", err))
		f.reportError(err)
		return err
	}

	var flipped *model.Notification
	f.mu.Lock()
	for i := range f.items {
		if f.items[i].ID != id {
			continue
		}
		if !f.items[i].IsRead {
			f.items[i].IsRead = true
			if f.unread > 0 {
				f.unread--
			}
			n := f.items[i]
			flipped = &n
		}
		break
	}
	f.mu.Unlock()

	if flipped != nil {
		f.publishUpdate(ctx, *flipped)
	}
	return nil
}

// MarkAllAsRead batches every currently-unread id into one storage update.
// No-op when nothing is unread.
func (f *Feed) MarkAllAsRead(ctx context.Context) error {
	f.mu.Lock()
	ids := make([]string, 0, f.unread)
	for _, n := range f.items {
		if !n.IsRead {
			ids = append(ids, n.ID)
		}
	}
	f.mu.Unlock()

	if len(ids) == 0 {
		return nil
	}

	if err := f.store.MarkManyRead(ctx, ids); err != nil {
		f.logger.Error("Failed to mark notifications read", slog.Int("count", len(ids)), slog.Any("error", err))
		f.reportError(err)
		return err
	}

	var flipped []model.Notification
	f.mu.Lock()
	for i := range f.items {
		if !f.items[i].IsRead {
			f.items[i].IsRead = true
			if f.unread > 0 {
				f.unread--
			}
			flipped = append(flipped, f.items[i])
		}
	}
	f.mu.Unlock()

	for _, n := range flipped {
		f.publishUpdate(ctx, n)
	}
	return nil
}

// Delete removes a notification. The unread counter drops only when the
// removed item was unread.
func (f *Feed) Delete(ctx context.Context, id string) error {
	if err := f.store.Delete(ctx, id); err != nil {
		f.logger.Error("Failed to delete notification", slog.String("id", id), slog.Any("error", err))
		f.reportError(err)
		return err
	}

	var removed *model.Notification
	f.mu.Lock()
	for i := range f.items {
		if f.items[i].ID != id {
			continue
		}
		if !f.items[i].IsRead && f.unread > 0 {
			f.unread--
		}
		n := f.items[i]
		removed = &n
		f.items = append(f.items[:i], f.items[i+1:]...)
		break
	}
	f.mu.Unlock()

	if removed != nil {
		f.publishChange(ctx, model.ChangeDelete, *removed)
	}
	return nil
}

func (f *Feed) publishUpdate(ctx context.Context, n model.Notification) {
	f.publishChange(ctx, model.ChangeUpdate, n)
}

func (f *Feed) publishChange(ctx context.Context, kind string, n model.Notification) {
	if f.changes == nil {
		return
	}
	change := model.NotificationChange{Kind: kind, Notification: n}
	if err := f.changes.PublishChange(ctx, change); err != nil {
		f.logger.Warn("Failed to publish feed change", slog.String("kind", kind), slog.String("id", n.ID), slog.Any("error", err))
	}
}

func (f *Feed) reportError(err error) {
	select {
	case f.errs <- err:
	default:
	}
}
