package feed

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/havenhouse/hms/internal/model"
	"github.com/havenhouse/hms/internal/storage"
)

func notif(id string, read bool) model.Notification {
	return model.Notification{
		ID:        id,
		CreatedAt: time.Now(),
		Title:     "title " + id,
		Message:   "message " + id,
		Type:      model.NotifGeneral,
		IsRead:    read,
	}
}

func loadedFeed(t *testing.T, items []model.Notification) (*Feed, *storage.MockNotificationStorage) {
	t.Helper()
	store := storage.NewMockNotificationStorage(t)
	store.On("FindRecent", mock.Anything, 50).Return(items, nil)

	f := New(store, nil, nil, 50, slog.Default())
	if err := f.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return f, store
}

func TestFeed_LoadCountsUnread(t *testing.T) {
	f, _ := loadedFeed(t, []model.Notification{
		notif("a", false),
		notif("b", true),
		notif("c", false),
	})

	snap := f.Snapshot()
	if len(snap.Notifications) != 3 {
		t.Errorf("len = %d, want 3", len(snap.Notifications))
	}
	if snap.UnreadCount != 2 {
		t.Errorf("UnreadCount = %d, want 2", snap.UnreadCount)
	}
}

func TestFeed_InsertPrependsAndBumpsUnread(t *testing.T) {
	f, _ := loadedFeed(t, []model.Notification{notif("a", true)})

	f.Apply(Event{Kind: EventInsert, Notification: notif("b", false)})

	snap := f.Snapshot()
	if snap.Notifications[0].ID != "b" {
		t.Errorf("first = %q, want b", snap.Notifications[0].ID)
	}
	if snap.UnreadCount != 1 {
		t.Errorf("UnreadCount = %d, want 1", snap.UnreadCount)
	}
}

func TestFeed_InsertTrimsToSize(t *testing.T) {
	store := storage.NewMockNotificationStorage(t)
	store.On("FindRecent", mock.Anything, 2).Return([]model.Notification{
		notif("a", true),
		notif("b", true),
	}, nil)

	f := New(store, nil, nil, 2, slog.Default())
	if err := f.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	f.Apply(Event{Kind: EventInsert, Notification: notif("c", false)})

	snap := f.Snapshot()
	if len(snap.Notifications) != 2 {
		t.Fatalf("len = %d, want 2", len(snap.Notifications))
	}
	if snap.Notifications[0].ID != "c" || snap.Notifications[1].ID != "a" {
		t.Errorf("order = [%s %s], want [c a]", snap.Notifications[0].ID, snap.Notifications[1].ID)
	}
}

func TestFeed_UpdatePatchesInPlaceWithoutReorder(t *testing.T) {
	f, _ := loadedFeed(t, []model.Notification{
		notif("a", true),
		notif("b", false),
		notif("c", false),
	})

	patched := notif("b", true)
	f.Apply(Event{Kind: EventUpdate, Notification: patched})

	snap := f.Snapshot()
	if snap.Notifications[1].ID != "b" || !snap.Notifications[1].IsRead {
		t.Errorf("middle item = %+v, want read b in place", snap.Notifications[1])
	}
	if snap.UnreadCount != 1 {
		t.Errorf("UnreadCount = %d, want 1", snap.UnreadCount)
	}

	// Replaying the same update must not decrement again.
	f.Apply(Event{Kind: EventUpdate, Notification: patched})
	if got := f.Snapshot().UnreadCount; got != 1 {
		t.Errorf("UnreadCount after replay = %d, want 1", got)
	}
}

func TestFeed_UpdateUnknownIDIsDropped(t *testing.T) {
	f, _ := loadedFeed(t, []model.Notification{notif("a", false)})

	f.Apply(Event{Kind: EventUpdate, Notification: notif("ghost", true)})

	snap := f.Snapshot()
	if len(snap.Notifications) != 1 || snap.UnreadCount != 1 {
		t.Errorf("snapshot = %+v, want untouched", snap)
	}
}

func TestFeed_DeleteEventRemovesAndDecrements(t *testing.T) {
	f, _ := loadedFeed(t, []model.Notification{
		notif("a", false),
		notif("b", true),
		notif("c", false),
	})

	f.Apply(Event{Kind: EventDelete, Notification: notif("a", false)})

	snap := f.Snapshot()
	if len(snap.Notifications) != 2 || snap.Notifications[0].ID != "b" {
		t.Errorf("snapshot = %+v, want [b c]", snap)
	}
	if snap.UnreadCount != 1 {
		t.Errorf("UnreadCount = %d, want 1", snap.UnreadCount)
	}

	// Replaying the delete, or deleting an unknown id, changes nothing.
	f.Apply(Event{Kind: EventDelete, Notification: notif("a", false)})
	f.Apply(Event{Kind: EventDelete, Notification: notif("ghost", false)})
	snap = f.Snapshot()
	if len(snap.Notifications) != 2 || snap.UnreadCount != 1 {
		t.Errorf("snapshot after replay = %+v, want [b c] with 1 unread", snap)
	}
}

func TestFeed_MarkAsReadIsIdempotent(t *testing.T) {
	f, store := loadedFeed(t, []model.Notification{
		notif("a", false),
		notif("b", false),
	})
	store.On("MarkRead", mock.Anything, "a").Return(nil).Twice()

	if err := f.MarkAsRead(context.Background(), "a"); err != nil {
		t.Fatalf("MarkAsRead() error = %v", err)
	}
	if got := f.Snapshot().UnreadCount; got != 1 {
		t.Errorf("UnreadCount = %d, want 1", got)
	}

	// Marking an already-read notification leaves the counter alone.
	if err := f.MarkAsRead(context.Background(), "a"); err != nil {
		t.Fatalf("MarkAsRead() second call error = %v", err)
	}
	if got := f.Snapshot().UnreadCount; got != 1 {
		t.Errorf("UnreadCount after repeat = %d, want 1", got)
	}
}

func TestFeed_MarkAsReadStorageErrorLeavesStateUnchanged(t *testing.T) {
	f, store := loadedFeed(t, []model.Notification{notif("a", false)})
	store.On("MarkRead", mock.Anything, "a").Return(errors.New("boom"))

	if err := f.MarkAsRead(context.Background(), "a"); err == nil {
		t.Fatal("MarkAsRead() error = nil, want error")
	}

	snap := f.Snapshot()
	if snap.UnreadCount != 1 || snap.Notifications[0].IsRead {
		t.Errorf("state changed despite storage error: %+v", snap)
	}

	select {
	case err := <-f.Errors():
		if err == nil {
			t.Error("Errors() delivered nil")
		}
	default:
		t.Error("Errors() channel empty, want reported error")
	}
}

func TestFeed_MarkAllAsReadBatchesUnreadIDs(t *testing.T) {
	f, store := loadedFeed(t, []model.Notification{
		notif("a", false),
		notif("b", true),
		notif("c", false),
	})
	store.On("MarkManyRead", mock.Anything, []string{"a", "c"}).Return(nil)

	if err := f.MarkAllAsRead(context.Background()); err != nil {
		t.Fatalf("MarkAllAsRead() error = %v", err)
	}
	if got := f.Snapshot().UnreadCount; got != 0 {
		t.Errorf("UnreadCount = %d, want 0", got)
	}
}

func TestFeed_MarkAllAsReadNoUnreadIsNoop(t *testing.T) {
	f, _ := loadedFeed(t, []model.Notification{notif("a", true)})

	// No MarkManyRead expectation: storage must not be called.
	if err := f.MarkAllAsRead(context.Background()); err != nil {
		t.Fatalf("MarkAllAsRead() error = %v", err)
	}
}

func TestFeed_Delete(t *testing.T) {
	f, store := loadedFeed(t, []model.Notification{
		notif("a", false),
		notif("b", true),
	})
	store.On("Delete", mock.Anything, "a").Return(nil)
	store.On("Delete", mock.Anything, "b").Return(nil)

	// Deleting an unread notification decrements by exactly 1.
	if err := f.Delete(context.Background(), "a"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if got := f.Snapshot().UnreadCount; got != 0 {
		t.Errorf("UnreadCount = %d, want 0", got)
	}

	// Deleting a read notification leaves the counter unchanged.
	if err := f.Delete(context.Background(), "b"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	snap := f.Snapshot()
	if snap.UnreadCount != 0 || len(snap.Notifications) != 0 {
		t.Errorf("snapshot = %+v, want empty", snap)
	}
}

type recordingPublisher struct {
	changes []model.NotificationChange
}

func (p *recordingPublisher) PublishChange(ctx context.Context, change model.NotificationChange) error {
	p.changes = append(p.changes, change)
	return nil
}

func TestFeed_DeletePublishesChange(t *testing.T) {
	store := storage.NewMockNotificationStorage(t)
	store.On("FindRecent", mock.Anything, 50).Return([]model.Notification{
		notif("a", false),
	}, nil)
	store.On("Delete", mock.Anything, "a").Return(nil)

	pub := &recordingPublisher{}
	f := New(store, nil, pub, 50, slog.Default())
	if err := f.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if err := f.Delete(context.Background(), "a"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if len(pub.changes) != 1 {
		t.Fatalf("published %d changes, want 1", len(pub.changes))
	}
	if pub.changes[0].Kind != model.ChangeDelete || pub.changes[0].Notification.ID != "a" {
		t.Errorf("change = %+v, want delete of a", pub.changes[0])
	}
}

type recordingAlerter struct {
	titles []string
	err    error
}

func (a *recordingAlerter) Alert(title, message string) error {
	a.titles = append(a.titles, title)
	return a.err
}

func TestFeed_InsertTriggersAlerter(t *testing.T) {
	store := storage.NewMockNotificationStorage(t)
	store.On("FindRecent", mock.Anything, 50).Return(nil, nil)

	alerter := &recordingAlerter{}
	f := New(store, alerter, nil, 50, slog.Default())
	if err := f.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	f.Apply(Event{Kind: EventInsert, Notification: notif("a", false)})

	if len(alerter.titles) != 1 || alerter.titles[0] != "title a" {
		t.Errorf("alerter saw %v, want [title a]", alerter.titles)
	}

	// An alerter failure must not affect feed state.
	alerter.err = errors.New("permission denied")
	f.Apply(Event{Kind: EventInsert, Notification: notif("b", false)})
	if got := f.Snapshot().UnreadCount; got != 2 {
		t.Errorf("UnreadCount = %d, want 2", got)
	}
}

func TestFeed_RunConsumesSubscription(t *testing.T) {
	f, _ := loadedFeed(t, nil)

	events := make(chan Event, 1)
	events <- Event{Kind: EventInsert, Notification: notif("a", false)}
	close(events)

	sub := &staticSubscription{events: events}
	f.Run(context.Background(), sub)

	snap := f.Snapshot()
	if len(snap.Notifications) != 1 || snap.UnreadCount != 1 {
		t.Errorf("snapshot = %+v, want one unread item", snap)
	}
}

type staticSubscription struct {
	events chan Event
}

func (s *staticSubscription) Events() <-chan Event { return s.events }
func (s *staticSubscription) Close() error         { return nil }
