package model

import "time"

// Notification types
const (
	NotifPaymentOverdue = "payment_overdue"
	NotifNewApplication = "new_application"
	NotifIncident       = "incident"
	NotifMoveOut        = "move_out"
	NotifGeneral        = "general"
)

// Notification is a feed entry shown to staff. RelatedID/RelatedType is
// a weak reference to whatever entity triggered it; no referential
// integrity is enforced here.
type Notification struct {
	ID          string    `json:"id" db:"id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	Title       string    `json:"title" db:"title"`
	Message     string    `json:"message" db:"message"`
	Type        string    `json:"type" db:"type"`
	IsRead      bool      `json:"is_read" db:"is_read"`
	RelatedID   string    `json:"related_id,omitempty" db:"related_id"`
	RelatedType string    `json:"related_type,omitempty" db:"related_type"`
}

// Change kinds carried on the notification change topic.
const (
	ChangeInsert = "insert"
	ChangeUpdate = "update"
	ChangeDelete = "delete"
)

// NotificationChange is the message shape the notifier publishes after
// persisting a notification row. Dashboard sessions subscribe to these to
// keep their feeds live.
type NotificationChange struct {
	Kind         string       `json:"kind"`
	Notification Notification `json:"notification"`
}

// NotificationEvent is the message shape published to Kafka by the API
// server and consumed by the notifier worker.
type NotificationEvent struct {
	Title       string    `json:"title"`
	Message     string    `json:"message"`
	Type        string    `json:"type"`
	RelatedID   string    `json:"related_id,omitempty"`
	RelatedType string    `json:"related_type,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}
