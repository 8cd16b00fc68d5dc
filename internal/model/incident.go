package model

import "time"

// Incident severities
const (
	SeverityMinor  = "minor"
	SeverityMajor  = "major"
	SeveritySevere = "severe"
)

// Incident records a house incident involving a resident.
type Incident struct {
	ID              string    `json:"id" db:"id"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	ResidentID      string    `json:"resident_id" db:"resident_id"`
	IncidentType    string    `json:"incident_type" db:"incident_type"`
	Description     string    `json:"description" db:"description"`
	Severity        string    `json:"severity" db:"severity"`
	ActionTaken     string    `json:"action_taken,omitempty" db:"action_taken"`
	StaffMember     string    `json:"staff_member,omitempty" db:"staff_member"`
	Resolved        bool      `json:"resolved" db:"resolved"`
	ResolutionNotes string    `json:"resolution_notes,omitempty" db:"resolution_notes"`
}

// Document is a file attached to a resident, listed in the portal.
type Document struct {
	ID         string    `json:"id" db:"id"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	ResidentID string    `json:"resident_id" db:"resident_id"`
	Name       string    `json:"name" db:"name"`
	URL        string    `json:"url" db:"url"`
}
