package model

import "time"

// Resident statuses
const (
	ResidentActive   = "active"
	ResidentInactive = "inactive"
	ResidentMovedOut = "moved_out"
)

// Resident is a person currently or formerly housed at the facility.
// Residents are created by converting an approved application and are
// never hard-deleted; moving out stamps MoveOutDate and flips status.
type Resident struct {
	ID                    string     `json:"id" db:"id"`
	CreatedAt             time.Time  `json:"created_at" db:"created_at"`
	FirstName             string     `json:"first_name" db:"first_name"`
	LastName              string     `json:"last_name" db:"last_name"`
	Phone                 string     `json:"phone" db:"phone"`
	Email                 string     `json:"email,omitempty" db:"email"`
	SobrietyDate          *time.Time `json:"sobriety_date,omitempty" db:"sobriety_date"`
	MoveInDate            time.Time  `json:"move_in_date" db:"move_in_date"`
	MoveOutDate           *time.Time `json:"move_out_date,omitempty" db:"move_out_date"`
	EmploymentStatus      string     `json:"employment_status,omitempty" db:"employment_status"`
	EmergencyContactName  string     `json:"emergency_contact_name,omitempty" db:"emergency_contact_name"`
	EmergencyContactPhone string     `json:"emergency_contact_phone,omitempty" db:"emergency_contact_phone"`
	Status                string     `json:"status" db:"status"`
	RoomNumber            string     `json:"room_number,omitempty" db:"room_number"`
	MonthlyRentCents      int64      `json:"monthly_rent_cents,omitempty" db:"monthly_rent_cents"`
	DepositCents          int64      `json:"deposit_cents,omitempty" db:"deposit_cents"`
	Notes                 string     `json:"notes,omitempty" db:"notes"`
	ApplicationID         string     `json:"application_id,omitempty" db:"application_id"`
}
