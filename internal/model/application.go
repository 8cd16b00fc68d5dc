package model

import "time"

// Application statuses
const (
	ApplicationPending   = "pending"
	ApplicationApproved  = "approved"
	ApplicationRejected  = "rejected"
	ApplicationContacted = "contacted"
)

// Application is a housing application submitted through the public
// contact form. Phone is unique across applications; the storage layer
// enforces it with a unique constraint.
type Application struct {
	ID               string     `json:"id" db:"id"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	FirstName        string     `json:"first_name" db:"first_name"`
	LastName         string     `json:"last_name" db:"last_name"`
	Phone            string     `json:"phone" db:"phone"`
	Email            string     `json:"email,omitempty" db:"email"`
	SobrietyDate     *time.Time `json:"sobriety_date,omitempty" db:"sobriety_date"`
	EmploymentStatus string     `json:"employment_status,omitempty" db:"employment_status"`
	HousingNeeded    string     `json:"housing_needed,omitempty" db:"housing_needed"`
	Message          string     `json:"message,omitempty" db:"message"`
	Status           string     `json:"status" db:"status"`
	ReviewedAt       *time.Time `json:"reviewed_at,omitempty" db:"reviewed_at"`
	ReviewedBy       string     `json:"reviewed_by,omitempty" db:"reviewed_by"`
	Notes            string     `json:"notes,omitempty" db:"notes"`
}
