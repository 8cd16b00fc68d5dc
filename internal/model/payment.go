package model

import "time"

// Payment statuses as stored. The displayed status can differ: a payment
// past its due date reads as overdue regardless of what is stored, see
// EffectiveStatus.
const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
	PaymentOverdue = "overdue"
	PaymentPartial = "partial"
)

// Payment types
const (
	PaymentTypeRent    = "rent"
	PaymentTypeDeposit = "deposit"
	PaymentTypeFee     = "fee"
	PaymentTypeRefund  = "refund"
)

// Payment methods
const (
	MethodCash         = "cash"
	MethodCheck        = "check"
	MethodBankTransfer = "bank_transfer"
	MethodOnline       = "online"
)

// Payment is a single charge or credit against a resident. Amounts are
// integer cents so summation stays exact.
type Payment struct {
	ID          string     `json:"id" db:"id"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	ResidentID  string     `json:"resident_id" db:"resident_id"`
	AmountCents int64      `json:"amount_cents" db:"amount_cents"`
	Type        string     `json:"type" db:"type"`
	DueDate     time.Time  `json:"due_date" db:"due_date"`
	PaidDate    *time.Time `json:"paid_date,omitempty" db:"paid_date"`
	Status      string     `json:"status" db:"status"`
	Method      string     `json:"payment_method,omitempty" db:"payment_method"`
	Notes       string     `json:"notes,omitempty" db:"notes"`
}

// EffectiveStatus derives the status to display and aggregate with:
// overdue when the payment is unpaid and past due at the given instant,
// otherwise the stored status. Never persisted.
func (p Payment) EffectiveStatus(now time.Time) string {
	if p.Status != PaymentPaid && p.DueDate.Before(now) {
		return PaymentOverdue
	}
	return p.Status
}
