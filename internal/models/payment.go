package models

import "time"

// PaymentStatus tracks the payment lifecycle.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

// Payment records money movement against a booking.
type Payment struct {
	ID        string        `db:"id" json:"id"`
	BookingID string        `db:"booking_id" json:"booking_id"`
	UserID    string        `db:"user_id" json:"user_id"`
	Amount    float64       `db:"amount" json:"amount"`
	Method    string        `db:"method" json:"method"`
	Status    PaymentStatus `db:"status" json:"status"`
	PaidAt    *time.Time    `db:"paid_at" json:"paid_at,omitempty"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt time.Time     `db:"updated_at" json:"updated_at"`
}

// PaymentFilter captures filtering criteria for listing payments.
type PaymentFilter struct {
	BookingID string
	UserID    string
	Status    string
	Method    string
	DateFrom  *time.Time
	DateTo    *time.Time
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
