package models

import "time"

// BookingStatus tracks the booking lifecycle.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

// BookingPaymentStatus mirrors the payment state on the booking row itself.
type BookingPaymentStatus string

const (
	BookingPaymentPending  BookingPaymentStatus = "pending"
	BookingPaymentPaid     BookingPaymentStatus = "paid"
	BookingPaymentRefunded BookingPaymentStatus = "refunded"
)

// Booking connects a parent's child with a professor for a subject/level.
type Booking struct {
	ID            string               `db:"id" json:"id"`
	ProfessorID   string               `db:"professor_id" json:"professor_id"`
	ParentID      string               `db:"parent_id" json:"parent_id"`
	ChildName     string               `db:"child_name" json:"child_name"`
	SubjectID     string               `db:"subject_id" json:"subject_id"`
	LevelID       string               `db:"level_id" json:"level_id"`
	Status        BookingStatus        `db:"status" json:"status"`
	PaymentStatus BookingPaymentStatus `db:"payment_status" json:"payment_status"`
	TotalPrice    float64              `db:"total_price" json:"total_price"`
	ScheduledAt   *time.Time           `db:"scheduled_at" json:"scheduled_at,omitempty"`
	CreatedAt     time.Time            `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time            `db:"updated_at" json:"updated_at"`
}

// BookingFilter captures filtering criteria for listing bookings.
type BookingFilter struct {
	ProfessorID   string
	ParentID      string
	SubjectID     string
	Status        string
	PaymentStatus string
	DateFrom      *time.Time
	DateTo        *time.Time
	Page          int
	PageSize      int
	SortBy        string
	SortOrder     string
}
