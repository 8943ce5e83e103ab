package models

import "time"

// SessionStatus tracks the tutoring session lifecycle.
type SessionStatus string

const (
	SessionScheduled  SessionStatus = "scheduled"
	SessionInProgress SessionStatus = "in_progress"
	SessionCompleted  SessionStatus = "completed"
	SessionCancelled  SessionStatus = "cancelled"
)

// Session is a single tutoring appointment under a booking.
type Session struct {
	ID        string        `db:"id" json:"id"`
	BookingID string        `db:"booking_id" json:"booking_id"`
	Status    SessionStatus `db:"status" json:"status"`
	StartsAt  time.Time     `db:"starts_at" json:"starts_at"`
	EndsAt    *time.Time    `db:"ends_at" json:"ends_at,omitempty"`
	Notes     string        `db:"notes" json:"notes,omitempty"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt time.Time     `db:"updated_at" json:"updated_at"`
}

// SessionFeedback is optional post-session feedback left by the parent.
type SessionFeedback struct {
	ID        string    `db:"id" json:"id"`
	SessionID string    `db:"session_id" json:"session_id"`
	Rating    int       `db:"rating" json:"rating"`
	Comment   string    `db:"comment" json:"comment,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// SessionFilter captures filtering criteria for listing sessions.
type SessionFilter struct {
	BookingID string
	Status    string
	DateFrom  *time.Time
	DateTo    *time.Time
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
