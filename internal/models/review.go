package models

import "time"

// ModerationStatus is the review moderation workflow state.
type ModerationStatus string

const (
	ReviewPending  ModerationStatus = "pending"
	ReviewApproved ModerationStatus = "approved"
	ReviewRejected ModerationStatus = "rejected"
)

// Review is a parent's rating of a professor for a booking. Only approved
// reviews feed the rating aggregators.
type Review struct {
	ID              string           `db:"id" json:"id"`
	ProfessorID     string           `db:"professor_id" json:"professor_id"`
	ParentID        string           `db:"parent_id" json:"parent_id"`
	BookingID       string           `db:"booking_id" json:"booking_id"`
	Rating          int              `db:"rating" json:"rating"`
	TeachingQuality int              `db:"teaching_quality" json:"teaching_quality"`
	Punctuality     int              `db:"punctuality" json:"punctuality"`
	Communication   int              `db:"communication" json:"communication"`
	Patience        int              `db:"patience" json:"patience"`
	Comment         string           `db:"comment" json:"comment,omitempty"`
	Status          ModerationStatus `db:"status" json:"status"`
	CreatedAt       time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time        `db:"updated_at" json:"updated_at"`
}

// ReviewFilter captures filtering criteria for listing reviews.
type ReviewFilter struct {
	ProfessorID string
	ParentID    string
	Status      string
	MinRating   int
	Page        int
	PageSize    int
	SortBy      string
	SortOrder   string
}
