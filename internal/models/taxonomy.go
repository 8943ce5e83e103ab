package models

import "time"

// Cycle is a schooling cycle (e.g. primary, middle, secondary).
type Cycle struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Level is a grade level within a cycle.
type Level struct {
	ID        string    `db:"id" json:"id"`
	CycleID   string    `db:"cycle_id" json:"cycle_id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Subject is a teachable subject referenced by bookings.
type Subject struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// TaxonomyFilter captures filtering criteria for cycles, levels and subjects.
type TaxonomyFilter struct {
	CycleID   string
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
