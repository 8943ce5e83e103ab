package models

import "time"

// User represents an application user stored in the users table. Parents,
// professors and administrators all live here; roles are attached through
// the user_roles join table.
type User struct {
	ID           string     `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	FullName     string     `db:"full_name" json:"full_name"`
	Phone        string     `db:"phone" json:"phone,omitempty"`
	CityID       *string    `db:"city_id" json:"city_id,omitempty"`
	HourlyRate   *float64   `db:"hourly_rate" json:"hourly_rate,omitempty"`
	Bio          string     `db:"bio" json:"bio,omitempty"`
	Active       bool       `db:"active" json:"active"`
	LastLogin    *time.Time `db:"last_login" json:"last_login,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`

	Roles []Role `json:"roles,omitempty"`
}

// UserFilter captures filtering criteria for listing users.
type UserFilter struct {
	Role      string
	CityID    string
	Active    *bool
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
