package models

import "time"

// City is a top level location record.
type City struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Region    string    `db:"region" json:"region,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Neighborhood belongs to a city.
type Neighborhood struct {
	ID        string    `db:"id" json:"id"`
	CityID    string    `db:"city_id" json:"city_id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// LocationFilter captures filtering criteria for listing cities and
// neighborhoods.
type LocationFilter struct {
	CityID    string
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
