package models

import "time"

// Venue is a location events take place at
type Venue struct {
	// Internal ID
	ID uint `db:"id" json:"id"`
	// Name of the venue
	Title string `db:"title" json:"title"`
	// Postal address
	Address string `db:"address" json:"address,omitempty"`
	// Website of the venue
	URL string `db:"url" json:"url,omitempty"`
	// Creation date of this entry
	CreatedAt time.Time `db:"createdAt" json:"createdAt"`
	// Date of the last update of this entry
	UpdatedAt time.Time `db:"updatedAt" json:"updatedAt"`
}
