package models

import "time"

// Event describes a single calendar entry that can be searched for
type Event struct {
	// Internal ID
	ID uint `db:"id" json:"id"`
	// Title of the event
	Title string `db:"title" json:"title"`
	// What is the event about?
	Description string `db:"description" json:"description,omitempty"`
	// Website with further information about the event
	URL string `db:"url" json:"url,omitempty"`
	// When does/did the event start?
	StartTime time.Time `db:"startTime" json:"startTime"`
	// The ID of the venue the event takes place at - 0 if no venue has been assigned
	VenueID uint `db:"venueId" json:"venueId,omitempty"`
	// The venue itself. Only populated when loading events, ignored on write
	Venue *Venue `db:"venue" json:"venue,omitempty"`
	// Names of the tags attached to this event
	Tags []string `db:"-" json:"tags"`
	// Creation date of this entry
	CreatedAt time.Time `db:"createdAt" json:"createdAt"`
	// Date of the last update of this entry
	UpdatedAt time.Time `db:"updatedAt" json:"updatedAt"`
}
