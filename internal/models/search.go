package models

import (
	"strings"

	"github.com/pkg/errors"
)

// SortOrder names the attribute search results are ordered by
type SortOrder string

const (
	// OrderDate sorts by start time, newest first. This is the default
	OrderDate SortOrder = "date"
	// OrderName sorts by event title
	OrderName SortOrder = "name"
	// OrderTitle is an alias for OrderName
	OrderTitle SortOrder = "title"
	// OrderVenue sorts by the title of the event's venue
	OrderVenue SortOrder = "venue"
	// OrderLocation is an alias for OrderVenue
	OrderLocation SortOrder = "location"
)

const (
	// DefaultSearchLimit is the number of events returned when no limit has been requested
	DefaultSearchLimit = 50
)

var (
	// ErrInvalidLimit is returned when a search requests a negative or too large number of results
	ErrInvalidLimit = errors.New("limit must be a positive number")
)

// ParseSortOrder converts a user-provided string into a sort order. Unknown values result in OrderDate
func ParseSortOrder(s string) SortOrder {
	switch o := SortOrder(strings.ToLower(strings.TrimSpace(s))); o {
	case OrderName, OrderTitle, OrderVenue, OrderLocation:
		return o
	}
	return OrderDate
}

// SearchOptions configures an event search
type SearchOptions struct {
	// The order of the results
	Order SortOrder `json:"order" yaml:"order"`
	// Maximum number of events to return - 0 selects the default
	Limit int `json:"limit" yaml:"limit"`
	// Drop events that started before yesterday
	SkipOld bool `json:"skipOld" yaml:"skip_old"`
}

// Validate checks the options for values that cannot be searched with. A maxLimit of 0 disables the upper bound
func (o SearchOptions) Validate(maxLimit int) error {
	if o.Limit < 0 {
		return errors.Wrapf(ErrInvalidLimit, "got %d", o.Limit)
	}
	if maxLimit > 0 && o.Limit > maxLimit {
		return errors.Wrapf(ErrInvalidLimit, "%d exceeds the maximum of %d", o.Limit, maxLimit)
	}
	return nil
}

// EffectiveLimit returns the requested limit or the given default if none has been requested
func (o SearchOptions) EffectiveLimit(def int) int {
	if o.Limit > 0 {
		return o.Limit
	}
	if def > 0 {
		return def
	}
	return DefaultSearchLimit
}
