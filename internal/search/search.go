package search

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/text/unicode/norm"

	"github.com/derWhity/eventcal/internal/models"
)

// EventColumns is the select list used for loading events together with their venue. The venue columns are aliased
// with a "venue." prefix so sqlx fills the nested Venue struct of models.Event
var EventColumns = []string{
	"Events.id",
	"Events.title",
	"Events.description",
	"Events.url",
	"Events.startTime",
	"COALESCE(Events.venueId, 0) AS venueId",
	"Events.createdAt",
	"Events.updatedAt",
	`COALESCE(Venues.id, 0) AS "venue.id"`,
	`COALESCE(Venues.title, '') AS "venue.title"`,
	`COALESCE(Venues.address, '') AS "venue.address"`,
	`COALESCE(Venues.url, '') AS "venue.url"`,
}

const (
	joinVenues   = "LEFT OUTER JOIN Venues ON Venues.id = Events.venueId"
	joinTaggings = "LEFT OUTER JOIN Taggings ON Taggings.eventId = Events.id"
	joinTags     = "LEFT OUTER JOIN Tags ON Tags.id = Taggings.tagId"
	// One token matches if it is part of the title, description or URL or if it equals a tag name
	tokenCondition = `LOWER(Events.title) LIKE ? ESCAPE '\' OR ` +
		`LOWER(Events.description) LIKE ? ESCAPE '\' OR ` +
		`LOWER(Events.url) LIKE ? ESCAPE '\' OR ` +
		`LOWER(Tags.name) = ?`
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Base returns the scope every event search starts with: all events, their venue and tags joined in, one row per
// event. Grouping by the event and venue IDs removes the duplicates the tag join would otherwise produce
func Base() Scope {
	return Scope{}.
		Select(EventColumns...).
		From("Events").
		Join(joinVenues).
		Join(joinTaggings).
		Join(joinTags).
		GroupBy("Events.id", "Venues.id")
}

// Tokens splits a search text into lower-case keywords
func Tokens(text string) []string {
	return strings.Fields(strings.ToLower(norm.NFC.String(text)))
}

// Keywords filters for events matching at least one keyword of the given text in one of its fields.
//
// The keyword conditions are OR-ed across all keywords: "jazz blues" finds events mentioning only "blues".
// An empty text leaves the scope unfiltered
func Keywords(text string) Stage {
	tokens := Tokens(text)
	return func(s Scope) Scope {
		if len(tokens) == 0 {
			return s
		}
		conds := make([]string, 0, len(tokens))
		var args []interface{}
		for _, token := range tokens {
			like := "%" + likeEscaper.Replace(token) + "%"
			conds = append(conds, tokenCondition)
			args = append(args, like, like, like, token)
		}
		return s.Where(strings.Join(conds, " OR "), args...)
	}
}

// StaleCutoff returns the earliest start time still considered current at the given point in time: the start of
// the previous day
func StaleCutoff(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d-1, 0, 0, 0, 0, now.Location())
}

// SkipOld removes events that started before yesterday if skip is set
func SkipOld(skip bool, now time.Time) Stage {
	return func(s Scope) Scope {
		if !skip {
			return s
		}
		return s.Where("Events.startTime >= ?", StaleCutoff(now).UTC())
	}
}

// Order sorts the events by the given order. Unknown orders sort by start time, newest first
func Order(order models.SortOrder) Stage {
	return func(s Scope) Scope {
		var term string
		switch models.ParseSortOrder(string(order)) {
		case models.OrderName, models.OrderTitle:
			term = "LOWER(Events.title) ASC"
		case models.OrderVenue, models.OrderLocation:
			term = "LOWER(Venues.title) ASC"
		default:
			term = "Events.startTime DESC"
		}
		// The ID keeps the order stable between equal sort keys
		return s.OrderBy(term, "Events.id ASC")
	}
}

// Limit caps the number of events returned
func Limit(n int) Stage {
	return func(s Scope) Scope {
		return s.Limit(n)
	}
}

// Builder creates event search scopes
type Builder struct {
	// Now returns the current time - time.Now is used if nil
	Now func() time.Time
	// Limit used when the options do not request one - models.DefaultSearchLimit if 0
	DefaultLimit int
	// Largest limit that may be requested - 0 for no bound
	MaxLimit int
}

func (b Builder) now() time.Time {
	if b.Now != nil {
		return b.Now()
	}
	return time.Now()
}

// Build validates the options and returns the scope finding the events matching the search text
func (b Builder) Build(text string, opts models.SearchOptions) (Scope, error) {
	if err := opts.Validate(b.MaxLimit); err != nil {
		return Scope{}, errors.Wrap(err, "Build: Invalid search options")
	}
	return Base().Apply(
		Keywords(text),
		SkipOld(opts.SkipOld, b.now()),
		Order(opts.Order),
		Limit(opts.EffectiveLimit(b.DefaultLimit)),
	), nil
}
