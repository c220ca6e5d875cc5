// Package importer loads venues and events from YAML documents into the repositories
package importer

import (
	"io"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"

	"github.com/derWhity/eventcal/internal/log"
	"github.com/derWhity/eventcal/internal/models"
	"github.com/derWhity/eventcal/internal/repos"
)

// Document is the structure of an import file
type Document struct {
	Venues []Venue `yaml:"venues"`
	Events []Event `yaml:"events"`
}

// Venue is a venue entry of an import file
type Venue struct {
	Title   string `yaml:"title"`
	Address string `yaml:"address"`
	URL     string `yaml:"url"`
}

// Event is an event entry of an import file. Venue refers to a venue by its title
type Event struct {
	Title       string    `yaml:"title"`
	Description string    `yaml:"description"`
	URL         string    `yaml:"url"`
	Start       time.Time `yaml:"start"`
	Venue       string    `yaml:"venue"`
	Tags        []string  `yaml:"tags"`
}

// Result counts what an import has created
type Result struct {
	Venues int `json:"venues"`
	Events int `json:"events"`
	// Number of tag assignments
	Tags int `json:"tags"`
}

// Importer writes imported entities to the repositories
type Importer struct {
	events repos.EventRepo
	venues repos.VenueRepo
	logger *logrus.Entry
	// Venue IDs by lowercased title
	known map[string]uint
}

// New creates a new importer writing to the given repositories
func New(events repos.EventRepo, venues repos.VenueRepo, logger *logrus.Entry) *Importer {
	return &Importer{
		events: events,
		venues: venues,
		logger: logger,
		known:  map[string]uint{},
	}
}

// Import reads a YAML document from r and stores its contents using a new importer
func Import(ctx context.Context, r io.Reader, events repos.EventRepo, venues repos.VenueRepo, logger *logrus.Entry) (*Result, error) {
	return New(events, venues, logger).Import(ctx, r)
}

// Import reads a YAML document from r and stores its venues and events. Venues are matched by title and only created
// if no venue with the same title exists
func (i *Importer) Import(ctx context.Context, r io.Reader) (*Result, error) {
	var doc Document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return &Result{}, nil
		}
		return nil, errors.Wrap(err, "Import: Failed to decode document")
	}
	res := &Result{}
	for n, v := range doc.Venues {
		venue := models.Venue{
			Title:   clean(v.Title),
			Address: strings.TrimSpace(v.Address),
			URL:     strings.TrimSpace(v.URL),
		}
		if venue.Title == "" {
			return res, errors.Errorf("Import: Venue #%d has no title", n+1)
		}
		if _, err := i.venueID(ctx, venue, res); err != nil {
			return res, err
		}
	}
	for n, e := range doc.Events {
		ev := models.Event{
			Title:       clean(e.Title),
			Description: norm.NFC.String(strings.TrimSpace(e.Description)),
			URL:         strings.TrimSpace(e.URL),
			StartTime:   e.Start,
		}
		if ev.Title == "" {
			return res, errors.Errorf("Import: Event #%d has no title", n+1)
		}
		if ev.StartTime.IsZero() {
			return res, errors.Errorf("Import: Event '%s' has no start time", ev.Title)
		}
		if title := clean(e.Venue); title != "" {
			id, err := i.venueID(ctx, models.Venue{Title: title}, res)
			if err != nil {
				return res, err
			}
			ev.VenueID = id
		}
		if err := i.events.Create(ctx, &ev); err != nil {
			return res, errors.Wrapf(err, "Import: Failed to create event '%s'", ev.Title)
		}
		res.Events++
		tags := models.NormalizeTags(e.Tags)
		if len(tags) > 0 {
			if err := i.events.SetTags(ctx, ev.ID, tags); err != nil {
				return res, errors.Wrapf(err, "Import: Failed to tag event '%s'", ev.Title)
			}
			res.Tags += len(tags)
		}
	}
	i.logger.WithFields(logrus.Fields{
		"venues":    res.Venues,
		"events":    res.Events,
		log.FldTags: res.Tags,
	}).Info("Import finished")
	return res, nil
}

// venueID returns the ID of the venue with the title of v. The venue is created if it does not exist yet
func (i *Importer) venueID(ctx context.Context, v models.Venue, res *Result) (uint, error) {
	key := strings.ToLower(v.Title)
	if id, ok := i.known[key]; ok {
		return id, nil
	}
	existing, err := i.venues.GetByTitle(ctx, v.Title)
	switch err {
	case nil:
		i.known[key] = existing.ID
		return existing.ID, nil
	case repos.ErrEntityNotExisting:
	default:
		return 0, errors.Wrapf(err, "venueID: Failed to look up venue '%s'", v.Title)
	}
	if err := i.venues.Create(ctx, &v); err != nil {
		return 0, errors.Wrapf(err, "venueID: Failed to create venue '%s'", v.Title)
	}
	i.logger.WithField(log.FldVenue, v.ID).Debugf("Created venue '%s'", v.Title)
	res.Venues++
	i.known[key] = v.ID
	return v.ID, nil
}

func clean(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
