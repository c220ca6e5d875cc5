package internal

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"

	"github.com/derWhity/eventcal/internal/log"
	"github.com/derWhity/eventcal/internal/models"
	"github.com/derWhity/eventcal/internal/repos"
)

// EventService provides service functions for searching and maintaining events
type EventService interface {
	// Search returns the events matching the keywords of the request
	Search(ctx context.Context, req SearchRequest) ([]models.Event, error)
	Get(ctx context.Context, id uint) (*models.Event, error)
	Create(ctx context.Context, event *models.Event) (*models.Event, error)
	Update(ctx context.Context, event *models.Event) (*models.Event, error)
	Delete(ctx context.Context, id uint) error
	// SetTags replaces the tags of the event and returns the updated event
	SetTags(ctx context.Context, id uint, tags []string) (*models.Event, error)
}

// -- EventService implementation --------------------------------------------------------------------------------------

type eventService struct {
	repo   repos.EventRepo
	venues repos.VenueRepo
	logger *logrus.Entry
}

// NewEventService creates a new event service instance
func NewEventService(repo repos.EventRepo, venues repos.VenueRepo, logger *logrus.Entry) EventService {
	return &eventService{
		repo:   repo,
		venues: venues,
		logger: logger,
	}
}

func errEventNotFound(id uint) error {
	return MakeError(http.StatusNotFound, ErrCodeEventNotFound, fmt.Sprintf("Event #%d does not exist", id))
}

// Search returns the events matching the keywords of the request
func (s *eventService) Search(ctx context.Context, req SearchRequest) ([]models.Event, error) {
	list, err := s.repo.Search(ctx, req.Query, req.SearchOptions)
	if err != nil {
		if errors.Cause(err) == models.ErrInvalidLimit {
			return nil, MakeErrorWithData(http.StatusBadRequest, ErrCodeIllegalValue, err.Error(), fieldData("limit"))
		}
		s.logger.WithError(err).WithField(log.FldSearch, req.Query).Error("Event search failed")
		return nil, MakeErrorWithData(http.StatusInternalServerError, ErrCodeRepoError, "Error while searching events", err)
	}
	return list, nil
}

// Get returns the event with the given ID
func (s *eventService) Get(ctx context.Context, id uint) (*models.Event, error) {
	ev, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if err == repos.ErrEntityNotExisting {
			return nil, errEventNotFound(id)
		}
		return nil, MakeErrorWithData(http.StatusInternalServerError, ErrCodeRepoError,
			fmt.Sprintf("Error while retrieving event #%d", id), err,
		)
	}
	return ev, nil
}

// Create creates a new event and assigns the tags it carries
func (s *eventService) Create(ctx context.Context, event *models.Event) (*models.Event, error) {
	event.Title = strings.TrimSpace(event.Title)
	if event.Title == "" {
		return nil, MakeErrorWithData(http.StatusBadRequest, ErrCodeRequiredFieldMissing, "Event title missing",
			fieldData("title"),
		)
	}
	if event.StartTime.IsZero() {
		return nil, MakeErrorWithData(http.StatusBadRequest, ErrCodeRequiredFieldMissing, "Event start time missing",
			fieldData("startTime"),
		)
	}
	if err := s.checkVenue(ctx, event.VenueID); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, event); err != nil {
		return nil, MakeErrorWithData(http.StatusInternalServerError, ErrCodeRepoError, "Error while creating event", err)
	}
	if len(event.Tags) > 0 {
		return s.SetTags(ctx, event.ID, event.Tags)
	}
	return s.Get(ctx, event.ID)
}

func (s *eventService) checkVenue(ctx context.Context, id uint) error {
	if id == 0 {
		return nil
	}
	if _, err := s.venues.GetByID(ctx, id); err != nil {
		if err == repos.ErrEntityNotExisting {
			return MakeErrorWithData(
				http.StatusNotFound,
				ErrCodeVenueNotFound,
				fmt.Sprintf("Referenced venue #%d does not exist", id),
				fieldData("venueId"),
			)
		}
		return MakeErrorWithData(
			http.StatusInternalServerError,
			ErrCodeRepoError,
			fmt.Sprintf("Error while retrieving venue #%d", id),
			err,
		)
	}
	return nil
}

// Update updates an existing event. An empty title or start time keeps the stored value
func (s *eventService) Update(ctx context.Context, event *models.Event) (*models.Event, error) {
	original, err := s.Get(ctx, event.ID)
	if err != nil {
		return nil, err
	}
	if title := strings.TrimSpace(event.Title); title != "" {
		original.Title = title
	}
	if !event.StartTime.IsZero() {
		original.StartTime = event.StartTime
	}
	original.Description = event.Description
	original.URL = event.URL
	if err := s.checkVenue(ctx, event.VenueID); err != nil {
		return nil, err
	}
	original.VenueID = event.VenueID
	if err := s.repo.Update(ctx, original); err != nil {
		if err == repos.ErrEntityNotExisting {
			return nil, errEventNotFound(event.ID)
		}
		return nil, MakeErrorWithData(
			http.StatusInternalServerError,
			ErrCodeRepoError,
			fmt.Sprintf("Error while updating event #%d", event.ID),
			err,
		)
	}
	if event.Tags != nil {
		return s.SetTags(ctx, event.ID, event.Tags)
	}
	return s.Get(ctx, event.ID)
}

// Delete removes an existing event from the repository
func (s *eventService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if err == repos.ErrEntityNotExisting {
			return errEventNotFound(id)
		}
		return MakeErrorWithData(
			http.StatusInternalServerError,
			ErrCodeRepoError,
			fmt.Sprintf("Error while deleting event #%d", id),
			err,
		)
	}
	return nil
}

// SetTags replaces the tags of the event and returns the updated event
func (s *eventService) SetTags(ctx context.Context, id uint, tags []string) (*models.Event, error) {
	if err := s.repo.SetTags(ctx, id, tags); err != nil {
		if errors.Cause(err) == repos.ErrEntityNotExisting {
			return nil, errEventNotFound(id)
		}
		return nil, MakeErrorWithData(
			http.StatusInternalServerError,
			ErrCodeRepoError,
			fmt.Sprintf("Error while tagging event #%d", id),
			err,
		)
	}
	return s.Get(ctx, id)
}
