package internal

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"

	"github.com/derWhity/eventcal/internal/models"
	"github.com/derWhity/eventcal/internal/repos"
)

// VenueService provides service functions for maintaining the venues events take place at
type VenueService interface {
	List(ctx context.Context, search *Search) ([]models.Venue, uint, error)
	Get(ctx context.Context, id uint) (*models.Venue, error)
	Create(ctx context.Context, venue *models.Venue) (*models.Venue, error)
	Update(ctx context.Context, venue *models.Venue) (*models.Venue, error)
	Delete(ctx context.Context, id uint) error
}

// -- VenueService implementation --------------------------------------------------------------------------------------

type venueService struct {
	repo   repos.VenueRepo
	logger *logrus.Entry
}

// NewVenueService creates a new venue service instance
func NewVenueService(repo repos.VenueRepo, logger *logrus.Entry) VenueService {
	return &venueService{
		repo:   repo,
		logger: logger,
	}
}

func errVenueNotFound(id uint) error {
	return MakeError(http.StatusNotFound, ErrCodeVenueNotFound, fmt.Sprintf("Venue #%d does not exist", id))
}

func errVenueTitleMissing() error {
	return MakeErrorWithData(http.StatusBadRequest, ErrCodeRequiredFieldMissing, "Venue title missing",
		fieldData("title"),
	)
}

// List searches for venues matching the given search term
func (s *venueService) List(ctx context.Context, search *Search) ([]models.Venue, uint, error) {
	list, numRows, err := s.repo.Find(ctx, search.Search, search.Offset, search.Limit)
	if err != nil {
		return nil, 0, MakeErrorWithData(http.StatusInternalServerError, ErrCodeRepoError,
			"Error while searching venues", err,
		)
	}
	return list, numRows, nil
}

// Get returns the venue with the given ID
func (s *venueService) Get(ctx context.Context, id uint) (*models.Venue, error) {
	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if err == repos.ErrEntityNotExisting {
			return nil, errVenueNotFound(id)
		}
		return nil, MakeErrorWithData(http.StatusInternalServerError, ErrCodeRepoError,
			fmt.Sprintf("Error while retrieving venue #%d", id), err,
		)
	}
	return v, nil
}

// Create creates a new venue
func (s *venueService) Create(ctx context.Context, venue *models.Venue) (*models.Venue, error) {
	venue.Title = strings.TrimSpace(venue.Title)
	if venue.Title == "" {
		return nil, errVenueTitleMissing()
	}
	if err := s.repo.Create(ctx, venue); err != nil {
		return nil, MakeErrorWithData(http.StatusInternalServerError, ErrCodeRepoError, "Error while creating venue", err)
	}
	return venue, nil
}

// Update replaces the data of an existing venue
func (s *venueService) Update(ctx context.Context, venue *models.Venue) (*models.Venue, error) {
	venue.Title = strings.TrimSpace(venue.Title)
	if venue.Title == "" {
		return nil, errVenueTitleMissing()
	}
	if err := s.repo.Update(ctx, venue); err != nil {
		if err == repos.ErrEntityNotExisting {
			return nil, errVenueNotFound(venue.ID)
		}
		return nil, MakeErrorWithData(http.StatusInternalServerError, ErrCodeRepoError,
			fmt.Sprintf("Error while updating venue #%d", venue.ID), err,
		)
	}
	return s.Get(ctx, venue.ID)
}

// Delete removes a venue. Its events stay, but lose their venue
func (s *venueService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if err == repos.ErrEntityNotExisting {
			return errVenueNotFound(id)
		}
		return MakeErrorWithData(http.StatusInternalServerError, ErrCodeRepoError,
			fmt.Sprintf("Error while deleting venue #%d", id), err,
		)
	}
	return nil
}
