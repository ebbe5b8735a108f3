package services

import (
	"log"
	"strings"
	"unicode/utf8"

	"treva/internal/apperrors"
	"treva/internal/models"
	"treva/internal/query"
	"treva/internal/repositories"
)

// CleanupPublisher enqueues backing files of deleted rows for asynchronous
// removal. Implemented by pkg/rabbitmq.Client; mocked in tests.
type CleanupPublisher interface {
	PublishMediaCleanup(paths []string) error
}

// Trip list pagination bounds.
const (
	TripPageMax     = 100
	TripPageDefault = 20
)

// TripInput carries the create-trip payload after transport decoding.
type TripInput struct {
	Title       string
	Description *string
	Latitude    float64
	Longitude   float64
}

// TripService handles business logic for trips: creation, ownership-scoped
// reads and mutations, and paginated listing with media fan-out.
type TripService struct {
	tripRepo  repositories.TripRepository
	mediaRepo repositories.MediaRepository
	mq        CleanupPublisher
}

// NewTripService creates a new TripService.
func NewTripService(tripRepo repositories.TripRepository, mediaRepo repositories.MediaRepository, mq CleanupPublisher) *TripService {
	return &TripService{
		tripRepo:  tripRepo,
		mediaRepo: mediaRepo,
		mq:        mq,
	}
}

func latitudeInRange(v float64) bool  { return v >= -90 && v <= 90 }
func longitudeInRange(v float64) bool { return v >= -180 && v <= 180 }

func numericValue(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// tripUpdateFields is the allow-list for partial trip updates, shared with
// the create path's range checks. Title, latitude and longitude are
// non-nullable, so an explicit null skips them; description null clears the
// column.
var tripUpdateFields = []query.Field{
	{
		Name:   "title",
		Column: "title",
		Null:   query.NullSkips,
		Validate: func(v any) (any, error) {
			s, ok := v.(string)
			if !ok {
				return nil, apperrors.ErrInvalidTitle
			}
			s = strings.TrimSpace(s)
			if s == "" || utf8.RuneCountInString(s) > 255 {
				return nil, apperrors.ErrInvalidTitle
			}
			return s, nil
		},
	},
	{
		Name:   "description",
		Column: "description",
		Null:   query.NullAssigns,
		Validate: func(v any) (any, error) {
			if v == nil {
				return nil, nil
			}
			if s, ok := v.(string); ok {
				return s, nil
			}
			return nil, apperrors.ErrInvalidDesc
		},
	},
	{
		Name:   "latitude",
		Column: "latitude",
		Null:   query.NullSkips,
		Validate: func(v any) (any, error) {
			n, ok := numericValue(v)
			if !ok || !latitudeInRange(n) {
				return nil, apperrors.ErrInvalidLatitude
			}
			return n, nil
		},
	},
	{
		Name:   "longitude",
		Column: "longitude",
		Null:   query.NullSkips,
		Validate: func(v any) (any, error) {
			n, ok := numericValue(v)
			if !ok || !longitudeInRange(n) {
				return nil, apperrors.ErrInvalidLongitude
			}
			return n, nil
		},
	},
}

// CreateTrip validates the payload and stores a new trip for userID.
func (s *TripService) CreateTrip(userID string, in TripInput) (*models.Trip, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" || !latitudeInRange(in.Latitude) || !longitudeInRange(in.Longitude) {
		return nil, apperrors.ErrInvalidInput
	}
	if utf8.RuneCountInString(title) > 255 {
		return nil, apperrors.ErrTitleTooLong
	}

	trip := &models.Trip{
		Title:       title,
		Description: in.Description,
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
		UserID:      userID,
		Media:       []models.Media{},
	}
	if err := s.tripRepo.Create(trip); err != nil {
		return nil, err
	}
	return trip, nil
}

// GetTrip returns one of the caller's trips with its media attached. A trip
// owned by someone else is NOT_FOUND.
func (s *TripService) GetTrip(userID, id string) (*models.Trip, error) {
	trip, err := s.tripRepo.GetByIDForUser(id, userID)
	if err != nil {
		return nil, err
	}
	media, err := s.mediaRepo.ListByTrip(id)
	if err != nil {
		return nil, err
	}
	trip.Media = media
	trip.MediaCount = len(media)
	return trip, nil
}

// ListTrips returns one page of the caller's trips, each with its media.
// Media for the whole page is loaded in a single batched query and grouped
// in memory.
func (s *TripService) ListTrips(userID string, page, perPage int) (*models.TripPage, error) {
	limit, offset := query.Paginate(page, perPage, TripPageMax)

	total, err := s.tripRepo.CountByUser(userID)
	if err != nil {
		return nil, err
	}
	trips, err := s.tripRepo.ListByUser(userID, limit, offset)
	if err != nil {
		return nil, err
	}

	tripIDs := make([]string, len(trips))
	for i := range trips {
		tripIDs[i] = trips[i].ID
	}
	allMedia, err := s.mediaRepo.ListByTrips(tripIDs)
	if err != nil {
		return nil, err
	}
	byTrip := make(map[string][]models.Media, len(trips))
	for _, m := range allMedia {
		byTrip[m.TripID] = append(byTrip[m.TripID], m)
	}
	for i := range trips {
		media := byTrip[trips[i].ID]
		if media == nil {
			media = []models.Media{}
		}
		trips[i].Media = media
		trips[i].MediaCount = len(media)
	}

	if trips == nil {
		trips = []models.Trip{}
	}
	return &models.TripPage{
		Page:    query.ClampPage(page),
		PerPage: limit,
		Total:   total,
		Items:   trips,
	}, nil
}

// UpdateTrip applies a sparse field set to one of the caller's trips and
// returns the refreshed row. Unknown keys in provided are ignored.
func (s *TripService) UpdateTrip(userID, id string, provided map[string]any) (*models.Trip, error) {
	if id == "" {
		return nil, apperrors.ErrInvalidInput
	}
	if _, err := s.tripRepo.GetByIDForUser(id, userID); err != nil {
		return nil, err
	}

	set, err := query.BuildUpdate(tripUpdateFields, provided)
	if err != nil {
		return nil, err
	}
	if err := s.tripRepo.UpdateFields(id, userID, set); err != nil {
		return nil, err
	}
	return s.GetTrip(userID, id)
}

// DeleteTrip removes one of the caller's trips with its media rows, then
// hands the backing files to the cleanup queue.
func (s *TripService) DeleteTrip(userID, id string) error {
	if id == "" {
		return apperrors.ErrInvalidInput
	}
	media, err := s.mediaRepo.ListByTrip(id)
	if err != nil {
		return err
	}
	if err := s.tripRepo.DeleteForUser(id, userID); err != nil {
		return err
	}

	if len(media) > 0 && s.mq != nil {
		paths := make([]string, len(media))
		for i, m := range media {
			paths[i] = m.FullName
		}
		if err := s.mq.PublishMediaCleanup(paths); err != nil {
			// Rows are gone either way; orphaned files are logged, not fatal.
			log.Printf("Warning: failed to publish media cleanup for trip %s: %v", id, err)
		}
	}
	return nil
}
