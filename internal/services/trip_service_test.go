package services_test

import (
	"testing"

	"treva/internal/apperrors"
	"treva/internal/models"
	"treva/internal/query"
	"treva/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockTripRepository is a mock implementation of repositories.TripRepository.
type MockTripRepository struct {
	mock.Mock
}

func (m *MockTripRepository) Create(trip *models.Trip) error {
	args := m.Called(trip)
	if trip.ID == "" {
		trip.ID = "trip-generated"
	}
	return args.Error(0)
}

func (m *MockTripRepository) GetByIDForUser(id, userID string) (*models.Trip, error) {
	args := m.Called(id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Trip), args.Error(1)
}

func (m *MockTripRepository) CountByUser(userID string) (int64, error) {
	args := m.Called(userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTripRepository) ListByUser(userID string, limit, offset int) ([]models.Trip, error) {
	args := m.Called(userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Trip), args.Error(1)
}

func (m *MockTripRepository) UpdateFields(id, userID string, set *query.UpdateSet) error {
	args := m.Called(id, userID, set)
	return args.Error(0)
}

func (m *MockTripRepository) DeleteForUser(id, userID string) error {
	args := m.Called(id, userID)
	return args.Error(0)
}

// MockMediaRepository is a mock implementation of repositories.MediaRepository.
type MockMediaRepository struct {
	mock.Mock
}

func (m *MockMediaRepository) Create(media *models.Media) error {
	args := m.Called(media)
	if media.ID == "" {
		media.ID = "media-generated"
	}
	return args.Error(0)
}

func (m *MockMediaRepository) GetByID(id string) (*models.Media, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Media), args.Error(1)
}

func (m *MockMediaRepository) ListByTrip(tripID string) ([]models.Media, error) {
	args := m.Called(tripID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Media), args.Error(1)
}

func (m *MockMediaRepository) ListByTrips(tripIDs []string) ([]models.Media, error) {
	args := m.Called(tripIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Media), args.Error(1)
}

func (m *MockMediaRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockCleanupPublisher records the paths handed to the cleanup queue.
type MockCleanupPublisher struct {
	mock.Mock
}

func (m *MockCleanupPublisher) PublishMediaCleanup(paths []string) error {
	args := m.Called(paths)
	return args.Error(0)
}

func TestTripService_CreateTrip(t *testing.T) {
	tripRepo := new(MockTripRepository)
	mediaRepo := new(MockMediaRepository)
	svc := services.NewTripService(tripRepo, mediaRepo, nil)

	tripRepo.On("Create", mock.AnythingOfType("*models.Trip")).Return(nil).Once()

	desc := "first stop"
	trip, err := svc.CreateTrip("user-1", services.TripInput{
		Title:       "  Lisbon  ",
		Description: &desc,
		Latitude:    38.72,
		Longitude:   -9.14,
	})
	assert.NoError(t, err)
	assert.Equal(t, "Lisbon", trip.Title)
	assert.Equal(t, "user-1", trip.UserID)
	assert.NotEmpty(t, trip.ID)
	assert.NotNil(t, trip.Media)
	tripRepo.AssertExpectations(t)
}

func TestTripService_CreateTripValidation(t *testing.T) {
	svc := services.NewTripService(new(MockTripRepository), new(MockMediaRepository), nil)

	_, err := svc.CreateTrip("user-1", services.TripInput{Title: "   ", Latitude: 1, Longitude: 1})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = svc.CreateTrip("user-1", services.TripInput{Title: "x", Latitude: 91, Longitude: 0})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = svc.CreateTrip("user-1", services.TripInput{Title: "x", Latitude: 0, Longitude: -181})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	long := make([]byte, 256)
	for i := range long {
		long[i] = 'a'
	}
	_, err = svc.CreateTrip("user-1", services.TripInput{Title: string(long), Latitude: 0, Longitude: 0})
	assert.ErrorIs(t, err, apperrors.ErrTitleTooLong)
}

func TestTripService_GetTrip(t *testing.T) {
	tripRepo := new(MockTripRepository)
	mediaRepo := new(MockMediaRepository)
	svc := services.NewTripService(tripRepo, mediaRepo, nil)

	tripRepo.On("GetByIDForUser", "t1", "user-1").Return(&models.Trip{ID: "t1", UserID: "user-1"}, nil).Once()
	mediaRepo.On("ListByTrip", "t1").Return([]models.Media{{ID: "m1", TripID: "t1"}}, nil).Once()

	trip, err := svc.GetTrip("user-1", "t1")
	assert.NoError(t, err)
	assert.Len(t, trip.Media, 1)

	// A foreign trip looks exactly like a missing one.
	tripRepo.On("GetByIDForUser", "t1", "intruder").Return(nil, apperrors.ErrNotFound).Once()
	_, err = svc.GetTrip("intruder", "t1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	tripRepo.AssertExpectations(t)
	mediaRepo.AssertExpectations(t)
}

func TestTripService_ListTrips(t *testing.T) {
	tripRepo := new(MockTripRepository)
	mediaRepo := new(MockMediaRepository)
	svc := services.NewTripService(tripRepo, mediaRepo, nil)

	// 15 trips total, page 2 of 10 holds the last 5.
	pageTrips := []models.Trip{{ID: "t11"}, {ID: "t12"}, {ID: "t13"}, {ID: "t14"}, {ID: "t15"}}
	tripRepo.On("CountByUser", "user-1").Return(int64(15), nil).Once()
	tripRepo.On("ListByUser", "user-1", 10, 10).Return(pageTrips, nil).Once()
	mediaRepo.On("ListByTrips", []string{"t11", "t12", "t13", "t14", "t15"}).Return([]models.Media{
		{ID: "m1", TripID: "t12"},
		{ID: "m2", TripID: "t12"},
	}, nil).Once()

	result, err := svc.ListTrips("user-1", 2, 10)
	assert.NoError(t, err)
	assert.Equal(t, 2, result.Page)
	assert.Equal(t, 10, result.PerPage)
	assert.Equal(t, int64(15), result.Total)
	assert.Len(t, result.Items, 5)
	assert.Len(t, result.Items[1].Media, 2)
	assert.Equal(t, 2, result.Items[1].MediaCount)
	// Trips without media still serialize as [], not null.
	assert.NotNil(t, result.Items[0].Media)
	assert.Empty(t, result.Items[0].Media)
	assert.Equal(t, 0, result.Items[0].MediaCount)

	tripRepo.AssertExpectations(t)
	mediaRepo.AssertExpectations(t)
}

func TestTripService_ListTripsClampsPagination(t *testing.T) {
	tripRepo := new(MockTripRepository)
	mediaRepo := new(MockMediaRepository)
	svc := services.NewTripService(tripRepo, mediaRepo, nil)

	tripRepo.On("CountByUser", "user-1").Return(int64(0), nil).Once()
	tripRepo.On("ListByUser", "user-1", services.TripPageMax, 0).Return([]models.Trip{}, nil).Once()
	mediaRepo.On("ListByTrips", []string{}).Return([]models.Media{}, nil).Once()

	result, err := svc.ListTrips("user-1", -3, 9999)
	assert.NoError(t, err)
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, services.TripPageMax, result.PerPage)
	assert.NotNil(t, result.Items)

	tripRepo.AssertExpectations(t)
}

func TestTripService_UpdateTrip(t *testing.T) {
	tripRepo := new(MockTripRepository)
	mediaRepo := new(MockMediaRepository)
	svc := services.NewTripService(tripRepo, mediaRepo, nil)

	owned := &models.Trip{ID: "t1", UserID: "user-1", Title: "Old"}
	tripRepo.On("GetByIDForUser", "t1", "user-1").Return(owned, nil).Twice() // precheck + reload
	tripRepo.On("UpdateFields", "t1", "user-1", mock.MatchedBy(func(set *query.UpdateSet) bool {
		return set.SetClause() == "title = ?"
	})).Return(nil).Once()
	mediaRepo.On("ListByTrip", "t1").Return([]models.Media{}, nil).Once()

	_, err := svc.UpdateTrip("user-1", "t1", map[string]any{"title": "New", "user_id": "evil"})
	assert.NoError(t, err)
	tripRepo.AssertExpectations(t)
}

func TestTripService_UpdateTripRejections(t *testing.T) {
	tripRepo := new(MockTripRepository)
	svc := services.NewTripService(tripRepo, new(MockMediaRepository), nil)

	_, err := svc.UpdateTrip("user-1", "", map[string]any{"title": "x"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	// Ownership is checked before the payload is even inspected.
	tripRepo.On("GetByIDForUser", "t1", "intruder").Return(nil, apperrors.ErrNotFound).Once()
	_, err = svc.UpdateTrip("intruder", "t1", map[string]any{"title": "x"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	owned := &models.Trip{ID: "t1", UserID: "user-1"}
	tripRepo.On("GetByIDForUser", "t1", "user-1").Return(owned, nil).Times(3)

	_, err = svc.UpdateTrip("user-1", "t1", map[string]any{})
	assert.ErrorIs(t, err, apperrors.ErrNothingToUpdate)

	_, err = svc.UpdateTrip("user-1", "t1", map[string]any{"latitude": 123.0})
	assert.ErrorIs(t, err, apperrors.ErrInvalidLatitude)

	_, err = svc.UpdateTrip("user-1", "t1", map[string]any{"longitude": "east"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidLongitude)

	// UpdateFields must never run on a rejected payload.
	tripRepo.AssertNotCalled(t, "UpdateFields", mock.Anything, mock.Anything, mock.Anything)
	tripRepo.AssertExpectations(t)
}

func TestTripService_DeleteTrip(t *testing.T) {
	tripRepo := new(MockTripRepository)
	mediaRepo := new(MockMediaRepository)
	mq := new(MockCleanupPublisher)
	svc := services.NewTripService(tripRepo, mediaRepo, mq)

	mediaRepo.On("ListByTrip", "t1").Return([]models.Media{
		{ID: "m1", TripID: "t1", FullName: "images/a_1.jpg"},
		{ID: "m2", TripID: "t1", FullName: "videos/b_2.mp4"},
	}, nil).Once()
	tripRepo.On("DeleteForUser", "t1", "user-1").Return(nil).Once()
	mq.On("PublishMediaCleanup", []string{"images/a_1.jpg", "videos/b_2.mp4"}).Return(nil).Once()

	assert.NoError(t, svc.DeleteTrip("user-1", "t1"))
	tripRepo.AssertExpectations(t)
	mediaRepo.AssertExpectations(t)
	mq.AssertExpectations(t)
}

func TestTripService_DeleteTripForeignIsNotFound(t *testing.T) {
	tripRepo := new(MockTripRepository)
	mediaRepo := new(MockMediaRepository)
	mq := new(MockCleanupPublisher)
	svc := services.NewTripService(tripRepo, mediaRepo, mq)

	mediaRepo.On("ListByTrip", "t1").Return([]models.Media{}, nil).Once()
	tripRepo.On("DeleteForUser", "t1", "intruder").Return(apperrors.ErrNotFound).Once()

	assert.ErrorIs(t, svc.DeleteTrip("intruder", "t1"), apperrors.ErrNotFound)
	mq.AssertNotCalled(t, "PublishMediaCleanup", mock.Anything)
	tripRepo.AssertExpectations(t)
}

func TestTripService_DeleteTripSurvivesPublisherFailure(t *testing.T) {
	tripRepo := new(MockTripRepository)
	mediaRepo := new(MockMediaRepository)
	mq := new(MockCleanupPublisher)
	svc := services.NewTripService(tripRepo, mediaRepo, mq)

	mediaRepo.On("ListByTrip", "t1").Return([]models.Media{{ID: "m1", TripID: "t1", FullName: "images/a_1.jpg"}}, nil).Once()
	tripRepo.On("DeleteForUser", "t1", "user-1").Return(nil).Once()
	mq.On("PublishMediaCleanup", mock.Anything).Return(assert.AnError).Once()

	// The rows are gone; a dead broker must not turn that into an API error.
	assert.NoError(t, svc.DeleteTrip("user-1", "t1"))
	mq.AssertExpectations(t)
}
