package services

import (
	"errors"
	"log"
	"mime/multipart"

	"treva/internal/apperrors"
	"treva/internal/models"
	"treva/internal/repositories"
	"treva/internal/storage"
)

// MaxUploadBytes caps a single uploaded file at 50MB.
const MaxUploadBytes = 50 * 1024 * 1024

// MediaService handles media attachments. Mutation rights are transitive:
// the caller must own the trip the media belongs to.
type MediaService struct {
	tripRepo  repositories.TripRepository
	mediaRepo repositories.MediaRepository
	store     storage.MediaStore
	mq        CleanupPublisher
}

// NewMediaService creates a new MediaService.
func NewMediaService(tripRepo repositories.TripRepository, mediaRepo repositories.MediaRepository, store storage.MediaStore, mq CleanupPublisher) *MediaService {
	return &MediaService{
		tripRepo:  tripRepo,
		mediaRepo: mediaRepo,
		store:     store,
		mq:        mq,
	}
}

// Upload validates and stores a batch of files against one of the caller's
// trips, returning the created media rows.
func (s *MediaService) Upload(userID, tripID string, files []*multipart.FileHeader) ([]models.Media, error) {
	if tripID == "" {
		return nil, apperrors.ErrInvalidInput
	}
	if _, err := s.tripRepo.GetByIDForUser(tripID, userID); err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, apperrors.ErrNoFilesProvided
	}

	saved := make([]models.Media, 0, len(files))
	for _, fh := range files {
		media, err := s.saveOne(tripID, fh)
		if err != nil {
			return nil, err
		}
		saved = append(saved, *media)
	}
	return saved, nil
}

func (s *MediaService) saveOne(tripID string, fh *multipart.FileHeader) (*models.Media, error) {
	if fh.Size <= 0 || fh.Size > MaxUploadBytes {
		return nil, apperrors.ErrFileSizeInvalid
	}
	kind, ext, ok := storage.KindForMIME(fh.Header.Get("Content-Type"))
	if !ok {
		return nil, apperrors.ErrUnsupportedMediaType
	}

	f, err := fh.Open()
	if err != nil {
		return nil, apperrors.ErrUploadFailed.WithCause(err)
	}
	defer f.Close()

	relPath, err := s.store.Save(kind, ext, f)
	if err != nil {
		return nil, apperrors.ErrUploadFailed.WithCause(err)
	}

	media := &models.Media{
		TripID:    tripID,
		MediaType: kind,
		FullName:  relPath,
	}
	if err := s.mediaRepo.Create(media); err != nil {
		// Keep disk and DB consistent: a row that never landed means the
		// file must not stay either.
		if rmErr := s.store.Remove(relPath); rmErr != nil {
			log.Printf("Warning: failed to remove orphaned upload %s: %v", relPath, rmErr)
		}
		return nil, err
	}
	return media, nil
}

// ListForTrip returns the media of one of the caller's trips.
func (s *MediaService) ListForTrip(userID, tripID string) ([]models.Media, error) {
	if tripID == "" {
		return nil, apperrors.ErrInvalidInput
	}
	if _, err := s.tripRepo.GetByIDForUser(tripID, userID); err != nil {
		return nil, err
	}
	media, err := s.mediaRepo.ListByTrip(tripID)
	if err != nil {
		return nil, err
	}
	if media == nil {
		media = []models.Media{}
	}
	return media, nil
}

// Delete removes one media row and queues its file for cleanup, returning
// the trip's remaining media. Media existence is visible to everyone, so a
// foreign owner gets a distinct ownership error rather than NOT_FOUND.
func (s *MediaService) Delete(userID, mediaID string) ([]models.Media, error) {
	if mediaID == "" {
		return nil, apperrors.ErrInvalidInput
	}
	media, err := s.mediaRepo.GetByID(mediaID)
	if err != nil {
		return nil, err
	}
	if _, err := s.tripRepo.GetByIDForUser(media.TripID, userID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrMediaOwnership
		}
		return nil, err
	}

	if err := s.mediaRepo.Delete(mediaID); err != nil {
		return nil, err
	}
	if s.mq != nil {
		if err := s.mq.PublishMediaCleanup([]string{media.FullName}); err != nil {
			log.Printf("Warning: failed to publish cleanup for media %s: %v", mediaID, err)
		}
	}
	return s.ListForTrip(userID, media.TripID)
}
