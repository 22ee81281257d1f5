package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	gocache "github.com/patrickmn/go-cache"

	"ptcoach/fitness-planner/internal/domain"
	"ptcoach/fitness-planner/internal/repository"
	"ptcoach/fitness-planner/internal/storage"
)

// --- Error Definitions ---
var (
	ErrExerciseNotFound = errors.New("exercise not found")
	ErrStorageDisabled  = errors.New("video storage is not configured")
)

const (
	exerciseListCacheKey = "exercises:all"
	videoReadURLExpiry   = time.Hour
)

// VideoUpload is a presigned PUT target for an exercise demo video.
type VideoUpload struct {
	UploadURL string    `json:"uploadUrl"`
	ObjectKey string    `json:"objectKey"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type ExerciseService interface {
	CreateExercise(ctx context.Context, name, videoURL string) (*domain.Exercise, error)
	GetExercise(ctx context.Context, id int64) (*domain.Exercise, error)
	ListExercises(ctx context.Context) ([]domain.Exercise, error)
	UpdateExercise(ctx context.Context, id int64, name, videoURL string) (*domain.Exercise, error)
	DeleteExercise(ctx context.Context, id int64) error
	CreateVideoUpload(ctx context.Context, id int64, fileName, contentType string) (*VideoUpload, error)
}

// exerciseService implements the ExerciseService interface.
type exerciseService struct {
	exerciseRepo repository.ExerciseRepository
	fileStorage  storage.FileStorage // nil when S3 is not configured
	publicURL    string
	cache        *gocache.Cache
}

// NewExerciseService creates a new instance of exerciseService. fileStorage may
// be nil. publicURL is the base URL uploaded objects are readable from, if any.
func NewExerciseService(exerciseRepo repository.ExerciseRepository, fileStorage storage.FileStorage, publicURL string, cacheTTL time.Duration) ExerciseService {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &exerciseService{
		exerciseRepo: exerciseRepo,
		fileStorage:  fileStorage,
		publicURL:    strings.TrimRight(publicURL, "/"),
		cache:        gocache.New(cacheTTL, 2*cacheTTL),
	}
}

func (s *exerciseService) CreateExercise(ctx context.Context, name, videoURL string) (*domain.Exercise, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: exercise name is required", ErrValidationFailed)
	}

	exercise := &domain.Exercise{
		Name:     name,
		VideoURL: strings.TrimSpace(videoURL),
	}
	if _, err := s.exerciseRepo.Create(ctx, exercise); err != nil {
		return nil, err
	}
	s.cache.Delete(exerciseListCacheKey)
	return exercise, nil
}

// GetExercise returns a library entry as stored. Plans copy from this value.
func (s *exerciseService) GetExercise(ctx context.Context, id int64) (*domain.Exercise, error) {
	exercise, err := s.exerciseRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	return exercise, nil
}

// ListExercises returns the library, served from memory while fresh.
func (s *exerciseService) ListExercises(ctx context.Context) ([]domain.Exercise, error) {
	var exercises []domain.Exercise
	if cached, ok := s.cache.Get(exerciseListCacheKey); ok {
		exercises = cached.([]domain.Exercise)
	} else {
		var err error
		exercises, err = s.exerciseRepo.List(ctx)
		if err != nil {
			return nil, err
		}
		s.cache.SetDefault(exerciseListCacheKey, exercises)
	}

	// Copy so presigned URLs never leak into the cached slice.
	out := make([]domain.Exercise, len(exercises))
	copy(out, exercises)
	for i := range out {
		s.resolveVideoURL(ctx, &out[i])
	}
	return out, nil
}

// resolveVideoURL fills a temporary read URL for uploaded videos without a public URL.
func (s *exerciseService) resolveVideoURL(ctx context.Context, ex *domain.Exercise) {
	if ex.VideoURL != "" || ex.VideoObjectKey == "" || s.fileStorage == nil {
		return
	}
	url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, ex.VideoObjectKey, videoReadURLExpiry)
	if err != nil {
		log.Warn("failed to presign exercise video", "exercise", ex.ID, "error", err)
		return
	}
	ex.VideoURL = url
}

// UpdateExercise renames an entry or changes its video. Existing plans keep their copies.
func (s *exerciseService) UpdateExercise(ctx context.Context, id int64, name, videoURL string) (*domain.Exercise, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: exercise name is required", ErrValidationFailed)
	}

	existing, err := s.GetExercise(ctx, id)
	if err != nil {
		return nil, err
	}
	existing.Name = name
	videoURL = strings.TrimSpace(videoURL)
	if videoURL != existing.VideoURL && existing.VideoObjectKey != "" {
		// A linked video replaces the uploaded one.
		s.deleteVideoObject(ctx, existing)
		existing.VideoObjectKey = ""
	}
	existing.VideoURL = videoURL

	if err := s.exerciseRepo.Update(ctx, existing); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	s.cache.Delete(exerciseListCacheKey)
	return existing, nil
}

func (s *exerciseService) DeleteExercise(ctx context.Context, id int64) error {
	existing, err := s.GetExercise(ctx, id)
	if err != nil {
		return err
	}
	if err := s.exerciseRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrExerciseNotFound
		}
		return err
	}
	s.deleteVideoObject(ctx, existing)
	s.cache.Delete(exerciseListCacheKey)
	return nil
}

func (s *exerciseService) deleteVideoObject(ctx context.Context, ex *domain.Exercise) {
	if ex.VideoObjectKey == "" || s.fileStorage == nil {
		return
	}
	if err := s.fileStorage.DeleteObject(ctx, ex.VideoObjectKey); err != nil {
		log.Warn("failed to delete exercise video", "exercise", ex.ID, "key", ex.VideoObjectKey, "error", err)
	}
}

// CreateVideoUpload issues a presigned PUT URL and points the exercise at the new object.
func (s *exerciseService) CreateVideoUpload(ctx context.Context, id int64, fileName, contentType string) (*VideoUpload, error) {
	if s.fileStorage == nil {
		return nil, ErrStorageDisabled
	}
	if !strings.HasPrefix(contentType, "video/") {
		return nil, fmt.Errorf("%w: content type must be a video type", ErrValidationFailed)
	}

	existing, err := s.GetExercise(ctx, id)
	if err != nil {
		return nil, err
	}

	key := storage.ExerciseVideoKey(id, fileName)
	url, err := s.fileStorage.GeneratePresignedUploadURL(ctx, key, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("presign upload: %w", err)
	}

	previous := *existing
	existing.VideoObjectKey = key
	existing.VideoURL = ""
	if s.publicURL != "" {
		existing.VideoURL = s.publicURL + "/" + key
	}
	if err := s.exerciseRepo.Update(ctx, existing); err != nil {
		return nil, err
	}
	if previous.VideoObjectKey != "" {
		s.deleteVideoObject(ctx, &previous)
	}
	s.cache.Delete(exerciseListCacheKey)

	return &VideoUpload{
		UploadURL: url,
		ObjectKey: key,
		ExpiresAt: time.Now().Add(storage.DefaultPresignedURLExpiry),
	}, nil
}
