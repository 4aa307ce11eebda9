package service

import (
	"coachplan/fitness-app/internal/domain"
	"coachplan/fitness-app/internal/repository"
	"coachplan/fitness-app/internal/storage"
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// maxMediaSizeBytes caps uploads at 100 MiB per clip.
const maxMediaSizeBytes = 100 << 20

// UploadTicket pairs a media record with a presigned PUT URL the client
// uploads against.
type UploadTicket struct {
	Media     *domain.ExerciseMedia `json:"media"`
	UploadURL string                `json:"uploadUrl"`
}

// --- Service Interface ---
type MediaService interface {
	// RequestUpload reserves an object key and returns a presigned upload URL.
	RequestUpload(ctx context.Context, userID, templateID primitive.ObjectID, fileName, contentType string, size int64) (*UploadTicket, error)
	// GetDownloadURL returns a presigned GET URL for a media record.
	GetDownloadURL(ctx context.Context, userID, mediaID primitive.ObjectID) (string, error)
}

// --- Service Implementation ---

type mediaService struct {
	mediaRepo    repository.MediaRepository
	templateRepo repository.TemplateRepository
	fileStorage  storage.FileStorage
}

// NewMediaService creates a new instance of mediaService.
func NewMediaService(
	mediaRepo repository.MediaRepository,
	templateRepo repository.TemplateRepository,
	fileStorage storage.FileStorage,
) MediaService {
	return &mediaService{
		mediaRepo:    mediaRepo,
		templateRepo: templateRepo,
		fileStorage:  fileStorage,
	}
}

func (s *mediaService) RequestUpload(ctx context.Context, userID, templateID primitive.ObjectID, fileName, contentType string, size int64) (*UploadTicket, error) {
	var fields []string
	if fileName == "" {
		fields = append(fields, "fileName")
	}
	if contentType == "" {
		fields = append(fields, "contentType")
	}
	if size <= 0 || size > maxMediaSizeBytes {
		fields = append(fields, "size")
	}
	if len(fields) > 0 {
		return nil, NewValidationError("invalid upload request", fields...)
	}

	template, err := s.templateRepo.GetByID(ctx, templateID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !domain.CanAccess(userID, domain.RoleUser, template.UserID) {
		return nil, ErrNotFound
	}

	// Key layout: media/<user>/<uuid><ext>. The uuid keeps uploads from
	// clobbering each other regardless of file name.
	objectKey := fmt.Sprintf("media/%s/%s%s", userID.Hex(), uuid.NewString(), path.Ext(fileName))

	media := &domain.ExerciseMedia{
		UserID:      userID,
		TemplateID:  templateID,
		S3ObjectKey: objectKey,
		FileName:    fileName,
		ContentType: contentType,
		Size:        size,
		UploadedAt:  time.Now().UTC(),
	}
	mediaID, err := s.mediaRepo.Create(ctx, media)
	if err != nil {
		return nil, err
	}
	media.ID = mediaID

	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to generate upload URL: %w", err)
	}

	return &UploadTicket{Media: media, UploadURL: uploadURL}, nil
}

func (s *mediaService) GetDownloadURL(ctx context.Context, userID, mediaID primitive.ObjectID) (string, error) {
	media, err := s.mediaRepo.GetByID(ctx, mediaID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	if !domain.CanAccess(userID, domain.RoleUser, media.UserID) {
		return "", ErrNotFound
	}

	downloadURL, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, media.S3ObjectKey, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return "", fmt.Errorf("failed to generate download URL: %w", err)
	}
	return downloadURL, nil
}
