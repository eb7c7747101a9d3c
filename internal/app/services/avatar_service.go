package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/yigit/school/internal/app/models"
	"github.com/yigit/school/internal/app/repositories"
	"github.com/yigit/school/internal/pkg/apperrors"
	"github.com/yigit/school/internal/pkg/filestorage"
	"github.com/yigit/school/internal/pkg/helpers"
	"github.com/yigit/school/internal/pkg/imageproc"
	"github.com/yigit/school/internal/pkg/logger"
)

// AvatarService defines the interface for avatar-related operations
type AvatarService interface {
	// SaveAvatar writes the file first and the record second; a student has at most one avatar
	SaveAvatar(ctx context.Context, data []byte, originalFilename, contentType string, studentID int64) (*models.Avatar, error)
	GetAvatarByID(ctx context.Context, id int64) (*models.Avatar, error)
	GetAvatarByStudentID(ctx context.Context, studentID int64) (*models.Avatar, error)
	// GetAvatarFromFileSystem returns the file bytes and their sniffed media type
	GetAvatarFromFileSystem(ctx context.Context, studentID int64) ([]byte, string, error)
	GetAvatarsPage(ctx context.Context, page, size int) (*models.Page[*models.Avatar], error)
	GetAvatarPreview(ctx context.Context, id int64, maxWidth int, format string) ([]byte, string, error)
}

// avatarServiceImpl implements the AvatarService interface
type avatarServiceImpl struct {
	avatarRepo  repositories.AvatarRepository
	studentRepo repositories.StudentRepository
	storage     filestorage.AvatarStorage
}

// NewAvatarService creates a new avatar service instance
func NewAvatarService(avatarRepo repositories.AvatarRepository, studentRepo repositories.StudentRepository, storage filestorage.AvatarStorage) AvatarService {
	return &avatarServiceImpl{
		avatarRepo:  avatarRepo,
		studentRepo: studentRepo,
		storage:     storage,
	}
}

// fileExtension prefers the uploaded file's extension and falls back to the sniffed one
func fileExtension(originalFilename string, detected *mimetype.MIME) string {
	if ext := filepath.Ext(originalFilename); ext != "" && ext != "." {
		return ext
	}
	return detected.Extension()
}

// SaveAvatar stores the avatar of a student
func (s *avatarServiceImpl) SaveAvatar(ctx context.Context, data []byte, originalFilename, contentType string, studentID int64) (*models.Avatar, error) {
	logger.Info().Int64("studentID", studentID).Msg("Was invoked method for upload avatar")

	if len(data) == 0 {
		return nil, apperrors.NewValidationError("avatar file is empty")
	}

	// held until the record matches the file on disk
	unlock := s.storage.Lock(studentID)
	defer unlock()

	exists, err := s.studentRepo.ExistsByID(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("error checking student: %w", err)
	}
	if !exists {
		return nil, apperrors.ErrStudentNotFound
	}

	previous, err := s.avatarRepo.FindByStudentID(ctx, studentID)
	if err != nil && !errors.Is(err, apperrors.ErrAvatarNotFound) {
		return nil, fmt.Errorf("error retrieving current avatar: %w", err)
	}

	detected := mimetype.Detect(data)
	contentType = strings.TrimSpace(contentType)
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = detected.String()
	}

	stored, err := s.storage.Save(studentID, fileExtension(originalFilename, detected), data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorageFailed, err)
	}

	avatar, err := s.avatarRepo.Save(ctx, &models.Avatar{
		StudentID: studentID,
		FilePath:  stored.Path,
		FileSize:  stored.FileSize,
		MediaType: contentType,
		Data:      data,
	})
	if err != nil {
		s.rollbackFile(studentID, stored, previous)
		if errors.Is(err, apperrors.ErrStudentNotFound) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error saving avatar: %w", err)
	}

	logger.Debug().Int64("avatarID", avatar.ID).Str("path", avatar.FilePath).Str("mediaType", avatar.MediaType).Msg("Avatar saved")
	return avatar, nil
}

// rollbackFile puts the disk back in line with the avatar record after a failed record write:
// the previous avatar's bytes are restored from its record, or the new file is removed.
// Runs under the student's storage lock.
func (s *avatarServiceImpl) rollbackFile(studentID int64, stored *filestorage.StoredFile, previous *models.Avatar) {
	if previous != nil {
		if _, err := s.storage.Save(studentID, filepath.Ext(previous.FilePath), previous.Data); err != nil {
			logger.Error().Err(err).Int64("studentID", studentID).Msg("Failed to restore previous avatar file")
		}
		return
	}
	if err := s.storage.DeleteFile(stored.Path); err != nil {
		logger.Error().Err(err).Str("path", stored.Path).Msg("Failed to remove orphaned avatar file")
	}
}

// GetAvatarByID retrieves an avatar by ID
func (s *avatarServiceImpl) GetAvatarByID(ctx context.Context, id int64) (*models.Avatar, error) {
	logger.Info().Int64("avatarID", id).Msg("Was invoked method for get avatar")

	avatar, err := s.avatarRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrAvatarNotFound) {
			return nil, apperrors.ErrAvatarNotFound
		}
		return nil, fmt.Errorf("error retrieving avatar: %w", err)
	}
	return avatar, nil
}

// GetAvatarByStudentID retrieves the avatar of a student
func (s *avatarServiceImpl) GetAvatarByStudentID(ctx context.Context, studentID int64) (*models.Avatar, error) {
	logger.Info().Int64("studentID", studentID).Msg("Was invoked method for get avatar by student")

	avatar, err := s.avatarRepo.FindByStudentID(ctx, studentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrAvatarNotFound) {
			return nil, apperrors.ErrAvatarNotFound
		}
		return nil, fmt.Errorf("error retrieving avatar: %w", err)
	}
	return avatar, nil
}

// GetAvatarFromFileSystem reads the student's avatar file from disk
func (s *avatarServiceImpl) GetAvatarFromFileSystem(_ context.Context, studentID int64) ([]byte, string, error) {
	logger.Info().Int64("studentID", studentID).Msg("Was invoked method for get avatar from file system")

	data, path, err := s.storage.Read(studentID)
	if err != nil {
		if errors.Is(err, filestorage.ErrFileNotFound) {
			return nil, "", apperrors.ErrAvatarNotFound
		}
		return nil, "", fmt.Errorf("%w: %v", apperrors.ErrStorageFailed, err)
	}

	logger.Debug().Str("path", path).Int("size", len(data)).Msg("Avatar file read")
	return data, mimetype.Detect(data).String(), nil
}

// GetAvatarsPage returns one page of avatars ordered by id
func (s *avatarServiceImpl) GetAvatarsPage(ctx context.Context, page, size int) (*models.Page[*models.Avatar], error) {
	page, size = helpers.NormalizePage(page, size)
	logger.Info().Int("page", page).Int("size", size).Msg("Was invoked method for get avatars page")

	avatars, total, err := s.avatarRepo.FindPage(ctx, page, size)
	if err != nil {
		return nil, fmt.Errorf("error retrieving avatars: %w", err)
	}
	return &models.Page[*models.Avatar]{
		Items: avatars,
		Total: total,
		Page:  page,
		Size:  size,
	}, nil
}

// GetAvatarPreview renders a downscaled copy of a stored avatar
func (s *avatarServiceImpl) GetAvatarPreview(ctx context.Context, id int64, maxWidth int, format string) ([]byte, string, error) {
	avatar, err := s.GetAvatarByID(ctx, id)
	if err != nil {
		return nil, "", err
	}

	preview, mediaType, err := imageproc.Preview(avatar.Data, maxWidth, format)
	if err != nil {
		if errors.Is(err, imageproc.ErrUnsupportedFormat) {
			return nil, "", apperrors.NewValidationError(err.Error())
		}
		return nil, "", fmt.Errorf("error rendering avatar preview: %w", err)
	}
	return preview, mediaType, nil
}
