package services

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/yigit/school/internal/app/models"
	"github.com/yigit/school/internal/app/repositories"
	"github.com/yigit/school/internal/pkg/apperrors"
	"github.com/yigit/school/internal/pkg/logger"
	"github.com/yigit/school/internal/pkg/validation"
)

// FacultyService defines the interface for faculty-related operations
type FacultyService interface {
	CreateFaculty(ctx context.Context, name, color string) (*models.Faculty, error)
	GetFacultyByID(ctx context.Context, id int64) (*models.Faculty, error)
	GetAllFaculties(ctx context.Context) ([]*models.Faculty, error)
	// UpdateFaculty reports false when the faculty does not exist
	UpdateFaculty(ctx context.Context, id int64, name, color string) (bool, error)
	// DeleteFaculty reports false when the faculty does not exist
	DeleteFaculty(ctx context.Context, id int64) (bool, error)
	GetFacultiesByColor(ctx context.Context, color string) ([]*models.Faculty, error)
	SearchFaculties(ctx context.Context, term string) ([]*models.Faculty, error)
	GetStudentsOfFaculty(ctx context.Context, facultyID int64) ([]*models.Student, error)
	GetLongestFacultyName(ctx context.Context) (string, error)
}

// facultyServiceImpl implements the FacultyService interface
type facultyServiceImpl struct {
	facultyRepo repositories.FacultyRepository
	studentRepo repositories.StudentRepository
}

// NewFacultyService creates a new faculty service instance
func NewFacultyService(facultyRepo repositories.FacultyRepository, studentRepo repositories.StudentRepository) FacultyService {
	return &facultyServiceImpl{
		facultyRepo: facultyRepo,
		studentRepo: studentRepo,
	}
}

// validateFaculty validates faculty fields before they reach the repository
func validateFaculty(name, color string) error {
	if !validation.NotBlank(name) {
		return fmt.Errorf("%w: name cannot be empty", apperrors.ErrValidationFailed)
	}
	if !validation.NotBlank(color) {
		return fmt.Errorf("%w: color cannot be empty", apperrors.ErrValidationFailed)
	}
	if utf8.RuneCountInString(name) > validation.NameMaxLength {
		return fmt.Errorf("%w: name is longer than %d characters", apperrors.ErrValidationFailed, validation.NameMaxLength)
	}
	if utf8.RuneCountInString(color) > validation.ColorMaxLength {
		return fmt.Errorf("%w: color is longer than %d characters", apperrors.ErrValidationFailed, validation.ColorMaxLength)
	}
	return nil
}

// CreateFaculty creates a new faculty
func (s *facultyServiceImpl) CreateFaculty(ctx context.Context, name, color string) (*models.Faculty, error) {
	logger.Info().Msg("Was invoked method for create faculty")

	if err := validateFaculty(name, color); err != nil {
		return nil, err
	}

	faculty, err := s.facultyRepo.Save(ctx, &models.Faculty{Name: name, Color: color})
	if err != nil {
		return nil, fmt.Errorf("error creating faculty: %w", err)
	}
	logger.Debug().Int64("facultyID", faculty.ID).Str("name", faculty.Name).Msg("Faculty created")
	return faculty, nil
}

// GetFacultyByID retrieves a faculty by ID
func (s *facultyServiceImpl) GetFacultyByID(ctx context.Context, id int64) (*models.Faculty, error) {
	logger.Info().Int64("facultyID", id).Msg("Was invoked method for get faculty")

	faculty, err := s.facultyRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrFacultyNotFound) {
			return nil, apperrors.ErrFacultyNotFound
		}
		return nil, fmt.Errorf("error retrieving faculty: %w", err)
	}
	return faculty, nil
}

// GetAllFaculties retrieves all faculties
func (s *facultyServiceImpl) GetAllFaculties(ctx context.Context) ([]*models.Faculty, error) {
	logger.Info().Msg("Was invoked method for get all faculties")

	faculties, err := s.facultyRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving faculties: %w", err)
	}
	return faculties, nil
}

// UpdateFaculty overwrites name and color of an existing faculty
func (s *facultyServiceImpl) UpdateFaculty(ctx context.Context, id int64, name, color string) (bool, error) {
	logger.Info().Int64("facultyID", id).Msg("Was invoked method for update faculty")

	if err := validateFaculty(name, color); err != nil {
		return false, err
	}

	exists, err := s.facultyRepo.ExistsByID(ctx, id)
	if err != nil {
		return false, fmt.Errorf("error checking faculty: %w", err)
	}
	if !exists {
		logger.Warn().Int64("facultyID", id).Msg("Faculty to update not found")
		return false, nil
	}

	if _, err := s.facultyRepo.Save(ctx, &models.Faculty{ID: id, Name: name, Color: color}); err != nil {
		if errors.Is(err, apperrors.ErrFacultyNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("error updating faculty: %w", err)
	}
	return true, nil
}

// DeleteFaculty deletes a faculty; its students become unassigned
func (s *facultyServiceImpl) DeleteFaculty(ctx context.Context, id int64) (bool, error) {
	logger.Info().Int64("facultyID", id).Msg("Was invoked method for delete faculty")

	exists, err := s.facultyRepo.ExistsByID(ctx, id)
	if err != nil {
		return false, fmt.Errorf("error checking faculty: %w", err)
	}
	if !exists {
		logger.Warn().Int64("facultyID", id).Msg("Faculty to delete not found")
		return false, nil
	}

	if err := s.facultyRepo.DeleteByID(ctx, id); err != nil {
		return false, fmt.Errorf("error deleting faculty: %w", err)
	}
	return true, nil
}

// GetFacultiesByColor returns faculties whose color matches, ignoring case
func (s *facultyServiceImpl) GetFacultiesByColor(ctx context.Context, color string) ([]*models.Faculty, error) {
	logger.Info().Str("color", color).Msg("Was invoked method for get faculties by color")

	faculties, err := s.facultyRepo.FindByColor(ctx, color)
	if err != nil {
		return nil, fmt.Errorf("error retrieving faculties by color: %w", err)
	}
	return faculties, nil
}

// SearchFaculties returns faculties whose name or color contains term, ignoring case
func (s *facultyServiceImpl) SearchFaculties(ctx context.Context, term string) ([]*models.Faculty, error) {
	logger.Info().Str("searchTerm", term).Msg("Was invoked method for search faculties")

	faculties, err := s.facultyRepo.SearchByNameOrColor(ctx, term)
	if err != nil {
		return nil, fmt.Errorf("error searching faculties: %w", err)
	}
	return faculties, nil
}

// GetStudentsOfFaculty returns the students of a faculty; an unknown faculty yields an empty list
func (s *facultyServiceImpl) GetStudentsOfFaculty(ctx context.Context, facultyID int64) ([]*models.Student, error) {
	logger.Info().Int64("facultyID", facultyID).Msg("Was invoked method for get students of faculty")

	students, err := s.studentRepo.FindByFacultyID(ctx, facultyID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving students of faculty: %w", err)
	}
	return students, nil
}

// GetLongestFacultyName returns the longest faculty name by character count, "" when there are no faculties
func (s *facultyServiceImpl) GetLongestFacultyName(ctx context.Context) (string, error) {
	logger.Info().Msg("Was invoked method for get longest faculty name")

	faculties, err := s.facultyRepo.FindAll(ctx)
	if err != nil {
		return "", fmt.Errorf("error retrieving faculties: %w", err)
	}

	longest, longestLen := "", -1
	for _, f := range faculties {
		if n := utf8.RuneCountInString(f.Name); n > longestLen {
			longest, longestLen = f.Name, n
		}
	}
	return longest, nil
}
