package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/yigit/school/internal/app/models"
	"github.com/yigit/school/internal/app/repositories"
	"github.com/yigit/school/internal/pkg/apperrors"
	"github.com/yigit/school/internal/pkg/filestorage"
	"github.com/yigit/school/internal/pkg/logger"
	"github.com/yigit/school/internal/pkg/validation"
)

// LastStudentsLimit is the number of students returned by the last-five endpoint
const LastStudentsLimit = 5

// StudentService defines the interface for student-related operations
type StudentService interface {
	CreateStudent(ctx context.Context, name string, age int) (*models.Student, error)
	GetStudentByID(ctx context.Context, id int64) (*models.Student, error)
	GetAllStudents(ctx context.Context) ([]*models.Student, error)
	// UpdateStudent reports false when the student does not exist
	UpdateStudent(ctx context.Context, id int64, name string, age int) (bool, error)
	// DeleteStudent reports false when the student does not exist
	DeleteStudent(ctx context.Context, id int64) (bool, error)

	GetStudentsByAge(ctx context.Context, age int) ([]*models.Student, error)
	GetStudentsByAgeRange(ctx context.Context, minAge, maxAge int) ([]*models.Student, error)

	AssignFaculty(ctx context.Context, studentID, facultyID int64) (*models.Student, error)
	GetFacultyOfStudent(ctx context.Context, studentID int64) (*models.Faculty, error)

	CountStudents(ctx context.Context) (int64, error)
	GetAverageAge(ctx context.Context) (float64, error)
	GetLastStudents(ctx context.Context, n int) ([]*models.Student, error)
	GetNamesStartingWith(ctx context.Context, letter string) ([]string, error)

	PrintParallel(ctx context.Context) error
	PrintSynchronized(ctx context.Context) error
}

// studentServiceImpl implements the StudentService interface
type studentServiceImpl struct {
	studentRepo repositories.StudentRepository
	facultyRepo repositories.FacultyRepository
	storage     filestorage.AvatarStorage

	out     io.Writer
	printMu sync.Mutex
}

// NewStudentService creates a new student service instance. out receives the print demo output,
// os.Stdout when nil.
func NewStudentService(studentRepo repositories.StudentRepository, facultyRepo repositories.FacultyRepository, storage filestorage.AvatarStorage, out io.Writer) StudentService {
	if out == nil {
		out = os.Stdout
	}
	return &studentServiceImpl{
		studentRepo: studentRepo,
		facultyRepo: facultyRepo,
		storage:     storage,
		out:         out,
	}
}

func validateStudent(name string, age int) error {
	if !validation.NotBlank(name) {
		return fmt.Errorf("%w: name cannot be empty", apperrors.ErrValidationFailed)
	}
	if utf8.RuneCountInString(name) > validation.NameMaxLength {
		return fmt.Errorf("%w: name is longer than %d characters", apperrors.ErrValidationFailed, validation.NameMaxLength)
	}
	if age < 0 || age > validation.MaxAge {
		return fmt.Errorf("%w: age must be between 0 and %d", apperrors.ErrValidationFailed, validation.MaxAge)
	}
	return nil
}

// CreateStudent creates a new, unassigned student
func (s *studentServiceImpl) CreateStudent(ctx context.Context, name string, age int) (*models.Student, error) {
	logger.Info().Msg("Was invoked method for create student")

	if err := validateStudent(name, age); err != nil {
		return nil, err
	}

	student, err := s.studentRepo.Save(ctx, &models.Student{Name: name, Age: age})
	if err != nil {
		return nil, fmt.Errorf("error creating student: %w", err)
	}
	logger.Debug().Int64("studentID", student.ID).Msg("Student created")
	return student, nil
}

// GetStudentByID retrieves a student by ID
func (s *studentServiceImpl) GetStudentByID(ctx context.Context, id int64) (*models.Student, error) {
	logger.Info().Int64("studentID", id).Msg("Was invoked method for get student")

	student, err := s.studentRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrStudentNotFound) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}
	return student, nil
}

// GetAllStudents retrieves all students
func (s *studentServiceImpl) GetAllStudents(ctx context.Context) ([]*models.Student, error) {
	logger.Info().Msg("Was invoked method for get all students")

	students, err := s.studentRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving students: %w", err)
	}
	return students, nil
}

// UpdateStudent overwrites name and age; the faculty assignment is kept
func (s *studentServiceImpl) UpdateStudent(ctx context.Context, id int64, name string, age int) (bool, error) {
	logger.Info().Int64("studentID", id).Msg("Was invoked method for update student")

	if err := validateStudent(name, age); err != nil {
		return false, err
	}

	student, err := s.studentRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrStudentNotFound) {
			logger.Warn().Int64("studentID", id).Msg("Student to update not found")
			return false, nil
		}
		return false, fmt.Errorf("error retrieving student: %w", err)
	}

	student.Name = name
	student.Age = age
	if _, err := s.studentRepo.Save(ctx, student); err != nil {
		if errors.Is(err, apperrors.ErrStudentNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("error updating student: %w", err)
	}
	return true, nil
}

// DeleteStudent deletes a student together with its avatar record and avatar file
func (s *studentServiceImpl) DeleteStudent(ctx context.Context, id int64) (bool, error) {
	logger.Info().Int64("studentID", id).Msg("Was invoked method for delete student")

	unlock := s.storage.Lock(id)
	defer unlock()

	exists, err := s.studentRepo.ExistsByID(ctx, id)
	if err != nil {
		return false, fmt.Errorf("error checking student: %w", err)
	}
	if !exists {
		logger.Warn().Int64("studentID", id).Msg("Student to delete not found")
		return false, nil
	}

	if err := s.studentRepo.DeleteByID(ctx, id); err != nil {
		return false, fmt.Errorf("error deleting student: %w", err)
	}
	if err := s.storage.Remove(id); err != nil {
		logger.Error().Err(err).Int64("studentID", id).Msg("Failed to remove avatar file of deleted student")
	}
	return true, nil
}

// GetStudentsByAge returns students of exactly the given age
func (s *studentServiceImpl) GetStudentsByAge(ctx context.Context, age int) ([]*models.Student, error) {
	logger.Info().Int("age", age).Msg("Was invoked method for get students by age")

	students, err := s.studentRepo.FindByAge(ctx, age)
	if err != nil {
		return nil, fmt.Errorf("error retrieving students by age: %w", err)
	}
	return students, nil
}

// GetStudentsByAgeRange returns students with minAge <= age <= maxAge
func (s *studentServiceImpl) GetStudentsByAgeRange(ctx context.Context, minAge, maxAge int) ([]*models.Student, error) {
	logger.Info().Int("min", minAge).Int("max", maxAge).Msg("Was invoked method for get students by age range")

	if minAge > maxAge {
		return nil, apperrors.NewValidationError(fmt.Sprintf("min age %d is greater than max age %d", minAge, maxAge))
	}

	students, err := s.studentRepo.FindByAgeBetween(ctx, minAge, maxAge)
	if err != nil {
		return nil, fmt.Errorf("error retrieving students by age range: %w", err)
	}
	return students, nil
}

// AssignFaculty sets the student's faculty. The student is checked first, then the faculty;
// nothing is written unless both exist.
func (s *studentServiceImpl) AssignFaculty(ctx context.Context, studentID, facultyID int64) (*models.Student, error) {
	logger.Info().Int64("studentID", studentID).Int64("facultyID", facultyID).Msg("Was invoked method for assign faculty")

	student, err := s.studentRepo.FindByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrStudentNotFound) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}

	exists, err := s.facultyRepo.ExistsByID(ctx, facultyID)
	if err != nil {
		return nil, fmt.Errorf("error checking faculty: %w", err)
	}
	if !exists {
		return nil, apperrors.ErrFacultyNotFound
	}

	student.FacultyID = &facultyID
	saved, err := s.studentRepo.Save(ctx, student)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrStudentNotFound, apperrors.ErrFacultyNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error assigning faculty: %w", err)
	}
	return saved, nil
}

// GetFacultyOfStudent returns the student's faculty. A missing student and an unassigned student
// are both reported as ErrFacultyNotFound.
func (s *studentServiceImpl) GetFacultyOfStudent(ctx context.Context, studentID int64) (*models.Faculty, error) {
	logger.Info().Int64("studentID", studentID).Msg("Was invoked method for get faculty of student")

	faculty, err := s.studentRepo.FindFacultyByStudentID(ctx, studentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrFacultyNotFound) {
			return nil, fmt.Errorf("no faculty for student %d: %w", studentID, apperrors.ErrFacultyNotFound)
		}
		return nil, fmt.Errorf("error retrieving faculty of student: %w", err)
	}
	return faculty, nil
}

// CountStudents returns the number of students
func (s *studentServiceImpl) CountStudents(ctx context.Context) (int64, error) {
	logger.Info().Msg("Was invoked method for count students")

	count, err := s.studentRepo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("error counting students: %w", err)
	}
	return count, nil
}

// GetAverageAge returns the mean student age, 0 when there are no students
func (s *studentServiceImpl) GetAverageAge(ctx context.Context) (float64, error) {
	logger.Info().Msg("Was invoked method for get average age")

	avg, err := s.studentRepo.AverageAge(ctx)
	if err != nil {
		return 0, fmt.Errorf("error computing average age: %w", err)
	}
	return avg, nil
}

// GetLastStudents returns the n most recently created students, newest first
func (s *studentServiceImpl) GetLastStudents(ctx context.Context, n int) ([]*models.Student, error) {
	logger.Info().Int("n", n).Msg("Was invoked method for get last students")

	students, err := s.studentRepo.FindLastN(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("error retrieving last students: %w", err)
	}
	return students, nil
}

// GetNamesStartingWith returns upper-cased names starting with letter, ignoring case, sorted
func (s *studentServiceImpl) GetNamesStartingWith(ctx context.Context, letter string) ([]string, error) {
	logger.Info().Str("letter", letter).Msg("Was invoked method for get names starting with letter")

	names, err := s.studentRepo.FindNamesStartingWith(ctx, letter)
	if err != nil {
		return nil, fmt.Errorf("error retrieving student names: %w", err)
	}

	result := make([]string, 0, len(names))
	for _, name := range names {
		result = append(result, strings.ToUpper(name))
	}
	// byte order, the same for every store
	slices.Sort(result)
	return result, nil
}

// PrintParallel prints the first two student names on the caller and starts two goroutines printing
// the next two pairs. The goroutines are not awaited.
func (s *studentServiceImpl) PrintParallel(ctx context.Context) error {
	logger.Info().Msg("Was invoked method for print parallel")

	names, err := s.studentNames(ctx)
	if err != nil {
		return err
	}

	s.printNames(names, 0, 1)
	go s.printNames(names, 2, 3)
	go s.printNames(names, 4, 5)
	return nil
}

// PrintSynchronized is PrintParallel with every pair printed under printMu, so the two names of one
// task are never separated by another task's output.
func (s *studentServiceImpl) PrintSynchronized(ctx context.Context) error {
	logger.Info().Msg("Was invoked method for print synchronized")

	names, err := s.studentNames(ctx)
	if err != nil {
		return err
	}

	s.printNamesSynchronized(names, 0, 1)
	go s.printNamesSynchronized(names, 2, 3)
	go s.printNamesSynchronized(names, 4, 5)
	return nil
}

func (s *studentServiceImpl) studentNames(ctx context.Context) ([]string, error) {
	students, err := s.studentRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving students: %w", err)
	}
	names := make([]string, len(students))
	for i, st := range students {
		names[i] = st.Name
	}
	return names, nil
}

// printNames writes names[i] for each index that exists
func (s *studentServiceImpl) printNames(names []string, indices ...int) {
	for _, i := range indices {
		if i < len(names) {
			fmt.Fprintln(s.out, names[i])
		}
	}
}

func (s *studentServiceImpl) printNamesSynchronized(names []string, indices ...int) {
	s.printMu.Lock()
	defer s.printMu.Unlock()
	s.printNames(names, indices...)
}
