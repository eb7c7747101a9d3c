package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/school/internal/app/models"
	"github.com/yigit/school/internal/db"
)

// FacultyRepository persists faculties.
type FacultyRepository interface {
	// Save inserts the faculty when ID is zero, otherwise overwrites name and color.
	Save(ctx context.Context, faculty *models.Faculty) (*models.Faculty, error)
	FindByID(ctx context.Context, id int64) (*models.Faculty, error)
	FindAll(ctx context.Context) ([]*models.Faculty, error)
	FindPage(ctx context.Context, page, size int) ([]*models.Faculty, int64, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	// DeleteByID removes the faculty and detaches its students. Deleting a missing id is a no-op.
	DeleteByID(ctx context.Context, id int64) error
	FindByColor(ctx context.Context, color string) ([]*models.Faculty, error)
	SearchByNameOrColor(ctx context.Context, term string) ([]*models.Faculty, error)
}

// StudentRepository persists students.
type StudentRepository interface {
	// Save inserts the student when ID is zero, otherwise overwrites name, age and faculty.
	Save(ctx context.Context, student *models.Student) (*models.Student, error)
	FindByID(ctx context.Context, id int64) (*models.Student, error)
	FindAll(ctx context.Context) ([]*models.Student, error)
	FindPage(ctx context.Context, page, size int) ([]*models.Student, int64, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	DeleteByID(ctx context.Context, id int64) error

	FindByAge(ctx context.Context, age int) ([]*models.Student, error)
	FindByAgeBetween(ctx context.Context, minAge, maxAge int) ([]*models.Student, error)
	FindByFacultyID(ctx context.Context, facultyID int64) ([]*models.Student, error)
	// FindFacultyByStudentID returns ErrFacultyNotFound when the student is missing or unassigned.
	FindFacultyByStudentID(ctx context.Context, studentID int64) (*models.Faculty, error)
	FindNamesStartingWith(ctx context.Context, prefix string) ([]string, error)

	Count(ctx context.Context) (int64, error)
	// AverageAge returns 0 when there are no students.
	AverageAge(ctx context.Context) (float64, error)
	// FindLastN returns up to n students, newest (highest id) first.
	FindLastN(ctx context.Context, n int) ([]*models.Student, error)
}

// AvatarRepository persists avatar records, at most one per student.
type AvatarRepository interface {
	// Save upserts by student: a second avatar for the same student replaces the first and keeps its id.
	Save(ctx context.Context, avatar *models.Avatar) (*models.Avatar, error)
	FindByID(ctx context.Context, id int64) (*models.Avatar, error)
	FindByStudentID(ctx context.Context, studentID int64) (*models.Avatar, error)
	FindAll(ctx context.Context) ([]*models.Avatar, error)
	FindPage(ctx context.Context, page, size int) ([]*models.Avatar, int64, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	DeleteByID(ctx context.Context, id int64) error
}

// Repositories holds all the repository instances
type Repositories struct {
	FacultyRepository FacultyRepository
	StudentRepository StudentRepository
	AvatarRepository  AvatarRepository
}

// NewRepositories initializes the Postgres-backed repositories
func NewRepositories(database *db.PostgresDB) *Repositories {
	return &Repositories{
		FacultyRepository: NewFacultyRepository(database),
		StudentRepository: NewStudentRepository(database),
		AvatarRepository:  NewAvatarRepository(database),
	}
}

// NewMemoryRepositories initializes repositories that share one in-memory arena
func NewMemoryRepositories() *Repositories {
	store := NewMemoryStore()
	return &Repositories{
		FacultyRepository: store.Faculties(),
		StudentRepository: store.Students(),
		AvatarRepository:  store.Avatars(),
	}
}

// statementBuilder is the squirrel builder shared by the Postgres repositories
func statementBuilder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// rowScanner is satisfied by both pgx.Row and pgx.Rows
type rowScanner interface {
	Scan(dest ...any) error
}
