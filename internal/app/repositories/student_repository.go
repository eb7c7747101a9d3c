package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/school/internal/app/models"
	"github.com/yigit/school/internal/db"
	"github.com/yigit/school/internal/pkg/apperrors"
	"github.com/yigit/school/internal/pkg/dberrors"
	"github.com/yigit/school/internal/pkg/helpers"
	"github.com/yigit/school/internal/pkg/logger"
)

var studentColumns = []string{"id", "name", "age", "faculty_id"}

// PostgresStudentRepository handles student database operations
type PostgresStudentRepository struct {
	pg *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new PostgresStudentRepository
func NewStudentRepository(database *db.PostgresDB) *PostgresStudentRepository {
	return &PostgresStudentRepository{
		pg: database,
		sb: statementBuilder(),
	}
}

func scanStudent(row rowScanner) (*models.Student, error) {
	var (
		student   models.Student
		facultyID sql.NullInt64
	)
	if err := row.Scan(&student.ID, &student.Name, &student.Age, &facultyID); err != nil {
		return nil, err
	}
	student.FacultyID = helpers.PtrFromNullInt64(facultyID)
	return &student, nil
}

// Save creates or updates a student
func (r *PostgresStudentRepository) Save(ctx context.Context, student *models.Student) (*models.Student, error) {
	var builder squirrel.Sqlizer

	if student.ID == 0 {
		builder = r.sb.Insert("students").
			Columns("name", "age", "faculty_id").
			Values(student.Name, student.Age, helpers.NullInt64FromPtr(student.FacultyID)).
			Suffix("RETURNING id, name, age, faculty_id")
	} else {
		builder = r.sb.Update("students").
			SetMap(map[string]any{
				"name":       student.Name,
				"age":        student.Age,
				"faculty_id": helpers.NullInt64FromPtr(student.FacultyID),
			}).
			Where(squirrel.Eq{"id": student.ID}).
			Suffix("RETURNING id, name, age, faculty_id")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building save student SQL")
		return nil, fmt.Errorf("failed to build save student query: %w", err)
	}

	saved, err := scanStudent(r.pg.Pool.QueryRow(ctx, query, args...))
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return nil, apperrors.ErrStudentNotFound
		case dberrors.IsForeignKeyViolation(err, "students_faculty_id_fkey"):
			return nil, apperrors.ErrFacultyNotFound
		}
		logger.Error().Err(err).Int64("studentID", student.ID).Msg("Error executing save student query")
		return nil, fmt.Errorf("error saving student: %w", err)
	}
	return saved, nil
}

// FindByID retrieves a student by ID
func (r *PostgresStudentRepository) FindByID(ctx context.Context, id int64) (*models.Student, error) {
	query, args, err := r.sb.Select(studentColumns...).
		From("students").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get student by ID SQL")
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	student, err := scanStudent(r.pg.Pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		logger.Error().Err(err).Int64("studentID", id).Msg("Error scanning student row")
		return nil, fmt.Errorf("error getting student by ID: %w", err)
	}
	return student, nil
}

// FindAll retrieves all students ordered by id
func (r *PostgresStudentRepository) FindAll(ctx context.Context) ([]*models.Student, error) {
	return r.query(ctx, r.selectStudents().OrderBy("id ASC"))
}

// FindPage retrieves one page of students and the total count
func (r *PostgresStudentRepository) FindPage(ctx context.Context, page, size int) ([]*models.Student, int64, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	total, err := r.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	students, err := r.query(ctx, r.selectStudents().OrderBy("id ASC").Limit(limit).Offset(offset))
	if err != nil {
		return nil, 0, err
	}
	return students, total, nil
}

// ExistsByID checks whether a student with the given id exists
func (r *PostgresStudentRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	return existsByID(ctx, r.pg, r.sb, "students", id)
}

// DeleteByID deletes a student; the avatar row goes with it through ON DELETE CASCADE
func (r *PostgresStudentRepository) DeleteByID(ctx context.Context, id int64) error {
	query, args, err := r.sb.Delete("students").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete student SQL")
		return fmt.Errorf("failed to build delete student query: %w", err)
	}

	if _, err := r.pg.Pool.Exec(ctx, query, args...); err != nil {
		logger.Error().Err(err).Int64("studentID", id).Msg("Error executing delete student query")
		return fmt.Errorf("error deleting student: %w", err)
	}
	return nil
}

// FindByAge returns students with exactly the given age
func (r *PostgresStudentRepository) FindByAge(ctx context.Context, age int) ([]*models.Student, error) {
	return r.query(ctx, r.selectStudents().Where(squirrel.Eq{"age": age}).OrderBy("id ASC"))
}

// FindByAgeBetween returns students with minAge <= age <= maxAge
func (r *PostgresStudentRepository) FindByAgeBetween(ctx context.Context, minAge, maxAge int) ([]*models.Student, error) {
	return r.query(ctx, r.selectStudents().
		Where(squirrel.GtOrEq{"age": minAge}).
		Where(squirrel.LtOrEq{"age": maxAge}).
		OrderBy("id ASC"))
}

// FindByFacultyID returns the students assigned to a faculty
func (r *PostgresStudentRepository) FindByFacultyID(ctx context.Context, facultyID int64) ([]*models.Student, error) {
	return r.query(ctx, r.selectStudents().Where(squirrel.Eq{"faculty_id": facultyID}).OrderBy("id ASC"))
}

// FindFacultyByStudentID joins the student's faculty
func (r *PostgresStudentRepository) FindFacultyByStudentID(ctx context.Context, studentID int64) (*models.Faculty, error) {
	query, args, err := r.sb.Select("f.id", "f.name", "f.color").
		From("students s").
		Join("faculties f ON f.id = s.faculty_id").
		Where(squirrel.Eq{"s.id": studentID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building student faculty SQL")
		return nil, fmt.Errorf("failed to build student faculty query: %w", err)
	}

	faculty, err := scanFaculty(r.pg.Pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrFacultyNotFound
		}
		logger.Error().Err(err).Int64("studentID", studentID).Msg("Error scanning student faculty row")
		return nil, fmt.Errorf("error getting student faculty: %w", err)
	}
	return faculty, nil
}

// FindNamesStartingWith returns names starting with prefix, ignoring case, in byte order
func (r *PostgresStudentRepository) FindNamesStartingWith(ctx context.Context, prefix string) ([]string, error) {
	query, args, err := r.sb.Select("name").
		From("students").
		Where(squirrel.ILike{"name": helpers.PrefixPattern(prefix)}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build student names query: %w", err)
	}

	rows, err := r.pg.Pool.Query(ctx, query, args...)
	if err != nil {
		logger.Error().Err(err).Str("prefix", prefix).Msg("Error executing student names query")
		return nil, fmt.Errorf("error querying student names: %w", err)
	}

	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("error collecting student names: %w", err)
	}
	slices.Sort(names)
	return names, nil
}

// Count returns the number of students
func (r *PostgresStudentRepository) Count(ctx context.Context) (int64, error) {
	total, err := countRows(ctx, r.pg, r.sb.Select("COUNT(*)").From("students"))
	if err != nil {
		return 0, fmt.Errorf("error counting students: %w", err)
	}
	return total, nil
}

// AverageAge returns the mean age, 0 for an empty table
func (r *PostgresStudentRepository) AverageAge(ctx context.Context) (float64, error) {
	query, args, err := r.sb.Select("COALESCE(AVG(age), 0)::float8").From("students").ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build average age query: %w", err)
	}

	var avg float64
	if err := r.pg.Pool.QueryRow(ctx, query, args...).Scan(&avg); err != nil {
		logger.Error().Err(err).Msg("Error executing average age query")
		return 0, fmt.Errorf("error computing average age: %w", err)
	}
	return avg, nil
}

// FindLastN returns the n most recently created students
func (r *PostgresStudentRepository) FindLastN(ctx context.Context, n int) ([]*models.Student, error) {
	if n <= 0 {
		return []*models.Student{}, nil
	}
	return r.query(ctx, r.selectStudents().OrderBy("id DESC").Limit(uint64(n)))
}

func (r *PostgresStudentRepository) selectStudents() squirrel.SelectBuilder {
	return r.sb.Select(studentColumns...).From("students")
}

func (r *PostgresStudentRepository) query(ctx context.Context, builder squirrel.SelectBuilder) ([]*models.Student, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building student select SQL")
		return nil, fmt.Errorf("failed to build student query: %w", err)
	}

	rows, err := r.pg.Pool.Query(ctx, query, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing student select query")
		return nil, fmt.Errorf("error querying students: %w", err)
	}
	defer rows.Close()

	students := []*models.Student{}
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning student row")
			return nil, fmt.Errorf("error scanning student row: %w", err)
		}
		students = append(students, student)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating student rows")
		return nil, fmt.Errorf("error iterating student rows: %w", err)
	}

	return students, nil
}
