package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/school/internal/app/models"
	"github.com/yigit/school/internal/db"
	"github.com/yigit/school/internal/pkg/apperrors"
	"github.com/yigit/school/internal/pkg/helpers"
	"github.com/yigit/school/internal/pkg/logger"
)

var facultyColumns = []string{"id", "name", "color"}

// PostgresFacultyRepository handles faculty database operations
type PostgresFacultyRepository struct {
	pg *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewFacultyRepository creates a new PostgresFacultyRepository
func NewFacultyRepository(database *db.PostgresDB) *PostgresFacultyRepository {
	return &PostgresFacultyRepository{
		pg: database,
		sb: statementBuilder(),
	}
}

func scanFaculty(row rowScanner) (*models.Faculty, error) {
	faculty := &models.Faculty{}
	if err := row.Scan(&faculty.ID, &faculty.Name, &faculty.Color); err != nil {
		return nil, err
	}
	return faculty, nil
}

// Save creates or updates a faculty
func (r *PostgresFacultyRepository) Save(ctx context.Context, faculty *models.Faculty) (*models.Faculty, error) {
	if faculty.ID == 0 {
		return r.create(ctx, faculty)
	}
	return r.update(ctx, faculty)
}

func (r *PostgresFacultyRepository) create(ctx context.Context, faculty *models.Faculty) (*models.Faculty, error) {
	sql, args, err := r.sb.Insert("faculties").
		Columns("name", "color").
		Values(faculty.Name, faculty.Color).
		Suffix("RETURNING id, name, color").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create faculty SQL")
		return nil, fmt.Errorf("failed to build create faculty query: %w", err)
	}

	saved, err := scanFaculty(r.pg.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		logger.Error().Err(err).Msg("Error executing create faculty query")
		return nil, fmt.Errorf("error creating faculty: %w", err)
	}
	return saved, nil
}

func (r *PostgresFacultyRepository) update(ctx context.Context, faculty *models.Faculty) (*models.Faculty, error) {
	sql, args, err := r.sb.Update("faculties").
		SetMap(map[string]any{
			"name":  faculty.Name,
			"color": faculty.Color,
		}).
		Where(squirrel.Eq{"id": faculty.ID}).
		Suffix("RETURNING id, name, color").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update faculty SQL")
		return nil, fmt.Errorf("failed to build update faculty query: %w", err)
	}

	saved, err := scanFaculty(r.pg.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrFacultyNotFound
		}
		logger.Error().Err(err).Int64("facultyID", faculty.ID).Msg("Error executing update faculty query")
		return nil, fmt.Errorf("error updating faculty: %w", err)
	}
	return saved, nil
}

// FindByID retrieves a faculty by ID
func (r *PostgresFacultyRepository) FindByID(ctx context.Context, id int64) (*models.Faculty, error) {
	sql, args, err := r.sb.Select(facultyColumns...).
		From("faculties").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get faculty by ID SQL")
		return nil, fmt.Errorf("failed to build get faculty query: %w", err)
	}

	faculty, err := scanFaculty(r.pg.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrFacultyNotFound
		}
		logger.Error().Err(err).Int64("facultyID", id).Msg("Error scanning faculty row")
		return nil, fmt.Errorf("error getting faculty by ID: %w", err)
	}
	return faculty, nil
}

// FindAll retrieves all faculties ordered by id
func (r *PostgresFacultyRepository) FindAll(ctx context.Context) ([]*models.Faculty, error) {
	return r.query(ctx, r.sb.Select(facultyColumns...).From("faculties").OrderBy("id ASC"))
}

// FindPage retrieves one page of faculties and the total count
func (r *PostgresFacultyRepository) FindPage(ctx context.Context, page, size int) ([]*models.Faculty, int64, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	total, err := countRows(ctx, r.pg, r.sb.Select("COUNT(*)").From("faculties"))
	if err != nil {
		return nil, 0, fmt.Errorf("error counting faculties: %w", err)
	}

	faculties, err := r.query(ctx, r.sb.Select(facultyColumns...).
		From("faculties").
		OrderBy("id ASC").
		Limit(limit).
		Offset(offset))
	if err != nil {
		return nil, 0, err
	}
	return faculties, total, nil
}

// ExistsByID checks whether a faculty with the given id exists
func (r *PostgresFacultyRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	return existsByID(ctx, r.pg, r.sb, "faculties", id)
}

// DeleteByID detaches the faculty's students and deletes the faculty in one transaction
func (r *PostgresFacultyRepository) DeleteByID(ctx context.Context, id int64) error {
	detachSQL, detachArgs, err := r.sb.Update("students").
		Set("faculty_id", nil).
		Where(squirrel.Eq{"faculty_id": id}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building detach students SQL")
		return fmt.Errorf("failed to build detach students query: %w", err)
	}

	deleteSQL, deleteArgs, err := r.sb.Delete("faculties").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete faculty SQL")
		return fmt.Errorf("failed to build delete faculty query: %w", err)
	}

	return r.pg.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, detachSQL, detachArgs...)
		if err != nil {
			logger.Error().Err(err).Int64("facultyID", id).Msg("Error detaching students from faculty")
			return fmt.Errorf("error detaching students: %w", err)
		}
		if tag.RowsAffected() > 0 {
			logger.Debug().Int64("facultyID", id).Int64("students", tag.RowsAffected()).Msg("Students detached from deleted faculty")
		}

		if _, err := tx.Exec(ctx, deleteSQL, deleteArgs...); err != nil {
			logger.Error().Err(err).Int64("facultyID", id).Msg("Error executing delete faculty query")
			return fmt.Errorf("error deleting faculty: %w", err)
		}
		return nil
	})
}

// FindByColor returns faculties whose color equals color, ignoring case
func (r *PostgresFacultyRepository) FindByColor(ctx context.Context, color string) ([]*models.Faculty, error) {
	return r.query(ctx, r.sb.Select(facultyColumns...).
		From("faculties").
		Where("LOWER(color) = LOWER(?)", color).
		OrderBy("id ASC"))
}

// SearchByNameOrColor returns faculties whose name or color contains term, ignoring case
func (r *PostgresFacultyRepository) SearchByNameOrColor(ctx context.Context, term string) ([]*models.Faculty, error) {
	pattern := helpers.ContainsPattern(term)
	return r.query(ctx, r.sb.Select(facultyColumns...).
		From("faculties").
		Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"color": pattern},
		}).
		OrderBy("id ASC"))
}

func (r *PostgresFacultyRepository) query(ctx context.Context, builder squirrel.SelectBuilder) ([]*models.Faculty, error) {
	sql, args, err := builder.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building faculty select SQL")
		return nil, fmt.Errorf("failed to build faculty query: %w", err)
	}

	rows, err := r.pg.Pool.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing faculty select query")
		return nil, fmt.Errorf("error querying faculties: %w", err)
	}
	defer rows.Close()

	faculties := []*models.Faculty{}
	for rows.Next() {
		faculty, err := scanFaculty(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning faculty row")
			return nil, fmt.Errorf("error scanning faculty row: %w", err)
		}
		faculties = append(faculties, faculty)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating faculty rows")
		return nil, fmt.Errorf("error iterating faculty rows: %w", err)
	}

	return faculties, nil
}

// existsByID runs SELECT EXISTS (SELECT 1 FROM table WHERE id = $1)
func existsByID(ctx context.Context, pg *db.PostgresDB, sb squirrel.StatementBuilderType, table string, id int64) (bool, error) {
	sql, args, err := sb.Select("1").
		From(table).
		Where(squirrel.Eq{"id": id}).
		Prefix("SELECT EXISTS (").Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build %s existence query: %w", table, err)
	}

	var exists bool
	if err := pg.Pool.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		logger.Error().Err(err).Str("table", table).Int64("id", id).Msg("Error checking row existence")
		return false, fmt.Errorf("error checking %s existence: %w", table, err)
	}
	return exists, nil
}

// countRows scans the single COUNT(*) column produced by builder
func countRows(ctx context.Context, pg *db.PostgresDB, builder squirrel.SelectBuilder) (int64, error) {
	sql, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var total int64
	if err := pg.Pool.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		logger.Error().Err(err).Msg("Error executing count query")
		return 0, err
	}
	return total, nil
}
