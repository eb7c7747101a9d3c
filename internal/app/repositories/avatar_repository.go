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
	"github.com/yigit/school/internal/pkg/dberrors"
	"github.com/yigit/school/internal/pkg/helpers"
	"github.com/yigit/school/internal/pkg/logger"
)

var avatarColumns = []string{"id", "student_id", "file_path", "file_size", "media_type", "data"}

const avatarUpsertSuffix = `ON CONFLICT (student_id) DO UPDATE SET
	file_path = EXCLUDED.file_path,
	file_size = EXCLUDED.file_size,
	media_type = EXCLUDED.media_type,
	data = EXCLUDED.data
RETURNING id, student_id, file_path, file_size, media_type, data`

// PostgresAvatarRepository handles avatar database operations
type PostgresAvatarRepository struct {
	pg *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewAvatarRepository creates a new PostgresAvatarRepository
func NewAvatarRepository(database *db.PostgresDB) *PostgresAvatarRepository {
	return &PostgresAvatarRepository{
		pg: database,
		sb: statementBuilder(),
	}
}

func scanAvatar(row rowScanner) (*models.Avatar, error) {
	avatar := &models.Avatar{}
	err := row.Scan(
		&avatar.ID,
		&avatar.StudentID,
		&avatar.FilePath,
		&avatar.FileSize,
		&avatar.MediaType,
		&avatar.Data,
	)
	if err != nil {
		return nil, err
	}
	return avatar, nil
}

// Save upserts the avatar of avatar.StudentID
func (r *PostgresAvatarRepository) Save(ctx context.Context, avatar *models.Avatar) (*models.Avatar, error) {
	query, args, err := r.sb.Insert("avatars").
		Columns("student_id", "file_path", "file_size", "media_type", "data").
		Values(avatar.StudentID, avatar.FilePath, avatar.FileSize, avatar.MediaType, avatar.Data).
		Suffix(avatarUpsertSuffix).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building save avatar SQL")
		return nil, fmt.Errorf("failed to build save avatar query: %w", err)
	}

	saved, err := scanAvatar(r.pg.Pool.QueryRow(ctx, query, args...))
	if err != nil {
		if dberrors.IsForeignKeyViolation(err, "avatars_student_id_fkey") {
			return nil, apperrors.ErrStudentNotFound
		}
		logger.Error().Err(err).Int64("studentID", avatar.StudentID).Msg("Error executing save avatar query")
		return nil, fmt.Errorf("error saving avatar: %w", err)
	}
	return saved, nil
}

// FindByID retrieves an avatar by ID
func (r *PostgresAvatarRepository) FindByID(ctx context.Context, id int64) (*models.Avatar, error) {
	return r.findOne(ctx, squirrel.Eq{"id": id})
}

// FindByStudentID retrieves the avatar owned by a student
func (r *PostgresAvatarRepository) FindByStudentID(ctx context.Context, studentID int64) (*models.Avatar, error) {
	return r.findOne(ctx, squirrel.Eq{"student_id": studentID})
}

func (r *PostgresAvatarRepository) findOne(ctx context.Context, where squirrel.Eq) (*models.Avatar, error) {
	query, args, err := r.sb.Select(avatarColumns...).
		From("avatars").
		Where(where).
		OrderBy("id ASC").
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get avatar SQL")
		return nil, fmt.Errorf("failed to build get avatar query: %w", err)
	}

	avatar, err := scanAvatar(r.pg.Pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAvatarNotFound
		}
		logger.Error().Err(err).Interface("where", where).Msg("Error scanning avatar row")
		return nil, fmt.Errorf("error getting avatar: %w", err)
	}
	return avatar, nil
}

// FindAll retrieves all avatars ordered by id
func (r *PostgresAvatarRepository) FindAll(ctx context.Context) ([]*models.Avatar, error) {
	return r.query(ctx, r.sb.Select(avatarColumns...).From("avatars").OrderBy("id ASC"))
}

// FindPage retrieves one page of avatars and the total count
func (r *PostgresAvatarRepository) FindPage(ctx context.Context, page, size int) ([]*models.Avatar, int64, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	total, err := countRows(ctx, r.pg, r.sb.Select("COUNT(*)").From("avatars"))
	if err != nil {
		return nil, 0, fmt.Errorf("error counting avatars: %w", err)
	}

	avatars, err := r.query(ctx, r.sb.Select(avatarColumns...).
		From("avatars").
		OrderBy("id ASC").
		Limit(limit).
		Offset(offset))
	if err != nil {
		return nil, 0, err
	}
	return avatars, total, nil
}

// ExistsByID checks whether an avatar with the given id exists
func (r *PostgresAvatarRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	return existsByID(ctx, r.pg, r.sb, "avatars", id)
}

// DeleteByID deletes an avatar record; the file on disk is left to the caller
func (r *PostgresAvatarRepository) DeleteByID(ctx context.Context, id int64) error {
	query, args, err := r.sb.Delete("avatars").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete avatar query: %w", err)
	}

	if _, err := r.pg.Pool.Exec(ctx, query, args...); err != nil {
		logger.Error().Err(err).Int64("avatarID", id).Msg("Error executing delete avatar query")
		return fmt.Errorf("error deleting avatar: %w", err)
	}
	return nil
}

func (r *PostgresAvatarRepository) query(ctx context.Context, builder squirrel.SelectBuilder) ([]*models.Avatar, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build avatar query: %w", err)
	}

	rows, err := r.pg.Pool.Query(ctx, query, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing avatar select query")
		return nil, fmt.Errorf("error querying avatars: %w", err)
	}
	defer rows.Close()

	avatars := []*models.Avatar{}
	for rows.Next() {
		avatar, err := scanAvatar(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning avatar row: %w", err)
		}
		avatars = append(avatars, avatar)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating avatar rows: %w", err)
	}
	return avatars, nil
}
