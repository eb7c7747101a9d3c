package dberrors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL SQLSTATE codes the repositories care about
const (
	codeForeignKeyViolation = "23503"
	codeUniqueViolation     = "23505"
)

// IsForeignKeyViolation reports whether err is a foreign_key_violation on the given constraint.
// An empty constraintName matches any constraint.
func IsForeignKeyViolation(err error, constraintName string) bool {
	return hasCode(err, codeForeignKeyViolation, constraintName)
}

// IsDuplicateConstraintError reports whether err is a unique_violation on the given constraint.
func IsDuplicateConstraintError(err error, constraintName string) bool {
	return hasCode(err, codeUniqueViolation, constraintName)
}

func hasCode(err error, code, constraintName string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != code {
		return false
	}
	return constraintName == "" || pgErr.ConstraintName == constraintName
}
