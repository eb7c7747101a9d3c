package dberrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestConstraintErrors(t *testing.T) {
	fk := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23503", ConstraintName: "students_faculty_id_fkey"})
	unique := &pgconn.PgError{Code: "23505", ConstraintName: "avatars_student_id_key"}

	if !IsForeignKeyViolation(fk, "students_faculty_id_fkey") {
		t.Error("wrapped foreign key violation not detected")
	}
	if !IsForeignKeyViolation(fk, "") {
		t.Error("empty constraint name must match any constraint")
	}
	if IsForeignKeyViolation(fk, "avatars_student_id_fkey") {
		t.Error("matched the wrong constraint")
	}
	if IsForeignKeyViolation(unique, "") {
		t.Error("unique violation reported as foreign key violation")
	}
	if !IsDuplicateConstraintError(unique, "avatars_student_id_key") {
		t.Error("unique violation not detected")
	}
	if IsDuplicateConstraintError(errors.New("boom"), "") {
		t.Error("plain error reported as constraint violation")
	}
}
