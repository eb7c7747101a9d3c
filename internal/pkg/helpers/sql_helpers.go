package helpers

import (
	"database/sql"
	"strings"
)

// NullInt64FromPtr converts an optional id into sql.NullInt64.
func NullInt64FromPtr(i *int64) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *i, Valid: true}
}

// PtrFromNullInt64 converts a scanned nullable column back into an optional id.
func PtrFromNullInt64(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern builds a LIKE/ILIKE pattern that matches term literally anywhere in the column.
func ContainsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

// PrefixPattern builds a LIKE/ILIKE pattern that matches columns starting with term.
func PrefixPattern(term string) string {
	return likeEscaper.Replace(term) + "%"
}
