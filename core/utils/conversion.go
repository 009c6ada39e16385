package utils

import (
	"database/sql"
	"fmt"
)

// ToString converts various types to string.
// Drivers return text columns as string or []byte depending on dialect.
func ToString(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case *string:
		if v == nil {
			return ""
		}
		return *v
	default:
		return fmt.Sprintf("%v", v)
	}
}

// ToNullString converts a scanned column value to sql.NullString, keeping
// NULL (nil) apart from the empty string.
func ToNullString(val any) sql.NullString {
	switch v := val.(type) {
	case nil:
		return sql.NullString{}
	case sql.NullString:
		return v
	case *string:
		if v == nil {
			return sql.NullString{}
		}
		return sql.NullString{String: *v, Valid: true}
	default:
		return sql.NullString{String: ToString(v), Valid: true}
	}
}

// NullStringValue returns the driver value for s: nil for NULL, the string
// otherwise (including "").
func NullStringValue(s sql.NullString) any {
	if !s.Valid {
		return nil
	}
	return s.String
}
