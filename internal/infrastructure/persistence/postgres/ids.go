package postgres

import "github.com/google/uuid"

// validID reports whether id can match a UUID key column. Lookups by any
// other string resolve to nothing instead of a Postgres cast error.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
