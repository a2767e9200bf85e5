// Package sqlxrepos holds the handwritten sqlx repositories backing the
// core services against postgres.
package sqlxrepos

import (
	"database/sql"

	"github.com/pkg/errors"
)

// trapNoRows maps psql "no rows" to the domain's not-found error.
func trapNoRows(err, notFound error, msg string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return notFound
	}
	return errors.Wrap(err, msg)
}
