package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sakif/memories/internal/apperror"
)

// requireAffected turns "the WHERE clause matched nothing" into NotFound.
// Cheaper than SELECT-then-UPDATE: one round trip instead of two.
func requireAffected(result sql.Result, resource, id string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlstore: checking rows affected: %w", err)
	}
	if n == 0 {
		return apperror.NotFound(resource, id)
	}
	return nil
}

// deleteRow removes one row by primary key. table is always a constant from
// this package, never user input.
func (db *DB) deleteRow(ctx context.Context, table, resource, id string) error {
	result, err := db.exec(ctx, `DELETE FROM `+table+` WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlstore: deleting %s %s: %w", resource, id, err)
	}
	return requireAffected(result, resource, id)
}
