// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (business layer) → validates, enforces rules, orchestrates
//	Repository (data layer)  → reads/writes the database
//
// Most services here are thin: one request, one repository call. The one
// exception is MemoryService, which has to keep TWO stores in step (the
// memories table and the blob store holding each memory's image). Its
// ordering rules are documented on the type.
//
// DEPENDENCY INJECTION:
// Every service takes repository interfaces, never *sqlstore.DB, so tests
// pass in-memory fakes and main.go decides between SQLite and Postgres.
//
// VALIDATION:
// Only the rules the data model states are enforced: non-empty bucket text
// and event titles, the enumerations, and memory coordinates. Everything
// else is stored exactly as sent, whitespace included, so a Create followed
// by a Read returns what was written.
//
// DELETE IS IDEMPOTENT:
// Deleting an id that is already gone is reported as success for every
// entity. The caller wanted the record not to exist, and it doesn't.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/memories/internal/apperror"
)

// requireID rejects blank path ids before they reach the database.
func requireID(resource, id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", apperror.ValidationFailed("id", resource+" ID is required")
	}
	return id, nil
}

// requireText rejects a value that is empty or only whitespace. The value
// itself is stored untrimmed.
func requireText(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return apperror.ValidationFailed(field, field+" is required")
	}
	return nil
}

// deleteIdempotent runs del and treats "not found" as success.
func deleteIdempotent(ctx context.Context, logger *slog.Logger, resource, id string, del func(context.Context, string) error) error {
	id, err := requireID(resource, id)
	if err != nil {
		return err
	}

	if err := del(ctx, id); err != nil {
		if apperror.IsNotFound(err) {
			logger.Debug(resource+" already gone", slog.String("id", id))
			return nil
		}
		logger.Error("failed to delete "+resource,
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("deleting %s: %w", resource, err)
	}

	logger.Info(resource+" deleted", slog.String("id", id))
	return nil
}
