package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mbtmi/mbtmi/internal/events"
	"github.com/mbtmi/mbtmi/internal/repositories"
)

// classify maps a repository error onto the service error classes.
// notFound is returned in place of gorm's record-not-found.
func classify(err error, notFound error) error {
	switch {
	case err == nil:
		return nil
	case isClassified(err):
		return err
	case repositories.IsNotFoundError(err):
		return notFound
	case IsCorruptData(err):
		return fmt.Errorf("%w: %w", ErrCorruptData, err)
	default:
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}
}

func isClassified(err error) bool {
	return IsNotFound(err) || IsValidation(err) || IsConflict(err) ||
		IsUnauthorized(err) || IsStorage(err) || IsCorruptData(err)
}

// publish emits an event after the state change has committed. Delivery
// failures are logged and never fail the operation.
func publish(ctx context.Context, publisher events.EventPublisher, logger *slog.Logger, event *events.Event) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, event); err != nil {
		logger.WarnContext(ctx, "Failed to publish event",
			"event_type", event.Type,
			"event_id", event.ID,
			"error", err)
	}
}
