package services

import (
	"context"
	"errors"
	"time"

	"storefront/internal/events"
	"storefront/internal/logging"
	"storefront/internal/metrics"
	"storefront/internal/repositories"
)

var (
	// ErrNotFound means the addressed entity does not exist or is not visible
	// to the caller.
	ErrNotFound = repositories.ErrNotFound
	// ErrValidation means the input was rejected before touching storage.
	ErrValidation = errors.New("validation failed")
)

const publishTimeout = 5 * time.Second

// emit publishes an event without letting broker trouble fail the request.
func emit(ctx context.Context, pub events.Publisher, eventType, key string, payload any) {
	if pub == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := pub.Publish(ctx, events.New(eventType, key, payload)); err != nil {
		metrics.EventsPublished.WithLabelValues(eventType, "failed").Inc()
		logging.FromContext(ctx).Warn("event publish failed", "type", eventType, "key", key, "error", err)
		return
	}
	metrics.EventsPublished.WithLabelValues(eventType, "ok").Inc()
}
