package application

import (
	"context"

	"github.com/felixgeelhaar/dosewise/internal/shared/domain"
	"github.com/felixgeelhaar/dosewise/pkg/observability"
)

type metadataSetter interface {
	SetMetadata(metadata domain.EventMetadata)
}

// EventMetadataFromContext creates metadata for events raised while
// handling a request: the request's correlation ID and the emitting
// context's name.
func EventMetadataFromContext(ctx context.Context, source string) domain.EventMetadata {
	return domain.EventMetadata{
		CorrelationID: observability.CorrelationIDFromContext(ctx),
		Source:        source,
	}
}

// ApplyEventMetadata sets metadata on all events that support it.
func ApplyEventMetadata(events []domain.DomainEvent, metadata domain.EventMetadata) []domain.DomainEvent {
	for _, event := range events {
		if setter, ok := event.(metadataSetter); ok {
			setter.SetMetadata(metadata)
		}
	}
	return events
}
