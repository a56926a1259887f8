package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/felixgeelhaar/dosewise/internal/shared/domain"
)

// Publisher defines the interface for publishing events to a message broker.
type Publisher interface {
	// Publish sends a message to the event bus.
	Publish(ctx context.Context, routingKey string, payload []byte) error

	// Close closes the publisher connection.
	Close() error
}

// PublishEvents wraps each domain event in an envelope and publishes it
// under its routing key. It stops at the first failure.
func PublishEvents(ctx context.Context, publisher Publisher, events []domain.DomainEvent) error {
	for _, event := range events {
		envelope, err := domain.NewEnvelope(event)
		if err != nil {
			return fmt.Errorf("encode %s: %w", event.RoutingKey(), err)
		}
		payload, err := json.Marshal(envelope)
		if err != nil {
			return fmt.Errorf("encode %s: %w", event.RoutingKey(), err)
		}
		if err := publisher.Publish(ctx, event.RoutingKey(), payload); err != nil {
			return fmt.Errorf("publish %s: %w", event.RoutingKey(), err)
		}
	}
	return nil
}

// MultiPublisher sends every message to each of its publishers.
type MultiPublisher []Publisher

// Publish delivers to all publishers and joins their failures.
func (m MultiPublisher) Publish(ctx context.Context, routingKey string, payload []byte) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, routingKey, payload); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every publisher.
func (m MultiPublisher) Close() error {
	var errs []error
	for _, p := range m {
		if err := p.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
