package events_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/complaint-service/internal/events"
)

func TestDispatcherRoutesByType(t *testing.T) {
	d := events.NewInMemoryDispatcher()

	var created, statusChanged int
	d.Subscribe(events.EventComplaintCreated, func(ctx context.Context, e events.Event) error {
		created++
		return nil
	})
	d.Subscribe(events.EventComplaintStatusChanged, func(ctx context.Context, e events.Event) error {
		statusChanged++
		return nil
	})

	assert.NoError(t, d.Publish(context.Background(), events.Event{Type: events.EventComplaintCreated}))
	assert.NoError(t, d.Publish(context.Background(), events.Event{Type: events.EventComplaintCreated}))

	assert.Equal(t, 2, created)
	assert.Equal(t, 0, statusChanged)
}

func TestDispatcherFailingHandlerDoesNotStopOthers(t *testing.T) {
	d := events.NewInMemoryDispatcher()

	var reached bool
	d.Subscribe(events.EventFeedbackSubmitted, func(ctx context.Context, e events.Event) error {
		return errors.New("handler blew up")
	})
	d.Subscribe(events.EventFeedbackSubmitted, func(ctx context.Context, e events.Event) error {
		reached = true
		return nil
	})

	assert.NoError(t, d.Publish(context.Background(), events.Event{Type: events.EventFeedbackSubmitted}))
	assert.True(t, reached)
}

func TestDispatcherNoSubscribersIsNoOp(t *testing.T) {
	d := events.NewInMemoryDispatcher()
	assert.NoError(t, d.Publish(context.Background(), events.Event{Type: events.EventComplaintAssigned}))
}
