package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/complaint-desk/complaint-service/internal/config"
	"github.com/complaint-desk/complaint-service/internal/events"
)

type fakeForwarder struct {
	forwarded []events.Event
	err       error
}

func (f *fakeForwarder) Forward(_ context.Context, event events.Event) error {
	f.forwarded = append(f.forwarded, event)
	return f.err
}

type countingRecorder map[string]int

func (r countingRecorder) RecordEvent(eventType string) {
	r[eventType]++
}

func TestNotificationService_ForwardsEveryComplaintEvent(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher(nil)
	forwarder := &fakeForwarder{}
	recorder := countingRecorder{}

	NewNotificationService(NotificationDependencies{
		Dispatcher: dispatcher,
		Forwarder:  forwarder,
		Recorder:   recorder,
		Config:     config.NotificationConfig{EmailFrom: "noreply@example.com", WebhookURL: "http://hooks.local"},
	}).RegisterHandlers()

	ctx := context.Background()
	for _, eventType := range events.ComplaintEventTypes {
		_ = dispatcher.Publish(ctx, events.NewEvent(eventType, "c1", events.Actor{}, nil))
	}

	assert.Len(t, forwarder.forwarded, len(events.ComplaintEventTypes))
	for _, eventType := range events.ComplaintEventTypes {
		assert.Equal(t, 1, recorder[string(eventType)])
	}
}

func TestNotificationService_ForwardFailureDoesNotReachPublisher(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher(nil)
	forwarder := &fakeForwarder{err: errors.New("broker down")}

	NewNotificationService(NotificationDependencies{Dispatcher: dispatcher, Forwarder: forwarder}).RegisterHandlers()

	err := dispatcher.Publish(context.Background(), events.NewEvent(events.EventComplaintCreated, "c1", events.Actor{}, nil))
	assert.NoError(t, err)
	assert.Len(t, forwarder.forwarded, 1)
}
