package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/complaint-desk/complaint-service/internal/domain"
)

func TestDispatcher_DeliversToSubscribersOfType(t *testing.T) {
	d := NewInMemoryDispatcher(nil)

	var created, assigned int
	d.Subscribe(EventComplaintCreated, func(context.Context, Event) error {
		created++
		return nil
	})
	d.Subscribe(EventComplaintAssigned, func(context.Context, Event) error {
		assigned++
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), NewEvent(EventComplaintCreated, "c1", Actor{}, nil)))
	assert.Equal(t, 1, created)
	assert.Zero(t, assigned)
}

func TestDispatcher_HandlerFailureDoesNotStopOthers(t *testing.T) {
	d := NewInMemoryDispatcher(nil)

	var reached bool
	d.Subscribe(EventComplaintNoteAdded, func(context.Context, Event) error {
		return errors.New("boom")
	})
	d.Subscribe(EventComplaintNoteAdded, func(context.Context, Event) error {
		reached = true
		return nil
	})

	err := d.Publish(context.Background(), NewEvent(EventComplaintNoteAdded, "c1", Actor{}, nil))
	assert.NoError(t, err)
	assert.True(t, reached)
}

type recordingPublisher struct {
	subject string
	data    []byte
	err     error
}

func (p *recordingPublisher) Publish(subject string, data []byte) error {
	p.subject = subject
	p.data = data
	return p.err
}

func TestNATSForwarder_PublishesJSONOnPrefixedSubject(t *testing.T) {
	pub := &recordingPublisher{}
	f := NewNATSForwarder(pub, "complaints.")

	actor := ActorFrom(&domain.Account{ID: "a1", Role: domain.RoleAdmin})
	event := NewEvent(EventComplaintStatusChanged, "c1", actor, ComplaintStatusChangedPayload{
		OldStatus: domain.ComplaintStatusOpen,
		NewStatus: domain.ComplaintStatusResolved,
	})

	require.NoError(t, f.Forward(context.Background(), event))
	assert.Equal(t, "complaints.complaint_status_changed", pub.subject)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(pub.data, &decoded))
	assert.Equal(t, "c1", decoded["complaint_id"])
	assert.Equal(t, "resolved", decoded["payload"].(map[string]any)["new_status"])
}

func TestNATSForwarder_WrapsPublishError(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("no responders")}
	f := NewNATSForwarder(pub, "")

	err := f.Forward(context.Background(), NewEvent(EventComplaintCreated, "c1", Actor{}, nil))
	assert.ErrorIs(t, err, pub.err)
	assert.Equal(t, "complaint_created", pub.subject)
}
