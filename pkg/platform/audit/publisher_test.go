package audit_test

import (
	"context"
	"errors"
	"testing"
	"time"

	audit "certseal/pkg/platform/audit"
	"certseal/pkg/platform/audit/store/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublisher_SetsTimestamp(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := audit.NewPublisher(store)

	before := time.Now()
	err := pub.Emit(context.Background(), audit.Event{
		CertificateID: "CERT-2024-001",
		Action:        string(audit.EventProfileCreated),
	})
	require.NoError(t, err)
	after := time.Now()

	events, err := pub.List(context.Background(), "CERT-2024-001")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.True(t, !events[0].Timestamp.Before(before), "timestamp should be >= before")
	assert.True(t, !events[0].Timestamp.After(after), "timestamp should be <= after")
}

func TestPublisher_PreservesExistingTimestamp(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := audit.NewPublisher(store)

	customTime := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	err := pub.Emit(context.Background(), audit.Event{
		CertificateID: "CERT-2024-001",
		Action:        string(audit.EventProfileCreated),
		Timestamp:     customTime,
	})
	require.NoError(t, err)

	events, err := pub.List(context.Background(), "CERT-2024-001")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, customTime, events[0].Timestamp)
}

func TestPublisher_DerivesCategoryFromAction(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := audit.NewPublisher(store)

	err := pub.Emit(context.Background(), audit.Event{
		CertificateID: "CERT-2024-001",
		Action:        string(audit.EventFraudAlertRaised),
	})
	require.NoError(t, err)

	events, err := pub.List(context.Background(), "CERT-2024-001")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, audit.CategorySecurity, events[0].Category)
}

func TestPublisher_DifferentCertificates(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := audit.NewPublisher(store)

	require.NoError(t, pub.Emit(context.Background(), audit.Event{
		CertificateID: "CERT-A",
		Action:        string(audit.EventProfileCreated),
	}))
	require.NoError(t, pub.Emit(context.Background(), audit.Event{
		CertificateID: "CERT-B",
		Action:        string(audit.EventCertificateVerified),
	}))

	eventsA, err := pub.List(context.Background(), "CERT-A")
	require.NoError(t, err)
	require.Len(t, eventsA, 1)
	assert.Equal(t, string(audit.EventProfileCreated), eventsA[0].Action)

	eventsB, err := pub.List(context.Background(), "CERT-B")
	require.NoError(t, err)
	require.Len(t, eventsB, 1)
	assert.Equal(t, string(audit.EventCertificateVerified), eventsB[0].Action)
}

func TestEventCategories(t *testing.T) {
	assert.Equal(t, audit.CategoryCompliance, audit.EventProfileCreated.Category())
	assert.Equal(t, audit.CategoryCompliance, audit.EventCompliancePending.Category())
	assert.Equal(t, audit.CategorySecurity, audit.EventFraudAlertRaised.Category())
	assert.Equal(t, audit.CategorySecurity, audit.EventVerificationFailed.Category())
	assert.Equal(t, audit.CategoryOperations, audit.EventCodeValidated.Category())
	assert.Equal(t, audit.CategoryOperations, audit.EventReceiptIssued.Category())
	assert.Equal(t, audit.CategoryOperations, audit.AuditEvent("unknown_action").Category())
}

type failingSink struct{}

func (failingSink) Append(context.Context, audit.Event) error {
	return errors.New("broker unavailable")
}

func TestFanout_SinkFailureDoesNotSurface(t *testing.T) {
	primary := memory.NewInMemoryStore()
	fanout := audit.NewFanout(primary, nil, failingSink{})
	pub := audit.NewPublisher(fanout)

	err := pub.Emit(context.Background(), audit.Event{
		CertificateID: "CERT-2024-001",
		Action:        string(audit.EventProfileCreated),
	})
	require.NoError(t, err)

	events, err := primary.ListByCertificate(context.Background(), "CERT-2024-001")
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

type recordingSink struct {
	events []audit.Event
}

func (s *recordingSink) Append(_ context.Context, event audit.Event) error {
	s.events = append(s.events, event)
	return nil
}

func TestFanout_CopiesToSinks(t *testing.T) {
	primary := memory.NewInMemoryStore()
	sink := &recordingSink{}
	fanout := audit.NewFanout(primary, nil, sink)
	pub := audit.NewPublisher(fanout)

	require.NoError(t, pub.Emit(context.Background(), audit.Event{
		CertificateID: "CERT-2024-001",
		Action:        string(audit.EventCertificateVerified),
	}))

	require.Len(t, sink.events, 1)
	assert.Equal(t, string(audit.EventCertificateVerified), sink.events[0].Action)
}

func TestChannelSink_QueuesEvents(t *testing.T) {
	sink := audit.NewChannelSink(2, nil)

	require.NoError(t, sink.Append(context.Background(), audit.Event{Action: "first"}))
	require.NoError(t, sink.Append(context.Background(), audit.Event{Action: "second"}))

	assert.Equal(t, "first", (<-sink.Inbox()).Action)
	assert.Equal(t, "second", (<-sink.Inbox()).Action)
}

func TestChannelSink_DropsWhenFull(t *testing.T) {
	sink := audit.NewChannelSink(1, nil)

	require.NoError(t, sink.Append(context.Background(), audit.Event{Action: "kept"}))
	require.NoError(t, sink.Append(context.Background(), audit.Event{Action: "dropped"}))

	assert.Equal(t, "kept", (<-sink.Inbox()).Action)
	select {
	case event := <-sink.Inbox():
		t.Fatalf("expected empty queue, got %q", event.Action)
	default:
	}
}
