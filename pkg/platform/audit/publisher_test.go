package audit_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	audit "ajanda/pkg/platform/audit"
	auditmemory "ajanda/pkg/platform/audit/store/memory"
)

func event(action string, policyID string) audit.Event {
	return audit.Event{
		Action:    action,
		PolicyID:  policyID,
		Timestamp: time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC),
	}
}

func TestPublisherSync(t *testing.T) {
	store := auditmemory.NewInMemoryStore()
	p := audit.NewPublisher(store)

	require.NoError(t, p.Emit(context.Background(), event(string(audit.EventPolicyCancelled), "p1")))

	events, err := store.List(context.Background(), "p1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, string(audit.EventPolicyCancelled), events[0].Action)
}

func TestPublisherAsyncDrainsOnClose(t *testing.T) {
	store := auditmemory.NewInMemoryStore()
	p := audit.NewPublisher(store, audit.WithAsyncBuffer(8))

	for i := 0; i < 5; i++ {
		require.NoError(t, p.Emit(context.Background(), event(string(audit.EventPolicyAcknowledged), "p2")))
	}
	p.Close()

	events, err := store.List(context.Background(), "p2")
	require.NoError(t, err)
	assert.Len(t, events, 5, "close must drain every queued event")
}

func TestPublisherListFiltersByPolicy(t *testing.T) {
	store := auditmemory.NewInMemoryStore()
	p := audit.NewPublisher(store)

	require.NoError(t, p.Emit(context.Background(), event(string(audit.EventPolicyRenewedUs), "a")))
	require.NoError(t, p.Emit(context.Background(), event(string(audit.EventPolicyCancelled), "b")))

	events, err := p.List(context.Background(), "a")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, string(audit.EventPolicyRenewedUs), events[0].Action)
}
