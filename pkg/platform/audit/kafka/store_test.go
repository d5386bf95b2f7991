//go:build integration

package kafka_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	audit "ajanda/pkg/platform/audit"
	auditkafka "ajanda/pkg/platform/audit/kafka"
	"ajanda/pkg/testutil/containers"
)

func TestAppendProducesToTopic(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	broker := containers.GetRedpanda(t)
	const topic = "agenda.audit.test"

	store, err := auditkafka.New(ctx, broker.Brokers, topic)
	require.NoError(t, err)
	defer store.Close()

	want := audit.Event{
		Action:    string(audit.EventPolicyRenewedUs),
		PolicyID:  "7f3b9a4e-1c2d-4e5f-8a9b-0c1d2e3f4a5b",
		Detail:    "successor abc",
		Timestamp: time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, store.Append(ctx, want))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(broker.Brokers...),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	defer consumer.Close()

	fetches := consumer.PollFetches(ctx)
	require.NoError(t, fetches.Err())
	records := fetches.Records()
	require.Len(t, records, 1)
	require.Equal(t, want.PolicyID, string(records[0].Key), "records are keyed by policy id")

	var got audit.Event
	require.NoError(t, json.Unmarshal(records[0].Value, &got))
	require.Equal(t, want.Action, got.Action)
	require.Equal(t, want.Detail, got.Detail)
}
