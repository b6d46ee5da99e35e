//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	kafkaadapter "github.com/Naminiges/USU-Peduli/internal/adapter/kafka"
	"github.com/Naminiges/USU-Peduli/internal/adapter/sqlite"
	"github.com/Naminiges/USU-Peduli/internal/domain"
	"github.com/Naminiges/USU-Peduli/internal/gateway"
	"github.com/Naminiges/USU-Peduli/internal/moderation"
	"github.com/Naminiges/USU-Peduli/internal/observability"
)

const testAuditTopic = "test-audit-events"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startKafka runs a single-node Kafka broker in a container and returns its
// bootstrap address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()

	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0",
		tckafka.WithClusterID("test-cluster"))
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminate kafka container: %v", err)
		}
	})

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err, "resolve kafka brokers")
	require.NotEmpty(t, brokers)
	return brokers[0]
}

// createTopic creates a single-partition topic via the cluster controller,
// so message order is total and tests can assert on it.
func createTopic(t *testing.T, broker, topic string) {
	t.Helper()

	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err, "dial broker")
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err, "resolve controller")

	controllerConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err, "dial controller")
	defer controllerConn.Close()

	require.NoError(t, controllerConn.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}), "create topic")
}

// newLedger wires a moderation ledger over an in-memory SQLite store with
// the given publisher.
func newLedger(t *testing.T, publisher moderation.Publisher) (*moderation.Ledger, *gateway.Gateway) {
	t.Helper()

	store, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	metrics := observability.NewMetricsForTesting()
	gw := gateway.New([]gateway.Store{store}, time.Minute, clockwork.NewRealClock(), discardLogger(), metrics)
	return moderation.NewLedger(gw, publisher, discardLogger(), metrics), gw
}

// auditMessage holds a deserialized audit event read from the topic.
type auditMessage struct {
	Entry   domain.AuditEntry
	Key     string
	Headers map[string]string
}

// readAudit reads a single message from the consumer and deserializes it.
func readAudit(ctx context.Context, t *testing.T, consumer *kafkago.Reader) auditMessage {
	t.Helper()
	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from audit topic")

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	var entry domain.AuditEntry
	require.NoError(t, json.Unmarshal(msg.Value, &entry), "unmarshal audit message")

	return auditMessage{
		Entry:   entry,
		Key:     string(msg.Key),
		Headers: headers,
	}
}

func newAuditConsumer(t *testing.T, broker string) *kafkago.Reader {
	t.Helper()
	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testAuditTopic,
		GroupID:     fmt.Sprintf("test-audit-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })
	return consumer
}

// TestAuditPublishRoundTrip drives a real moderation action through the
// ledger and verifies the published event against the stored trail: same
// entry ID, message key, action header, and before/after payload.
func TestAuditPublishRoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testAuditTopic)

	publisher := kafkaadapter.NewPublisher([]string{broker}, testAuditTopic, discardLogger())
	t.Cleanup(func() { _ = publisher.Close() })

	ledger, gw := newLedger(t, publisher)

	id, err := gw.InsertRequest(ctx, domain.NewLogisticsRequest("P-KR001", "REL-042", "water for 120 people"))
	require.NoError(t, err)

	actor := domain.Actor{ID: "ADM-001", Name: "Siti"}
	require.NoError(t, ledger.TransitionRequest(ctx, actor, id, domain.StatusProcessing, "first truck loaded"))

	consumer := newAuditConsumer(t, broker)
	msg := readAudit(ctx, t, consumer)

	assert.Equal(t, msg.Entry.ID, msg.Key, "message key should be the entry ID")
	assert.Equal(t, moderation.ActionRequestStatusChanged, msg.Headers["action"])
	_, err = time.Parse(time.RFC3339, msg.Headers["recorded_at"])
	assert.NoError(t, err, "recorded_at should be valid RFC3339")

	assert.Equal(t, "ADM-001", msg.Entry.ActorID)
	assert.Equal(t, "Siti", msg.Entry.ActorName)
	assert.Equal(t, "logistics_request", msg.Entry.TargetKind)
	assert.Equal(t, strconv.FormatInt(id, 10), msg.Entry.TargetRef)
	assert.Equal(t, "first truck loaded", msg.Entry.Note)
	assert.Equal(t, domain.StatusProposed, msg.Entry.Payload.Before)
	assert.Equal(t, domain.StatusProcessing, msg.Entry.Payload.After)

	// The published event mirrors the stored trail entry.
	trail := gw.AuditEntries(ctx, 10)
	require.Len(t, trail, 1)
	assert.Equal(t, trail[0].ID, msg.Entry.ID)
}

// TestFacilityLifecyclePublishesInOrder creates a facility and then
// deactivates it, expecting both events on the topic in mutation order
// (the topic has a single partition).
func TestFacilityLifecyclePublishesInOrder(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testAuditTopic)

	publisher := kafkaadapter.NewPublisher([]string{broker}, testAuditTopic, discardLogger())
	t.Cleanup(func() { _ = publisher.Close() })

	ledger, gw := newLedger(t, publisher)
	actor := domain.Actor{ID: "ADM-001", Name: "Siti"}

	created, err := ledger.CreateFacility(ctx, actor, domain.Facility{
		Type:   domain.FacilityShelter,
		Name:   "Posko SMA Negeri 2",
		Region: "Karo",
	})
	require.NoError(t, err)
	require.NoError(t, ledger.SetFacilityActive(ctx, actor, created.ID, false, "duplicate entry"))

	consumer := newAuditConsumer(t, broker)

	first := readAudit(ctx, t, consumer)
	assert.Equal(t, moderation.ActionFacilityCreated, first.Entry.Action)
	assert.Equal(t, created.ID, first.Entry.TargetRef)
	after, ok := first.Entry.Payload.After.(map[string]any)
	require.True(t, ok, "creation payload should carry the facility snapshot")
	assert.Equal(t, created.ID, after["ID"])

	second := readAudit(ctx, t, consumer)
	assert.Equal(t, moderation.ActionFacilityActiveSet, second.Entry.Action)
	assert.Equal(t, created.ID, second.Entry.TargetRef)
	assert.Equal(t, "duplicate entry", second.Entry.Note)
	assert.Equal(t, true, second.Entry.Payload.Before)
	assert.Equal(t, false, second.Entry.Payload.After)

	// Both mutations also landed on the stored trail, newest first.
	trail := gw.AuditEntries(ctx, 10)
	require.Len(t, trail, 2)
	assert.Equal(t, moderation.ActionFacilityActiveSet, trail[0].Action)
	assert.Equal(t, moderation.ActionFacilityCreated, trail[1].Action)
}
