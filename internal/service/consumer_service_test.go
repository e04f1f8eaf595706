package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cridiv/Aedar/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type logEntry struct {
	level   string
	message string
	details map[string]interface{}
}

type recordingLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (r *recordingLogger) record(level, message string, details map[string]interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, logEntry{level: level, message: message, details: details})
}

func (r *recordingLogger) snapshot() []logEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]logEntry(nil), r.entries...)
}

func (r *recordingLogger) Debug(module, message string, details map[string]interface{}) {
	r.record("debug", message, details)
}

func (r *recordingLogger) Info(module, message string, details map[string]interface{}) {
	r.record("info", message, details)
}

func (r *recordingLogger) Warn(module, message string, details map[string]interface{}) {
	r.record("warn", message, details)
}

func (r *recordingLogger) Error(module, message string, details map[string]interface{}) {
	r.record("error", message, details)
}

func (r *recordingLogger) Sync() error { return nil }

func TestConsumerLogsPublishedEvents(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	t.Cleanup(func() { _ = pubSub.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log := &recordingLogger{}
	require.NoError(t, NewConsumerService(pubSub, log).Consume(ctx))

	pub := events.NewChannelPublisher(pubSub)
	require.NoError(t, pub.Publish(ctx, events.RoadmapGenerated("req-7", "recovered", 2, 5, false)))
	require.NoError(t, pub.Publish(ctx, events.CalendarSynced("user-1", "primary", 4, 1)))

	require.Eventually(t, func() bool { return len(log.snapshot()) == 2 }, time.Second, 10*time.Millisecond)

	byType := map[string]logEntry{}
	for _, e := range log.snapshot() {
		byType[e.message] = e
	}
	generated := byType[events.TypeRoadmapGenerated]
	assert.Equal(t, "info", generated.level)
	assert.Equal(t, "req-7", generated.details["request_id"])
	assert.NotEmpty(t, generated.details["message_id"])

	synced := byType[events.TypeCalendarSynced]
	assert.Equal(t, float64(4), synced.details["created_count"])
}

func TestConsumerAcksMalformedPayload(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	t.Cleanup(func() { _ = pubSub.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log := &recordingLogger{}
	require.NoError(t, NewConsumerService(pubSub, log).Consume(ctx))

	msg := message.NewMessage(watermill.NewUUID(), []byte("not json"))
	require.NoError(t, pubSub.Publish(events.Subject(events.TypeCalendarSynced), msg))

	require.Eventually(t, func() bool { return len(log.snapshot()) == 1 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, "error", log.snapshot()[0].level)
}

func TestConsumerLogsNullPayload(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	t.Cleanup(func() { _ = pubSub.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log := &recordingLogger{}
	require.NoError(t, NewConsumerService(pubSub, log).Consume(ctx))

	msg := message.NewMessage(watermill.NewUUID(), []byte("null"))
	msg.Metadata.Set(events.MetadataEventType, events.TypeRoadmapGenerated)
	require.NoError(t, pubSub.Publish(events.Subject(events.TypeRoadmapGenerated), msg))

	require.Eventually(t, func() bool { return len(log.snapshot()) == 1 }, time.Second, 10*time.Millisecond)
	entry := log.snapshot()[0]
	assert.Equal(t, "info", entry.level)
	assert.Equal(t, events.TypeRoadmapGenerated, entry.message)
	assert.Equal(t, msg.UUID, entry.details["message_id"])
}
