package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	require.NoError(t, r.Publish(context.Background(), TopicOrderPlaced, "o-1", OrderPlaced{OrderID: "o-1"}))
	got := r.Events()
	require.Len(t, got, 1)
	assert.Equal(t, TopicOrderPlaced, got[0].Topic)
	assert.Equal(t, "o-1", got[0].Key)

	r.Err = errors.New("broker down")
	assert.Error(t, r.Publish(context.Background(), TopicOrderPlaced, "o-2", nil))
	assert.Len(t, r.Events(), 1)
}

func TestLogPublisher(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	p := NewLogPublisher(zap.New(core))
	require.NoError(t, p.Publish(context.Background(), TopicOrderStatusChanged, "o-1", OrderStatusChanged{OrderID: "o-1", From: "pending", To: "shipped"}))
	entries := logs.FilterMessage("event").All()
	require.Len(t, entries, 1)
	assert.Equal(t, TopicOrderStatusChanged, entries[0].ContextMap()["topic"])
}

func TestNopAndKafkaConstruction(t *testing.T) {
	assert.NoError(t, Nop{}.Publish(context.Background(), "t", "k", nil))
	p := NewKafkaPublisher(" broker-1:9092, ,broker-2:9092 ")
	assert.NotNil(t, p.writer.Addr)
	assert.NoError(t, p.Close())
}
