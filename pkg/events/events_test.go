package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *recordingWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaPublisherKeysByAggregate(t *testing.T) {
	writer := &recordingWriter{}
	pub := newKafkaPublisher(writer, "smartclean.events", nil)

	evt, err := New(TypeAccountRegistered, "acc-1", map[string]string{"account_type": "client"})
	require.NoError(t, err)
	require.NoError(t, pub.Publish(context.Background(), evt))

	require.Len(t, writer.msgs, 1)
	msg := writer.msgs[0]
	assert.Equal(t, "acc-1", string(msg.Key))
	assert.Equal(t, "event_type", msg.Headers[0].Key)
	assert.Equal(t, TypeAccountRegistered, string(msg.Headers[0].Value))

	var decoded Event
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, evt.ID, decoded.ID)
	assert.JSONEq(t, `{"account_type":"client"}`, string(decoded.Data))

	require.NoError(t, pub.Close())
	assert.True(t, writer.closed)
}

func TestKafkaPublisherWrapsWriteErrors(t *testing.T) {
	pub := newKafkaPublisher(&recordingWriter{err: errors.New("broker unreachable")}, "smartclean.events", nil)
	evt, err := New(TypeCatalogReloaded, "catalog", nil)
	require.NoError(t, err)

	err = pub.Publish(context.Background(), evt)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "publish to smartclean.events")
}

func TestNewKafkaPublisherValidatesConfig(t *testing.T) {
	_, err := NewKafkaPublisher(nil, "topic", nil)
	require.Error(t, err)
	_, err = NewKafkaPublisher([]string{"localhost:9092"}, "", nil)
	require.Error(t, err)

	pub, err := NewKafkaPublisher([]string{"localhost:9092"}, "topic", nil)
	require.NoError(t, err)
	require.NoError(t, pub.Close())
}

func TestNopPublisher(t *testing.T) {
	pub := NewNopPublisher(nil)
	evt, err := New(TypeProviderOnboardingSubmitted, "app-1", struct{}{})
	require.NoError(t, err)
	assert.NoError(t, pub.Publish(context.Background(), evt))
	assert.NoError(t, pub.Close())
}
