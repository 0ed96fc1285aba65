package events

import (
	"context"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs []kafka.Message
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error { return nil }

func TestPublisherDisabledWithoutBrokers(t *testing.T) {
	p := NewPublisher(" , ", "care.events")
	require.False(t, p.Enabled())
	require.NoError(t, p.Publish(context.Background(), "x", "k", nil))
	require.NoError(t, p.Close())
}

func TestPublishSetsHeaders(t *testing.T) {
	w := &fakeWriter{}
	p := &Publisher{writer: w}

	err := p.Publish(context.Background(), "audit.shift_created", "shift:1", map[string]int{"id": 1})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	require.Equal(t, "shift:1", string(msg.Key))
	require.JSONEq(t, `{"id":1}`, string(msg.Value))
	require.Equal(t, "audit.shift_created", HeaderValue(msg.Headers, "event_type"))
	require.NotEmpty(t, HeaderValue(msg.Headers, "event_id"))
}

func TestSplitBrokers(t *testing.T) {
	require.Equal(t, []string{"a:9092", "b:9092"}, SplitBrokers("a:9092, ,b:9092"))
	require.Nil(t, SplitBrokers(""))
}
