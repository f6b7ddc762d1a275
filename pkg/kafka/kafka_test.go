package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"railbook/pkg/logger"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	mu       sync.Mutex
	messages []kafkago.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func (w *fakeWriter) written() []kafkago.Message {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]kafkago.Message(nil), w.messages...)
}

func header(m kafkago.Message, key string) string {
	for _, h := range m.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func buildMessage(t *testing.T) Message {
	t.Helper()
	msg, err := NewMessage().
		WithKey("101").
		WithValue(map[string]int{"seats": 3}).
		WithEventType("reservation.confirmed").
		WithCorrelationID("req-1").
		Build()
	require.NoError(t, err)
	return msg
}

func TestMessageBuilder(t *testing.T) {
	msg := buildMessage(t)

	assert.Equal(t, "101", msg.Key)
	assert.JSONEq(t, `{"seats":3}`, string(msg.Value))
	assert.NotEmpty(t, msg.EventID())
	assert.Equal(t, "reservation.confirmed", msg.EventType())
	assert.Equal(t, "req-1", msg.CorrelationID())
	assert.NotEmpty(t, msg.Headers[HeaderTimestamp])

	_, err := NewMessage().WithKey("k").WithValue(make(chan int)).Build()
	assert.Error(t, err)
}

func TestRetryCount(t *testing.T) {
	msg := Message{Headers: map[string]string{}}
	for i := 0; i < 12; i++ {
		msg.IncrementRetryCount()
	}
	assert.Equal(t, 12, msg.RetryCount())

	msg.Headers[HeaderRetryCount] = "garbage"
	assert.Equal(t, 0, msg.RetryCount())
}

func TestProducer_Publish(t *testing.T) {
	writer := &fakeWriter{}
	p := newProducer(writer, nil, "railbook.reservations", "", time.Second, logger.NewNop())

	var seenTopic string
	p.Use(func(ctx context.Context, msg Message, next PublishFunc) error {
		seenTopic = msg.Topic
		return next(ctx, msg)
	})

	require.NoError(t, p.Publish(context.Background(), buildMessage(t)))

	written := writer.written()
	require.Len(t, written, 1)
	assert.Equal(t, "101", string(written[0].Key))
	assert.Equal(t, "reservation.confirmed", header(written[0], HeaderEventType))
	assert.Equal(t, "railbook.reservations", seenTopic)
}

func TestProducer_RejectsInvalidMessages(t *testing.T) {
	p := newProducer(&fakeWriter{}, nil, "t", "", time.Second, logger.NewNop())

	assert.ErrorIs(t, p.Publish(context.Background(), Message{Value: []byte("x")}), ErrEmptyKey)
	assert.ErrorIs(t, p.Publish(context.Background(), Message{Key: "k"}), ErrEmptyValue)

	require.NoError(t, p.Close())
	assert.ErrorIs(t, p.Publish(context.Background(), buildMessage(t)), ErrProducerClosed)
}

func TestProducer_FailedWriteGoesToDLQ(t *testing.T) {
	boom := errors.New("connection refused")
	writer := &fakeWriter{err: boom}
	dlq := &fakeWriter{}
	p := newProducer(writer, dlq, "railbook.reservations", "railbook.reservations.dlq", time.Second, logger.NewNop())

	msg := buildMessage(t)
	err := p.Publish(context.Background(), msg)

	assert.ErrorIs(t, err, boom)
	dead := dlq.written()
	require.Len(t, dead, 1)
	assert.Equal(t, "railbook.reservations", header(dead[0], HeaderOriginalTopic))
	assert.Equal(t, boom.Error(), header(dead[0], HeaderDLQError))
	assert.Empty(t, msg.Headers[HeaderOriginalTopic], "caller's headers are not mutated")
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{"nil", nil, ErrorTypeUnknown},
		{"explicit transient", NewTransientError("retry me", nil), ErrorTypeTransient},
		{"explicit permanent", NewPermanentError("bad payload", nil), ErrorTypePermanent},
		{"deadline", context.DeadlineExceeded, ErrorTypeTransient},
		{"network text", errors.New("dial tcp: Connection Refused"), ErrorTypeTransient},
		{"unknown", errors.New("something odd"), ErrorTypePermanent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyError(tt.err))
		})
	}

	assert.True(t, ShouldRetry(NewTransientError("x", nil), 0, 3))
	assert.False(t, ShouldRetry(NewTransientError("x", nil), 3, 3))
	assert.False(t, ShouldRetry(NewPermanentError("x", nil), 0, 3))
}

type fakeReader struct {
	mu        sync.Mutex
	pending   []kafkago.Message
	committed []kafkago.Message
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafkago.Message, error) {
	r.mu.Lock()
	if len(r.pending) > 0 {
		m := r.pending[0]
		r.pending = r.pending[1:]
		r.mu.Unlock()
		return m, nil
	}
	r.mu.Unlock()
	<-ctx.Done()
	return kafkago.Message{}, ctx.Err()
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafkago.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.committed = append(r.committed, msgs...)
	return nil
}

func (r *fakeReader) Close() error { return nil }

func (r *fakeReader) commits() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.committed)
}

func TestConsumer_RetriesTransientThenCommits(t *testing.T) {
	reader := &fakeReader{pending: []kafkago.Message{buildMessage(t).toKafka()}}
	calls := 0
	handler := func(context.Context, Message) error {
		calls++
		if calls < 3 {
			return NewTransientError("broker busy", nil)
		}
		return nil
	}
	c := newConsumer(reader, &fakeWriter{}, "railbook.reservations", "notifier", handler, logger.NewNop())
	c.backoff = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Start(ctx) }()

	require.Eventually(t, func() bool { return reader.commits() == 1 }, time.Second, 5*time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	assert.Equal(t, 3, calls)
	require.NoError(t, c.Close())
}

func TestConsumer_PermanentErrorGoesToDLQ(t *testing.T) {
	reader := &fakeReader{pending: []kafkago.Message{buildMessage(t).toKafka()}}
	dlq := &fakeWriter{}
	calls := 0
	handler := func(context.Context, Message) error {
		calls++
		return NewPermanentError("cannot decode", nil)
	}
	c := newConsumer(reader, dlq, "railbook.reservations", "notifier", handler, logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Start(ctx) }()

	require.Eventually(t, func() bool { return reader.commits() == 1 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done

	assert.Equal(t, 1, calls)
	dead := dlq.written()
	require.Len(t, dead, 1)
	assert.Equal(t, "notifier", header(dead[0], HeaderDLQGroup))
}
