package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockWriter struct {
	mock.Mock
}

func (m *MockWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *MockWriter) Close() error {
	return m.Called().Error(0)
}

type fakeReader struct {
	msgs   []kafka.Message
	closed bool
}

func (r *fakeReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	if len(r.msgs) == 0 {
		<-ctx.Done()
		return kafka.Message{}, ctx.Err()
	}
	msg := r.msgs[0]
	r.msgs = r.msgs[1:]
	return msg, nil
}

func (r *fakeReader) Close() error {
	r.closed = true
	return nil
}

func TestProducer_Publish(t *testing.T) {
	writer := &MockWriter{}
	p := NewProducerWithWriter([]string{"localhost:9092"}, writer)
	event := BookingEvent{EventID: NewEventID(), Type: EventBookingConfirmed, BookingID: 7, Reference: "ABC123"}

	writer.On("WriteMessages", mock.Anything, mock.MatchedBy(func(msgs []kafka.Message) bool {
		if len(msgs) != 1 || msgs[0].Topic != "booking-events" || string(msgs[0].Key) != "7" {
			return false
		}
		var got BookingEvent
		return json.Unmarshal(msgs[0].Value, &got) == nil && got.Reference == "ABC123"
	})).Return(nil)

	err := p.Publish(context.Background(), "booking-events", "7", event)

	require.NoError(t, err)
	writer.AssertExpectations(t)
}

func TestProducer_PublishError(t *testing.T) {
	writer := &MockWriter{}
	p := NewProducerWithWriter(nil, writer)
	writer.On("WriteMessages", mock.Anything, mock.Anything).Return(errors.New("broker down"))

	err := p.Publish(context.Background(), "t", "k", map[string]int{"a": 1})

	assert.ErrorContains(t, err, "broker down")
}

func TestProducer_PublishWithRetry(t *testing.T) {
	writer := &MockWriter{}
	p := NewProducerWithWriter(nil, writer)
	writer.On("WriteMessages", mock.Anything, mock.Anything).Return(errors.New("transient")).Once()
	writer.On("WriteMessages", mock.Anything, mock.Anything).Return(nil).Once()

	err := p.PublishWithRetry(context.Background(), "t", "k", "payload", 3)

	require.NoError(t, err)
	writer.AssertNumberOfCalls(t, "WriteMessages", 2)
}

func TestProducer_MarshalError(t *testing.T) {
	p := NewProducerWithWriter(nil, &MockWriter{})

	err := p.Publish(context.Background(), "t", "k", make(chan int))

	assert.ErrorContains(t, err, "marshal")
}

func TestProducer_CheckConnectionWithoutBrokers(t *testing.T) {
	p := NewProducerWithWriter(nil, &MockWriter{})

	assert.Error(t, p.CheckConnection(context.Background()))
}

func TestConsumer_Consume(t *testing.T) {
	reader := &fakeReader{msgs: []kafka.Message{{Value: []byte("a")}, {Value: []byte("b")}}}
	c := NewConsumerWithReader(reader)
	ctx, cancel := context.WithCancel(context.Background())

	var got []string
	err := c.Consume(ctx, func(_ context.Context, msg kafka.Message) error {
		got = append(got, string(msg.Value))
		if len(got) == 2 {
			cancel()
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)
	require.NoError(t, c.Close())
	assert.True(t, reader.closed)
}

func TestConsumer_HandlerError(t *testing.T) {
	c := NewConsumerWithReader(&fakeReader{msgs: []kafka.Message{{Value: []byte("x")}}})
	boom := errors.New("boom")

	err := c.Consume(context.Background(), func(context.Context, kafka.Message) error { return boom })

	assert.ErrorIs(t, err, boom)
}
