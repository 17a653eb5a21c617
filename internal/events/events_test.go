package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"expense-api/internal/log"
	"expense-api/models"

	"github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	exchange string
	key      string
	msg      amqp091.Publishing
	deadline bool
}

type fakeChannel struct {
	published []published
	err       error
	closed    bool
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error {
	if f.err != nil {
		return f.err
	}
	_, hasDeadline := ctx.Deadline()
	f.published = append(f.published, published{exchange: exchange, key: key, msg: msg, deadline: hasDeadline})
	return nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func TestAMQPPublisher(t *testing.T) {
	logger := log.New(log.Config{Output: io.Discard})

	t.Run("routes by event type", func(t *testing.T) {
		ch := &fakeChannel{}
		p := newAMQPPublisher(ch, "expenses", logger)

		event := NewExpenseEvent(ExpenseCreated, &models.Expense{ID: 7, UserID: 3})
		require.NoError(t, p.Publish(context.Background(), event))

		require.Len(t, ch.published, 1)
		got := ch.published[0]
		assert.Equal(t, "expenses", got.exchange)
		assert.Equal(t, "expense.created", got.key)
		assert.Equal(t, "application/json", got.msg.ContentType)
		assert.Equal(t, uint8(amqp091.Persistent), got.msg.DeliveryMode)
		assert.True(t, got.deadline)

		var decoded Event
		require.NoError(t, json.Unmarshal(got.msg.Body, &decoded))
		assert.Equal(t, ExpenseCreated, decoded.Type)
		assert.Equal(t, int64(7), decoded.ExpenseID)
		assert.Equal(t, int64(3), decoded.UserID)
		assert.WithinDuration(t, time.Now(), decoded.OccurredAt, time.Minute)
	})

	t.Run("publish error is returned", func(t *testing.T) {
		ch := &fakeChannel{err: errors.New("channel closed")}
		p := newAMQPPublisher(ch, "expenses", logger)

		err := p.Publish(context.Background(), NewExpenseEvent(ExpenseDeleted, &models.Expense{ID: 1}))
		assert.ErrorContains(t, err, "channel closed")
	})

	t.Run("close", func(t *testing.T) {
		ch := &fakeChannel{}
		p := newAMQPPublisher(ch, "expenses", logger)
		require.NoError(t, p.Close())
		assert.True(t, ch.closed)
	})
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), Event{Type: ExpenseUpdated}))
	assert.NoError(t, p.Close())
}
