package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type published struct {
	exchange string
	key      string
	msg      amqp.Publishing
}

type fakeChannel struct {
	declareErr error
	publishErr error
	declared   []string
	published  []published
	closed     bool
}

func (c *fakeChannel) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error {
	c.declared = append(c.declared, name+"/"+kind)
	return c.declareErr
}

func (c *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	if c.publishErr != nil {
		return c.publishErr
	}
	c.published = append(c.published, published{exchange: exchange, key: key, msg: msg})
	return nil
}

func (c *fakeChannel) Close() error {
	c.closed = true
	return nil
}

func TestPublisher_PublishesJSON(t *testing.T) {
	ch := &fakeChannel{}
	p, err := NewChannelPublisher(ch, "facetoface", zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, []string{"facetoface/topic"}, ch.declared)

	err = p.Publish("signup.created", map[string]string{"status": "booked"})
	require.NoError(t, err)

	require.Len(t, ch.published, 1)
	got := ch.published[0]
	assert.Equal(t, "facetoface", got.exchange)
	assert.Equal(t, "signup.created", got.key)
	assert.Equal(t, "application/json", got.msg.ContentType)

	var body map[string]string
	require.NoError(t, json.Unmarshal(got.msg.Body, &body))
	assert.Equal(t, "booked", body["status"])
}

func TestPublisher_DeclareFailureClosesChannel(t *testing.T) {
	ch := &fakeChannel{declareErr: errors.New("access refused")}
	_, err := NewChannelPublisher(ch, "facetoface", zap.NewNop())
	assert.Error(t, err)
	assert.True(t, ch.closed)
}

func TestPublisher_PublishError(t *testing.T) {
	ch := &fakeChannel{}
	p, err := NewChannelPublisher(ch, "facetoface", zap.NewNop())
	require.NoError(t, err)

	ch.publishErr = errors.New("channel closed")
	assert.Error(t, p.Publish("signup.cancelled", struct{}{}))
}

func TestPublisher_UnmarshalablePayload(t *testing.T) {
	p, err := NewChannelPublisher(&fakeChannel{}, "facetoface", zap.NewNop())
	require.NoError(t, err)
	assert.Error(t, p.Publish("signup.created", make(chan int)))
}
