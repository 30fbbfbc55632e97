package kafka_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Shopify/sarama"
	"github.com/Shopify/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaidashi/backoffice-api/pkg/kafka"
	"github.com/vaidashi/backoffice-api/pkg/logger"
)

func TestProducer_SendMessage(t *testing.T) {
	t.Parallel()

	sp := mocks.NewSyncProducer(t, kafka.NewConfig())
	sp.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		if msg.Topic != "backoffice-events" {
			return errors.New("unexpected topic " + msg.Topic)
		}
		key, _ := msg.Key.Encode()
		if string(key) != "ORDER-0001" {
			return errors.New("unexpected key " + string(key))
		}
		if len(msg.Headers) != 1 || string(msg.Headers[0].Value) != "order_created" {
			return errors.New("missing event_type header")
		}
		return nil
	})

	p := kafka.NewProducerWith(sp, logger.NewNopLogger())
	err := p.SendMessage(context.Background(), "backoffice-events", "ORDER-0001", []byte(`{}`),
		map[string]string{"event_type": "order_created"})
	require.NoError(t, err)
	require.NoError(t, p.Close())
}

func TestProducer_SendMessageFailure(t *testing.T) {
	t.Parallel()

	sp := mocks.NewSyncProducer(t, kafka.NewConfig())
	sp.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	p := kafka.NewProducerWith(sp, logger.NewNopLogger())
	err := p.SendMessage(context.Background(), "t", "", []byte(`{}`), nil)
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, p.Close())
}
