package notify

import (
	"context"

	"github.com/Shopify/sarama"
	"github.com/pkg/errors"
)

// KafkaPublisher writes event messages to a topic, keyed by Message.Key.
type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
}

func NewKafkaPublisher(brokers []string, topic string) (*KafkaPublisher, error) {
	conf := sarama.NewConfig()
	conf.Producer.Return.Successes = true
	conf.Producer.RequiredAcks = sarama.WaitForAll
	conf.Producer.Retry.Max = 3
	producer, err := sarama.NewSyncProducer(brokers, conf)
	if err != nil {
		return nil, errors.Wrap(err, "kafka: new producer")
	}
	return NewKafkaPublisherWithProducer(producer, topic), nil
}

func NewKafkaPublisherWithProducer(producer sarama.SyncProducer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func (p *KafkaPublisher) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	pm := &sarama.ProducerMessage{
		Topic: p.topic,
		Value: sarama.StringEncoder(msg.Body),
		Headers: []sarama.RecordHeader{
			{Key: []byte("subject"), Value: []byte(msg.Subject)},
		},
	}
	if msg.Key != "" {
		pm.Key = sarama.StringEncoder(msg.Key)
	}
	if _, _, err := p.producer.SendMessage(pm); err != nil {
		return errors.Wrapf(err, "kafka: publish %s", msg.Subject)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}
