package events

import (
	"encoding/json"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Envelope is the JSON document published for every event.
type Envelope struct {
	ID         uuid.UUID `json:"id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    Event     `json:"payload"`
}

// KafkaDispatcher publishes events to a topic, keyed by event type.
type KafkaDispatcher struct {
	producer sarama.SyncProducer
	topic    string
	log      logrus.FieldLogger
	now      func() time.Time
}

// NewProducerConfig returns the sarama settings used for event publishing.
func NewProducerConfig() *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 5
	cfg.Producer.Return.Successes = true
	cfg.Producer.Timeout = 5 * time.Second
	return cfg
}

// DialKafka connects a sync producer to brokers.
func DialKafka(brokers []string, topic string, log logrus.FieldLogger) (*KafkaDispatcher, error) {
	producer, err := sarama.NewSyncProducer(brokers, NewProducerConfig())
	if err != nil {
		return nil, errors.Wrap(err, "start kafka producer")
	}
	log.WithField("brokers", brokers).Info("kafka producer connected")
	return NewKafkaDispatcher(producer, topic, log), nil
}

func NewKafkaDispatcher(producer sarama.SyncProducer, topic string, log logrus.FieldLogger) *KafkaDispatcher {
	return &KafkaDispatcher{producer: producer, topic: topic, log: log, now: time.Now}
}

func (d *KafkaDispatcher) Dispatch(event Event) error {
	env := Envelope{
		ID:         uuid.New(),
		Type:       event.Type(),
		OccurredAt: d.now().UTC(),
		Payload:    event,
	}
	body, err := json.Marshal(env)
	if err != nil {
		return errors.Wrapf(err, "encode %s", event.Type())
	}

	msg := &sarama.ProducerMessage{
		Topic: d.topic,
		Key:   sarama.StringEncoder(event.Type()),
		Value: sarama.ByteEncoder(body),
	}
	partition, offset, err := d.producer.SendMessage(msg)
	if err != nil {
		return errors.Wrapf(err, "publish %s to %s", event.Type(), d.topic)
	}
	d.log.WithFields(logrus.Fields{
		"event":     env.Type,
		"id":        env.ID,
		"partition": partition,
		"offset":    offset,
	}).Debug("event published")
	return nil
}

func (d *KafkaDispatcher) Close() error {
	return d.producer.Close()
}
