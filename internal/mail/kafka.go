package mail

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/scram"
)

// KafkaTransport publishes rendered messages to a topic consumed by a
// mail relay. Messages are keyed by recipient.
type KafkaTransport struct {
	writer *kafka.Writer
}

func NewKafkaTransport(brokers []string, topic, username, password string) (*KafkaTransport, error) {
	log.Info().Strs("brokers", brokers).Str("topic", topic).Msg("configuring kafka mail transport")

	var dialer *kafka.Dialer
	if username == "" && password == "" {
		dialer = kafka.DefaultDialer
	} else {
		mechanism, err := scram.Mechanism(scram.SHA256, username, password)
		if err != nil {
			return nil, fmt.Errorf("scram mechanism: %w", err)
		}
		dialer = &kafka.Dialer{
			SASLMechanism: mechanism,
			TLS:           &tls.Config{},
		}
	}

	writer := kafka.NewWriter(kafka.WriterConfig{
		Brokers:   brokers,
		Topic:     topic,
		Dialer:    dialer,
		BatchSize: 1,
	})
	return &KafkaTransport{writer: writer}, nil
}

func (t *KafkaTransport) Send(ctx context.Context, msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	return t.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(msg.To),
		Value: data,
	})
}

func (t *KafkaTransport) Close() error {
	return t.writer.Close()
}
