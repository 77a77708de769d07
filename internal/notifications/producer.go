package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"tably/internal/shared/config"
	"tably/internal/shared/faults"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
)

// OutboundMessage is the envelope published to the notification topic.
// A downstream consumer owns the actual SMS/WhatsApp delivery.
type OutboundMessage struct {
	MessageRef  string    `json:"message_ref"`
	Destination string    `json:"destination"`
	Body        string    `json:"body"`
	CreatedAt   time.Time `json:"created_at"`
}

// KafkaSender publishes outbound messages through a sarama sync
// producer. Messages for the same destination hash to the same
// partition so per-customer ordering holds.
type KafkaSender struct {
	producer sarama.SyncProducer
	topic    string
}

// NewKafkaSender creates a sender from config. Returns an error when
// the brokers are unreachable; callers fall back to the log sender.
func NewKafkaSender(cfg config.KafkaConfig) (*KafkaSender, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = 3
	saramaConfig.Producer.Timeout = 10 * time.Second
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(cfg.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	return &KafkaSender{producer: producer, topic: cfg.Topic}, nil
}

func (s *KafkaSender) SendMessage(ctx context.Context, destination, body string) (string, error) {
	envelope := OutboundMessage{
		MessageRef:  uuid.New().String(),
		Destination: destination,
		Body:        body,
		CreatedAt:   time.Now(),
	}

	payload, err := json.Marshal(envelope)
	if err != nil {
		return "", fmt.Errorf("failed to marshal outbound message: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic:     s.topic,
		Key:       sarama.StringEncoder(destination),
		Value:     sarama.ByteEncoder(payload),
		Timestamp: envelope.CreatedAt,
	}

	if _, _, err := s.producer.SendMessage(message); err != nil {
		return "", fmt.Errorf("%w: kafka publish: %v", faults.ErrServiceUnavailable, err)
	}
	return envelope.MessageRef, nil
}

// Close shuts down the underlying producer.
func (s *KafkaSender) Close() error {
	return s.producer.Close()
}
