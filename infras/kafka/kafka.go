package kafka

//go:generate go run go.uber.org/mock/mockgen -source=./kafka.go -destination=./mocks/kafka_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"fmt"
	"meetbook/config"
	"meetbook/infras/otel"
	"meetbook/shared/constant"
	"time"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
)

const (
	ActivitySlotBooked     = "slot.booked"
	ActivitySlotDeleted    = "slot.deleted"
	ActivitySlotCompletion = "slot.completion"
	ActivityRosterIngested = "roster.ingested"

	ActivityPartnerRequestCreated = "partner_request.created"
	ActivityPartnerApproved       = "partner_request.approved"
	ActivityPartnerDeclined       = "partner_request.declined"
)

// Activity is the payload of a message on the activity topic.
type Activity struct {
	Type       string    `json:"type"`
	EventID    string    `json:"event_id"`
	Actor      string    `json:"actor"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       any       `json:"data,omitempty"`
}

type Message struct {
	Key   string
	Value any
}

func (m *Message) ToKafkaMessage() (kafkaGo.Message, error) {
	jsonValue, err := json.Marshal(m.Value)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal message value to JSON")

		return kafkaGo.Message{}, fmt.Errorf("failed to marshal message value to JSON: %w", err)
	}

	return kafkaGo.Message{
		Key:   []byte(m.Key),
		Value: jsonValue,
	}, nil
}

type Client interface {
	// Publish writes an activity keyed by its event id. Failures are logged only.
	Publish(ctx context.Context, activity Activity)
	Close() error
}

type kafkaClientImpl struct {
	writer *kafkaGo.Writer
	otel   otel.Otel
}

type noopClient struct{}

func (noopClient) Publish(_ context.Context, activity Activity) {
	log.Debug().Str("type", activity.Type).Str("event_id", activity.EventID).Msg("Activity publishing disabled")
}

func (noopClient) Close() error {
	return nil
}

// New returns a publisher for the activity topic, or a no-op one when no brokers are configured.
func New(config *config.Config, ot otel.Otel) Client {
	if len(config.Kafka.Brokers) == 0 {
		log.Warn().Msg("Kafka brokers are not set, activity publishing is disabled")

		return noopClient{}
	}

	transport := &kafkaGo.Transport{}
	if config.Kafka.SASL.Username != "" {
		transport.SASL = plain.Mechanism{
			Username: config.Kafka.SASL.Username,
			Password: config.Kafka.SASL.Password,
		}
	}

	writer := &kafkaGo.Writer{
		Addr:                   kafkaGo.TCP(config.Kafka.Brokers...),
		Topic:                  config.Kafka.Topic.Activity,
		Transport:              transport,
		Balancer:               &kafkaGo.Hash{},
		AllowAutoTopicCreation: true,
		Async:                  true,
		Completion: func(messages []kafkaGo.Message, err error) {
			if err != nil {
				log.Error().Err(err).Int("messages", len(messages)).Msg("Failed to deliver activity to Kafka.")
			}
		},
	}

	log.Info().Strs("brokers", config.Kafka.Brokers).Str("topic", writer.Topic).Msg("Kafka client initialized")

	return &kafkaClientImpl{
		writer: writer,
		otel:   ot,
	}
}

func (k *kafkaClientImpl) Publish(ctx context.Context, activity Activity) {
	ctx, scope := k.otel.NewScope(ctx, constant.OtelExternalScopeName, constant.OtelExternalScopeName+".kafka.Publish")
	defer scope.End()

	scope.SetAttribute("activity.type", activity.Type)

	message := Message{Key: activity.EventID, Value: activity}

	msg, err := message.ToKafkaMessage()
	if err != nil {
		scope.TraceError(err)

		return
	}

	if err = k.writer.WriteMessages(ctx, msg); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("type", activity.Type).Msg("Failed to send activity to Kafka.")

		return
	}

	log.Debug().Str("type", activity.Type).Str("event_id", activity.EventID).Msg("Sent activity successfully.")
}

func (k *kafkaClientImpl) Close() error {
	if err := k.writer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka writer: %w", err)
	}

	return nil
}
