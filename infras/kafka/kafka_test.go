package kafka_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"meetbook/config"
	"meetbook/infras/kafka"
	"meetbook/infras/otel/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessage_ToKafkaMessage(t *testing.T) {
	activity := kafka.Activity{
		Type:       kafka.ActivitySlotBooked,
		EventID:    "e1",
		Actor:      "system",
		OccurredAt: time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC),
	}

	message := kafka.Message{Key: activity.EventID, Value: activity}

	msg, err := message.ToKafkaMessage()
	require.NoError(t, err)
	assert.Equal(t, []byte("e1"), msg.Key)

	var decoded kafka.Activity
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, activity, decoded)
}

func TestMessage_ToKafkaMessageUnsupportedValue(t *testing.T) {
	message := kafka.Message{Key: "e1", Value: make(chan int)}

	_, err := message.ToKafkaMessage()

	assert.Error(t, err)
}

func TestNew_WithoutBrokersIsNoop(t *testing.T) {
	client := kafka.New(&config.Config{}, mocks.NewOtel())

	assert.NotPanics(t, func() {
		client.Publish(context.Background(), kafka.Activity{Type: kafka.ActivityRosterIngested, EventID: "e1"})
	})
	assert.NoError(t, client.Close())
}
