package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

type Producer struct {
	Writer  *kafka.Writer
	Brokers []string
}

func NewProducer(brokers []string) *Producer {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Balancer: &kafka.LeastBytes{},
	}
	return &Producer{Writer: writer, Brokers: brokers}
}

// Publish writes one message to the given topic, creating the topic and
// retrying once if the first write fails because it doesn't exist yet.
func (p *Producer) Publish(topic, key string, value []byte) error {
	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: value,
	}

	err := p.Writer.WriteMessages(context.Background(), msg)
	if err == nil {
		return nil
	}

	if terr := CreateTopicIfNotExists(p.Brokers, topic); terr != nil {
		return fmt.Errorf("publish failed and topic creation failed: %w", err)
	}
	return p.Writer.WriteMessages(context.Background(), msg)
}

type draftEventPayload struct {
	DraftID   string    `json:"draft_id"`
	EventID   string    `json:"event_id"`
	Step      string    `json:"step,omitempty"`
	Slug      string    `json:"slug,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// PublishDraftCreated streams the aggregate-created event to Kafka
func (p *Producer) PublishDraftCreated(draftID, eventID string) error {
	value, err := json.Marshal(draftEventPayload{
		DraftID:   draftID,
		EventID:   eventID,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	return p.Publish(TopicDraftCreated, eventID, value)
}

// PublishStepSaved streams a successful step write to Kafka
func (p *Producer) PublishStepSaved(draftID, eventID, step string) error {
	value, err := json.Marshal(draftEventPayload{
		DraftID:   draftID,
		EventID:   eventID,
		Step:      step,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	return p.Publish(TopicDraftStepSaved, eventID, value)
}

// PublishEventPublished streams the publish transition to Kafka
func (p *Producer) PublishEventPublished(eventID, slug string) error {
	value, err := json.Marshal(draftEventPayload{
		EventID:   eventID,
		Slug:      slug,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	return p.Publish(TopicEventPublished, eventID, value)
}

func (p *Producer) Close() error {
	return p.Writer.Close()
}
