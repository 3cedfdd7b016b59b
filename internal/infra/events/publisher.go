package events

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrPublisherNotConfigured = errors.New("events: publisher missing dependencies")

// Producer is the broker boundary the publisher writes through.
type Producer interface {
	Publish(ctx context.Context, topic, key string, payload []byte, headers map[string]string) error
}

// Publisher wraps domain events in CloudEvents 1.0 envelopes and routes them
// to a topic derived from the event name: "itinerary.generated" goes to
// "itinerary.events.v1" (plus the configured prefix), typed
// "itinerary.generated.v1".
type Publisher struct {
	Producer    Producer
	TopicPrefix string
	Source      string
}

func (p *Publisher) Publish(ctx context.Context, eventType, key string, data any) error {
	if p.Producer == nil {
		return ErrPublisherNotConfigured
	}
	evt := map[string]any{
		"specversion":     "1.0",
		"id":              uuid.NewString(),
		"type":            eventType + ".v1",
		"source":          p.source(),
		"time":            time.Now().UTC().Format(time.RFC3339Nano),
		"datacontenttype": "application/json",
		"data":            data,
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	headers := map[string]string{
		"content-type": "application/cloudevents+json",
	}
	return p.Producer.Publish(ctx, p.topicFor(eventType), key, payload, headers)
}

func (p *Publisher) topicFor(name string) string {
	base := name
	if idx := strings.IndexRune(name, '.'); idx > 0 {
		base = name[:idx]
	}
	topic := base + ".events.v1"
	if p.TopicPrefix != "" {
		topic = p.TopicPrefix + topic
	}
	return topic
}

func (p *Publisher) source() string {
	if p.Source != "" {
		return p.Source
	}
	return "app://tripquote"
}
