// Package publisher handles publishing search events to RabbitMQ.
package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/unifi-search-tool/unifi-search/internal/search"
	"github.com/unifi-search-tool/unifi-search/internal/unifi"
)

const (
	eventSearchCompleted   = "unifi.search.completed"
	routingSearchCompleted = "search.completed"
	eventSource            = "/services/unifi-search"
)

// channel is the subset of *amqp.Channel the publisher uses.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher sends CloudEvents to RabbitMQ.
type Publisher struct {
	conn     *amqp.Connection
	channel  channel
	exchange string
	logger   *zap.SugaredLogger
	now      func() time.Time
}

// CloudEvent represents the CloudEvents 1.0 specification structure.
type CloudEvent struct {
	SpecVersion     string `json:"specversion"`
	Type            string `json:"type"`
	Source          string `json:"source"`
	ID              string `json:"id"`
	Time            string `json:"time"`
	DataContentType string `json:"datacontenttype"`
	Subject         string `json:"subject,omitempty"`
	Data            any    `json:"data"`
}

// SearchCompletedData is the payload of a unifi.search.completed event.
type SearchCompletedData struct {
	SearchID     string        `json:"search_id"`
	Status       string        `json:"status"`
	TargetMAC    string        `json:"target_mac"`
	ServerURL    string        `json:"server_url"`
	Device       *unifi.Device `json:"device,omitempty"`
	DeviceLabel  string        `json:"device_label,omitempty"`
	ErrorKind    string        `json:"error_kind,omitempty"`
	ErrorMessage string        `json:"error_message,omitempty"`
	StartedAt    time.Time     `json:"started_at"`
	FinishedAt   time.Time     `json:"finished_at"`
	DurationMS   int64         `json:"duration_ms"`
}

// New creates a new Publisher connected to RabbitMQ.
func New(url, exchange string, logger *zap.SugaredLogger) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	p := newWithChannel(ch, exchange, logger)
	p.conn = conn

	return p, nil
}

func newWithChannel(ch channel, exchange string, logger *zap.SugaredLogger) *Publisher {
	return &Publisher{
		channel:  ch,
		exchange: exchange,
		logger:   logger,
		now:      time.Now,
	}
}

// Close closes the RabbitMQ connection.
func (p *Publisher) Close() error {
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// Name identifies the publisher in logs and metrics.
func (p *Publisher) Name() string { return "rabbitmq" }

// SearchCompleted publishes a unifi.search.completed event for rec.
func (p *Publisher) SearchCompleted(ctx context.Context, rec search.Record) error {
	data := SearchCompletedData{
		SearchID:   rec.ID,
		Status:     rec.Outcome.Kind.String(),
		TargetMAC:  rec.TargetMAC,
		ServerURL:  rec.ServerURL,
		Device:     rec.Outcome.Device,
		ErrorKind:  rec.Outcome.ErrorKind(),
		StartedAt:  rec.StartedAt.UTC(),
		FinishedAt: rec.FinishedAt.UTC(),
		DurationMS: rec.Duration().Milliseconds(),
	}

	if rec.Outcome.Device != nil {
		data.DeviceLabel = rec.Outcome.Device.Label()
	}

	if rec.Outcome.Err != nil {
		data.ErrorMessage = rec.Outcome.Err.Error()
	}

	event := p.createEvent(eventSearchCompleted, rec.ID, data)

	return p.publish(ctx, event, routingSearchCompleted)
}

func (p *Publisher) createEvent(eventType, subject string, data any) CloudEvent {
	return CloudEvent{
		SpecVersion:     "1.0",
		Type:            eventType,
		Source:          eventSource,
		ID:              uuid.New().String(),
		Time:            p.now().UTC().Format(time.RFC3339),
		DataContentType: "application/json",
		Subject:         subject,
		Data:            data,
	}
}

func (p *Publisher) publish(ctx context.Context, event CloudEvent, routingKey string) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = p.channel.PublishWithContext(
		ctx,
		p.exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType: "application/cloudevents+json",
			Body:        body,
			MessageId:   event.ID,
			Timestamp:   p.now(),
		},
	)

	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.Debugw("Event published",
		"type", event.Type,
		"id", event.ID,
		"routing_key", routingKey,
	)

	return nil
}
