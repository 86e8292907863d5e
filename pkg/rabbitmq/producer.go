/**
 * @description
 * This package publishes platform events (donation approvals and refunds,
 * deposit lifecycle changes) to RabbitMQ. Events are fire-and-forget: the
 * HTTP request that produced one must never fail because the broker is
 * unreachable, so callers fall back to a no-op publisher when the broker is
 * down at startup.
 *
 * @dependencies
 * - context, encoding/json, time: Standard Go libraries.
 * - github.com/rabbitmq/amqp091-go: The RabbitMQ client library.
 */
package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

// EventsExchange is the durable topic exchange all platform events go through.
const EventsExchange = "hopeshare.events"

// Publisher is the interface implemented by types that can publish events.
type Publisher interface {
	Publish(ctx context.Context, exchange, routingKey string, body interface{}) error
	Close()
}

// EventProducer publishes JSON events over a single channel, reopening it once
// when a publish or declare fails. Safe for concurrent use.
type EventProducer struct {
	conn *amqp091.Connection

	mu      sync.Mutex
	channel *amqp091.Channel

	declared map[string]bool
}

// EventProducerFallback is a no-op publisher used when RabbitMQ is unavailable
// at startup.
type EventProducerFallback struct{}

func (p *EventProducerFallback) Publish(ctx context.Context, exchange, routingKey string, body interface{}) error {
	log.Printf("level=warn component=rabbitmq_producer mode=fallback msg=\"publish skipped\" exchange=%s routing_key=%s", exchange, routingKey)
	return nil
}

func (p *EventProducerFallback) Close() {}

// sanitizeAMQPURL trims quoting and stray prefix characters that sometimes
// leak in from env files and validates the scheme.
func sanitizeAMQPURL(raw string) (string, error) {
	clean := strings.Trim(strings.TrimSpace(raw), "\"'")
	if idx := strings.Index(strings.ToLower(clean), "amqp"); idx > 0 {
		clean = clean[idx:]
	}
	u, err := url.Parse(clean)
	if err != nil {
		return "", err
	}
	if u.Scheme != "amqp" && u.Scheme != "amqps" {
		return "", errors.New("AMQP scheme must be either 'amqp://' or 'amqps://'")
	}
	return clean, nil
}

// NewEventProducer dials the broker with a bounded timeout and opens the
// publishing channel. A non-empty donationQueue is declared durable and bound
// to the events exchange on donation.* keys, so donation events survive until
// a consumer comes up.
func NewEventProducer(amqpURL, donationQueue string) (*EventProducer, error) {
	cleanURL, err := sanitizeAMQPURL(amqpURL)
	if err != nil {
		return nil, err
	}

	conn, err := amqp091.DialConfig(cleanURL, amqp091.Config{Dial: amqp091.DefaultDial(10 * time.Second)})
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	p := &EventProducer{conn: conn, channel: ch, declared: map[string]bool{}}
	if donationQueue != "" {
		if err := p.bindDonationQueue(donationQueue); err != nil {
			p.Close()
			return nil, err
		}
	}
	return p, nil
}

// bindDonationQueue declares the donation event queue and binds it to the
// events exchange. Queues and bindings are broker state, so one declaration at
// startup outlives later channel reopens.
func (p *EventProducer) bindDonationQueue(queue string) error {
	if err := p.ensureExchange(EventsExchange); err != nil {
		return err
	}
	if _, err := p.channel.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", queue, err)
	}
	if err := p.channel.QueueBind(queue, "donation.*", EventsExchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue %s: %w", queue, err)
	}
	return nil
}

// reopenChannel replaces the channel after a failure. Caller holds p.mu.
func (p *EventProducer) reopenChannel() error {
	if p.conn == nil {
		return errors.New("rabbitmq connection is not open")
	}
	ch, err := p.conn.Channel()
	if err != nil {
		return err
	}
	p.channel = ch
	p.declared = map[string]bool{}
	return nil
}

// ensureExchange declares the durable topic exchange once per channel.
// Caller holds p.mu.
func (p *EventProducer) ensureExchange(exchange string) error {
	if p.declared[exchange] {
		return nil
	}
	if err := p.channel.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		return err
	}
	p.declared[exchange] = true
	return nil
}

// Publish sends one JSON event. A failed declare or publish gets a single
// retry on a fresh channel before the error is returned.
func (p *EventProducer) Publish(ctx context.Context, exchange, routingKey string, body interface{}) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode event %s: %w", routingKey, err)
	}
	msg := amqp091.Publishing{
		ContentType: "application/json",
		Timestamp:   time.Now(),
		Body:        jsonBody,
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.publishLocked(ctx, exchange, routingKey, msg); err == nil {
		return nil
	} else {
		log.Printf("level=warn component=rabbitmq_producer msg=\"publish failed; reopening channel\" exchange=%s routing_key=%s err=%v", exchange, routingKey, err)
	}

	if err := p.reopenChannel(); err != nil {
		return err
	}
	return p.publishLocked(ctx, exchange, routingKey, msg)
}

func (p *EventProducer) publishLocked(ctx context.Context, exchange, routingKey string, msg amqp091.Publishing) error {
	if err := p.ensureExchange(exchange); err != nil {
		return err
	}
	return p.channel.PublishWithContext(ctx, exchange, routingKey, false, false, msg)
}

// Close gracefully closes the channel and connection to RabbitMQ.
func (p *EventProducer) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}
