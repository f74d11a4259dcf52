// Package events publishes progress notifications to RabbitMQ.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/mind-engage/courseplayer/internal/logger"
	"github.com/mind-engage/courseplayer/internal/progress"
)

const (
	Exchange          = "courseplayer.events"
	TypeProgressSaved = "progress.saved"
)

type ProgressSaved struct {
	Type      string         `json:"type"`
	Learner   string         `json:"learner"`
	CourseID  string         `json:"courseId"`
	Stats     progress.Stats `json:"stats"`
	Timestamp time.Time      `json:"timestamp"`
}

// AMQPPublisher is disabled, and every publish a no-op, when created with
// an empty URI.
type AMQPPublisher struct {
	mu       sync.Mutex
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	exchange string
	enabled  bool
	log      *logger.Logger
}

func NewAMQPPublisher(uri string, log *logger.Logger) (*AMQPPublisher, error) {
	log = logger.OrNop(log)
	if uri == "" {
		log.Info("RabbitMQ URI is empty, event publishing is disabled")
		return &AMQPPublisher{exchange: Exchange, log: log}, nil
	}

	conn, err := amqp091.Dial(uri)
	if err != nil {
		return nil, fmt.Errorf("connect to RabbitMQ: %w", err)
	}
	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	err = channel.ExchangeDeclare(
		Exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	log.Info("event publisher initialized", "exchange", Exchange)
	return &AMQPPublisher{conn: conn, channel: channel, exchange: Exchange, enabled: true, log: log}, nil
}

func (p *AMQPPublisher) Enabled() bool { return p.enabled }

// ProgressSaved satisfies progress.Notifier.
func (p *AMQPPublisher) ProgressSaved(ctx context.Context, learner, courseID string, stats progress.Stats) error {
	if !p.enabled {
		return nil
	}
	body, err := json.Marshal(ProgressSaved{
		Type:      TypeProgressSaved,
		Learner:   learner,
		CourseID:  courseID,
		Stats:     stats,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	err = p.channel.PublishWithContext(ctx,
		p.exchange,        // exchange
		TypeProgressSaved, // routing key
		false,             // mandatory
		false,             // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
			Headers: amqp091.Table{
				"event_type": TypeProgressSaved,
				"learner":    learner,
				"course_id":  courseID,
			},
		},
	)
	if err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	p.log.Debug("published event", "type", TypeProgressSaved, "learner", learner, "course", courseID)
	return nil
}

func (p *AMQPPublisher) Close() error {
	if !p.enabled {
		return nil
	}
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
