package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"rentanything/internal/domain"

	"github.com/IBM/sarama"
)

const bookingEventsTopic = "booking-events"

var ErrPublisherClosed = errors.New("kafka: publisher closed")

// KafkaPublisher writes booking notifications to <prefix>booking-events keyed by
// booking id. Publish only enqueues; delivery results are logged in the background.
type KafkaPublisher struct {
	producer sarama.AsyncProducer
	topic    string
	logger   *slog.Logger

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

func NewKafkaPublisher(brokers []string, topicPrefix string, cfg *sarama.Config, logger *slog.Logger) (*KafkaPublisher, error) {
	if cfg == nil {
		cfg = sarama.NewConfig()
	}
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Idempotent = true
	cfg.Producer.Return.Successes = true
	cfg.Producer.Return.Errors = true
	cfg.Net.MaxOpenRequests = 1
	cfg.Version = sarama.V2_5_0_0

	producer, err := sarama.NewAsyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("kafka: new producer: %w", err)
	}
	return NewKafkaPublisherWithProducer(producer, topicPrefix, logger), nil
}

func NewKafkaPublisherWithProducer(producer sarama.AsyncProducer, topicPrefix string, logger *slog.Logger) *KafkaPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	p := &KafkaPublisher{
		producer: producer,
		topic:    topicPrefix + bookingEventsTopic,
		logger:   logger,
		done:     make(chan struct{}),
	}
	go p.drain()
	return p
}

func (p *KafkaPublisher) Topic() string { return p.topic }

// Publish hands n to the producer. It blocks only while the producer's input
// buffer is full, and gives up when ctx ends.
func (p *KafkaPublisher) Publish(ctx context.Context, n domain.Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("kafka: marshal: %w", err)
	}
	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(n.BookingID),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(n.Type)},
		},
		Metadata: n.Type,
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPublisherClosed
	}
	select {
	case p.producer.Input() <- msg:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("kafka: enqueue: %w", ctx.Err())
	}
}

// drain consumes delivery reports until the producer shuts both channels.
func (p *KafkaPublisher) drain() {
	defer close(p.done)

	successes, failures := p.producer.Successes(), p.producer.Errors()
	for successes != nil || failures != nil {
		select {
		case msg, ok := <-successes:
			if !ok {
				successes = nil
				continue
			}
			p.logger.Debug("booking event delivered",
				"topic", msg.Topic, "partition", msg.Partition, "offset", msg.Offset, "event_type", msg.Metadata)
		case perr, ok := <-failures:
			if !ok {
				failures = nil
				continue
			}
			attrs := []any{"error", perr.Err}
			if perr.Msg != nil {
				attrs = append(attrs, "topic", perr.Msg.Topic, "event_type", perr.Msg.Metadata)
				if key, err := perr.Msg.Key.Encode(); err == nil {
					attrs = append(attrs, "booking_id", string(key))
				}
			}
			p.logger.Error("booking event delivery failed", attrs...)
		}
	}
}

// Close flushes buffered messages and waits for their delivery reports.
func (p *KafkaPublisher) Close() error {
	p.mu.Lock()
	already := p.closed
	p.closed = true
	p.mu.Unlock()

	if !already {
		p.producer.AsyncClose()
	}
	<-p.done
	return nil
}
