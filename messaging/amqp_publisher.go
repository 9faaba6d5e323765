package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/restaurant-orders/kds"
	"github.com/yeremiapane/restaurant-orders/utils"
)

const (
	publishTimeout = 5 * time.Second
	queueSize      = 64
)

// channel is the part of *amqp091.Channel the publisher uses.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

// AMQPPublisher forwards hub messages to a fanout exchange so consumers
// outside this process can follow new orders. Publish only enqueues; a
// single goroutine talks to the broker. When the queue is full or the broker
// is down the message is dropped, same as for a slow websocket viewer.
type AMQPPublisher struct {
	conn     *amqp091.Connection
	ch       channel
	exchange string

	mu     sync.RWMutex
	closed bool
	queue  chan amqp091.Publishing
	wg     sync.WaitGroup
}

// DialAMQP connects to url and declares exchange as a durable fanout.
func DialAMQP(url, exchange string) (*AMQPPublisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to broker: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	err = ch.ExchangeDeclare(
		exchange, // name
		"fanout", // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare %s exchange: %w", exchange, err)
	}

	p := newAMQPPublisher(ch, exchange)
	p.conn = conn
	utils.InfoLogger.WithField("exchange", exchange).Info("Broker connected")
	return p, nil
}

func newAMQPPublisher(ch channel, exchange string) *AMQPPublisher {
	p := &AMQPPublisher{
		ch:       ch,
		exchange: exchange,
		queue:    make(chan amqp091.Publishing, queueSize),
	}
	p.wg.Add(1)
	go p.run()
	return p
}

func buildPublishing(msg kds.Message, now time.Time) (amqp091.Publishing, error) {
	body, err := json.Marshal(msg)
	if err != nil {
		return amqp091.Publishing{}, err
	}
	return amqp091.Publishing{
		ContentType:  "application/json",
		Type:         msg.Type,
		Body:         body,
		DeliveryMode: amqp091.Transient,
		Timestamp:    now,
	}, nil
}

func (p *AMQPPublisher) Publish(msg kds.Message) {
	publishing, err := buildPublishing(msg, time.Now())
	if err != nil {
		utils.ErrorLogger.WithError(err).Error("Error marshaling broker message")
		return
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return
	}
	select {
	case p.queue <- publishing:
	default:
		utils.InfoLogger.WithField("type", msg.Type).Warn("Broker queue full, message dropped")
	}
}

func (p *AMQPPublisher) run() {
	defer p.wg.Done()
	for publishing := range p.queue {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		err := p.ch.PublishWithContext(ctx, p.exchange, "", false, false, publishing)
		cancel()

		fields := logrus.Fields{"exchange": p.exchange, "type": publishing.Type}
		if err != nil {
			utils.ErrorLogger.WithError(err).WithFields(fields).Error("Failed to publish to broker")
			continue
		}
		utils.InfoLogger.WithFields(fields).WithField("size", len(publishing.Body)).Debug("Published to broker")
	}
}

// Close flushes what is queued and closes the channel and connection.
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	p.wg.Wait()
	err := p.ch.Close()
	if p.conn != nil {
		if cerr := p.conn.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}
