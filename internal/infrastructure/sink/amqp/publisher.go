// Package amqp implements a peripheral interfaces.Handler that batches
// book-delta and snapshot events and publishes them to a RabbitMQ fanout
// exchange. It is a downstream recorder, not a core dependency: nothing in
// internal/domain or internal/application imports this package.
package amqp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"itch50/internal/domain/entity/book"
	"itch50/internal/domain/interfaces"
)

// Event is the wire payload published for every book mutation or delivered
// snapshot.
type Event struct {
	Symbol      string         `json:"symbol"`
	Timestamp   uint64         `json:"timestamp"`
	Kind        string         `json:"kind"`
	Side        string         `json:"side,omitempty"`
	Price       int64          `json:"price,omitempty"`
	Volume      int64          `json:"volume,omitempty"`
	Ref         uint64         `json:"ref,omitempty"`
	NewRef      uint64         `json:"new_ref,omitempty"`
	MatchNumber uint64         `json:"match_number,omitempty"`
	Status      string         `json:"status,omitempty"`
	Snapshot    *book.Snapshot `json:"snapshot,omitempty"`
	ScheduledAt uint64         `json:"scheduled_at,omitempty"`
}

// Config controls the exchange and batching thresholds.
type Config struct {
	URL      string
	Exchange string
	Batch    BatchConfig
}

// BatchConfig controls flush thresholds for the generic batch buffer.
type BatchConfig struct {
	Size    int
	Timeout time.Duration
}

// Publisher is an interfaces.Handler, registered with a Processor, that batches
// events and publishes them to a fanout exchange.
type Publisher struct {
	interfaces.NopHandler

	channel  *amqp.Channel
	conn     *amqp.Connection
	exchange string
	logger   *logrus.Entry

	buffer *batchBuffer[Event]
}

// NewPublisher dials RabbitMQ, declares the fanout exchange, and starts a
// batch buffer that flushes to it.
func NewPublisher(ctx context.Context, cfg Config, logger *logrus.Logger) (*Publisher, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(cfg.Exchange, "fanout", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", cfg.Exchange, err)
	}

	entry := logger.WithField("component", "amqp_publisher")
	p := &Publisher{
		channel:  ch,
		conn:     conn,
		exchange: cfg.Exchange,
		logger:   entry,
	}
	p.buffer = newBatchBuffer(cfg.Batch, p.flush, entry)
	p.buffer.setContext(ctx)
	return p, nil
}

// Close flushes any buffered events and releases the connection.
func (p *Publisher) Close(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	err := p.buffer.drain(ctx)
	p.channel.Close()
	p.conn.Close()
	return err
}

func (p *Publisher) flush(ctx context.Context, batch []Event) error {
	for _, ev := range batch {
		body, err := json.Marshal(ev)
		if err != nil {
			return fmt.Errorf("marshal event: %w", err)
		}
		if err := p.channel.PublishWithContext(ctx, p.exchange, "", false, false, amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		}); err != nil {
			return fmt.Errorf("publish event: %w", err)
		}
	}
	return nil
}

func (p *Publisher) enqueue(ev Event) {
	if err := p.buffer.enqueue(ev); err != nil {
		p.logger.WithError(err).Warn("drop event")
	}
}

// Handler event overrides. Everything unimplemented falls back to
// interfaces.NopHandler's no-ops.

func (p *Publisher) EnterQuote(symbol book.Symbol, ts book.Timestamp, side book.Side, price book.Price, volume book.Volume, ref book.OrderReference) {
	p.enqueue(Event{Symbol: string(symbol), Timestamp: uint64(ts), Kind: "enter", Side: string(side), Price: int64(price), Volume: int64(volume), Ref: uint64(ref)})
}

func (p *Publisher) CancelQuote(symbol book.Symbol, ts book.Timestamp, side book.Side, volume book.Volume, ref book.OrderReference) {
	p.enqueue(Event{Symbol: string(symbol), Timestamp: uint64(ts), Kind: "cancel", Side: string(side), Volume: int64(volume), Ref: uint64(ref)})
}

func (p *Publisher) DeleteQuote(symbol book.Symbol, ts book.Timestamp, side book.Side, ref book.OrderReference) {
	p.enqueue(Event{Symbol: string(symbol), Timestamp: uint64(ts), Kind: "delete", Side: string(side), Ref: uint64(ref)})
}

func (p *Publisher) ReplaceQuote(symbol book.Symbol, ts book.Timestamp, side book.Side, origRef, newRef book.OrderReference, price book.Price, volume book.Volume) {
	p.enqueue(Event{Symbol: string(symbol), Timestamp: uint64(ts), Kind: "replace", Side: string(side), Ref: uint64(origRef), NewRef: uint64(newRef), Price: int64(price), Volume: int64(volume)})
}

func (p *Publisher) ExecuteTrade(symbol book.Symbol, ts book.Timestamp, side book.Side, volume book.Volume, ref book.OrderReference, match book.MatchNumber) {
	p.enqueue(Event{Symbol: string(symbol), Timestamp: uint64(ts), Kind: "execute", Side: string(side), Volume: int64(volume), Ref: uint64(ref), MatchNumber: uint64(match)})
}

func (p *Publisher) ExecuteTradePrice(symbol book.Symbol, ts book.Timestamp, side book.Side, volume book.Volume, ref book.OrderReference, match book.MatchNumber, price book.Price) {
	p.enqueue(Event{Symbol: string(symbol), Timestamp: uint64(ts), Kind: "execute_price", Side: string(side), Volume: int64(volume), Ref: uint64(ref), MatchNumber: uint64(match), Price: int64(price)})
}

func (p *Publisher) TradingStatusChanged(symbol book.Symbol, ts book.Timestamp, status interfaces.TradingStatus) {
	p.enqueue(Event{Symbol: string(symbol), Timestamp: uint64(ts), Kind: "status", Status: status.String()})
}

func (p *Publisher) Snapshot(snap book.Snapshot, scheduledFor book.Timestamp) {
	p.enqueue(Event{Symbol: string(snap.Symbol), Timestamp: uint64(snap.Timestamp), Kind: "snapshot", Snapshot: &snap, ScheduledAt: uint64(scheduledFor)})
}
