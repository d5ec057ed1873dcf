package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"go-stockscan/internal/model"
)

const EventTypeStockScanned = "inventory.stock.scanned"

// ScanEvent is the envelope published to Kafka for every applied mutation,
// keyed by product so downstream consumers see per-product ordering.
type ScanEvent struct {
	ID               string           `json:"id"`
	Type             string           `json:"type"`
	ProductID        uint             `json:"product_id"`
	ProductSKU       string           `json:"product_sku"`
	Action           model.ScanAction `json:"action"`
	Quantity         int              `json:"quantity"`
	PreviousQuantity int              `json:"previous_quantity"`
	NewQuantity      int              `json:"new_quantity"`
	Change           int              `json:"change"`
	Reason           string           `json:"reason,omitempty"`
	DeviceType       string           `json:"device_type"`
	OccurredAt       time.Time        `json:"occurred_at"`
}

// Publisher writes scan events to a Kafka topic. A Publisher built without
// brokers is a no-op, so environments without Kafka run unchanged.
type Publisher struct {
	writer *kafka.Writer
	log    *zap.Logger
}

func NewPublisher(brokers []string, topic string, log *zap.Logger) *Publisher {
	if log == nil {
		log = zap.NewNop()
	}
	if len(brokers) == 0 || topic == "" {
		return &Publisher{log: log}
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
		Async:        false,
	}
	return &Publisher{writer: writer, log: log}
}

func (p *Publisher) Enabled() bool {
	return p != nil && p.writer != nil
}

// PublishScan publishes one scan event. Failures are logged, not propagated:
// the stock mutation is already committed and must not be rolled back by a
// broker outage.
func (p *Publisher) PublishScan(ctx context.Context, event ScanEvent) error {
	if !p.Enabled() {
		return nil
	}

	event.ID = uuid.New().String()
	event.Type = EventTypeStockScanned
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal scan event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatUint(uint64(event.ProductID), 10)),
		Value: data,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(event.Type)},
			{Key: "event-id", Value: []byte(event.ID)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.log.Error("failed to publish scan event",
			zap.Uint("product_id", event.ProductID),
			zap.Error(err))
		return err
	}
	return nil
}

func (p *Publisher) Close() error {
	if !p.Enabled() {
		return nil
	}
	return p.writer.Close()
}
