// Package events publishes bid lifecycle events to Kafka so downstream
// consumers (notifications, search indexing, reporting) can react without
// touching the bidding database.
package events

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/Shopify/sarama"
	"github.com/kueteantoine/Freight-Bid-Pro-sub001/internal/domain"
)

// Publisher wraps a Sarama sync producer. It implements service.Notifier:
// publish failures are logged and swallowed, the committed database row is
// the source of truth.
type Publisher struct {
	producer sarama.SyncProducer
	topic    string
}

// NewPublisher connects a sync producer to the given brokers.
func NewPublisher(brokers []string, topic string) (*Publisher, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 10
	config.Producer.Retry.Backoff = 500 * time.Millisecond
	config.Producer.Timeout = 5 * time.Second
	config.Producer.Return.Successes = true

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("events.NewPublisher: %w", err)
	}
	return &Publisher{producer: producer, topic: topic}, nil
}

// NotifyBidEvent publishes the event keyed by shipment id, so all events for
// one auction land on the same partition in order.
func (p *Publisher) NotifyBidEvent(evt *domain.BidEvent) {
	payload, err := json.Marshal(evt)
	if err != nil {
		slog.Error("events: marshal bid event", "error", err, "event_id", evt.EventID)
		return
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(evt.ShipmentID.String()),
		Value: sarama.ByteEncoder(payload),
	}
	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		slog.Error("events: publish bid event failed",
			"error", err, "type", evt.Type, "bid_id", evt.BidID)
		return
	}
	slog.Debug("events: bid event published",
		"type", evt.Type, "partition", partition, "offset", offset)
}

// Close flushes and closes the underlying producer.
func (p *Publisher) Close() error {
	return p.producer.Close()
}
