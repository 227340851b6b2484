// Package kafka publishes booking notifications.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	kafkago "github.com/segmentio/kafka-go"

	"venue_booking/internal/adapters/observability"
	"venue_booking/internal/domain"
)

// MessageWriter is the part of *kafkago.Writer the notifier uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

type Notifier struct {
	w     MessageWriter
	topic string
}

func NewWriter(brokers []string, topic string) *kafkago.Writer {
	return &kafkago.Writer{
		Addr:                   kafkago.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireOne,
		BatchTimeout:           50 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}
}

func NewNotifier(w MessageWriter, topic string) *Notifier {
	return &Notifier{w: w, topic: topic}
}

// Notify publishes n keyed by the recipient so one user's messages stay ordered.
func (k *Notifier) Notify(ctx context.Context, n domain.Notification) error {
	b, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("kafka: encode notification: %w", err)
	}
	start := time.Now()
	err = k.w.WriteMessages(ctx, kafkago.Message{
		Key:   []byte(strconv.FormatInt(n.UserID, 10)),
		Value: b,
		Headers: []kafkago.Header{
			{Key: "kind", Value: []byte(n.Kind)},
		},
	})
	status := 200
	if err != nil {
		status = 0
	}
	observability.ObserveExternal("kafka", k.topic, status, time.Since(start))
	observability.ObserveNotification("kafka", n.Kind, err)
	if err != nil {
		return fmt.Errorf("kafka: publish %s: %w", n.Kind, err)
	}
	return nil
}

func (k *Notifier) Close() error { return k.w.Close() }

// LogNotifier writes notifications to the log. It is used when no brokers
// are configured.
type LogNotifier struct{ L zerolog.Logger }

func (l LogNotifier) Notify(_ context.Context, n domain.Notification) error {
	l.L.Info().
		Str("id", n.ID).
		Str("kind", n.Kind).
		Int64("user_id", n.UserID).
		Int64("booking_id", n.BookingID).
		Str("title", n.Title).
		Msg("notification")
	observability.ObserveNotification("log", n.Kind, nil)
	return nil
}
