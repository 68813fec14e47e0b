package queue

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Publisher sends ticket events to RabbitMQ.  Each call opens its own
// connection and channel; the booking flow publishes at most once per
// purchase so there is nothing to pool.
type Publisher struct {
	URL string
	Log *zap.Logger
}

// NewPublisher returns a Publisher for the broker at url.
func NewPublisher(url string, log *zap.Logger) *Publisher {
	return &Publisher{URL: url, Log: log}
}

// TicketPurchased publishes ev to the ticket.purchased queue as a persistent
// JSON message.  Errors are logged and returned so the caller can choose to
// ignore them.
func (p *Publisher) TicketPurchased(ctx context.Context, ev TicketPurchasedEvent) error {
	conn, err := amqp.DialConfig(p.URL, amqp.Config{Dial: amqp.DefaultDial(3 * time.Second)})
	if err != nil {
		p.Log.Warn("rabbitmq dial failed", zap.Error(err))
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.Log.Warn("rabbitmq channel open failed", zap.Error(err))
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(TicketQueue, true, false, false, false, nil); err != nil {
		p.Log.Warn("rabbitmq queue declare failed", zap.Error(err))
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.EventID,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", TicketQueue, false, false, pub); err != nil {
		p.Log.Warn("rabbitmq publish failed", zap.Error(err), zap.Uint64("ticket_id", ev.TicketID))
		return err
	}
	p.Log.Debug("ticket event published", zap.String("event_id", ev.EventID), zap.Uint64("ticket_id", ev.TicketID))
	return nil
}
