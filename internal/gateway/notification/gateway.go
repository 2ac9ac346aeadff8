package notification

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"

	"dispatch/internal/entities"
	"dispatch/pkg/logger"

	"github.com/IBM/sarama"
)

// Publisher sends notifications to a Kafka topic, keyed by delivery id so
// that one delivery's notifications stay ordered. Failures are logged and
// never reach the caller.
type Publisher struct {
	producer sarama.AsyncProducer
	topic    string
	log      gatewayLogger
	wg       sync.WaitGroup
}

func New(producer sarama.AsyncProducer, topic string, log gatewayLogger) *Publisher {
	p := &Publisher{
		producer: producer,
		topic:    topic,
		log:      log.With(logger.NewField("component", "notifications")),
	}

	p.wg.Add(1)
	go p.drainErrors()

	return p
}

func (p *Publisher) Notify(ctx context.Context, notification entities.Notification) {
	payload, err := json.Marshal(toMessage(notification))
	if err != nil {
		NotificationsTotal.WithLabelValues(string(notification.Type), "encode_error").Inc()
		p.log.Error("encode notification",
			logger.NewField("type", string(notification.Type)),
			logger.ErrorField(err),
		)
		return
	}

	msg := &sarama.ProducerMessage{
		Topic:    p.topic,
		Key:      sarama.StringEncoder(strconv.FormatInt(notification.DeliveryID, 10)),
		Value:    sarama.ByteEncoder(payload),
		Metadata: notification.Type,
	}

	select {
	case p.producer.Input() <- msg:
		NotificationsTotal.WithLabelValues(string(notification.Type), "queued").Inc()
	case <-ctx.Done():
		NotificationsTotal.WithLabelValues(string(notification.Type), "dropped").Inc()
		p.log.Warn("notification dropped",
			logger.NewField("type", string(notification.Type)),
			logger.NewField("delivery_id", notification.DeliveryID),
			logger.ErrorField(ctx.Err()),
		)
	}
}

// Close flushes buffered messages and stops the error drain.
func (p *Publisher) Close() error {
	err := p.producer.Close()
	p.wg.Wait()
	return err
}

func (p *Publisher) drainErrors() {
	defer p.wg.Done()

	for perr := range p.producer.Errors() {
		kind := "unknown"
		if t, ok := perr.Msg.Metadata.(entities.NotificationType); ok {
			kind = string(t)
		}
		NotificationsTotal.WithLabelValues(kind, "failed").Inc()
		p.log.Error("publish notification",
			logger.NewField("type", kind),
			logger.NewField("topic", perr.Msg.Topic),
			logger.ErrorField(perr.Err),
		)
	}
}

// Nop discards notifications. Used when no notifications topic is set.
type Nop struct{}

func (Nop) Notify(context.Context, entities.Notification) {}
