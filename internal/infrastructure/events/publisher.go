// Package events publica los eventos del ciclo de vida de facturas hacia un broker.
package events

import (
	"context"
	"fmt"

	"github.com/jhoicas/schoolhub-api/internal/application/billing"
	"github.com/jhoicas/schoolhub-api/pkg/config"
	"github.com/jhoicas/schoolhub-api/pkg/logger"
)

// Publisher billing.EventPublisher con cierre de la conexión subyacente.
type Publisher interface {
	billing.EventPublisher
	Close() error
}

// NopPublisher descarta los eventos (driver "none").
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, any) error { return nil }
func (NopPublisher) Close() error                               { return nil }

// New construye el publicador según cfg.Driver.
func New(cfg config.EventsConfig, log *logger.Logger) (Publisher, error) {
	switch cfg.Driver {
	case "", "none":
		return NopPublisher{}, nil
	case "rabbitmq":
		p, err := NewRabbitMQPublisher(cfg.RabbitMQURL, cfg.RabbitMQQueue)
		if err != nil {
			return nil, fmt.Errorf("rabbitmq publisher: %w", err)
		}
		log.Info().Str("queue", cfg.RabbitMQQueue).Msg("publicador de eventos RabbitMQ listo")
		return p, nil
	case "kafka":
		log.Info().Strs("brokers", cfg.KafkaBrokers).Str("topic", cfg.KafkaTopic).Msg("publicador de eventos Kafka listo")
		return NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic), nil
	default:
		return nil, fmt.Errorf("unknown events driver %q", cfg.Driver)
	}
}
