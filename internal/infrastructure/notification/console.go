package notification

import (
	"context"

	"github.com/jhoicas/schoolhub-api/internal/application/billing"
	"github.com/jhoicas/schoolhub-api/pkg/logger"
)

var (
	_ billing.EmailSender   = (*ConsoleEmail)(nil)
	_ billing.MessageSender = (*ConsoleWhatsApp)(nil)
)

// ConsoleEmail escribe el correo en el log (desarrollo, sin credenciales de SendGrid).
type ConsoleEmail struct {
	log *logger.Logger
}

// NewConsoleEmail construye el canal de consola.
func NewConsoleEmail(log *logger.Logger) *ConsoleEmail {
	return &ConsoleEmail{log: log.Named("email")}
}

func (c *ConsoleEmail) SendEmail(_ context.Context, msg billing.EmailMessage) error {
	c.log.Info().Str("to", msg.To).Str("subject", msg.Subject).Msg(msg.Text)
	return nil
}

// ConsoleWhatsApp escribe el mensaje en el log (desarrollo, sin credenciales de Twilio).
type ConsoleWhatsApp struct {
	log *logger.Logger
}

// NewConsoleWhatsApp construye el canal de consola.
func NewConsoleWhatsApp(log *logger.Logger) *ConsoleWhatsApp {
	return &ConsoleWhatsApp{log: log.Named("whatsapp")}
}

func (c *ConsoleWhatsApp) SendMessage(_ context.Context, msg billing.Message) error {
	c.log.Info().Str("to", msg.To).Msg(msg.Body)
	return nil
}
