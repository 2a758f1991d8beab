package billing

import (
	"context"
	"time"
)

// EmailMessage correo a enviar por el canal de email.
type EmailMessage struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// EmailSender canal de email (SendGrid en producción, consola en desarrollo).
type EmailSender interface {
	SendEmail(ctx context.Context, msg EmailMessage) error
}

// Message mensaje corto para WhatsApp.
type Message struct {
	To   string
	Body string
}

// MessageSender canal de mensajería (Twilio WhatsApp en producción, consola en desarrollo).
type MessageSender interface {
	SendMessage(ctx context.Context, msg Message) error
}

// InvoiceView datos de la factura ya formateados para las plantillas.
type InvoiceView struct {
	SchoolName    string
	InvoiceNumber string
	Status        string
	DueDate       string
	Lines         []InvoiceViewLine
	Subtotal      string
	Total         string
	CustomAmount  bool
	Notes         string
}

// InvoiceViewLine línea formateada.
type InvoiceViewLine struct {
	Description     string
	Quantity        int64
	UnitMeasurement string
	UnitPrice       string
	Total           string
	Period          string
}

// RenderedInvoice contenido listo para cada canal.
type RenderedInvoice struct {
	Subject  string
	HTML     string
	Text     string
	WhatsApp string
}

// Renderer arma el contenido de las notificaciones de factura.
type Renderer interface {
	RenderInvoice(view InvoiceView) (*RenderedInvoice, error)
}

// Tipos de evento del ciclo de vida de la factura.
const (
	EventInvoiceCreated   = "invoice.created"
	EventInvoiceSent      = "invoice.sent"
	EventInvoicePaid      = "invoice.paid"
	EventInvoiceCancelled = "invoice.cancelled"
	EventInvoiceOverdue   = "invoice.overdue"
	EventInvoiceDeleted   = "invoice.deleted"
)

// InvoiceEvent evento publicado después del commit.
type InvoiceEvent struct {
	Type          string    `json:"type"`
	InvoiceID     string    `json:"invoice_id"`
	InvoiceNumber string    `json:"invoice_number"`
	SchoolID      string    `json:"school_id"`
	Status        string    `json:"status"`
	TotalAmount   int64     `json:"total_amount"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// EventPublisher publica eventos (RabbitMQ, Kafka o no-op). Best-effort: el error solo se registra.
type EventPublisher interface {
	Publish(ctx context.Context, key string, event any) error
}

// Metrics contadores del ciclo de vida; la implementación Prometheus vive en infraestructura.
type Metrics interface {
	InvoiceTransition(status string)
	NotificationResult(channel string, ok bool)
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, string, any) error { return nil }

type noopMetrics struct{}

func (noopMetrics) InvoiceTransition(string)        {}
func (noopMetrics) NotificationResult(string, bool) {}
