package entity

import "time"

// Estados del ciclo de vida de una factura de suscripción.
const (
	InvoiceStatusDraft     = "DRAFT"
	InvoiceStatusSent      = "SENT"
	InvoiceStatusPaid      = "PAID"
	InvoiceStatusOverdue   = "OVERDUE"
	InvoiceStatusCancelled = "CANCELLED"
)

// Invoice cabecera de la factura emitida a una escuela. Montos en kobo.
// Subtotal es la suma de líneas (valor de referencia); TotalAmount = CustomAmount si existe, si no Subtotal.
type Invoice struct {
	ID            string
	InvoiceNumber string // INV-YYYY-NNN, inmutable
	SchoolID      string
	TemplateID    string
	Subtotal      int64
	TotalAmount   int64
	CustomAmount  *int64
	Status        string
	DueDate       time.Time
	PaidAt        *time.Time
	SentAt        *time.Time
	EmailSent     bool
	EmailSentAt   *time.Time
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
