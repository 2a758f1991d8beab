package dto

import "time"

// InvoiceLineRequest selección de una funcionalidad a facturar.
// UnitPrice nil toma el precio del catálogo; UnitMeasurement vacío toma el pricing_type.
type InvoiceLineRequest struct {
	FeatureID       string     `json:"feature_id" validate:"required"`
	Description     string     `json:"description" validate:"omitempty,max=500"`
	Quantity        int64      `json:"quantity"`
	UnitPrice       *int64     `json:"unit_price,omitempty"`
	UnitMeasurement string     `json:"unit_measurement" validate:"omitempty,max=50"`
	NegotiatedPrice *int64     `json:"negotiated_price,omitempty"`
	StartDate       *time.Time `json:"start_date,omitempty"`
	EndDate         *time.Time `json:"end_date,omitempty"`
}

// CreateInvoiceRequest alta de factura.
type CreateInvoiceRequest struct {
	SchoolID     string               `json:"school_id" validate:"required,uuid"`
	TemplateID   string               `json:"template_id" validate:"omitempty,max=100"`
	DueDate      time.Time            `json:"due_date" validate:"required"`
	CustomAmount *int64               `json:"custom_amount,omitempty"`
	Notes        string               `json:"notes" validate:"omitempty,max=2000"`
	Lines        []InvoiceLineRequest `json:"lines" validate:"dive"`
}

// ReplaceInvoiceLinesRequest reemplazo de líneas de un borrador.
type ReplaceInvoiceLinesRequest struct {
	CustomAmount *int64               `json:"custom_amount,omitempty"`
	Lines        []InvoiceLineRequest `json:"lines" validate:"dive"`
}

// SendInvoiceRequest envío por email, whatsapp o ambos. Destinatarios vacíos usan los de la escuela.
type SendInvoiceRequest struct {
	Method string `json:"method" validate:"required,oneof=email whatsapp both"`
	Email  string `json:"email" validate:"omitempty,email"`
	Phone  string `json:"phone" validate:"omitempty,max=30"`
}

// InvoiceFilter filtros de listado.
type InvoiceFilter struct {
	PageRequest
	SchoolID string `query:"school_id" validate:"omitempty,uuid"`
	Status   string `query:"status" validate:"omitempty,oneof=DRAFT SENT PAID OVERDUE CANCELLED"`
}

// InvoiceLineResponse línea persistida.
type InvoiceLineResponse struct {
	ID              string     `json:"id"`
	FeatureID       string     `json:"feature_id"`
	Description     string     `json:"description"`
	Quantity        int64      `json:"quantity"`
	UnitPrice       int64      `json:"unit_price"`
	UnitMeasurement string     `json:"unit_measurement"`
	NegotiatedPrice *int64     `json:"negotiated_price,omitempty"`
	StartDate       *time.Time `json:"start_date,omitempty"`
	EndDate         *time.Time `json:"end_date,omitempty"`
	Total           int64      `json:"total"`
}

// InvoiceFeatureSummary resumen derivado de las líneas (no se persiste).
type InvoiceFeatureSummary struct {
	FeatureID   string `json:"feature_id"`
	Description string `json:"description"`
	Total       int64  `json:"total"`
}

// InvoiceResponse factura con sus líneas. Montos en kobo.
type InvoiceResponse struct {
	ID            string                  `json:"id"`
	InvoiceNumber string                  `json:"invoice_number"`
	SchoolID      string                  `json:"school_id"`
	TemplateID    string                  `json:"template_id,omitempty"`
	Subtotal      int64                   `json:"subtotal"`
	CustomAmount  *int64                  `json:"custom_amount,omitempty"`
	TotalAmount   int64                   `json:"total_amount"`
	Status        string                  `json:"status"`
	DueDate       time.Time               `json:"due_date"`
	PaidAt        *time.Time              `json:"paid_at,omitempty"`
	SentAt        *time.Time              `json:"sent_at,omitempty"`
	EmailSent     bool                    `json:"email_sent"`
	EmailSentAt   *time.Time              `json:"email_sent_at,omitempty"`
	Notes         string                  `json:"notes,omitempty"`
	Lines         []InvoiceLineResponse   `json:"lines"`
	Features      []InvoiceFeatureSummary `json:"features"`
	CreatedAt     time.Time               `json:"created_at"`
	UpdatedAt     time.Time               `json:"updated_at"`
}

// SendInvoiceResponse resultado por canal; nunca falla por un canal caído.
type SendInvoiceResponse struct {
	Email    bool     `json:"email"`
	WhatsApp bool     `json:"whatsapp"`
	Errors   []string `json:"errors"`
	Status   string   `json:"status"`
}

// MarkOverdueResponse resultado del barrido de vencidas.
type MarkOverdueResponse struct {
	Updated   int      `json:"updated"`
	SchoolIDs []string `json:"school_ids"`
}

// SchoolRevenueResponse totales por escuela, en kobo y su presentación en naira.
type SchoolRevenueResponse struct {
	SchoolID           string `json:"school_id"`
	SchoolName         string `json:"school_name"`
	InvoiceCount       int    `json:"invoice_count"`
	Paid               int64  `json:"paid"`
	Outstanding        int64  `json:"outstanding"`
	PaidDisplay        string `json:"paid_display"`
	OutstandingDisplay string `json:"outstanding_display"`
}

// RevenueSummaryResponse resumen global.
type RevenueSummaryResponse struct {
	Schools                 []SchoolRevenueResponse `json:"schools"`
	TotalPaid               int64                   `json:"total_paid"`
	TotalOutstanding        int64                   `json:"total_outstanding"`
	TotalPaidDisplay        string                  `json:"total_paid_display"`
	TotalOutstandingDisplay string                  `json:"total_outstanding_display"`
}
