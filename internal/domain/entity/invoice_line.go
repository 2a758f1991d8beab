package entity

import "time"

// InvoiceLine línea de factura: funcionalidad, cantidad y precio pactado (kobo).
// Total = (NegotiatedPrice ?? UnitPrice) * Quantity. No se modifica después de SENT.
type InvoiceLine struct {
	ID              string
	InvoiceID       string
	FeatureID       string
	Description     string
	Quantity        int64
	UnitPrice       int64
	UnitMeasurement string
	NegotiatedPrice *int64
	StartDate       *time.Time
	EndDate         *time.Time
	Total           int64
}
