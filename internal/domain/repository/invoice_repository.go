package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/schoolhub-api/internal/domain/entity"
)

// InvoiceFilter filtros de listado de facturas. Limit 0 significa sin límite.
type InvoiceFilter struct {
	SchoolID string
	Status   string
	Limit    int
	Offset   int
}

// SchoolRevenue resumen de facturación por escuela (SUM sobre BIGINT devuelve NUMERIC).
type SchoolRevenue struct {
	SchoolID     string
	SchoolName   string
	InvoiceCount int
	Paid         decimal.Decimal // kobo
	Outstanding  decimal.Decimal // kobo (SENT + OVERDUE)
}

// InvoiceRepository define el puerto de persistencia para Invoice y sus líneas.
type InvoiceRepository interface {
	// NextSequence reserva el siguiente consecutivo del año (fila bloqueada hasta el fin de la tx).
	NextSequence(ctx context.Context, year int) (int64, error)
	Create(ctx context.Context, invoice *entity.Invoice) error
	CreateLine(ctx context.Context, line *entity.InvoiceLine) error
	// Update persiste totales, estado y marcas de envío/pago.
	Update(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	// GetForUpdate bloquea la cabecera (SELECT FOR UPDATE); solo dentro de una tx.
	GetForUpdate(ctx context.Context, id string) (*entity.Invoice, error)
	GetLines(ctx context.Context, invoiceID string) ([]*entity.InvoiceLine, error)
	DeleteLines(ctx context.Context, invoiceID string) (int64, error)
	Delete(ctx context.Context, id string) error
	// List ordena por número de factura descendente, comparando (año, consecutivo) como enteros.
	List(ctx context.Context, filter InvoiceFilter) ([]*entity.Invoice, error)
	// HasOverdueExcept informa si la escuela tiene alguna factura OVERDUE con id distinto de exceptID.
	HasOverdueExcept(ctx context.Context, schoolID, exceptID string) (bool, error)
	// ListDueSent devuelve las facturas SENT con due_date anterior a now.
	ListDueSent(ctx context.Context, now time.Time) ([]*entity.Invoice, error)
	RevenueSummary(ctx context.Context) ([]SchoolRevenue, error)
}
