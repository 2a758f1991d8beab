package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/schoolhub-api/internal/domain"
	"github.com/jhoicas/schoolhub-api/internal/domain/entity"
	"github.com/jhoicas/schoolhub-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

const invoiceColumns = `id, invoice_number, school_id, template_id, subtotal, total_amount, custom_amount, status,
	due_date, paid_at, sent_at, email_sent, email_sent_at, notes, created_at, updated_at`

// invoiceNumberDesc ordena INV-YYYY-NNN por (año, consecutivo) numéricos; como texto INV-2025-1000 < INV-2025-999.
const invoiceNumberDesc = `split_part(invoice_number, '-', 2)::int DESC, split_part(invoice_number, '-', 3)::bigint DESC`

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// NextSequence incrementa el contador del año; el UPSERT bloquea la fila hasta el commit,
// por lo que dos creaciones concurrentes nunca obtienen el mismo número.
func (r *InvoiceRepo) NextSequence(ctx context.Context, year int) (int64, error) {
	query := `
		INSERT INTO invoice_sequences (year, last_value) VALUES ($1, 1)
		ON CONFLICT (year) DO UPDATE SET last_value = invoice_sequences.last_value + 1
		RETURNING last_value`
	var n int64
	if err := r.q.QueryRow(ctx, query, year).Scan(&n); err != nil {
		return 0, fmt.Errorf("next invoice sequence: %w", err)
	}
	return n, nil
}

// Create persiste la cabecera de la factura.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(ctx, query,
		inv.ID, inv.InvoiceNumber, inv.SchoolID, nullIfEmpty(inv.TemplateID), inv.Subtotal, inv.TotalAmount,
		inv.CustomAmount, inv.Status, inv.DueDate, inv.PaidAt, inv.SentAt, inv.EmailSent, inv.EmailSentAt,
		nullIfEmpty(inv.Notes), inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("invoice number %s: %w", inv.InvoiceNumber, domain.ErrConflict)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// CreateLine persiste una línea; el orden de inserción se conserva con line_no.
func (r *InvoiceRepo) CreateLine(ctx context.Context, l *entity.InvoiceLine) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	query := `
		INSERT INTO invoice_lines (id, invoice_id, feature_id, description, quantity, unit_price,
		                           unit_measurement, negotiated_price, start_date, end_date, total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		l.ID, l.InvoiceID, l.FeatureID, l.Description, l.Quantity, l.UnitPrice,
		l.UnitMeasurement, l.NegotiatedPrice, l.StartDate, l.EndDate, l.Total,
	)
	if err != nil {
		return fmt.Errorf("insert invoice line: %w", err)
	}
	return nil
}

// Update persiste totales, estado y marcas de envío/pago; invoice_number y school_id no cambian.
func (r *InvoiceRepo) Update(ctx context.Context, inv *entity.Invoice) error {
	query := `
		UPDATE invoices
		SET subtotal      = $2,
		    total_amount  = $3,
		    custom_amount = $4,
		    status        = $5,
		    due_date      = $6,
		    paid_at       = $7,
		    sent_at       = $8,
		    email_sent    = $9,
		    email_sent_at = $10,
		    notes         = $11,
		    updated_at    = $12
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		inv.ID, inv.Subtotal, inv.TotalAmount, inv.CustomAmount, inv.Status, inv.DueDate,
		inv.PaidAt, inv.SentAt, inv.EmailSent, inv.EmailSentAt, nullIfEmpty(inv.Notes), inv.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("invoice %s: %w", inv.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.getOne(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id)
}

// GetForUpdate bloquea la cabecera hasta el fin de la transacción.
func (r *InvoiceRepo) GetForUpdate(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.getOne(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1 FOR UPDATE`, id)
}

func (r *InvoiceRepo) GetLines(ctx context.Context, invoiceID string) ([]*entity.InvoiceLine, error) {
	query := `
		SELECT id, invoice_id, feature_id, description, quantity, unit_price, unit_measurement,
		       negotiated_price, start_date, end_date, total
		FROM invoice_lines WHERE invoice_id = $1 ORDER BY line_no`
	rows, err := r.q.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("get invoice lines: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.InvoiceLine, 0)
	for rows.Next() {
		var l entity.InvoiceLine
		if err := rows.Scan(
			&l.ID, &l.InvoiceID, &l.FeatureID, &l.Description, &l.Quantity, &l.UnitPrice, &l.UnitMeasurement,
			&l.NegotiatedPrice, &l.StartDate, &l.EndDate, &l.Total,
		); err != nil {
			return nil, fmt.Errorf("scan invoice line: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

func (r *InvoiceRepo) DeleteLines(ctx context.Context, invoiceID string) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM invoice_lines WHERE invoice_id = $1`, invoiceID)
	if err != nil {
		return 0, fmt.Errorf("delete invoice lines: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Delete borra la cabecera; con líneas aún presentes la FK lo impide.
func (r *InvoiceRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("invoice %s has lines: %w", id, domain.ErrConflict)
		}
		return fmt.Errorf("delete invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("invoice %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// List ordena por número descendente (más recientes primero). Limit 0 no limita: LIMIT NULL equivale a LIMIT ALL.
func (r *InvoiceRepo) List(ctx context.Context, f repository.InvoiceFilter) ([]*entity.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE ($1 = '' OR school_id::text = $1) AND ($2 = '' OR status = $2)
		ORDER BY ` + invoiceNumberDesc + `
		LIMIT NULLIF($3, 0) OFFSET $4`
	rows, err := r.q.Query(ctx, query, f.SchoolID, f.Status, f.Limit, f.Offset)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	return collectInvoices(rows)
}

func (r *InvoiceRepo) HasOverdueExcept(ctx context.Context, schoolID, exceptID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM invoices
			WHERE school_id = $1 AND status = 'OVERDUE' AND id <> $2
		)`
	var found bool
	if err := r.q.QueryRow(ctx, query, schoolID, exceptID).Scan(&found); err != nil {
		return false, fmt.Errorf("check overdue invoices: %w", err)
	}
	return found, nil
}

func (r *InvoiceRepo) ListDueSent(ctx context.Context, now time.Time) ([]*entity.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE status = 'SENT' AND due_date < $1
		ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("list due invoices: %w", err)
	}
	return collectInvoices(rows)
}

// RevenueSummary agrega por escuela; SUM sobre BIGINT devuelve NUMERIC (decimal.Decimal vía pgxdecimal).
func (r *InvoiceRepo) RevenueSummary(ctx context.Context) ([]repository.SchoolRevenue, error) {
	query := `
		SELECT s.id, s.name, COUNT(i.id),
		       COALESCE(SUM(i.total_amount) FILTER (WHERE i.status = 'PAID'), 0),
		       COALESCE(SUM(i.total_amount) FILTER (WHERE i.status IN ('SENT', 'OVERDUE')), 0)
		FROM invoices i
		JOIN schools s ON s.id = i.school_id
		GROUP BY s.id, s.name
		ORDER BY s.name`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("revenue summary: %w", err)
	}
	defer rows.Close()
	out := make([]repository.SchoolRevenue, 0)
	for rows.Next() {
		var row repository.SchoolRevenue
		if err := rows.Scan(&row.SchoolID, &row.SchoolName, &row.InvoiceCount, &row.Paid, &row.Outstanding); err != nil {
			return nil, fmt.Errorf("scan revenue row: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *InvoiceRepo) getOne(ctx context.Context, query string, arg any) (*entity.Invoice, error) {
	inv, err := scanInvoice(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if isNoRow(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	var templateID, notes *string
	err := row.Scan(
		&inv.ID, &inv.InvoiceNumber, &inv.SchoolID, &templateID, &inv.Subtotal, &inv.TotalAmount,
		&inv.CustomAmount, &inv.Status, &inv.DueDate, &inv.PaidAt, &inv.SentAt, &inv.EmailSent,
		&inv.EmailSentAt, &notes, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	inv.TemplateID = derefStr(templateID)
	inv.Notes = derefStr(notes)
	return &inv, nil
}

func collectInvoices(rows pgx.Rows) ([]*entity.Invoice, error) {
	defer rows.Close()
	list := make([]*entity.Invoice, 0)
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}
