package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/schoolhub-api/internal/domain"
	"github.com/jhoicas/schoolhub-api/internal/domain/billing"
	"github.com/jhoicas/schoolhub-api/internal/domain/entity"
	"github.com/jhoicas/schoolhub-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

var timeNow = time.Now

// InvoiceRepo facturas, líneas y consecutivos en memoria.
type InvoiceRepo struct{ s *Store }

func (r *InvoiceRepo) NextSequence(_ context.Context, year int) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.FailNextSequence; err != nil {
		r.s.FailNextSequence = nil
		return 0, err
	}
	r.s.st.sequences[year]++
	return r.s.st.sequences[year], nil
}

func (r *InvoiceRepo) Create(_ context.Context, inv *entity.Invoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.st.invoices {
		if existing.InvoiceNumber == inv.InvoiceNumber {
			return domain.ErrConflict
		}
	}
	r.s.st.invoices[inv.ID] = *inv
	return nil
}

func (r *InvoiceRepo) CreateLine(_ context.Context, line *entity.InvoiceLine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.invoices[line.InvoiceID]; !ok {
		return domain.ErrNotFound
	}
	r.s.st.lines[line.InvoiceID] = append(r.s.st.lines[line.InvoiceID], *line)
	return nil
}

func (r *InvoiceRepo) Update(_ context.Context, inv *entity.Invoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.FailNextInvoiceUpdate; err != nil {
		r.s.FailNextInvoiceUpdate = nil
		return err
	}
	if _, ok := r.s.st.invoices[inv.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.st.invoices[inv.ID] = *inv
	return nil
}

func (r *InvoiceRepo) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.st.invoices[id]
	if !ok {
		return nil, nil
	}
	return &inv, nil
}

func (r *InvoiceRepo) GetForUpdate(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.GetByID(ctx, id)
}

func (r *InvoiceRepo) GetLines(_ context.Context, invoiceID string) ([]*entity.InvoiceLine, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	src := r.s.st.lines[invoiceID]
	out := make([]*entity.InvoiceLine, 0, len(src))
	for i := range src {
		l := src[i]
		out = append(out, &l)
	}
	return out, nil
}

func (r *InvoiceRepo) DeleteLines(_ context.Context, invoiceID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := int64(len(r.s.st.lines[invoiceID]))
	delete(r.s.st.lines, invoiceID)
	return n, nil
}

func (r *InvoiceRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.invoices[id]; !ok {
		return domain.ErrNotFound
	}
	if len(r.s.st.lines[id]) > 0 {
		return domain.ErrConflict // FK invoice_lines -> invoices
	}
	delete(r.s.st.invoices, id)
	return nil
}

func (r *InvoiceRepo) List(_ context.Context, f repository.InvoiceFilter) ([]*entity.Invoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all := make([]*entity.Invoice, 0)
	for _, inv := range r.s.st.invoices {
		if f.SchoolID != "" && inv.SchoolID != f.SchoolID {
			continue
		}
		if f.Status != "" && inv.Status != f.Status {
			continue
		}
		inv := inv
		all = append(all, &inv)
	}
	sort.Slice(all, func(i, j int) bool {
		return billing.CompareInvoiceNumbers(all[i].InvoiceNumber, all[j].InvoiceNumber) > 0
	})
	return page(all, f.Limit, f.Offset), nil
}

func (r *InvoiceRepo) HasOverdueExcept(_ context.Context, schoolID, exceptID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, inv := range r.s.st.invoices {
		if inv.SchoolID == schoolID && inv.Status == entity.InvoiceStatusOverdue && inv.ID != exceptID {
			return true, nil
		}
	}
	return false, nil
}

func (r *InvoiceRepo) ListDueSent(_ context.Context, now time.Time) ([]*entity.Invoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Invoice, 0)
	for _, inv := range r.s.st.invoices {
		if inv.Status == entity.InvoiceStatusSent && inv.DueDate.Before(now) {
			inv := inv
			out = append(out, &inv)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *InvoiceRepo) RevenueSummary(_ context.Context) ([]repository.SchoolRevenue, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	bySchool := map[string]*repository.SchoolRevenue{}
	for _, inv := range r.s.st.invoices {
		sc, ok := r.s.st.schools[inv.SchoolID]
		if !ok {
			continue
		}
		row, ok := bySchool[sc.ID]
		if !ok {
			row = &repository.SchoolRevenue{SchoolID: sc.ID, SchoolName: sc.Name, Paid: decimal.Zero, Outstanding: decimal.Zero}
			bySchool[sc.ID] = row
		}
		row.InvoiceCount++
		switch inv.Status {
		case entity.InvoiceStatusPaid:
			row.Paid = row.Paid.Add(decimal.NewFromInt(inv.TotalAmount))
		case entity.InvoiceStatusSent, entity.InvoiceStatusOverdue:
			row.Outstanding = row.Outstanding.Add(decimal.NewFromInt(inv.TotalAmount))
		}
	}
	out := make([]repository.SchoolRevenue, 0, len(bySchool))
	for _, row := range bySchool {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SchoolName < out[j].SchoolName })
	return out, nil
}
