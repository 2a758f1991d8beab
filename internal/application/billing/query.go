package billing

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/schoolhub-api/internal/application/dto"
	"github.com/jhoicas/schoolhub-api/internal/domain/repository"
	"github.com/jhoicas/schoolhub-api/pkg/money"
)

// GetInvoice devuelve la factura con sus líneas.
func (uc *InvoiceUseCase) GetInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.getInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	lines, err := uc.invoices.GetLines(ctx, id)
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv, lines), nil
}

// ListInvoices lista facturas por escuela y/o estado. Las líneas se cargan por factura.
func (uc *InvoiceUseCase) ListInvoices(ctx context.Context, in dto.InvoiceFilter) ([]*dto.InvoiceResponse, error) {
	in.DefaultPage()
	list, err := uc.invoices.List(ctx, repository.InvoiceFilter{
		SchoolID: in.SchoolID,
		Status:   in.Status,
		Limit:    in.Limit,
		Offset:   in.Offset,
	})
	if err != nil {
		return nil, err
	}
	out := make([]*dto.InvoiceResponse, 0, len(list))
	for _, inv := range list {
		lines, err := uc.invoices.GetLines(ctx, inv.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, toInvoiceResponse(inv, lines))
	}
	return out, nil
}

// RevenueSummary totales cobrados y pendientes por escuela.
func (uc *InvoiceUseCase) RevenueSummary(ctx context.Context) (*dto.RevenueSummaryResponse, error) {
	rows, err := uc.invoices.RevenueSummary(ctx)
	if err != nil {
		return nil, err
	}
	res := &dto.RevenueSummaryResponse{Schools: make([]dto.SchoolRevenueResponse, 0, len(rows))}
	totalPaid, totalOutstanding := decimal.Zero, decimal.Zero
	for _, r := range rows {
		totalPaid = totalPaid.Add(r.Paid)
		totalOutstanding = totalOutstanding.Add(r.Outstanding)
		res.Schools = append(res.Schools, dto.SchoolRevenueResponse{
			SchoolID:           r.SchoolID,
			SchoolName:         r.SchoolName,
			InvoiceCount:       r.InvoiceCount,
			Paid:               r.Paid.IntPart(),
			Outstanding:        r.Outstanding.IntPart(),
			PaidDisplay:        money.FormatDecimal(money.DecimalToNaira(r.Paid)),
			OutstandingDisplay: money.FormatDecimal(money.DecimalToNaira(r.Outstanding)),
		})
	}
	res.TotalPaid = totalPaid.IntPart()
	res.TotalOutstanding = totalOutstanding.IntPart()
	res.TotalPaidDisplay = money.FormatDecimal(money.DecimalToNaira(totalPaid))
	res.TotalOutstandingDisplay = money.FormatDecimal(money.DecimalToNaira(totalOutstanding))
	return res, nil
}
