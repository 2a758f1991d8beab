package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/schoolhub-api/internal/application/dto"
	"github.com/jhoicas/schoolhub-api/internal/domain"
	domainbilling "github.com/jhoicas/schoolhub-api/internal/domain/billing"
	"github.com/jhoicas/schoolhub-api/internal/domain/entity"
	"github.com/jhoicas/schoolhub-api/internal/domain/repository"
)

const notEnabledText = "feature is not enabled for this school"

// CreateInvoice valida la selección contra las funcionalidades habilitadas de la escuela, calcula
// totales y persiste número, cabecera y líneas en una sola transacción. La factura nace en DRAFT.
func (uc *InvoiceUseCase) CreateInvoice(ctx context.Context, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	school, err := uc.schools.GetByID(ctx, in.SchoolID)
	if err != nil {
		return nil, err
	}
	if school == nil {
		return nil, fmt.Errorf("school %s: %w", in.SchoolID, domain.ErrNotFound)
	}

	quote, err := uc.quote(ctx, in.SchoolID, in.Lines, in.CustomAmount)
	if err != nil {
		return nil, err
	}
	if in.DueDate.IsZero() {
		return nil, domain.FieldInvalid("due_date", "due_date is required")
	}

	now := uc.now()
	inv := &entity.Invoice{
		ID:           uuid.New().String(),
		SchoolID:     in.SchoolID,
		TemplateID:   in.TemplateID,
		Subtotal:     quote.Subtotal,
		TotalAmount:  quote.Total,
		CustomAmount: quote.CustomAmount,
		Status:       entity.InvoiceStatusDraft,
		DueDate:      in.DueDate.UTC(),
		Notes:        strings.TrimSpace(in.Notes),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	lines := buildLines(inv.ID, quote)

	err = uc.tx.Run(ctx, func(r repository.Repos) error {
		seq, err := r.Invoices.NextSequence(ctx, now.Year())
		if err != nil {
			return fmt.Errorf("next invoice sequence: %w", err)
		}
		inv.InvoiceNumber = domainbilling.FormatInvoiceNumber(now.Year(), seq)
		// Un contador corrupto (0 o negativo) no debe producir números fuera de formato.
		if year, _, err := domainbilling.ParseInvoiceNumber(inv.InvoiceNumber); err != nil || year != now.Year() {
			return fmt.Errorf("allocated invoice number %q for year %d: %w", inv.InvoiceNumber, now.Year(), domain.ErrConflict)
		}
		if err := r.Invoices.Create(ctx, inv); err != nil {
			return err
		}
		for _, l := range lines {
			if err := r.Invoices.CreateLine(ctx, l); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("invoice_id", inv.ID).Str("invoice_number", inv.InvoiceNumber).
		Str("school_id", inv.SchoolID).Int64("total_amount", inv.TotalAmount).Msg("factura creada")
	uc.metrics.InvoiceTransition(inv.Status)
	uc.publish(ctx, EventInvoiceCreated, inv)
	return toInvoiceResponse(inv, lines), nil
}

// ReplaceInvoiceLines reemplaza las líneas de un borrador y recalcula totales en una transacción.
func (uc *InvoiceUseCase) ReplaceInvoiceLines(ctx context.Context, id string, in dto.ReplaceInvoiceLinesRequest) (*dto.InvoiceResponse, error) {
	current, err := uc.getInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domainbilling.IsEditable(current) {
		return nil, &domain.StateError{Entity: "invoice", From: current.Status, To: entity.InvoiceStatusDraft}
	}
	quote, err := uc.quote(ctx, current.SchoolID, in.Lines, in.CustomAmount)
	if err != nil {
		return nil, err
	}

	var inv *entity.Invoice
	var lines []*entity.InvoiceLine
	err = uc.tx.Run(ctx, func(r repository.Repos) error {
		locked, err := lockInvoice(ctx, r, id)
		if err != nil {
			return err
		}
		if !domainbilling.IsEditable(locked) {
			return &domain.StateError{Entity: "invoice", From: locked.Status, To: entity.InvoiceStatusDraft}
		}
		if _, err := r.Invoices.DeleteLines(ctx, id); err != nil {
			return fmt.Errorf("delete invoice lines: %w", err)
		}
		lines = buildLines(id, quote)
		for _, l := range lines {
			if err := r.Invoices.CreateLine(ctx, l); err != nil {
				return err
			}
		}
		locked.Subtotal = quote.Subtotal
		locked.TotalAmount = quote.Total
		locked.CustomAmount = quote.CustomAmount
		locked.UpdatedAt = uc.now()
		if err := r.Invoices.Update(ctx, locked); err != nil {
			return err
		}
		inv = locked
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("invoice_id", id).Int64("total_amount", inv.TotalAmount).Msg("líneas de factura reemplazadas")
	return toInvoiceResponse(inv, lines), nil
}

// quote resuelve precios por defecto y calcula la cotización con las funcionalidades habilitadas.
// Una línea con funcionalidad no habilitada para la escuela se rechaza en lines[i].feature_id.
func (uc *InvoiceUseCase) quote(ctx context.Context, schoolID string, in []dto.InvoiceLineRequest, customAmount *int64) (*domainbilling.Quote, error) {
	rows, err := uc.entitlements.ListBySchool(ctx, schoolID, true)
	if err != nil {
		return nil, err
	}
	enabled := make(map[string]*entity.Feature, len(rows))
	for _, r := range rows {
		f := r.Feature
		enabled[r.FeatureID] = &f
	}

	selections := make([]domainbilling.LineSelection, 0, len(in))
	for _, l := range in {
		sel := domainbilling.LineSelection{
			FeatureID:       l.FeatureID,
			Description:     strings.TrimSpace(l.Description),
			Quantity:        l.Quantity,
			UnitMeasurement: l.UnitMeasurement,
			NegotiatedPrice: l.NegotiatedPrice,
			StartDate:       l.StartDate,
			EndDate:         l.EndDate,
		}
		if l.UnitPrice != nil {
			sel.UnitPrice = *l.UnitPrice
		}
		if f, ok := enabled[l.FeatureID]; ok {
			if l.UnitPrice == nil {
				sel.UnitPrice = f.Price
			}
			if sel.Description == "" {
				sel.Description = f.Name
			}
			if sel.UnitMeasurement == "" {
				sel.UnitMeasurement = f.PricingType
			}
		}
		selections = append(selections, sel)
	}

	quote, err := domainbilling.Calculate(selections, enabled, customAmount)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			for i := range verr.Fields {
				if strings.HasSuffix(verr.Fields[i].Field, ".feature_id") {
					verr.Fields[i].Error = notEnabledText
				}
			}
		}
		return nil, err
	}
	return quote, nil
}

func buildLines(invoiceID string, q *domainbilling.Quote) []*entity.InvoiceLine {
	out := make([]*entity.InvoiceLine, 0, len(q.Lines))
	for _, pl := range q.Lines {
		out = append(out, &entity.InvoiceLine{
			ID:              uuid.New().String(),
			InvoiceID:       invoiceID,
			FeatureID:       pl.FeatureID,
			Description:     pl.Description,
			Quantity:        pl.Quantity,
			UnitPrice:       pl.UnitPrice,
			UnitMeasurement: pl.UnitMeasurement,
			NegotiatedPrice: pl.NegotiatedPrice,
			StartDate:       pl.StartDate,
			EndDate:         pl.EndDate,
			Total:           pl.Total,
		})
	}
	return out
}
