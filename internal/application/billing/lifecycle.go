package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/schoolhub-api/internal/application/dto"
	domainbilling "github.com/jhoicas/schoolhub-api/internal/domain/billing"
	"github.com/jhoicas/schoolhub-api/internal/domain/entity"
	"github.com/jhoicas/schoolhub-api/internal/domain/repository"
)

// MarkPaid marca la factura como pagada y, en la misma transacción, pasa la escuela a PAID
// limpiando el bloqueo de acceso. Si la escuela aún tiene otras facturas vencidas sigue UNPAID.
func (uc *InvoiceUseCase) MarkPaid(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	var inv *entity.Invoice
	var lines []*entity.InvoiceLine
	var schoolStatus string
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		locked, err := lockInvoice(ctx, r, id)
		if err != nil {
			return err
		}
		if err := domainbilling.Transition(locked, entity.InvoiceStatusPaid); err != nil {
			return err
		}
		now := uc.now()
		locked.PaidAt = &now
		locked.UpdatedAt = now
		if err := r.Invoices.Update(ctx, locked); err != nil {
			return err
		}

		school, err := lockSchool(ctx, r, locked.SchoolID)
		if err != nil {
			return err
		}
		pending, err := hasOtherOverdue(ctx, r, school.ID, locked.ID)
		if err != nil {
			return err
		}
		if !pending {
			school.ApplyPaymentStatus(entity.PaymentStatusPaid, now)
			if err := r.Schools.Update(ctx, school); err != nil {
				return err
			}
		}
		schoolStatus = school.PaymentStatus

		lines, err = r.Invoices.GetLines(ctx, locked.ID)
		if err != nil {
			return err
		}
		inv = locked
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("invoice_id", inv.ID).Str("school_id", inv.SchoolID).
		Str("school_payment_status", schoolStatus).Msg("factura pagada")
	uc.metrics.InvoiceTransition(inv.Status)
	uc.publish(ctx, EventInvoicePaid, inv)
	return toInvoiceResponse(inv, lines), nil
}

// CancelInvoice anula una factura SENT u OVERDUE. Si era la última vencida de una escuela UNPAID,
// la escuela vuelve a PENDING.
func (uc *InvoiceUseCase) CancelInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	var inv *entity.Invoice
	var lines []*entity.InvoiceLine
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		locked, err := lockInvoice(ctx, r, id)
		if err != nil {
			return err
		}
		wasOverdue := locked.Status == entity.InvoiceStatusOverdue
		if err := domainbilling.Transition(locked, entity.InvoiceStatusCancelled); err != nil {
			return err
		}
		now := uc.now()
		locked.UpdatedAt = now
		if err := r.Invoices.Update(ctx, locked); err != nil {
			return err
		}

		if wasOverdue {
			school, err := lockSchool(ctx, r, locked.SchoolID)
			if err != nil {
				return err
			}
			pending, err := hasOtherOverdue(ctx, r, school.ID, locked.ID)
			if err != nil {
				return err
			}
			if !pending && school.PaymentStatus == entity.PaymentStatusUnpaid {
				school.ApplyPaymentStatus(entity.PaymentStatusPending, now)
				if err := r.Schools.Update(ctx, school); err != nil {
					return err
				}
			}
		}

		lines, err = r.Invoices.GetLines(ctx, locked.ID)
		if err != nil {
			return err
		}
		inv = locked
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("invoice_id", inv.ID).Msg("factura anulada")
	uc.metrics.InvoiceTransition(inv.Status)
	uc.publish(ctx, EventInvoiceCancelled, inv)
	return toInvoiceResponse(inv, lines), nil
}

// MarkOverdue pasa a OVERDUE las facturas SENT con vencimiento anterior a now y deja cada escuela
// dueña en UNPAID (el bloqueo se fija en now salvo que ya estuviera UNPAID).
// Cada factura usa su propia transacción; las fallas se acumulan sin detener el barrido.
func (uc *InvoiceUseCase) MarkOverdue(ctx context.Context, now time.Time) (*dto.MarkOverdueResponse, error) {
	candidates, err := uc.invoices.ListDueSent(ctx, now)
	if err != nil {
		return nil, err
	}

	res := &dto.MarkOverdueResponse{SchoolIDs: []string{}}
	seen := map[string]bool{}
	var errs []error
	for _, c := range candidates {
		var inv *entity.Invoice
		err := uc.tx.Run(ctx, func(r repository.Repos) error {
			locked, err := lockInvoice(ctx, r, c.ID)
			if err != nil {
				return err
			}
			if locked.Status != entity.InvoiceStatusSent || !locked.DueDate.Before(now) {
				return nil
			}
			if err := domainbilling.Transition(locked, entity.InvoiceStatusOverdue); err != nil {
				return err
			}
			locked.UpdatedAt = now
			if err := r.Invoices.Update(ctx, locked); err != nil {
				return err
			}
			school, err := lockSchool(ctx, r, locked.SchoolID)
			if err != nil {
				return err
			}
			school.ApplyPaymentStatus(entity.PaymentStatusUnpaid, now)
			if err := r.Schools.Update(ctx, school); err != nil {
				return err
			}
			inv = locked
			return nil
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("invoice %s: %w", c.InvoiceNumber, err))
			continue
		}
		if inv == nil {
			continue
		}
		res.Updated++
		if !seen[inv.SchoolID] {
			seen[inv.SchoolID] = true
			res.SchoolIDs = append(res.SchoolIDs, inv.SchoolID)
		}
		uc.metrics.InvoiceTransition(inv.Status)
		uc.publish(ctx, EventInvoiceOverdue, inv)
	}

	uc.log.Info().Int("updated", res.Updated).Int("schools", len(res.SchoolIDs)).Msg("barrido de facturas vencidas")
	return res, errors.Join(errs...)
}

// DeleteInvoice elimina primero las líneas y luego la cabecera, en una transacción.
func (uc *InvoiceUseCase) DeleteInvoice(ctx context.Context, id string) error {
	var inv *entity.Invoice
	var removed int64
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		locked, err := lockInvoice(ctx, r, id)
		if err != nil {
			return err
		}
		removed, err = r.Invoices.DeleteLines(ctx, id)
		if err != nil {
			return fmt.Errorf("delete invoice lines: %w", err)
		}
		if err := r.Invoices.Delete(ctx, id); err != nil {
			return err
		}
		inv = locked
		return nil
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("invoice_id", id).Int64("lines", removed).Msg("factura eliminada")
	uc.publish(ctx, EventInvoiceDeleted, inv)
	return nil
}
