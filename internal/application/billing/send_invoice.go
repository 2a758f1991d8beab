package billing

import (
	"context"
	"fmt"
	"sync"

	"github.com/jhoicas/schoolhub-api/internal/application/dto"
	"github.com/jhoicas/schoolhub-api/internal/domain"
	domainbilling "github.com/jhoicas/schoolhub-api/internal/domain/billing"
	"github.com/jhoicas/schoolhub-api/internal/domain/entity"
	"github.com/jhoicas/schoolhub-api/internal/domain/repository"
)

// Métodos de envío.
const (
	MethodEmail    = "email"
	MethodWhatsApp = "whatsapp"
	MethodBoth     = "both"
)

// SendInvoice envía la factura persistida por los canales pedidos, cada uno con su propio timeout.
// Nunca falla por un canal caído: el resultado informa éxito por canal y los errores.
// Si la transacción posterior al envío falla, el resultado conserva lo entregado y suma ese error.
// Con al menos un canal exitoso la factura pasa de DRAFT a SENT; el éxito del email marca email_sent.
func (uc *InvoiceUseCase) SendInvoice(ctx context.Context, id string, in dto.SendInvoiceRequest) (*dto.SendInvoiceResponse, error) {
	wantEmail := in.Method == MethodEmail || in.Method == MethodBoth
	wantWhatsApp := in.Method == MethodWhatsApp || in.Method == MethodBoth
	if !wantEmail && !wantWhatsApp {
		return nil, domain.FieldInvalid("method", "method must be one of email, whatsapp, both")
	}

	inv, err := uc.getInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv.Status == entity.InvoiceStatusCancelled {
		return nil, &domain.StateError{Entity: "invoice", From: inv.Status, To: entity.InvoiceStatusSent}
	}
	school, err := uc.schools.GetByID(ctx, inv.SchoolID)
	if err != nil {
		return nil, err
	}
	if school == nil {
		return nil, fmt.Errorf("school %s: %w", inv.SchoolID, domain.ErrNotFound)
	}
	lines, err := uc.invoices.GetLines(ctx, inv.ID)
	if err != nil {
		return nil, err
	}
	content, err := uc.channels.Renderer.RenderInvoice(newInvoiceView(school, inv, lines))
	if err != nil {
		return nil, fmt.Errorf("render invoice %s: %w", inv.InvoiceNumber, err)
	}

	res := &dto.SendInvoiceResponse{Errors: []string{}}
	var mu sync.Mutex
	fail := func(channel string, err error) {
		mu.Lock()
		res.Errors = append(res.Errors, fmt.Sprintf("%s: %v", channel, err))
		mu.Unlock()
		uc.metrics.NotificationResult(channel, false)
		uc.log.Warn().Err(err).Str("channel", channel).Str("invoice_id", inv.ID).Msg("falló el envío de la factura")
	}

	var wg sync.WaitGroup
	if wantEmail {
		to := in.Email
		if to == "" {
			to = school.Email
		}
		if to == "" {
			fail(MethodEmail, fmt.Errorf("no email recipient"))
		} else {
			wg.Add(1)
			go func() {
				defer wg.Done()
				cctx, cancel := context.WithTimeout(ctx, uc.cfg.NotifyTimeout)
				defer cancel()
				err := uc.channels.Email.SendEmail(cctx, EmailMessage{To: to, Subject: content.Subject, HTML: content.HTML, Text: content.Text})
				if err != nil {
					fail(MethodEmail, err)
					return
				}
				mu.Lock()
				res.Email = true
				mu.Unlock()
				uc.metrics.NotificationResult(MethodEmail, true)
			}()
		}
	}
	if wantWhatsApp {
		to := in.Phone
		if to == "" {
			to = school.Phone
		}
		if to == "" {
			fail(MethodWhatsApp, fmt.Errorf("no phone recipient"))
		} else {
			wg.Add(1)
			go func() {
				defer wg.Done()
				cctx, cancel := context.WithTimeout(ctx, uc.cfg.NotifyTimeout)
				defer cancel()
				if err := uc.channels.WhatsApp.SendMessage(cctx, Message{To: to, Body: content.WhatsApp}); err != nil {
					fail(MethodWhatsApp, err)
					return
				}
				mu.Lock()
				res.WhatsApp = true
				mu.Unlock()
				uc.metrics.NotificationResult(MethodWhatsApp, true)
			}()
		}
	}
	wg.Wait()

	res.Status = inv.Status
	if !res.Email && !res.WhatsApp {
		return res, nil
	}

	transitioned := false
	err = uc.tx.Run(ctx, func(r repository.Repos) error {
		locked, err := lockInvoice(ctx, r, id)
		if err != nil {
			return err
		}
		now := uc.now()
		if locked.Status == entity.InvoiceStatusDraft {
			if err := domainbilling.Transition(locked, entity.InvoiceStatusSent); err != nil {
				return err
			}
			locked.SentAt = &now
			transitioned = true
		}
		if res.Email {
			locked.EmailSent = true
			locked.EmailSentAt = &now
		}
		locked.UpdatedAt = now
		if err := r.Invoices.Update(ctx, locked); err != nil {
			return err
		}
		inv = locked
		return nil
	})
	if err != nil {
		// Los canales ya entregaron: se informa lo enviado y la falla de persistencia.
		uc.log.Error().Err(err).Str("invoice_id", inv.ID).Bool("email", res.Email).Bool("whatsapp", res.WhatsApp).
			Msg("factura enviada pero no se pudo registrar el envío")
		res.Errors = append(res.Errors, fmt.Sprintf("persist: %v", err))
		return res, nil
	}

	res.Status = inv.Status
	uc.log.Info().Str("invoice_id", inv.ID).Bool("email", res.Email).Bool("whatsapp", res.WhatsApp).
		Str("status", inv.Status).Msg("factura enviada")
	if transitioned {
		uc.metrics.InvoiceTransition(inv.Status)
		uc.publish(ctx, EventInvoiceSent, inv)
	}
	return res, nil
}
