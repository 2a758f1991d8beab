package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/schoolhub-api/internal/domain"
	"github.com/jhoicas/schoolhub-api/internal/domain/entity"
	"github.com/jhoicas/schoolhub-api/internal/domain/repository"
	"github.com/jhoicas/schoolhub-api/pkg/logger"
)

// DefaultNotifyTimeout tiempo máximo por canal de notificación.
const DefaultNotifyTimeout = 15 * time.Second

// Channels colaboradores de notificación.
type Channels struct {
	Email    EmailSender
	WhatsApp MessageSender
	Renderer Renderer
}

// Config parámetros del caso de uso.
type Config struct {
	NotifyTimeout time.Duration
}

// InvoiceUseCase ciclo de vida de las facturas de suscripción de las escuelas.
type InvoiceUseCase struct {
	tx           repository.TxRunner
	invoices     repository.InvoiceRepository
	schools      repository.SchoolRepository
	entitlements repository.EntitlementRepository
	channels     Channels
	events       EventPublisher
	metrics      Metrics
	log          *logger.Logger
	cfg          Config
	now          func() time.Time
}

// NewInvoiceUseCase construye el caso de uso. events y metrics pueden ser nil.
func NewInvoiceUseCase(
	tx repository.TxRunner,
	invoices repository.InvoiceRepository,
	schools repository.SchoolRepository,
	entitlements repository.EntitlementRepository,
	channels Channels,
	events EventPublisher,
	metrics Metrics,
	log *logger.Logger,
	cfg Config,
) *InvoiceUseCase {
	if events == nil {
		events = noopPublisher{}
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	if cfg.NotifyTimeout <= 0 {
		cfg.NotifyTimeout = DefaultNotifyTimeout
	}
	return &InvoiceUseCase{
		tx:           tx,
		invoices:     invoices,
		schools:      schools,
		entitlements: entitlements,
		channels:     channels,
		events:       events,
		metrics:      metrics,
		log:          log.Named("billing"),
		cfg:          cfg,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// SetClock reemplaza el reloj (tests y barrido con fecha de corte).
func (uc *InvoiceUseCase) SetClock(now func() time.Time) {
	uc.now = now
}

// publish emite el evento sin propagar fallas: la transacción ya está confirmada.
func (uc *InvoiceUseCase) publish(ctx context.Context, eventType string, inv *entity.Invoice) {
	ev := InvoiceEvent{
		Type:          eventType,
		InvoiceID:     inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		SchoolID:      inv.SchoolID,
		Status:        inv.Status,
		TotalAmount:   inv.TotalAmount,
		OccurredAt:    uc.now(),
	}
	if err := uc.events.Publish(ctx, eventType, ev); err != nil {
		uc.log.Warn().Err(err).Str("event", eventType).Str("invoice_id", inv.ID).Msg("no se pudo publicar evento de factura")
	}
}

func (uc *InvoiceUseCase) getInvoice(ctx context.Context, id string) (*entity.Invoice, error) {
	inv, err := uc.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, fmt.Errorf("invoice %s: %w", id, domain.ErrNotFound)
	}
	return inv, nil
}

func lockInvoice(ctx context.Context, r repository.Repos, id string) (*entity.Invoice, error) {
	inv, err := r.Invoices.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, fmt.Errorf("invoice %s: %w", id, domain.ErrNotFound)
	}
	return inv, nil
}

func lockSchool(ctx context.Context, r repository.Repos, id string) (*entity.School, error) {
	s, err := r.Schools.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("school %s: %w", id, domain.ErrNotFound)
	}
	return s, nil
}

// hasOtherOverdue informa si la escuela tiene facturas OVERDUE distintas de exceptID.
func hasOtherOverdue(ctx context.Context, r repository.Repos, schoolID, exceptID string) (bool, error) {
	return r.Invoices.HasOverdueExcept(ctx, schoolID, exceptID)
}
