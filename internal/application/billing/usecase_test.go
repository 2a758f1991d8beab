package billing_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/schoolhub-api/internal/application/billing"
	"github.com/jhoicas/schoolhub-api/internal/application/dto"
	"github.com/jhoicas/schoolhub-api/internal/domain"
	"github.com/jhoicas/schoolhub-api/internal/domain/entity"
	"github.com/jhoicas/schoolhub-api/internal/domain/repository"
)

func ptr[T any](v T) *T { return &v }

func mathInvoice(qty int64) dto.CreateInvoiceRequest {
	return dto.CreateInvoiceRequest{
		SchoolID: schoolID,
		DueDate:  time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		Lines:    []dto.InvoiceLineRequest{{FeatureID: mathID, Quantity: qty}},
	}
}

func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr), "se esperaba ValidationError, got %v", err)
	out := map[string]string{}
	for _, f := range verr.Fields {
		out[f.Field] = f.Error
	}
	return out
}

// ────────────────────────────────────────────────────────────────────────────
// CreateInvoice
// ────────────────────────────────────────────────────────────────────────────

func TestCreateInvoice_TotalEsSumaDeLineas(t *testing.T) {
	fx := newFixture(t)
	in := mathInvoice(30)
	start := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 4, 4, 0, 0, 0, 0, time.UTC)
	in.Lines = append(in.Lines, dto.InvoiceLineRequest{FeatureID: termID, Quantity: 2, StartDate: &start, EndDate: &end})

	inv, err := fx.uc.CreateInvoice(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, "INV-2025-001", inv.InvoiceNumber)
	assert.Equal(t, entity.InvoiceStatusDraft, inv.Status)
	require.Len(t, inv.Lines, 2)
	var sum int64
	for _, l := range inv.Lines {
		sum += l.Total
	}
	assert.Equal(t, sum, inv.TotalAmount)
	assert.Equal(t, int64(30*10000+2*2500), inv.TotalAmount)
	assert.Equal(t, "Mathematics", inv.Lines[0].Description)
	assert.Equal(t, entity.PricingPerStudent, inv.Lines[0].UnitMeasurement)
	assert.Equal(t, []string{billing.EventInvoiceCreated}, fx.events.keys)
}

func TestCreateInvoice_FuncionalidadNoHabilitadaSeRechaza(t *testing.T) {
	fx := newFixture(t)
	in := mathInvoice(1)
	in.Lines = append(in.Lines, dto.InvoiceLineRequest{FeatureID: libraryID, Quantity: 1})

	_, err := fx.uc.CreateInvoice(context.Background(), in)
	fields := fieldErrors(t, err)
	assert.Equal(t, "feature is not enabled for this school", fields["lines[1].feature_id"])
	assert.NotContains(t, fields, "lines[0].feature_id")
}

func TestCreateInvoice_RangoDeFechasObligatorio(t *testing.T) {
	fx := newFixture(t)
	in := mathInvoice(1)
	in.Lines = []dto.InvoiceLineRequest{{FeatureID: termID, Quantity: 1}}

	_, err := fx.uc.CreateInvoice(context.Background(), in)
	assert.Contains(t, fieldErrors(t, err), "lines[0].start_date")
}

func TestCreateInvoice_SinLineasYEscuelaInexistente(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	in := mathInvoice(1)
	in.Lines = nil
	_, err := fx.uc.CreateInvoice(ctx, in)
	assert.Contains(t, fieldErrors(t, err), "lines")

	in = mathInvoice(1)
	in.SchoolID = "99999999-9999-9999-9999-999999999999"
	_, err = fx.uc.CreateInvoice(ctx, in)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestCreateInvoice_MontoPersonalizadoReemplazaTotal(t *testing.T) {
	fx := newFixture(t)
	in := mathInvoice(10)
	in.CustomAmount = ptr(int64(75000))

	inv, err := fx.uc.CreateInvoice(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, int64(100000), inv.Subtotal)
	assert.Equal(t, int64(75000), inv.TotalAmount)
}

func TestCreateInvoice_NumeracionCreceYReiniciaPorAnio(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	fx.setClock(time.Date(2025, 12, 31, 23, 0, 0, 0, time.UTC))
	a, err := fx.uc.CreateInvoice(ctx, mathInvoice(1))
	require.NoError(t, err)
	b, err := fx.uc.CreateInvoice(ctx, mathInvoice(1))
	require.NoError(t, err)

	fx.setClock(time.Date(2026, 1, 1, 0, 5, 0, 0, time.UTC))
	c, err := fx.uc.CreateInvoice(ctx, mathInvoice(1))
	require.NoError(t, err)

	assert.Equal(t, "INV-2025-001", a.InvoiceNumber)
	assert.Equal(t, "INV-2025-002", b.InvoiceNumber)
	assert.Equal(t, "INV-2026-001", c.InvoiceNumber)
}

func TestCreateInvoice_FallaEnTransaccionNoDejaRastro(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	fx.store.FailNextSequence = errors.New("sequence unavailable")

	_, err := fx.uc.CreateInvoice(ctx, mathInvoice(1))
	require.Error(t, err)

	list, err := fx.uc.ListInvoices(ctx, dto.InvoiceFilter{SchoolID: schoolID})
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Empty(t, fx.events.keys)
}

func TestCreateInvoice_ConsecutivoInvalidoNoPersiste(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	uc := fx.useCase(invoicesTx{store: fx.store, wrap: func(r repository.InvoiceRepository) repository.InvoiceRepository {
		return fixedSequenceInvoices{InvoiceRepository: r, seq: 0}
	}})

	_, err := uc.CreateInvoice(ctx, mathInvoice(1))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
	assert.Contains(t, err.Error(), "INV-2025-000")

	list, err := fx.uc.ListInvoices(ctx, dto.InvoiceFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.NotContains(t, fx.events.keys, billing.EventInvoiceCreated)
}

func TestCreateInvoice_RoundTripConGetInvoice(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	in := mathInvoice(12)
	in.Lines[0].NegotiatedPrice = ptr(int64(8000))
	in.Notes = "First term"

	created, err := fx.uc.CreateInvoice(ctx, in)
	require.NoError(t, err)

	got, err := fx.uc.GetInvoice(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Lines, got.Lines)
	assert.Equal(t, created.TotalAmount, got.TotalAmount)
	assert.Equal(t, created.Subtotal, got.Subtotal)
	assert.Equal(t, created.InvoiceNumber, got.InvoiceNumber)
	assert.Equal(t, int64(12*8000), got.TotalAmount)
	require.Len(t, got.Features, 1)
	assert.Equal(t, mathID, got.Features[0].FeatureID)
}

// ────────────────────────────────────────────────────────────────────────────
// ReplaceInvoiceLines
// ────────────────────────────────────────────────────────────────────────────

func TestReplaceInvoiceLines_QuitarNegociadoVuelveAlUnitario(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	in := mathInvoice(5)
	in.Lines[0].NegotiatedPrice = ptr(int64(7000))
	inv, err := fx.uc.CreateInvoice(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, int64(35000), inv.TotalAmount)

	updated, err := fx.uc.ReplaceInvoiceLines(ctx, inv.ID, dto.ReplaceInvoiceLinesRequest{
		Lines: []dto.InvoiceLineRequest{{FeatureID: mathID, Quantity: 5}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(50000), updated.TotalAmount)

	got, err := fx.uc.GetInvoice(ctx, inv.ID)
	require.NoError(t, err)
	require.Len(t, got.Lines, 1)
	assert.Nil(t, got.Lines[0].NegotiatedPrice)
	assert.Equal(t, int64(50000), got.TotalAmount)
}

func TestReplaceInvoiceLines_SoloEnBorrador(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	inv, err := fx.uc.CreateInvoice(ctx, mathInvoice(1))
	require.NoError(t, err)
	_, err = fx.uc.SendInvoice(ctx, inv.ID, dto.SendInvoiceRequest{Method: billing.MethodEmail})
	require.NoError(t, err)

	_, err = fx.uc.ReplaceInvoiceLines(ctx, inv.ID, dto.ReplaceInvoiceLinesRequest{
		Lines: []dto.InvoiceLineRequest{{FeatureID: mathID, Quantity: 2}},
	})
	assert.True(t, errors.Is(err, domain.ErrInvalidState))
}

// ────────────────────────────────────────────────────────────────────────────
// SendInvoice
// ────────────────────────────────────────────────────────────────────────────

func TestSendInvoice_AmbosCanalesOK(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	inv, err := fx.uc.CreateInvoice(ctx, mathInvoice(3))
	require.NoError(t, err)

	res, err := fx.uc.SendInvoice(ctx, inv.ID, dto.SendInvoiceRequest{Method: billing.MethodBoth})
	require.NoError(t, err)
	assert.True(t, res.Email)
	assert.True(t, res.WhatsApp)
	assert.Empty(t, res.Errors)
	assert.Equal(t, entity.InvoiceStatusSent, res.Status)

	require.Len(t, fx.email.sent, 1)
	assert.Equal(t, "bursar@alpha.test", fx.email.sent[0].To)
	assert.Equal(t, "Invoice INV-2025-001", fx.email.sent[0].Subject)
	require.Len(t, fx.whatsapp.sent, 1)
	assert.Equal(t, "+2348000000000", fx.whatsapp.sent[0].To)

	got, err := fx.uc.GetInvoice(ctx, inv.ID)
	require.NoError(t, err)
	assert.True(t, got.EmailSent)
	assert.NotNil(t, got.EmailSentAt)
	assert.NotNil(t, got.SentAt)
	assert.Contains(t, fx.events.keys, billing.EventInvoiceSent)
}

func TestSendInvoice_FallaParcialNoLanzaError(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	fx.whatsapp.err = errChannelDown
	inv, err := fx.uc.CreateInvoice(ctx, mathInvoice(1))
	require.NoError(t, err)

	res, err := fx.uc.SendInvoice(ctx, inv.ID, dto.SendInvoiceRequest{Method: billing.MethodBoth, Email: "other@alpha.test"})
	require.NoError(t, err)
	assert.True(t, res.Email)
	assert.False(t, res.WhatsApp)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "whatsapp")
	assert.Equal(t, entity.InvoiceStatusSent, res.Status)
	assert.Equal(t, "other@alpha.test", fx.email.sent[0].To)
}

func TestSendInvoice_SoloWhatsAppNoMarcaEmail(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	inv, err := fx.uc.CreateInvoice(ctx, mathInvoice(1))
	require.NoError(t, err)

	_, err = fx.uc.SendInvoice(ctx, inv.ID, dto.SendInvoiceRequest{Method: billing.MethodWhatsApp})
	require.NoError(t, err)

	got, err := fx.uc.GetInvoice(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusSent, got.Status)
	assert.False(t, got.EmailSent)
	assert.Nil(t, got.EmailSentAt)
}

func TestSendInvoice_TodosFallanQuedaEnBorrador(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	fx.email.err = errChannelDown
	fx.whatsapp.block = true
	inv, err := fx.uc.CreateInvoice(ctx, mathInvoice(1))
	require.NoError(t, err)

	res, err := fx.uc.SendInvoice(ctx, inv.ID, dto.SendInvoiceRequest{Method: billing.MethodBoth})
	require.NoError(t, err)
	assert.False(t, res.Email)
	assert.False(t, res.WhatsApp)
	assert.Len(t, res.Errors, 2)
	assert.Equal(t, entity.InvoiceStatusDraft, res.Status)

	got, err := fx.uc.GetInvoice(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusDraft, got.Status)
	assert.False(t, got.EmailSent)
}

func TestSendInvoice_AnuladaEsErrorDeEstado(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	inv, err := fx.uc.CreateInvoice(ctx, mathInvoice(1))
	require.NoError(t, err)
	_, err = fx.uc.SendInvoice(ctx, inv.ID, dto.SendInvoiceRequest{Method: billing.MethodEmail})
	require.NoError(t, err)
	_, err = fx.uc.CancelInvoice(ctx, inv.ID)
	require.NoError(t, err)

	_, err = fx.uc.SendInvoice(ctx, inv.ID, dto.SendInvoiceRequest{Method: billing.MethodEmail})
	assert.True(t, errors.Is(err, domain.ErrInvalidState))
}

func TestSendInvoice_FallaAlRegistrarConservaResultadoPorCanal(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	inv, err := fx.uc.CreateInvoice(ctx, mathInvoice(1))
	require.NoError(t, err)
	fx.store.FailNextInvoiceUpdate = errors.New("connection reset")

	res, err := fx.uc.SendInvoice(ctx, inv.ID, dto.SendInvoiceRequest{Method: billing.MethodBoth})
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.True(t, res.Email, "el email ya salió")
	assert.True(t, res.WhatsApp, "el WhatsApp ya salió")
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "persist")
	assert.Contains(t, res.Errors[0], "connection reset")
	assert.Equal(t, entity.InvoiceStatusDraft, res.Status)
	assert.Len(t, fx.email.sent, 1)
	assert.Len(t, fx.whatsapp.sent, 1)

	got, err := fx.uc.GetInvoice(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusDraft, got.Status)
	assert.False(t, got.EmailSent)
	assert.NotContains(t, fx.events.keys, billing.EventInvoiceSent)
}

// ────────────────────────────────────────────────────────────────────────────
// MarkPaid / MarkOverdue / Cancel
// ────────────────────────────────────────────────────────────────────────────

func TestMarkPaid_BorradorNoSePuedePagar(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	inv, err := fx.uc.CreateInvoice(ctx, mathInvoice(1))
	require.NoError(t, err)

	_, err = fx.uc.MarkPaid(ctx, inv.ID)
	var serr *domain.StateError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, entity.InvoiceStatusDraft, serr.From)
}

func TestMarkOverdueLuegoMarkPaid_ActualizaEscuela(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	inv, err := fx.uc.CreateInvoice(ctx, mathInvoice(1))
	require.NoError(t, err)
	_, err = fx.uc.SendInvoice(ctx, inv.ID, dto.SendInvoiceRequest{Method: billing.MethodEmail})
	require.NoError(t, err)

	sweepAt := time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC)
	res, err := fx.uc.MarkOverdue(ctx, sweepAt)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Updated)
	assert.Equal(t, []string{schoolID}, res.SchoolIDs)

	s := fx.school(t)
	assert.Equal(t, entity.PaymentStatusUnpaid, s.PaymentStatus)
	require.NotNil(t, s.AccessBlockedAt)
	assert.Equal(t, sweepAt, *s.AccessBlockedAt)

	// Repetir el barrido no vuelve a contar la factura.
	res, err = fx.uc.MarkOverdue(ctx, sweepAt.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 0, res.Updated)

	paid, err := fx.uc.MarkPaid(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusPaid, paid.Status)
	assert.NotNil(t, paid.PaidAt)

	s = fx.school(t)
	assert.Equal(t, entity.PaymentStatusPaid, s.PaymentStatus)
	assert.Nil(t, s.AccessBlockedAt)

	_, err = fx.uc.MarkPaid(ctx, inv.ID)
	assert.True(t, errors.Is(err, domain.ErrInvalidState), "PAID es terminal")
}

func TestMarkPaid_OtraVencidaMantieneUnpaid(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	a, err := fx.uc.CreateInvoice(ctx, mathInvoice(1))
	require.NoError(t, err)
	b, err := fx.uc.CreateInvoice(ctx, mathInvoice(2))
	require.NoError(t, err)
	for _, id := range []string{a.ID, b.ID} {
		_, err = fx.uc.SendInvoice(ctx, id, dto.SendInvoiceRequest{Method: billing.MethodEmail})
		require.NoError(t, err)
	}
	_, err = fx.uc.MarkOverdue(ctx, time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	_, err = fx.uc.MarkPaid(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusUnpaid, fx.school(t).PaymentStatus)

	_, err = fx.uc.MarkPaid(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusPaid, fx.school(t).PaymentStatus)
}

func TestMarkPaidYCancel_VencidasRestantesNoDependenDelPaginado(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	ids := make([]string, 0, 3)
	for qty := int64(1); qty <= 3; qty++ {
		inv, err := fx.uc.CreateInvoice(ctx, mathInvoice(qty))
		require.NoError(t, err)
		_, err = fx.uc.SendInvoice(ctx, inv.ID, dto.SendInvoiceRequest{Method: billing.MethodEmail})
		require.NoError(t, err)
		ids = append(ids, inv.ID)
	}
	_, err := fx.uc.MarkOverdue(ctx, time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	blockedAt := fx.school(t).AccessBlockedAt
	require.NotNil(t, blockedAt)

	uc := fx.useCase(invoicesTx{store: fx.store, wrap: func(r repository.InvoiceRepository) repository.InvoiceRepository {
		return literalLimitInvoices{r}
	}})

	_, err = uc.MarkPaid(ctx, ids[0])
	require.NoError(t, err)
	s := fx.school(t)
	assert.Equal(t, entity.PaymentStatusUnpaid, s.PaymentStatus, "quedan dos vencidas")
	assert.Equal(t, blockedAt, s.AccessBlockedAt, "el bloqueo sigue contando desde el origen")

	_, err = uc.CancelInvoice(ctx, ids[1])
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusUnpaid, fx.school(t).PaymentStatus, "queda una vencida")

	_, err = uc.MarkPaid(ctx, ids[2])
	require.NoError(t, err)
	s = fx.school(t)
	assert.Equal(t, entity.PaymentStatusPaid, s.PaymentStatus)
	assert.Nil(t, s.AccessBlockedAt)
}

func TestListInvoices_OrdenNumericoPasado999(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	require.NoError(t, fx.store.Run(ctx, func(r repository.Repos) error {
		for i := 0; i < 998; i++ {
			if _, err := r.Invoices.NextSequence(ctx, 2025); err != nil {
				return err
			}
		}
		return nil
	}))

	first, err := fx.uc.CreateInvoice(ctx, mathInvoice(1))
	require.NoError(t, err)
	second, err := fx.uc.CreateInvoice(ctx, mathInvoice(1))
	require.NoError(t, err)
	require.Equal(t, "INV-2025-999", first.InvoiceNumber)
	require.Equal(t, "INV-2025-1000", second.InvoiceNumber)

	list, err := fx.uc.ListInvoices(ctx, dto.InvoiceFilter{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "INV-2025-1000", list[0].InvoiceNumber)
	assert.Equal(t, "INV-2025-999", list[1].InvoiceNumber)
}

func TestCancelInvoice_UltimaVencidaLiberaEscuela(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	inv, err := fx.uc.CreateInvoice(ctx, mathInvoice(1))
	require.NoError(t, err)
	_, err = fx.uc.SendInvoice(ctx, inv.ID, dto.SendInvoiceRequest{Method: billing.MethodEmail})
	require.NoError(t, err)
	_, err = fx.uc.MarkOverdue(ctx, time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	cancelled, err := fx.uc.CancelInvoice(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusCancelled, cancelled.Status)

	s := fx.school(t)
	assert.Equal(t, entity.PaymentStatusPending, s.PaymentStatus)
	assert.Nil(t, s.AccessBlockedAt)

	_, err = fx.uc.MarkPaid(ctx, inv.ID)
	assert.True(t, errors.Is(err, domain.ErrInvalidState), "CANCELLED es terminal")
}

// ────────────────────────────────────────────────────────────────────────────
// DeleteInvoice / RevenueSummary
// ────────────────────────────────────────────────────────────────────────────

func TestDeleteInvoice_EliminaLineas(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	inv, err := fx.uc.CreateInvoice(ctx, mathInvoice(4))
	require.NoError(t, err)

	require.NoError(t, fx.uc.DeleteInvoice(ctx, inv.ID))

	lines, err := fx.store.Repos().Invoices.GetLines(ctx, inv.ID)
	require.NoError(t, err)
	assert.Empty(t, lines)
	_, err = fx.uc.GetInvoice(ctx, inv.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	err = fx.uc.DeleteInvoice(ctx, inv.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestRevenueSummary_PagadoYPendiente(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	paid, err := fx.uc.CreateInvoice(ctx, mathInvoice(10))
	require.NoError(t, err)
	open, err := fx.uc.CreateInvoice(ctx, mathInvoice(3))
	require.NoError(t, err)
	_, err = fx.uc.CreateInvoice(ctx, mathInvoice(1)) // borrador: no cuenta
	require.NoError(t, err)
	for _, id := range []string{paid.ID, open.ID} {
		_, err = fx.uc.SendInvoice(ctx, id, dto.SendInvoiceRequest{Method: billing.MethodEmail})
		require.NoError(t, err)
	}
	_, err = fx.uc.MarkPaid(ctx, paid.ID)
	require.NoError(t, err)

	sum, err := fx.uc.RevenueSummary(ctx)
	require.NoError(t, err)
	require.Len(t, sum.Schools, 1)
	assert.Equal(t, 3, sum.Schools[0].InvoiceCount)
	assert.Equal(t, int64(100000), sum.TotalPaid)
	assert.Equal(t, int64(30000), sum.TotalOutstanding)
	assert.Equal(t, "₦1,000.00", sum.TotalPaidDisplay)
	assert.Equal(t, "₦300.00", sum.Schools[0].OutstandingDisplay)
}

func TestPublicar_FallaNoAfectaOperacion(t *testing.T) {
	fx := newFixture(t)
	fx.events.err = errors.New("broker down")

	_, err := fx.uc.CreateInvoice(context.Background(), mathInvoice(1))
	assert.NoError(t, err)
}
