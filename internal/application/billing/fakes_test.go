package billing_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jhoicas/schoolhub-api/internal/application/billing"
	"github.com/jhoicas/schoolhub-api/internal/domain/entity"
	"github.com/jhoicas/schoolhub-api/internal/domain/repository"
	"github.com/jhoicas/schoolhub-api/internal/infrastructure/memory"
)

const (
	schoolID  = "11111111-1111-1111-1111-111111111111"
	mathID    = "aaaaaaaa-0000-0000-0000-000000000001"
	libraryID = "aaaaaaaa-0000-0000-0000-000000000002"
	termID    = "aaaaaaaa-0000-0000-0000-000000000003"
)

type fakeEmail struct {
	mu   sync.Mutex
	err  error
	sent []billing.EmailMessage
}

func (f *fakeEmail) SendEmail(_ context.Context, msg billing.EmailMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

type fakeWhatsApp struct {
	mu    sync.Mutex
	err   error
	block bool
	sent  []billing.Message
}

func (f *fakeWhatsApp) SendMessage(ctx context.Context, msg billing.Message) error {
	if f.block {
		<-ctx.Done()
		return ctx.Err()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

type fakeRenderer struct{}

func (fakeRenderer) RenderInvoice(v billing.InvoiceView) (*billing.RenderedInvoice, error) {
	return &billing.RenderedInvoice{
		Subject:  "Invoice " + v.InvoiceNumber,
		HTML:     "<p>" + v.Total + "</p>",
		Text:     v.Total,
		WhatsApp: v.InvoiceNumber + " " + v.Total,
	}, nil
}

type fakeEvents struct {
	mu   sync.Mutex
	keys []string
	err  error
}

func (f *fakeEvents) Publish(_ context.Context, key string, _ any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keys = append(f.keys, key)
	return f.err
}

type fixture struct {
	store    *memory.Store
	uc       *billing.InvoiceUseCase
	email    *fakeEmail
	whatsapp *fakeWhatsApp
	events   *fakeEvents
	clock    time.Time
}

func (fx *fixture) setClock(t time.Time) {
	fx.clock = t
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	r := store.Repos()

	require.NoError(t, r.Schools.Create(ctx, &entity.School{
		ID: schoolID, Name: "Alpha Academy", ShortName: "alpha", Type: entity.SchoolTypeK12,
		Status: entity.SchoolStatusActive, PaymentStatus: entity.PaymentStatusPending,
		Email: "bursar@alpha.test", Phone: "+2348000000000",
	}))
	for _, f := range []entity.Feature{
		{ID: mathID, Key: "math", Name: "Mathematics", Price: 10000, PricingType: entity.PricingPerStudent, IsActive: true},
		{ID: libraryID, Key: "library", Name: "Library", Price: 5000, PricingType: entity.PricingPerSchool, IsActive: true},
		{ID: termID, Key: "term_reports", Name: "Term Reports", Price: 2500, PricingType: entity.PricingPerTerm, RequiresDateRange: true, IsActive: true},
	} {
		f := f
		require.NoError(t, r.Features.Create(ctx, &f))
	}
	_, err := r.Entitlements.Upsert(ctx, schoolID, mathID, true)
	require.NoError(t, err)
	_, err = r.Entitlements.Upsert(ctx, schoolID, libraryID, false)
	require.NoError(t, err)
	_, err = r.Entitlements.Upsert(ctx, schoolID, termID, true)
	require.NoError(t, err)

	fx := &fixture{
		store:    store,
		email:    &fakeEmail{},
		whatsapp: &fakeWhatsApp{},
		events:   &fakeEvents{},
		clock:    time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
	}
	fx.uc = fx.useCase(store)
	return fx
}

// useCase arma un InvoiceUseCase sobre el store del fixture con el TxRunner dado.
func (fx *fixture) useCase(tx repository.TxRunner) *billing.InvoiceUseCase {
	r := fx.store.Repos()
	uc := billing.NewInvoiceUseCase(
		tx, r.Invoices, r.Schools, r.Entitlements,
		billing.Channels{Email: fx.email, WhatsApp: fx.whatsapp, Renderer: fakeRenderer{}},
		fx.events, nil, nil,
		billing.Config{NotifyTimeout: 50 * time.Millisecond},
	)
	uc.SetClock(func() time.Time { return fx.clock })
	return uc
}

// invoicesTx entrega los repos del store con el repositorio de facturas envuelto por wrap.
type invoicesTx struct {
	store *memory.Store
	wrap  func(repository.InvoiceRepository) repository.InvoiceRepository
}

func (w invoicesTx) Run(ctx context.Context, fn func(r repository.Repos) error) error {
	return w.store.Run(ctx, func(r repository.Repos) error {
		r.Invoices = w.wrap(r.Invoices)
		return fn(r)
	})
}

// literalLimitInvoices aplica LIMIT tal cual lo haría SQL: Limit 0 no devuelve filas.
type literalLimitInvoices struct{ repository.InvoiceRepository }

func (l literalLimitInvoices) List(ctx context.Context, f repository.InvoiceFilter) ([]*entity.Invoice, error) {
	if f.Limit == 0 {
		return []*entity.Invoice{}, nil
	}
	return l.InvoiceRepository.List(ctx, f)
}

// fixedSequenceInvoices devuelve siempre el mismo consecutivo.
type fixedSequenceInvoices struct {
	repository.InvoiceRepository
	seq int64
}

func (f fixedSequenceInvoices) NextSequence(context.Context, int) (int64, error) {
	return f.seq, nil
}

var errChannelDown = errors.New("channel down")

// school lee la escuela del fixture desde el store.
func (fx *fixture) school(t *testing.T) *entity.School {
	t.Helper()
	s, err := fx.store.Repos().Schools.GetByID(context.Background(), schoolID)
	require.NoError(t, err)
	require.NotNil(t, s)
	return s
}
