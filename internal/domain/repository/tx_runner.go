package repository

import "context"

// Repos repositorios atados a una misma transacción.
type Repos struct {
	Features     FeatureRepository
	Schools      SchoolRepository
	Entitlements EntitlementRepository
	Invoices     InvoiceRepository
	Supplies     SupplyRepository
}

// TxRunner ejecuta fn dentro de una transacción de BD; error de fn implica rollback.
type TxRunner interface {
	Run(ctx context.Context, fn func(r Repos) error) error
}
