package billing

import (
	"github.com/jhoicas/schoolhub-api/internal/domain"
	"github.com/jhoicas/schoolhub-api/internal/domain/entity"
)

// transitions estados destino permitidos por estado origen. PAID y CANCELLED son terminales.
var transitions = map[string][]string{
	entity.InvoiceStatusDraft:   {entity.InvoiceStatusSent},
	entity.InvoiceStatusSent:    {entity.InvoiceStatusPaid, entity.InvoiceStatusOverdue, entity.InvoiceStatusCancelled},
	entity.InvoiceStatusOverdue: {entity.InvoiceStatusPaid, entity.InvoiceStatusCancelled},
}

// CanTransition informa si la factura puede pasar de from a to.
func CanTransition(from, to string) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Transition valida y aplica el cambio de estado; devuelve *domain.StateError si no está permitido.
func Transition(inv *entity.Invoice, to string) error {
	if !CanTransition(inv.Status, to) {
		return &domain.StateError{Entity: "invoice", From: inv.Status, To: to}
	}
	inv.Status = to
	return nil
}

// IsEditable las líneas solo se reemplazan mientras la factura está en DRAFT.
func IsEditable(inv *entity.Invoice) bool {
	return inv.Status == entity.InvoiceStatusDraft
}
