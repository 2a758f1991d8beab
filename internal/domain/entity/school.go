package entity

import (
	"regexp"
	"time"
)

// Tipos de escuela.
const (
	SchoolTypeK12      = "K12"
	SchoolTypeNigerian = "NIGERIAN"
)

// Estados operativos de la escuela.
const (
	SchoolStatusActive   = "ACTIVE"
	SchoolStatusDisabled = "DISABLED"
)

// Estados de pago de la escuela (leídos por el control de acceso).
const (
	PaymentStatusPending = "PENDING"
	PaymentStatusPaid    = "PAID"
	PaymentStatusUnpaid  = "UNPAID"
)

var shortNameRe = regexp.MustCompile(`^[a-z0-9-]+$`)

// IsValidShortName valida que el shortName sea apto para URL.
func IsValidShortName(s string) bool {
	return shortNameRe.MatchString(s)
}

// School representa una escuela/tenant de la plataforma.
// AccessBlockedAt es la única entrada del periodo de gracia: se fija al pasar a UNPAID y se limpia al pasar a PAID.
type School struct {
	ID              string
	Name            string
	ShortName       string
	Type            string
	Status          string
	PaymentStatus   string
	NextPaymentDue  *time.Time
	AccessBlockedAt *time.Time
	Email           string
	Phone           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ApplyPaymentStatus cambia el estado de pago manteniendo la regla de AccessBlockedAt.
// Pasar a UNPAID desde otro estado fija el bloqueo en now; repetir UNPAID conserva la fecha original.
// PAID y PENDING limpian el bloqueo.
func (s *School) ApplyPaymentStatus(status string, now time.Time) {
	switch status {
	case PaymentStatusUnpaid:
		if s.PaymentStatus != PaymentStatusUnpaid || s.AccessBlockedAt == nil {
			t := now
			s.AccessBlockedAt = &t
		}
	case PaymentStatusPaid, PaymentStatusPending:
		s.AccessBlockedAt = nil
	}
	s.PaymentStatus = status
	s.UpdatedAt = now
}
