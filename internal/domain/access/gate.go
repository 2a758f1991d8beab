package access

import (
	"time"

	"github.com/jhoicas/schoolhub-api/internal/domain/entity"
)

// DefaultGraceDays días que una escuela UNPAID conserva el acceso desde AccessBlockedAt.
const DefaultGraceDays = 7

// Motivos de la decisión.
const (
	ReasonPaid           = "paid"
	ReasonPending        = "pending"
	ReasonNotBlocked     = "unpaid_not_blocked"
	ReasonGracePeriod    = "grace_period"
	ReasonPaymentOverdue = "payment_overdue"
	ReasonSchoolDisabled = "school_disabled"
)

// Decision resultado del control de acceso.
type Decision struct {
	Allowed     bool   `json:"allowed"`
	Reason      string `json:"reason"`
	DaysOverdue int    `json:"days_overdue"`
	GraceDays   int    `json:"grace_days"`
}

// Gate predicado puro sobre el estado de pago de la escuela. Independiente de los entitlements.
type Gate struct {
	GraceDays int
}

// NewGate construye el control con los días de gracia dados (<= 0 usa DefaultGraceDays).
func NewGate(graceDays int) Gate {
	if graceDays <= 0 {
		graceDays = DefaultGraceDays
	}
	return Gate{GraceDays: graceDays}
}

// Evaluate decide si los usuarios de la escuela pueden usar la plataforma en now.
//   - PAID o PENDING: permitido.
//   - UNPAID sin AccessBlockedAt: permitido (bloqueo aún no fijado).
//   - UNPAID y now-AccessBlockedAt < GraceDays: permitido (periodo de gracia).
//   - UNPAID y now-AccessBlockedAt >= GraceDays: denegado con DaysOverdue.
func (g Gate) Evaluate(paymentStatus string, accessBlockedAt *time.Time, now time.Time) Decision {
	d := Decision{GraceDays: g.GraceDays}
	switch paymentStatus {
	case entity.PaymentStatusPaid:
		d.Allowed, d.Reason = true, ReasonPaid
		return d
	case entity.PaymentStatusUnpaid:
	default:
		d.Allowed, d.Reason = true, ReasonPending
		return d
	}
	if accessBlockedAt == nil {
		d.Allowed, d.Reason = true, ReasonNotBlocked
		return d
	}
	elapsed := now.Sub(*accessBlockedAt)
	if elapsed < 0 {
		elapsed = 0
	}
	d.DaysOverdue = int(elapsed / (24 * time.Hour))
	if elapsed < time.Duration(g.GraceDays)*24*time.Hour {
		d.Allowed, d.Reason = true, ReasonGracePeriod
		return d
	}
	d.Allowed, d.Reason = false, ReasonPaymentOverdue
	return d
}

// EvaluateSchool aplica Evaluate a la escuela; una escuela DISABLED se deniega siempre.
func (g Gate) EvaluateSchool(s *entity.School, now time.Time) Decision {
	if s.Status == entity.SchoolStatusDisabled {
		return Decision{Allowed: false, Reason: ReasonSchoolDisabled, GraceDays: g.GraceDays}
	}
	return g.Evaluate(s.PaymentStatus, s.AccessBlockedAt, now)
}
