package dto

import "time"

// CreateSchoolRequest alta de escuela con selección inicial de funcionalidades.
type CreateSchoolRequest struct {
	Name           string     `json:"name" validate:"required,max=200"`
	ShortName      string     `json:"short_name" validate:"required,max=50"`
	Type           string     `json:"type" validate:"required,oneof=K12 NIGERIAN"`
	Email          string     `json:"email" validate:"omitempty,email"`
	Phone          string     `json:"phone" validate:"omitempty,max=30"`
	NextPaymentDue *time.Time `json:"next_payment_due,omitempty"`
	FeatureIDs     []string   `json:"feature_ids" validate:"omitempty,dive,uuid"`
}

// SetPaymentStatusRequest cambio manual del estado de pago.
type SetPaymentStatusRequest struct {
	PaymentStatus  string     `json:"payment_status" validate:"required,oneof=PENDING PAID UNPAID"`
	NextPaymentDue *time.Time `json:"next_payment_due,omitempty"`
}

// SchoolResponse salida de escuela.
type SchoolResponse struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	ShortName       string     `json:"short_name"`
	Type            string     `json:"type"`
	Status          string     `json:"status"`
	PaymentStatus   string     `json:"payment_status"`
	NextPaymentDue  *time.Time `json:"next_payment_due,omitempty"`
	AccessBlockedAt *time.Time `json:"access_blocked_at,omitempty"`
	Email           string     `json:"email,omitempty"`
	Phone           string     `json:"phone,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// AccessResponse decisión del control de acceso para la escuela del usuario.
type AccessResponse struct {
	SchoolID      string `json:"school_id"`
	PaymentStatus string `json:"payment_status"`
	Allowed       bool   `json:"allowed"`
	Reason        string `json:"reason"`
	DaysOverdue   int    `json:"days_overdue"`
	GraceDays     int    `json:"grace_days"`
}
