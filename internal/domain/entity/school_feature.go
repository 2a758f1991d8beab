package entity

import "time"

// SchoolFeature derecho (entitlement) de una escuela sobre una funcionalidad.
// Única por (SchoolID, FeatureID); ausencia de fila = nunca otorgada, no facturable.
type SchoolFeature struct {
	ID        string
	SchoolID  string
	FeatureID string
	Enabled   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SchoolFeatureDetail fila de entitlement unida con el detalle de la funcionalidad.
type SchoolFeatureDetail struct {
	SchoolFeature
	Feature Feature
}

// SchoolFeatureSetup personalización por escuela de los enlaces de menú de una funcionalidad.
type SchoolFeatureSetup struct {
	SchoolID  string
	FeatureID string
	MenuLinks []MenuLink
	UpdatedAt time.Time
}
