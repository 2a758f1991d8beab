package dto

import (
	"time"

	"github.com/jhoicas/schoolhub-api/internal/domain/entity"
)

// SchoolFeatureResponse asignación escuela-funcionalidad con el detalle del catálogo.
type SchoolFeatureResponse struct {
	ID        string          `json:"id"`
	SchoolID  string          `json:"school_id"`
	FeatureID string          `json:"feature_id"`
	Enabled   bool            `json:"enabled"`
	Feature   FeatureResponse `json:"feature"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ToggleResponse resultado de habilitar/deshabilitar.
type ToggleResponse struct {
	SchoolID  string `json:"school_id"`
	FeatureID string `json:"feature_id"`
	Enabled   bool   `json:"enabled"`
}

// BulkAssignRequest asignación masiva (producto cruzado escuelas × funcionalidades).
type BulkAssignRequest struct {
	SchoolIDs  []string `json:"school_ids" validate:"required,min=1,dive,uuid"`
	FeatureIDs []string `json:"feature_ids" validate:"required,min=1,dive,uuid"`
}

// BulkAssignResponse cantidad de asignaciones escritas.
type BulkAssignResponse struct {
	Assigned int `json:"assigned"`
}

// SaveFeatureSetupRequest personalización del menú de una funcionalidad.
type SaveFeatureSetupRequest struct {
	MenuLinks []MenuLinkDTO `json:"menu_links" validate:"required,dive"`
}

// FeatureSetupResponse menú efectivo; IsDefault indica que no hay personalización guardada.
type FeatureSetupResponse struct {
	SchoolID  string            `json:"school_id"`
	FeatureID string            `json:"feature_id"`
	MenuLinks []entity.MenuLink `json:"menu_links"`
	IsDefault bool              `json:"is_default"`
}

// MenuSection entrada del menú de la escuela (una por funcionalidad habilitada).
type MenuSection struct {
	FeatureKey  string            `json:"feature_key"`
	FeatureName string            `json:"feature_name"`
	Links       []entity.MenuLink `json:"links"`
}
