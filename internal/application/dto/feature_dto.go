package dto

import (
	"time"

	"github.com/jhoicas/schoolhub-api/internal/domain/entity"
)

// MenuLinkDTO enlace de menú de una funcionalidad.
type MenuLinkDTO struct {
	Name    string `json:"name" yaml:"name" validate:"required,max=100"`
	Href    string `json:"href" yaml:"href" validate:"required,max=255"`
	Icon    string `json:"icon" yaml:"icon" validate:"omitempty,max=100"`
	Enabled *bool  `json:"enabled,omitempty" yaml:"enabled,omitempty"`
}

// CreateFeatureRequest alta de funcionalidad en el catálogo. Key se deriva de Name si viene vacío.
type CreateFeatureRequest struct {
	Key               string        `json:"key" yaml:"key" validate:"omitempty,max=100"`
	Name              string        `json:"name" yaml:"name" validate:"required,max=200"`
	Description       string        `json:"description" yaml:"description" validate:"omitempty,max=2000"`
	Price             int64         `json:"price" yaml:"price" validate:"min=0"`
	PricingType       string        `json:"pricing_type" yaml:"pricing_type" validate:"required"`
	RequiresDateRange bool          `json:"requires_date_range" yaml:"requires_date_range"`
	MenuLinks         []MenuLinkDTO `json:"menu_links" yaml:"menu_links" validate:"omitempty,dive"`
	IsActive          *bool         `json:"is_active,omitempty" yaml:"is_active,omitempty"`
}

// UpdateFeatureRequest actualización parcial; Key solo se acepta si coincide con la actual.
type UpdateFeatureRequest struct {
	Key               *string        `json:"key,omitempty"`
	Name              *string        `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Description       *string        `json:"description,omitempty" validate:"omitempty,max=2000"`
	Price             *int64         `json:"price,omitempty" validate:"omitempty,min=0"`
	PricingType       *string        `json:"pricing_type,omitempty"`
	RequiresDateRange *bool          `json:"requires_date_range,omitempty"`
	MenuLinks         *[]MenuLinkDTO `json:"menu_links,omitempty" validate:"omitempty,dive"`
	IsActive          *bool          `json:"is_active,omitempty"`
}

// FeatureResponse salida de funcionalidad.
type FeatureResponse struct {
	ID                string            `json:"id"`
	Key               string            `json:"key"`
	Name              string            `json:"name"`
	Description       string            `json:"description"`
	Price             int64             `json:"price"`
	PricingType       string            `json:"pricing_type"`
	RequiresDateRange bool              `json:"requires_date_range"`
	MenuLinks         []entity.MenuLink `json:"menu_links"`
	IsActive          bool              `json:"is_active"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// FeatureCatalogFile formato YAML del catálogo semilla.
type FeatureCatalogFile struct {
	Features []CreateFeatureRequest `yaml:"features"`
}

// SeedResult resumen del seed del catálogo.
type SeedResult struct {
	Upserted int      `json:"upserted"`
	Keys     []string `json:"keys"`
}
