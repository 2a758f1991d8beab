package entity

import (
	"regexp"
	"strings"
	"time"
)

// Tipos de cobro de una funcionalidad (unidad de medida del precio).
const (
	PricingPerStudent  = "per_student"
	PricingPerStaff    = "per_staff"
	PricingPerTerm     = "per_term"
	PricingPerSemester = "per_semester"
	PricingPerSchool   = "per_school"
	PricingPerMonth    = "per_month"
	PricingPerYear     = "per_year"
	PricingOneTime     = "one_time"
	PricingPayAsYouGo  = "pay_as_you_go"
	PricingCustom      = "custom"
	PricingFree        = "free"
)

// PricingTypes lista cerrada de tipos de cobro válidos (coincide con el CHECK de features.pricing_type).
var PricingTypes = []string{
	PricingPerStudent, PricingPerStaff, PricingPerTerm, PricingPerSemester, PricingPerSchool,
	PricingPerMonth, PricingPerYear, PricingOneTime, PricingPayAsYouGo, PricingCustom, PricingFree,
}

// IsValidPricingType informa si t es uno de PricingTypes.
func IsValidPricingType(t string) bool {
	for _, p := range PricingTypes {
		if p == t {
			return true
		}
	}
	return false
}

var (
	featureKeyRe  = regexp.MustCompile(`^[a-z0-9_]+$`)
	slugSeparator = regexp.MustCompile(`[^a-z0-9]+`)
)

// IsValidFeatureKey valida el formato de la clave (^[a-z0-9_]+$).
func IsValidFeatureKey(key string) bool {
	return featureKeyRe.MatchString(key)
}

// FeatureKeyFromName deriva la clave desde el nombre: minúsculas y separadores como "_".
// "Library Management" -> "library_management".
func FeatureKeyFromName(name string) string {
	key := slugSeparator.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "_")
	return strings.Trim(key, "_")
}

// MenuLink enlace de menú que una funcionalidad aporta a la navegación de la escuela.
type MenuLink struct {
	Name    string `json:"name" yaml:"name"`
	Href    string `json:"href" yaml:"href"`
	Icon    string `json:"icon" yaml:"icon"`
	Enabled bool   `json:"enabled" yaml:"enabled"`
}

// Feature funcionalidad del catálogo de la plataforma. Price en kobo (unidad mínima).
// Key es inmutable una vez creada; los cambios de nombre no la re-derivan.
type Feature struct {
	ID                string
	Key               string
	Name              string
	Description       string
	Price             int64
	PricingType       string
	RequiresDateRange bool
	MenuLinks         []MenuLink
	IsActive          bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
