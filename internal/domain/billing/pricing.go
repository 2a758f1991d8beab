package billing

import (
	"fmt"
	"math"
	"time"

	"github.com/jhoicas/schoolhub-api/internal/domain"
	"github.com/jhoicas/schoolhub-api/internal/domain/entity"
)

// LineSelection selección de una funcionalidad para facturar. Precios en kobo.
type LineSelection struct {
	FeatureID       string
	Description     string
	Quantity        int64
	UnitPrice       int64
	UnitMeasurement string
	NegotiatedPrice *int64
	StartDate       *time.Time
	EndDate         *time.Time
}

// EffectivePrice precio aplicado: el negociado si existe, si no el unitario.
func (s LineSelection) EffectivePrice() int64 {
	if s.NegotiatedPrice != nil {
		return *s.NegotiatedPrice
	}
	return s.UnitPrice
}

// PricedLine línea con su total calculado.
type PricedLine struct {
	LineSelection
	Total int64
}

// Quote resultado del cálculo: líneas, subtotal y monto final.
// Si CustomAmount está presente reemplaza al subtotal en Total (no se suma).
type Quote struct {
	Lines        []PricedLine
	Subtotal     int64
	CustomAmount *int64
	Total        int64
}

// LineTotal calcula (negotiatedPrice ?? unitPrice) * quantity detectando desbordamiento.
func LineTotal(s LineSelection) (int64, error) {
	price := s.EffectivePrice()
	if s.Quantity != 0 && price > math.MaxInt64/s.Quantity {
		return 0, fmt.Errorf("line total overflows: %d x %d", price, s.Quantity)
	}
	return price * s.Quantity, nil
}

// Calculate valida las selecciones y calcula líneas, subtotal y total.
// features indexa por ID las funcionalidades referenciadas (para RequiresDateRange);
// una selección cuyo FeatureID no esté en el mapa se reporta como campo inválido.
// Función pura: no consulta persistencia ni reloj.
func Calculate(selections []LineSelection, features map[string]*entity.Feature, customAmount *int64) (*Quote, error) {
	verr := domain.NewValidationError("invalid invoice lines")
	if len(selections) == 0 {
		verr.Add("lines", "at least one feature must be selected")
		return nil, verr
	}
	if customAmount != nil && *customAmount < 0 {
		verr.Add("custom_amount", "must be greater than or equal to 0")
	}

	quote := &Quote{Lines: make([]PricedLine, 0, len(selections)), CustomAmount: customAmount}
	for i, sel := range selections {
		field := func(name string) string { return fmt.Sprintf("lines[%d].%s", i, name) }
		before := len(verr.Fields)

		feature, ok := features[sel.FeatureID]
		if sel.FeatureID == "" || !ok || feature == nil {
			verr.Add(field("feature_id"), "unknown feature")
		}
		if sel.Quantity < 1 {
			verr.Add(field("quantity"), "must be at least 1")
		}
		if sel.UnitPrice < 0 {
			verr.Add(field("unit_price"), "must be greater than or equal to 0")
		}
		if sel.NegotiatedPrice != nil && *sel.NegotiatedPrice < 0 {
			verr.Add(field("negotiated_price"), "must be greater than or equal to 0")
		}
		if ok && feature != nil && feature.RequiresDateRange {
			switch {
			case sel.StartDate == nil || sel.EndDate == nil:
				verr.Add(field("start_date"), "date range is required for "+feature.Name)
			case sel.StartDate.After(*sel.EndDate):
				verr.Add(field("end_date"), "must not be before start_date")
			}
		} else if sel.StartDate != nil && sel.EndDate != nil && sel.StartDate.After(*sel.EndDate) {
			verr.Add(field("end_date"), "must not be before start_date")
		}
		if len(verr.Fields) > before {
			continue
		}

		total, err := LineTotal(sel)
		if err != nil {
			verr.Add(field("quantity"), "line total is too large")
			continue
		}
		if quote.Subtotal > math.MaxInt64-total {
			verr.Add(field("quantity"), "invoice total is too large")
			continue
		}
		quote.Subtotal += total
		quote.Lines = append(quote.Lines, PricedLine{LineSelection: sel, Total: total})
	}
	if verr.HasErrors() {
		return nil, verr
	}

	quote.Total = quote.Subtotal
	if customAmount != nil {
		quote.Total = *customAmount
	}
	return quote, nil
}
