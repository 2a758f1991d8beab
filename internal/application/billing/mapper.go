package billing

import (
	"github.com/jhoicas/schoolhub-api/internal/application/dto"
	"github.com/jhoicas/schoolhub-api/internal/domain/entity"
	"github.com/jhoicas/schoolhub-api/pkg/money"
)

const dateLayout = "02 Jan 2006"

func toInvoiceResponse(inv *entity.Invoice, lines []*entity.InvoiceLine) *dto.InvoiceResponse {
	res := &dto.InvoiceResponse{
		ID:            inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		SchoolID:      inv.SchoolID,
		TemplateID:    inv.TemplateID,
		Subtotal:      inv.Subtotal,
		CustomAmount:  inv.CustomAmount,
		TotalAmount:   inv.TotalAmount,
		Status:        inv.Status,
		DueDate:       inv.DueDate,
		PaidAt:        inv.PaidAt,
		SentAt:        inv.SentAt,
		EmailSent:     inv.EmailSent,
		EmailSentAt:   inv.EmailSentAt,
		Notes:         inv.Notes,
		Lines:         make([]dto.InvoiceLineResponse, 0, len(lines)),
		Features:      make([]dto.InvoiceFeatureSummary, 0, len(lines)),
		CreatedAt:     inv.CreatedAt,
		UpdatedAt:     inv.UpdatedAt,
	}
	for _, l := range lines {
		res.Lines = append(res.Lines, dto.InvoiceLineResponse{
			ID:              l.ID,
			FeatureID:       l.FeatureID,
			Description:     l.Description,
			Quantity:        l.Quantity,
			UnitPrice:       l.UnitPrice,
			UnitMeasurement: l.UnitMeasurement,
			NegotiatedPrice: l.NegotiatedPrice,
			StartDate:       l.StartDate,
			EndDate:         l.EndDate,
			Total:           l.Total,
		})
		res.Features = append(res.Features, dto.InvoiceFeatureSummary{
			FeatureID:   l.FeatureID,
			Description: l.Description,
			Total:       l.Total,
		})
	}
	return res
}

func newInvoiceView(school *entity.School, inv *entity.Invoice, lines []*entity.InvoiceLine) InvoiceView {
	v := InvoiceView{
		SchoolName:    school.Name,
		InvoiceNumber: inv.InvoiceNumber,
		Status:        inv.Status,
		DueDate:       inv.DueDate.Format(dateLayout),
		Lines:         make([]InvoiceViewLine, 0, len(lines)),
		Subtotal:      money.Format(inv.Subtotal),
		Total:         money.Format(inv.TotalAmount),
		CustomAmount:  inv.CustomAmount != nil,
		Notes:         inv.Notes,
	}
	for _, l := range lines {
		price := l.UnitPrice
		if l.NegotiatedPrice != nil {
			price = *l.NegotiatedPrice
		}
		line := InvoiceViewLine{
			Description:     l.Description,
			Quantity:        l.Quantity,
			UnitMeasurement: l.UnitMeasurement,
			UnitPrice:       money.Format(price),
			Total:           money.Format(l.Total),
		}
		if l.StartDate != nil && l.EndDate != nil {
			line.Period = l.StartDate.Format(dateLayout) + " - " + l.EndDate.Format(dateLayout)
		}
		v.Lines = append(v.Lines, line)
	}
	return v
}
