package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/schoolhub-api/internal/application/billing"
	"github.com/jhoicas/schoolhub-api/internal/application/dto"
	"github.com/jhoicas/schoolhub-api/internal/domain"
)

// InvoiceHandler facturas de suscripción: administración (superadmin) y consulta de la escuela.
type InvoiceHandler struct {
	uc *billing.InvoiceUseCase
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(uc *billing.InvoiceUseCase) *InvoiceHandler {
	return &InvoiceHandler{uc: uc}
}

// Create godoc
// @Summary      Crear factura (borrador)
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateInvoiceRequest  true  "escuela, vencimiento y líneas"
// @Success      201   {object}  dto.InvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/invoices [post]
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInvoiceRequest
	if err := bind(c, &in); err != nil {
		return err
	}
	inv, err := h.uc.CreateInvoice(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(inv)
}

// List godoc
// @Summary      Listar facturas
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        school_id  query  string  false  "escuela"
// @Param        status     query  string  false  "DRAFT | SENT | PAID | OVERDUE | CANCELLED"
// @Param        limit      query  int     false  "máx. 100"
// @Param        offset     query  int     false  "desplazamiento"
// @Success      200  {array}  dto.InvoiceResponse
// @Router       /api/invoices [get]
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	f := invoiceFilter(c)
	f.SchoolID = c.Query("school_id")
	if err := validate.Struct(&f); err != nil {
		return err
	}
	list, err := h.uc.ListInvoices(c.UserContext(), f)
	if err != nil {
		return err
	}
	return c.JSON(list)
}

// GetByID GET /api/invoices/:id (cabecera, líneas y resumen de funcionalidades).
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	inv, err := h.uc.GetInvoice(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(inv)
}

// ReplaceLines PUT /api/invoices/:id/lines. Solo borradores.
func (h *InvoiceHandler) ReplaceLines(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var in dto.ReplaceInvoiceLinesRequest
	if err := bind(c, &in); err != nil {
		return err
	}
	inv, err := h.uc.ReplaceInvoiceLines(c.UserContext(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(inv)
}

// Send godoc
// @Summary      Enviar factura por email y/o WhatsApp
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                  true  "invoice id"
// @Param        body  body  dto.SendInvoiceRequest  true  "method: email | whatsapp | both"
// @Success      200   {object}  dto.SendInvoiceResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/send [post]
func (h *InvoiceHandler) Send(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var in dto.SendInvoiceRequest
	if err := bind(c, &in); err != nil {
		return err
	}
	out, err := h.uc.SendInvoice(c.UserContext(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// MarkPaid PATCH /api/invoices/:id/mark-paid
func (h *InvoiceHandler) MarkPaid(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	inv, err := h.uc.MarkPaid(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(inv)
}

// Cancel POST /api/invoices/:id/cancel
func (h *InvoiceHandler) Cancel(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	inv, err := h.uc.CancelInvoice(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(inv)
}

// Delete DELETE /api/invoices/:id (líneas y cabecera en una transacción).
func (h *InvoiceHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.uc.DeleteInvoice(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// MarkOverdue POST /api/invoices/mark-overdue: SENT vencidas pasan a OVERDUE.
func (h *InvoiceHandler) MarkOverdue(c *fiber.Ctx) error {
	out, err := h.uc.MarkOverdue(c.UserContext(), time.Now().UTC())
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Summary godoc
// @Summary      Resumen de facturación por escuela
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.RevenueSummaryResponse
// @Router       /api/invoices/summary [get]
func (h *InvoiceHandler) Summary(c *fiber.Ctx) error {
	out, err := h.uc.RevenueSummary(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// MyInvoices GET /api/me/invoices: facturas de la escuela del token.
func (h *InvoiceHandler) MyInvoices(c *fiber.Ctx) error {
	f := invoiceFilter(c)
	f.SchoolID = GetSchoolID(c)
	if err := validate.Struct(&f); err != nil {
		return err
	}
	list, err := h.uc.ListInvoices(c.UserContext(), f)
	if err != nil {
		return err
	}
	return c.JSON(list)
}

// MyInvoice GET /api/me/invoices/:id. Una factura de otra escuela se informa como inexistente.
func (h *InvoiceHandler) MyInvoice(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	inv, err := h.uc.GetInvoice(c.UserContext(), id)
	if err != nil {
		return err
	}
	if inv.SchoolID != GetSchoolID(c) {
		return fmt.Errorf("invoice %s: %w", id, domain.ErrNotFound)
	}
	return c.JSON(inv)
}

func invoiceFilter(c *fiber.Ctx) dto.InvoiceFilter {
	return dto.InvoiceFilter{
		PageRequest: dto.PageRequest{Limit: c.QueryInt("limit"), Offset: c.QueryInt("offset")},
		Status:      c.Query("status"),
	}
}
