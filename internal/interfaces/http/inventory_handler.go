package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/schoolhub-api/internal/application/dto"
	"github.com/jhoicas/schoolhub-api/internal/application/inventory"
)

// InventoryHandler insumos de la escuela y su libro de movimientos (requiere la funcionalidad "inventory").
type InventoryHandler struct {
	uc *inventory.SupplyUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.SupplyUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// CreateSupply POST /api/me/supplies
func (h *InventoryHandler) CreateSupply(c *fiber.Ctx) error {
	var in dto.CreateSupplyRequest
	if err := bind(c, &in); err != nil {
		return err
	}
	s, err := h.uc.CreateSupply(c.UserContext(), GetSchoolID(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(s)
}

// ListSupplies GET /api/me/supplies
func (h *InventoryHandler) ListSupplies(c *fiber.Ctx) error {
	list, err := h.uc.ListSupplies(c.UserContext(), GetSchoolID(c))
	if err != nil {
		return err
	}
	return c.JSON(list)
}

// RecordMovement godoc
// @Summary      Registrar movimiento de insumo
// @Tags         inventory
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "supply id"
// @Param        body  body  dto.RecordMovementRequest  true  "type: PURCHASE | ASSIGNMENT | USAGE | ADJUSTMENT"
// @Success      201   {object}  dto.SupplyMovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/me/supplies/{id}/movements [post]
func (h *InventoryHandler) RecordMovement(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var in dto.RecordMovementRequest
	if err := bind(c, &in); err != nil {
		return err
	}
	m, err := h.uc.RecordMovement(c.UserContext(), GetSchoolID(c), GetUserID(c), id, in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(m)
}

// ListMovements GET /api/me/supplies/:id/movements?limit=&offset=
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	page := dto.PageRequest{Limit: c.QueryInt("limit"), Offset: c.QueryInt("offset")}
	list, err := h.uc.ListMovements(c.UserContext(), GetSchoolID(c), id, page)
	if err != nil {
		return err
	}
	return c.JSON(list)
}
