package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/schoolhub-api/internal/application/catalog"
	"github.com/jhoicas/schoolhub-api/internal/application/dto"
)

// FeatureHandler catálogo de funcionalidades.
type FeatureHandler struct {
	uc *catalog.CatalogUseCase
}

// NewFeatureHandler construye el handler.
func NewFeatureHandler(uc *catalog.CatalogUseCase) *FeatureHandler {
	return &FeatureHandler{uc: uc}
}

// List godoc
// @Summary      Listar funcionalidades
// @Tags         features
// @Produce      json
// @Security     BearerAuth
// @Param        include_inactive  query  bool  false  "incluir inactivas"
// @Success      200  {array}  dto.FeatureResponse
// @Router       /api/features [get]
func (h *FeatureHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.ListFeatures(c.UserContext(), c.QueryBool("include_inactive", false))
	if err != nil {
		return err
	}
	return c.JSON(list)
}

// GetByID GET /api/features/:id
func (h *FeatureHandler) GetByID(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	f, err := h.uc.GetFeature(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(f)
}

// Create godoc
// @Summary      Crear funcionalidad
// @Tags         features
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateFeatureRequest  true  "funcionalidad"
// @Success      201   {object}  dto.FeatureResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/features [post]
func (h *FeatureHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateFeatureRequest
	if err := bind(c, &in); err != nil {
		return err
	}
	f, err := h.uc.CreateFeature(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(f)
}

// Update PATCH /api/features/:id (la clave es inmutable).
func (h *FeatureHandler) Update(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var in dto.UpdateFeatureRequest
	if err := bind(c, &in); err != nil {
		return err
	}
	f, err := h.uc.UpdateFeature(c.UserContext(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(f)
}

// Deactivate DELETE /api/features/:id. Baja lógica: is_active = false.
func (h *FeatureHandler) Deactivate(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.uc.DeactivateFeature(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
