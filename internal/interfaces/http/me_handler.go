package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/schoolhub-api/internal/application/entitlement"
	"github.com/jhoicas/schoolhub-api/internal/application/school"
)

// MeHandler vistas de la escuela del usuario autenticado.
type MeHandler struct {
	schools      *school.SchoolUseCase
	entitlements *entitlement.EntitlementUseCase
}

// NewMeHandler construye el handler.
func NewMeHandler(schools *school.SchoolUseCase, entitlements *entitlement.EntitlementUseCase) *MeHandler {
	return &MeHandler{schools: schools, entitlements: entitlements}
}

// Access godoc
// @Summary      Estado de acceso de la escuela
// @Description  No pasa por el control de acceso: permite mostrar el aviso de bloqueo.
// @Tags         me
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.AccessResponse
// @Router       /api/me/access [get]
func (h *MeHandler) Access(c *fiber.Ctx) error {
	out, err := h.schools.CheckAccess(c.UserContext(), GetSchoolID(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Menu GET /api/me/menu: enlaces de las funcionalidades habilitadas, con la personalización de la escuela.
func (h *MeHandler) Menu(c *fiber.Ctx) error {
	out, err := h.entitlements.GetSchoolMenu(c.UserContext(), GetSchoolID(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Features GET /api/me/features: funcionalidades habilitadas de la escuela.
func (h *MeHandler) Features(c *fiber.Ctx) error {
	out, err := h.entitlements.GetEnabledSchoolFeatures(c.UserContext(), GetSchoolID(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}
