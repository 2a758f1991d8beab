package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/schoolhub-api/internal/application/dto"
	"github.com/jhoicas/schoolhub-api/internal/application/entitlement"
	"github.com/jhoicas/schoolhub-api/internal/application/school"
)

// SchoolHandler administración de escuelas y de sus funcionalidades (superadmin).
type SchoolHandler struct {
	schools      *school.SchoolUseCase
	entitlements *entitlement.EntitlementUseCase
}

// NewSchoolHandler construye el handler.
func NewSchoolHandler(schools *school.SchoolUseCase, entitlements *entitlement.EntitlementUseCase) *SchoolHandler {
	return &SchoolHandler{schools: schools, entitlements: entitlements}
}

// Create godoc
// @Summary      Alta de escuela
// @Tags         schools
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateSchoolRequest  true  "escuela y funcionalidades iniciales"
// @Success      201   {object}  dto.SchoolResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/schools [post]
func (h *SchoolHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSchoolRequest
	if err := bind(c, &in); err != nil {
		return err
	}
	s, err := h.schools.CreateSchool(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(s)
}

// List GET /api/schools?limit=&offset=
func (h *SchoolHandler) List(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit"), Offset: c.QueryInt("offset")}
	list, err := h.schools.ListSchools(c.UserContext(), page)
	if err != nil {
		return err
	}
	return c.JSON(list)
}

// GetByID GET /api/schools/:id
func (h *SchoolHandler) GetByID(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	s, err := h.schools.GetSchool(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(s)
}

// Disable POST /api/schools/:id/disable
func (h *SchoolHandler) Disable(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	s, err := h.schools.DisableSchool(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(s)
}

// SetPaymentStatus godoc
// @Summary      Cambiar estado de pago
// @Tags         schools
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                       true  "school id"
// @Param        body  body  dto.SetPaymentStatusRequest  true  "estado"
// @Success      200   {object}  dto.SchoolResponse
// @Router       /api/schools/{id}/payment-status [patch]
func (h *SchoolHandler) SetPaymentStatus(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var in dto.SetPaymentStatusRequest
	if err := bind(c, &in); err != nil {
		return err
	}
	s, err := h.schools.SetPaymentStatus(c.UserContext(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(s)
}

// Features GET /api/schools/:id/features (todas las asignadas, habilitadas o no).
func (h *SchoolHandler) Features(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	list, err := h.entitlements.GetSchoolFeatures(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(list)
}

// EnabledFeatures GET /api/schools/:id/enabled-features (conjunto facturable).
func (h *SchoolHandler) EnabledFeatures(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	list, err := h.entitlements.GetEnabledSchoolFeatures(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(list)
}

// Toggle godoc
// @Summary      Habilitar o deshabilitar una funcionalidad
// @Tags         schools
// @Produce      json
// @Security     BearerAuth
// @Param        id      path  string  true  "school id"
// @Param        key     path  string  true  "feature key"
// @Param        action  path  string  true  "enable | disable"
// @Success      200  {object}  dto.ToggleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/schools/{id}/features/{key}/{action} [post]
func (h *SchoolHandler) Toggle(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.entitlements.ToggleFeatureByKey(c.UserContext(), id, c.Params("key"), c.Params("action"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// BulkAssign POST /api/schools/features/bulk-assign
func (h *SchoolHandler) BulkAssign(c *fiber.Ctx) error {
	var in dto.BulkAssignRequest
	if err := bind(c, &in); err != nil {
		return err
	}
	out, err := h.entitlements.BulkAssignFeatures(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetSetup GET /api/schools/:id/features/:featureId/setup
func (h *SchoolHandler) GetSetup(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	featureID, err := pathID(c, "featureId")
	if err != nil {
		return err
	}
	out, err := h.entitlements.GetFeatureSetup(c.UserContext(), id, featureID)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// SaveSetup PUT /api/schools/:id/features/:featureId/setup
func (h *SchoolHandler) SaveSetup(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	featureID, err := pathID(c, "featureId")
	if err != nil {
		return err
	}
	var in dto.SaveFeatureSetupRequest
	if err := bind(c, &in); err != nil {
		return err
	}
	out, err := h.entitlements.SaveFeatureSetup(c.UserContext(), id, featureID, in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}
