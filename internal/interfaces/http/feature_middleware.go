package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/schoolhub-api/internal/application/dto"
	"github.com/jhoicas/schoolhub-api/pkg/logger"
)

// featureChecker contrato mínimo del middleware; lo implementa *entitlement.EntitlementUseCase.
type featureChecker interface {
	HasEnabledFeature(ctx context.Context, schoolID, featureKey string) (bool, error)
}

// RequireFeature verifica que la escuela del token tenga la funcionalidad habilitada.
// Debe usarse DESPUÉS de AuthMiddleware y AccessGate.
//   - 403 FEATURE_DISABLED: no asignada o deshabilitada.
//   - 503 FEATURE_CHECK_FAILED: fallo al consultar la DB.
func RequireFeature(featureKey string, checker featureChecker, log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		schoolID := GetSchoolID(c)
		if schoolID == "" {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "NO_SCHOOL",
				Message: "this resource requires a school account",
			})
		}

		enabled, err := checker.HasEnabledFeature(c.UserContext(), schoolID, featureKey)
		if err != nil {
			log.Error().Err(err).Str("school_id", schoolID).Str("feature", featureKey).Msg("no se pudo verificar la funcionalidad")
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "FEATURE_CHECK_FAILED",
				Message: "could not verify feature, try again later",
			})
		}
		if !enabled {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "FEATURE_DISABLED",
				Message: "feature '" + featureKey + "' is not enabled for this school",
			})
		}
		return c.Next()
	}
}
