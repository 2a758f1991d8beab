package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/schoolhub-api/internal/application/dto"
	"github.com/jhoicas/schoolhub-api/internal/domain/access"
	"github.com/jhoicas/schoolhub-api/pkg/logger"
)

// accessChecker lo implementa *school.SchoolUseCase.
type accessChecker interface {
	CheckAccess(ctx context.Context, schoolID string) (*dto.AccessResponse, error)
}

// deniedCounter lo implementa *metrics.Metrics (opcional).
type deniedCounter interface {
	AccessDenied(reason string)
}

// AccessGate bloquea las rutas de la escuela cuando el estado de pago lo impide.
// Debe ir DESPUÉS de AuthMiddleware; los usuarios de plataforma (sin school_id) pasan.
//   - 402 ACCESS_BLOCKED con days_overdue si el periodo de gracia terminó.
//   - 403 SCHOOL_DISABLED si la escuela fue dada de baja.
func AccessGate(checker accessChecker, denied deniedCounter, log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		schoolID := GetSchoolID(c)
		if schoolID == "" {
			return c.Next()
		}
		d, err := checker.CheckAccess(c.UserContext(), schoolID)
		if err != nil {
			log.Error().Err(err).Str("school_id", schoolID).Msg("no se pudo evaluar el acceso")
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "ACCESS_CHECK_FAILED",
				Message: "could not verify school access, try again later",
			})
		}
		if d.Allowed {
			return c.Next()
		}
		if denied != nil {
			denied.AccessDenied(d.Reason)
		}
		if d.Reason == access.ReasonSchoolDisabled {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "SCHOOL_DISABLED",
				Message: "this school has been disabled",
			})
		}
		days := d.DaysOverdue
		return c.Status(fiber.StatusPaymentRequired).JSON(dto.ErrorResponse{
			Code:        "ACCESS_BLOCKED",
			Message:     "school access is blocked until the outstanding invoice is paid",
			DaysOverdue: &days,
		})
	}
}
