package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/fieldops-api/internal/application/dto"
	"github.com/jhoicas/fieldops-api/internal/domain/entity"
)

// Capability permiso de grano fino comprobado en el borde HTTP.
type Capability string

// Capacidades de la API.
const (
	CapUserManage        Capability = "user.manage"
	CapWorkOrderManage   Capability = "workorder.manage"
	CapWorkOrderProgress Capability = "workorder.progress"
	CapDemandSubmit      Capability = "demand.submit"
	CapDemandReview      Capability = "demand.review"
	CapPunchSelf         Capability = "punch.self"
	CapPunchViewAll      Capability = "punch.view_all"
	CapTimesheetViewAll  Capability = "timesheet.view_all"
)

// admin no aparece: tiene todas las capacidades.
var roleCapabilities = map[string]map[Capability]bool{
	entity.RoleTechnicalAdvisor: {
		CapWorkOrderManage:   true,
		CapWorkOrderProgress: true,
		CapDemandReview:      true,
		CapPunchSelf:         true,
		CapPunchViewAll:      true,
		CapTimesheetViewAll:  true,
	},
	entity.RoleTechnician: {
		CapPunchSelf:         true,
		CapWorkOrderProgress: true,
		CapDemandSubmit:      true,
	},
}

// Can informa si role tiene la capacidad.
func Can(role string, capability Capability) bool {
	if role == entity.RoleAdmin {
		return true
	}
	return roleCapabilities[role][capability]
}

// RequireCapability middleware que exige una capacidad al rol del token.
// Debe usarse DESPUÉS de AuthMiddleware.
//
// Comportamiento:
//   - 401 Unauthorized → el token no trae rol.
//   - 403 Forbidden    → el rol no tiene la capacidad.
func RequireCapability(capability Capability) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Message: "el token no incluye rol"})
		}
		if !Can(role, capability) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "FORBIDDEN",
				Message: "el rol '" + role + "' no tiene permiso '" + string(capability) + "'",
			})
		}
		return c.Next()
	}
}

// targetUser resuelve el usuario consultado: el del query/path si viene, si no el del token.
// Consultar a otro usuario exige capability. Devuelve "" y ya respondió si no está permitido.
func targetUser(c *fiber.Ctx, requested string, capability Capability) (string, bool, error) {
	self := GetUserID(c)
	if requested == "" || requested == self {
		return self, true, nil
	}
	if !Can(GetRole(c), capability) {
		return "", false, c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "no puede consultar datos de otro usuario"})
	}
	return requested, true, nil
}
