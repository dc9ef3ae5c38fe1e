package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/fieldops-api/internal/application/dto"
	"github.com/jhoicas/fieldops-api/internal/domain"
)

type errorMapping struct {
	target  error
	status  int
	code    string
	message string
}

// El orden importa: ErrPersistence envuelve la causa y se evalúa después de los de dominio.
var errorMappings = []errorMapping{
	{domain.ErrAlreadyClockedIn, fiber.StatusConflict, "ALREADY_CLOCKED_IN", "ya tiene una marcación abierta"},
	{domain.ErrNotClockedIn, fiber.StatusConflict, "NOT_CLOCKED_IN", "no tiene una marcación abierta"},
	{domain.ErrUnknownWorkOrder, fiber.StatusNotFound, "UNKNOWN_WORK_ORDER", "la orden de trabajo no existe"},
	{domain.ErrWorkOrderBusy, fiber.StatusConflict, "WORK_ORDER_BUSY", "la orden de trabajo tiene una marcación abierta"},
	{domain.ErrWorkOrderClosed, fiber.StatusConflict, "WORK_ORDER_CLOSED", "la orden de trabajo está cerrada"},
	{domain.ErrInvalidTransition, fiber.StatusConflict, "INVALID_TRANSITION", "transición de estado no permitida"},
	{domain.ErrUsernameTaken, fiber.StatusConflict, "USERNAME_TAKEN", "el nombre de usuario ya está registrado"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT", "conflicto con el estado actual"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION", "entrada inválida"},
	{domain.ErrUserNotFound, fiber.StatusNotFound, "NOT_FOUND", "usuario no encontrado"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND", "recurso no encontrado"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN", "acceso denegado"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED", "no autorizado"},
	{domain.ErrPersistence, fiber.StatusServiceUnavailable, "PERSISTENCE", "almacenamiento no disponible, intente más tarde"},
}

// writeError traduce un error de caso de uso a dto.ErrorResponse. Los errores no mapeados
// responden 500 sin filtrar el detalle.
func writeError(c *fiber.Ctx, err error) error {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			if m.status >= fiber.StatusInternalServerError {
				log.Error().Err(err).Str("path", c.Path()).Msg("fallo de persistencia")
			}
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: m.message})
		}
	}
	log.Error().Err(err).Str("path", c.Path()).Msg("error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}

func badRequest(c *fiber.Ctx, code, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: code, Message: message})
}

// pagination lee limit/offset con los topes de la API (20 por defecto, máximo 100).
func pagination(c *fiber.Ctx) (int, int) {
	page := dto.PageRequest{Limit: c.QueryInt("limit", dto.DefaultPageLimit), Offset: c.QueryInt("offset", 0)}
	page.DefaultPage()
	return page.Limit, page.Offset
}
