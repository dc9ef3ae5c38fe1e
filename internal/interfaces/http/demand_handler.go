package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/fieldops-api/internal/application/demand"
	"github.com/jhoicas/fieldops-api/internal/application/dto"
)

// DemandHandler demandas de órdenes de trabajo.
type DemandHandler struct {
	uc *demand.UseCase
}

// NewDemandHandler construye el handler.
func NewDemandHandler(uc *demand.UseCase) *DemandHandler {
	return &DemandHandler{uc: uc}
}

// Submit godoc
// @Summary      Solicitar una orden de trabajo
// @Tags         demands
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SubmitDemandRequest  true  "Datos de la demanda"
// @Success      201   {object}  dto.DemandResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/demands [post]
func (h *DemandHandler) Submit(c *fiber.Ctx) error {
	var in dto.SubmitDemandRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Customer) == "" {
		return badRequest(c, "VALIDATION", "title y customer son requeridos")
	}
	out, err := h.uc.Submit(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar demandas
// @Tags         demands
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "pending | approved | rejected"
// @Param        limit   query  int     false  "Límite"   default(20)
// @Param        offset  query  int     false  "Offset"   default(0)
// @Success      200     {array}   dto.DemandResponse
// @Router       /api/demands [get]
func (h *DemandHandler) List(c *fiber.Ctx) error {
	limit, offset := pagination(c)
	out, err := h.uc.List(c.UserContext(), c.Query("status"), limit, offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Approve godoc
// @Summary      Aprobar demanda (crea la orden de trabajo)
// @Tags         demands
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true   "ID de la demanda"
// @Param        body  body  dto.ApproveDemandRequest  false  "assign_to, note"
// @Success      200   {object}  dto.DemandResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/demands/{id}/approve [post]
func (h *DemandHandler) Approve(c *fiber.Ctx) error {
	var in dto.ApproveDemandRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badRequest(c, "INVALID_BODY", "cuerpo inválido")
		}
	}
	out, err := h.uc.Approve(c.UserContext(), c.Params("id"), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Reject godoc
// @Summary      Rechazar demanda
// @Tags         demands
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID de la demanda"
// @Param        body  body  dto.RejectDemandRequest  true  "note"
// @Success      200   {object}  dto.DemandResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/demands/{id}/reject [post]
func (h *DemandHandler) Reject(c *fiber.Ctx) error {
	var in dto.RejectDemandRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	if strings.TrimSpace(in.Note) == "" {
		return badRequest(c, "VALIDATION", "note es requerido")
	}
	out, err := h.uc.Reject(c.UserContext(), c.Params("id"), GetUserID(c), in.Note)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
