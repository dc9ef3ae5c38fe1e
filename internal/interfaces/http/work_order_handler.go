package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/fieldops-api/internal/application/dto"
	"github.com/jhoicas/fieldops-api/internal/application/timeclock"
	"github.com/jhoicas/fieldops-api/internal/application/workorder"
	"github.com/jhoicas/fieldops-api/internal/domain/entity"
)

// WorkOrderHandler órdenes de trabajo y sus marcaciones.
type WorkOrderHandler struct {
	uc     *workorder.UseCase
	ledger *timeclock.LedgerUseCase
	now    func() time.Time
}

// NewWorkOrderHandler construye el handler.
func NewWorkOrderHandler(uc *workorder.UseCase, ledger *timeclock.LedgerUseCase) *WorkOrderHandler {
	return &WorkOrderHandler{uc: uc, ledger: ledger, now: time.Now}
}

// Create godoc
// @Summary      Crear orden de trabajo
// @Tags         work-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateWorkOrderRequest  true  "Datos de la orden"
// @Success      201   {object}  dto.WorkOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/work-orders [post]
func (h *WorkOrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateWorkOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Customer) == "" {
		return badRequest(c, "VALIDATION", "title y customer son requeridos")
	}
	out, err := h.uc.Create(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener orden de trabajo por ID
// @Tags         work-orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.WorkOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/work-orders/{id} [get]
func (h *WorkOrderHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar órdenes de trabajo
// @Tags         work-orders
// @Security     Bearer
// @Produce      json
// @Param        status       query  string  false  "Estado"
// @Param        assigned_to  query  string  false  "Técnico asignado"
// @Param        limit        query  int     false  "Límite"   default(20)
// @Param        offset       query  int     false  "Offset"   default(0)
// @Success      200          {object}  dto.WorkOrderListResponse
// @Router       /api/work-orders [get]
func (h *WorkOrderHandler) List(c *fiber.Ctx) error {
	limit, offset := pagination(c)
	filter := entity.WorkOrderFilter{Status: c.Query("status"), AssignedTo: c.Query("assigned_to")}
	out, err := h.uc.List(c.UserContext(), filter, limit, offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Assign godoc
// @Summary      Asignar o reasignar orden de trabajo
// @Tags         work-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true  "ID de la orden"
// @Param        body  body  dto.AssignWorkOrderRequest  true  "user_id"
// @Success      200   {object}  dto.WorkOrderResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/work-orders/{id}/assign [post]
func (h *WorkOrderHandler) Assign(c *fiber.Ctx) error {
	var in dto.AssignWorkOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	if in.UserID == "" {
		return badRequest(c, "VALIDATION", "user_id es requerido")
	}
	out, err := h.uc.Assign(c.UserContext(), c.Params("id"), in.UserID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Transition godoc
// @Summary      Avanzar el estado de la orden de trabajo
// @Tags         work-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                          true  "ID de la orden"
// @Param        body  body  dto.TransitionWorkOrderRequest  true  "status"
// @Success      200   {object}  dto.WorkOrderResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/work-orders/{id}/status [patch]
func (h *WorkOrderHandler) Transition(c *fiber.Ctx) error {
	var in dto.TransitionWorkOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	if in.Status == "" {
		return badRequest(c, "VALIDATION", "status es requerido")
	}
	out, err := h.uc.Transition(c.UserContext(), c.Params("id"), in.Status)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// PunchIn godoc
// @Summary      Marcar entrada de trabajo en la orden
// @Tags         work-orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      201  {object}  dto.PunchEventResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/work-orders/{id}/punch-in [post]
func (h *WorkOrderHandler) PunchIn(c *fiber.Ctx) error {
	punch, err := h.ledger.ClockIn(c.UserContext(), timeclock.ClockInInput{
		UserID:      GetUserID(c),
		PunchType:   entity.PunchTypeWork,
		WorkOrderID: c.Params("id"),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(timeclock.ToPunchResponse(punch, h.now()))
}

// PunchOut godoc
// @Summary      Marcar salida de trabajo en la orden
// @Tags         work-orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.PunchEventResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/work-orders/{id}/punch-out [post]
func (h *WorkOrderHandler) PunchOut(c *fiber.Ctx) error {
	punch, err := h.ledger.PunchOutWorkOrder(c.UserContext(), c.Params("id"), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(timeclock.ToPunchResponse(punch, h.now()))
}
