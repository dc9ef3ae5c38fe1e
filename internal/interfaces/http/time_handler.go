package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/fieldops-api/internal/application/dto"
	"github.com/jhoicas/fieldops-api/internal/application/timeclock"
	"github.com/jhoicas/fieldops-api/internal/domain/entity"
)

// TimeHandler marcaciones, estado y horas del reloj.
type TimeHandler struct {
	ledger *timeclock.LedgerUseCase
	status *timeclock.StatusUseCase
	hours  *timeclock.HoursUseCase
	now    func() time.Time
}

// NewTimeHandler construye el handler.
func NewTimeHandler(ledger *timeclock.LedgerUseCase, status *timeclock.StatusUseCase, hours *timeclock.HoursUseCase) *TimeHandler {
	return &TimeHandler{ledger: ledger, status: status, hours: hours, now: time.Now}
}

// Punch godoc
// @Summary      Marcar entrada o salida (alterna según el estado actual)
// @Description  Si el usuario tiene una marcación abierta la cierra; si no, abre una. El body solo aplica a la entrada.
// @Tags         time
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PunchRequest  false  "punch_type, work_order_id"
// @Success      200   {object}  dto.PunchActionResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/punch [post]
func (h *TimeHandler) Punch(c *fiber.Ctx) error {
	var in dto.PunchRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badRequest(c, "INVALID_BODY", "cuerpo inválido")
		}
	}
	if in.PunchType != "" && !entity.IsValidPunchType(in.PunchType) {
		return badRequest(c, "VALIDATION", "punch_type debe ser general o work")
	}
	action, punch, err := h.ledger.Toggle(c.UserContext(), timeclock.ClockInInput{
		UserID:      GetUserID(c),
		PunchType:   in.PunchType,
		WorkOrderID: in.WorkOrderID,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.PunchActionResponse{Action: action, Punch: timeclock.ToPunchResponse(punch, h.now())})
}

// Status godoc
// @Summary      Estado de marcación (para consulta periódica)
// @Tags         time
// @Security     Bearer
// @Produce      json
// @Param        user_id  query  string  false  "Usuario (por defecto el del token)"
// @Success      200      {object}  dto.TimeStatusResponse
// @Failure      403      {object}  dto.ErrorResponse
// @Router       /api/time/status [get]
func (h *TimeHandler) Status(c *fiber.Ctx) error {
	userID, ok, err := targetUser(c, c.Query("user_id"), CapPunchViewAll)
	if !ok {
		return err
	}
	out, err := h.status.TimeStatus(c.UserContext(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Hours godoc
// @Summary      Horas de hoy y de la semana
// @Tags         time
// @Security     Bearer
// @Produce      json
// @Param        user_id  query  string  false  "Usuario (por defecto el del token)"
// @Param        as_of    query  string  false  "Instante RFC3339 (por defecto ahora)"
// @Success      200      {object}  dto.HoursResponse
// @Failure      400      {object}  dto.ErrorResponse
// @Router       /api/time/hours [get]
func (h *TimeHandler) Hours(c *fiber.Ctx) error {
	userID, ok, err := targetUser(c, c.Query("user_id"), CapPunchViewAll)
	if !ok {
		return err
	}
	var asOf time.Time
	if raw := c.Query("as_of"); raw != "" {
		asOf, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			return badRequest(c, "VALIDATION", "as_of debe ser RFC3339")
		}
	}
	out, err := h.hours.ComputeHours(c.UserContext(), userID, asOf)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListPunches godoc
// @Summary      Listar marcaciones
// @Tags         time
// @Security     Bearer
// @Produce      json
// @Param        user_id        query  string  false  "Usuario (por defecto el del token)"
// @Param        work_order_id  query  string  false  "Orden de trabajo"
// @Param        open           query  bool    false  "Solo abiertas (true) o cerradas (false)"
// @Param        punch_type     query  string  false  "general | work"
// @Success      200            {array}   dto.PunchEventResponse
// @Router       /api/punches [get]
func (h *TimeHandler) ListPunches(c *fiber.Ctx) error {
	filter := entity.PunchFilter{
		WorkOrderID: c.Query("work_order_id"),
		PunchType:   c.Query("punch_type"),
	}
	// Sin user_id explícito, quien puede ver todo ve todo; el resto solo lo suyo.
	requested := c.Query("user_id")
	switch {
	case requested != "":
		userID, ok, err := targetUser(c, requested, CapPunchViewAll)
		if !ok {
			return err
		}
		filter.UserID = userID
	case !Can(GetRole(c), CapPunchViewAll):
		filter.UserID = GetUserID(c)
	}
	if raw := c.Query("open"); raw != "" {
		open, err := strconv.ParseBool(raw)
		if err != nil {
			return badRequest(c, "VALIDATION", "open debe ser true o false")
		}
		filter.Open = &open
	}
	list, err := h.ledger.ListPunches(c.UserContext(), filter)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(timeclock.ToPunchResponses(list, h.now()))
}

// DashboardHandler vista de técnicos activos.
type DashboardHandler struct {
	uc *timeclock.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *timeclock.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// ActiveTechnicians godoc
// @Summary      Otros técnicos trabajando ahora en una orden
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ActiveTechnicianResponse
// @Router       /api/dashboard/active-technicians [get]
func (h *DashboardHandler) ActiveTechnicians(c *fiber.Ctx) error {
	out, err := h.uc.ActiveTechnicians(c.UserContext(), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
