package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/fieldops-api/internal/application/timeclock"
)

// TimesheetHandler exporta hojas de horas.
type TimesheetHandler struct {
	uc *timeclock.TimesheetUseCase
}

// NewTimesheetHandler construye el handler.
func NewTimesheetHandler(uc *timeclock.TimesheetUseCase) *TimesheetHandler {
	return &TimesheetHandler{uc: uc}
}

// Export godoc
// @Summary      Exportar hoja de horas
// @Description  from/to son fechas YYYY-MM-DD en la zona horaria de la empresa; to es inclusivo.
// @Tags         timesheets
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce      application/pdf
// @Param        user_id  path   string  true   "Usuario"
// @Param        from     query  string  true   "Desde (YYYY-MM-DD)"
// @Param        to       query  string  true   "Hasta (YYYY-MM-DD)"
// @Param        format   query  string  false  "xlsx | pdf"  default(xlsx)
// @Success      200
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/timesheets/{user_id} [get]
func (h *TimesheetHandler) Export(c *fiber.Ctx) error {
	userID, ok, err := targetUser(c, c.Params("user_id"), CapTimesheetViewAll)
	if !ok {
		return err
	}
	loc := h.uc.Location()
	from, err := time.ParseInLocation(time.DateOnly, c.Query("from"), loc)
	if err != nil {
		return badRequest(c, "VALIDATION", "from debe ser YYYY-MM-DD")
	}
	to, err := time.ParseInLocation(time.DateOnly, c.Query("to"), loc)
	if err != nil {
		return badRequest(c, "VALIDATION", "to debe ser YYYY-MM-DD")
	}
	format := c.Query("format", "xlsx")

	data, contentType, filename, err := h.uc.Export(c.UserContext(), userID, from, to.AddDate(0, 0, 1), format)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}
