package timeclock

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/fieldops-api/internal/application/dto"
	"github.com/jhoicas/fieldops-api/internal/domain"
	"github.com/jhoicas/fieldops-api/internal/domain/entity"
	"github.com/jhoicas/fieldops-api/internal/domain/repository"
	domaintc "github.com/jhoicas/fieldops-api/internal/domain/timeclock"
)

// maxTimesheetRange rango máximo de una hoja de horas.
const maxTimesheetRange = 62 * 24 * time.Hour

// TimesheetUseCase arma la hoja de horas de un usuario y la exporta con los renderers registrados.
type TimesheetUseCase struct {
	punchRepo         repository.PunchRepository
	userRepo          repository.UserRepository
	loc               *time.Location
	overtimeThreshold time.Duration
	renderers         map[string]TimesheetRenderer
	now               func() time.Time
}

// NewTimesheetUseCase construye el caso de uso. renderers se indexa por formato ("pdf", "xlsx").
func NewTimesheetUseCase(
	punchRepo repository.PunchRepository,
	userRepo repository.UserRepository,
	loc *time.Location,
	overtimeThreshold time.Duration,
	renderers map[string]TimesheetRenderer,
) *TimesheetUseCase {
	if loc == nil {
		loc = time.UTC
	}
	if overtimeThreshold <= 0 {
		overtimeThreshold = domaintc.DefaultOvertimeThreshold
	}
	return &TimesheetUseCase{
		punchRepo:         punchRepo,
		userRepo:          userRepo,
		loc:               loc,
		overtimeThreshold: overtimeThreshold,
		renderers:         renderers,
		now:               time.Now,
	}
}

// WithClock reemplaza la fuente de tiempo (tests).
func (uc *TimesheetUseCase) WithClock(now func() time.Time) *TimesheetUseCase {
	uc.now = now
	return uc
}

// Location zona horaria usada para agrupar días.
func (uc *TimesheetUseCase) Location() *time.Location { return uc.loc }

// Build arma la hoja de horas para las marcaciones con ClockIn en [from, to).
func (uc *TimesheetUseCase) Build(ctx context.Context, userID string, from, to time.Time) (*dto.Timesheet, error) {
	if userID == "" || !to.After(from) || to.Sub(from) > maxTimesheetRange {
		return nil, domain.ErrInvalidInput
	}
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, domain.Persistence(err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	punches, err := uc.punchRepo.List(ctx, entity.PunchFilter{UserID: userID, From: &from, To: &to})
	if err != nil {
		return nil, domain.Persistence(err)
	}

	now := uc.now()
	sheet := &dto.Timesheet{
		UserID:      user.ID,
		Username:    user.Username,
		Name:        user.Name,
		From:        from,
		To:          to,
		GeneratedAt: now,
		Punches:     ToPunchResponses(punches, now),
	}
	for _, d := range domaintc.DailyTotals(punches, now, uc.loc) {
		sheet.Days = append(sheet.Days, dto.TimesheetDay{
			Date:    d.Day,
			Seconds: d.Seconds,
			Display: domaintc.FormatHM(d.Seconds),
		})
		sheet.TotalSeconds += d.Seconds
	}
	sheet.TotalDisplay = domaintc.FormatHM(sheet.TotalSeconds)
	sheet.OvertimeSeconds = domaintc.WeeklyOvertimeSeconds(punches, now, uc.loc, uc.overtimeThreshold)
	sheet.OvertimeDisplay = domaintc.FormatHM(sheet.OvertimeSeconds)
	return sheet, nil
}

// Export arma la hoja y la renderiza en format. Devuelve bytes, content type y nombre de archivo.
func (uc *TimesheetUseCase) Export(ctx context.Context, userID string, from, to time.Time, format string) ([]byte, string, string, error) {
	renderer, ok := uc.renderers[format]
	if !ok {
		return nil, "", "", domain.ErrInvalidInput
	}
	sheet, err := uc.Build(ctx, userID, from, to)
	if err != nil {
		return nil, "", "", err
	}
	data, err := renderer.RenderTimesheet(ctx, sheet)
	if err != nil {
		return nil, "", "", fmt.Errorf("timesheet: renderizar %s: %w", format, err)
	}
	// to es exclusivo: el nombre lleva el último instante incluido.
	name := fmt.Sprintf("timesheet_%s_%s_%s.%s",
		sheet.Username, from.In(uc.loc).Format("20060102"), to.Add(-time.Nanosecond).In(uc.loc).Format("20060102"), renderer.Extension())
	return data, renderer.ContentType(), name, nil
}
