package timeclock

import (
	"context"
	"time"

	"github.com/jhoicas/fieldops-api/internal/application/dto"
	"github.com/jhoicas/fieldops-api/internal/domain"
	"github.com/jhoicas/fieldops-api/internal/domain/entity"
	"github.com/jhoicas/fieldops-api/internal/domain/repository"
	domaintc "github.com/jhoicas/fieldops-api/internal/domain/timeclock"
)

// HoursUseCase agrega horas del día y de la semana ISO a partir del libro.
type HoursUseCase struct {
	punchRepo         repository.PunchRepository
	loc               *time.Location
	overtimeThreshold time.Duration
	now               func() time.Time
}

// NewHoursUseCase construye el caso de uso. loc define el día calendario y la semana; un
// threshold <= 0 usa 40h.
func NewHoursUseCase(punchRepo repository.PunchRepository, loc *time.Location, overtimeThreshold time.Duration) *HoursUseCase {
	if loc == nil {
		loc = time.UTC
	}
	if overtimeThreshold <= 0 {
		overtimeThreshold = domaintc.DefaultOvertimeThreshold
	}
	return &HoursUseCase{
		punchRepo:         punchRepo,
		loc:               loc,
		overtimeThreshold: overtimeThreshold,
		now:               time.Now,
	}
}

// WithClock reemplaza la fuente de tiempo (tests).
func (uc *HoursUseCase) WithClock(now func() time.Time) *HoursUseCase {
	uc.now = now
	return uc
}

// ComputeHours totales de hoy y de la semana de asOf. asOf cero = ahora. Idempotente para un
// mismo estado del libro y un mismo asOf.
func (uc *HoursUseCase) ComputeHours(ctx context.Context, userID string, asOf time.Time) (*dto.HoursResponse, error) {
	if userID == "" {
		return nil, domain.ErrInvalidInput
	}
	if asOf.IsZero() {
		asOf = uc.now()
	}
	from := domaintc.WeekStart(asOf, uc.loc)
	to := from.AddDate(0, 0, 7)
	punches, err := uc.punchRepo.List(ctx, entity.PunchFilter{UserID: userID, From: &from, To: &to})
	if err != nil {
		return nil, domain.Persistence(err)
	}

	sum := domaintc.ComputeHours(punches, asOf, uc.loc)
	over := domaintc.OvertimeSeconds(sum.WeekSeconds, uc.overtimeThreshold)
	return &dto.HoursResponse{
		UserID:       userID,
		AsOf:         asOf,
		Today:        domaintc.SecondsToHours(sum.TodaySeconds).InexactFloat64(),
		Week:         domaintc.SecondsToHours(sum.WeekSeconds).InexactFloat64(),
		Overtime:     domaintc.SecondsToHours(over).InexactFloat64(),
		TodaySeconds: sum.TodaySeconds,
		WeekSeconds:  sum.WeekSeconds,
		TodayDisplay: domaintc.FormatHM(sum.TodaySeconds),
		WeekDisplay:  domaintc.FormatHM(sum.WeekSeconds),
	}, nil
}
