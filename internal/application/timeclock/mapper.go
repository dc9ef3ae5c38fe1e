package timeclock

import (
	"time"

	"github.com/jhoicas/fieldops-api/internal/application/dto"
	"github.com/jhoicas/fieldops-api/internal/domain/entity"
	domaintc "github.com/jhoicas/fieldops-api/internal/domain/timeclock"
)

// ToPunchResponse convierte una marcación en DTO; las abiertas reportan duración hasta asOf.
func ToPunchResponse(p *entity.PunchEvent, asOf time.Time) dto.PunchEventResponse {
	out := dto.PunchEventResponse{
		ID:              p.ID,
		UserID:          p.UserID,
		PunchType:       p.PunchType,
		ClockIn:         p.ClockIn,
		ClockOut:        p.ClockOut,
		DurationSeconds: domaintc.PunchSeconds(p, asOf),
	}
	if p.WorkOrderID != "" {
		id := p.WorkOrderID
		out.WorkOrderID = &id
	}
	return out
}

// ToPunchResponses convierte un listado.
func ToPunchResponses(list []*entity.PunchEvent, asOf time.Time) []dto.PunchEventResponse {
	out := make([]dto.PunchEventResponse, 0, len(list))
	for _, p := range list {
		out = append(out, ToPunchResponse(p, asOf))
	}
	return out
}
