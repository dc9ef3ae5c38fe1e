package timeclock

import (
	"context"
	"time"

	"github.com/jhoicas/fieldops-api/internal/domain/entity"
	"github.com/jhoicas/fieldops-api/internal/domain/repository"
	"github.com/jhoicas/fieldops-api/internal/domain/workorder"
)

// StatusLinker mantiene el estado de la orden de trabajo consistente con las marcaciones
// abiertas sobre ella. Solo escribe el campo status.
type StatusLinker struct{}

// OnClockIn pasa la orden de assigned a in-progress. Debe llamarse dentro de la misma
// transacción que insertó la marcación, con wo ya bloqueada.
func (StatusLinker) OnClockIn(ctx context.Context, woRepo repository.WorkOrderRepository, wo *entity.WorkOrder, punch *entity.PunchEvent, now time.Time) error {
	if punch.PunchType != entity.PunchTypeWork || wo == nil {
		return nil
	}
	next, changed := workorder.StatusOnClockIn(wo.Status)
	if !changed {
		return nil
	}
	wo.Status = next
	wo.UpdatedAt = now
	return woRepo.Update(ctx, wo)
}

// OnClockOut no cambia el estado: cerrar una marcación no implica terminar el trabajo.
func (StatusLinker) OnClockOut(_ context.Context, _ repository.WorkOrderRepository, _ *entity.PunchEvent) error {
	return nil
}
