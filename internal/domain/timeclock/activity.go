// Package timeclock contiene las reglas puras del reloj de marcación: estado de actividad
// derivado de la marcación abierta y agregación de horas. No accede a persistencia.
package timeclock

import "github.com/jhoicas/fieldops-api/internal/domain/entity"

// Activity estado actual de un usuario.
type Activity string

const (
	ActivityIdle        Activity = "idle"
	ActivityOnShift     Activity = "on-shift"
	ActivityOnWorkOrder Activity = "on-work-order"
)

// ActivityStatus resultado de ResolveStatus. WorkOrderID solo en ActivityOnWorkOrder.
type ActivityStatus struct {
	Activity    Activity
	WorkOrderID string
}

// ResolveStatus deriva el estado a partir de la marcación abierta del usuario (nil si no hay).
func ResolveStatus(open *entity.PunchEvent) ActivityStatus {
	if open == nil || !open.IsOpen() {
		return ActivityStatus{Activity: ActivityIdle}
	}
	if open.PunchType == entity.PunchTypeWork {
		return ActivityStatus{Activity: ActivityOnWorkOrder, WorkOrderID: open.WorkOrderID}
	}
	return ActivityStatus{Activity: ActivityOnShift}
}
