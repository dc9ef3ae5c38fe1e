// Package workorder contiene las reglas del ciclo de vida de una orden de trabajo:
// new → assigned → in-progress → completed → closedForReview.
package workorder

import (
	"github.com/jhoicas/fieldops-api/internal/domain"
	"github.com/jhoicas/fieldops-api/internal/domain/entity"
)

var statusRank = map[string]int{
	entity.WorkOrderStatusNew:             0,
	entity.WorkOrderStatusAssigned:        1,
	entity.WorkOrderStatusInProgress:      2,
	entity.WorkOrderStatusCompleted:       3,
	entity.WorkOrderStatusClosedForReview: 4,
}

// IsValidStatus informa si s es un estado conocido.
func IsValidStatus(s string) bool {
	_, ok := statusRank[s]
	return ok
}

// IsTerminal completed y closedForReview no admiten marcaciones abiertas.
func IsTerminal(s string) bool {
	return s == entity.WorkOrderStatusCompleted || s == entity.WorkOrderStatusClosedForReview
}

// CanTransition valida un avance explícito de estado. Solo se permite avanzar; "assigned" solo se
// alcanza reasignando (ver CanReassign).
func CanTransition(from, to string) error {
	fromRank, okFrom := statusRank[from]
	toRank, okTo := statusRank[to]
	if !okFrom || !okTo {
		return domain.ErrInvalidInput
	}
	if to == entity.WorkOrderStatusAssigned || to == entity.WorkOrderStatusNew {
		return domain.ErrInvalidTransition
	}
	if toRank <= fromRank {
		return domain.ErrInvalidTransition
	}
	return nil
}

// CanReassign la reasignación es el único retroceso permitido (in-progress → assigned).
func CanReassign(from string) error {
	switch from {
	case entity.WorkOrderStatusNew, entity.WorkOrderStatusAssigned, entity.WorkOrderStatusInProgress:
		return nil
	case entity.WorkOrderStatusCompleted, entity.WorkOrderStatusClosedForReview:
		return domain.ErrInvalidTransition
	}
	return domain.ErrInvalidInput
}

// StatusOnClockIn estado resultante al marcar entrada sobre la orden: assigned pasa a
// in-progress; el resto no cambia.
func StatusOnClockIn(current string) (next string, changed bool) {
	if current == entity.WorkOrderStatusAssigned {
		return entity.WorkOrderStatusInProgress, true
	}
	return current, false
}
