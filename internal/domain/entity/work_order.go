package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden de trabajo, en orden de ciclo de vida.
const (
	WorkOrderStatusNew             = "new"
	WorkOrderStatusAssigned        = "assigned"
	WorkOrderStatusInProgress      = "in-progress"
	WorkOrderStatusCompleted       = "completed"
	WorkOrderStatusClosedForReview = "closedForReview"
)

// WorkOrder unidad de trabajo de servicio con su ciclo de estados.
type WorkOrder struct {
	ID             string
	Number         string // visible al usuario, único (WO-000001)
	Status         string
	AssignedTo     string // vacío si no está asignada
	Customer       string
	Asset          string
	Title          string
	Description    string
	EstimatedHours *decimal.Decimal
	CreatedBy      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// WorkOrderFilter filtro para listar órdenes de trabajo.
type WorkOrderFilter struct {
	Status     string
	AssignedTo string
}
