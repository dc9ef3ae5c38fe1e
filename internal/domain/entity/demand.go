package entity

import "time"

// Estados de una demanda.
const (
	DemandStatusPending  = "pending"
	DemandStatusApproved = "approved"
	DemandStatusRejected = "rejected"
)

// Demand solicitud de un técnico para abrir una nueva orden de trabajo, pendiente de revisión
// por un asesor técnico.
type Demand struct {
	ID          string
	RequestedBy string
	Title       string
	Customer    string
	Asset       string
	Description string
	Status      string
	ReviewedBy  string
	ReviewNote  string
	WorkOrderID string // se llena al aprobar
	CreatedAt   time.Time
	ReviewedAt  *time.Time
}
