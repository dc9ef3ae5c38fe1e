package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateWorkOrderRequest body para POST /api/work-orders.
type CreateWorkOrderRequest struct {
	Title          string           `json:"title"`
	Customer       string           `json:"customer"`
	Asset          string           `json:"asset"`
	Description    string           `json:"description,omitempty"`
	EstimatedHours *decimal.Decimal `json:"estimated_hours,omitempty"`
	AssignedTo     string           `json:"assigned_to,omitempty"`
}

// AssignWorkOrderRequest body para POST /api/work-orders/:id/assign.
type AssignWorkOrderRequest struct {
	UserID string `json:"user_id"`
}

// TransitionWorkOrderRequest body para PATCH /api/work-orders/:id/status.
type TransitionWorkOrderRequest struct {
	Status string `json:"status"`
}

// WorkOrderResponse salida de una orden de trabajo.
type WorkOrderResponse struct {
	ID             string           `json:"id"`
	Number         string           `json:"number"`
	Status         string           `json:"status"`
	AssignedTo     *string          `json:"assigned_to"`
	Customer       string           `json:"customer"`
	Asset          string           `json:"asset"`
	Title          string           `json:"title"`
	Description    string           `json:"description"`
	EstimatedHours *decimal.Decimal `json:"estimated_hours,omitempty"`
	CreatedBy      string           `json:"created_by"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// WorkOrderListResponse listado paginado.
type WorkOrderListResponse struct {
	Items []WorkOrderResponse `json:"items"`
	Page  PageResponse        `json:"page"`
}
