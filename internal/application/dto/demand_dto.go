package dto

import "time"

// SubmitDemandRequest body para POST /api/demands.
type SubmitDemandRequest struct {
	Title       string `json:"title"`
	Customer    string `json:"customer"`
	Asset       string `json:"asset"`
	Description string `json:"description,omitempty"`
}

// ApproveDemandRequest body para POST /api/demands/:id/approve.
type ApproveDemandRequest struct {
	AssignTo string `json:"assign_to,omitempty"`
	Note     string `json:"note,omitempty"`
}

// RejectDemandRequest body para POST /api/demands/:id/reject.
type RejectDemandRequest struct {
	Note string `json:"note"`
}

// DemandResponse salida de una demanda.
type DemandResponse struct {
	ID          string     `json:"id"`
	RequestedBy string     `json:"requested_by"`
	Title       string     `json:"title"`
	Customer    string     `json:"customer"`
	Asset       string     `json:"asset"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	ReviewedBy  *string    `json:"reviewed_by"`
	ReviewNote  string     `json:"review_note,omitempty"`
	WorkOrderID *string    `json:"work_order_id"`
	CreatedAt   time.Time  `json:"created_at"`
	ReviewedAt  *time.Time `json:"reviewed_at"`
}
