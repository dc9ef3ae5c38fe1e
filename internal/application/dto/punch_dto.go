package dto

import "time"

// PunchRequest body opcional de POST /api/punch. Solo aplica cuando la acción resulta en entrada.
type PunchRequest struct {
	PunchType   string `json:"punch_type,omitempty"`
	WorkOrderID string `json:"work_order_id,omitempty"`
}

// PunchEventResponse marcación expuesta por la API.
type PunchEventResponse struct {
	ID              string     `json:"id"`
	UserID          string     `json:"user_id"`
	PunchType       string     `json:"punch_type"`
	WorkOrderID     *string    `json:"work_order_id"`
	ClockIn         time.Time  `json:"clock_in"`
	ClockOut        *time.Time `json:"clock_out"`
	DurationSeconds int64      `json:"duration_seconds"`
}

// PunchActionResponse resultado de POST /api/punch.
type PunchActionResponse struct {
	Action string             `json:"action"` // clock-in | clock-out
	Punch  PunchEventResponse `json:"punch"`
}

// TimeStatusResponse resultado de GET /api/time/status. PollIntervalSeconds es el intervalo
// sugerido al cliente para volver a consultar.
type TimeStatusResponse struct {
	UserID              string              `json:"user_id"`
	IsClockedIn         bool                `json:"is_clocked_in"`
	Activity            string              `json:"activity"`
	WorkOrderID         *string             `json:"work_order_id"`
	CurrentPunch        *PunchEventResponse `json:"current_punch"`
	AsOf                time.Time           `json:"as_of"`
	PollIntervalSeconds int                 `json:"poll_interval_seconds"`
}

// HoursResponse resultado de GET /api/time/hours. Today, Week y Overtime son horas
// fraccionarias redondeadas a dos decimales y viajan como números JSON.
type HoursResponse struct {
	UserID       string    `json:"user_id"`
	AsOf         time.Time `json:"as_of"`
	Today        float64   `json:"today"`
	Week         float64   `json:"week"`
	Overtime     float64   `json:"overtime"`
	TodaySeconds int64     `json:"today_seconds"`
	WeekSeconds  int64     `json:"week_seconds"`
	TodayDisplay string    `json:"today_display"`
	WeekDisplay  string    `json:"week_display"`
}

// ActiveTechnicianResponse fila del tablero de técnicos activos.
type ActiveTechnicianResponse struct {
	UserID          string    `json:"user_id"`
	Username        string    `json:"username"`
	Name            string    `json:"name"`
	WorkOrderID     string    `json:"work_order_id"`
	WorkOrderNumber string    `json:"work_order_number"`
	ClockIn         time.Time `json:"clock_in"`
	ElapsedSeconds  int64     `json:"elapsed_seconds"`
}
