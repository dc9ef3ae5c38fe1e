package dto

import "time"

// TimesheetDay totales de un día.
type TimesheetDay struct {
	Date    time.Time `json:"date"`
	Seconds int64     `json:"seconds"`
	Display string    `json:"display"` // H:MM
}

// Timesheet hoja de horas de un usuario en un rango [From, To).
type Timesheet struct {
	UserID          string               `json:"user_id"`
	Username        string               `json:"username"`
	Name            string               `json:"name"`
	From            time.Time            `json:"from"`
	To              time.Time            `json:"to"`
	GeneratedAt     time.Time            `json:"generated_at"`
	Punches         []PunchEventResponse `json:"punches"`
	Days            []TimesheetDay       `json:"days"`
	TotalSeconds    int64                `json:"total_seconds"`
	TotalDisplay    string               `json:"total_display"`
	OvertimeSeconds int64                `json:"overtime_seconds"`
	OvertimeDisplay string               `json:"overtime_display"`
}
