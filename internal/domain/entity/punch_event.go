package entity

import "time"

// Tipos de marcación.
const (
	PunchTypeGeneral = "general" // jornada
	PunchTypeWork    = "work"    // sesión sobre una orden de trabajo
)

// PunchEvent es una marcación de entrada/salida. Se crea al marcar entrada y solo se muta una vez,
// al marcar salida (ClockOut). Nunca se borra.
type PunchEvent struct {
	ID          string
	UserID      string
	PunchType   string
	WorkOrderID string // solo si PunchType == work
	ClockIn     time.Time
	ClockOut    *time.Time // nil mientras está abierta
	CreatedAt   time.Time
}

// IsOpen informa si la marcación sigue abierta.
func (p *PunchEvent) IsOpen() bool {
	return p.ClockOut == nil
}

// IsValidPunchType informa si t es un tipo de marcación soportado.
func IsValidPunchType(t string) bool {
	return t == PunchTypeGeneral || t == PunchTypeWork
}

// PunchFilter filtro para listar marcaciones. Campos vacíos/nil no filtran.
type PunchFilter struct {
	UserID      string
	WorkOrderID string
	PunchType   string
	Open        *bool
	From        *time.Time // ClockIn >= From
	To          *time.Time // ClockIn < To
}
