package timeclock

import (
	"context"

	"github.com/jhoicas/fieldops-api/internal/application/dto"
	"github.com/jhoicas/fieldops-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Cada marcación es una única escritura atómica: o queda completa o no queda nada.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		punchRepo repository.PunchRepository,
		workOrderRepo repository.WorkOrderRepository,
	) error) error
}

// StatusCache caché de instantáneas de estado para clientes que consultan periódicamente.
// Get devuelve (nil, nil) si no hay entrada. Los fallos son advertencias, nunca errores de la petición.
//
// Cada Invalidate incrementa la generación del usuario. Set recibe la generación leída antes de
// consultar el libro y no escribe si cambió desde entonces, de modo que una instantánea leída
// antes de una marcación no sobrevive a su invalidación.
type StatusCache interface {
	Get(ctx context.Context, userID string) (*dto.TimeStatusResponse, error)
	Generation(ctx context.Context, userID string) (int64, error)
	Set(ctx context.Context, status *dto.TimeStatusResponse, generation int64) error
	Invalidate(ctx context.Context, userID string) error
}

// TimesheetRenderer genera la representación binaria de una hoja de horas (PDF, XLSX).
type TimesheetRenderer interface {
	RenderTimesheet(ctx context.Context, sheet *dto.Timesheet) ([]byte, error)
	ContentType() string
	Extension() string
}
