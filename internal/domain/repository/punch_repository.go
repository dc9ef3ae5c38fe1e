package repository

import (
	"context"

	"github.com/jhoicas/fieldops-api/internal/domain/entity"
)

// PunchRepository puerto de persistencia del libro de marcaciones. Solo inserta y cierra;
// no hay borrado.
type PunchRepository interface {
	// LockUser serializa las acciones de marcación de un usuario hasta el fin de la transacción.
	LockUser(ctx context.Context, userID string) error
	Create(ctx context.Context, punch *entity.PunchEvent) error
	// Close fija ClockOut en una marcación abierta. Devuelve domain.ErrNotClockedIn si ya estaba cerrada.
	Close(ctx context.Context, punch *entity.PunchEvent) error
	GetOpenByUser(ctx context.Context, userID string) (*entity.PunchEvent, error)
	GetOpenByWorkOrder(ctx context.Context, workOrderID string) (*entity.PunchEvent, error)
	// List ordena por ClockIn ascendente.
	List(ctx context.Context, filter entity.PunchFilter) ([]*entity.PunchEvent, error)
}
