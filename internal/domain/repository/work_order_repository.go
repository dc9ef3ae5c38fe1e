package repository

import (
	"context"

	"github.com/jhoicas/fieldops-api/internal/domain/entity"
)

// WorkOrderRepository puerto de persistencia para WorkOrder.
type WorkOrderRepository interface {
	// Create asigna Number desde la secuencia si viene vacío.
	Create(ctx context.Context, wo *entity.WorkOrder) error
	GetByID(ctx context.Context, id string) (*entity.WorkOrder, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.WorkOrder, error)
	Update(ctx context.Context, wo *entity.WorkOrder) error
	List(ctx context.Context, filter entity.WorkOrderFilter, limit, offset int) ([]*entity.WorkOrder, error)
}
