package repository

import (
	"context"

	"github.com/jhoicas/fieldops-api/internal/domain/entity"
)

// DemandRepository puerto de persistencia para Demand.
type DemandRepository interface {
	Create(ctx context.Context, d *entity.Demand) error
	GetForUpdate(ctx context.Context, id string) (*entity.Demand, error)
	Update(ctx context.Context, d *entity.Demand) error
	List(ctx context.Context, status string, limit, offset int) ([]*entity.Demand, error)
}
