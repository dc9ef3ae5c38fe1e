package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/fieldops-api/internal/domain/entity"
	"github.com/jhoicas/fieldops-api/internal/domain/repository"
)

var _ repository.WorkOrderRepository = (*WorkOrderRepo)(nil)

const workOrderColumns = `id, number, status, assigned_to, customer, asset, title, description,
	estimated_hours, created_by, created_at, updated_at`

// WorkOrderRepo implementación sobre PostgreSQL (usable con pool o tx).
type WorkOrderRepo struct {
	q Querier
}

// NewWorkOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewWorkOrderRepository(q Querier) *WorkOrderRepo {
	return &WorkOrderRepo{q: q}
}

// Create persiste la orden. Si Number viene vacío se toma de work_order_number_seq.
func (r *WorkOrderRepo) Create(ctx context.Context, wo *entity.WorkOrder) error {
	if wo.Number == "" {
		var seq int64
		if err := r.q.QueryRow(ctx, `SELECT nextval('work_order_number_seq')`).Scan(&seq); err != nil {
			return fmt.Errorf("next work order number: %w", err)
		}
		wo.Number = fmt.Sprintf("WO-%06d", seq)
	}
	query := `
		INSERT INTO work_orders (` + workOrderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		wo.ID, wo.Number, wo.Status, nullableString(wo.AssignedTo), wo.Customer, wo.Asset,
		wo.Title, wo.Description, wo.EstimatedHours, nullableString(wo.CreatedBy),
		wo.CreatedAt, wo.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert work order: %w", err)
	}
	return nil
}

// GetByID obtiene una orden por ID (nil si no existe).
func (r *WorkOrderRepo) GetByID(ctx context.Context, id string) (*entity.WorkOrder, error) {
	if !isUUID(id) {
		return nil, nil
	}
	wo, err := scanWorkOrder(r.q.QueryRow(ctx, `SELECT `+workOrderColumns+` FROM work_orders WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("get work order: %w", err)
	}
	return wo, nil
}

// GetForUpdate obtiene la orden con bloqueo de fila (SELECT FOR UPDATE).
func (r *WorkOrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.WorkOrder, error) {
	if !isUUID(id) {
		return nil, nil
	}
	wo, err := scanWorkOrder(r.q.QueryRow(ctx, `SELECT `+workOrderColumns+` FROM work_orders WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, fmt.Errorf("get work order for update: %w", err)
	}
	return wo, nil
}

// Update actualiza estado, asignación y datos descriptivos.
func (r *WorkOrderRepo) Update(ctx context.Context, wo *entity.WorkOrder) error {
	query := `
		UPDATE work_orders SET status = $2, assigned_to = $3, customer = $4, asset = $5, title = $6,
			description = $7, estimated_hours = $8, updated_at = $9
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		wo.ID, wo.Status, nullableString(wo.AssignedTo), wo.Customer, wo.Asset, wo.Title,
		wo.Description, wo.EstimatedHours, wo.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update work order: %w", err)
	}
	return nil
}

// List lista órdenes filtradas, más recientes primero.
func (r *WorkOrderRepo) List(ctx context.Context, filter entity.WorkOrderFilter, limit, offset int) ([]*entity.WorkOrder, error) {
	query := `SELECT ` + workOrderColumns + ` FROM work_orders WHERE 1=1`
	args := []any{}
	pos := 1
	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, filter.Status)
		pos++
	}
	if filter.AssignedTo != "" {
		if !isUUID(filter.AssignedTo) {
			return nil, nil
		}
		query += fmt.Sprintf(" AND assigned_to = $%d", pos)
		args = append(args, filter.AssignedTo)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list work orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.WorkOrder
	for rows.Next() {
		wo, err := scanWorkOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan work order: %w", err)
		}
		list = append(list, wo)
	}
	return list, rows.Err()
}

func scanWorkOrder(row pgx.Row) (*entity.WorkOrder, error) {
	var wo entity.WorkOrder
	var assignedTo, createdBy *string
	var estimated decimal.NullDecimal
	err := row.Scan(&wo.ID, &wo.Number, &wo.Status, &assignedTo, &wo.Customer, &wo.Asset,
		&wo.Title, &wo.Description, &estimated, &createdBy, &wo.CreatedAt, &wo.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if assignedTo != nil {
		wo.AssignedTo = *assignedTo
	}
	if createdBy != nil {
		wo.CreatedBy = *createdBy
	}
	if estimated.Valid {
		d := estimated.Decimal
		wo.EstimatedHours = &d
	}
	return &wo, nil
}
