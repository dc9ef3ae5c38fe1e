package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/fieldops-api/internal/domain/entity"
	"github.com/jhoicas/fieldops-api/internal/domain/repository"
)

var _ repository.DemandRepository = (*DemandRepo)(nil)

const demandColumns = `id, requested_by, title, customer, asset, description, status, reviewed_by,
	review_note, work_order_id, created_at, reviewed_at`

// DemandRepo implementación sobre PostgreSQL (usable con pool o tx).
type DemandRepo struct {
	q Querier
}

// NewDemandRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDemandRepository(q Querier) *DemandRepo {
	return &DemandRepo{q: q}
}

// Create persiste una demanda.
func (r *DemandRepo) Create(ctx context.Context, d *entity.Demand) error {
	query := `
		INSERT INTO demands (` + demandColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		d.ID, d.RequestedBy, d.Title, d.Customer, d.Asset, d.Description, d.Status,
		nullableString(d.ReviewedBy), d.ReviewNote, nullableString(d.WorkOrderID), d.CreatedAt, d.ReviewedAt,
	)
	if err != nil {
		return fmt.Errorf("insert demand: %w", err)
	}
	return nil
}

// GetForUpdate obtiene la demanda bloqueando la fila.
func (r *DemandRepo) GetForUpdate(ctx context.Context, id string) (*entity.Demand, error) {
	if !isUUID(id) {
		return nil, nil
	}
	d, err := scanDemand(r.q.QueryRow(ctx, `SELECT `+demandColumns+` FROM demands WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, fmt.Errorf("get demand for update: %w", err)
	}
	return d, nil
}

// Update guarda el resultado de la revisión.
func (r *DemandRepo) Update(ctx context.Context, d *entity.Demand) error {
	query := `
		UPDATE demands SET status = $2, reviewed_by = $3, review_note = $4, work_order_id = $5, reviewed_at = $6
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		d.ID, d.Status, nullableString(d.ReviewedBy), d.ReviewNote, nullableString(d.WorkOrderID), d.ReviewedAt,
	)
	if err != nil {
		return fmt.Errorf("update demand: %w", err)
	}
	return nil
}

// List lista demandas (status vacío = todas), más recientes primero.
func (r *DemandRepo) List(ctx context.Context, status string, limit, offset int) ([]*entity.Demand, error) {
	query := `SELECT ` + demandColumns + ` FROM demands`
	args := []any{}
	pos := 1
	if status != "" {
		query += fmt.Sprintf(" WHERE status = $%d", pos)
		args = append(args, status)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list demands: %w", err)
	}
	defer rows.Close()
	var list []*entity.Demand
	for rows.Next() {
		d, err := scanDemand(rows)
		if err != nil {
			return nil, fmt.Errorf("scan demand: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

func scanDemand(row pgx.Row) (*entity.Demand, error) {
	var d entity.Demand
	var reviewedBy, workOrderID *string
	err := row.Scan(&d.ID, &d.RequestedBy, &d.Title, &d.Customer, &d.Asset, &d.Description, &d.Status,
		&reviewedBy, &d.ReviewNote, &workOrderID, &d.CreatedAt, &d.ReviewedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if reviewedBy != nil {
		d.ReviewedBy = *reviewedBy
	}
	if workOrderID != nil {
		d.WorkOrderID = *workOrderID
	}
	return &d, nil
}
