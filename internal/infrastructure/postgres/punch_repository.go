package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/fieldops-api/internal/domain"
	"github.com/jhoicas/fieldops-api/internal/domain/entity"
	"github.com/jhoicas/fieldops-api/internal/domain/repository"
)

var _ repository.PunchRepository = (*PunchRepo)(nil)

const punchColumns = `id, user_id, punch_type, work_order_id, clock_in, clock_out, created_at`

// PunchRepo libro de marcaciones sobre PostgreSQL (usable con pool o tx).
type PunchRepo struct {
	q Querier
}

// NewPunchRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPunchRepository(q Querier) *PunchRepo {
	return &PunchRepo{q: q}
}

// LockUser toma un advisory lock de transacción por usuario. Fuera de una tx el lock se libera
// al terminar la sentencia, así que solo tiene efecto con un Querier transaccional.
func (r *PunchRepo) LockUser(ctx context.Context, userID string) error {
	if _, err := r.q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, userID); err != nil {
		return fmt.Errorf("lock user punches: %w", err)
	}
	return nil
}

// Create inserta una marcación abierta. Los índices únicos parciales traducen una carrera
// perdida en ErrAlreadyClockedIn o ErrWorkOrderBusy.
func (r *PunchRepo) Create(ctx context.Context, punch *entity.PunchEvent) error {
	query := `
		INSERT INTO punch_events (` + punchColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		punch.ID, punch.UserID, punch.PunchType, nullableString(punch.WorkOrderID),
		punch.ClockIn, punch.ClockOut, punch.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			switch violatedConstraint(err) {
			case constraintOpenPunchPerWorkOrder:
				return domain.ErrWorkOrderBusy
			default:
				return domain.ErrAlreadyClockedIn
			}
		}
		return fmt.Errorf("insert punch: %w", err)
	}
	return nil
}

// Close fija clock_out solo si la marcación sigue abierta.
func (r *PunchRepo) Close(ctx context.Context, punch *entity.PunchEvent) error {
	if punch.ClockOut == nil {
		return domain.ErrInvalidInput
	}
	tag, err := r.q.Exec(ctx,
		`UPDATE punch_events SET clock_out = $2 WHERE id = $1 AND clock_out IS NULL`,
		punch.ID, *punch.ClockOut,
	)
	if err != nil {
		return fmt.Errorf("close punch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotClockedIn
	}
	return nil
}

// GetOpenByUser devuelve la marcación abierta del usuario o nil.
func (r *PunchRepo) GetOpenByUser(ctx context.Context, userID string) (*entity.PunchEvent, error) {
	if !isUUID(userID) {
		return nil, nil
	}
	query := `SELECT ` + punchColumns + ` FROM punch_events WHERE user_id = $1 AND clock_out IS NULL`
	p, err := scanPunch(r.q.QueryRow(ctx, query, userID))
	if err != nil {
		return nil, fmt.Errorf("get open punch by user: %w", err)
	}
	return p, nil
}

// GetOpenByWorkOrder devuelve la marcación de trabajo abierta sobre la orden o nil.
func (r *PunchRepo) GetOpenByWorkOrder(ctx context.Context, workOrderID string) (*entity.PunchEvent, error) {
	if !isUUID(workOrderID) {
		return nil, nil
	}
	query := `SELECT ` + punchColumns + ` FROM punch_events WHERE work_order_id = $1 AND clock_out IS NULL`
	p, err := scanPunch(r.q.QueryRow(ctx, query, workOrderID))
	if err != nil {
		return nil, fmt.Errorf("get open punch by work order: %w", err)
	}
	return p, nil
}

// List lista marcaciones con filtros opcionales, ordenadas por clock_in ascendente.
func (r *PunchRepo) List(ctx context.Context, filter entity.PunchFilter) ([]*entity.PunchEvent, error) {
	if (filter.UserID != "" && !isUUID(filter.UserID)) || (filter.WorkOrderID != "" && !isUUID(filter.WorkOrderID)) {
		return nil, nil
	}
	query := `SELECT ` + punchColumns + ` FROM punch_events WHERE 1=1`
	args := []any{}
	pos := 1
	if filter.UserID != "" {
		query += fmt.Sprintf(" AND user_id = $%d", pos)
		args = append(args, filter.UserID)
		pos++
	}
	if filter.WorkOrderID != "" {
		query += fmt.Sprintf(" AND work_order_id = $%d", pos)
		args = append(args, filter.WorkOrderID)
		pos++
	}
	if filter.PunchType != "" {
		query += fmt.Sprintf(" AND punch_type = $%d", pos)
		args = append(args, filter.PunchType)
		pos++
	}
	if filter.Open != nil {
		if *filter.Open {
			query += " AND clock_out IS NULL"
		} else {
			query += " AND clock_out IS NOT NULL"
		}
	}
	if filter.From != nil {
		query += fmt.Sprintf(" AND clock_in >= $%d", pos)
		args = append(args, *filter.From)
		pos++
	}
	if filter.To != nil {
		query += fmt.Sprintf(" AND clock_in < $%d", pos)
		args = append(args, *filter.To)
	}
	query += " ORDER BY clock_in ASC, id ASC"

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list punches: %w", err)
	}
	defer rows.Close()
	var list []*entity.PunchEvent
	for rows.Next() {
		p, err := scanPunch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan punch: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// scanPunch escanea una fila; (nil, nil) si no hay filas.
func scanPunch(row pgx.Row) (*entity.PunchEvent, error) {
	var p entity.PunchEvent
	var workOrderID *string
	err := row.Scan(&p.ID, &p.UserID, &p.PunchType, &workOrderID, &p.ClockIn, &p.ClockOut, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if workOrderID != nil {
		p.WorkOrderID = *workOrderID
	}
	return &p, nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
