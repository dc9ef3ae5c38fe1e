package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/fieldops-api/internal/application/demand"
	"github.com/jhoicas/fieldops-api/internal/application/timeclock"
	"github.com/jhoicas/fieldops-api/internal/application/workorder"
	"github.com/jhoicas/fieldops-api/internal/domain/repository"
)

var (
	_ timeclock.TxRunner = (*TxRunner)(nil)
	_ workorder.TxRunner = (*TxRunner)(nil)
	_ demand.TxRunner    = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run ejecuta fn con los repos de marcaciones y órdenes atados a una tx (Commit o Rollback).
func (r *TxRunner) Run(ctx context.Context, fn func(
	punchRepo repository.PunchRepository,
	workOrderRepo repository.WorkOrderRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewPunchRepository(tx), NewWorkOrderRepository(tx))
	})
}

// RunDemand ejecuta fn con los repos de órdenes y demandas (aprobación de demanda).
func (r *TxRunner) RunDemand(ctx context.Context, fn func(
	workOrderRepo repository.WorkOrderRepository,
	demandRepo repository.DemandRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewWorkOrderRepository(tx), NewDemandRepository(tx))
	})
}

func (r *TxRunner) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
