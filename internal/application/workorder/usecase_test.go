package workorder_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fieldops-api/internal/application/dto"
	"github.com/jhoicas/fieldops-api/internal/application/workorder"
	"github.com/jhoicas/fieldops-api/internal/domain"
	"github.com/jhoicas/fieldops-api/internal/domain/entity"
	"github.com/jhoicas/fieldops-api/internal/testutil/memstore"
)

const (
	advisorID = "a-1"
	techID    = "t-1"
)

func newUseCase(t *testing.T) (*workorder.UseCase, *memstore.Store) {
	t.Helper()
	store := memstore.New()
	store.AddUser(&entity.User{ID: techID, Username: "tecnico", Role: entity.RoleTechnician, Status: entity.UserStatusActive})
	store.AddUser(&entity.User{ID: "t-off", Username: "retirado", Role: entity.RoleTechnician, Status: entity.UserStatusInactive})
	now := time.Date(2024, 3, 5, 8, 0, 0, 0, time.UTC)
	uc := workorder.NewUseCase(store, store.WorkOrders(), store.Users()).WithClock(func() time.Time { return now })
	return uc, store
}

func TestCreate_NumeracionYEstadoInicial(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()
	hours := decimal.RequireFromString("3.5")

	first, err := uc.Create(ctx, advisorID, dto.CreateWorkOrderRequest{Title: " Mantenimiento ", Customer: "ACME", EstimatedHours: &hours})
	require.NoError(t, err)
	assert.Equal(t, "WO-000001", first.Number)
	assert.Equal(t, entity.WorkOrderStatusNew, first.Status)
	assert.Equal(t, "Mantenimiento", first.Title)
	assert.Nil(t, first.AssignedTo)

	second, err := uc.Create(ctx, advisorID, dto.CreateWorkOrderRequest{Title: "Revisión", Customer: "ACME", AssignedTo: techID})
	require.NoError(t, err)
	assert.Equal(t, "WO-000002", second.Number)
	assert.Equal(t, entity.WorkOrderStatusAssigned, second.Status)
	require.NotNil(t, second.AssignedTo)
	assert.Equal(t, techID, *second.AssignedTo)
}

func TestCreate_Validaciones(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()
	negative := decimal.NewFromInt(-1)

	_, err := uc.Create(ctx, advisorID, dto.CreateWorkOrderRequest{Customer: "ACME"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Create(ctx, advisorID, dto.CreateWorkOrderRequest{Title: "x", Customer: "ACME", EstimatedHours: &negative})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Create(ctx, advisorID, dto.CreateWorkOrderRequest{Title: "x", Customer: "ACME", AssignedTo: "nadie"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	_, err = uc.Create(ctx, advisorID, dto.CreateWorkOrderRequest{Title: "x", Customer: "ACME", AssignedTo: "t-off"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGetByID_NoExiste(t *testing.T) {
	uc, _ := newUseCase(t)
	_, err := uc.GetByID(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAssign(t *testing.T) {
	uc, store := newUseCase(t)
	ctx := context.Background()
	store.AddWorkOrder(&entity.WorkOrder{ID: "wo-1", Number: "WO-000001", Status: entity.WorkOrderStatusInProgress, AssignedTo: "otro"})
	store.AddWorkOrder(&entity.WorkOrder{ID: "wo-2", Number: "WO-000002", Status: entity.WorkOrderStatusCompleted})

	res, err := uc.Assign(ctx, "wo-1", techID)
	require.NoError(t, err)
	assert.Equal(t, entity.WorkOrderStatusAssigned, res.Status)
	assert.Equal(t, techID, store.WorkOrder("wo-1").AssignedTo)

	_, err = uc.Assign(ctx, "wo-2", techID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = uc.Assign(ctx, "wo-9", techID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAssign_ConMarcacionAbierta(t *testing.T) {
	uc, store := newUseCase(t)
	store.AddWorkOrder(&entity.WorkOrder{ID: "wo-1", Number: "WO-000001", Status: entity.WorkOrderStatusInProgress, AssignedTo: "otro"})
	store.AddPunch(&entity.PunchEvent{ID: "p-1", UserID: "otro", PunchType: entity.PunchTypeWork, WorkOrderID: "wo-1", ClockIn: time.Now()})

	_, err := uc.Assign(context.Background(), "wo-1", techID)
	assert.ErrorIs(t, err, domain.ErrWorkOrderBusy)
	assert.Equal(t, entity.WorkOrderStatusInProgress, store.WorkOrder("wo-1").Status)
}

func TestTransition(t *testing.T) {
	uc, store := newUseCase(t)
	ctx := context.Background()
	store.AddWorkOrder(&entity.WorkOrder{ID: "wo-1", Number: "WO-000001", Status: entity.WorkOrderStatusInProgress, AssignedTo: techID})
	store.AddPunch(&entity.PunchEvent{ID: "p-1", UserID: techID, PunchType: entity.PunchTypeWork, WorkOrderID: "wo-1", ClockIn: time.Now()})

	_, err := uc.Transition(ctx, "wo-1", entity.WorkOrderStatusCompleted)
	assert.ErrorIs(t, err, domain.ErrWorkOrderBusy)

	out := time.Now().Add(time.Hour)
	require.NoError(t, store.Punches().Close(ctx, &entity.PunchEvent{ID: "p-1", ClockOut: &out}))

	res, err := uc.Transition(ctx, "wo-1", entity.WorkOrderStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, entity.WorkOrderStatusCompleted, res.Status)

	_, err = uc.Transition(ctx, "wo-1", entity.WorkOrderStatusInProgress)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = uc.Transition(ctx, "wo-1", "archived")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestList_FiltraPorEstado(t *testing.T) {
	uc, store := newUseCase(t)
	store.AddWorkOrder(&entity.WorkOrder{ID: "wo-1", Number: "WO-000001", Status: entity.WorkOrderStatusNew})
	store.AddWorkOrder(&entity.WorkOrder{ID: "wo-2", Number: "WO-000002", Status: entity.WorkOrderStatusAssigned, AssignedTo: techID})

	res, err := uc.List(context.Background(), entity.WorkOrderFilter{AssignedTo: techID}, 20, 0)
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "WO-000002", res.Items[0].Number)

	_, err = uc.List(context.Background(), entity.WorkOrderFilter{Status: "x"}, 20, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
