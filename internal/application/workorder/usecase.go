// Package workorder casos de uso de órdenes de trabajo: alta, asignación y avance de estado.
// Las marcaciones sobre una orden las gestiona el paquete timeclock.
package workorder

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/fieldops-api/internal/application/dto"
	"github.com/jhoicas/fieldops-api/internal/domain"
	"github.com/jhoicas/fieldops-api/internal/domain/entity"
	"github.com/jhoicas/fieldops-api/internal/domain/repository"
	"github.com/jhoicas/fieldops-api/internal/domain/workorder"
)

// UseCase casos de uso de órdenes de trabajo.
type UseCase struct {
	txRunner      TxRunner
	workOrderRepo repository.WorkOrderRepository
	userRepo      repository.UserRepository
	now           func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(txRunner TxRunner, workOrderRepo repository.WorkOrderRepository, userRepo repository.UserRepository) *UseCase {
	return &UseCase{
		txRunner:      txRunner,
		workOrderRepo: workOrderRepo,
		userRepo:      userRepo,
		now:           time.Now,
	}
}

// WithClock reemplaza la fuente de tiempo (tests).
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	uc.now = now
	return uc
}

// Create crea una orden en estado new, o assigned si viene AssignedTo.
func (uc *UseCase) Create(ctx context.Context, actorID string, in dto.CreateWorkOrderRequest) (*dto.WorkOrderResponse, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Customer = strings.TrimSpace(in.Customer)
	if in.Title == "" || in.Customer == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.EstimatedHours != nil && in.EstimatedHours.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	status := entity.WorkOrderStatusNew
	if in.AssignedTo != "" {
		if err := uc.checkAssignee(ctx, in.AssignedTo); err != nil {
			return nil, err
		}
		status = entity.WorkOrderStatusAssigned
	}
	now := uc.now()
	wo := &entity.WorkOrder{
		ID:             uuid.New().String(),
		Status:         status,
		AssignedTo:     in.AssignedTo,
		Customer:       in.Customer,
		Asset:          strings.TrimSpace(in.Asset),
		Title:          in.Title,
		Description:    in.Description,
		EstimatedHours: in.EstimatedHours,
		CreatedBy:      actorID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.workOrderRepo.Create(ctx, wo); err != nil {
		return nil, domain.Persistence(err)
	}
	log.Info().Str("work_order", wo.Number).Str("status", wo.Status).Msg("orden de trabajo creada")
	return ToWorkOrderResponse(wo), nil
}

// GetByID obtiene una orden por ID. ErrNotFound si no existe.
func (uc *UseCase) GetByID(ctx context.Context, id string) (*dto.WorkOrderResponse, error) {
	wo, err := uc.workOrderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.Persistence(err)
	}
	if wo == nil {
		return nil, domain.ErrNotFound
	}
	return ToWorkOrderResponse(wo), nil
}

// List lista órdenes con filtro opcional por estado y asignado.
func (uc *UseCase) List(ctx context.Context, filter entity.WorkOrderFilter, limit, offset int) (*dto.WorkOrderListResponse, error) {
	if filter.Status != "" && !workorder.IsValidStatus(filter.Status) {
		return nil, domain.ErrInvalidInput
	}
	list, err := uc.workOrderRepo.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, domain.Persistence(err)
	}
	items := make([]dto.WorkOrderResponse, 0, len(list))
	for _, wo := range list {
		items = append(items, *ToWorkOrderResponse(wo))
	}
	return &dto.WorkOrderListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Assign asigna o reasigna la orden. Reasignar una orden in-progress la devuelve a assigned; no se
// permite mientras haya una marcación abierta sobre ella.
func (uc *UseCase) Assign(ctx context.Context, id, userID string) (*dto.WorkOrderResponse, error) {
	if id == "" || userID == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.checkAssignee(ctx, userID); err != nil {
		return nil, err
	}
	var out *entity.WorkOrder
	err := uc.txRunner.Run(ctx, func(punchRepo repository.PunchRepository, woRepo repository.WorkOrderRepository) error {
		wo, err := woRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if wo == nil {
			return domain.ErrNotFound
		}
		if err := workorder.CanReassign(wo.Status); err != nil {
			return err
		}
		open, err := punchRepo.GetOpenByWorkOrder(ctx, id)
		if err != nil {
			return err
		}
		if open != nil {
			return domain.ErrWorkOrderBusy
		}
		wo.AssignedTo = userID
		wo.Status = entity.WorkOrderStatusAssigned
		wo.UpdatedAt = uc.now()
		out = wo
		return woRepo.Update(ctx, wo)
	})
	if err != nil {
		return nil, domain.Persistence(err)
	}
	log.Info().Str("work_order", out.Number).Str("assigned_to", userID).Msg("orden de trabajo asignada")
	return ToWorkOrderResponse(out), nil
}

// Transition avanza el estado de forma explícita. Solo hacia adelante; completed y
// closedForReview exigen que no haya marcaciones abiertas sobre la orden.
func (uc *UseCase) Transition(ctx context.Context, id, status string) (*dto.WorkOrderResponse, error) {
	if id == "" || !workorder.IsValidStatus(status) {
		return nil, domain.ErrInvalidInput
	}
	var out *entity.WorkOrder
	err := uc.txRunner.Run(ctx, func(punchRepo repository.PunchRepository, woRepo repository.WorkOrderRepository) error {
		wo, err := woRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if wo == nil {
			return domain.ErrNotFound
		}
		if err := workorder.CanTransition(wo.Status, status); err != nil {
			return err
		}
		if workorder.IsTerminal(status) {
			open, err := punchRepo.GetOpenByWorkOrder(ctx, id)
			if err != nil {
				return err
			}
			if open != nil {
				return domain.ErrWorkOrderBusy
			}
		}
		wo.Status = status
		wo.UpdatedAt = uc.now()
		out = wo
		return woRepo.Update(ctx, wo)
	})
	if err != nil {
		return nil, domain.Persistence(err)
	}
	return ToWorkOrderResponse(out), nil
}

func (uc *UseCase) checkAssignee(ctx context.Context, userID string) error {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return domain.Persistence(err)
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	if !user.IsActive() {
		return domain.ErrInvalidInput
	}
	return nil
}

// ToWorkOrderResponse convierte la entidad en DTO.
func ToWorkOrderResponse(wo *entity.WorkOrder) *dto.WorkOrderResponse {
	if wo == nil {
		return nil
	}
	out := &dto.WorkOrderResponse{
		ID:             wo.ID,
		Number:         wo.Number,
		Status:         wo.Status,
		Customer:       wo.Customer,
		Asset:          wo.Asset,
		Title:          wo.Title,
		Description:    wo.Description,
		EstimatedHours: wo.EstimatedHours,
		CreatedBy:      wo.CreatedBy,
		CreatedAt:      wo.CreatedAt,
		UpdatedAt:      wo.UpdatedAt,
	}
	if wo.AssignedTo != "" {
		a := wo.AssignedTo
		out.AssignedTo = &a
	}
	return out
}
