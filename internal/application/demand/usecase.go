// Package demand casos de uso de demandas: un técnico solicita una orden de trabajo y un asesor
// técnico la aprueba (creando la orden) o la rechaza.
package demand

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
)

// TxRunner ejecuta fn con los repos de órdenes y demandas atados a una misma transacción.
type TxRunner interface {
	RunDemand(ctx context.Context, fn func(
		workOrderRepo repository.WorkOrderRepository,
		demandRepo repository.DemandRepository,
	) error) error
}

// UseCase casos de uso de demandas.
type UseCase struct {
	txRunner   TxRunner
	demandRepo repository.DemandRepository
	userRepo   repository.UserRepository
	now        func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(txRunner TxRunner, demandRepo repository.DemandRepository, userRepo repository.UserRepository) *UseCase {
	return &UseCase{txRunner: txRunner, demandRepo: demandRepo, userRepo: userRepo, now: time.Now}
}

// WithClock reemplaza la fuente de tiempo (tests).
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	uc.now = now
	return uc
}

// Submit registra una demanda pendiente.
func (uc *UseCase) Submit(ctx context.Context, requestedBy string, in dto.SubmitDemandRequest) (*dto.DemandResponse, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Customer = strings.TrimSpace(in.Customer)
	if requestedBy == "" || in.Title == "" || in.Customer == "" {
		return nil, domain.ErrInvalidInput
	}
	d := &entity.Demand{
		ID:          uuid.New().String(),
		RequestedBy: requestedBy,
		Title:       in.Title,
		Customer:    in.Customer,
		Asset:       strings.TrimSpace(in.Asset),
		Description: in.Description,
		Status:      entity.DemandStatusPending,
		CreatedAt:   uc.now(),
	}
	if err := uc.demandRepo.Create(ctx, d); err != nil {
		return nil, domain.Persistence(err)
	}
	return toDemandResponse(d), nil
}

// List lista demandas, opcionalmente por estado.
func (uc *UseCase) List(ctx context.Context, status string, limit, offset int) ([]dto.DemandResponse, error) {
	switch status {
	case "", entity.DemandStatusPending, entity.DemandStatusApproved, entity.DemandStatusRejected:
	default:
		return nil, domain.ErrInvalidInput
	}
	list, err := uc.demandRepo.List(ctx, status, limit, offset)
	if err != nil {
		return nil, domain.Persistence(err)
	}
	out := make([]dto.DemandResponse, 0, len(list))
	for _, d := range list {
		out = append(out, *toDemandResponse(d))
	}
	return out, nil
}

// Approve crea la orden de trabajo a partir de la demanda y la enlaza, en una sola transacción.
func (uc *UseCase) Approve(ctx context.Context, id, reviewerID string, in dto.ApproveDemandRequest) (*dto.DemandResponse, error) {
	if id == "" || reviewerID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.AssignTo != "" {
		user, err := uc.userRepo.GetByID(ctx, in.AssignTo)
		if err != nil {
			return nil, domain.Persistence(err)
		}
		if user == nil {
			return nil, domain.ErrUserNotFound
		}
		if !user.IsActive() {
			return nil, domain.ErrInvalidInput
		}
	}
	var out *entity.Demand
	err := uc.txRunner.RunDemand(ctx, func(woRepo repository.WorkOrderRepository, demandRepo repository.DemandRepository) error {
		d, err := demandRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if d == nil {
			return domain.ErrNotFound
		}
		if d.Status != entity.DemandStatusPending {
			return domain.ErrInvalidTransition
		}
		now := uc.now()
		wo := &entity.WorkOrder{
			ID:          uuid.New().String(),
			Status:      entity.WorkOrderStatusNew,
			AssignedTo:  in.AssignTo,
			Customer:    d.Customer,
			Asset:       d.Asset,
			Title:       d.Title,
			Description: d.Description,
			CreatedBy:   reviewerID,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if in.AssignTo != "" {
			wo.Status = entity.WorkOrderStatusAssigned
		}
		if err := woRepo.Create(ctx, wo); err != nil {
			return err
		}
		d.Status = entity.DemandStatusApproved
		d.ReviewedBy = reviewerID
		d.ReviewNote = in.Note
		d.WorkOrderID = wo.ID
		d.ReviewedAt = &now
		out = d
		return demandRepo.Update(ctx, d)
	})
	if err != nil {
		return nil, domain.Persistence(err)
	}
	log.Info().Str("demand_id", out.ID).Str("work_order_id", out.WorkOrderID).Msg("demanda aprobada")
	return toDemandResponse(out), nil
}

// Reject rechaza una demanda pendiente. La nota es obligatoria.
func (uc *UseCase) Reject(ctx context.Context, id, reviewerID, note string) (*dto.DemandResponse, error) {
	note = strings.TrimSpace(note)
	if id == "" || reviewerID == "" || note == "" {
		return nil, domain.ErrInvalidInput
	}
	var out *entity.Demand
	err := uc.txRunner.RunDemand(ctx, func(_ repository.WorkOrderRepository, demandRepo repository.DemandRepository) error {
		d, err := demandRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if d == nil {
			return domain.ErrNotFound
		}
		if d.Status != entity.DemandStatusPending {
			return domain.ErrInvalidTransition
		}
		now := uc.now()
		d.Status = entity.DemandStatusRejected
		d.ReviewedBy = reviewerID
		d.ReviewNote = note
		d.ReviewedAt = &now
		out = d
		return demandRepo.Update(ctx, d)
	})
	if err != nil {
		return nil, domain.Persistence(err)
	}
	return toDemandResponse(out), nil
}

func toDemandResponse(d *entity.Demand) *dto.DemandResponse {
	out := &dto.DemandResponse{
		ID:          d.ID,
		RequestedBy: d.RequestedBy,
		Title:       d.Title,
		Customer:    d.Customer,
		Asset:       d.Asset,
		Description: d.Description,
		Status:      d.Status,
		ReviewNote:  d.ReviewNote,
		CreatedAt:   d.CreatedAt,
		ReviewedAt:  d.ReviewedAt,
	}
	if d.ReviewedBy != "" {
		r := d.ReviewedBy
		out.ReviewedBy = &r
	}
	if d.WorkOrderID != "" {
		w := d.WorkOrderID
		out.WorkOrderID = &w
	}
	return out
}
