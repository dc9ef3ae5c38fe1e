package timeclock

import (
	"context"
	"time"

	"github.com/jhoicas/fieldops-api/internal/application/dto"
	"github.com/jhoicas/fieldops-api/internal/domain"
	"github.com/jhoicas/fieldops-api/internal/domain/entity"
	"github.com/jhoicas/fieldops-api/internal/domain/repository"
	domaintc "github.com/jhoicas/fieldops-api/internal/domain/timeclock"
)

// DashboardUseCase vistas de solo lectura sobre el libro para tableros.
type DashboardUseCase struct {
	punchRepo     repository.PunchRepository
	userRepo      repository.UserRepository
	workOrderRepo repository.WorkOrderRepository
	now           func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(punchRepo repository.PunchRepository, userRepo repository.UserRepository, workOrderRepo repository.WorkOrderRepository) *DashboardUseCase {
	return &DashboardUseCase{
		punchRepo:     punchRepo,
		userRepo:      userRepo,
		workOrderRepo: workOrderRepo,
		now:           time.Now,
	}
}

// ActiveTechnicians usuarios con una marcación de trabajo abierta, excluyendo excludeUserID
// (el propio usuario en la vista "otros técnicos activos").
func (uc *DashboardUseCase) ActiveTechnicians(ctx context.Context, excludeUserID string) ([]dto.ActiveTechnicianResponse, error) {
	open := true
	punches, err := uc.punchRepo.List(ctx, entity.PunchFilter{PunchType: entity.PunchTypeWork, Open: &open})
	if err != nil {
		return nil, domain.Persistence(err)
	}
	now := uc.now()
	out := make([]dto.ActiveTechnicianResponse, 0, len(punches))
	for _, p := range punches {
		if p.UserID == excludeUserID {
			continue
		}
		row := dto.ActiveTechnicianResponse{
			UserID:         p.UserID,
			WorkOrderID:    p.WorkOrderID,
			ClockIn:        p.ClockIn,
			ElapsedSeconds: domaintc.PunchSeconds(p, now),
		}
		user, err := uc.userRepo.GetByID(ctx, p.UserID)
		if err != nil {
			return nil, domain.Persistence(err)
		}
		if user != nil {
			row.Username = user.Username
			row.Name = user.Name
		}
		wo, err := uc.workOrderRepo.GetByID(ctx, p.WorkOrderID)
		if err != nil {
			return nil, domain.Persistence(err)
		}
		if wo != nil {
			row.WorkOrderNumber = wo.Number
		}
		out = append(out, row)
	}
	return out, nil
}
