package timeclock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/fieldops-api/internal/domain"
	"github.com/jhoicas/fieldops-api/internal/domain/entity"
	"github.com/jhoicas/fieldops-api/internal/domain/repository"
	"github.com/jhoicas/fieldops-api/internal/domain/workorder"
)

// Acciones devueltas por Toggle.
const (
	ActionClockIn  = "clock-in"
	ActionClockOut = "clock-out"
)

// LedgerUseCase libro de marcaciones. Las acciones de un mismo usuario se serializan con
// LockUser dentro de la transacción, lo que garantiza como máximo una marcación abierta por usuario.
type LedgerUseCase struct {
	txRunner  TxRunner
	punchRepo repository.PunchRepository
	cache     StatusCache
	linker    StatusLinker
	now       func() time.Time
}

// NewLedgerUseCase construye el caso de uso. cache puede ser nil.
func NewLedgerUseCase(txRunner TxRunner, punchRepo repository.PunchRepository, cache StatusCache) *LedgerUseCase {
	return &LedgerUseCase{
		txRunner:  txRunner,
		punchRepo: punchRepo,
		cache:     cache,
		now:       time.Now,
	}
}

// WithClock reemplaza la fuente de tiempo (tests).
func (uc *LedgerUseCase) WithClock(now func() time.Time) *LedgerUseCase {
	uc.now = now
	return uc
}

// ClockInInput entrada para marcar entrada. PunchType vacío = general.
type ClockInInput struct {
	UserID      string
	PunchType   string
	WorkOrderID string
}

func (in *ClockInInput) normalize() error {
	if in.UserID == "" {
		return domain.ErrInvalidInput
	}
	if in.PunchType == "" {
		in.PunchType = entity.PunchTypeGeneral
		if in.WorkOrderID != "" {
			in.PunchType = entity.PunchTypeWork
		}
	}
	if !entity.IsValidPunchType(in.PunchType) {
		return domain.ErrInvalidInput
	}
	if in.PunchType == entity.PunchTypeWork && in.WorkOrderID == "" {
		return domain.ErrInvalidInput
	}
	if in.PunchType == entity.PunchTypeGeneral && in.WorkOrderID != "" {
		return domain.ErrInvalidInput
	}
	return nil
}

// ClockIn abre una marcación. Falla con ErrAlreadyClockedIn si el usuario ya tiene una abierta y con
// ErrUnknownWorkOrder si la orden no existe (antes de insertar nada).
func (uc *LedgerUseCase) ClockIn(ctx context.Context, in ClockInInput) (*entity.PunchEvent, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	var punch *entity.PunchEvent
	err := uc.txRunner.Run(ctx, func(punchRepo repository.PunchRepository, woRepo repository.WorkOrderRepository) error {
		if err := punchRepo.LockUser(ctx, in.UserID); err != nil {
			return err
		}
		open, err := punchRepo.GetOpenByUser(ctx, in.UserID)
		if err != nil {
			return err
		}
		if open != nil {
			return domain.ErrAlreadyClockedIn
		}
		punch, err = uc.clockInTx(ctx, punchRepo, woRepo, in)
		return err
	})
	if err != nil {
		return nil, domain.Persistence(err)
	}
	uc.afterCommit(ctx, ActionClockIn, punch)
	return punch, nil
}

// ClockOut cierra la marcación abierta del usuario. Falla con ErrNotClockedIn si no hay ninguna.
func (uc *LedgerUseCase) ClockOut(ctx context.Context, userID string) (*entity.PunchEvent, error) {
	if userID == "" {
		return nil, domain.ErrInvalidInput
	}
	var punch *entity.PunchEvent
	err := uc.txRunner.Run(ctx, func(punchRepo repository.PunchRepository, woRepo repository.WorkOrderRepository) error {
		if err := punchRepo.LockUser(ctx, userID); err != nil {
			return err
		}
		open, err := punchRepo.GetOpenByUser(ctx, userID)
		if err != nil {
			return err
		}
		if open == nil {
			return domain.ErrNotClockedIn
		}
		punch = open
		return uc.clockOutTx(ctx, punchRepo, woRepo, open)
	})
	if err != nil {
		return nil, domain.Persistence(err)
	}
	uc.afterCommit(ctx, ActionClockOut, punch)
	return punch, nil
}

// Toggle marca salida si el usuario tiene una marcación abierta; si no, marca entrada con in.
// La decisión y la escritura ocurren en la misma transacción.
func (uc *LedgerUseCase) Toggle(ctx context.Context, in ClockInInput) (string, *entity.PunchEvent, error) {
	if in.UserID == "" {
		return "", nil, domain.ErrInvalidInput
	}
	var (
		action string
		punch  *entity.PunchEvent
	)
	err := uc.txRunner.Run(ctx, func(punchRepo repository.PunchRepository, woRepo repository.WorkOrderRepository) error {
		if err := punchRepo.LockUser(ctx, in.UserID); err != nil {
			return err
		}
		open, err := punchRepo.GetOpenByUser(ctx, in.UserID)
		if err != nil {
			return err
		}
		if open != nil {
			action, punch = ActionClockOut, open
			return uc.clockOutTx(ctx, punchRepo, woRepo, open)
		}
		if err := in.normalize(); err != nil {
			return err
		}
		action = ActionClockIn
		punch, err = uc.clockInTx(ctx, punchRepo, woRepo, in)
		return err
	})
	if err != nil {
		return "", nil, domain.Persistence(err)
	}
	uc.afterCommit(ctx, action, punch)
	return action, punch, nil
}

// PunchOutWorkOrder cierra la marcación de trabajo abierta del usuario sobre esa orden.
func (uc *LedgerUseCase) PunchOutWorkOrder(ctx context.Context, workOrderID, userID string) (*entity.PunchEvent, error) {
	if workOrderID == "" || userID == "" {
		return nil, domain.ErrInvalidInput
	}
	var punch *entity.PunchEvent
	err := uc.txRunner.Run(ctx, func(punchRepo repository.PunchRepository, woRepo repository.WorkOrderRepository) error {
		wo, err := woRepo.GetByID(ctx, workOrderID)
		if err != nil {
			return err
		}
		if wo == nil {
			return domain.ErrUnknownWorkOrder
		}
		if err := punchRepo.LockUser(ctx, userID); err != nil {
			return err
		}
		open, err := punchRepo.GetOpenByUser(ctx, userID)
		if err != nil {
			return err
		}
		if open == nil || open.PunchType != entity.PunchTypeWork || open.WorkOrderID != workOrderID {
			return domain.ErrNotClockedIn
		}
		punch = open
		return uc.clockOutTx(ctx, punchRepo, woRepo, open)
	})
	if err != nil {
		return nil, domain.Persistence(err)
	}
	uc.afterCommit(ctx, ActionClockOut, punch)
	return punch, nil
}

// CurrentOpenPunch consulta sin efectos la marcación abierta del usuario (nil si no hay).
func (uc *LedgerUseCase) CurrentOpenPunch(ctx context.Context, userID string) (*entity.PunchEvent, error) {
	if userID == "" {
		return nil, domain.ErrInvalidInput
	}
	p, err := uc.punchRepo.GetOpenByUser(ctx, userID)
	if err != nil {
		return nil, domain.Persistence(err)
	}
	return p, nil
}

// ListPunches lista marcaciones ordenadas por ClockIn ascendente.
func (uc *LedgerUseCase) ListPunches(ctx context.Context, filter entity.PunchFilter) ([]*entity.PunchEvent, error) {
	if filter.PunchType != "" && !entity.IsValidPunchType(filter.PunchType) {
		return nil, domain.ErrInvalidInput
	}
	list, err := uc.punchRepo.List(ctx, filter)
	if err != nil {
		return nil, domain.Persistence(err)
	}
	return list, nil
}

// clockInTx valida la orden (si aplica), inserta la marcación y aplica el enlace de estado.
// El usuario ya está bloqueado y sin marcación abierta.
func (uc *LedgerUseCase) clockInTx(ctx context.Context, punchRepo repository.PunchRepository, woRepo repository.WorkOrderRepository, in ClockInInput) (*entity.PunchEvent, error) {
	now := uc.now()
	var wo *entity.WorkOrder
	if in.PunchType == entity.PunchTypeWork {
		var err error
		wo, err = woRepo.GetForUpdate(ctx, in.WorkOrderID)
		if err != nil {
			return nil, err
		}
		if wo == nil {
			return nil, domain.ErrUnknownWorkOrder
		}
		if workorder.IsTerminal(wo.Status) {
			return nil, domain.ErrWorkOrderClosed
		}
		busy, err := punchRepo.GetOpenByWorkOrder(ctx, wo.ID)
		if err != nil {
			return nil, err
		}
		if busy != nil {
			return nil, domain.ErrWorkOrderBusy
		}
	}
	punch := &entity.PunchEvent{
		ID:          uuid.New().String(),
		UserID:      in.UserID,
		PunchType:   in.PunchType,
		WorkOrderID: in.WorkOrderID,
		ClockIn:     now,
		CreatedAt:   now,
	}
	if err := punchRepo.Create(ctx, punch); err != nil {
		return nil, err
	}
	if err := uc.linker.OnClockIn(ctx, woRepo, wo, punch, now); err != nil {
		return nil, err
	}
	return punch, nil
}

func (uc *LedgerUseCase) clockOutTx(ctx context.Context, punchRepo repository.PunchRepository, woRepo repository.WorkOrderRepository, open *entity.PunchEvent) error {
	out := uc.now()
	if out.Before(open.ClockIn) {
		out = open.ClockIn
	}
	open.ClockOut = &out
	if err := punchRepo.Close(ctx, open); err != nil {
		open.ClockOut = nil
		return err
	}
	return uc.linker.OnClockOut(ctx, woRepo, open)
}

func (uc *LedgerUseCase) afterCommit(ctx context.Context, action string, punch *entity.PunchEvent) {
	log.Info().
		Str("action", action).
		Str("user_id", punch.UserID).
		Str("punch_id", punch.ID).
		Str("punch_type", punch.PunchType).
		Msg("marcación registrada")
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Invalidate(ctx, punch.UserID); err != nil {
		log.Warn().Err(err).Str("user_id", punch.UserID).Msg("invalidar caché de estado")
	}
}
