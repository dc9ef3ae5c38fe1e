package timeclock

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jhoicas/fieldops-api/internal/application/dto"
	"github.com/jhoicas/fieldops-api/internal/domain"
	"github.com/jhoicas/fieldops-api/internal/domain/repository"
	domaintc "github.com/jhoicas/fieldops-api/internal/domain/timeclock"
)

// StatusUseCase resuelve el estado actual (idle / on-shift / on-work-order) a partir del libro.
// No guarda estado propio; la caché solo acelera las consultas periódicas.
type StatusUseCase struct {
	punchRepo    repository.PunchRepository
	cache        StatusCache
	pollInterval int
	now          func() time.Time
}

// NewStatusUseCase construye el caso de uso. cache puede ser nil.
func NewStatusUseCase(punchRepo repository.PunchRepository, cache StatusCache, pollIntervalSeconds int) *StatusUseCase {
	return &StatusUseCase{
		punchRepo:    punchRepo,
		cache:        cache,
		pollInterval: pollIntervalSeconds,
		now:          time.Now,
	}
}

// WithClock reemplaza la fuente de tiempo (tests).
func (uc *StatusUseCase) WithClock(now func() time.Time) *StatusUseCase {
	uc.now = now
	return uc
}

// ResolveStatus deriva el estado del usuario de su marcación abierta.
func (uc *StatusUseCase) ResolveStatus(ctx context.Context, userID string) (domaintc.ActivityStatus, error) {
	if userID == "" {
		return domaintc.ActivityStatus{}, domain.ErrInvalidInput
	}
	open, err := uc.punchRepo.GetOpenByUser(ctx, userID)
	if err != nil {
		return domaintc.ActivityStatus{}, domain.Persistence(err)
	}
	return domaintc.ResolveStatus(open), nil
}

// TimeStatus instantánea para GET /api/time/status. Lee primero de la caché; un fallo de caché
// se registra y se consulta el libro.
func (uc *StatusUseCase) TimeStatus(ctx context.Context, userID string) (*dto.TimeStatusResponse, error) {
	if userID == "" {
		return nil, domain.ErrInvalidInput
	}
	cacheable := uc.cache != nil
	var generation int64
	if cacheable {
		cached, err := uc.cache.Get(ctx, userID)
		if err != nil {
			log.Warn().Err(err).Str("user_id", userID).Msg("leer caché de estado")
		} else if cached != nil {
			return cached, nil
		}
		// La generación se lee antes que el libro.
		if generation, err = uc.cache.Generation(ctx, userID); err != nil {
			log.Warn().Err(err).Str("user_id", userID).Msg("leer generación de caché")
			cacheable = false
		}
	}

	open, err := uc.punchRepo.GetOpenByUser(ctx, userID)
	if err != nil {
		return nil, domain.Persistence(err)
	}
	now := uc.now()
	st := domaintc.ResolveStatus(open)
	out := &dto.TimeStatusResponse{
		UserID:              userID,
		IsClockedIn:         open != nil,
		Activity:            string(st.Activity),
		AsOf:                now,
		PollIntervalSeconds: uc.pollInterval,
	}
	if st.WorkOrderID != "" {
		id := st.WorkOrderID
		out.WorkOrderID = &id
	}
	if open != nil {
		p := ToPunchResponse(open, now)
		out.CurrentPunch = &p
	}

	if cacheable {
		if err := uc.cache.Set(ctx, out, generation); err != nil {
			log.Warn().Err(err).Str("user_id", userID).Msg("escribir caché de estado")
		}
	}
	return out, nil
}
