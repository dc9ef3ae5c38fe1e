package memstore

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/fieldops-api/internal/domain"
	"github.com/jhoicas/fieldops-api/internal/domain/entity"
)

// ── Marcaciones ───────────────────────────────────────────────────────────────

type punchRepo struct{ s *Store }

func (r *punchRepo) LockUser(_ context.Context, _ string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.failure
}

func (r *punchRepo) Create(_ context.Context, p *entity.PunchEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failure != nil {
		return r.s.failure
	}
	for _, existing := range r.s.punches {
		if !existing.IsOpen() {
			continue
		}
		if existing.UserID == p.UserID {
			return domain.ErrAlreadyClockedIn
		}
		if p.WorkOrderID != "" && existing.WorkOrderID == p.WorkOrderID {
			return domain.ErrWorkOrderBusy
		}
	}
	r.s.punches = append(r.s.punches, copyPunch(p))
	return nil
}

func (r *punchRepo) Close(_ context.Context, p *entity.PunchEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failure != nil {
		return r.s.failure
	}
	for _, existing := range r.s.punches {
		if existing.ID == p.ID {
			if !existing.IsOpen() {
				return domain.ErrNotClockedIn
			}
			out := *p.ClockOut
			existing.ClockOut = &out
			return nil
		}
	}
	return domain.ErrNotClockedIn
}

func (r *punchRepo) GetOpenByUser(_ context.Context, userID string) (*entity.PunchEvent, error) {
	return r.findOpen(func(p *entity.PunchEvent) bool { return p.UserID == userID })
}

func (r *punchRepo) GetOpenByWorkOrder(_ context.Context, workOrderID string) (*entity.PunchEvent, error) {
	return r.findOpen(func(p *entity.PunchEvent) bool { return p.WorkOrderID != "" && p.WorkOrderID == workOrderID })
}

func (r *punchRepo) findOpen(match func(*entity.PunchEvent) bool) (*entity.PunchEvent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failure != nil {
		return nil, r.s.failure
	}
	for _, p := range r.s.punches {
		if p.IsOpen() && match(p) {
			return copyPunch(p), nil
		}
	}
	return nil, nil
}

func (r *punchRepo) List(_ context.Context, f entity.PunchFilter) ([]*entity.PunchEvent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failure != nil {
		return nil, r.s.failure
	}
	var out []*entity.PunchEvent
	for _, p := range r.s.punches {
		switch {
		case f.UserID != "" && p.UserID != f.UserID:
			continue
		case f.WorkOrderID != "" && p.WorkOrderID != f.WorkOrderID:
			continue
		case f.PunchType != "" && p.PunchType != f.PunchType:
			continue
		case f.Open != nil && p.IsOpen() != *f.Open:
			continue
		case f.From != nil && p.ClockIn.Before(*f.From):
			continue
		case f.To != nil && !p.ClockIn.Before(*f.To):
			continue
		}
		out = append(out, copyPunch(p))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ClockIn.Before(out[j].ClockIn) })
	return out, nil
}

// ── Órdenes de trabajo ────────────────────────────────────────────────────────

type workOrderRepo struct{ s *Store }

func (r *workOrderRepo) Create(_ context.Context, wo *entity.WorkOrder) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failure != nil {
		return r.s.failure
	}
	if wo.Number == "" {
		r.s.woSeq++
		wo.Number = fmt.Sprintf("WO-%06d", r.s.woSeq)
	}
	c := *wo
	r.s.workOrders[wo.ID] = &c
	return nil
}

func (r *workOrderRepo) GetByID(_ context.Context, id string) (*entity.WorkOrder, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failure != nil {
		return nil, r.s.failure
	}
	wo, ok := r.s.workOrders[id]
	if !ok {
		return nil, nil
	}
	c := *wo
	return &c, nil
}

func (r *workOrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.WorkOrder, error) {
	return r.GetByID(ctx, id)
}

func (r *workOrderRepo) Update(_ context.Context, wo *entity.WorkOrder) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failure != nil {
		return r.s.failure
	}
	if _, ok := r.s.workOrders[wo.ID]; !ok {
		return domain.ErrNotFound
	}
	c := *wo
	r.s.workOrders[wo.ID] = &c
	return nil
}

func (r *workOrderRepo) List(_ context.Context, f entity.WorkOrderFilter, limit, offset int) ([]*entity.WorkOrder, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failure != nil {
		return nil, r.s.failure
	}
	var all []*entity.WorkOrder
	for _, wo := range r.s.workOrders {
		if f.Status != "" && wo.Status != f.Status {
			continue
		}
		if f.AssignedTo != "" && wo.AssignedTo != f.AssignedTo {
			continue
		}
		c := *wo
		all = append(all, &c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Number > all[j].Number })
	return page(all, limit, offset), nil
}

// ── Demandas ──────────────────────────────────────────────────────────────────

type demandRepo struct{ s *Store }

func (r *demandRepo) Create(_ context.Context, d *entity.Demand) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failure != nil {
		return r.s.failure
	}
	c := *d
	r.s.demands[d.ID] = &c
	return nil
}

func (r *demandRepo) GetForUpdate(_ context.Context, id string) (*entity.Demand, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failure != nil {
		return nil, r.s.failure
	}
	d, ok := r.s.demands[id]
	if !ok {
		return nil, nil
	}
	c := *d
	return &c, nil
}

func (r *demandRepo) Update(_ context.Context, d *entity.Demand) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failure != nil {
		return r.s.failure
	}
	c := *d
	r.s.demands[d.ID] = &c
	return nil
}

func (r *demandRepo) List(_ context.Context, status string, limit, offset int) ([]*entity.Demand, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failure != nil {
		return nil, r.s.failure
	}
	var all []*entity.Demand
	for _, d := range r.s.demands {
		if status != "" && d.Status != status {
			continue
		}
		c := *d
		all = append(all, &c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return page(all, limit, offset), nil
}

// ── Usuarios ──────────────────────────────────────────────────────────────────

type userRepo struct{ s *Store }

func (r *userRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failure != nil {
		return r.s.failure
	}
	for _, existing := range r.s.users {
		if existing.Username == u.Username {
			return domain.ErrUsernameTaken
		}
	}
	c := *u
	r.s.users[u.ID] = &c
	return nil
}

func (r *userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failure != nil {
		return nil, r.s.failure
	}
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	c := *u
	return &c, nil
}

func (r *userRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failure != nil {
		return nil, r.s.failure
	}
	for _, u := range r.s.users {
		if u.Username == username {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

func (r *userRepo) Update(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failure != nil {
		return r.s.failure
	}
	c := *u
	r.s.users[u.ID] = &c
	return nil
}

func (r *userRepo) List(_ context.Context, limit, offset int) ([]*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failure != nil {
		return nil, r.s.failure
	}
	var all []*entity.User
	for _, u := range r.s.users {
		c := *u
		all = append(all, &c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Username < all[j].Username })
	return page(all, limit, offset), nil
}

func page[T any](all []T, limit, offset int) []T {
	if offset >= len(all) {
		return nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all
}
