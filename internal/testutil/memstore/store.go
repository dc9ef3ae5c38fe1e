// Package memstore repositorios en memoria para tests. Reproduce las garantías de la base:
// transacciones serializadas con rollback, índices únicos de marcaciones abiertas y
// secuencia de números de orden.
package memstore

import (
	"context"
	"sync"

	"github.com/jhoicas/fieldops-api/internal/application/demand"
	"github.com/jhoicas/fieldops-api/internal/application/timeclock"
	"github.com/jhoicas/fieldops-api/internal/application/workorder"
	"github.com/jhoicas/fieldops-api/internal/domain/entity"
	"github.com/jhoicas/fieldops-api/internal/domain/repository"
)

var (
	_ timeclock.TxRunner = (*Store)(nil)
	_ workorder.TxRunner = (*Store)(nil)
	_ demand.TxRunner    = (*Store)(nil)
)

// Store estado compartido por todos los repositorios de un test.
type Store struct {
	txMu sync.Mutex // una transacción a la vez
	mu   sync.Mutex // protege los datos

	users      map[string]*entity.User
	punches    []*entity.PunchEvent
	workOrders map[string]*entity.WorkOrder
	demands    map[string]*entity.Demand
	woSeq      int64
	failure    error
}

// New crea un store vacío.
func New() *Store {
	return &Store{
		users:      map[string]*entity.User{},
		workOrders: map[string]*entity.WorkOrder{},
		demands:    map[string]*entity.Demand{},
	}
}

// Fail hace que toda operación de repositorio devuelva err (nil la desactiva).
func (s *Store) Fail(err error) {
	s.mu.Lock()
	s.failure = err
	s.mu.Unlock()
}

// Punches repositorio de marcaciones fuera de transacción.
func (s *Store) Punches() repository.PunchRepository { return &punchRepo{s: s} }

// WorkOrders repositorio de órdenes fuera de transacción.
func (s *Store) WorkOrders() repository.WorkOrderRepository { return &workOrderRepo{s: s} }

// Demands repositorio de demandas fuera de transacción.
func (s *Store) Demands() repository.DemandRepository { return &demandRepo{s: s} }

// Users repositorio de usuarios.
func (s *Store) Users() repository.UserRepository { return &userRepo{s: s} }

// Run ejecuta fn en una "transacción": serializada y con rollback si fn falla.
func (s *Store) Run(ctx context.Context, fn func(
	punchRepo repository.PunchRepository,
	workOrderRepo repository.WorkOrderRepository,
) error) error {
	return s.inTx(func() error { return fn(s.Punches(), s.WorkOrders()) })
}

// RunDemand igual que Run con los repos de órdenes y demandas.
func (s *Store) RunDemand(ctx context.Context, fn func(
	workOrderRepo repository.WorkOrderRepository,
	demandRepo repository.DemandRepository,
) error) error {
	return s.inTx(func() error { return fn(s.WorkOrders(), s.Demands()) })
}

func (s *Store) inTx(fn func() error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	snap := s.snapshot()
	if err := fn(); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

type snapshot struct {
	punches    []*entity.PunchEvent
	workOrders map[string]*entity.WorkOrder
	demands    map[string]*entity.Demand
	woSeq      int64
}

func (s *Store) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := snapshot{
		punches:    make([]*entity.PunchEvent, 0, len(s.punches)),
		workOrders: make(map[string]*entity.WorkOrder, len(s.workOrders)),
		demands:    make(map[string]*entity.Demand, len(s.demands)),
		woSeq:      s.woSeq,
	}
	for _, p := range s.punches {
		snap.punches = append(snap.punches, copyPunch(p))
	}
	for id, wo := range s.workOrders {
		c := *wo
		snap.workOrders[id] = &c
	}
	for id, d := range s.demands {
		c := *d
		snap.demands[id] = &c
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.punches = snap.punches
	s.workOrders = snap.workOrders
	s.demands = snap.demands
	s.woSeq = snap.woSeq
}

// AllPunches copia de todas las marcaciones en orden de inserción.
func (s *Store) AllPunches() []*entity.PunchEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*entity.PunchEvent, 0, len(s.punches))
	for _, p := range s.punches {
		out = append(out, copyPunch(p))
	}
	return out
}

// AddPunch inserta una marcación tal cual (datos de prueba con horas fijas).
func (s *Store) AddPunch(p *entity.PunchEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.punches = append(s.punches, copyPunch(p))
}

// AddUser inserta un usuario tal cual.
func (s *Store) AddUser(u *entity.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *u
	s.users[u.ID] = &c
}

// AddWorkOrder inserta una orden tal cual.
func (s *Store) AddWorkOrder(wo *entity.WorkOrder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *wo
	s.workOrders[wo.ID] = &c
}

// WorkOrder copia de la orden id (nil si no existe).
func (s *Store) WorkOrder(id string) *entity.WorkOrder {
	s.mu.Lock()
	defer s.mu.Unlock()
	wo, ok := s.workOrders[id]
	if !ok {
		return nil
	}
	c := *wo
	return &c
}

func copyPunch(p *entity.PunchEvent) *entity.PunchEvent {
	c := *p
	if p.ClockOut != nil {
		out := *p.ClockOut
		c.ClockOut = &out
	}
	return &c
}
