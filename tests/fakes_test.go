package tests

// In-memory implementations of the repository interfaces. Tx variants ignore
// the (nil) transaction handle — runTx calls fn(nil) when DB() is nil.

import (
	"context"
	"sort"
	"time"

	"mesapos/internal/dto"
	"mesapos/internal/model"
	"mesapos/internal/repository"
	"mesapos/internal/service"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type memStore struct {
	registers map[uuid.UUID]*model.CashRegister
	sessions  map[uuid.UUID]*model.CashRegisterSession
	movements []model.CashMovement
}

func newMemStore() *memStore {
	return &memStore{
		registers: make(map[uuid.UUID]*model.CashRegister),
		sessions:  make(map[uuid.UUID]*model.CashRegisterSession),
	}
}

func (s *memStore) sessionMovements(sessionID uuid.UUID) []model.CashMovement {
	var out []model.CashMovement
	for _, m := range s.movements {
		if m.SessionID == sessionID {
			out = append(out, m)
		}
	}
	return out
}

// ── RegisterRepository ───────────────────────────────────────────────────────

type memRegisterRepo struct{ s *memStore }

func (r *memRegisterRepo) DB() *gorm.DB { return nil }

func (r *memRegisterRepo) Create(_ context.Context, reg *model.CashRegister) error {
	if reg.ID == uuid.Nil {
		reg.ID = uuid.New()
	}
	reg.CreatedAt = time.Now()
	r.s.registers[reg.ID] = reg
	return nil
}

func (r *memRegisterRepo) FindByID(_ context.Context, id uuid.UUID) (*model.CashRegister, error) {
	reg, ok := r.s.registers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return reg, nil
}

func (r *memRegisterRepo) FindByBranchAndName(_ context.Context, branchID uuid.UUID, name string) (*model.CashRegister, error) {
	for _, reg := range r.s.registers {
		if reg.BranchID == branchID && reg.Name == name {
			return reg, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memRegisterRepo) ListByBranch(_ context.Context, branchID uuid.UUID) ([]model.CashRegister, error) {
	var out []model.CashRegister
	for _, reg := range r.s.registers {
		if reg.BranchID == branchID {
			out = append(out, *reg)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memRegisterRepo) Update(_ context.Context, reg *model.CashRegister) error {
	r.s.registers[reg.ID] = reg
	return nil
}

func (r *memRegisterRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID, _ bool) (*model.CashRegister, error) {
	return r.FindByID(context.Background(), id)
}

func (r *memRegisterRepo) CountSessionsTx(_ *gorm.DB, registerID uuid.UUID) (int64, error) {
	var n int64
	for _, s := range r.s.sessions {
		if s.CashRegisterID == registerID {
			n++
		}
	}
	return n, nil
}

func (r *memRegisterRepo) HasOpenSessionTx(_ *gorm.DB, registerID uuid.UUID) (bool, error) {
	for _, s := range r.s.sessions {
		if s.CashRegisterID == registerID && s.Status == model.SessionOpen {
			return true, nil
		}
	}
	return false, nil
}

func (r *memRegisterRepo) UpdateTx(_ *gorm.DB, reg *model.CashRegister) error {
	r.s.registers[reg.ID] = reg
	return nil
}

func (r *memRegisterRepo) DeleteTx(_ *gorm.DB, id uuid.UUID) error {
	delete(r.s.registers, id)
	return nil
}

var _ repository.RegisterRepository = (*memRegisterRepo)(nil)

// ── SessionRepository ────────────────────────────────────────────────────────

type memSessionRepo struct{ s *memStore }

func (r *memSessionRepo) DB() *gorm.DB { return nil }

func (r *memSessionRepo) FindByID(_ context.Context, id uuid.UUID) (*model.CashRegisterSession, error) {
	s, ok := r.s.sessions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	s.Movements = r.s.sessionMovements(id)
	return s, nil
}

func (r *memSessionRepo) FindOpenByRegister(_ context.Context, registerID uuid.UUID) (*model.CashRegisterSession, error) {
	for _, s := range r.s.sessions {
		if s.CashRegisterID == registerID && s.Status == model.SessionOpen {
			s.Movements = r.s.sessionMovements(s.ID)
			sort.Slice(s.Movements, func(i, j int) bool {
				return s.Movements[i].CreatedAt.After(s.Movements[j].CreatedAt)
			})
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memSessionRepo) ListClosedByBranch(_ context.Context, branchID uuid.UUID, page, limit int) ([]model.CashRegisterSession, int64, error) {
	var all []model.CashRegisterSession
	for _, s := range r.s.sessions {
		reg, ok := r.s.registers[s.CashRegisterID]
		if ok && reg.BranchID == branchID && s.Status == model.SessionClosed {
			all = append(all, *s)
		}
	}
	total := int64(len(all))
	start := (page - 1) * limit
	if start >= len(all) {
		return nil, total, nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (r *memSessionRepo) ListMovements(_ context.Context, sessionID uuid.UUID) ([]model.CashMovement, error) {
	movs := r.s.sessionMovements(sessionID)
	sort.Slice(movs, func(i, j int) bool { return movs[i].CreatedAt.After(movs[j].CreatedAt) })
	return movs, nil
}

func (r *memSessionRepo) ListManual(_ context.Context, f dto.ManualMovementFilter) ([]model.CashMovement, int64, error) {
	var all []model.CashMovement
	for _, m := range r.s.movements {
		if m.Type != model.MovementIncome && m.Type != model.MovementExpense {
			continue
		}
		sess, ok := r.s.sessions[m.SessionID]
		if !ok {
			continue
		}
		reg, ok := r.s.registers[sess.CashRegisterID]
		if !ok || reg.BranchID != f.BranchID {
			continue
		}
		if f.CashRegisterID != nil && sess.CashRegisterID != *f.CashRegisterID {
			continue
		}
		if f.Type != nil && m.Type != *f.Type {
			continue
		}
		if f.DateFrom != nil && m.CreatedAt.Before(*f.DateFrom) {
			continue
		}
		if f.DateTo != nil && m.CreatedAt.After(*f.DateTo) {
			continue
		}
		all = append(all, m)
	}
	total := int64(len(all))
	if f.Offset >= len(all) {
		return nil, total, nil
	}
	end := f.Offset + f.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[f.Offset:end], total, nil
}

func (r *memSessionRepo) CreateTx(_ *gorm.DB, s *model.CashRegisterSession) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.s.sessions[s.ID] = s
	return nil
}

func (r *memSessionRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID, _ bool) (*model.CashRegisterSession, error) {
	s, ok := r.s.sessions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *memSessionRepo) FindOpenByRegisterTx(_ *gorm.DB, registerID uuid.UUID) (*model.CashRegisterSession, error) {
	for _, s := range r.s.sessions {
		if s.CashRegisterID == registerID && s.Status == model.SessionOpen {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memSessionRepo) UpdateTx(_ *gorm.DB, s *model.CashRegisterSession) error {
	r.s.sessions[s.ID] = s
	return nil
}

func (r *memSessionRepo) CreateMovementTx(_ *gorm.DB, m *model.CashMovement) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	r.s.movements = append(r.s.movements, *m)
	return nil
}

func (r *memSessionRepo) ListMovementsTx(_ *gorm.DB, sessionID uuid.UUID) ([]model.CashMovement, error) {
	return r.s.sessionMovements(sessionID), nil
}

var _ repository.SessionRepository = (*memSessionRepo)(nil)

// ── Test wiring ──────────────────────────────────────────────────────────────

func newServices() (service.RegisterService, service.SessionService, *memStore) {
	store := newMemStore()
	regRepo := &memRegisterRepo{s: store}
	sessRepo := &memSessionRepo{s: store}
	return service.NewRegisterService(regRepo),
		service.NewSessionService(sessRepo, regRepo, nil),
		store
}
