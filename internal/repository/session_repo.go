package repository

import (
	"context"

	"mesapos/internal/dto"
	"mesapos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SessionRepository interface {
	// DB exposes the underlying handle so services can open transactions.
	// Returns nil for in-memory test doubles.
	DB() *gorm.DB

	// FindByID preloads movements newest-first (display order).
	FindByID(ctx context.Context, id uuid.UUID) (*model.CashRegisterSession, error)
	FindOpenByRegister(ctx context.Context, registerID uuid.UUID) (*model.CashRegisterSession, error)
	ListClosedByBranch(ctx context.Context, branchID uuid.UUID, page, limit int) ([]model.CashRegisterSession, int64, error)
	ListMovements(ctx context.Context, sessionID uuid.UUID) ([]model.CashMovement, error)
	ListManual(ctx context.Context, f dto.ManualMovementFilter) ([]model.CashMovement, int64, error)

	// Tx variants — the check-then-act sequences of open/close/addMovement
	// must see and mutate state inside one transaction.
	CreateTx(tx *gorm.DB, s *model.CashRegisterSession) error
	FindByIDTx(tx *gorm.DB, id uuid.UUID, forUpdate bool) (*model.CashRegisterSession, error)
	FindOpenByRegisterTx(tx *gorm.DB, registerID uuid.UUID) (*model.CashRegisterSession, error)
	UpdateTx(tx *gorm.DB, s *model.CashRegisterSession) error
	CreateMovementTx(tx *gorm.DB, m *model.CashMovement) error
	// ListMovementsTx returns movements in append order — the consistent
	// snapshot the reconciliation engine aggregates at close time.
	ListMovementsTx(tx *gorm.DB, sessionID uuid.UUID) ([]model.CashMovement, error)
}

type sessionRepo struct{ db *gorm.DB }

func NewSessionRepository(db *gorm.DB) SessionRepository { return &sessionRepo{db: db} }

func (r *sessionRepo) DB() *gorm.DB { return r.db }

func (r *sessionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.CashRegisterSession, error) {
	var s model.CashRegisterSession
	err := r.db.WithContext(ctx).
		Preload("Movements", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") }).
		First(&s, "id = ?", id).Error
	return &s, err
}

func (r *sessionRepo) FindOpenByRegister(ctx context.Context, registerID uuid.UUID) (*model.CashRegisterSession, error) {
	var s model.CashRegisterSession
	err := r.db.WithContext(ctx).
		Preload("Movements", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") }).
		Where("cash_register_id = ? AND status = ?", registerID, model.SessionOpen).
		First(&s).Error
	return &s, err
}

func (r *sessionRepo) ListClosedByBranch(ctx context.Context, branchID uuid.UUID, page, limit int) ([]model.CashRegisterSession, int64, error) {
	base := r.db.WithContext(ctx).Model(&model.CashRegisterSession{}).
		Joins("JOIN cash_registers ON cash_registers.id = cash_register_sessions.cash_register_id").
		Where("cash_registers.branch_id = ? AND cash_register_sessions.status = ?", branchID, model.SessionClosed)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var sessions []model.CashRegisterSession
	err := base.Order("cash_register_sessions.closed_at DESC").
		Limit(limit).Offset((page - 1) * limit).
		Find(&sessions).Error
	return sessions, total, err
}

func (r *sessionRepo) ListMovements(ctx context.Context, sessionID uuid.UUID) ([]model.CashMovement, error) {
	var movs []model.CashMovement
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at DESC").
		Find(&movs).Error
	return movs, err
}

func (r *sessionRepo) ListManual(ctx context.Context, f dto.ManualMovementFilter) ([]model.CashMovement, int64, error) {
	base := r.db.WithContext(ctx).Model(&model.CashMovement{}).
		Joins("JOIN cash_register_sessions ON cash_register_sessions.id = cash_movements.session_id").
		Joins("JOIN cash_registers ON cash_registers.id = cash_register_sessions.cash_register_id").
		Where("cash_registers.branch_id = ?", f.BranchID).
		Where("cash_movements.type IN ?", []model.MovementType{model.MovementIncome, model.MovementExpense})

	if f.DateFrom != nil {
		base = base.Where("cash_movements.created_at >= ?", *f.DateFrom)
	}
	if f.DateTo != nil {
		base = base.Where("cash_movements.created_at <= ?", *f.DateTo)
	}
	if f.CashRegisterID != nil {
		base = base.Where("cash_register_sessions.cash_register_id = ?", *f.CashRegisterID)
	}
	if f.Type != nil {
		base = base.Where("cash_movements.type = ?", *f.Type)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var movs []model.CashMovement
	err := base.Order("cash_movements.created_at DESC").
		Limit(f.Limit).Offset(f.Offset).
		Find(&movs).Error
	return movs, total, err
}

func (r *sessionRepo) CreateTx(tx *gorm.DB, s *model.CashRegisterSession) error {
	return tx.Create(s).Error
}

func (r *sessionRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID, forUpdate bool) (*model.CashRegisterSession, error) {
	var s model.CashRegisterSession
	q := tx
	if forUpdate {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	err := q.First(&s, "id = ?", id).Error
	return &s, err
}

func (r *sessionRepo) FindOpenByRegisterTx(tx *gorm.DB, registerID uuid.UUID) (*model.CashRegisterSession, error) {
	var s model.CashRegisterSession
	err := tx.Where("cash_register_id = ? AND status = ?", registerID, model.SessionOpen).First(&s).Error
	return &s, err
}

func (r *sessionRepo) UpdateTx(tx *gorm.DB, s *model.CashRegisterSession) error {
	return tx.Save(s).Error
}

func (r *sessionRepo) CreateMovementTx(tx *gorm.DB, m *model.CashMovement) error {
	return tx.Create(m).Error
}

func (r *sessionRepo) ListMovementsTx(tx *gorm.DB, sessionID uuid.UUID) ([]model.CashMovement, error) {
	var movs []model.CashMovement
	err := tx.Where("session_id = ?", sessionID).Order("created_at ASC").Find(&movs).Error
	return movs, err
}
