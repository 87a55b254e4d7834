package repository

import (
	"context"

	"mesapos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RegisterRepository interface {
	// DB exposes the underlying handle so services can open transactions.
	// Returns nil for in-memory test doubles.
	DB() *gorm.DB

	Create(ctx context.Context, r *model.CashRegister) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.CashRegister, error)
	FindByBranchAndName(ctx context.Context, branchID uuid.UUID, name string) (*model.CashRegister, error)
	ListByBranch(ctx context.Context, branchID uuid.UUID) ([]model.CashRegister, error)
	Update(ctx context.Context, r *model.CashRegister) error

	// Tx variants run inside a caller-managed transaction (deleteRegister).
	FindByIDTx(tx *gorm.DB, id uuid.UUID, forUpdate bool) (*model.CashRegister, error)
	CountSessionsTx(tx *gorm.DB, registerID uuid.UUID) (int64, error)
	HasOpenSessionTx(tx *gorm.DB, registerID uuid.UUID) (bool, error)
	UpdateTx(tx *gorm.DB, r *model.CashRegister) error
	DeleteTx(tx *gorm.DB, id uuid.UUID) error
}

type registerRepo struct{ db *gorm.DB }

func NewRegisterRepository(db *gorm.DB) RegisterRepository { return &registerRepo{db: db} }

func (r *registerRepo) DB() *gorm.DB { return r.db }

func (r *registerRepo) Create(ctx context.Context, reg *model.CashRegister) error {
	return r.db.WithContext(ctx).Create(reg).Error
}

func (r *registerRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.CashRegister, error) {
	var reg model.CashRegister
	err := r.db.WithContext(ctx).First(&reg, "id = ?", id).Error
	return &reg, err
}

func (r *registerRepo) FindByBranchAndName(ctx context.Context, branchID uuid.UUID, name string) (*model.CashRegister, error) {
	var reg model.CashRegister
	err := r.db.WithContext(ctx).Where("branch_id = ? AND name = ?", branchID, name).First(&reg).Error
	return &reg, err
}

func (r *registerRepo) ListByBranch(ctx context.Context, branchID uuid.UUID) ([]model.CashRegister, error) {
	var regs []model.CashRegister
	err := r.db.WithContext(ctx).Where("branch_id = ?", branchID).Order("name ASC").Find(&regs).Error
	return regs, err
}

func (r *registerRepo) Update(ctx context.Context, reg *model.CashRegister) error {
	return r.db.WithContext(ctx).Save(reg).Error
}

func (r *registerRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID, forUpdate bool) (*model.CashRegister, error) {
	var reg model.CashRegister
	q := tx
	if forUpdate {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	err := q.First(&reg, "id = ?", id).Error
	return &reg, err
}

func (r *registerRepo) CountSessionsTx(tx *gorm.DB, registerID uuid.UUID) (int64, error) {
	var n int64
	err := tx.Model(&model.CashRegisterSession{}).Where("cash_register_id = ?", registerID).Count(&n).Error
	return n, err
}

func (r *registerRepo) HasOpenSessionTx(tx *gorm.DB, registerID uuid.UUID) (bool, error) {
	var n int64
	err := tx.Model(&model.CashRegisterSession{}).
		Where("cash_register_id = ? AND status = ?", registerID, model.SessionOpen).
		Count(&n).Error
	return n > 0, err
}

func (r *registerRepo) UpdateTx(tx *gorm.DB, reg *model.CashRegister) error {
	return tx.Save(reg).Error
}

func (r *registerRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Delete(&model.CashRegister{}, "id = ?", id).Error
}
