package service

import (
	"context"
	"errors"

	"mesapos/internal/dto"
	"mesapos/internal/model"
	"mesapos/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RegisterService interface {
	Create(ctx context.Context, branchID uuid.UUID, req dto.CreateRegisterRequest) (*model.CashRegister, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateRegisterRequest) (*model.CashRegister, error)
	// Delete hard-deletes a register that never had a session; with history
	// it deactivates instead so the ledger stays auditable. Refused while a
	// session is open.
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*model.CashRegister, error)
	ListByBranch(ctx context.Context, branchID uuid.UUID) ([]model.CashRegister, error)
}

type registerService struct {
	repo repository.RegisterRepository
}

func NewRegisterService(repo repository.RegisterRepository) RegisterService {
	return &registerService{repo: repo}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

func (s *registerService) Create(ctx context.Context, branchID uuid.UUID, req dto.CreateRegisterRequest) (*model.CashRegister, error) {
	// Name must be unique within the branch. The composite unique index
	// backstops the rare concurrent create.
	if _, err := s.repo.FindByBranchAndName(ctx, branchID, req.Name); err == nil {
		return nil, ErrDuplicateName
	}

	reg := &model.CashRegister{
		Name:     req.Name,
		BranchID: branchID,
		IsActive: true,
	}
	if req.SectorID != nil {
		sectorID, err := uuid.Parse(*req.SectorID)
		if err == nil {
			reg.SectorID = &sectorID
		}
	}
	if err := s.repo.Create(ctx, reg); err != nil {
		return nil, err
	}
	return reg, nil
}

func (s *registerService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateRegisterRequest) (*model.CashRegister, error) {
	reg, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRegisterNotFound
		}
		return nil, err
	}

	if req.Name != nil && *req.Name != reg.Name {
		if other, err := s.repo.FindByBranchAndName(ctx, reg.BranchID, *req.Name); err == nil && other.ID != reg.ID {
			return nil, ErrDuplicateName
		}
		reg.Name = *req.Name
	}
	if req.SectorID != nil {
		sectorID, err := uuid.Parse(*req.SectorID)
		if err == nil {
			reg.SectorID = &sectorID
		}
	}
	if req.IsActive != nil {
		reg.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, reg); err != nil {
		return nil, err
	}
	return reg, nil
}

func (s *registerService) Delete(ctx context.Context, id uuid.UUID) error {
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		reg, err := s.repo.FindByIDTx(tx, id, true)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRegisterNotFound
			}
			return err
		}

		open, err := s.repo.HasOpenSessionTx(tx, reg.ID)
		if err != nil {
			return err
		}
		if open {
			return ErrHasOpenSession
		}

		count, err := s.repo.CountSessionsTx(tx, reg.ID)
		if err != nil {
			return err
		}
		if count > 0 {
			// Historical sessions reference this register — deactivate only.
			reg.IsActive = false
			return s.repo.UpdateTx(tx, reg)
		}
		return s.repo.DeleteTx(tx, reg.ID)
	})
}

func (s *registerService) Get(ctx context.Context, id uuid.UUID) (*model.CashRegister, error) {
	reg, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRegisterNotFound
		}
		return nil, err
	}
	return reg, nil
}

func (s *registerService) ListByBranch(ctx context.Context, branchID uuid.UUID) ([]model.CashRegister, error) {
	return s.repo.ListByBranch(ctx, branchID)
}
