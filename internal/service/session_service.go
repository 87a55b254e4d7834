package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mesapos/internal/dto"
	"mesapos/internal/model"
	"mesapos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ReportDispatcher enqueues the close-of-till report job. Satisfied by
// worker.Dispatcher; nil disables dispatching (unit tests, workerless runs).
type ReportDispatcher interface {
	EnqueueSessionReport(ctx context.Context, sessionID uuid.UUID) error
}

type SessionService interface {
	Open(ctx context.Context, userID uuid.UUID, req dto.OpenSessionRequest) (*model.CashRegisterSession, error)
	Close(ctx context.Context, sessionID, userID uuid.UUID, req dto.CloseSessionRequest) (*model.CashRegisterSession, error)
	AddMovement(ctx context.Context, sessionID, userID uuid.UUID, typ model.MovementType, method model.PaymentMethod,
		amount decimal.Decimal, description string, orderID *uuid.UUID) (*model.CashMovement, error)
	// RecordSale / RecordRefund are the checkout collaborator's entry points.
	// They delegate to AddMovement with a fixed type and generated description.
	RecordSale(ctx context.Context, sessionID, userID uuid.UUID, method model.PaymentMethod,
		amount decimal.Decimal, orderID *uuid.UUID) (*model.CashMovement, error)
	RecordRefund(ctx context.Context, sessionID, userID uuid.UUID, method model.PaymentMethod,
		amount decimal.Decimal, orderID *uuid.UUID) (*model.CashMovement, error)

	// CurrentSession returns the register's OPEN session with movements
	// newest-first, or nil when the register has no open session.
	CurrentSession(ctx context.Context, registerID uuid.UUID) (*model.CashRegisterSession, error)
	Summary(ctx context.Context, sessionID uuid.UUID) (*SessionSummary, error)
	History(ctx context.Context, branchID uuid.UUID, page, limit int) (*dto.SessionPage, error)
	ListMovements(ctx context.Context, sessionID uuid.UUID) ([]model.CashMovement, error)
	ListManualMovements(ctx context.Context, f dto.ManualMovementFilter) (*dto.MovementPage, error)
}

type sessionService struct {
	repo       repository.SessionRepository
	registers  repository.RegisterRepository
	dispatcher ReportDispatcher
}

func NewSessionService(repo repository.SessionRepository, registers repository.RegisterRepository, dispatcher ReportDispatcher) SessionService {
	return &sessionService{repo: repo, registers: registers, dispatcher: dispatcher}
}

// ── Open ──────────────────────────────────────────────────────────────────────

func (s *sessionService) Open(ctx context.Context, userID uuid.UUID, req dto.OpenSessionRequest) (*model.CashRegisterSession, error) {
	registerID, err := uuid.Parse(req.CashRegisterID)
	if err != nil {
		return nil, fmt.Errorf("invalid cash_register_id: %w", err)
	}
	if req.OpeningAmount.IsNegative() {
		return nil, ErrInvalidAmount
	}

	var session *model.CashRegisterSession
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		// Locking the register row serializes concurrent opens: no second
		// caller can pass the no-open-session check until we commit.
		reg, err := s.registers.FindByIDTx(tx, registerID, true)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRegisterNotFound
			}
			return err
		}
		if !reg.IsActive {
			return ErrRegisterInactive
		}

		if _, err := s.repo.FindOpenByRegisterTx(tx, reg.ID); err == nil {
			return ErrSessionAlreadyOpen
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		session = &model.CashRegisterSession{
			CashRegisterID: reg.ID,
			Status:         model.SessionOpen,
			OpeningAmount:  req.OpeningAmount,
			OpenedBy:       userID,
			OpenedAt:       time.Now(),
		}
		return s.repo.CreateTx(tx, session)
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Info().
		Str("session_id", session.ID.String()).
		Str("register_id", registerID.String()).
		Str("opening_amount", session.OpeningAmount.String()).
		Msg("cash session opened")
	return session, nil
}

// ── Close ─────────────────────────────────────────────────────────────────────
// Loads the movement snapshot and computes expectedCash inside the same
// transaction that flips the status, so the persisted figure can never drift
// from the ledger it was derived from. Closing twice is an error, not a no-op.

func (s *sessionService) Close(ctx context.Context, sessionID, userID uuid.UUID, req dto.CloseSessionRequest) (*model.CashRegisterSession, error) {
	if req.CountedCash.IsNegative() {
		return nil, ErrInvalidAmount
	}

	var session *model.CashRegisterSession
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		found, err := s.repo.FindByIDTx(tx, sessionID, true)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSessionNotFound
			}
			return err
		}
		if found.Status == model.SessionClosed {
			return ErrSessionAlreadyClosed
		}

		movements, err := s.repo.ListMovementsTx(tx, found.ID)
		if err != nil {
			return err
		}

		expected := ExpectedCash(found.OpeningAmount, movements)
		variance := req.CountedCash.Sub(expected)
		counted := req.CountedCash
		now := time.Now()

		found.Status = model.SessionClosed
		found.ClosedAt = &now
		found.ClosedBy = &userID
		found.ExpectedCash = &expected
		found.CountedCash = &counted
		found.Variance = &variance
		found.ClosingNotes = req.ClosingNotes

		if err := s.repo.UpdateTx(tx, found); err != nil {
			return err
		}
		session = found
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Info().
		Str("session_id", session.ID.String()).
		Str("expected_cash", session.ExpectedCash.String()).
		Str("counted_cash", session.CountedCash.String()).
		Str("variance", session.Variance.String()).
		Msg("cash session closed")

	// The Z-report is best-effort: a queue hiccup must not un-close the till.
	if s.dispatcher != nil {
		if err := s.dispatcher.EnqueueSessionReport(ctx, session.ID); err != nil {
			log.Warn().Err(err).Str("session_id", session.ID.String()).Msg("failed to enqueue session report")
		}
	}
	return session, nil
}

// ── Movement ledger ───────────────────────────────────────────────────────────

func (s *sessionService) AddMovement(ctx context.Context, sessionID, userID uuid.UUID, typ model.MovementType,
	method model.PaymentMethod, amount decimal.Decimal, description string, orderID *uuid.UUID) (*model.CashMovement, error) {

	if !typ.Valid() || !method.Valid() {
		return nil, ErrInvalidMovement
	}
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	movement := &model.CashMovement{
		SessionID:     sessionID,
		Type:          typ,
		PaymentMethod: method,
		Amount:        amount,
		Description:   description,
		OrderID:       orderID,
		CreatedBy:     userID,
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		session, err := s.repo.FindByIDTx(tx, sessionID, true)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSessionNotFound
			}
			return err
		}
		// A closed session's expectedCash is final — nothing may append.
		if session.Status == model.SessionClosed {
			return ErrSessionClosed
		}
		return s.repo.CreateMovementTx(tx, movement)
	})
	if txErr != nil {
		return nil, txErr
	}
	return movement, nil
}

func (s *sessionService) RecordSale(ctx context.Context, sessionID, userID uuid.UUID, method model.PaymentMethod,
	amount decimal.Decimal, orderID *uuid.UUID) (*model.CashMovement, error) {
	return s.AddMovement(ctx, sessionID, userID, model.MovementSale, method, amount, settlementDescription("Sale", orderID), orderID)
}

func (s *sessionService) RecordRefund(ctx context.Context, sessionID, userID uuid.UUID, method model.PaymentMethod,
	amount decimal.Decimal, orderID *uuid.UUID) (*model.CashMovement, error) {
	return s.AddMovement(ctx, sessionID, userID, model.MovementRefund, method, amount, settlementDescription("Refund", orderID), orderID)
}

func settlementDescription(kind string, orderID *uuid.UUID) string {
	if orderID != nil {
		return fmt.Sprintf("%s settlement for order %s", kind, orderID)
	}
	return kind + " settlement"
}

// ── Reads ─────────────────────────────────────────────────────────────────────

func (s *sessionService) CurrentSession(ctx context.Context, registerID uuid.UUID) (*model.CashRegisterSession, error) {
	session, err := s.repo.FindOpenByRegister(ctx, registerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return session, nil
}

func (s *sessionService) Summary(ctx context.Context, sessionID uuid.UUID) (*SessionSummary, error) {
	session, err := s.repo.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return Summarize(session, session.Movements), nil
}

func (s *sessionService) History(ctx context.Context, branchID uuid.UUID, page, limit int) (*dto.SessionPage, error) {
	sessions, total, err := s.repo.ListClosedByBranch(ctx, branchID, page, limit)
	if err != nil {
		return nil, err
	}
	return &dto.SessionPage{Data: sessions, Total: total, Page: page, Limit: limit}, nil
}

func (s *sessionService) ListMovements(ctx context.Context, sessionID uuid.UUID) ([]model.CashMovement, error) {
	return s.repo.ListMovements(ctx, sessionID)
}

func (s *sessionService) ListManualMovements(ctx context.Context, f dto.ManualMovementFilter) (*dto.MovementPage, error) {
	movements, total, err := s.repo.ListManual(ctx, f)
	if err != nil {
		return nil, err
	}
	return &dto.MovementPage{
		Data:    movements,
		Total:   total,
		Limit:   f.Limit,
		Offset:  f.Offset,
		HasMore: int64(f.Offset+len(movements)) < total,
	}, nil
}
