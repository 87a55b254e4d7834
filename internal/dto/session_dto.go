package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"mesapos/internal/model"
)

// ─── Session lifecycle ───────────────────────────────────────────────────────

type OpenSessionRequest struct {
	CashRegisterID string          `json:"cash_register_id" validate:"required,uuid"`
	OpeningAmount  decimal.Decimal `json:"opening_amount"   validate:"min=0"`
}

type CloseSessionRequest struct {
	CountedCash  decimal.Decimal `json:"counted_cash"  validate:"min=0"`
	ClosingNotes *string         `json:"closing_notes"`
}

// ─── Movement ledger ─────────────────────────────────────────────────────────

// AddMovementRequest records a manual drawer entry. SALE/REFUND never enter
// here — they arrive through SettlementRequest from the checkout collaborator.
type AddMovementRequest struct {
	Type          string          `json:"type"           validate:"required,oneof=INCOME EXPENSE"`
	PaymentMethod string          `json:"payment_method" validate:"required,oneof=CASH CARD_DEBIT CARD_CREDIT ACCOUNT TRANSFER"`
	Amount        decimal.Decimal `json:"amount"         validate:"required,gt=0"`
	Description   string          `json:"description"    validate:"omitempty,max=200"`
}

// SettlementRequest is the order/checkout entry point: a settled sale or
// refund with its payment method and amount. The ledger knows nothing about
// order contents.
type SettlementRequest struct {
	Type          string          `json:"type"           validate:"required,oneof=SALE REFUND"`
	PaymentMethod string          `json:"payment_method" validate:"required,oneof=CASH CARD_DEBIT CARD_CREDIT ACCOUNT TRANSFER"`
	Amount        decimal.Decimal `json:"amount"         validate:"required,gt=0"`
	OrderID       *string         `json:"order_id"       validate:"omitempty,uuid"`
}

// ─── Reporting queries ───────────────────────────────────────────────────────

// ManualMovementFilter restricts the cross-session report to manual entries
// (INCOME/EXPENSE) of one branch.
type ManualMovementFilter struct {
	BranchID       uuid.UUID
	DateFrom       *time.Time
	DateTo         *time.Time
	CashRegisterID *uuid.UUID
	Type           *model.MovementType
	Limit          int
	Offset         int
}

// MovementPage is the pagination envelope for movement listings.
type MovementPage struct {
	Data    []model.CashMovement `json:"data"`
	Total   int64                `json:"total"`
	Limit   int                  `json:"limit"`
	Offset  int                  `json:"offset"`
	HasMore bool                 `json:"has_more"`
}

// SessionPage is the pagination envelope for the closed-session history.
type SessionPage struct {
	Data  []model.CashRegisterSession `json:"data"`
	Total int64                       `json:"total"`
	Page  int                         `json:"page"`
	Limit int                         `json:"limit"`
}
