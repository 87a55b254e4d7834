package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CashRegisterSession is one open/close cycle of a register. At most one
// session per register may be OPEN at any instant — enforced inside the
// open transaction and backstopped by a partial unique index (see
// infra.applySchemaPatches). Once CLOSED a session is immutable.
type CashRegisterSession struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CashRegisterID uuid.UUID       `gorm:"type:uuid;not null;index" json:"cash_register_id"`
	Status         SessionStatus   `gorm:"type:varchar(10);not null;default:'OPEN'" json:"status"`
	OpeningAmount  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"opening_amount"`
	OpenedBy       uuid.UUID       `gorm:"type:uuid;not null" json:"opened_by"`
	OpenedAt       time.Time       `json:"opened_at"`

	// Set exactly once, by closeSession. ExpectedCash is computed from the
	// movement ledger at close time; Variance = CountedCash - ExpectedCash.
	ClosedAt     *time.Time       `json:"closed_at,omitempty"`
	ClosedBy     *uuid.UUID       `gorm:"type:uuid" json:"closed_by,omitempty"`
	ExpectedCash *decimal.Decimal `gorm:"type:decimal(12,2)" json:"expected_cash,omitempty"`
	CountedCash  *decimal.Decimal `gorm:"type:decimal(12,2)" json:"counted_cash,omitempty"`
	Variance     *decimal.Decimal `gorm:"type:decimal(12,2)" json:"variance,omitempty"`
	ClosingNotes *string          `json:"closing_notes,omitempty"`

	Movements []CashMovement `gorm:"foreignKey:SessionID" json:"movements,omitempty"`
}

// CashMovement is an immutable entry in the session ledger. Amount is always
// strictly positive; direction is derived from Type, never stored as a sign.
// Movements are only created while the parent session is OPEN and are never
// updated or deleted.
type CashMovement struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	SessionID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"session_id"`
	Type          MovementType    `gorm:"type:varchar(10);not null;index" json:"type"`
	PaymentMethod PaymentMethod   `gorm:"type:varchar(15);not null" json:"payment_method"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Description   string          `json:"description"`
	// OrderID links to the originating order for SALE/REFUND settlements.
	// Weak reference, reporting only.
	OrderID   *uuid.UUID `gorm:"type:uuid;index" json:"order_id,omitempty"`
	CreatedBy uuid.UUID  `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt time.Time  `gorm:"index" json:"created_at"`
}
