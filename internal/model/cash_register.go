package model

import (
	"time"

	"github.com/google/uuid"
)

// CashRegister is a named physical or logical till belonging to a branch.
// Name is unique within its branch. A register with historical sessions is
// never hard-deleted — it is deactivated so the session/movement history
// stays referentially intact for audit.
type CashRegister struct {
	ID       uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name     string     `gorm:"type:varchar(80);not null;uniqueIndex:idx_registers_branch_name" json:"name"`
	BranchID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_registers_branch_name;index" json:"branch_id"`
	SectorID *uuid.UUID `gorm:"type:uuid" json:"sector_id,omitempty"`
	IsActive bool       `gorm:"not null;default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Sessions []CashRegisterSession `gorm:"foreignKey:CashRegisterID" json:"-"`
}
