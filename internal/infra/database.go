package infra

import (
	"fmt"

	"mesapos/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate
// for the ledger tables, then applies idempotent SQL patches for constraints
// GORM cannot express (the partial unique index below).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := db.AutoMigrate(
		&model.CashRegister{},
		&model.CashRegisterSession{},
		&model.CashMovement{},
	); err != nil {
		return nil, fmt.Errorf("AutoMigrate: %w", err)
	}

	if err := applySchemaPatches(db); err != nil {
		return nil, fmt.Errorf("schema patches: %w", err)
	}

	return db, nil
}

// applySchemaPatches applies DDL that AutoMigrate cannot express. Each
// statement is idempotent so re-running on an already-patched schema is a
// no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// At-most-one OPEN session per register. The open transaction already
		// enforces this with a row lock; the partial unique index backstops
		// it at the store level.
		{"unique open session per register", `
CREATE UNIQUE INDEX IF NOT EXISTS uni_open_session_per_register
  ON cash_register_sessions (cash_register_id)
  WHERE status = 'OPEN'`},
		// Movements are append-only audit entries: amounts must be positive.
		{"positive movement amounts", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_cash_movements_amount_positive') THEN
    ALTER TABLE cash_movements
      ADD CONSTRAINT chk_cash_movements_amount_positive CHECK (amount > 0);
  END IF;
END $$`},
	}

	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("%s: %w", p.descr, err)
		}
	}
	return nil
}
