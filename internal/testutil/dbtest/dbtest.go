package dbtest

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"p2plend-backend/internal/adapter/gateway/registry"
	"p2plend-backend/internal/domain/collateral"
	"p2plend-backend/internal/domain/ledger"
	"p2plend-backend/internal/domain/loan"
	"p2plend-backend/internal/domain/repayment"
	"p2plend-backend/internal/domain/vote"
)

// Open creates an in-memory sqlite DB with the full schema migrated.
// The pool is pinned to one connection: each sqlite :memory: connection
// is its own database, so a second one would come up empty.
func Open(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(
		&loan.Loan{},
		&vote.Vote{},
		&collateral.Deposit{},
		&collateral.Summary{},
		&collateral.StatusRecord{},
		&collateral.OracleBinding{},
		&ledger.Balance{},
		&repayment.Repayment{},
		&registry.Identity{},
		&registry.Asset{},
	); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}
