package mysql

import (
	"context"
	"errors"

	ledgerDomain "p2plend-backend/internal/domain/ledger"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LedgerRepository implements the token transfer service over a plain
// balances table. Debit before credit; a transfer that cannot be funded
// fails before anything is written.
type LedgerRepository struct{ db *gorm.DB }

func NewLedgerRepository(db *gorm.DB) *LedgerRepository { return &LedgerRepository{db: db} }

func (r *LedgerRepository) Balance(ctx context.Context, accountID string) (uint64, error) {
	var out ledgerDomain.Balance
	res := r.db.WithContext(ctx).Where("account_id = ?", accountID).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	return out.Amount, res.Error
}

func (r *LedgerRepository) Transfer(ctx context.Context, from, to string, amount uint64) error {
	if from == "" || to == "" || from == to {
		return ledgerDomain.ErrInvalidTransfer
	}
	var src ledgerDomain.Balance
	res := forUpdate(r.db.WithContext(ctx)).Where("account_id = ?", from).First(&src)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return ledgerDomain.ErrInsufficientBalance
	}
	if res.Error != nil {
		return res.Error
	}
	if src.Amount < amount {
		return ledgerDomain.ErrInsufficientBalance
	}
	src.Amount -= amount
	if err := r.db.WithContext(ctx).Save(&src).Error; err != nil {
		return err
	}
	return r.Credit(ctx, to, amount)
}

func (r *LedgerRepository) Credit(ctx context.Context, accountID string, amount uint64) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "account_id"}},
			DoUpdates: clause.Assignments(map[string]any{"amount": gorm.Expr("amount + ?", amount)}),
		}).
		Create(&ledgerDomain.Balance{AccountID: accountID, Amount: amount}).Error
}
