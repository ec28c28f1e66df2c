package mysql

import (
	"context"
	"errors"

	collateralDomain "p2plend-backend/internal/domain/collateral"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CollateralRepository struct{ db *gorm.DB }

func NewCollateralRepository(db *gorm.DB) *CollateralRepository {
	return &CollateralRepository{db: db}
}

func notFound(err error) bool { return errors.Is(err, gorm.ErrRecordNotFound) }

// ---- deposits ----

func (r *CollateralRepository) CreateDeposit(ctx context.Context, d *collateralDomain.Deposit) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *CollateralRepository) GetDeposit(ctx context.Context, loanID, collateralID uint64) (*collateralDomain.Deposit, error) {
	var out collateralDomain.Deposit
	res := r.db.WithContext(ctx).
		Where("loan_id = ? AND collateral_id = ?", loanID, collateralID).
		First(&out)
	if notFound(res.Error) {
		return nil, collateralDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *CollateralRepository) GetDepositForUpdate(ctx context.Context, loanID, collateralID uint64) (*collateralDomain.Deposit, error) {
	var out collateralDomain.Deposit
	res := forUpdate(r.db.WithContext(ctx)).
		Where("loan_id = ? AND collateral_id = ?", loanID, collateralID).
		First(&out)
	if notFound(res.Error) {
		return nil, collateralDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *CollateralRepository) SaveDeposit(ctx context.Context, d *collateralDomain.Deposit) error {
	return r.db.WithContext(ctx).Save(d).Error
}

func (r *CollateralRepository) DeleteDeposit(ctx context.Context, loanID, collateralID uint64) error {
	return r.db.WithContext(ctx).
		Where("loan_id = ? AND collateral_id = ?", loanID, collateralID).
		Delete(&collateralDomain.Deposit{}).Error
}

func (r *CollateralRepository) ListDeposits(ctx context.Context, loanID uint64) ([]collateralDomain.Deposit, error) {
	var out []collateralDomain.Deposit
	res := r.db.WithContext(ctx).
		Where("loan_id = ?", loanID).
		Order("collateral_id ASC").
		Find(&out)
	return out, res.Error
}

func (r *CollateralRepository) DeleteDeposits(ctx context.Context, loanID uint64) error {
	return r.db.WithContext(ctx).
		Where("loan_id = ?", loanID).
		Delete(&collateralDomain.Deposit{}).Error
}

// ---- summaries ----

func (r *CollateralRepository) GetSummary(ctx context.Context, loanID uint64) (*collateralDomain.Summary, error) {
	var out collateralDomain.Summary
	res := r.db.WithContext(ctx).Where("loan_id = ?", loanID).First(&out)
	if notFound(res.Error) {
		return nil, collateralDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *CollateralRepository) GetSummaryForUpdate(ctx context.Context, loanID uint64) (*collateralDomain.Summary, error) {
	var out collateralDomain.Summary
	res := forUpdate(r.db.WithContext(ctx)).Where("loan_id = ?", loanID).First(&out)
	if notFound(res.Error) {
		return nil, collateralDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *CollateralRepository) SaveSummary(ctx context.Context, s *collateralDomain.Summary) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "loan_id"}}, UpdateAll: true}).
		Create(s).Error
}

// ---- status records ----

func (r *CollateralRepository) GetStatus(ctx context.Context, loanID uint64) (*collateralDomain.StatusRecord, error) {
	var out collateralDomain.StatusRecord
	res := r.db.WithContext(ctx).Where("loan_id = ?", loanID).First(&out)
	if notFound(res.Error) {
		return nil, collateralDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *CollateralRepository) SaveStatus(ctx context.Context, s *collateralDomain.StatusRecord) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "loan_id"}}, UpdateAll: true}).
		Create(s).Error
}

func (r *CollateralRepository) DeleteStatus(ctx context.Context, loanID uint64) error {
	return r.db.WithContext(ctx).
		Where("loan_id = ?", loanID).
		Delete(&collateralDomain.StatusRecord{}).Error
}

// ---- oracle bindings ----

func (r *CollateralRepository) GetBinding(ctx context.Context, currencyCode string) (*collateralDomain.OracleBinding, error) {
	var out collateralDomain.OracleBinding
	res := r.db.WithContext(ctx).Where("currency_code = ?", currencyCode).First(&out)
	if notFound(res.Error) {
		return nil, collateralDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *CollateralRepository) SaveBinding(ctx context.Context, b *collateralDomain.OracleBinding) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "currency_code"}}, UpdateAll: true}).
		Create(b).Error
}

func (r *CollateralRepository) DeleteBinding(ctx context.Context, currencyCode string) error {
	return r.db.WithContext(ctx).
		Where("currency_code = ?", currencyCode).
		Delete(&collateralDomain.OracleBinding{}).Error
}
