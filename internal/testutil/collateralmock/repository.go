package collateralmock

import (
	"context"

	domain "p2plend-backend/internal/domain/collateral"
)

// Ensure compile-time compliance
var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies collateral.Repository.
// Unfilled getters return ErrNotFound, unfilled writers succeed and
// ListDeposits returns nothing.
type Repo struct {
	CreateDepositFn       func(ctx context.Context, d *domain.Deposit) error
	GetDepositFn          func(ctx context.Context, loanID, collateralID uint64) (*domain.Deposit, error)
	GetDepositForUpdateFn func(ctx context.Context, loanID, collateralID uint64) (*domain.Deposit, error)
	SaveDepositFn         func(ctx context.Context, d *domain.Deposit) error
	DeleteDepositFn       func(ctx context.Context, loanID, collateralID uint64) error
	ListDepositsFn        func(ctx context.Context, loanID uint64) ([]domain.Deposit, error)
	DeleteDepositsFn      func(ctx context.Context, loanID uint64) error

	GetSummaryFn          func(ctx context.Context, loanID uint64) (*domain.Summary, error)
	GetSummaryForUpdateFn func(ctx context.Context, loanID uint64) (*domain.Summary, error)
	SaveSummaryFn         func(ctx context.Context, s *domain.Summary) error

	GetStatusFn    func(ctx context.Context, loanID uint64) (*domain.StatusRecord, error)
	SaveStatusFn   func(ctx context.Context, s *domain.StatusRecord) error
	DeleteStatusFn func(ctx context.Context, loanID uint64) error

	GetBindingFn    func(ctx context.Context, currencyCode string) (*domain.OracleBinding, error)
	SaveBindingFn   func(ctx context.Context, b *domain.OracleBinding) error
	DeleteBindingFn func(ctx context.Context, currencyCode string) error
}

func (m *Repo) CreateDeposit(ctx context.Context, d *domain.Deposit) error {
	if m.CreateDepositFn != nil {
		return m.CreateDepositFn(ctx, d)
	}
	return nil
}

func (m *Repo) GetDeposit(ctx context.Context, loanID, collateralID uint64) (*domain.Deposit, error) {
	if m.GetDepositFn != nil {
		return m.GetDepositFn(ctx, loanID, collateralID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) GetDepositForUpdate(ctx context.Context, loanID, collateralID uint64) (*domain.Deposit, error) {
	if m.GetDepositForUpdateFn != nil {
		return m.GetDepositForUpdateFn(ctx, loanID, collateralID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) SaveDeposit(ctx context.Context, d *domain.Deposit) error {
	if m.SaveDepositFn != nil {
		return m.SaveDepositFn(ctx, d)
	}
	return nil
}

func (m *Repo) DeleteDeposit(ctx context.Context, loanID, collateralID uint64) error {
	if m.DeleteDepositFn != nil {
		return m.DeleteDepositFn(ctx, loanID, collateralID)
	}
	return nil
}

func (m *Repo) ListDeposits(ctx context.Context, loanID uint64) ([]domain.Deposit, error) {
	if m.ListDepositsFn != nil {
		return m.ListDepositsFn(ctx, loanID)
	}
	return nil, nil
}

func (m *Repo) DeleteDeposits(ctx context.Context, loanID uint64) error {
	if m.DeleteDepositsFn != nil {
		return m.DeleteDepositsFn(ctx, loanID)
	}
	return nil
}

func (m *Repo) GetSummary(ctx context.Context, loanID uint64) (*domain.Summary, error) {
	if m.GetSummaryFn != nil {
		return m.GetSummaryFn(ctx, loanID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) GetSummaryForUpdate(ctx context.Context, loanID uint64) (*domain.Summary, error) {
	if m.GetSummaryForUpdateFn != nil {
		return m.GetSummaryForUpdateFn(ctx, loanID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) SaveSummary(ctx context.Context, s *domain.Summary) error {
	if m.SaveSummaryFn != nil {
		return m.SaveSummaryFn(ctx, s)
	}
	return nil
}

func (m *Repo) GetStatus(ctx context.Context, loanID uint64) (*domain.StatusRecord, error) {
	if m.GetStatusFn != nil {
		return m.GetStatusFn(ctx, loanID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) SaveStatus(ctx context.Context, s *domain.StatusRecord) error {
	if m.SaveStatusFn != nil {
		return m.SaveStatusFn(ctx, s)
	}
	return nil
}

func (m *Repo) DeleteStatus(ctx context.Context, loanID uint64) error {
	if m.DeleteStatusFn != nil {
		return m.DeleteStatusFn(ctx, loanID)
	}
	return nil
}

func (m *Repo) GetBinding(ctx context.Context, currencyCode string) (*domain.OracleBinding, error) {
	if m.GetBindingFn != nil {
		return m.GetBindingFn(ctx, currencyCode)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) SaveBinding(ctx context.Context, b *domain.OracleBinding) error {
	if m.SaveBindingFn != nil {
		return m.SaveBindingFn(ctx, b)
	}
	return nil
}

func (m *Repo) DeleteBinding(ctx context.Context, currencyCode string) error {
	if m.DeleteBindingFn != nil {
		return m.DeleteBindingFn(ctx, currencyCode)
	}
	return nil
}
