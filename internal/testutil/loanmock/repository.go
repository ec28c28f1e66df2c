package loanmock

import (
	"context"

	domain "p2plend-backend/internal/domain/loan"
)

// Ensure compile-time compliance
var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies loan.Repository. Fill
// in the function fields a test needs; unfilled getters return
// ErrNotFound and unfilled writers succeed.
type Repo struct {
	CreateFn                  func(ctx context.Context, l *domain.Loan) error
	GetByIDFn                 func(ctx context.Context, loanID uint64) (*domain.Loan, error)
	GetByIDForUpdateFn        func(ctx context.Context, loanID uint64) (*domain.Loan, error)
	SaveFn                    func(ctx context.Context, l *domain.Loan) error
	HasActiveLoanByBorrowerFn func(ctx context.Context, borrowerID string) (bool, error)
}

func (m *Repo) Create(ctx context.Context, l *domain.Loan) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, l)
	}
	return nil
}

func (m *Repo) GetByID(ctx context.Context, loanID uint64) (*domain.Loan, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, loanID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) GetByIDForUpdate(ctx context.Context, loanID uint64) (*domain.Loan, error) {
	if m.GetByIDForUpdateFn != nil {
		return m.GetByIDForUpdateFn(ctx, loanID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) Save(ctx context.Context, l *domain.Loan) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, l)
	}
	return nil
}

func (m *Repo) HasActiveLoanByBorrower(ctx context.Context, borrowerID string) (bool, error) {
	if m.HasActiveLoanByBorrowerFn != nil {
		return m.HasActiveLoanByBorrowerFn(ctx, borrowerID)
	}
	return false, nil
}
