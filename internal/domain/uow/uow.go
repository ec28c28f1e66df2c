package uow

import (
	"context"

	"p2plend-backend/internal/domain/collateral"
	"p2plend-backend/internal/domain/ledger"
	"p2plend-backend/internal/domain/loan"
	"p2plend-backend/internal/domain/repayment"
	"p2plend-backend/internal/domain/vote"
)

type Repos struct {
	Loans      loan.Repository
	Votes      vote.Repository
	Collateral collateral.Repository
	Ledger     ledger.Repository
	Repayments repayment.Repository
}

// UnitOfWork is the all-or-nothing boundary: every engine operation runs
// entirely inside one WithinTx closure and either commits as a whole or
// leaves no partial write behind.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock the loan row first, then pass it in
	WithinLoanTx(ctx context.Context, loanID uint64, fn func(r Repos, l *loan.Loan) error) error
}
