package loan

import "context"

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	GetByID(ctx context.Context, loanID uint64) (*Loan, error)
	// GetByIDForUpdate locks the loan row for the remainder of the transaction.
	GetByIDForUpdate(ctx context.Context, loanID uint64) (*Loan, error)
	Save(ctx context.Context, l *Loan) error
	// HasActiveLoanByBorrower scans the loans table; there is no
	// borrower index, small per-borrower cardinality is assumed.
	HasActiveLoanByBorrower(ctx context.Context, borrowerID string) (bool, error)
}
