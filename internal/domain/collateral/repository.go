package collateral

import "context"

type Repository interface {
	CreateDeposit(ctx context.Context, d *Deposit) error
	GetDeposit(ctx context.Context, loanID, collateralID uint64) (*Deposit, error)
	GetDepositForUpdate(ctx context.Context, loanID, collateralID uint64) (*Deposit, error)
	SaveDeposit(ctx context.Context, d *Deposit) error
	DeleteDeposit(ctx context.Context, loanID, collateralID uint64) error
	ListDeposits(ctx context.Context, loanID uint64) ([]Deposit, error)
	DeleteDeposits(ctx context.Context, loanID uint64) error

	GetSummary(ctx context.Context, loanID uint64) (*Summary, error)
	GetSummaryForUpdate(ctx context.Context, loanID uint64) (*Summary, error)
	SaveSummary(ctx context.Context, s *Summary) error

	GetStatus(ctx context.Context, loanID uint64) (*StatusRecord, error)
	SaveStatus(ctx context.Context, s *StatusRecord) error
	DeleteStatus(ctx context.Context, loanID uint64) error

	GetBinding(ctx context.Context, currencyCode string) (*OracleBinding, error)
	SaveBinding(ctx context.Context, b *OracleBinding) error
	DeleteBinding(ctx context.Context, currencyCode string) error
}
