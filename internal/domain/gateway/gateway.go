package gateway

import (
	"context"
	"errors"

	"p2plend-backend/internal/domain/ledger"
	"p2plend-backend/internal/domain/loan"
	"p2plend-backend/internal/domain/uow"
)

var ErrExternalFailure = errors.New("external collaborator call failed")

// PriceOracle quotes the value of an amount of currency. Adapters return
// zero when the oracle has no rate for the currency.
type PriceOracle interface {
	Price(ctx context.Context, oracleID, currencyCode string, amount uint64) (uint64, error)
}

// FundsPool is the pooled-funds accounting collaborator. Value-moving
// methods take the transaction-scoped ledger so disbursement commits or
// rolls back with the loan state change.
type FundsPool interface {
	AvailableFunds(ctx context.Context, led ledger.Repository) (uint64, error)
	QuoteInterest(principal, durationBlocks uint64) uint64
	Disburse(ctx context.Context, led ledger.Repository, amount uint64, recipient string) error
}

// Registry answers identity verification and asset ownership lookups.
type Registry interface {
	IsVerified(ctx context.Context, identity string) (bool, error)
	// AssetOwner returns ok=false when the asset is unknown.
	AssetOwner(ctx context.Context, assetID string) (owner string, ok bool, err error)
}

// RepaymentHandler settles a repayment inside the caller's transaction.
type RepaymentHandler interface {
	Process(ctx context.Context, r uow.Repos, loanID uint64, payer string, amount uint64) error
}

// HeightSource supplies the monotonically increasing height counter used
// for deadlines and default timing.
type HeightSource interface {
	Current() uint64
}

// Vault is the collateral accounting engine as seen by the loan
// lifecycle engine: transaction-scoped operations composed into the
// lifecycle engine's own unit of work.
type Vault interface {
	Deposit(ctx context.Context, r uow.Repos, caller string, loanID, amount uint64, currencyCode string) (uint64, error)
	Release(ctx context.Context, r uow.Repos, caller string, loanID uint64) error
	Liquidate(ctx context.Context, r uow.Repos, caller string, loanID uint64) (uint64, error)
	UpdateLoanStatus(ctx context.Context, r uow.Repos, caller string, loanID uint64, status loan.Status, referenceValue uint64) error
}
