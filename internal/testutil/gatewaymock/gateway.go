package gatewaymock

import (
	"context"

	"p2plend-backend/internal/domain/gateway"
	"p2plend-backend/internal/domain/ledger"
	"p2plend-backend/internal/domain/loan"
	"p2plend-backend/internal/domain/uow"
)

// Compile-time interface checks
var (
	_ gateway.PriceOracle      = (*Oracle)(nil)
	_ gateway.FundsPool        = (*Pool)(nil)
	_ gateway.Registry         = (*Registry)(nil)
	_ gateway.RepaymentHandler = (*Repay)(nil)
	_ gateway.Vault            = (*Vault)(nil)
	_ gateway.HeightSource     = (*Heights)(nil)
)

// Heights is a settable height counter; bump H between calls to move
// the environment forward.
type Heights struct{ H uint64 }

func (h *Heights) Current() uint64 { return h.H }

// Oracle quotes rate*amount from a fixed rate table, or defers to Fn.
type Oracle struct {
	Rates map[string]uint64
	Fn    func(ctx context.Context, oracleID, currencyCode string, amount uint64) (uint64, error)
}

func (o *Oracle) Price(ctx context.Context, oracleID, currencyCode string, amount uint64) (uint64, error) {
	if o.Fn != nil {
		return o.Fn(ctx, oracleID, currencyCode, amount)
	}
	return o.Rates[currencyCode] * amount, nil
}

type Pool struct {
	AvailableFundsFn func(ctx context.Context, led ledger.Repository) (uint64, error)
	QuoteInterestFn  func(principal, durationBlocks uint64) uint64
	DisburseFn       func(ctx context.Context, led ledger.Repository, amount uint64, recipient string) error
}

func (m *Pool) AvailableFunds(ctx context.Context, led ledger.Repository) (uint64, error) {
	if m.AvailableFundsFn != nil {
		return m.AvailableFundsFn(ctx, led)
	}
	return 0, nil
}

func (m *Pool) QuoteInterest(principal, durationBlocks uint64) uint64 {
	if m.QuoteInterestFn != nil {
		return m.QuoteInterestFn(principal, durationBlocks)
	}
	return 0
}

func (m *Pool) Disburse(ctx context.Context, led ledger.Repository, amount uint64, recipient string) error {
	if m.DisburseFn != nil {
		return m.DisburseFn(ctx, led, amount, recipient)
	}
	return nil
}

// Registry answers from in-memory sets; the Fns override when set.
type Registry struct {
	Verified map[string]bool
	Assets   map[string]string // asset id -> owner

	IsVerifiedFn func(ctx context.Context, identity string) (bool, error)
	AssetOwnerFn func(ctx context.Context, assetID string) (string, bool, error)
}

func (m *Registry) IsVerified(ctx context.Context, identity string) (bool, error) {
	if m.IsVerifiedFn != nil {
		return m.IsVerifiedFn(ctx, identity)
	}
	return m.Verified[identity], nil
}

func (m *Registry) AssetOwner(ctx context.Context, assetID string) (string, bool, error) {
	if m.AssetOwnerFn != nil {
		return m.AssetOwnerFn(ctx, assetID)
	}
	owner, ok := m.Assets[assetID]
	return owner, ok, nil
}

type Repay struct {
	ProcessFn func(ctx context.Context, r uow.Repos, loanID uint64, payer string, amount uint64) error
}

func (m *Repay) Process(ctx context.Context, r uow.Repos, loanID uint64, payer string, amount uint64) error {
	if m.ProcessFn != nil {
		return m.ProcessFn(ctx, r, loanID, payer, amount)
	}
	return nil
}

type Vault struct {
	DepositFn          func(ctx context.Context, r uow.Repos, caller string, loanID, amount uint64, currencyCode string) (uint64, error)
	ReleaseFn          func(ctx context.Context, r uow.Repos, caller string, loanID uint64) error
	LiquidateFn        func(ctx context.Context, r uow.Repos, caller string, loanID uint64) (uint64, error)
	UpdateLoanStatusFn func(ctx context.Context, r uow.Repos, caller string, loanID uint64, status loan.Status, referenceValue uint64) error
}

func (m *Vault) Deposit(ctx context.Context, r uow.Repos, caller string, loanID, amount uint64, currencyCode string) (uint64, error) {
	if m.DepositFn != nil {
		return m.DepositFn(ctx, r, caller, loanID, amount, currencyCode)
	}
	return 0, nil
}

func (m *Vault) Release(ctx context.Context, r uow.Repos, caller string, loanID uint64) error {
	if m.ReleaseFn != nil {
		return m.ReleaseFn(ctx, r, caller, loanID)
	}
	return nil
}

func (m *Vault) Liquidate(ctx context.Context, r uow.Repos, caller string, loanID uint64) (uint64, error) {
	if m.LiquidateFn != nil {
		return m.LiquidateFn(ctx, r, caller, loanID)
	}
	return 0, nil
}

func (m *Vault) UpdateLoanStatus(ctx context.Context, r uow.Repos, caller string, loanID uint64, status loan.Status, referenceValue uint64) error {
	if m.UpdateLoanStatusFn != nil {
		return m.UpdateLoanStatusFn(ctx, r, caller, loanID, status, referenceValue)
	}
	return nil
}
