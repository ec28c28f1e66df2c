package collateral

import (
	"context"
	"errors"
	"log"
	"sync"

	domain "p2plend-backend/internal/domain/collateral"
	"p2plend-backend/internal/domain/gateway"
	"p2plend-backend/internal/domain/loan"
	"p2plend-backend/internal/domain/uow"
)

const bpsDenominator = 10_000

// Params configures the engine. The authority can change any field at
// runtime through the admin setters.
type Params struct {
	Authority    string
	MinRatioPct  uint64
	MaxPerLoan   uint64
	PenaltyBps   uint64
	VaultAccount string
	PoolAccount  string
}

// Engine owns per-loan collateral deposits, the derived summaries, lock
// flags, ratio validation and liquidation. Every public operation runs
// inside one unit-of-work transaction; the exported Repos-taking
// variants let the loan lifecycle engine compose collateral moves into
// its own transaction.
type Engine struct {
	uow     uow.UnitOfWork
	oracle  gateway.PriceOracle
	heights gateway.HeightSource

	mu     sync.RWMutex
	params Params
}

var _ gateway.Vault = (*Engine)(nil)

func NewEngine(u uow.UnitOfWork, oracle gateway.PriceOracle, heights gateway.HeightSource, p Params) *Engine {
	return &Engine{uow: u, oracle: oracle, heights: heights, params: p}
}

func (e *Engine) snapshot() Params {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.params
}

func (e *Engine) requireAuthority(caller string) error {
	if caller == "" || caller != e.snapshot().Authority {
		return domain.ErrUnauthorized
	}
	return nil
}

// meetsMinRatio applies the ratio invariant with truncating division. A
// zero reference value means there is nothing to collateralize against,
// so the check passes.
func meetsMinRatio(totalValue, referenceValue, minRatioPct uint64) bool {
	if referenceValue == 0 {
		return true
	}
	return domain.Ratio(totalValue, referenceValue) >= minRatioPct
}

// value resolves the oracle binding for the currency and quotes the
// amount. Zero is returned when no oracle is bound.
func (e *Engine) value(ctx context.Context, r uow.Repos, currencyCode string, amount uint64) (uint64, error) {
	b, err := r.Collateral.GetBinding(ctx, currencyCode)
	if errors.Is(err, domain.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return e.oracle.Price(ctx, b.OracleID, currencyCode, amount)
}

// ensureSummary loads the summary row or starts a zero one.
func ensureSummary(ctx context.Context, r uow.Repos, loanID uint64) (*domain.Summary, error) {
	s, err := r.Collateral.GetSummaryForUpdate(ctx, loanID)
	if errors.Is(err, domain.ErrNotFound) {
		return &domain.Summary{LoanID: loanID}, nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Deposit moves amount from the caller into vault custody and records
// the new collateral position. All validation precedes the transfer.
func (e *Engine) Deposit(ctx context.Context, r uow.Repos, caller string, loanID, amount uint64, currencyCode string) (uint64, error) {
	p := e.snapshot()
	if amount == 0 {
		return 0, domain.ErrInvalidAmount
	}
	if _, err := r.Collateral.GetBinding(ctx, currencyCode); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return 0, domain.ErrUnsupportedCurrency
		}
		return 0, err
	}
	status, err := r.Collateral.GetStatus(ctx, loanID)
	if err != nil {
		return 0, err
	}
	summary, err := ensureSummary(ctx, r, loanID)
	if err != nil {
		return 0, err
	}
	if summary.DepositCount >= p.MaxPerLoan {
		return 0, domain.ErrMaxCollateral
	}
	value, err := e.value(ctx, r, currencyCode, amount)
	if err != nil {
		return 0, err
	}
	if !meetsMinRatio(summary.TotalValue+value, status.ReferenceValue, p.MinRatioPct) {
		return 0, domain.ErrRatioTooLow
	}

	if err := r.Ledger.Transfer(ctx, caller, p.VaultAccount, amount); err != nil {
		return 0, err
	}

	collateralID := summary.NextCollateralID
	d := &domain.Deposit{
		LoanID:            loanID,
		CollateralID:      collateralID,
		Amount:            amount,
		CurrencyCode:      currencyCode,
		DepositedAtHeight: e.heights.Current(),
		DepositorID:       caller,
	}
	if err := r.Collateral.CreateDeposit(ctx, d); err != nil {
		return 0, err
	}

	summary.NextCollateralID++
	summary.TotalAmount += amount
	summary.TotalValue += value
	summary.DepositCount++
	if err := r.Collateral.SaveSummary(ctx, summary); err != nil {
		return 0, err
	}
	return collateralID, nil
}

// DepositCollateral is the standalone entry point for Deposit.
func (e *Engine) DepositCollateral(ctx context.Context, caller string, loanID, amount uint64, currencyCode string) (uint64, error) {
	var collateralID uint64
	err := e.uow.WithinTx(ctx, func(r uow.Repos) error {
		id, err := e.Deposit(ctx, r, caller, loanID, amount, currencyCode)
		collateralID = id
		return err
	})
	return collateralID, err
}

// WithdrawCollateral returns part or all of a deposit to its depositor,
// provided the loan stays over-collateralized afterwards.
func (e *Engine) WithdrawCollateral(ctx context.Context, caller string, loanID, collateralID, amount uint64) error {
	p := e.snapshot()
	return e.uow.WithinTx(ctx, func(r uow.Repos) error {
		if amount == 0 {
			return domain.ErrInvalidAmount
		}
		d, err := r.Collateral.GetDepositForUpdate(ctx, loanID, collateralID)
		if err != nil {
			return err
		}
		if caller != d.DepositorID {
			return domain.ErrUnauthorized
		}
		if d.Locked {
			return domain.ErrLocked
		}
		status, err := r.Collateral.GetStatus(ctx, loanID)
		if err != nil {
			return err
		}
		if status.Status != loan.StatusActive {
			return domain.ErrLoanNotActive
		}
		if amount > d.Amount {
			return domain.ErrWithdrawalExceeds
		}
		summary, err := r.Collateral.GetSummaryForUpdate(ctx, loanID)
		if err != nil {
			return err
		}
		value, err := e.value(ctx, r, d.CurrencyCode, amount)
		if err != nil {
			return err
		}
		if value > summary.TotalValue {
			value = summary.TotalValue
		}
		if !meetsMinRatio(summary.TotalValue-value, status.ReferenceValue, p.MinRatioPct) {
			return domain.ErrRatioTooLow
		}

		d.Amount -= amount
		if d.Amount == 0 {
			if err := r.Collateral.DeleteDeposit(ctx, loanID, collateralID); err != nil {
				return err
			}
			summary.DepositCount--
		} else {
			if err := r.Collateral.SaveDeposit(ctx, d); err != nil {
				return err
			}
		}
		summary.TotalAmount -= amount
		summary.TotalValue -= value
		if err := r.Collateral.SaveSummary(ctx, summary); err != nil {
			return err
		}
		return r.Ledger.Transfer(ctx, p.VaultAccount, caller, amount)
	})
}

func (e *Engine) setLock(ctx context.Context, caller string, loanID, collateralID uint64, locked bool) error {
	if err := e.requireAuthority(caller); err != nil {
		return err
	}
	return e.uow.WithinTx(ctx, func(r uow.Repos) error {
		d, err := r.Collateral.GetDepositForUpdate(ctx, loanID, collateralID)
		if err != nil {
			return err
		}
		d.Locked = locked
		return r.Collateral.SaveDeposit(ctx, d)
	})
}

// LockCollateral freezes one deposit; no value moves.
func (e *Engine) LockCollateral(ctx context.Context, caller string, loanID, collateralID uint64) error {
	return e.setLock(ctx, caller, loanID, collateralID, true)
}

func (e *Engine) UnlockCollateral(ctx context.Context, caller string, loanID, collateralID uint64) error {
	return e.setLock(ctx, caller, loanID, collateralID, false)
}

// UpdateLoanStatus writes the status record the ratio math reads from.
func (e *Engine) UpdateLoanStatus(ctx context.Context, r uow.Repos, caller string, loanID uint64, status loan.Status, referenceValue uint64) error {
	if err := e.requireAuthority(caller); err != nil {
		return err
	}
	return r.Collateral.SaveStatus(ctx, &domain.StatusRecord{
		LoanID:            loanID,
		Status:            status,
		ReferenceValue:    referenceValue,
		LastUpdatedHeight: e.heights.Current(),
	})
}

// SetLoanStatus is the standalone entry point for UpdateLoanStatus.
func (e *Engine) SetLoanStatus(ctx context.Context, caller string, loanID uint64, status loan.Status, referenceValue uint64) error {
	return e.uow.WithinTx(ctx, func(r uow.Repos) error {
		return e.UpdateLoanStatus(ctx, r, caller, loanID, status, referenceValue)
	})
}

// Liquidate transfers the whole aggregate to the pool recipient, clears
// all deposits and removes the status record. It is terminal: the
// cleared record makes a repeat call fail with ErrNotFound.
func (e *Engine) Liquidate(ctx context.Context, r uow.Repos, caller string, loanID uint64) (uint64, error) {
	p := e.snapshot()
	if err := e.requireAuthority(caller); err != nil {
		return 0, err
	}
	status, err := r.Collateral.GetStatus(ctx, loanID)
	if err != nil {
		return 0, err
	}
	if status.Status != loan.StatusDefaulted {
		return 0, domain.ErrNotDefaulted
	}
	summary, err := r.Collateral.GetSummaryForUpdate(ctx, loanID)
	if err != nil {
		return 0, err
	}
	if summary.TotalAmount == 0 {
		return 0, domain.ErrNothingToLiquidate
	}

	total := summary.TotalAmount
	if err := r.Ledger.Transfer(ctx, p.VaultAccount, p.PoolAccount, total); err != nil {
		return 0, err
	}

	// The penalty is computed for reporting only; it is never moved as a
	// distinct transfer.
	penalty := summary.TotalValue * p.PenaltyBps / bpsDenominator
	log.Printf("collateral: liquidated loan %d amount=%d penalty=%d", loanID, total, penalty)

	if err := r.Collateral.DeleteDeposits(ctx, loanID); err != nil {
		return 0, err
	}
	summary.TotalAmount = 0
	summary.TotalValue = 0
	summary.DepositCount = 0
	if err := r.Collateral.SaveSummary(ctx, summary); err != nil {
		return 0, err
	}
	if err := r.Collateral.DeleteStatus(ctx, loanID); err != nil {
		return 0, err
	}
	return total, nil
}

// LiquidateCollateral is the standalone entry point for Liquidate.
func (e *Engine) LiquidateCollateral(ctx context.Context, caller string, loanID uint64) (uint64, error) {
	var total uint64
	err := e.uow.WithinTx(ctx, func(r uow.Repos) error {
		t, err := e.Liquidate(ctx, r, caller, loanID)
		total = t
		return err
	})
	return total, err
}

// Release returns every live deposit to its depositor and zeroes the
// summary. Used when a loan is rejected or repaid.
func (e *Engine) Release(ctx context.Context, r uow.Repos, caller string, loanID uint64) error {
	p := e.snapshot()
	if err := e.requireAuthority(caller); err != nil {
		return err
	}
	deposits, err := r.Collateral.ListDeposits(ctx, loanID)
	if err != nil {
		return err
	}
	for i := range deposits {
		if err := r.Ledger.Transfer(ctx, p.VaultAccount, deposits[i].DepositorID, deposits[i].Amount); err != nil {
			return err
		}
	}
	if len(deposits) == 0 {
		return nil
	}
	if err := r.Collateral.DeleteDeposits(ctx, loanID); err != nil {
		return err
	}
	summary, err := ensureSummary(ctx, r, loanID)
	if err != nil {
		return err
	}
	summary.TotalAmount = 0
	summary.TotalValue = 0
	summary.DepositCount = 0
	return r.Collateral.SaveSummary(ctx, summary)
}

// ReleaseCollateral is the standalone entry point for Release.
func (e *Engine) ReleaseCollateral(ctx context.Context, caller string, loanID uint64) error {
	return e.uow.WithinTx(ctx, func(r uow.Repos) error {
		return e.Release(ctx, r, caller, loanID)
	})
}

// IsOverCollateralized never fails: missing records report false.
func (e *Engine) IsOverCollateralized(ctx context.Context, loanID uint64) bool {
	p := e.snapshot()
	over := false
	_ = e.uow.WithinTx(ctx, func(r uow.Repos) error {
		status, err := r.Collateral.GetStatus(ctx, loanID)
		if err != nil {
			return nil
		}
		summary, err := r.Collateral.GetSummary(ctx, loanID)
		if err != nil {
			return nil
		}
		// a loan with no reference value has nothing to be over-collateralized
		// against; only the withdrawal guard treats that as a vacuous pass
		if status.ReferenceValue == 0 {
			return nil
		}
		over = meetsMinRatio(summary.TotalValue, status.ReferenceValue, p.MinRatioPct)
		return nil
	})
	return over
}

func (e *Engine) GetCollateral(ctx context.Context, loanID, collateralID uint64) (*domain.Deposit, error) {
	var d *domain.Deposit
	err := e.uow.WithinTx(ctx, func(r uow.Repos) error {
		got, err := r.Collateral.GetDeposit(ctx, loanID, collateralID)
		d = got
		return err
	})
	return d, err
}

func (e *Engine) GetLoanCollateralSum(ctx context.Context, loanID uint64) (*domain.Summary, error) {
	var s *domain.Summary
	err := e.uow.WithinTx(ctx, func(r uow.Repos) error {
		got, err := r.Collateral.GetSummary(ctx, loanID)
		s = got
		return err
	})
	return s, err
}

func (e *Engine) GetLoanStatus(ctx context.Context, loanID uint64) (*domain.StatusRecord, error) {
	var s *domain.StatusRecord
	err := e.uow.WithinTx(ctx, func(r uow.Repos) error {
		got, err := r.Collateral.GetStatus(ctx, loanID)
		s = got
		return err
	})
	return s, err
}

// ---- admin setters ----

func (e *Engine) SetAuthority(caller, authority string) error {
	if err := e.requireAuthority(caller); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.params.Authority = authority
	return nil
}

func (e *Engine) SetMinRatio(caller string, pct uint64) error {
	if err := e.requireAuthority(caller); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.params.MinRatioPct = pct
	return nil
}

func (e *Engine) SetMaxPerLoan(caller string, max uint64) error {
	if err := e.requireAuthority(caller); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.params.MaxPerLoan = max
	return nil
}

func (e *Engine) SetPenaltyBps(caller string, bps uint64) error {
	if err := e.requireAuthority(caller); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.params.PenaltyBps = bps
	return nil
}

// BindOracle maps a currency to its oracle identity; admin-mutated
// configuration kept in the database.
func (e *Engine) BindOracle(ctx context.Context, caller, currencyCode, oracleID string) error {
	if err := e.requireAuthority(caller); err != nil {
		return err
	}
	return e.uow.WithinTx(ctx, func(r uow.Repos) error {
		return r.Collateral.SaveBinding(ctx, &domain.OracleBinding{CurrencyCode: currencyCode, OracleID: oracleID})
	})
}

func (e *Engine) UnbindOracle(ctx context.Context, caller, currencyCode string) error {
	if err := e.requireAuthority(caller); err != nil {
		return err
	}
	return e.uow.WithinTx(ctx, func(r uow.Repos) error {
		return r.Collateral.DeleteBinding(ctx, currencyCode)
	})
}
