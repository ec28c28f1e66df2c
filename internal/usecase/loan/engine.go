package loan

import (
	"context"
	"errors"
	"sync"

	"p2plend-backend/internal/domain/gateway"
	domain "p2plend-backend/internal/domain/loan"
	"p2plend-backend/internal/domain/uow"
	"p2plend-backend/internal/domain/vote"
)

type Params struct {
	Authority          string
	MaxLoanAmount      uint64
	MaxLoanDuration    uint64
	MinRatioPct        uint64
	VotingWindow       uint64
	ApprovalPct        uint64
	CollateralCurrency string
}

// Engine owns the loan record and its lifecycle: request, voting,
// finalize, repay and default. It orchestrates the collateral vault,
// the funds pool and the repayment handler inside one transaction per
// operation.
type Engine struct {
	uow      uow.UnitOfWork
	vault    gateway.Vault
	pool     gateway.FundsPool
	registry gateway.Registry
	repay    gateway.RepaymentHandler
	heights  gateway.HeightSource

	mu     sync.RWMutex
	params Params
}

func NewEngine(u uow.UnitOfWork, vault gateway.Vault, pool gateway.FundsPool, registry gateway.Registry, repay gateway.RepaymentHandler, heights gateway.HeightSource, p Params) *Engine {
	return &Engine{uow: u, vault: vault, pool: pool, registry: registry, repay: repay, heights: heights, params: p}
}

func (e *Engine) snapshot() Params {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.params
}

type RequestInput struct {
	Amount           uint64
	DurationBlocks   uint64
	AssetRef         string
	CollateralAmount uint64
}

// Request validates eligibility, deposits collateral through the vault
// and persists the pending loan, all in one transaction. A failed
// request leaves no row behind and burns no loan id.
func (e *Engine) Request(ctx context.Context, borrower string, in RequestInput) (*LoanDTO, error) {
	p := e.snapshot()

	verified, err := e.registry.IsVerified(ctx, borrower)
	if err != nil {
		return nil, err
	}
	if !verified {
		return nil, domain.ErrNotVerified
	}

	var dto *LoanDTO
	err = e.uow.WithinTx(ctx, func(r uow.Repos) error {
		active, err := r.Loans.HasActiveLoanByBorrower(ctx, borrower)
		if err != nil {
			return err
		}
		if active {
			return domain.ErrActiveLoanExists
		}
		if in.Amount < 1 || in.Amount > p.MaxLoanAmount {
			return domain.ErrInvalidAmount
		}
		if in.DurationBlocks < 1 || in.DurationBlocks > p.MaxLoanDuration {
			return domain.ErrInvalidDuration
		}
		if _, ok, err := e.registry.AssetOwner(ctx, in.AssetRef); err != nil {
			return err
		} else if !ok {
			return domain.ErrUnknownAsset
		}
		if in.CollateralAmount < in.Amount*p.MinRatioPct/100 {
			return domain.ErrTooLittleCollateral
		}
		available, err := e.pool.AvailableFunds(ctx, r.Ledger)
		if err != nil {
			return err
		}
		if available < in.Amount {
			return domain.ErrInsufficientFunds
		}

		height := e.heights.Current()
		l := &domain.Loan{
			BorrowerID:           borrower,
			Principal:            in.Amount,
			Interest:             e.pool.QuoteInterest(in.Amount, in.DurationBlocks),
			CollateralAmount:     in.CollateralAmount,
			AssetRef:             in.AssetRef,
			Status:               domain.StatusPending,
			DurationBlocks:       in.DurationBlocks,
			VotingDeadlineHeight: height + p.VotingWindow,
		}
		if err := r.Loans.Create(ctx, l); err != nil {
			return err
		}
		// The status record must exist before the vault accepts the
		// deposit: its reference value is the ratio denominator.
		if err := e.vault.UpdateLoanStatus(ctx, r, p.Authority, l.ID, domain.StatusPending, l.Principal); err != nil {
			return err
		}
		if _, err := e.vault.Deposit(ctx, r, borrower, l.ID, in.CollateralAmount, p.CollateralCurrency); err != nil {
			return err
		}
		dto = toDTO(l)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// Vote records one approve/reject vote while the loan is pending and
// the voting window is open. Each (loan, voter) pair votes at most once.
func (e *Engine) Vote(ctx context.Context, voter string, loanID uint64, approve bool) error {
	verified, err := e.registry.IsVerified(ctx, voter)
	if err != nil {
		return err
	}
	if !verified {
		return domain.ErrNotVerified
	}
	return e.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domain.Loan) error {
		if l.Status != domain.StatusPending {
			return domain.ErrInvalidTransition
		}
		if e.heights.Current() > l.VotingDeadlineHeight {
			return domain.ErrVotingClosed
		}
		if _, err := r.Votes.Get(ctx, loanID, voter); err == nil {
			return domain.ErrAlreadyVoted
		} else if !errors.Is(err, vote.ErrNotFound) {
			return err
		}
		if err := r.Votes.Create(ctx, &vote.Vote{LoanID: loanID, VoterID: voter, Approve: approve}); err != nil {
			return err
		}
		if approve {
			l.VotesFor++
		} else {
			l.VotesAgainst++
		}
		return r.Loans.Save(ctx, l)
	})
}

// approved applies the decision rule: zero votes always rejects,
// otherwise the for-share must reach the approval threshold.
func approved(votesFor, votesAgainst, thresholdPct uint64) bool {
	total := votesFor + votesAgainst
	if total == 0 {
		return false
	}
	return votesFor*100/total >= thresholdPct
}

// Finalize closes the vote after the deadline. Approval disburses the
// principal; rejection releases the collateral. This is the single
// commit point for funds: a second call finds the loan no longer
// pending and fails.
func (e *Engine) Finalize(ctx context.Context, loanID uint64) (*LoanDTO, error) {
	p := e.snapshot()
	var dto *LoanDTO
	err := e.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domain.Loan) error {
		if l.Status != domain.StatusPending {
			return domain.ErrInvalidTransition
		}
		if e.heights.Current() <= l.VotingDeadlineHeight {
			return domain.ErrVotingOpen
		}
		if approved(l.VotesFor, l.VotesAgainst, p.ApprovalPct) {
			if !l.Status.CanTransitionTo(domain.StatusActive) {
				return domain.ErrInvalidTransition
			}
			l.Status = domain.StatusActive
			l.StartHeight = e.heights.Current()
			if err := r.Loans.Save(ctx, l); err != nil {
				return err
			}
			if err := e.vault.UpdateLoanStatus(ctx, r, p.Authority, l.ID, domain.StatusActive, l.Principal); err != nil {
				return err
			}
			if err := e.pool.Disburse(ctx, r.Ledger, l.Principal, l.BorrowerID); err != nil {
				return err
			}
		} else {
			if !l.Status.CanTransitionTo(domain.StatusRejected) {
				return domain.ErrInvalidTransition
			}
			l.Status = domain.StatusRejected
			if err := r.Loans.Save(ctx, l); err != nil {
				return err
			}
			if err := e.vault.UpdateLoanStatus(ctx, r, p.Authority, l.ID, domain.StatusRejected, l.Principal); err != nil {
				return err
			}
			if err := e.vault.Release(ctx, r, p.Authority, l.ID); err != nil {
				return err
			}
		}
		dto = toDTO(l)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// Repay settles the full amount due. Only the due amount is moved, so
// an overpaying caller never parts with the excess.
func (e *Engine) Repay(ctx context.Context, caller string, loanID, amount uint64) (*LoanDTO, error) {
	p := e.snapshot()
	var dto *LoanDTO
	err := e.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domain.Loan) error {
		if caller != l.BorrowerID {
			return domain.ErrUnauthorized
		}
		if l.Status != domain.StatusActive {
			return domain.ErrInvalidTransition
		}
		if amount < l.TotalDue() {
			return domain.ErrPartialRepayment
		}
		if err := e.repay.Process(ctx, r, l.ID, caller, l.TotalDue()); err != nil {
			return err
		}
		l.Status = domain.StatusRepaid
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		if err := e.vault.UpdateLoanStatus(ctx, r, p.Authority, l.ID, domain.StatusRepaid, l.Principal); err != nil {
			return err
		}
		if err := e.vault.Release(ctx, r, p.Authority, l.ID); err != nil {
			return err
		}
		dto = toDTO(l)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// MarkDefault moves an overdue active loan to defaulted and triggers
// liquidation. This is the sole path into defaulted; there is no grace
// period.
func (e *Engine) MarkDefault(ctx context.Context, loanID uint64) (*LoanDTO, error) {
	p := e.snapshot()
	var dto *LoanDTO
	err := e.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domain.Loan) error {
		if l.Status != domain.StatusActive {
			return domain.ErrInvalidTransition
		}
		if e.heights.Current() <= l.StartHeight+l.DurationBlocks {
			return domain.ErrNotDue
		}
		l.Status = domain.StatusDefaulted
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		if err := e.vault.UpdateLoanStatus(ctx, r, p.Authority, l.ID, domain.StatusDefaulted, l.Principal); err != nil {
			return err
		}
		if _, err := e.vault.Liquidate(ctx, r, p.Authority, l.ID); err != nil {
			return err
		}
		dto = toDTO(l)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

func (e *Engine) Get(ctx context.Context, loanID uint64) (*LoanDTO, error) {
	var dto *LoanDTO
	err := e.uow.WithinTx(ctx, func(r uow.Repos) error {
		l, err := r.Loans.GetByID(ctx, loanID)
		if err != nil {
			return err
		}
		dto = toDTO(l)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

func (e *Engine) HasActiveLoan(ctx context.Context, borrowerID string) (bool, error) {
	var active bool
	err := e.uow.WithinTx(ctx, func(r uow.Repos) error {
		got, err := r.Loans.HasActiveLoanByBorrower(ctx, borrowerID)
		active = got
		return err
	})
	return active, err
}

// ---- admin setters ----

func (e *Engine) requireAuthority(caller string) error {
	if caller == "" || caller != e.snapshot().Authority {
		return domain.ErrUnauthorized
	}
	return nil
}

func (e *Engine) SetAuthority(caller, authority string) error {
	if err := e.requireAuthority(caller); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.params.Authority = authority
	return nil
}

func (e *Engine) SetMaxLoanAmount(caller string, max uint64) error {
	if err := e.requireAuthority(caller); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.params.MaxLoanAmount = max
	return nil
}

func (e *Engine) SetMaxLoanDuration(caller string, max uint64) error {
	if err := e.requireAuthority(caller); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.params.MaxLoanDuration = max
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
