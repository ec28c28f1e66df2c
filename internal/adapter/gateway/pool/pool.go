package pool

import (
	"context"

	"p2plend-backend/internal/domain/ledger"
)

const bpsDenominator = 10_000

// Pool implements the pooled-funds collaborator on top of a ledger
// account. Interest is a flat basis-point rate scaled linearly by the
// loan duration against the rate period.
type Pool struct {
	account         string
	interestRateBps uint64
	ratePeriod      uint64 // blocks over which the full rate applies
}

func New(account string, interestRateBps, ratePeriodBlocks uint64) *Pool {
	return &Pool{account: account, interestRateBps: interestRateBps, ratePeriod: ratePeriodBlocks}
}

func (p *Pool) AvailableFunds(ctx context.Context, led ledger.Repository) (uint64, error) {
	return led.Balance(ctx, p.account)
}

// QuoteInterest truncates at every division, matching the engines'
// integer math.
func (p *Pool) QuoteInterest(principal, durationBlocks uint64) uint64 {
	if p.ratePeriod == 0 {
		return principal * p.interestRateBps / bpsDenominator
	}
	return principal * p.interestRateBps * durationBlocks / bpsDenominator / p.ratePeriod
}

func (p *Pool) Disburse(ctx context.Context, led ledger.Repository, amount uint64, recipient string) error {
	return led.Transfer(ctx, p.account, recipient, amount)
}
