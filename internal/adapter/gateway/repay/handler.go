package repay

import (
	"context"

	"p2plend-backend/internal/domain/gateway"
	"p2plend-backend/internal/domain/repayment"
	"p2plend-backend/internal/domain/uow"
)

// Handler settles repayments: the due amount moves from the payer to
// the pool account and an audit row is written, all inside the caller's
// transaction.
type Handler struct {
	poolAccount string
	heights     gateway.HeightSource
}

func New(poolAccount string, heights gateway.HeightSource) *Handler {
	return &Handler{poolAccount: poolAccount, heights: heights}
}

func (h *Handler) Process(ctx context.Context, r uow.Repos, loanID uint64, payer string, amount uint64) error {
	if err := r.Ledger.Transfer(ctx, payer, h.poolAccount, amount); err != nil {
		return err
	}
	return r.Repayments.Create(ctx, &repayment.Repayment{
		LoanID:  loanID,
		PayerID: payer,
		Amount:  amount,
		Height:  h.heights.Current(),
	})
}
