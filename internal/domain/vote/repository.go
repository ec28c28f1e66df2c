package vote

import "context"

type Repository interface {
	Create(ctx context.Context, v *Vote) error
	Get(ctx context.Context, loanID uint64, voterID string) (*Vote, error)
}
