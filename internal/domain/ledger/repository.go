package ledger

import "context"

// Repository is the token transfer service. Transfer debits and credits
// inside the caller's transaction, so value movement commits or rolls
// back together with the operation that caused it.
type Repository interface {
	Balance(ctx context.Context, accountID string) (uint64, error)
	Transfer(ctx context.Context, from, to string, amount uint64) error
	// Credit mints value onto an account; used for funding and tests.
	Credit(ctx context.Context, accountID string, amount uint64) error
}
