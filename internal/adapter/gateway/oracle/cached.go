package oracle

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"p2plend-backend/internal/domain/gateway"
)

// Cached memoizes per-unit rates in redis so repeated valuations of the
// same currency skip the upstream oracle. Cache problems fall through to
// the inner oracle rather than failing the quote.
type Cached struct {
	inner gateway.PriceOracle
	rdb   *redis.Client
	ttl   time.Duration
}

func NewCached(inner gateway.PriceOracle, rdb *redis.Client, ttl time.Duration) *Cached {
	return &Cached{inner: inner, rdb: rdb, ttl: ttl}
}

func rateKey(oracleID, currencyCode string) string {
	return "oracle:rate:" + oracleID + ":" + currencyCode
}

func (c *Cached) Price(ctx context.Context, oracleID, currencyCode string, amount uint64) (uint64, error) {
	if amount == 0 {
		return 0, nil
	}
	if v, err := c.rdb.Get(ctx, rateKey(oracleID, currencyCode)).Result(); err == nil {
		if rate, perr := strconv.ParseUint(v, 10, 64); perr == nil {
			return rate * amount, nil
		}
	}
	price, err := c.inner.Price(ctx, oracleID, currencyCode, amount)
	if err != nil {
		return 0, err
	}
	rate := price / amount
	_ = c.rdb.Set(ctx, rateKey(oracleID, currencyCode), strconv.FormatUint(rate, 10), c.ttl).Err()
	return price, nil
}
