package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"
)

type Config struct {
	AppPort string

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	RedisAddr string
	RedisDB   int

	IdempTTLSecs  int
	OracleTTLSecs int

	// protocol parameters
	AuthorityID        string
	MinRatioPct        uint64
	MaxCollateralPer   uint64
	LiquidationBps     uint64
	MaxLoanAmount      uint64
	MaxLoanDuration    uint64
	VotingWindow       uint64
	ApprovalPct        uint64
	InterestRateBps    uint64
	RatePeriodBlocks   uint64
	CollateralCurrency string
	VaultAccount       string
	PoolAccount        string

	// height clock
	GenesisUnix   int64
	BlockInterval time.Duration
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getuint(k string, d uint64) uint64 {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			return n
		}
	}
	return d
}

func Load() *Config {
	c := &Config{
		AppPort:   getenv("APP_PORT", "8080"),
		MySQLHost: getenv("MYSQL_HOST", "mysql"),
		MySQLPort: getenv("MYSQL_PORT", "3306"),
		MySQLDB:   getenv("MYSQL_DB", "p2plend"),
		MySQLUser: getenv("MYSQL_USER", "p2plend"),
		MySQLPass: getenv("MYSQL_PASS", "p2plend"),

		RedisAddr:     getenv("REDIS_ADDR", "redis:6379"),
		IdempTTLSecs:  300,
		OracleTTLSecs: 30,

		AuthorityID:        os.Getenv("AUTHORITY_ID"),
		MinRatioPct:        getuint("MIN_COLLATERAL_RATIO_PCT", 150),
		MaxCollateralPer:   getuint("MAX_COLLATERAL_PER_LOAN", 100),
		LiquidationBps:     getuint("LIQUIDATION_PENALTY_BPS", 500),
		MaxLoanAmount:      getuint("MAX_LOAN_AMOUNT", 10_000),
		MaxLoanDuration:    getuint("MAX_LOAN_DURATION_BLOCKS", 100_000),
		VotingWindow:       getuint("VOTING_WINDOW_BLOCKS", 100),
		ApprovalPct:        getuint("APPROVAL_THRESHOLD_PCT", 75),
		InterestRateBps:    getuint("INTEREST_RATE_BPS", 1_000),
		RatePeriodBlocks:   getuint("RATE_PERIOD_BLOCKS", 0),
		CollateralCurrency: getenv("COLLATERAL_CURRENCY", "A"),
		VaultAccount:       getenv("VAULT_ACCOUNT", "vault"),
		PoolAccount:        getenv("POOL_ACCOUNT", "pool"),

		GenesisUnix:   0,
		BlockInterval: time.Second,
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.RedisDB = n
		}
	}
	if v := os.Getenv("IDEMPOTENCY_TTL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.IdempTTLSecs = n
		}
	}
	if v := os.Getenv("ORACLE_CACHE_TTL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.OracleTTLSecs = n
		}
	}
	if v := os.Getenv("GENESIS_UNIX"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.GenesisUnix = n
		}
	}
	if v := os.Getenv("BLOCK_INTERVAL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.BlockInterval = time.Duration(n) * time.Second
		}
	}
	return c
}

func (c *Config) Validate() error {
	if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
		return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
	}
	if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
		return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
	}
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	if c.AuthorityID == "" {
		return errors.New("missing AUTHORITY_ID")
	}
	if c.MinRatioPct < 100 {
		return fmt.Errorf("MIN_COLLATERAL_RATIO_PCT %d under-collateralizes loans", c.MinRatioPct)
	}
	if c.ApprovalPct == 0 || c.ApprovalPct > 100 {
		return fmt.Errorf("APPROVAL_THRESHOLD_PCT %d out of range", c.ApprovalPct)
	}
	if c.VaultAccount == "" || c.PoolAccount == "" || c.VaultAccount == c.PoolAccount {
		return errors.New("vault and pool accounts must be distinct and non-empty")
	}
	return nil
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// multiStatements=true is handy for migrations; parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?multiStatements=true&parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}
