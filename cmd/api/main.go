package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"p2plend-backend/internal/adapter/gateway/heights"
	"p2plend-backend/internal/adapter/gateway/oracle"
	"p2plend-backend/internal/adapter/gateway/pool"
	"p2plend-backend/internal/adapter/gateway/registry"
	"p2plend-backend/internal/adapter/gateway/repay"
	httpadp "p2plend-backend/internal/adapter/http"
	"p2plend-backend/internal/adapter/middleware"
	"p2plend-backend/internal/adapter/repository/mysql"
	"p2plend-backend/internal/config"
	collateralDomain "p2plend-backend/internal/domain/collateral"
	ledgerDomain "p2plend-backend/internal/domain/ledger"
	loanDomain "p2plend-backend/internal/domain/loan"
	repaymentDomain "p2plend-backend/internal/domain/repayment"
	voteDomain "p2plend-backend/internal/domain/vote"
	"p2plend-backend/internal/infrastructure/cache"
	"p2plend-backend/internal/infrastructure/db"
	collateralUC "p2plend-backend/internal/usecase/collateral"
	loanUC "p2plend-backend/internal/usecase/loan"
)

// parseRates reads ORACLE_RATES, e.g. "A=1,USD=100".
func parseRates(raw string) map[string]uint64 {
	rates := map[string]uint64{}
	for _, pair := range strings.Split(raw, ",") {
		kv := strings.SplitN(strings.TrimSpace(pair), "=", 2)
		if len(kv) != 2 {
			continue
		}
		if n, err := strconv.ParseUint(kv[1], 10, 64); err == nil {
			rates[kv[0]] = n
		}
	}
	return rates
}

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		log.Fatal(err)
	}
	if err := gdb.AutoMigrate(
		&loanDomain.Loan{},
		&voteDomain.Vote{},
		&collateralDomain.Deposit{},
		&collateralDomain.Summary{},
		&collateralDomain.StatusRecord{},
		&collateralDomain.OracleBinding{},
		&ledgerDomain.Balance{},
		&repaymentDomain.Repayment{},
		&registry.Identity{},
		&registry.Asset{},
	); err != nil {
		log.Fatal(err)
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatal(err)
	}

	clock := heights.NewClock(time.Unix(cfg.GenesisUnix, 0), cfg.BlockInterval)
	rates := parseRates(os.Getenv("ORACLE_RATES"))
	if _, ok := rates[cfg.CollateralCurrency]; !ok {
		rates[cfg.CollateralCurrency] = 1
	}
	priceOracle := oracle.NewCached(
		oracle.NewStatic(rates),
		rdb,
		time.Duration(cfg.OracleTTLSecs)*time.Second,
	)

	guow := mysql.NewGormUoW(gdb)
	vault := collateralUC.NewEngine(guow, priceOracle, clock, collateralUC.Params{
		Authority:    cfg.AuthorityID,
		MinRatioPct:  cfg.MinRatioPct,
		MaxPerLoan:   cfg.MaxCollateralPer,
		PenaltyBps:   cfg.LiquidationBps,
		VaultAccount: cfg.VaultAccount,
		PoolAccount:  cfg.PoolAccount,
	})
	fundsPool := pool.New(cfg.PoolAccount, cfg.InterestRateBps, cfg.RatePeriodBlocks)
	reg := registry.New(gdb)
	repayHandler := repay.New(cfg.PoolAccount, clock)
	loans := loanUC.NewEngine(guow, vault, fundsPool, reg, repayHandler, clock, loanUC.Params{
		Authority:          cfg.AuthorityID,
		MaxLoanAmount:      cfg.MaxLoanAmount,
		MaxLoanDuration:    cfg.MaxLoanDuration,
		MinRatioPct:        cfg.MinRatioPct,
		VotingWindow:       cfg.VotingWindow,
		ApprovalPct:        cfg.ApprovalPct,
		CollateralCurrency: cfg.CollateralCurrency,
	})

	// bootstrap: the collateral denomination must have an oracle bound
	// before the first request can deposit.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := vault.BindOracle(ctx, cfg.AuthorityID, cfg.CollateralCurrency, "static"); err != nil {
		log.Fatal(err)
	}
	cancel()

	h := httpadp.NewHandler()
	lh := httpadp.NewLoanHandler(loans)
	ch := httpadp.NewCollateralHandler(vault)
	ah := httpadp.NewAdminHandler(vault, loans)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Logger(), echomw.Recover())
	e.Use(middleware.Idempotency(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second))

	// routes
	e.GET("/health", h.Health)

	e.POST("/loans", lh.RequestLoan)
	e.GET("/loans/:loan_id", lh.GetLoan)
	e.POST("/loans/:loan_id/votes", lh.VoteOnLoan)
	e.POST("/loans/:loan_id/finalize", lh.FinalizeLoan)
	e.POST("/loans/:loan_id/repay", lh.RepayLoan)
	e.POST("/loans/:loan_id/default", lh.MarkLoanDefault)
	e.GET("/borrowers/:borrower_id/active-loan", lh.HasActiveLoan)

	e.POST("/loans/:loan_id/collateral", ch.DepositCollateral)
	e.POST("/loans/:loan_id/collateral/:collateral_id/withdraw", ch.WithdrawCollateral)
	e.POST("/loans/:loan_id/collateral/:collateral_id/lock", ch.LockCollateral)
	e.POST("/loans/:loan_id/collateral/:collateral_id/unlock", ch.UnlockCollateral)
	e.GET("/loans/:loan_id/collateral/:collateral_id", ch.GetCollateral)
	e.GET("/loans/:loan_id/collateral-summary", ch.GetSummary)
	e.GET("/loans/:loan_id/collateral-status", ch.GetLoanStatus)

	e.PUT("/admin/collateral/params", ah.SetCollateralParams)
	e.PUT("/admin/loan/params", ah.SetLoanParams)
	e.PUT("/admin/oracles/:currency", ah.BindOracle)
	e.DELETE("/admin/oracles/:currency", ah.UnbindOracle)

	addr := ":" + cfg.AppPort
	log.Printf("listening on %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
