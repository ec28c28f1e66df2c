package collateral

import (
	"errors"
	"time"

	"p2plend-backend/internal/domain/loan"
)

var (
	ErrNotFound            = errors.New("collateral record not found")
	ErrUnauthorized        = errors.New("caller may not operate on this collateral")
	ErrLocked              = errors.New("collateral deposit is locked")
	ErrLoanNotActive       = errors.New("loan is not active")
	ErrInvalidAmount       = errors.New("collateral amount must be positive")
	ErrUnsupportedCurrency = errors.New("no oracle bound for currency")
	ErrRatioTooLow         = errors.New("collateral ratio below minimum")
	ErrMaxCollateral       = errors.New("collateral deposit cap reached for loan")
	ErrWithdrawalExceeds   = errors.New("withdrawal exceeds deposited amount")
	ErrNotDefaulted        = errors.New("loan is not defaulted")
	ErrNothingToLiquidate  = errors.New("no collateral to liquidate")
)

// Deposit is one collateral position against a loan. The collateral id is
// monotonic per loan and never reused after a full withdrawal.
type Deposit struct {
	LoanID            uint64    `gorm:"primaryKey;column:loan_id;autoIncrement:false" json:"loan_id"`
	CollateralID      uint64    `gorm:"primaryKey;column:collateral_id;autoIncrement:false" json:"collateral_id"`
	Amount            uint64    `gorm:"column:amount" json:"amount"`
	CurrencyCode      string    `gorm:"size:16;column:currency_code" json:"currency_code"`
	DepositedAtHeight uint64    `gorm:"column:deposited_at_height" json:"deposited_at_height"`
	DepositorID       string    `gorm:"size:32;column:depositor_id" json:"depositor_id"`
	Locked            bool      `gorm:"column:locked" json:"locked"`
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime" json:"-"`
}

func (Deposit) TableName() string { return "collateral_deposits" }

// Summary is the derived aggregate over live deposits for a loan. It is
// written in the same transaction as the rows it summarizes and must
// always equal their live sum. NextCollateralID is the per-loan id
// high-water mark, so ids stay monotonic across deletions.
type Summary struct {
	LoanID           uint64 `gorm:"primaryKey;column:loan_id;autoIncrement:false" json:"loan_id"`
	TotalAmount      uint64 `gorm:"column:total_amount" json:"total_amount"`
	TotalValue       uint64 `gorm:"column:total_value" json:"total_value"`
	DepositCount     uint64 `gorm:"column:deposit_count" json:"deposit_count"`
	NextCollateralID uint64 `gorm:"column:next_collateral_id" json:"-"`
}

func (Summary) TableName() string { return "collateral_summaries" }

// StatusRecord mirrors the loan status for ratio math: ReferenceValue is
// the ratio denominator set by the lifecycle engine.
type StatusRecord struct {
	LoanID            uint64      `gorm:"primaryKey;column:loan_id;autoIncrement:false" json:"loan_id"`
	Status            loan.Status `gorm:"size:16;column:status" json:"status"`
	ReferenceValue    uint64      `gorm:"column:reference_value" json:"reference_value"`
	LastUpdatedHeight uint64      `gorm:"column:last_updated_height" json:"last_updated_height"`
}

func (StatusRecord) TableName() string { return "loan_status_records" }

// OracleBinding maps a currency code to the oracle answering for it.
type OracleBinding struct {
	CurrencyCode string `gorm:"primaryKey;size:16;column:currency_code" json:"currency_code"`
	OracleID     string `gorm:"size:64;column:oracle_id" json:"oracle_id"`
}

func (OracleBinding) TableName() string { return "currency_oracle_bindings" }

// Ratio is the collateralization ratio in percent, truncating integer
// division throughout for numeric compatibility.
func Ratio(totalValue, referenceValue uint64) uint64 {
	return totalValue * 100 / referenceValue
}
