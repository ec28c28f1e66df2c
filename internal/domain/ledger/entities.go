package ledger

import (
	"errors"
	"time"
)

var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidTransfer     = errors.New("invalid transfer")
)

// Balance is one account row in the value ledger. Vault and pool custody
// are ordinary accounts here, collectively funded by their depositors.
type Balance struct {
	AccountID string    `gorm:"primaryKey;size:64;column:account_id" json:"account_id"`
	Amount    uint64    `gorm:"column:amount" json:"amount"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`
}

func (Balance) TableName() string { return "balances" }
