package repayment

import "time"

// Repayment is an audit row written by the repayment handler when a loan
// is settled.
type Repayment struct {
	ID        uint64    `gorm:"primaryKey;column:id" json:"id"`
	LoanID    uint64    `gorm:"column:loan_id" json:"loan_id"`
	PayerID   string    `gorm:"size:32;column:payer_id" json:"payer_id"`
	Amount    uint64    `gorm:"column:amount" json:"amount"`
	Height    uint64    `gorm:"column:height" json:"height"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Repayment) TableName() string { return "repayments" }
