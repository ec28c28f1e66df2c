package vote

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("vote not found")

// Vote is immutable once written; the composite key enforces one vote
// per (loan, voter) pair.
type Vote struct {
	LoanID    uint64    `gorm:"primaryKey;column:loan_id;autoIncrement:false" json:"loan_id"`
	VoterID   string    `gorm:"primaryKey;size:32;column:voter_id" json:"voter_id"`
	Approve   bool      `gorm:"column:approve" json:"approve"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Vote) TableName() string { return "loan_votes" }
