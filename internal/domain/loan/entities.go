package loan

import (
	"errors"
	"time"
)

var (
	ErrNotFound            = errors.New("loan not found")
	ErrUnauthorized        = errors.New("caller is not the loan borrower")
	ErrNotVerified         = errors.New("identity is not verified")
	ErrActiveLoanExists    = errors.New("borrower already has an active loan")
	ErrInvalidAmount       = errors.New("loan amount out of bounds")
	ErrInvalidDuration     = errors.New("loan duration out of bounds")
	ErrUnknownAsset        = errors.New("asset reference has no owner")
	ErrTooLittleCollateral = errors.New("collateral below minimum ratio")
	ErrInsufficientFunds   = errors.New("pool has insufficient available funds")
	ErrInvalidTransition   = errors.New("invalid loan state transition")
	ErrVotingOpen          = errors.New("voting window still open")
	ErrVotingClosed        = errors.New("voting window has closed")
	ErrAlreadyVoted        = errors.New("voter already voted on this loan")
	ErrNotDue              = errors.New("loan term has not elapsed")
	ErrPartialRepayment    = errors.New("repayment below total amount due")
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusRejected  Status = "rejected"
	StatusRepaid    Status = "repaid"
	StatusDefaulted Status = "defaulted"
)

// transitions is the closed set of forward moves; everything else is terminal.
var transitions = map[Status][]Status{
	StatusPending: {StatusActive, StatusRejected},
	StatusActive:  {StatusRepaid, StatusDefaulted},
}

// CanTransitionTo reports whether s may move to next.
func (s Status) CanTransitionTo(next Status) bool {
	for _, t := range transitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition is possible from s.
func (s Status) Terminal() bool { return len(transitions[s]) == 0 }

type Loan struct {
	ID                   uint64    `gorm:"primaryKey;column:id" json:"loan_id"`
	BorrowerID           string    `gorm:"size:32;column:borrower_id" json:"borrower_id"`
	Principal            uint64    `gorm:"column:principal" json:"principal"`
	Interest             uint64    `gorm:"column:interest" json:"interest"`
	CollateralAmount     uint64    `gorm:"column:collateral_amount" json:"collateral_amount"`
	AssetRef             string    `gorm:"size:64;column:asset_ref" json:"asset_ref"`
	Status               Status    `gorm:"size:16;column:status;default:'pending'" json:"status"`
	StartHeight          uint64    `gorm:"column:start_height" json:"start_height"`
	DurationBlocks       uint64    `gorm:"column:duration_blocks" json:"duration_blocks"`
	VotesFor             uint64    `gorm:"column:votes_for" json:"votes_for"`
	VotesAgainst         uint64    `gorm:"column:votes_against" json:"votes_against"`
	VotingDeadlineHeight uint64    `gorm:"column:voting_deadline_height" json:"voting_deadline_height"`
	CreatedAt            time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time `gorm:"autoUpdateTime" json:"-"`
}

func (Loan) TableName() string { return "loans" }

// TotalDue is the full repayment obligation; partial repayment is not allowed.
func (l *Loan) TotalDue() uint64 { return l.Principal + l.Interest }
