package loan

import (
	"time"

	domain "p2plend-backend/internal/domain/loan"
)

type LoanDTO struct {
	LoanID               uint64    `json:"loan_id"`
	BorrowerID           string    `json:"borrower_id"`
	Principal            uint64    `json:"principal"`
	Interest             uint64    `json:"interest"`
	CollateralAmount     uint64    `json:"collateral_amount"`
	AssetRef             string    `json:"asset_ref"`
	Status               string    `json:"status"`
	StartHeight          uint64    `json:"start_height"`
	DurationBlocks       uint64    `json:"duration_blocks"`
	VotesFor             uint64    `json:"votes_for"`
	VotesAgainst         uint64    `json:"votes_against"`
	VotingDeadlineHeight uint64    `json:"voting_deadline_height"`
	CreatedAt            time.Time `json:"created_at"`
}

func toDTO(l *domain.Loan) *LoanDTO {
	return &LoanDTO{
		LoanID:               l.ID,
		BorrowerID:           l.BorrowerID,
		Principal:            l.Principal,
		Interest:             l.Interest,
		CollateralAmount:     l.CollateralAmount,
		AssetRef:             l.AssetRef,
		Status:               string(l.Status),
		StartHeight:          l.StartHeight,
		DurationBlocks:       l.DurationBlocks,
		VotesFor:             l.VotesFor,
		VotesAgainst:         l.VotesAgainst,
		VotingDeadlineHeight: l.VotingDeadlineHeight,
		CreatedAt:            l.CreatedAt,
	}
}
