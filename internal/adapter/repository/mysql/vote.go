package mysql

import (
	"context"
	"errors"

	voteDomain "p2plend-backend/internal/domain/vote"

	"gorm.io/gorm"
)

type VoteRepository struct{ db *gorm.DB }

func NewVoteRepository(db *gorm.DB) *VoteRepository { return &VoteRepository{db: db} }

func (r *VoteRepository) Create(ctx context.Context, v *voteDomain.Vote) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *VoteRepository) Get(ctx context.Context, loanID uint64, voterID string) (*voteDomain.Vote, error) {
	var out voteDomain.Vote
	res := r.db.WithContext(ctx).
		Where("loan_id = ? AND voter_id = ?", loanID, voterID).
		First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, voteDomain.ErrNotFound
	}
	return &out, res.Error
}
