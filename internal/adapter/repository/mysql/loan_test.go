package mysql

import (
	"context"
	"errors"
	"testing"

	loanDomain "p2plend-backend/internal/domain/loan"
	repaymentDomain "p2plend-backend/internal/domain/repayment"
	voteDomain "p2plend-backend/internal/domain/vote"
	"p2plend-backend/internal/testutil/dbtest"
	"p2plend-backend/pkg/id"
)

func makeLoan(borrowerID string) *loanDomain.Loan {
	return &loanDomain.Loan{
		BorrowerID:           borrowerID,
		Principal:            1_000,
		Interest:             100,
		CollateralAmount:     1_500,
		AssetRef:             "asset-1",
		Status:               loanDomain.StatusPending,
		DurationBlocks:       50,
		VotingDeadlineHeight: 110,
	}
}

func TestLoanCreateAndGetByID(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()

	borrower := id.NewID32()
	l := makeLoan(borrower)
	if err := repo.Create(ctx, l); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if l.ID == 0 {
		t.Fatalf("Create did not set auto-increment ID")
	}

	got, err := repo.GetByID(ctx, l.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.BorrowerID != borrower || got.Principal != 1_000 || got.Status != loanDomain.StatusPending {
		t.Errorf("unexpected loan: %+v", got)
	}
}

func TestLoanGetByID_NotFound(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewLoanRepository(db)

	if _, err := repo.GetByID(context.Background(), 404); !errors.Is(err, loanDomain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if _, err := repo.GetByIDForUpdate(context.Background(), 404); !errors.Is(err, loanDomain.ErrNotFound) {
		t.Fatalf("ForUpdate: want ErrNotFound, got %v", err)
	}
}

func TestLoanSaveUpdates(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()

	l := makeLoan(id.NewID32())
	if err := repo.Create(ctx, l); err != nil {
		t.Fatalf("Create: %v", err)
	}

	l.Status = loanDomain.StatusActive
	l.StartHeight = 120
	l.VotesFor = 3
	if err := repo.Save(ctx, l); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := repo.GetByID(ctx, l.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Status != loanDomain.StatusActive || got.StartHeight != 120 || got.VotesFor != 3 {
		t.Errorf("update not persisted: %+v", got)
	}
}

func TestHasActiveLoanByBorrower(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()

	borrower := id.NewID32()

	active, err := repo.HasActiveLoanByBorrower(ctx, borrower)
	if err != nil || active {
		t.Fatalf("empty table: got (%v, %v)", active, err)
	}

	// pending loans do not count
	l := makeLoan(borrower)
	if err := repo.Create(ctx, l); err != nil {
		t.Fatalf("Create: %v", err)
	}
	active, err = repo.HasActiveLoanByBorrower(ctx, borrower)
	if err != nil || active {
		t.Fatalf("pending loan counted as active: (%v, %v)", active, err)
	}

	l.Status = loanDomain.StatusActive
	if err := repo.Save(ctx, l); err != nil {
		t.Fatalf("Save: %v", err)
	}
	active, err = repo.HasActiveLoanByBorrower(ctx, borrower)
	if err != nil || !active {
		t.Fatalf("active loan not found: (%v, %v)", active, err)
	}

	// other borrowers are unaffected
	active, err = repo.HasActiveLoanByBorrower(ctx, id.NewID32())
	if err != nil || active {
		t.Fatalf("wrong borrower matched: (%v, %v)", active, err)
	}
}

func TestVoteCreateAndGet(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewVoteRepository(db)
	ctx := context.Background()

	voter := id.NewID32()
	if _, err := repo.Get(ctx, 1, voter); !errors.Is(err, voteDomain.ErrNotFound) {
		t.Fatalf("Get on empty table: want ErrNotFound, got %v", err)
	}

	if err := repo.Create(ctx, &voteDomain.Vote{LoanID: 1, VoterID: voter, Approve: true}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, err := repo.Get(ctx, 1, voter)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !got.Approve {
		t.Errorf("unexpected vote: %+v", got)
	}

	// composite key rejects a second vote from the same voter
	if err := repo.Create(ctx, &voteDomain.Vote{LoanID: 1, VoterID: voter, Approve: false}); err == nil {
		t.Fatalf("duplicate vote should violate the primary key")
	}
}

func TestRepaymentCreateAndList(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewRepaymentRepository(db)
	ctx := context.Background()

	payer := id.NewID32()
	for _, amt := range []uint64{500, 600} {
		rec := &repaymentDomain.Repayment{LoanID: 3, PayerID: payer, Amount: amt, Height: 42}
		if err := repo.Create(ctx, rec); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	got, err := repo.ListByLoanID(ctx, 3)
	if err != nil {
		t.Fatalf("ListByLoanID: %v", err)
	}
	if len(got) != 2 || got[0].Amount != 500 || got[1].Amount != 600 {
		t.Errorf("unexpected repayments: %+v", got)
	}

	other, err := repo.ListByLoanID(ctx, 4)
	if err != nil || len(other) != 0 {
		t.Errorf("wrong loan matched: %+v (%v)", other, err)
	}
}
