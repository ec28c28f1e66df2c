package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/labstack/echo/v4"

	"p2plend-backend/internal/adapter/gateway/pool"
	"p2plend-backend/internal/adapter/gateway/repay"
	"p2plend-backend/internal/adapter/repository/mysql"
	collateralDomain "p2plend-backend/internal/domain/collateral"
	collateralUC "p2plend-backend/internal/usecase/collateral"
	loanUC "p2plend-backend/internal/usecase/loan"
	"p2plend-backend/internal/testutil/dbtest"
	"p2plend-backend/internal/testutil/gatewaymock"
)

const (
	tAuthority = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	tBorrower  = "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	tVoter     = "11111111111111111111111111111111"
)

type serverFixture struct {
	e       *echo.Echo
	loans   *LoanHandler
	coll    *CollateralHandler
	admin   *AdminHandler
	heights *gatewaymock.Heights
	ledger  *mysql.LedgerRepository
}

// newServer wires handlers over real engines and an in-memory DB.
func newServer(t *testing.T) *serverFixture {
	t.Helper()
	db := dbtest.Open(t)
	u := mysql.NewGormUoW(db)
	heights := &gatewaymock.Heights{H: 100}

	vault := collateralUC.NewEngine(u, &gatewaymock.Oracle{Rates: map[string]uint64{"A": 1}}, heights, collateralUC.Params{
		Authority:    tAuthority,
		MinRatioPct:  150,
		MaxPerLoan:   100,
		PenaltyBps:   500,
		VaultAccount: "vault",
		PoolAccount:  "pool",
	})
	registry := &gatewaymock.Registry{
		Verified: map[string]bool{tBorrower: true, tVoter: true},
		Assets:   map[string]string{"house-1": tBorrower},
	}
	loans := loanUC.NewEngine(u, vault, pool.New("pool", 1_000, 0), registry, repay.New("pool", heights), heights, loanUC.Params{
		Authority:          tAuthority,
		MaxLoanAmount:      10_000,
		MaxLoanDuration:    1_000,
		MinRatioPct:        150,
		VotingWindow:       10,
		ApprovalPct:        75,
		CollateralCurrency: "A",
	})

	e := echo.New()
	e.Validator = NewValidator()

	f := &serverFixture{
		e:       e,
		loans:   NewLoanHandler(loans),
		coll:    NewCollateralHandler(vault),
		admin:   NewAdminHandler(vault, loans),
		heights: heights,
		ledger:  mysql.NewLedgerRepository(db),
	}
	ctx := context.Background()
	collRepo := mysql.NewCollateralRepository(db)
	if err := collRepo.SaveBinding(ctx, &collateralDomain.OracleBinding{CurrencyCode: "A", OracleID: "static"}); err != nil {
		t.Fatalf("seed binding: %v", err)
	}
	if err := f.ledger.Credit(ctx, "pool", 100_000); err != nil {
		t.Fatalf("seed pool: %v", err)
	}
	if err := f.ledger.Credit(ctx, tBorrower, 5_000); err != nil {
		t.Fatalf("seed borrower: %v", err)
	}
	return f
}

type call struct {
	method string
	body   any
	caller string
	params map[string]string
}

func (f *serverFixture) do(t *testing.T, h echo.HandlerFunc, req call) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if req.body != nil {
		b, err := json.Marshal(req.body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		body = bytes.NewReader(b)
	}
	r := httptest.NewRequest(req.method, "/", body)
	r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if req.caller != "" {
		r.Header.Set("Ax-Caller-Id", req.caller)
	}
	rec := httptest.NewRecorder()
	c := f.e.NewContext(r, rec)
	names := make([]string, 0, len(req.params))
	values := make([]string, 0, len(req.params))
	for k, v := range req.params {
		names = append(names, k)
		values = append(values, v)
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)
	if err := h(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec
}

func (f *serverFixture) requestLoan(t *testing.T) uint64 {
	t.Helper()
	rec := f.do(t, f.loans.RequestLoan, call{
		method: http.MethodPost,
		caller: tBorrower,
		body: map[string]any{
			"amount": 1_000, "duration_blocks": 50,
			"asset_ref": "house-1", "collateral_amount": 1_500,
		},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("RequestLoan = %d: %s", rec.Code, rec.Body.String())
	}
	var dto struct {
		LoanID uint64 `json:"loan_id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &dto); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return dto.LoanID
}

func TestRequestLoan_Success(t *testing.T) {
	f := newServer(t)
	loanID := f.requestLoan(t)
	if loanID == 0 {
		t.Fatalf("loan id missing in response")
	}
}

func TestRequestLoan_MissingCaller(t *testing.T) {
	f := newServer(t)
	rec := f.do(t, f.loans.RequestLoan, call{
		method: http.MethodPost,
		body:   map[string]any{"amount": 1_000, "duration_blocks": 50, "asset_ref": "house-1", "collateral_amount": 1_500},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("code = %d, want 400", rec.Code)
	}
}

func TestRequestLoan_ValidationError(t *testing.T) {
	f := newServer(t)
	rec := f.do(t, f.loans.RequestLoan, call{
		method: http.MethodPost,
		caller: tBorrower,
		body:   map[string]any{"amount": 0, "duration_blocks": 0, "asset_ref": "", "collateral_amount": 0},
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("code = %d, want 422: %s", rec.Code, rec.Body.String())
	}
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Details) == 0 {
		t.Fatalf("expected field errors, got %+v", resp)
	}
}

func TestRequestLoan_UnverifiedIs403(t *testing.T) {
	f := newServer(t)
	rec := f.do(t, f.loans.RequestLoan, call{
		method: http.MethodPost,
		caller: "cccccccccccccccccccccccccccccccc",
		body:   map[string]any{"amount": 1_000, "duration_blocks": 50, "asset_ref": "house-1", "collateral_amount": 1_500},
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("code = %d, want 403: %s", rec.Code, rec.Body.String())
	}
}

func TestVoteAndFinalizeFlow(t *testing.T) {
	f := newServer(t)
	loanID := f.requestLoan(t)
	idStr := map[string]string{"loan_id": strconv.FormatUint(loanID, 10)}

	rec := f.do(t, f.loans.VoteOnLoan, call{
		method: http.MethodPost, caller: tVoter, params: idStr,
		body: map[string]any{"approve": true},
	})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("Vote = %d: %s", rec.Code, rec.Body.String())
	}

	// voting twice conflicts
	rec = f.do(t, f.loans.VoteOnLoan, call{
		method: http.MethodPost, caller: tVoter, params: idStr,
		body: map[string]any{"approve": false},
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("second vote = %d, want 409", rec.Code)
	}

	// finalizing inside the window conflicts
	rec = f.do(t, f.loans.FinalizeLoan, call{method: http.MethodPost, params: idStr})
	if rec.Code != http.StatusConflict {
		t.Fatalf("early finalize = %d, want 409", rec.Code)
	}

	f.heights.H = 111
	rec = f.do(t, f.loans.FinalizeLoan, call{method: http.MethodPost, params: idStr})
	if rec.Code != http.StatusOK {
		t.Fatalf("finalize = %d: %s", rec.Code, rec.Body.String())
	}
	var dto struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &dto); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if dto.Status != "active" {
		t.Fatalf("status = %q, want active", dto.Status)
	}
}

func TestGetLoan(t *testing.T) {
	f := newServer(t)
	f.requestLoan(t)

	rec := f.do(t, f.loans.GetLoan, call{method: http.MethodGet, params: map[string]string{"loan_id": "1"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("GetLoan = %d: %s", rec.Code, rec.Body.String())
	}

	rec = f.do(t, f.loans.GetLoan, call{method: http.MethodGet, params: map[string]string{"loan_id": "404"}})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing loan = %d, want 404", rec.Code)
	}

	rec = f.do(t, f.loans.GetLoan, call{method: http.MethodGet, params: map[string]string{"loan_id": "nope"}})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad path = %d, want 400", rec.Code)
	}
}

func TestHasActiveLoan(t *testing.T) {
	f := newServer(t)

	rec := f.do(t, f.loans.HasActiveLoan, call{method: http.MethodGet, params: map[string]string{"borrower_id": tBorrower}})
	if rec.Code != http.StatusOK {
		t.Fatalf("HasActiveLoan = %d", rec.Code)
	}
	var resp map[string]bool
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["active"] {
		t.Fatalf("no loans yet, want active=false")
	}

	rec = f.do(t, f.loans.HasActiveLoan, call{method: http.MethodGet, params: map[string]string{"borrower_id": "bogus"}})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad borrower id = %d, want 400", rec.Code)
	}
}
