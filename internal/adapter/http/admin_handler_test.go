package http

import (
	"net/http"
	"testing"
)

func TestSetCollateralParams(t *testing.T) {
	f := newServer(t)

	rec := f.do(t, f.admin.SetCollateralParams, call{
		method: http.MethodPut,
		caller: tAuthority,
		body:   map[string]any{"min_ratio_pct": 200, "penalty_bps": 1_000},
	})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("authority update = %d: %s", rec.Code, rec.Body.String())
	}

	rec = f.do(t, f.admin.SetCollateralParams, call{
		method: http.MethodPut,
		caller: tBorrower,
		body:   map[string]any{"min_ratio_pct": 100},
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("non-authority update = %d, want 403", rec.Code)
	}

	// authority must be a well-formed identity
	rec = f.do(t, f.admin.SetCollateralParams, call{
		method: http.MethodPut,
		caller: tAuthority,
		body:   map[string]any{"authority": "not-an-id"},
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("malformed authority = %d, want 422", rec.Code)
	}
}

func TestSetLoanParams(t *testing.T) {
	f := newServer(t)

	rec := f.do(t, f.admin.SetLoanParams, call{
		method: http.MethodPut,
		caller: tAuthority,
		body:   map[string]any{"max_loan_amount": 500, "max_loan_duration": 10},
	})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("authority update = %d: %s", rec.Code, rec.Body.String())
	}

	// the new amount cap is live
	rec = f.do(t, f.loans.RequestLoan, call{
		method: http.MethodPost,
		caller: tBorrower,
		body:   map[string]any{"amount": 1_000, "duration_blocks": 5, "asset_ref": "house-1", "collateral_amount": 1_500},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("request over new cap = %d, want 400: %s", rec.Code, rec.Body.String())
	}
}

func TestBindUnbindOracle_Handler(t *testing.T) {
	f := newServer(t)

	rec := f.do(t, f.admin.BindOracle, call{
		method: http.MethodPut,
		caller: tAuthority,
		params: map[string]string{"currency": "BTC"},
		body:   map[string]any{"oracle_id": "static"},
	})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("BindOracle = %d: %s", rec.Code, rec.Body.String())
	}

	rec = f.do(t, f.admin.BindOracle, call{
		method: http.MethodPut,
		caller: tAuthority,
		params: map[string]string{"currency": "btc"},
		body:   map[string]any{"oracle_id": "static"},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("lowercase currency = %d, want 400", rec.Code)
	}

	rec = f.do(t, f.admin.UnbindOracle, call{
		method: http.MethodDelete,
		caller: tAuthority,
		params: map[string]string{"currency": "BTC"},
	})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("UnbindOracle = %d: %s", rec.Code, rec.Body.String())
	}
}
