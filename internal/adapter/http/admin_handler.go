package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"p2plend-backend/internal/usecase/collateral"
	"p2plend-backend/internal/usecase/loan"
)

// AdminHandler exposes the authority-gated parameter setters. The engine
// rejects callers other than the configured authority; the handler only
// shapes requests.
type AdminHandler struct {
	collateral *collateral.Engine
	loans      *loan.Engine
}

func NewAdminHandler(col *collateral.Engine, loans *loan.Engine) *AdminHandler {
	return &AdminHandler{collateral: col, loans: loans}
}

type collateralParamsReq struct {
	Authority   *string `json:"authority"   validate:"omitempty,hex32"`
	MinRatioPct *uint64 `json:"min_ratio_pct"`
	MaxPerLoan  *uint64 `json:"max_per_loan"`
	PenaltyBps  *uint64 `json:"penalty_bps"`
}

func (h *AdminHandler) SetCollateralParams(c echo.Context) error {
	caller, ok := callerID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing or invalid Ax-Caller-Id"})
	}
	var req collateralParamsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	if req.MinRatioPct != nil {
		if err := h.collateral.SetMinRatio(caller, *req.MinRatioPct); err != nil {
			return domainError(c, err)
		}
	}
	if req.MaxPerLoan != nil {
		if err := h.collateral.SetMaxPerLoan(caller, *req.MaxPerLoan); err != nil {
			return domainError(c, err)
		}
	}
	if req.PenaltyBps != nil {
		if err := h.collateral.SetPenaltyBps(caller, *req.PenaltyBps); err != nil {
			return domainError(c, err)
		}
	}
	// authority handover last, so the other setters above still apply
	if req.Authority != nil {
		if err := h.collateral.SetAuthority(caller, *req.Authority); err != nil {
			return domainError(c, err)
		}
	}
	return c.NoContent(http.StatusNoContent)
}

type loanParamsReq struct {
	Authority       *string `json:"authority" validate:"omitempty,hex32"`
	MaxLoanAmount   *uint64 `json:"max_loan_amount"`
	MaxLoanDuration *uint64 `json:"max_loan_duration"`
	MinRatioPct     *uint64 `json:"min_ratio_pct"`
}

func (h *AdminHandler) SetLoanParams(c echo.Context) error {
	caller, ok := callerID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing or invalid Ax-Caller-Id"})
	}
	var req loanParamsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	if req.MaxLoanAmount != nil {
		if err := h.loans.SetMaxLoanAmount(caller, *req.MaxLoanAmount); err != nil {
			return domainError(c, err)
		}
	}
	if req.MaxLoanDuration != nil {
		if err := h.loans.SetMaxLoanDuration(caller, *req.MaxLoanDuration); err != nil {
			return domainError(c, err)
		}
	}
	if req.MinRatioPct != nil {
		if err := h.loans.SetMinRatio(caller, *req.MinRatioPct); err != nil {
			return domainError(c, err)
		}
	}
	if req.Authority != nil {
		if err := h.loans.SetAuthority(caller, *req.Authority); err != nil {
			return domainError(c, err)
		}
	}
	return c.NoContent(http.StatusNoContent)
}

type bindOracleReq struct {
	OracleID string `json:"oracle_id" validate:"required"`
}

func (h *AdminHandler) BindOracle(c echo.Context) error {
	caller, ok := callerID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing or invalid Ax-Caller-Id"})
	}
	currency := c.Param("currency")
	if !reCcy.MatchString(currency) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid currency code"})
	}
	var req bindOracleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	if err := h.collateral.BindOracle(c.Request().Context(), caller, currency, req.OracleID); err != nil {
		return domainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminHandler) UnbindOracle(c echo.Context) error {
	caller, ok := callerID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing or invalid Ax-Caller-Id"})
	}
	currency := c.Param("currency")
	if !reCcy.MatchString(currency) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid currency code"})
	}
	if err := h.collateral.UnbindOracle(c.Request().Context(), caller, currency); err != nil {
		return domainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
