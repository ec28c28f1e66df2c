package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"p2plend-backend/internal/usecase/collateral"
)

type CollateralHandler struct{ uc *collateral.Engine }

func NewCollateralHandler(uc *collateral.Engine) *CollateralHandler {
	return &CollateralHandler{uc: uc}
}

type depositReq struct {
	Amount       uint64 `json:"amount"   validate:"required,gte=1"`
	CurrencyCode string `json:"currency" validate:"required,ccy"`
}

func (h *CollateralHandler) DepositCollateral(c echo.Context) error {
	caller, ok := callerID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing or invalid Ax-Caller-Id"})
	}
	loanID, err := pathUint(c, "loan_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan_id"})
	}
	var req depositReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	collateralID, err := h.uc.DepositCollateral(c.Request().Context(), caller, loanID, req.Amount, req.CurrencyCode)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]uint64{"collateral_id": collateralID})
}

type withdrawReq struct {
	Amount uint64 `json:"amount" validate:"required,gte=1"`
}

func (h *CollateralHandler) WithdrawCollateral(c echo.Context) error {
	caller, ok := callerID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing or invalid Ax-Caller-Id"})
	}
	loanID, err := pathUint(c, "loan_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan_id"})
	}
	collateralID, err := pathUint(c, "collateral_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid collateral_id"})
	}
	var req withdrawReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	if err := h.uc.WithdrawCollateral(c.Request().Context(), caller, loanID, collateralID, req.Amount); err != nil {
		return domainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CollateralHandler) lockUnlock(c echo.Context, lock bool) error {
	caller, ok := callerID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing or invalid Ax-Caller-Id"})
	}
	loanID, err := pathUint(c, "loan_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan_id"})
	}
	collateralID, err := pathUint(c, "collateral_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid collateral_id"})
	}
	if lock {
		err = h.uc.LockCollateral(c.Request().Context(), caller, loanID, collateralID)
	} else {
		err = h.uc.UnlockCollateral(c.Request().Context(), caller, loanID, collateralID)
	}
	if err != nil {
		return domainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CollateralHandler) LockCollateral(c echo.Context) error   { return h.lockUnlock(c, true) }
func (h *CollateralHandler) UnlockCollateral(c echo.Context) error { return h.lockUnlock(c, false) }

func (h *CollateralHandler) GetCollateral(c echo.Context) error {
	loanID, err := pathUint(c, "loan_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan_id"})
	}
	collateralID, err := pathUint(c, "collateral_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid collateral_id"})
	}
	d, err := h.uc.GetCollateral(c.Request().Context(), loanID, collateralID)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *CollateralHandler) GetSummary(c echo.Context) error {
	loanID, err := pathUint(c, "loan_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan_id"})
	}
	s, err := h.uc.GetLoanCollateralSum(c.Request().Context(), loanID)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, s)
}

func (h *CollateralHandler) GetLoanStatus(c echo.Context) error {
	loanID, err := pathUint(c, "loan_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan_id"})
	}
	s, err := h.uc.GetLoanStatus(c.Request().Context(), loanID)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, s)
}
