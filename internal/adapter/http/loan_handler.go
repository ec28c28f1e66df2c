package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"p2plend-backend/internal/usecase/loan"
)

type LoanHandler struct{ uc *loan.Engine }

func NewLoanHandler(uc *loan.Engine) *LoanHandler { return &LoanHandler{uc: uc} }

type requestLoanReq struct {
	Amount           uint64 `json:"amount"            validate:"required,gte=1"`
	DurationBlocks   uint64 `json:"duration_blocks"   validate:"required,gte=1"`
	AssetRef         string `json:"asset_ref"         validate:"required"`
	CollateralAmount uint64 `json:"collateral_amount" validate:"required,gte=1"`
}

func (h *LoanHandler) RequestLoan(c echo.Context) error {
	caller, ok := callerID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing or invalid Ax-Caller-Id"})
	}
	var req requestLoanReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	dto, err := h.uc.Request(c.Request().Context(), caller, loan.RequestInput{
		Amount:           req.Amount,
		DurationBlocks:   req.DurationBlocks,
		AssetRef:         req.AssetRef,
		CollateralAmount: req.CollateralAmount,
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

type voteReq struct {
	Approve *bool `json:"approve" validate:"required"`
}

func (h *LoanHandler) VoteOnLoan(c echo.Context) error {
	caller, ok := callerID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing or invalid Ax-Caller-Id"})
	}
	loanID, err := pathUint(c, "loan_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan_id"})
	}
	var req voteReq
	if err := c.Bind(&req); err != nil || req.Approve == nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := h.uc.Vote(c.Request().Context(), caller, loanID, *req.Approve); err != nil {
		return domainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *LoanHandler) FinalizeLoan(c echo.Context) error {
	loanID, err := pathUint(c, "loan_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan_id"})
	}
	dto, err := h.uc.Finalize(c.Request().Context(), loanID)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

type repayReq struct {
	Amount uint64 `json:"amount" validate:"required,gte=1"`
}

func (h *LoanHandler) RepayLoan(c echo.Context) error {
	caller, ok := callerID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing or invalid Ax-Caller-Id"})
	}
	loanID, err := pathUint(c, "loan_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan_id"})
	}
	var req repayReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	dto, err := h.uc.Repay(c.Request().Context(), caller, loanID, req.Amount)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) MarkLoanDefault(c echo.Context) error {
	loanID, err := pathUint(c, "loan_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan_id"})
	}
	dto, err := h.uc.MarkDefault(c.Request().Context(), loanID)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) GetLoan(c echo.Context) error {
	loanID, err := pathUint(c, "loan_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan_id"})
	}
	dto, err := h.uc.Get(c.Request().Context(), loanID)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) HasActiveLoan(c echo.Context) error {
	borrowerID := c.Param("borrower_id")
	if !reHex32.MatchString(borrowerID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid borrower_id"})
	}
	active, err := h.uc.HasActiveLoan(c.Request().Context(), borrowerID)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"active": active})
}
