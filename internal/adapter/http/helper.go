package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	collateralDomain "p2plend-backend/internal/domain/collateral"
	"p2plend-backend/internal/domain/gateway"
	ledgerDomain "p2plend-backend/internal/domain/ledger"
	loanDomain "p2plend-backend/internal/domain/loan"
	voteDomain "p2plend-backend/internal/domain/vote"
)

// statusFor maps the domain error taxonomy onto HTTP codes:
// authorization → 403, not found → 404, wrong state/deadline/lock → 409,
// bad input → 400, invariant violations → 422, collaborator failure → 502.
func statusFor(err error) int {
	switch {
	case errors.Is(err, collateralDomain.ErrUnauthorized),
		errors.Is(err, loanDomain.ErrUnauthorized),
		errors.Is(err, loanDomain.ErrNotVerified):
		return http.StatusForbidden
	case errors.Is(err, collateralDomain.ErrNotFound),
		errors.Is(err, loanDomain.ErrNotFound),
		errors.Is(err, loanDomain.ErrUnknownAsset),
		errors.Is(err, voteDomain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, loanDomain.ErrInvalidTransition),
		errors.Is(err, loanDomain.ErrActiveLoanExists),
		errors.Is(err, loanDomain.ErrVotingOpen),
		errors.Is(err, loanDomain.ErrVotingClosed),
		errors.Is(err, loanDomain.ErrAlreadyVoted),
		errors.Is(err, loanDomain.ErrNotDue),
		errors.Is(err, collateralDomain.ErrLocked),
		errors.Is(err, collateralDomain.ErrLoanNotActive),
		errors.Is(err, collateralDomain.ErrNotDefaulted),
		errors.Is(err, collateralDomain.ErrNothingToLiquidate):
		return http.StatusConflict
	case errors.Is(err, collateralDomain.ErrInvalidAmount),
		errors.Is(err, collateralDomain.ErrUnsupportedCurrency),
		errors.Is(err, loanDomain.ErrInvalidAmount),
		errors.Is(err, loanDomain.ErrInvalidDuration):
		return http.StatusBadRequest
	case errors.Is(err, collateralDomain.ErrRatioTooLow),
		errors.Is(err, collateralDomain.ErrMaxCollateral),
		errors.Is(err, collateralDomain.ErrWithdrawalExceeds),
		errors.Is(err, loanDomain.ErrTooLittleCollateral),
		errors.Is(err, loanDomain.ErrPartialRepayment),
		errors.Is(err, loanDomain.ErrInsufficientFunds),
		errors.Is(err, ledgerDomain.ErrInsufficientBalance):
		return http.StatusUnprocessableEntity
	case errors.Is(err, gateway.ErrExternalFailure):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func domainError(c echo.Context, err error) error {
	return c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
}

// callerID pulls the authenticated caller identity from the Ax-Caller-Id
// header; real authentication lives at the edge in front of this service.
func callerID(c echo.Context) (string, bool) {
	id := strings.TrimSpace(c.Request().Header.Get("Ax-Caller-Id"))
	return id, reHex32.MatchString(id)
}

func pathUint(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}
