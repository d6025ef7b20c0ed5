package http

import (
	"errors"
	"net/http"

	"quetzalship/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// writeError translates an application error into the matching HTTP answer.
// Validation failures map to 400, unknown objects to 404, business rule
// violations (token reuse, cancelling a cancelled order) to 409, an exhausted
// rate source chain to 503, and everything else to 500.
func writeError(ctx echo.Context, err error) error {
	code := http.StatusInternalServerError

	switch {
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		code = http.StatusBadRequest
	case errors.Is(err, errs.ErrObjectNotFound):
		code = http.StatusNotFound
	case errors.Is(err, errs.ErrPreconditionFailed):
		code = http.StatusConflict
	case errors.Is(err, errs.ErrServiceUnavailable):
		code = http.StatusServiceUnavailable
	}

	return ctx.JSON(code, ErrorResponse{
		Code:    code,
		Message: err.Error(),
	})
}
