package http

import (
	"errors"
	"net/http"

	"fieldops-backend/internal/domain/access"
	"fieldops-backend/internal/domain/masterdata"
	"fieldops-backend/internal/domain/photo"
	"fieldops-backend/internal/domain/submission"
	ucMasterdata "fieldops-backend/internal/usecase/masterdata"
	ucSubmission "fieldops-backend/internal/usecase/submission"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	CodeValidation         = "VALIDATION_FAILED"
	CodeBadRequest         = "BAD_REQUEST"
	CodeInvalidReference   = "INVALID_REFERENCE"
	CodeForbidden          = "FORBIDDEN"
	CodeNotFound           = "NOT_FOUND"
	CodeDuplicateKey       = "DUPLICATE_KEY"
	CodeInvalidTransition  = "INVALID_STATE_TRANSITION"
	CodeConflict           = "CONFLICT"
	CodePayloadTooLarge    = "PAYLOAD_TOO_LARGE"
	CodeUnsupportedContent = "UNSUPPORTED_MEDIA_TYPE"
	CodeInternal           = "INTERNAL"
)

var errorTable = []struct {
	target error
	status int
	code   string
}{
	{submission.ErrInvalidReference, http.StatusBadRequest, CodeInvalidReference},
	{masterdata.ErrInvalidReference, http.StatusBadRequest, CodeInvalidReference},
	{access.ErrForbidden, http.StatusForbidden, CodeForbidden},
	{submission.ErrNotFound, http.StatusNotFound, CodeNotFound},
	{masterdata.ErrNotFound, http.StatusNotFound, CodeNotFound},
	{masterdata.ErrDuplicateKey, http.StatusConflict, CodeDuplicateKey},
	{submission.ErrInvalidStateTransition, http.StatusConflict, CodeInvalidTransition},
	{submission.ErrConflict, http.StatusConflict, CodeConflict},
	{photo.ErrTooLarge, http.StatusRequestEntityTooLarge, CodePayloadTooLarge},
	{photo.ErrUnsupported, http.StatusUnsupportedMediaType, CodeUnsupportedContent},
	{submission.ErrInvalidQuantity, http.StatusUnprocessableEntity, CodeValidation},
	{submission.ErrInvalidStatus, http.StatusUnprocessableEntity, CodeValidation},
	{masterdata.ErrInvalidRate, http.StatusUnprocessableEntity, CodeValidation},
	{ucSubmission.ErrInvalidInput, http.StatusUnprocessableEntity, CodeValidation},
	{ucMasterdata.ErrInvalidInput, http.StatusUnprocessableEntity, CodeValidation},
}

// classify maps a usecase error to its HTTP status and stable code.
func classify(err error) (int, string) {
	for _, e := range errorTable {
		if errors.Is(err, e.target) {
			return e.status, e.code
		}
	}
	return http.StatusInternalServerError, CodeInternal
}

// respondError writes err as an ErrorResponse. Unmapped errors are logged and hidden.
func respondError(c echo.Context, log *zap.Logger, err error) error {
	status, code := classify(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		log.Error("request failed",
			zap.String("method", c.Request().Method),
			zap.String("path", c.Path()),
			zap.Error(err))
		msg = "internal error"
	}
	return c.JSON(status, ErrorResponse{Error: msg, Code: code})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg, Code: CodeBadRequest})
}

func validationFailed(c echo.Context, details []FieldError) error {
	return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
		Error:   "validation failed",
		Code:    CodeValidation,
		Details: details,
	})
}
