package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yanqian/faq-agent/pkg/errors"
)

// HTTPError captures the metadata required to serialize an error response consistently.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// NewHTTPError is a helper to build an HTTPError instance.
func NewHTTPError(status int, code, message string, err error) *HTTPError {
	return &HTTPError{Status: status, Code: code, Message: message, Err: err}
}

func asHTTPError(err error) *HTTPError {
	if err == nil {
		return nil
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return &HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    "internal_error",
		Message: "something went wrong",
		Err:     err,
	}
}

func abortWithError(c *gin.Context, err *HTTPError) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

var codeStatus = map[string]int{
	apperrors.CodeInvalidInput: http.StatusBadRequest,
	"invalid_request":          http.StatusBadRequest,
	"invalid_credentials":      http.StatusUnauthorized,
	"invalid_token":            http.StatusUnauthorized,
	"unauthorized":             http.StatusUnauthorized,
	apperrors.CodeForbidden:    http.StatusForbidden,
	"account_linking_disabled": http.StatusForbidden,
	apperrors.CodeNotFound:     http.StatusNotFound,
	"user_not_found":           http.StatusNotFound,
	apperrors.CodeConflict:     http.StatusConflict,
	"email_exists":             http.StatusConflict,
	apperrors.CodeLLM:          http.StatusBadGateway,
	"oauth_exchange_failed":    http.StatusBadGateway,
	"auth_not_configured":      http.StatusServiceUnavailable,
}

// fromDomainError maps an AppError code onto the transport error; unknown codes
// become a 500 carrying fallbackCode.
func fromDomainError(err error, fallbackCode string) *HTTPError {
	code := apperrors.CodeOf(err)
	if status, ok := codeStatus[code]; ok {
		return NewHTTPError(status, code, errMessage(err), err)
	}
	return NewHTTPError(http.StatusInternalServerError, fallbackCode, errMessage(err), err)
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
