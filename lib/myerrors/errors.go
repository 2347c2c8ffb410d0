package myerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Typed error codes as exposed by the rpc transport
const (
	CodeBadRequest          = "BAD_REQUEST"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeForbidden           = "FORBIDDEN"
	CodeNotFound            = "NOT_FOUND"
	CodeInternalServerError = "INTERNAL_SERVER_ERROR"
)

type httpError struct {
	httpCode int
	err      error
}

func (e httpError) Error() string {
	return fmt.Sprintf("status: %d, err: %s", e.httpCode, e.err.Error())
}

func (e httpError) Unwrap() error {
	return e.err
}

func NewInvalidInputError(err error) error {
	return httpError{httpCode: http.StatusBadRequest, err: err}
}

func NewInvalidInputErrorf(format string, args ...any) error {
	return NewInvalidInputError(fmt.Errorf(format, args...))
}

// NewAuthenticationError indicates the caller has no valid session
func NewAuthenticationError(err error) error {
	return httpError{httpCode: http.StatusUnauthorized, err: err}
}

// NewForbiddenError indicates the caller is known but not allowed to touch the resource
func NewForbiddenError(err error) error {
	return httpError{httpCode: http.StatusForbidden, err: err}
}

func NewNotFoundError(err error) error {
	return httpError{httpCode: http.StatusNotFound, err: err}
}

func NewUnsupportedMediaTypeError(err error) error {
	return httpError{httpCode: http.StatusUnsupportedMediaType, err: err}
}

func NewInternalError(err error) error {
	return httpError{httpCode: http.StatusInternalServerError, err: err}
}

func NewNotImplementedError(err error) error {
	return httpError{httpCode: http.StatusNotImplemented, err: err}
}

func NewUnavailableError(err error) error {
	return httpError{httpCode: http.StatusServiceUnavailable, err: err}
}

func GetHTTPStatus(err error) int {
	var httpErr httpError
	if errors.As(err, &httpErr) {
		return httpErr.httpCode
	}
	return http.StatusInternalServerError
}

// GetCode maps an error onto the closed set of rpc error codes.
func GetCode(err error) string {
	switch GetHTTPStatus(err) {
	case http.StatusBadRequest, http.StatusUnsupportedMediaType:
		return CodeBadRequest
	case http.StatusUnauthorized:
		return CodeUnauthorized
	case http.StatusForbidden:
		return CodeForbidden
	case http.StatusNotFound:
		return CodeNotFound
	default:
		return CodeInternalServerError
	}
}

// IsNotFound is used by callers that recover from missing entities
func IsNotFound(err error) bool {
	return err != nil && GetHTTPStatus(err) == http.StatusNotFound
}

// GetMessage returns the human readable part of an error without the status prefix
func GetMessage(err error) string {
	var httpErr httpError
	if errors.As(err, &httpErr) {
		return GetMessage(httpErr.err)
	}
	return err.Error()
}
