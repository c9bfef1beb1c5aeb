package apperrors

import (
	"errors"
	"net/http"
)

// AppError is a sentinel error carrying a stable code and the HTTP status it
// maps to. Services wrap these with fmt.Errorf("...: %w", err) to add detail
// (e.g. which seats conflicted); controllers resolve the status with
// errors.Is via HTTPStatus.
type AppError struct {
	Code    string
	Status  int
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

var (
	// Common
	ErrInvalidInput = &AppError{Code: "C001", Status: http.StatusBadRequest, Message: "invalid input value"}
	ErrInternal     = &AppError{Code: "C003", Status: http.StatusInternalServerError, Message: "internal server error"}
	ErrUnauthorized = &AppError{Code: "U004", Status: http.StatusForbidden, Message: "access denied"}

	// Admission
	ErrInvalidQueueToken = &AppError{Code: "Q001", Status: http.StatusBadRequest, Message: "invalid queue token"}
	ErrAdmissionRequired = &AppError{Code: "Q002", Status: http.StatusForbidden, Message: "queue admission required"}

	// Ticketing
	ErrShowtimeNotFound            = &AppError{Code: "T001", Status: http.StatusNotFound, Message: "showtime not found"}
	ErrSeatNotFound                = &AppError{Code: "T002", Status: http.StatusNotFound, Message: "selected seats not found"}
	ErrSeatAlreadyReserved         = &AppError{Code: "T003", Status: http.StatusConflict, Message: "seat already reserved"}
	ErrReservationNotFound         = &AppError{Code: "T004", Status: http.StatusNotFound, Message: "reservation not found"}
	ErrAlreadyCancelledReservation = &AppError{Code: "T005", Status: http.StatusBadRequest, Message: "reservation already cancelled"}
	ErrInvalidPaymentAmount        = &AppError{Code: "T006", Status: http.StatusBadRequest, Message: "payment amount mismatch"}

	// Catalog
	ErrEventNotFound = &AppError{Code: "E001", Status: http.StatusNotFound, Message: "event not found"}
	ErrVenueNotFound = &AppError{Code: "E002", Status: http.StatusNotFound, Message: "venue not found"}

	// Payments
	ErrOrderNotFound      = &AppError{Code: "O001", Status: http.StatusNotFound, Message: "order not found"}
	ErrUnknownOrderKind   = &AppError{Code: "O002", Status: http.StatusBadRequest, Message: "no processor for order kind"}
	ErrGatewayFailure     = &AppError{Code: "O003", Status: http.StatusBadGateway, Message: "payment gateway call failed"}
	ErrGatewayNotApproved = &AppError{Code: "O004", Status: http.StatusBadGateway, Message: "payment not approved by gateway"}
)

// HTTPStatus resolves the HTTP status for an error chain. Unrecognized errors
// map to 500.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return http.StatusInternalServerError
}

// Code resolves the stable error code for an error chain, or "" when the
// chain contains no AppError.
func Code(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}
