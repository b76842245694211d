package errors

import (
	"errors"
	"net/http"
)

// Sentinel text doubles as the client-facing message used by the status
// mapping below, so the wording here is part of the device protocol.
var (
	// ErrMissingFields is returned when a device omits a required field.
	ErrMissingFields = errors.New("Missing required fields")
	// ErrInvalidTimestamp is returned when a dispense timestamp cannot be parsed.
	ErrInvalidTimestamp = errors.New("Invalid timestamp format")
	// ErrDuplicateCredentials is returned when an RFID code or fingerprint slot is already enrolled.
	ErrDuplicateCredentials = errors.New("RFID or fingerprint already exists")
	// ErrRFIDNotFound is returned when no user is enrolled under the submitted RFID code.
	ErrRFIDNotFound = errors.New("RFID not found")
	// ErrFingerprintMismatch is returned when the fingerprint does not belong to the RFID owner.
	ErrFingerprintMismatch = errors.New("Fingerprint mismatch")
	// ErrNoDosageForDate is returned when no schedule exists for the request date.
	ErrNoDosageForDate = errors.New("No dosage defined for the specified date")
	// ErrDosageConsumed is returned when the schedule for the request date was already dispensed.
	ErrDosageConsumed = errors.New("dosage already consumed for the specified date")
	// ErrUserNotFound is returned when an admin operation references an unknown user.
	ErrUserNotFound = errors.New("User not found")
	// ErrScheduleNotFound is returned when an admin operation references an unknown schedule.
	ErrScheduleNotFound = errors.New("Schedule not found")
	// ErrScheduleExists is returned when a schedule already exists for the user and date.
	ErrScheduleExists = errors.New("Dosage schedule already exists for this user and date")
)

// ErrorResponse is the JSON body returned for failed requests.
type ErrorResponse struct {
	Message string `json:"message"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Errors may arrive
// wrapped with driver detail, so matching uses errors.Is.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrMissingFields):
		return NewHTTPError(http.StatusBadRequest, ErrMissingFields.Error())
	case errors.Is(err, ErrInvalidTimestamp):
		return NewHTTPError(http.StatusBadRequest, ErrInvalidTimestamp.Error())
	case errors.Is(err, ErrDuplicateCredentials):
		return NewHTTPError(http.StatusBadRequest, ErrDuplicateCredentials.Error())
	case errors.Is(err, ErrScheduleExists):
		return NewHTTPError(http.StatusBadRequest, ErrScheduleExists.Error())
	case errors.Is(err, ErrRFIDNotFound):
		return NewHTTPError(http.StatusNotFound, ErrRFIDNotFound.Error())
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, ErrUserNotFound.Error())
	case errors.Is(err, ErrScheduleNotFound):
		return NewHTTPError(http.StatusNotFound, ErrScheduleNotFound.Error())
	case errors.Is(err, ErrFingerprintMismatch):
		return NewHTTPError(http.StatusUnauthorized, ErrFingerprintMismatch.Error())
	case errors.Is(err, ErrNoDosageForDate):
		return NewHTTPError(http.StatusForbidden, ErrNoDosageForDate.Error())
	case errors.Is(err, ErrDosageConsumed):
		// Same body as a missing schedule so a device cannot probe whether
		// a schedule exists once its dose was dispensed.
		return NewHTTPError(http.StatusForbidden, ErrNoDosageForDate.Error())
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
}
