package attendanceerrors

import (
	"net/http"

	"go-biotime/internal/shared/apperror"
)

var (
	ErrAlreadyCheckedIn = apperror.New(
		apperror.CodeConflict,
		"Employee already has an open session for today",
		http.StatusConflict,
	)
	ErrNoActiveCheckIn = apperror.New(
		apperror.CodeNotFound,
		"No active check-in found",
		http.StatusNotFound,
	)
	ErrAlreadyClosed = apperror.New(
		apperror.CodeInvalidState,
		"Attendance record is already closed",
		http.StatusConflict,
	)
	ErrRecordNotFound = apperror.New(
		apperror.CodeNotFound,
		"Attendance record not found",
		http.StatusNotFound,
	)
	ErrInvalidMethod = apperror.New(
		apperror.CodeInvalidInput,
		"Method must be face, fingerprint or manual",
		http.StatusBadRequest,
	)
	ErrSampleRequired = apperror.New(
		apperror.CodeInvalidInput,
		"A biometric sample is required for this method",
		http.StatusBadRequest,
	)
	ErrInvalidStatus = apperror.New(
		apperror.CodeInvalidInput,
		"Status must be on_time or late",
		http.StatusBadRequest,
	)
)
