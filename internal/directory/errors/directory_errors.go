package directoryerrors

import (
	"net/http"

	"go-biotime/internal/shared/apperror"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee not found",
		http.StatusNotFound,
	)
	ErrEmployeeNotActive = apperror.New(
		apperror.CodeInvalidState,
		"Employee is not active",
		http.StatusUnprocessableEntity,
	)
	ErrDeviceNotFound = apperror.New(
		apperror.CodeNotFound,
		"Device not found",
		http.StatusNotFound,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid employee ID",
		http.StatusBadRequest,
	)
)
