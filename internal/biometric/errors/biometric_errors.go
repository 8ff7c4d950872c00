package biometricerrors

import (
	"net/http"

	"go-biotime/internal/shared/apperror"
)

var (
	ErrNoEnrollment = apperror.New(
		apperror.CodeNotFound,
		"No active biometric template enrolled for this employee",
		http.StatusNotFound,
	)
	ErrTemplateNotFound = apperror.New(
		apperror.CodeNotFound,
		"Biometric template not found",
		http.StatusNotFound,
	)
	ErrInvalidModality = apperror.New(
		apperror.CodeInvalidInput,
		"Modality must be face or fingerprint",
		http.StatusBadRequest,
	)

	// Integrity failures: administrative attention required.
	ErrDuplicateTemplate = apperror.New(
		apperror.CodeIntegrityFailure,
		"Biometric template already enrolled for another employee",
		http.StatusConflict,
	)
	ErrDecryptionFailed = apperror.New(
		apperror.CodeIntegrityFailure,
		"Stored biometric template cannot be decrypted with the current key",
		http.StatusInternalServerError,
	)

	// Conflict: a concurrent enrollment for the same employee and
	// modality won the race; re-read and retry.
	ErrEnrollmentConflict = apperror.New(
		apperror.CodeConflict,
		"Concurrent enrollment detected, please retry",
		http.StatusConflict,
	)

	// Verification failures: surfaced as authentication failures and
	// never retried by the engine.
	ErrNoSampleDetected = apperror.New(
		apperror.CodeVerificationFailed,
		"No biometric sample detected in the capture",
		http.StatusBadRequest,
	)
	ErrMultipleSamplesDetected = apperror.New(
		apperror.CodeVerificationFailed,
		"Multiple biometric samples detected in the capture",
		http.StatusBadRequest,
	)
	ErrLivenessCheckFailed = apperror.New(
		apperror.CodeVerificationFailed,
		"Liveness check failed",
		http.StatusUnauthorized,
	)
	ErrVerificationFailed = apperror.New(
		apperror.CodeVerificationFailed,
		"Biometric verification failed",
		http.StatusUnauthorized,
	)
	ErrExtractionTimeout = apperror.New(
		apperror.CodeServiceUnavailable,
		"Biometric extraction timed out",
		http.StatusGatewayTimeout,
	)
)
