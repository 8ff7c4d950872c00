package biometric

import (
	"errors"
	"strings"

	biometricerrors "go-biotime/internal/biometric/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// mapRepositoryError translates storage-level failures into domain
// errors. The partial unique indexes back the two enrollment invariants:
// uq_biometric_active_modality keeps one active template per
// (employee, modality) under concurrent enrollments, and
// uq_biometric_active_hash keeps an active hash owned by one employee.
func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return biometricerrors.ErrTemplateNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" {
			switch pgErr.ConstraintName {
			case "uq_biometric_active_modality":
				return biometricerrors.ErrEnrollmentConflict
			case "uq_biometric_active_hash":
				return biometricerrors.ErrDuplicateTemplate
			}
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_biometric_active_modality") {
		return biometricerrors.ErrEnrollmentConflict
	}
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_biometric_active_hash") {
		return biometricerrors.ErrDuplicateTemplate
	}

	return err
}
