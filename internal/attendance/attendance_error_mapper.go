package attendance

import (
	"errors"
	"strings"

	attendanceerrors "go-biotime/internal/attendance/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// mapRepositoryError translates storage failures into ledger errors.
// uq_attendance_open_session is the partial unique index on
// (employee_id, attendance_date) where check_out_time is null: two
// near-simultaneous check-ins cannot both commit, the loser gets
// AlreadyCheckedIn.
func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return attendanceerrors.ErrRecordNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" && pgErr.ConstraintName == "uq_attendance_open_session" {
			return attendanceerrors.ErrAlreadyCheckedIn
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_attendance_open_session") {
		return attendanceerrors.ErrAlreadyCheckedIn
	}

	return err
}
