package events

import "time"

const AttendanceSessionTopic = "attendance.session.v1"

const (
	TypeAttendanceCheckedIn  = "attendance.checked_in"
	TypeAttendanceCheckedOut = "attendance.checked_out"
)

// AttendanceSessionEvent notifies downstream consumers (payroll,
// dashboards) that a session opened or closed. Emitted through the
// outbox inside the ledger transaction.
type AttendanceSessionEvent struct {
	EventType           string    `json:"event_type"`
	AttendanceID        string    `json:"attendance_id"`
	EmployeeID          string    `json:"employee_id"`
	Status              string    `json:"status"`
	MinutesLate         int       `json:"minutes_late"`
	WorkDurationMinutes *int      `json:"work_duration_minutes,omitempty"`
	OccurredAt          time.Time `json:"occurred_at"`
}
