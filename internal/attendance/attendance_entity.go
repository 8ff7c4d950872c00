package attendance

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusOnTime = "on_time"
	StatusLate   = "late"

	MethodFace        = "face"
	MethodFingerprint = "fingerprint"
	MethodManual      = "manual"
)

// AttendanceRecord is one work session for one employee on one calendar
// day. Created at check-in, mutated once at check-out; after that the
// only write path is an audited administrative override.
type AttendanceRecord struct {
	ID                  uuid.UUID  `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID          uuid.UUID  `gorm:"column:employee_id;type:uuid;not null;index"`
	AttendanceDate      time.Time  `gorm:"column:attendance_date;type:date;not null;index"`
	CheckInTime         time.Time  `gorm:"column:check_in_time;type:timestamptz;not null"`
	CheckOutTime        *time.Time `gorm:"column:check_out_time;type:timestamptz"`
	Method              string     `gorm:"column:method;type:varchar(20);not null"`
	DeviceID            *uuid.UUID `gorm:"column:device_id;type:uuid"`
	LocationLat         *float64   `gorm:"column:location_lat"`
	LocationLng         *float64   `gorm:"column:location_lng"`
	ConfidenceScore     *float64   `gorm:"column:confidence_score;type:decimal(5,2)"`
	LivenessScore       *float64   `gorm:"column:liveness_score;type:decimal(5,2)"`
	Status              string     `gorm:"column:status;type:varchar(20);not null;default:on_time"`
	MinutesLate         int        `gorm:"column:minutes_late;not null;default:0"`
	MinutesEarly        int        `gorm:"column:minutes_early;not null;default:0"`
	WorkDurationMinutes *int       `gorm:"column:work_duration_minutes"`
	IsOverride          bool       `gorm:"column:is_override;not null;default:false"`
	OverrideReason      *string    `gorm:"column:override_reason;type:text"`
	OverrideBy          *uuid.UUID `gorm:"column:override_by;type:uuid"`
	CreatedAt           time.Time  `gorm:"column:created_at"`
	UpdatedAt           time.Time  `gorm:"column:updated_at"`
}

func (AttendanceRecord) TableName() string {
	return "attendance_records"
}

func ValidMethod(m string) bool {
	return m == MethodFace || m == MethodFingerprint || m == MethodManual
}
