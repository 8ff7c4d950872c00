package schedule

import (
	"time"

	"github.com/google/uuid"
)

// Schedule is one expected work window for one employee on one date,
// owned by the scheduling system. Read-only input to lateness
// classification.
type Schedule struct {
	ID                   uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	EmployeeID           uuid.UUID  `gorm:"column:employee_id;type:uuid;not null;index"`
	Date                 time.Time  `gorm:"column:date;type:date;not null;index"`
	StartTime            *time.Time `gorm:"column:start_time;type:time"`
	EndTime              *time.Time `gorm:"column:end_time;type:time"`
	BreakDurationMinutes int        `gorm:"column:break_duration_minutes;default:60"`
	IsHoliday            bool       `gorm:"column:is_holiday;default:false"`
	IsRestDay            bool       `gorm:"column:is_rest_day;default:false"`
	CreatedAt            time.Time  `gorm:"column:created_at"`
}

func (Schedule) TableName() string {
	return "schedules"
}

// Window is the resolved shift for a concrete date: wall-clock start and
// end anchored to that date in the server's location.
type Window struct {
	Start                time.Time
	End                  time.Time
	BreakDurationMinutes int
}
