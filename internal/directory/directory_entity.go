package directory

import (
	"time"

	"github.com/google/uuid"
)

const (
	EmployeeStatusActive     = "active"
	EmployeeStatusTerminated = "terminated"
	EmployeeStatusSuspended  = "suspended"
)

// Employee is reference data owned by the employee-management system.
// This engine reads it to anchor attendance and enrollment; it never
// writes to it.
type Employee struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	EmployeeNumber string    `gorm:"column:employee_number;uniqueIndex"`
	FullName       string    `gorm:"column:full_name"`
	Status         string    `gorm:"column:status;type:varchar(20);not null;default:active"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (Employee) TableName() string {
	return "employees"
}

// Device is capture hardware reference data, attached to templates and
// attendance rows for audit. Online/last-seen bookkeeping belongs to the
// device-management system.
type Device struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	DeviceName   string     `gorm:"column:device_name"`
	DeviceType   string     `gorm:"column:device_type;type:varchar(50)"`
	Location     string     `gorm:"column:location"`
	Status       string     `gorm:"column:status;type:varchar(20);default:offline"`
	LastSeen     *time.Time `gorm:"column:last_seen"`
	RegisteredAt time.Time  `gorm:"column:registered_at"`
}

func (Device) TableName() string {
	return "devices"
}
