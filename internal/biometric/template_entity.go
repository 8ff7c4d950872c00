package biometric

import (
	"time"

	"github.com/google/uuid"
)

// BiometricTemplate is one enrolled biometric reference. The payload is
// ciphertext; the hash is over the plaintext embedding, computed before
// encryption. Superseded templates are deactivated, not deleted; hard
// deletion is an explicit administrative action.
type BiometricTemplate struct {
	ID                uuid.UUID  `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID        uuid.UUID  `gorm:"column:employee_id;type:uuid;not null;index"`
	Modality          string     `gorm:"column:modality;type:varchar(20);not null"`
	EncryptedTemplate []byte     `gorm:"column:encrypted_template;type:bytea;not null"`
	TemplateHash      string     `gorm:"column:template_hash;type:varchar(64);not null;index"`
	DeviceID          *uuid.UUID `gorm:"column:device_id;type:uuid"`
	QualityScore      *float64   `gorm:"column:quality_score;type:decimal(5,2)"`
	IsActive          bool       `gorm:"column:is_active;not null;default:true"`
	EnrolledAt        time.Time  `gorm:"column:enrolled_at;not null"`
	CreatedAt         time.Time  `gorm:"column:created_at"`
}

func (BiometricTemplate) TableName() string {
	return "biometric_templates"
}
