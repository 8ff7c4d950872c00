package biometric

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=template_repo.go -destination=mock/template_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, t *BiometricTemplate) error
	FindActiveByEmployeeAndModality(ctx context.Context, employeeID, modality string) ([]BiometricTemplate, error)
	FindAllByEmployee(ctx context.Context, employeeID string) ([]BiometricTemplate, error)
	FindByID(ctx context.Context, id string) (*BiometricTemplate, error)
	// ActiveHashOwnedByOther reports whether an active template with
	// this content hash belongs to a different employee.
	ActiveHashOwnedByOther(ctx context.Context, hash, employeeID string) (bool, error)
	DeactivateAllByEmployeeAndModality(ctx context.Context, employeeID, modality string) error
	DeactivateByID(ctx context.Context, id string) error
	DeleteByID(ctx context.Context, id string) (int64, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

// conn returns the gorm handle for this repository. With an attached
// transaction every statement runs on that *sql.Tx, so deactivate and
// insert commit or roll back together.
func (r *repository) conn(ctx context.Context) *gorm.DB {
	if r.tx == nil {
		return r.db.WithContext(ctx)
	}
	db := r.db.Session(&gorm.Session{Context: ctx, NewDB: true})
	db.Statement.ConnPool = r.tx
	return db
}

func (r *repository) Create(ctx context.Context, t *BiometricTemplate) error {
	return r.conn(ctx).Create(t).Error
}

func (r *repository) FindActiveByEmployeeAndModality(ctx context.Context, employeeID, modality string) ([]BiometricTemplate, error) {
	var rows []BiometricTemplate
	err := r.conn(ctx).
		Where("employee_id = ?", employeeID).
		Where("modality = ?", modality).
		Where("is_active = ?", true).
		Order("enrolled_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindAllByEmployee(ctx context.Context, employeeID string) ([]BiometricTemplate, error) {
	var rows []BiometricTemplate
	err := r.conn(ctx).
		Where("employee_id = ?", employeeID).
		Order("enrolled_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*BiometricTemplate, error) {
	var t BiometricTemplate
	err := r.conn(ctx).First(&t, "id = ?", id).Error
	return &t, err
}

func (r *repository) ActiveHashOwnedByOther(ctx context.Context, hash, employeeID string) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Model(&BiometricTemplate{}).
		Where("template_hash = ?", hash).
		Where("is_active = ?", true).
		Where("employee_id <> ?", employeeID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) DeactivateAllByEmployeeAndModality(ctx context.Context, employeeID, modality string) error {
	return r.conn(ctx).
		Model(&BiometricTemplate{}).
		Where("employee_id = ?", employeeID).
		Where("modality = ?", modality).
		Where("is_active = ?", true).
		Update("is_active", false).Error
}

func (r *repository) DeactivateByID(ctx context.Context, id string) error {
	return r.conn(ctx).
		Model(&BiometricTemplate{}).
		Where("id = ?", id).
		Update("is_active", false).Error
}

func (r *repository) DeleteByID(ctx context.Context, id string) (int64, error) {
	res := r.conn(ctx).Delete(&BiometricTemplate{}, "id = ?", id)
	return res.RowsAffected, res.Error
}
