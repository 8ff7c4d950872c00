package directory

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=directory_repo.go -destination=mock/directory_repo_mock.go -package=mock
type Repository interface {
	FindEmployeeByID(ctx context.Context, id string) (*Employee, error)
	FindDeviceByID(ctx context.Context, id string) (*Device, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindEmployeeByID(ctx context.Context, id string) (*Employee, error) {
	var emp Employee
	err := r.db.WithContext(ctx).First(&emp, "id = ?", id).Error
	return &emp, err
}

func (r *repository) FindDeviceByID(ctx context.Context, id string) (*Device, error) {
	var dev Device
	err := r.db.WithContext(ctx).First(&dev, "id = ?", id).Error
	return &dev, err
}
