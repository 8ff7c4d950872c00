package directory

import (
	"context"
	"errors"

	directoryerrors "go-biotime/internal/directory/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=directory_service.go -destination=mock/directory_service_mock.go -package=mock

// Service is the EmployeeDirectory collaborator surface the engine
// consumes: typed lookups, no lazy traversal.
type Service interface {
	// GetActiveEmployee returns the employee when it exists and is
	// active; terminated and suspended employees are rejected so they
	// can neither enroll nor check in.
	GetActiveEmployee(ctx context.Context, employeeID string) (*Employee, error)
	GetDevice(ctx context.Context, deviceID string) (*Device, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetActiveEmployee(ctx context.Context, employeeID string) (*Employee, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, directoryerrors.ErrInvalidEmployeeID
	}

	emp, err := s.repo.FindEmployeeByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, directoryerrors.ErrEmployeeNotFound
		}
		return nil, err
	}
	if emp.Status != EmployeeStatusActive {
		return nil, directoryerrors.ErrEmployeeNotActive
	}
	return emp, nil
}

func (s *service) GetDevice(ctx context.Context, deviceID string) (*Device, error) {
	dev, err := s.repo.FindDeviceByID(ctx, deviceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, directoryerrors.ErrDeviceNotFound
		}
		return nil, err
	}
	return dev, nil
}
