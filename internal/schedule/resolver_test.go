package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeScheduleRepo struct {
	findFn func(ctx context.Context, employeeID string, date time.Time) (*Schedule, error)
}

func (f *fakeScheduleRepo) FindByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Schedule, error) {
	return f.findFn(ctx, employeeID, date)
}

func tod(hour, minute int) *time.Time {
	t := time.Date(2000, 1, 1, hour, minute, 0, 0, time.UTC)
	return &t
}

func TestResolver_Resolve(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New().String()
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	t.Run("regular shift", func(t *testing.T) {
		repo := &fakeScheduleRepo{findFn: func(ctx context.Context, empID string, d time.Time) (*Schedule, error) {
			return &Schedule{StartTime: tod(9, 0), EndTime: tod(17, 30), BreakDurationMinutes: 45}, nil
		}}

		win, err := NewResolver(repo).Resolve(ctx, employeeID, date)
		assert.NoError(t, err)
		assert.NotNil(t, win)
		assert.Equal(t, time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), win.Start)
		assert.Equal(t, time.Date(2026, 3, 2, 17, 30, 0, 0, time.UTC), win.End)
		assert.Equal(t, 45, win.BreakDurationMinutes)
	})

	t.Run("no schedule row means unscheduled", func(t *testing.T) {
		repo := &fakeScheduleRepo{findFn: func(ctx context.Context, empID string, d time.Time) (*Schedule, error) {
			return nil, gorm.ErrRecordNotFound
		}}

		win, err := NewResolver(repo).Resolve(ctx, employeeID, date)
		assert.NoError(t, err)
		assert.Nil(t, win)
	})

	t.Run("holiday", func(t *testing.T) {
		repo := &fakeScheduleRepo{findFn: func(ctx context.Context, empID string, d time.Time) (*Schedule, error) {
			return &Schedule{IsHoliday: true, StartTime: tod(9, 0)}, nil
		}}

		win, err := NewResolver(repo).Resolve(ctx, employeeID, date)
		assert.NoError(t, err)
		assert.Nil(t, win)
	})

	t.Run("rest day", func(t *testing.T) {
		repo := &fakeScheduleRepo{findFn: func(ctx context.Context, empID string, d time.Time) (*Schedule, error) {
			return &Schedule{IsRestDay: true, StartTime: tod(9, 0)}, nil
		}}

		win, err := NewResolver(repo).Resolve(ctx, employeeID, date)
		assert.NoError(t, err)
		assert.Nil(t, win)
	})

	t.Run("flexible day without start time", func(t *testing.T) {
		repo := &fakeScheduleRepo{findFn: func(ctx context.Context, empID string, d time.Time) (*Schedule, error) {
			return &Schedule{}, nil
		}}

		win, err := NewResolver(repo).Resolve(ctx, employeeID, date)
		assert.NoError(t, err)
		assert.Nil(t, win)
	})

	t.Run("overnight shift ends next day", func(t *testing.T) {
		repo := &fakeScheduleRepo{findFn: func(ctx context.Context, empID string, d time.Time) (*Schedule, error) {
			return &Schedule{StartTime: tod(22, 0), EndTime: tod(6, 0)}, nil
		}}

		win, err := NewResolver(repo).Resolve(ctx, employeeID, date)
		assert.NoError(t, err)
		assert.NotNil(t, win)
		assert.Equal(t, time.Date(2026, 3, 2, 22, 0, 0, 0, time.UTC), win.Start)
		assert.Equal(t, time.Date(2026, 3, 3, 6, 0, 0, 0, time.UTC), win.End)
	})

	t.Run("repository error propagates", func(t *testing.T) {
		repo := &fakeScheduleRepo{findFn: func(ctx context.Context, empID string, d time.Time) (*Schedule, error) {
			return nil, assert.AnError
		}}

		_, err := NewResolver(repo).Resolve(ctx, employeeID, date)
		assert.Error(t, err)
	})
}
