package schedule

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=resolver.go -destination=mock/resolver_mock.go -package=mock

// Resolver answers "what shift was expected of this employee on this
// date". A nil window means unscheduled: flexible days, rest days,
// holidays and missing rows all classify check-ins as on time.
type Resolver interface {
	Resolve(ctx context.Context, employeeID string, date time.Time) (*Window, error)
}

type resolver struct {
	repo Repository
}

func NewResolver(repo Repository) Resolver {
	return &resolver{repo: repo}
}

func (r *resolver) Resolve(ctx context.Context, employeeID string, date time.Time) (*Window, error) {
	s, err := r.repo.FindByEmployeeAndDate(ctx, employeeID, date)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if s.IsHoliday || s.IsRestDay || s.StartTime == nil {
		return nil, nil
	}

	win := &Window{
		Start:                combine(date, *s.StartTime),
		BreakDurationMinutes: s.BreakDurationMinutes,
	}
	if s.EndTime != nil {
		win.End = combine(date, *s.EndTime)
		// Overnight shift: the end lands on the next day.
		if !win.End.After(win.Start) {
			win.End = win.End.Add(24 * time.Hour)
		}
	}
	return win, nil
}

// combine anchors a time-of-day column to the given calendar date.
func combine(date, tod time.Time) time.Time {
	return time.Date(
		date.Year(), date.Month(), date.Day(),
		tod.Hour(), tod.Minute(), tod.Second(), 0,
		date.Location(),
	)
}
