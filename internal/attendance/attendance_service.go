package attendance

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	attendanceerrors "go-biotime/internal/attendance/errors"
	"go-biotime/internal/biometric"
	biometricerrors "go-biotime/internal/biometric/errors"
	"go-biotime/internal/bootstrap"
	"go-biotime/internal/directory"
	directoryerrors "go-biotime/internal/directory/errors"
	"go-biotime/internal/events"
	"go-biotime/internal/messaging/kafka"
	"go-biotime/internal/schedule"
	"go-biotime/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const todayCacheTTL = 60 * time.Second

func todayCacheKey(employeeID string, date time.Time) string {
	return fmt.Sprintf("attendance:today:%s:%s", employeeID, date.Format("2006-01-02"))
}

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock

// Service is the attendance ledger: the per-employee-per-day state
// machine NoSession -> OpenSession -> ClosedSession.
type Service interface {
	CheckIn(ctx context.Context, employeeID string, req CheckInRequest) (AttendanceResponse, error)
	CheckOut(ctx context.Context, employeeID string, req CheckOutRequest) (AttendanceResponse, error)
	List(ctx context.Context, q ListQuery) ([]AttendanceResponse, int64, error)
	Today(ctx context.Context, employeeID string) (TodayResponse, error)
	Override(ctx context.Context, id, actorID string, req OverrideRequest) (AttendanceResponse, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	resolver schedule.Resolver
	verifier biometric.Service
	dir      directory.Service
	outbox   kafka.OutboxRepository
	audit    bootstrap.AuditLogger
	rdb      *redis.Client
	sf       *singleflight.Group
	grace    int
	logger   *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	resolver schedule.Resolver,
	verifier biometric.Service,
	dir directory.Service,
	outbox kafka.OutboxRepository,
	audit bootstrap.AuditLogger,
	rdb *redis.Client,
	gracePeriodMinutes int,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	return &service{
		db:       db,
		repo:     repo,
		resolver: resolver,
		verifier: verifier,
		dir:      dir,
		outbox:   outbox,
		audit:    audit,
		rdb:      rdb,
		sf:       &singleflight.Group{},
		grace:    gracePeriodMinutes,
		logger:   l,
	}
}

// classify derives the lateness classification from the resolved window.
// Unscheduled days are always on time. A check-in exactly at the
// scheduled start is on time (strict > for lateness), and late only
// begins past the grace period.
func classify(now time.Time, win *schedule.Window, graceMinutes int) (string, int) {
	if win == nil || !now.After(win.Start) {
		return StatusOnTime, 0
	}
	minutesLate := int(now.Sub(win.Start).Minutes())
	if minutesLate > graceMinutes {
		return StatusLate, minutesLate
	}
	return StatusOnTime, minutesLate
}

func (s *service) CheckIn(ctx context.Context, employeeID string, req CheckInRequest) (AttendanceResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	if !ValidMethod(req.Method) {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidMethod
	}

	if _, err := s.dir.GetActiveEmployee(ctx, employeeID); err != nil {
		return AttendanceResponse{}, err
	}

	var deviceID *uuid.UUID
	if req.DeviceID != nil {
		id, err := uuid.Parse(*req.DeviceID)
		if err != nil {
			return AttendanceResponse{}, directoryerrors.ErrDeviceNotFound
		}
		if _, err := s.dir.GetDevice(ctx, *req.DeviceID); err != nil {
			return AttendanceResponse{}, err
		}
		deviceID = &id
	}

	// Verification (extraction + liveness + matching) runs against the
	// external capability before the transactional scope opens; the
	// critical section below is only the read-check-insert.
	var confidence, liveness *float64
	if req.Method != MethodManual {
		if len(req.Sample) == 0 {
			return AttendanceResponse{}, attendanceerrors.ErrSampleRequired
		}
		vr, err := s.verifier.Verify(ctx, employeeID, req.Method, req.Sample)
		if err != nil {
			return AttendanceResponse{}, err
		}
		if !vr.Verified {
			return AttendanceResponse{}, biometricerrors.ErrVerificationFailed
		}
		confidence = &vr.Confidence
		liveness = &vr.LivenessScore
	}

	// Server clock only; client timestamps never reach classification.
	now := time.Now().UTC()
	today := now.Truncate(24 * time.Hour)

	win, err := s.resolver.Resolve(ctx, employeeID, today)
	if err != nil {
		return AttendanceResponse{}, err
	}
	status, minutesLate := classify(now, win, s.grace)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	_, err = qtx.FindOpenByEmployeeAndDate(ctx, employeeID, today)
	if err == nil {
		return AttendanceResponse{}, attendanceerrors.ErrAlreadyCheckedIn
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return AttendanceResponse{}, err
	}

	row := &AttendanceRecord{
		ID:              uuid.New(),
		EmployeeID:      uuid.MustParse(employeeID),
		AttendanceDate:  today,
		CheckInTime:     now,
		Method:          req.Method,
		DeviceID:        deviceID,
		LocationLat:     req.LocationLat,
		LocationLng:     req.LocationLng,
		ConfidenceScore: confidence,
		LivenessScore:   liveness,
		Status:          status,
		MinutesLate:     minutesLate,
	}

	if err := qtx.Create(ctx, row); err != nil {
		return AttendanceResponse{}, mapRepositoryError(err)
	}
	if err := s.enqueueEvent(ctx, tx, events.TypeAttendanceCheckedIn, row); err != nil {
		return AttendanceResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return AttendanceResponse{}, mapRepositoryError(err)
	}

	s.invalidateTodayCache(ctx, employeeID, today)
	s.logger.Info("check-in recorded",
		zap.String("request_id", rid),
		zap.String("attendance_id", row.ID.String()),
		zap.String("employee_id", employeeID),
		zap.String("status", status),
		zap.Int("minutes_late", minutesLate),
	)
	return mapToResponse(*row), nil
}

func (s *service) CheckOut(ctx context.Context, employeeID string, req CheckOutRequest) (AttendanceResponse, error) {
	now := time.Now().UTC()
	today := now.Truncate(24 * time.Hour)

	win, err := s.resolver.Resolve(ctx, employeeID, today)
	if err != nil {
		return AttendanceResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	var row *AttendanceRecord
	if req.AttendanceID != nil {
		row, err = qtx.FindByIDAndEmployee(ctx, *req.AttendanceID, employeeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return AttendanceResponse{}, attendanceerrors.ErrRecordNotFound
			}
			return AttendanceResponse{}, err
		}
		if row.CheckOutTime != nil {
			return AttendanceResponse{}, attendanceerrors.ErrAlreadyClosed
		}
	} else {
		row, err = qtx.FindOpenByEmployeeAndDate(ctx, employeeID, today)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return AttendanceResponse{}, attendanceerrors.ErrNoActiveCheckIn
			}
			return AttendanceResponse{}, err
		}
	}

	row.CheckOutTime = &now
	duration := int(now.Sub(row.CheckInTime).Minutes())
	row.WorkDurationMinutes = &duration
	if win != nil && !win.End.IsZero() && now.Before(win.End) {
		row.MinutesEarly = int(win.End.Sub(now).Minutes())
	}
	if req.LocationLat != nil {
		row.LocationLat = req.LocationLat
	}
	if req.LocationLng != nil {
		row.LocationLng = req.LocationLng
	}

	// Guarded close: the WHERE check_out_time IS NULL clause makes a
	// concurrent double check-out lose with AlreadyClosed instead of
	// silently overwriting the first close.
	affected, err := qtx.CloseSession(ctx, row)
	if err != nil {
		return AttendanceResponse{}, mapRepositoryError(err)
	}
	if affected == 0 {
		return AttendanceResponse{}, attendanceerrors.ErrAlreadyClosed
	}
	if err := s.enqueueEvent(ctx, tx, events.TypeAttendanceCheckedOut, row); err != nil {
		return AttendanceResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return AttendanceResponse{}, mapRepositoryError(err)
	}

	s.invalidateTodayCache(ctx, employeeID, today)
	s.logger.Info("check-out recorded",
		zap.String("attendance_id", row.ID.String()),
		zap.String("employee_id", employeeID),
		zap.Int("work_duration_minutes", duration),
	)
	return mapToResponse(*row), nil
}

func (s *service) List(ctx context.Context, q ListQuery) ([]AttendanceResponse, int64, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = 10
	}

	rows, total, err := s.repo.Search(ctx, q)
	if err != nil {
		return nil, 0, err
	}

	resp := make([]AttendanceResponse, len(rows))
	for i, r := range rows {
		resp[i] = mapToResponse(r)
	}
	return resp, total, nil
}

// Today is read-heavy (dashboards poll it), so responses are cached
// briefly and concurrent misses collapse through singleflight.
func (s *service) Today(ctx context.Context, employeeID string) (TodayResponse, error) {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	key := todayCacheKey(employeeID, today)

	if s.rdb != nil {
		if val, err := s.rdb.Get(ctx, key).Result(); err == nil {
			var cached TodayResponse
			if err := json.Unmarshal([]byte(val), &cached); err == nil {
				return cached, nil
			}
		}
	}

	v, err, _ := s.sf.Do(key, func() (any, error) {
		row, err := s.repo.FindByEmployeeAndDate(ctx, employeeID, today)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return TodayResponse{}, nil
			}
			return nil, err
		}

		resp := mapToResponse(*row)
		return TodayResponse{
			CheckedIn:  true,
			CheckedOut: row.CheckOutTime != nil,
			Attendance: &resp,
		}, nil
	})
	if err != nil {
		return TodayResponse{}, err
	}

	result := v.(TodayResponse)
	if s.rdb != nil {
		if payload, err := json.Marshal(result); err == nil {
			_ = s.rdb.Set(ctx, key, payload, todayCacheTTL).Err()
		}
	}
	return result, nil
}

// Override is the audited administrative correction path; it is the
// only way a closed session changes. The pre-change values go to the
// audit log so the original record stays reconstructable.
func (s *service) Override(ctx context.Context, id, actorID string, req OverrideRequest) (AttendanceResponse, error) {
	if req.Status != nil && *req.Status != StatusOnTime && *req.Status != StatusLate {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidStatus
	}
	actor, err := uuid.Parse(actorID)
	if err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrRecordNotFound
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	row, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AttendanceResponse{}, attendanceerrors.ErrRecordNotFound
		}
		return AttendanceResponse{}, err
	}

	original := map[string]any{
		"check_in_time":  row.CheckInTime,
		"check_out_time": row.CheckOutTime,
		"status":         row.Status,
		"minutes_late":   row.MinutesLate,
	}

	if req.CheckInTime != nil {
		row.CheckInTime = req.CheckInTime.UTC()
	}
	if req.CheckOutTime != nil {
		t := req.CheckOutTime.UTC()
		row.CheckOutTime = &t
	}
	if req.Status != nil {
		row.Status = *req.Status
	}
	if row.CheckOutTime != nil {
		duration := int(row.CheckOutTime.Sub(row.CheckInTime).Minutes())
		row.WorkDurationMinutes = &duration
	}
	row.IsOverride = true
	row.OverrideReason = &req.Reason
	row.OverrideBy = &actor

	if err := qtx.Update(ctx, row); err != nil {
		return AttendanceResponse{}, mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		return AttendanceResponse{}, mapRepositoryError(err)
	}

	if s.audit != nil {
		s.audit.Log(ctx, bootstrap.AuditLog{
			Action:  "ATTENDANCE_OVERRIDE",
			Message: "Attendance record corrected by administrator",
			Actor:   actorID,
			Meta: map[string]any{
				"attendance_id": id,
				"reason":        req.Reason,
				"original":      original,
			},
		})
	}

	s.invalidateTodayCache(ctx, row.EmployeeID.String(), row.AttendanceDate)
	contextutil.GetLogger(ctx, s.logger).Info("attendance override applied",
		zap.String("attendance_id", id),
		zap.String("override_by", actorID),
	)
	return mapToResponse(*row), nil
}

func (s *service) enqueueEvent(ctx context.Context, tx *sql.Tx, eventType string, row *AttendanceRecord) error {
	if s.outbox == nil {
		return nil
	}

	payload, err := json.Marshal(events.AttendanceSessionEvent{
		EventType:           eventType,
		AttendanceID:        row.ID.String(),
		EmployeeID:          row.EmployeeID.String(),
		Status:              row.Status,
		MinutesLate:         row.MinutesLate,
		WorkDurationMinutes: row.WorkDurationMinutes,
		OccurredAt:          time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "attendance",
		AggregateID:   row.ID.String(),
		EventType:     eventType,
		Topic:         events.AttendanceSessionTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func (s *service) invalidateTodayCache(ctx context.Context, employeeID string, date time.Time) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, todayCacheKey(employeeID, date)).Err(); err != nil {
		s.logger.Warn("today cache invalidation failed", zap.Error(err))
	}
}
