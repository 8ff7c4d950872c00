package attendance

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, a *AttendanceRecord) error
	// FindOpenByEmployeeAndDate returns the employee's open session for
	// the given day, gorm.ErrRecordNotFound when there is none.
	FindOpenByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*AttendanceRecord, error)
	FindByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*AttendanceRecord, error)
	FindByIDAndEmployee(ctx context.Context, id, employeeID string) (*AttendanceRecord, error)
	FindByID(ctx context.Context, id string) (*AttendanceRecord, error)
	Update(ctx context.Context, a *AttendanceRecord) error
	// CloseSession writes the check-out fields only while the session is
	// still open; zero rows affected means another writer closed it first.
	CloseSession(ctx context.Context, a *AttendanceRecord) (int64, error)
	Search(ctx context.Context, q ListQuery) ([]AttendanceRecord, int64, error)
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
// transaction every statement runs on that *sql.Tx, so the service's
// Commit/Rollback governs them all.
func (r *repository) conn(ctx context.Context) *gorm.DB {
	if r.tx == nil {
		return r.db.WithContext(ctx)
	}
	db := r.db.Session(&gorm.Session{Context: ctx, NewDB: true})
	db.Statement.ConnPool = r.tx
	return db
}

func (r *repository) Create(ctx context.Context, a *AttendanceRecord) error {
	return r.conn(ctx).Create(a).Error
}

func (r *repository) FindOpenByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*AttendanceRecord, error) {
	var a AttendanceRecord
	err := r.conn(ctx).
		Where("employee_id = ?", employeeID).
		Where("attendance_date = ?", date.Format("2006-01-02")).
		Where("check_out_time IS NULL").
		First(&a).Error
	return &a, err
}

func (r *repository) FindByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*AttendanceRecord, error) {
	var a AttendanceRecord
	err := r.conn(ctx).
		Where("employee_id = ?", employeeID).
		Where("attendance_date = ?", date.Format("2006-01-02")).
		Order("check_in_time DESC").
		First(&a).Error
	return &a, err
}

func (r *repository) FindByIDAndEmployee(ctx context.Context, id, employeeID string) (*AttendanceRecord, error) {
	var a AttendanceRecord
	err := r.conn(ctx).
		Where("id = ?", id).
		Where("employee_id = ?", employeeID).
		First(&a).Error
	return &a, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*AttendanceRecord, error) {
	var a AttendanceRecord
	err := r.conn(ctx).First(&a, "id = ?", id).Error
	return &a, err
}

func (r *repository) Update(ctx context.Context, a *AttendanceRecord) error {
	return r.conn(ctx).Save(a).Error
}

func (r *repository) CloseSession(ctx context.Context, a *AttendanceRecord) (int64, error) {
	res := r.conn(ctx).
		Model(&AttendanceRecord{}).
		Where("id = ?", a.ID).
		Where("check_out_time IS NULL").
		Updates(map[string]any{
			"check_out_time":        a.CheckOutTime,
			"work_duration_minutes": a.WorkDurationMinutes,
			"minutes_early":         a.MinutesEarly,
			"location_lat":          a.LocationLat,
			"location_lng":          a.LocationLng,
		})
	return res.RowsAffected, res.Error
}

func (r *repository) Search(ctx context.Context, q ListQuery) ([]AttendanceRecord, int64, error) {
	query := r.conn(ctx).Model(&AttendanceRecord{})

	if q.EmployeeID != "" {
		query = query.Where("employee_id = ?", q.EmployeeID)
	}
	if q.StartDate != nil {
		query = query.Where("attendance_date >= ?", q.StartDate.Format("2006-01-02"))
	}
	if q.EndDate != nil {
		query = query.Where("attendance_date <= ?", q.EndDate.Format("2006-01-02"))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (q.Page - 1) * q.PageSize
	var rows []AttendanceRecord
	err := query.
		Order("attendance_date DESC, check_in_time DESC").
		Offset(offset).
		Limit(q.PageSize).
		Find(&rows).Error
	return rows, total, err
}
