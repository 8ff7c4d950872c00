package attendance_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-biotime/internal/attendance"
	attendanceerrors "go-biotime/internal/attendance/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeService struct {
	checkInFn  func(ctx context.Context, employeeID string, req attendance.CheckInRequest) (attendance.AttendanceResponse, error)
	checkOutFn func(ctx context.Context, employeeID string, req attendance.CheckOutRequest) (attendance.AttendanceResponse, error)
	listFn     func(ctx context.Context, q attendance.ListQuery) ([]attendance.AttendanceResponse, int64, error)
	todayFn    func(ctx context.Context, employeeID string) (attendance.TodayResponse, error)
	overrideFn func(ctx context.Context, id, actorID string, req attendance.OverrideRequest) (attendance.AttendanceResponse, error)
}

func (f *fakeService) CheckIn(ctx context.Context, employeeID string, req attendance.CheckInRequest) (attendance.AttendanceResponse, error) {
	return f.checkInFn(ctx, employeeID, req)
}
func (f *fakeService) CheckOut(ctx context.Context, employeeID string, req attendance.CheckOutRequest) (attendance.AttendanceResponse, error) {
	return f.checkOutFn(ctx, employeeID, req)
}
func (f *fakeService) List(ctx context.Context, q attendance.ListQuery) ([]attendance.AttendanceResponse, int64, error) {
	return f.listFn(ctx, q)
}
func (f *fakeService) Today(ctx context.Context, employeeID string) (attendance.TodayResponse, error) {
	return f.todayFn(ctx, employeeID)
}
func (f *fakeService) Override(ctx context.Context, id, actorID string, req attendance.OverrideRequest) (attendance.AttendanceResponse, error) {
	return f.overrideFn(ctx, id, actorID, req)
}

func TestHandler_CheckIn(t *testing.T) {
	gin.SetMode(gin.TestMode)
	employeeID := uuid.New().String()

	svc := &fakeService{
		checkInFn: func(ctx context.Context, eid string, req attendance.CheckInRequest) (attendance.AttendanceResponse, error) {
			assert.Equal(t, employeeID, eid)
			assert.Equal(t, attendance.MethodManual, req.Method)
			return attendance.AttendanceResponse{ID: uuid.New().String(), EmployeeID: eid, Status: attendance.StatusOnTime}, nil
		},
	}

	h := attendance.NewHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("employee_id", employeeID)
	c.Request = httptest.NewRequest(http.MethodPost, "/attendances/check-in", strings.NewReader(`{"method":"manual"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	h.CheckIn(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"ok":true`)
	assert.Contains(t, w.Body.String(), attendance.StatusOnTime)
}

func TestHandler_CheckIn_Conflict(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &fakeService{
		checkInFn: func(ctx context.Context, eid string, req attendance.CheckInRequest) (attendance.AttendanceResponse, error) {
			return attendance.AttendanceResponse{}, attendanceerrors.ErrAlreadyCheckedIn
		},
	}

	h := attendance.NewHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("employee_id", uuid.New().String())
	c.Request = httptest.NewRequest(http.MethodPost, "/attendances/check-in", strings.NewReader(`{"method":"manual"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	h.CheckIn(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), `"ok":false`)
}

func TestHandler_CheckIn_MissingClaim(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := attendance.NewHandler(&fakeService{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/attendances/check-in", strings.NewReader(`{"method":"manual"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	h.CheckIn(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandler_CheckOut_NoActiveSession(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &fakeService{
		checkOutFn: func(ctx context.Context, eid string, req attendance.CheckOutRequest) (attendance.AttendanceResponse, error) {
			return attendance.AttendanceResponse{}, attendanceerrors.ErrNoActiveCheckIn
		},
	}

	h := attendance.NewHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("employee_id", uuid.New().String())
	c.Request = httptest.NewRequest(http.MethodPost, "/attendances/check-out", strings.NewReader(`{}`))
	c.Request.Header.Set("Content-Type", "application/json")
	h.CheckOut(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_List_NonPrivilegedSeesOwnRows(t *testing.T) {
	gin.SetMode(gin.TestMode)
	actorID := uuid.New().String()
	otherID := uuid.New().String()

	var captured attendance.ListQuery
	svc := &fakeService{
		listFn: func(ctx context.Context, q attendance.ListQuery) ([]attendance.AttendanceResponse, int64, error) {
			captured = q
			return nil, 0, nil
		},
	}

	h := attendance.NewHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("employee_id", actorID)
	c.Set("role", "EMPLOYEE")
	c.Request = httptest.NewRequest(http.MethodGet, "/attendances?employee_id="+otherID, nil)
	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, actorID, captured.EmployeeID)
}

func TestHandler_List_PrivilegedFilters(t *testing.T) {
	gin.SetMode(gin.TestMode)
	otherID := uuid.New().String()

	var captured attendance.ListQuery
	svc := &fakeService{
		listFn: func(ctx context.Context, q attendance.ListQuery) ([]attendance.AttendanceResponse, int64, error) {
			captured = q
			return []attendance.AttendanceResponse{{ID: uuid.New().String()}}, 1, nil
		},
	}

	h := attendance.NewHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("employee_id", uuid.New().String())
	c.Set("role", "HR_ADMIN")
	c.Request = httptest.NewRequest(http.MethodGet, "/attendances?employee_id="+otherID+"&start_date=2026-03-01&end_date=2026-03-31", nil)
	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, otherID, captured.EmployeeID)
	assert.NotNil(t, captured.StartDate)
	assert.NotNil(t, captured.EndDate)
	assert.Contains(t, w.Body.String(), `"meta"`)
}

func TestHandler_List_BadDate(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := attendance.NewHandler(&fakeService{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("employee_id", uuid.New().String())
	c.Set("role", "EMPLOYEE")
	c.Request = httptest.NewRequest(http.MethodGet, "/attendances?start_date=03-01-2026", nil)
	h.List(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_Today(t *testing.T) {
	gin.SetMode(gin.TestMode)
	employeeID := uuid.New().String()

	svc := &fakeService{
		todayFn: func(ctx context.Context, eid string) (attendance.TodayResponse, error) {
			assert.Equal(t, employeeID, eid)
			return attendance.TodayResponse{CheckedIn: false}, nil
		},
	}

	h := attendance.NewHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("employee_id", employeeID)
	c.Request = httptest.NewRequest(http.MethodGet, "/attendances/today", nil)
	h.Today(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"checked_in":false`)
}

func TestHandler_Override_ReasonRequired(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := attendance.NewHandler(&fakeService{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("user_id", uuid.New().String())
	c.Params = gin.Params{{Key: "id", Value: uuid.New().String()}}
	c.Request = httptest.NewRequest(http.MethodPost, "/attendances/override/x", strings.NewReader(`{"status":"on_time"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	h.Override(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_Override(t *testing.T) {
	gin.SetMode(gin.TestMode)
	actorID := uuid.New().String()
	recordID := uuid.New().String()

	svc := &fakeService{
		overrideFn: func(ctx context.Context, id, actor string, req attendance.OverrideRequest) (attendance.AttendanceResponse, error) {
			assert.Equal(t, recordID, id)
			assert.Equal(t, actorID, actor)
			assert.Equal(t, "badge reader outage", req.Reason)
			return attendance.AttendanceResponse{ID: id, IsOverride: true}, nil
		},
	}

	h := attendance.NewHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("user_id", actorID)
	c.Params = gin.Params{{Key: "id", Value: recordID}}
	c.Request = httptest.NewRequest(http.MethodPost, "/attendances/override/"+recordID, strings.NewReader(`{"reason":"badge reader outage"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	h.Override(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"is_override":true`)
}
