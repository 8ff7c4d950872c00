package attendance

import "time"

type CheckInRequest struct {
	Method      string   `json:"method" binding:"required"`
	Sample      []byte   `json:"sample,omitempty"`
	DeviceID    *string  `json:"device_id,omitempty"`
	LocationLat *float64 `json:"location_lat,omitempty"`
	LocationLng *float64 `json:"location_lng,omitempty"`
}

// Check-out closes the session the check-in already verified; it
// carries no sample of its own.
type CheckOutRequest struct {
	AttendanceID *string  `json:"attendance_id,omitempty"`
	LocationLat  *float64 `json:"location_lat,omitempty"`
	LocationLng  *float64 `json:"location_lng,omitempty"`
}

type OverrideRequest struct {
	CheckInTime  *time.Time `json:"check_in_time,omitempty"`
	CheckOutTime *time.Time `json:"check_out_time,omitempty"`
	Status       *string    `json:"status,omitempty"`
	Reason       string     `json:"reason" binding:"required"`
}

type ListQuery struct {
	EmployeeID string
	StartDate  *time.Time
	EndDate    *time.Time
	Page       int
	PageSize   int
}

type AttendanceResponse struct {
	ID                  string   `json:"id"`
	EmployeeID          string   `json:"employee_id"`
	AttendanceDate      string   `json:"attendance_date"`
	CheckInTime         string   `json:"check_in_time"`
	CheckOutTime        *string  `json:"check_out_time,omitempty"`
	Method              string   `json:"method"`
	DeviceID            *string  `json:"device_id,omitempty"`
	Status              string   `json:"status"`
	MinutesLate         int      `json:"minutes_late"`
	MinutesEarly        int      `json:"minutes_early"`
	WorkDurationMinutes *int     `json:"work_duration_minutes,omitempty"`
	ConfidenceScore     *float64 `json:"confidence_score,omitempty"`
	LivenessScore       *float64 `json:"liveness_score,omitempty"`
	IsOverride          bool     `json:"is_override,omitempty"`
}

type TodayResponse struct {
	CheckedIn  bool                `json:"checked_in"`
	CheckedOut bool                `json:"checked_out"`
	Attendance *AttendanceResponse `json:"attendance"`
}

func mapToResponse(a AttendanceRecord) AttendanceResponse {
	resp := AttendanceResponse{
		ID:                  a.ID.String(),
		EmployeeID:          a.EmployeeID.String(),
		AttendanceDate:      a.AttendanceDate.Format("2006-01-02"),
		CheckInTime:         a.CheckInTime.Format(time.RFC3339),
		Method:              a.Method,
		Status:              a.Status,
		MinutesLate:         a.MinutesLate,
		MinutesEarly:        a.MinutesEarly,
		WorkDurationMinutes: a.WorkDurationMinutes,
		ConfidenceScore:     a.ConfidenceScore,
		LivenessScore:       a.LivenessScore,
		IsOverride:          a.IsOverride,
	}
	if a.CheckOutTime != nil {
		v := a.CheckOutTime.Format(time.RFC3339)
		resp.CheckOutTime = &v
	}
	if a.DeviceID != nil {
		v := a.DeviceID.String()
		resp.DeviceID = &v
	}
	return resp
}
