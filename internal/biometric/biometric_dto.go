package biometric

import "time"

type EnrollRequest struct {
	EmployeeID string  `json:"employee_id" binding:"required,uuid"`
	Sample     []byte  `json:"sample" binding:"required"`
	DeviceID   *string `json:"device_id,omitempty"`
}

type VerifyRequest struct {
	EmployeeID string `json:"employee_id" binding:"required,uuid"`
	Sample     []byte `json:"sample" binding:"required"`
}

type EnrollResponse struct {
	TemplateID    string  `json:"template_id"`
	LivenessScore float64 `json:"liveness_score"`
}

// TemplateResponse exposes template metadata only. Payloads and content
// hashes never leave the store.
type TemplateResponse struct {
	ID           string   `json:"id"`
	Modality     string   `json:"modality"`
	EnrolledAt   string   `json:"enrolled_at"`
	IsActive     bool     `json:"is_active"`
	QualityScore *float64 `json:"quality_score,omitempty"`
	DeviceID     *string  `json:"device_id,omitempty"`
}

func mapTemplateToResponse(t BiometricTemplate) TemplateResponse {
	resp := TemplateResponse{
		ID:           t.ID.String(),
		Modality:     t.Modality,
		EnrolledAt:   t.EnrolledAt.Format(time.RFC3339),
		IsActive:     t.IsActive,
		QualityScore: t.QualityScore,
	}
	if t.DeviceID != nil {
		v := t.DeviceID.String()
		resp.DeviceID = &v
	}
	return resp
}
