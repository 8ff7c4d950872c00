package biometric_test

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-biotime/internal/biometric"
	biometricerrors "go-biotime/internal/biometric/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeBiometricService struct {
	enrollFn        func(ctx context.Context, employeeID, modality string, sample []byte, deviceID *uuid.UUID) (biometric.EnrollResponse, error)
	verifyFn        func(ctx context.Context, employeeID, modality string, sample []byte) (biometric.VerificationResult, error)
	listTemplatesFn func(ctx context.Context, employeeID string) ([]biometric.TemplateResponse, error)
	deactivateFn    func(ctx context.Context, templateID string) error
	deleteFn        func(ctx context.Context, templateID string) error
}

func (f *fakeBiometricService) EnrollFromSample(ctx context.Context, employeeID, modality string, sample []byte, deviceID *uuid.UUID) (biometric.EnrollResponse, error) {
	return f.enrollFn(ctx, employeeID, modality, sample, deviceID)
}
func (f *fakeBiometricService) Verify(ctx context.Context, employeeID, modality string, sample []byte) (biometric.VerificationResult, error) {
	return f.verifyFn(ctx, employeeID, modality, sample)
}
func (f *fakeBiometricService) ListTemplates(ctx context.Context, employeeID string) ([]biometric.TemplateResponse, error) {
	return f.listTemplatesFn(ctx, employeeID)
}
func (f *fakeBiometricService) Deactivate(ctx context.Context, templateID string) error {
	return f.deactivateFn(ctx, templateID)
}
func (f *fakeBiometricService) Delete(ctx context.Context, templateID string) error {
	return f.deleteFn(ctx, templateID)
}

func verifyBody(employeeID string) string {
	sample := base64.StdEncoding.EncodeToString([]byte("capture"))
	return fmt.Sprintf(`{"employee_id":%q,"sample":%q}`, employeeID, sample)
}

func TestHandler_Verify(t *testing.T) {
	gin.SetMode(gin.TestMode)
	employeeID := uuid.New().String()

	svc := &fakeBiometricService{
		verifyFn: func(ctx context.Context, eid, modality string, sample []byte) (biometric.VerificationResult, error) {
			assert.Equal(t, employeeID, eid)
			assert.Equal(t, biometric.ModalityFace, modality)
			assert.Equal(t, []byte("capture"), sample)
			return biometric.VerificationResult{Verified: true, Confidence: 0.92, LivenessScore: 0.9}, nil
		},
	}

	h := biometric.NewHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "modality", Value: biometric.ModalityFace}}
	c.Request = httptest.NewRequest(http.MethodPost, "/biometrics/verify/face", strings.NewReader(verifyBody(employeeID)))
	c.Request.Header.Set("Content-Type", "application/json")
	h.Verify(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"verified":true`)
}

func TestHandler_Verify_BelowThreshold(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &fakeBiometricService{
		verifyFn: func(ctx context.Context, eid, modality string, sample []byte) (biometric.VerificationResult, error) {
			return biometric.VerificationResult{Verified: false, Confidence: 0.55, LivenessScore: 0.9}, nil
		},
	}

	h := biometric.NewHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "modality", Value: biometric.ModalityFace}}
	c.Request = httptest.NewRequest(http.MethodPost, "/biometrics/verify/face", strings.NewReader(verifyBody(uuid.New().String())))
	c.Request.Header.Set("Content-Type", "application/json")
	h.Verify(c)

	// An unmatched sample is 401 with the verdict in the error details.
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"ok":false`)
	assert.Contains(t, w.Body.String(), `"confidence":0.55`)
}

func TestHandler_Verify_NoEnrollment(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &fakeBiometricService{
		verifyFn: func(ctx context.Context, eid, modality string, sample []byte) (biometric.VerificationResult, error) {
			return biometric.VerificationResult{}, biometricerrors.ErrNoEnrollment
		},
	}

	h := biometric.NewHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "modality", Value: biometric.ModalityFace}}
	c.Request = httptest.NewRequest(http.MethodPost, "/biometrics/verify/face", strings.NewReader(verifyBody(uuid.New().String())))
	c.Request.Header.Set("Content-Type", "application/json")
	h.Verify(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_Verify_MissingSample(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := biometric.NewHandler(&fakeBiometricService{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "modality", Value: biometric.ModalityFace}}
	c.Request = httptest.NewRequest(http.MethodPost, "/biometrics/verify/face", strings.NewReader(fmt.Sprintf(`{"employee_id":%q}`, uuid.New().String())))
	c.Request.Header.Set("Content-Type", "application/json")
	h.Verify(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_Enroll(t *testing.T) {
	gin.SetMode(gin.TestMode)
	employeeID := uuid.New().String()
	deviceID := uuid.New().String()

	svc := &fakeBiometricService{
		enrollFn: func(ctx context.Context, eid, modality string, sample []byte, devID *uuid.UUID) (biometric.EnrollResponse, error) {
			assert.Equal(t, employeeID, eid)
			assert.Equal(t, biometric.ModalityFingerprint, modality)
			assert.NotNil(t, devID)
			assert.Equal(t, deviceID, devID.String())
			return biometric.EnrollResponse{TemplateID: uuid.New().String(), LivenessScore: 0.88}, nil
		},
	}

	h := biometric.NewHandler(svc)

	sample := base64.StdEncoding.EncodeToString([]byte("scan"))
	body := fmt.Sprintf(`{"employee_id":%q,"sample":%q,"device_id":%q}`, employeeID, sample, deviceID)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "modality", Value: biometric.ModalityFingerprint}}
	c.Request = httptest.NewRequest(http.MethodPost, "/biometrics/enroll/fingerprint", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	h.Enroll(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"template_id"`)
}

func TestHandler_Enroll_DuplicateTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &fakeBiometricService{
		enrollFn: func(ctx context.Context, eid, modality string, sample []byte, devID *uuid.UUID) (biometric.EnrollResponse, error) {
			return biometric.EnrollResponse{}, biometricerrors.ErrDuplicateTemplate
		},
	}

	h := biometric.NewHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "modality", Value: biometric.ModalityFace}}
	c.Request = httptest.NewRequest(http.MethodPost, "/biometrics/enroll/face", strings.NewReader(verifyBody(uuid.New().String())))
	c.Request.Header.Set("Content-Type", "application/json")
	h.Enroll(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestHandler_ListTemplates(t *testing.T) {
	gin.SetMode(gin.TestMode)
	employeeID := uuid.New().String()

	svc := &fakeBiometricService{
		listTemplatesFn: func(ctx context.Context, eid string) ([]biometric.TemplateResponse, error) {
			assert.Equal(t, employeeID, eid)
			return []biometric.TemplateResponse{{ID: uuid.New().String(), Modality: biometric.ModalityFace, IsActive: true}}, nil
		},
	}

	h := biometric.NewHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "employee_id", Value: employeeID}}
	c.Request = httptest.NewRequest(http.MethodGet, "/biometrics/employees/"+employeeID+"/templates", nil)
	h.ListTemplates(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"modality":"face"`)
	// Metadata only: ciphertext and hashes stay inside the store.
	assert.NotContains(t, w.Body.String(), "template_hash")
	assert.NotContains(t, w.Body.String(), "encrypted")
}

func TestHandler_Delete_NotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &fakeBiometricService{
		deleteFn: func(ctx context.Context, templateID string) error {
			return biometricerrors.ErrTemplateNotFound
		},
	}

	h := biometric.NewHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: uuid.New().String()}}
	c.Request = httptest.NewRequest(http.MethodDelete, "/biometrics/templates/x", nil)
	h.Delete(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
