package biometric

import (
	"net/http"

	"go-biotime/internal/shared/apperror"
	"go-biotime/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Enroll(c *gin.Context) {
	modality := c.Param("modality")

	var req EnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		mapped := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, mapped.Status, mapped.Code, mapped.Message, nil)
		return
	}

	var deviceID *uuid.UUID
	if req.DeviceID != nil {
		id, err := uuid.Parse(*req.DeviceID)
		if err != nil {
			response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "Invalid device ID", nil)
			return
		}
		deviceID = &id
	}

	resp, err := h.service.EnrollFromSample(c.Request.Context(), req.EmployeeID, modality, req.Sample, deviceID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) Verify(c *gin.Context) {
	modality := c.Param("modality")

	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		mapped := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, mapped.Status, mapped.Code, mapped.Message, nil)
		return
	}

	result, err := h.service.Verify(c.Request.Context(), req.EmployeeID, modality, req.Sample)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if !result.Verified {
		// Below-threshold verdicts are authentication failures; the
		// result still reports confidence so the operator can tell a
		// near miss from noise.
		response.Error(c, http.StatusUnauthorized, apperror.CodeVerificationFailed, "Biometric verification failed", result)
		return
	}
	response.Success(c, http.StatusOK, result, nil)
}

func (h *Handler) ListTemplates(c *gin.Context) {
	employeeID := c.Param("employee_id")

	resp, err := h.service.ListTemplates(c.Request.Context(), employeeID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Deactivate(c *gin.Context) {
	if err := h.service.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deactivated": true}, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true}, nil)
}
