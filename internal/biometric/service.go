package biometric

import (
	"context"

	biometricerrors "go-biotime/internal/biometric/errors"
	"go-biotime/internal/directory"
	"go-biotime/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// VerificationResult is the matcher's verdict for one capture. For fixed
// templates, sample and thresholds the verdict and confidence are
// reproducible.
type VerificationResult struct {
	Verified      bool    `json:"verified"`
	Confidence    float64 `json:"confidence"`
	LivenessScore float64 `json:"liveness_score"`
}

// MatcherConfig carries the comparison thresholds, fixed at construction.
type MatcherConfig struct {
	MatchThreshold    float64
	LivenessThreshold float64
}

//go:generate mockgen -source=service.go -destination=mock/service_mock.go -package=mock
type Service interface {
	// EnrollFromSample runs extraction and the liveness gate on an
	// admin-submitted capture, then hands the embedding to the store.
	EnrollFromSample(ctx context.Context, employeeID, modality string, sample []byte, deviceID *uuid.UUID) (EnrollResponse, error)
	// Verify decides whether the live sample matches the claimed
	// employee. An unverified result is returned without error; gate
	// failures (no sample, liveness, no enrollment) are errors.
	Verify(ctx context.Context, employeeID, modality string, sample []byte) (VerificationResult, error)
	ListTemplates(ctx context.Context, employeeID string) ([]TemplateResponse, error)
	Deactivate(ctx context.Context, templateID string) error
	Delete(ctx context.Context, templateID string) error
}

type service struct {
	store     Store
	extractor Extractor
	dir       directory.Service
	cfg       MatcherConfig
	logger    *zap.Logger
}

func NewService(store Store, extractor Extractor, dir directory.Service, cfg MatcherConfig, logger ...*zap.Logger) Service {
	l := zap.L().Named("biometric.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("biometric.service")
	}
	return &service{
		store:     store,
		extractor: extractor,
		dir:       dir,
		cfg:       cfg,
		logger:    l,
	}
}

func (s *service) EnrollFromSample(
	ctx context.Context,
	employeeID, modality string,
	sample []byte,
	deviceID *uuid.UUID,
) (EnrollResponse, error) {
	if !ValidModality(modality) {
		return EnrollResponse{}, biometricerrors.ErrInvalidModality
	}

	if _, err := s.dir.GetActiveEmployee(ctx, employeeID); err != nil {
		return EnrollResponse{}, err
	}

	extraction, err := s.extractor.Extract(ctx, sample, modality)
	if err != nil {
		return EnrollResponse{}, err
	}
	if extraction.LivenessScore < s.cfg.LivenessThreshold {
		return EnrollResponse{}, biometricerrors.ErrLivenessCheckFailed
	}

	quality := extraction.LivenessScore
	templateID, err := s.store.Enroll(ctx, employeeID, modality, extraction.Embedding, &quality, deviceID)
	if err != nil {
		return EnrollResponse{}, err
	}

	return EnrollResponse{
		TemplateID:    templateID,
		LivenessScore: extraction.LivenessScore,
	}, nil
}

// Verify implements the matcher contract: fetch templates, extract,
// liveness-gate, then best-match-wins comparison.
func (s *service) Verify(ctx context.Context, employeeID, modality string, sample []byte) (VerificationResult, error) {
	if !ValidModality(modality) {
		return VerificationResult{}, biometricerrors.ErrInvalidModality
	}

	templates, err := s.store.ActiveTemplates(ctx, employeeID, modality)
	if err != nil {
		return VerificationResult{}, err
	}
	if len(templates) == 0 {
		return VerificationResult{}, biometricerrors.ErrNoEnrollment
	}

	extraction, err := s.extractor.Extract(ctx, sample, modality)
	if err != nil {
		return VerificationResult{}, err
	}

	// The liveness gate runs before any comparison. A spoofed sample
	// that fails it must not learn how close its embedding got.
	if extraction.LivenessScore < s.cfg.LivenessThreshold {
		rid := contextutil.GetRequestID(ctx)
		s.logger.Warn("liveness check failed",
			zap.String("request_id", rid),
			zap.String("employee_id", employeeID),
			zap.Float64("liveness_score", extraction.LivenessScore),
		)
		return VerificationResult{}, biometricerrors.ErrLivenessCheckFailed
	}

	// Best match wins: any one active enrollment matching is enough.
	var best float64
	for _, tpl := range templates {
		if sim := CosineSimilarity(extraction.Embedding, tpl.Embedding); sim > best {
			best = sim
		}
	}

	result := VerificationResult{
		Verified:      best >= s.cfg.MatchThreshold,
		Confidence:    best,
		LivenessScore: extraction.LivenessScore,
	}
	if !result.Verified {
		s.logger.Warn("verification below threshold",
			zap.String("employee_id", employeeID),
			zap.Float64("confidence", best),
		)
	}
	return result, nil
}

func (s *service) ListTemplates(ctx context.Context, employeeID string) ([]TemplateResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, biometricerrors.ErrTemplateNotFound
	}
	rows, err := s.store.ListTemplates(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	resp := make([]TemplateResponse, len(rows))
	for i, row := range rows {
		resp[i] = mapTemplateToResponse(row)
	}
	return resp, nil
}

func (s *service) Deactivate(ctx context.Context, templateID string) error {
	return s.store.Deactivate(ctx, templateID)
}

func (s *service) Delete(ctx context.Context, templateID string) error {
	return s.store.Delete(ctx, templateID)
}
