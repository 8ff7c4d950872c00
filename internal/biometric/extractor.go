package biometric

import (
	"context"
)

// Extraction is what the external feature-extraction capability returns
// for one capture: the embedding and how confident the liveness model is
// that the sample came from a live subject.
type Extraction struct {
	Embedding     Embedding
	LivenessScore float64
}

//go:generate mockgen -source=extractor.go -destination=mock/extractor_mock.go -package=mock

// Extractor is the injected extraction/liveness capability. The
// production implementation wraps the recognition service; tests use
// deterministic doubles. Implementations return
// biometricerrors.ErrNoSampleDetected when nothing usable is in the
// capture, ErrMultipleSamplesDetected when it is ambiguous, and
// ErrExtractionTimeout when the caller-supplied context deadline
// expires.
type Extractor interface {
	Extract(ctx context.Context, sample []byte, modality string) (Extraction, error)
}
