package biometric

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	biometricerrors "go-biotime/internal/biometric/errors"
)

// httpExtractor calls the recognition service over HTTP. The service is
// an opaque capability: it gets raw sample bytes and answers with an
// embedding, a liveness score and how many subjects it saw.
type httpExtractor struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
}

func NewHTTPExtractor(baseURL string, timeout time.Duration) Extractor {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &httpExtractor{
		baseURL: baseURL,
		client:  &http.Client{},
		timeout: timeout,
	}
}

type extractRequest struct {
	Sample   []byte `json:"sample"`
	Modality string `json:"modality"`
}

type extractResponse struct {
	Embedding     []float32 `json:"embedding"`
	LivenessScore float64   `json:"liveness_score"`
	SamplesFound  int       `json:"samples_found"`
}

func (e *httpExtractor) Extract(ctx context.Context, sample []byte, modality string) (Extraction, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	body, err := json.Marshal(extractRequest{Sample: sample, Modality: modality})
	if err != nil {
		return Extraction{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/extract", bytes.NewReader(body))
	if err != nil {
		return Extraction{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return Extraction{}, biometricerrors.ErrExtractionTimeout
		}
		return Extraction{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Extraction{}, fmt.Errorf("extraction service returned status %d", resp.StatusCode)
	}

	var out extractResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Extraction{}, err
	}

	switch {
	case out.SamplesFound == 0 || len(out.Embedding) == 0:
		return Extraction{}, biometricerrors.ErrNoSampleDetected
	case out.SamplesFound > 1:
		return Extraction{}, biometricerrors.ErrMultipleSamplesDetected
	}

	return Extraction{
		Embedding:     Embedding(out.Embedding),
		LivenessScore: out.LivenessScore,
	}, nil
}
