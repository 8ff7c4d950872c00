package biometric

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	biometricerrors "go-biotime/internal/biometric/errors"

	"github.com/stretchr/testify/assert"
)

func extractorServer(t *testing.T, resp extractResponse) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/extract", r.URL.Path)

		var req extractRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.NotEmpty(t, req.Modality)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestHTTPExtractor_Extract(t *testing.T) {
	srv := extractorServer(t, extractResponse{
		Embedding:     []float32{0.1, 0.2},
		LivenessScore: 0.93,
		SamplesFound:  1,
	})
	defer srv.Close()

	ex := NewHTTPExtractor(srv.URL, time.Second)

	out, err := ex.Extract(context.Background(), []byte("capture"), ModalityFace)
	assert.NoError(t, err)
	assert.Equal(t, Embedding{0.1, 0.2}, out.Embedding)
	assert.InDelta(t, 0.93, out.LivenessScore, 1e-6)
}

func TestHTTPExtractor_NoSample(t *testing.T) {
	srv := extractorServer(t, extractResponse{SamplesFound: 0})
	defer srv.Close()

	ex := NewHTTPExtractor(srv.URL, time.Second)

	_, err := ex.Extract(context.Background(), []byte("empty frame"), ModalityFace)
	assert.ErrorIs(t, err, biometricerrors.ErrNoSampleDetected)
}

func TestHTTPExtractor_MultipleSamples(t *testing.T) {
	srv := extractorServer(t, extractResponse{
		Embedding:    []float32{0.1},
		SamplesFound: 2,
	})
	defer srv.Close()

	ex := NewHTTPExtractor(srv.URL, time.Second)

	_, err := ex.Extract(context.Background(), []byte("crowd"), ModalityFace)
	assert.ErrorIs(t, err, biometricerrors.ErrMultipleSamplesDetected)
}

func TestHTTPExtractor_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	ex := NewHTTPExtractor(srv.URL, 20*time.Millisecond)

	_, err := ex.Extract(context.Background(), []byte("capture"), ModalityFingerprint)
	assert.ErrorIs(t, err, biometricerrors.ErrExtractionTimeout)
}

func TestHTTPExtractor_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	ex := NewHTTPExtractor(srv.URL, time.Second)

	_, err := ex.Extract(context.Background(), []byte("capture"), ModalityFace)
	assert.Error(t, err)
}
