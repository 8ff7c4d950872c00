package biometric

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
)

const (
	ModalityFace        = "face"
	ModalityFingerprint = "fingerprint"
)

func ValidModality(m string) bool {
	return m == ModalityFace || m == ModalityFingerprint
}

// Embedding is a fixed-size feature vector produced by the extraction
// capability. Equal byte representations imply the same captured
// identity for the chosen extractor.
type Embedding []float32

// Bytes is the canonical little-endian encoding. Both the content hash
// and the encrypted payload are computed over this form, so hashing and
// storage always agree.
func (e Embedding) Bytes() []byte {
	buf := make([]byte, 4*len(e))
	for i, v := range e {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

func EmbeddingFromBytes(b []byte) (Embedding, error) {
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("embedding payload length %d is not a multiple of 4", len(b))
	}
	e := make(Embedding, len(b)/4)
	for i := range e {
		e[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return e, nil
}

// ContentHash is the sha256 of the plaintext canonical bytes, hex
// encoded. Computed before encryption so duplicate detection works
// without decrypting anything.
func (e Embedding) ContentHash() string {
	sum := sha256.Sum256(e.Bytes())
	return hex.EncodeToString(sum[:])
}

// CosineSimilarity maps cosine similarity from [-1,1] into [0,1].
// Dimension mismatches and zero vectors score 0 rather than erroring:
// a template from an older extractor simply never matches.
func CosineSimilarity(a, b Embedding) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	cos := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	// Clamp before mapping; float error can push cos a hair out of range.
	if cos > 1 {
		cos = 1
	} else if cos < -1 {
		cos = -1
	}
	return (cos + 1) / 2
}
