package biometric

import (
	"context"
	"database/sql"
	"time"

	biometricerrors "go-biotime/internal/biometric/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ActiveTemplate is a decrypted template held transiently in memory for
// comparison. It is never persisted or logged in this form.
type ActiveTemplate struct {
	ID           string
	Embedding    Embedding
	QualityScore *float64
}

//go:generate mockgen -source=store.go -destination=mock/store_mock.go -package=mock

// Store owns encrypted biometric templates: enrollment with duplicate
// detection, decrypt-on-read access for the matcher, and administrative
// deactivation and removal.
type Store interface {
	Enroll(ctx context.Context, employeeID, modality string, embedding Embedding, qualityScore *float64, deviceID *uuid.UUID) (string, error)
	ActiveTemplates(ctx context.Context, employeeID, modality string) ([]ActiveTemplate, error)
	ListTemplates(ctx context.Context, employeeID string) ([]BiometricTemplate, error)
	Deactivate(ctx context.Context, templateID string) error
	Delete(ctx context.Context, templateID string) error
}

type store struct {
	db     *sql.DB
	repo   Repository
	cipher *TemplateCipher
	logger *zap.Logger
}

func NewStore(db *sql.DB, repo Repository, cipher *TemplateCipher, logger ...*zap.Logger) Store {
	l := zap.L().Named("biometric.store")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("biometric.store")
	}
	return &store{db: db, repo: repo, cipher: cipher, logger: l}
}

// Enroll hashes, checks for a cross-employee duplicate, encrypts, then
// atomically supersedes the employee's active templates of the same
// modality. The partial unique indexes re-check both invariants inside
// the transaction, so a concurrent loser surfaces EnrollmentConflict or
// DuplicateTemplate instead of a second active row.
func (s *store) Enroll(
	ctx context.Context,
	employeeID, modality string,
	embedding Embedding,
	qualityScore *float64,
	deviceID *uuid.UUID,
) (string, error) {
	if !ValidModality(modality) {
		return "", biometricerrors.ErrInvalidModality
	}
	if len(embedding) == 0 {
		return "", biometricerrors.ErrNoSampleDetected
	}

	hash := embedding.ContentHash()

	dup, err := s.repo.ActiveHashOwnedByOther(ctx, hash, employeeID)
	if err != nil {
		return "", err
	}
	if dup {
		s.logger.Warn("duplicate template rejected",
			zap.String("employee_id", employeeID),
			zap.String("modality", modality),
		)
		return "", biometricerrors.ErrDuplicateTemplate
	}

	ciphertext, err := s.cipher.Encrypt(embedding.Bytes())
	if err != nil {
		return "", err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.DeactivateAllByEmployeeAndModality(ctx, employeeID, modality); err != nil {
		return "", mapRepositoryError(err)
	}

	row := &BiometricTemplate{
		ID:                uuid.New(),
		EmployeeID:        uuid.MustParse(employeeID),
		Modality:          modality,
		EncryptedTemplate: ciphertext,
		TemplateHash:      hash,
		DeviceID:          deviceID,
		QualityScore:      qualityScore,
		IsActive:          true,
		EnrolledAt:        time.Now().UTC(),
	}
	if err := qtx.Create(ctx, row); err != nil {
		return "", mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		return "", mapRepositoryError(err)
	}

	s.logger.Info("template enrolled",
		zap.String("template_id", row.ID.String()),
		zap.String("employee_id", employeeID),
		zap.String("modality", modality),
	)
	return row.ID.String(), nil
}

// ActiveTemplates decrypts on read. A template that no longer decrypts
// under the current key (rotation, corruption) is skipped with a warning
// so the employee's remaining templates still work; when every stored
// template is unreadable the caller gets DecryptionFailed.
func (s *store) ActiveTemplates(ctx context.Context, employeeID, modality string) ([]ActiveTemplate, error) {
	rows, err := s.repo.FindActiveByEmployeeAndModality(ctx, employeeID, modality)
	if err != nil {
		return nil, err
	}

	out := make([]ActiveTemplate, 0, len(rows))
	for _, row := range rows {
		plaintext, err := s.cipher.Decrypt(row.EncryptedTemplate)
		if err != nil {
			s.logger.Warn("template decryption failed, skipping",
				zap.String("template_id", row.ID.String()),
				zap.Error(err),
			)
			continue
		}
		emb, err := EmbeddingFromBytes(plaintext)
		if err != nil {
			s.logger.Warn("template payload malformed, skipping",
				zap.String("template_id", row.ID.String()),
				zap.Error(err),
			)
			continue
		}
		out = append(out, ActiveTemplate{
			ID:           row.ID.String(),
			Embedding:    emb,
			QualityScore: row.QualityScore,
		})
	}

	if len(rows) > 0 && len(out) == 0 {
		return nil, biometricerrors.ErrDecryptionFailed
	}
	return out, nil
}

func (s *store) ListTemplates(ctx context.Context, employeeID string) ([]BiometricTemplate, error) {
	return s.repo.FindAllByEmployee(ctx, employeeID)
}

// Deactivate is idempotent; deactivating an absent or already inactive
// template is a no-op.
func (s *store) Deactivate(ctx context.Context, templateID string) error {
	return mapRepositoryError(s.repo.DeactivateByID(ctx, templateID))
}

func (s *store) Delete(ctx context.Context, templateID string) error {
	affected, err := s.repo.DeleteByID(ctx, templateID)
	if err != nil {
		return mapRepositoryError(err)
	}
	if affected == 0 {
		return biometricerrors.ErrTemplateNotFound
	}
	s.logger.Info("template deleted", zap.String("template_id", templateID))
	return nil
}
