package biometric

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newRepoTestDB(t *testing.T) (*gorm.DB, *sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		SkipDefaultTransaction: true,
		DisableAutomaticPing:   true,
	})
	assert.NoError(t, err)
	return gormDB, db, mock
}

func TestTemplateRepository_WithTx_BindsStatementsToTx(t *testing.T) {
	gormDB, db, mock := newRepoTestDB(t)
	defer db.Close()

	repo := NewRepository(gormDB).(*repository)

	mock.ExpectBegin()
	tx, err := db.Begin()
	assert.NoError(t, err)

	bound := repo.WithTx(tx).(*repository)
	got, ok := bound.conn(context.Background()).Statement.ConnPool.(*sql.Tx)
	assert.True(t, ok)
	assert.Same(t, tx, got)

	// Without an attached transaction statements go to the pool.
	_, isTx := repo.conn(context.Background()).Statement.ConnPool.(*sql.Tx)
	assert.False(t, isTx)
}

func TestTemplateRepository_DeactivateRollsBackWithTx(t *testing.T) {
	gormDB, db, mock := newRepoTestDB(t)
	defer db.Close()

	repo := NewRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "biometric_templates" SET .+ WHERE employee_id = .+ AND modality = .+ AND is_active = .+`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectRollback()

	tx, err := db.Begin()
	assert.NoError(t, err)

	err = repo.WithTx(tx).DeactivateAllByEmployeeAndModality(context.Background(), uuid.New().String(), ModalityFace)
	assert.NoError(t, err)

	// Rolling back the surrounding transaction takes the deactivate with
	// it; a failed insert can never strand the employee without an
	// active template.
	assert.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}
