package attendance

import (
	"context"
	"database/sql"
	"testing"
	"time"

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

func TestRepository_WithTx_BindsStatementsToTx(t *testing.T) {
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

func TestRepository_TxStatementsRollBackTogether(t *testing.T) {
	gormDB, db, mock := newRepoTestDB(t)
	defer db.Close()

	repo := NewRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "attendance_records" SET .+ WHERE id = .+ AND check_out_time IS NULL`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	tx, err := db.Begin()
	assert.NoError(t, err)

	now := time.Now().UTC()
	duration := 480
	affected, err := repo.WithTx(tx).CloseSession(context.Background(), &AttendanceRecord{
		ID:                  uuid.New(),
		CheckOutTime:        &now,
		WorkDurationMinutes: &duration,
	})
	assert.NoError(t, err)
	assert.EqualValues(t, 1, affected)

	assert.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CloseSession_ZeroRowsWhenAlreadyClosed(t *testing.T) {
	gormDB, db, mock := newRepoTestDB(t)
	defer db.Close()

	repo := NewRepository(gormDB)

	mock.ExpectExec(`UPDATE "attendance_records" SET .+ WHERE id = .+ AND check_out_time IS NULL`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	now := time.Now().UTC()
	affected, err := repo.CloseSession(context.Background(), &AttendanceRecord{
		ID:           uuid.New(),
		CheckOutTime: &now,
	})
	assert.NoError(t, err)
	assert.Zero(t, affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}
