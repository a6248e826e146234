package parse

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})
	gormDB, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	return gormDB, mock
}

func TestEnsureParticipantsInsertsOnlyMissing(t *testing.T) {
	gormDB, mock := setupMockDB(t)

	mock.ExpectQuery("SELECT `participant_id` FROM `participants`").
		WillReturnRows(sqlmock.NewRows([]string{"participant_id"}).AddRow("7532000"))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `participants`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	created, err := EnsureParticipants(gormDB, map[string]struct{}{
		"7532000": {},
		"7532001": {},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureParticipantsAllKnown(t *testing.T) {
	gormDB, mock := setupMockDB(t)

	mock.ExpectQuery("SELECT `participant_id` FROM `participants`").
		WillReturnRows(sqlmock.NewRows([]string{"participant_id"}).
			AddRow("7532000").AddRow("7532001"))

	created, err := EnsureParticipants(gormDB, map[string]struct{}{
		"7532000": {},
		"7532001": {},
		"":        {},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, created, "no insert is issued when every key exists")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureParticipantsEmptySet(t *testing.T) {
	gormDB, mock := setupMockDB(t)

	created, err := EnsureParticipants(gormDB, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateScheduleStatusAbsorbsFailure(t *testing.T) {
	gormDB, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `schedule` SET").
		WillReturnError(errors.New("lock wait timeout"))
	mock.ExpectRollback()

	err := updateScheduleStatus(gormDB, zap.NewNop(), "SWMM100MFR------------FNL-0001----", "OFFICIAL")
	assert.NoError(t, err, "a lagging schedule feed must not fail the results message")
	assert.NoError(t, mock.ExpectationsWereMet())
}
