package services

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCronService_StartStop(t *testing.T) {
	throttle, mock := setupLoginThrottle(t, 5)
	service := NewCronService(throttle, testLogger())

	require.NoError(t, service.Start())
	assert.Equal(t, 1, service.JobCount())
	service.Stop()

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCronService_PruneLoginFailures(t *testing.T) {
	t.Run("Deletes expired rows", func(t *testing.T) {
		throttle, mock := setupLoginThrottle(t, 5)
		service := NewCronService(throttle, testLogger())

		mock.ExpectExec(`DELETE FROM login_failures WHERE created_at < \$1`).
			WithArgs(time.Date(2026, 11, 1, 11, 45, 0, 0, time.UTC)).
			WillReturnResult(sqlmock.NewResult(0, 3))

		service.pruneLoginFailuresJob()
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Storage error is logged", func(t *testing.T) {
		throttle, mock := setupLoginThrottle(t, 5)
		service := NewCronService(throttle, testLogger())

		mock.ExpectExec(`DELETE FROM login_failures`).
			WillReturnError(errors.New("relation does not exist"))

		assert.NotPanics(t, service.pruneLoginFailuresJob)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
