package database

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/airplanned/booking-backend/internal/models"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*PostgresDB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewFromSQLX(sqlx.NewDb(db, "sqlmock")), mock
}

var userColumns = []string{"user_id", "first_name", "last_name", "email", "password", "created_at"}

func TestCreateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUserRepository(db)
		now := time.Now()

		mock.ExpectQuery(`INSERT INTO users`).
			WithArgs("Jane", "Doe", "jane@example.com", "hash").
			WillReturnRows(sqlmock.NewRows([]string{"user_id", "created_at"}).AddRow(int64(7), now))

		user := &models.User{FirstName: "Jane", LastName: "Doe", Email: " Jane@Example.com ", PasswordHash: "hash"}
		require.NoError(t, repo.CreateUser(ctx, user))
		assert.Equal(t, int64(7), user.ID)
		assert.Equal(t, "jane@example.com", user.Email)
		assert.Equal(t, now, user.CreatedAt)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Duplicate Email", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUserRepository(db)

		mock.ExpectQuery(`INSERT INTO users`).
			WillReturnError(&pq.Error{Code: "23505"})

		err := repo.CreateUser(ctx, &models.User{FirstName: "Jane", Email: "jane@example.com"})
		assert.ErrorIs(t, err, ErrEmailTaken)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Database Error", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUserRepository(db)

		mock.ExpectQuery(`INSERT INTO users`).
			WillReturnError(fmt.Errorf("database error"))

		err := repo.CreateUser(ctx, &models.User{FirstName: "Jane", Email: "jane@example.com"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create user")

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetUserByEmail(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUserRepository(db)

		mock.ExpectQuery(`SELECT (.+) FROM users WHERE email`).
			WithArgs("jane@example.com").
			WillReturnRows(sqlmock.NewRows(userColumns).
				AddRow(int64(7), "Jane", "Doe", "jane@example.com", "hash", time.Now()))

		user, err := repo.GetUserByEmail(ctx, "JANE@example.com")
		require.NoError(t, err)
		assert.Equal(t, int64(7), user.ID)
		assert.Equal(t, "Jane Doe", user.FullName())
		assert.Equal(t, "hash", user.PasswordHash)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("User Not Found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUserRepository(db)

		mock.ExpectQuery(`SELECT (.+) FROM users WHERE email`).
			WillReturnError(sql.ErrNoRows)

		user, err := repo.GetUserByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Nil(t, user)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
