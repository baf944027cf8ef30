package repository_test

import (
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/heartcraft/storefront/internal/models"
	repository "github.com/heartcraft/storefront/internal/repositories"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewUserRepo(db)
	ctx := t.Context()
	now := time.Now()

	t.Run("Create User", func(t *testing.T) {
		insertSQL := regexp.QuoteMeta(`INSERT INTO users (email, password, name, created_at, updated_at)`)

		t.Run("Success", func(t *testing.T) {
			// Arrange
			user := &models.User{Email: "ada@example.com", Password: "hash", Name: "Ada"}
			id := uuid.New()
			mock.ExpectQuery(insertSQL).WithArgs(user.Email, user.Password, user.Name).
				WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(id.String(), now, now))

			// Act
			err := repo.CreateUser(ctx, user)

			// Assert
			require.NoError(t, err)
			assert.Equal(t, id, user.ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("Failure - duplicate email", func(t *testing.T) {
			user := &models.User{Email: "ada@example.com", Password: "hash", Name: "Ada"}
			mock.ExpectQuery(insertSQL).WithArgs(user.Email, user.Password, user.Name).
				WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})

			err := repo.CreateUser(ctx, user)

			assert.ErrorIs(t, err, repository.ErrDuplicateEntry)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	})

	t.Run("Get User By Email", func(t *testing.T) {
		selectSQL := regexp.QuoteMeta(`WHERE email = $1`)

		t.Run("Success", func(t *testing.T) {
			id := uuid.New()
			mock.ExpectQuery(selectSQL).WithArgs("ada@example.com").
				WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password", "name", "created_at", "updated_at"}).
					AddRow(id.String(), "ada@example.com", "hash", "Ada", now, now))

			user, err := repo.GetUserByEmail(ctx, "ada@example.com")

			require.NoError(t, err)
			assert.Equal(t, id, user.ID)
			assert.Equal(t, "hash", user.Password)
			require.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("Failure - not found", func(t *testing.T) {
			mock.ExpectQuery(selectSQL).WithArgs("ghost@example.com").WillReturnError(sql.ErrNoRows)

			user, err := repo.GetUserByEmail(ctx, "ghost@example.com")

			assert.ErrorIs(t, err, sql.ErrNoRows)
			assert.Nil(t, user)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	})

	t.Run("Get User By ID", func(t *testing.T) {
		id := uuid.New()
		mock.ExpectQuery(regexp.QuoteMeta(`WHERE id = $1`)).WithArgs(id).
			WillReturnRows(sqlmock.NewRows([]string{"id", "email", "name", "created_at", "updated_at"}).
				AddRow(id.String(), "ada@example.com", "Ada", now, now))

		user, err := repo.GetUserByID(ctx, id)

		require.NoError(t, err)
		assert.Equal(t, "Ada", user.Name)
		assert.Empty(t, user.Password)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
