package repository_test

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/heartcraft/storefront/internal/models"
	repository "github.com/heartcraft/storefront/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationRepository(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewNotificationRepo(db)
	ctx := t.Context()

	t.Run("Create Notification", func(t *testing.T) {
		insertSQL := regexp.QuoteMeta(`INSERT INTO notifications`)

		t.Run("Success", func(t *testing.T) {
			// Arrange
			orderID := uuid.New()
			notification := &models.Notification{
				OrderID:   &orderID,
				Type:      models.NotificationTypeEmail,
				Recipient: "ada@example.com",
				Subject:   "Order Confirmed!",
				Content:   "Thanks",
				Status:    models.StatusPending,
			}
			id := uuid.New()
			now := time.Now()
			mock.ExpectQuery(insertSQL).
				WithArgs(orderID, models.NotificationTypeEmail, "ada@example.com", "Order Confirmed!", "Thanks", models.StatusPending, "").
				WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(id.String(), now, now))

			// Act
			err := repo.CreateNotification(ctx, notification)

			// Assert
			require.NoError(t, err)
			assert.Equal(t, id, notification.ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("Failure - DB error", func(t *testing.T) {
			mock.ExpectQuery(insertSQL).WillReturnError(errors.New("insert failed"))

			err := repo.CreateNotification(ctx, &models.Notification{Type: models.NotificationTypeEmail})

			require.Error(t, err)
			assert.Contains(t, err.Error(), "failed to create notification")
			require.NoError(t, mock.ExpectationsWereMet())
		})
	})

	t.Run("Update Notification Status", func(t *testing.T) {
		updateSQL := regexp.QuoteMeta(`UPDATE notifications SET status = $1`)

		t.Run("Success - sent", func(t *testing.T) {
			id := uuid.New()
			mock.ExpectExec(updateSQL).
				WithArgs(models.StatusSent, "", sqlmock.AnyArg(), id).
				WillReturnResult(sqlmock.NewResult(0, 1))

			require.NoError(t, repo.UpdateNotificationStatus(ctx, id, models.StatusSent, ""))
			require.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("Failure - not found", func(t *testing.T) {
			id := uuid.New()
			mock.ExpectExec(updateSQL).
				WithArgs(models.StatusFailed, "timeout", nil, id).
				WillReturnResult(sqlmock.NewResult(0, 0))

			err := repo.UpdateNotificationStatus(ctx, id, models.StatusFailed, "timeout")

			require.Error(t, err)
			assert.Contains(t, err.Error(), id.String())
			require.NoError(t, mock.ExpectationsWereMet())
		})
	})
}

func TestNewsletterRepository_Subscribe(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewNewsletterRepo(db)
	subscribeSQL := regexp.QuoteMeta(`ON CONFLICT (email) DO NOTHING`)

	t.Run("new address", func(t *testing.T) {
		mock.ExpectExec(subscribeSQL).WithArgs("ada@example.com").WillReturnResult(sqlmock.NewResult(0, 1))

		added, err := repo.Subscribe(t.Context(), "ada@example.com")

		require.NoError(t, err)
		assert.True(t, added)
	})

	t.Run("already subscribed", func(t *testing.T) {
		mock.ExpectExec(subscribeSQL).WithArgs("ada@example.com").WillReturnResult(sqlmock.NewResult(0, 0))

		added, err := repo.Subscribe(t.Context(), "ada@example.com")

		require.NoError(t, err)
		assert.False(t, added)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}
