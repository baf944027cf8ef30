package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/heartcraft/storefront/internal/models"
	"github.com/heartcraft/storefront/internal/utils"
)

// NotificationRepository keeps an audit row for every email the service tries
// to send.
type NotificationRepository interface {
	CreateNotification(ctx context.Context, notification *models.Notification) error
	UpdateNotificationStatus(ctx context.Context, id uuid.UUID, status models.NotificationStatus, errorMsg string) error
}

type notificationRepository struct {
	DB *sql.DB
}

func NewNotificationRepo(db *sql.DB) NotificationRepository {
	return &notificationRepository{DB: db}
}

func (r *notificationRepository) CreateNotification(ctx context.Context, notification *models.Notification) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO notifications (order_id, type, recipient, subject, content, status, error, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id, created_at, updated_at`

	var orderID uuid.NullUUID
	if notification.OrderID != nil {
		orderID = uuid.NullUUID{UUID: *notification.OrderID, Valid: true}
	}

	err := r.DB.QueryRowContext(dbCtx, query,
		orderID, notification.Type, notification.Recipient, notification.Subject,
		notification.Content, notification.Status, notification.Error,
	).Scan(&notification.ID, &notification.CreatedAt, &notification.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	return nil
}

// UpdateNotificationStatus stamps sent_at when the status moves to sent.
func (r *notificationRepository) UpdateNotificationStatus(ctx context.Context, id uuid.UUID, status models.NotificationStatus, errorMsg string) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var sentAt *time.Time
	if status == models.StatusSent {
		now := time.Now().UTC()
		sentAt = &now
	}

	query := `
		UPDATE notifications SET status = $1, error = $2, sent_at = COALESCE($3, sent_at), updated_at = NOW()
		WHERE id = $4`

	result, err := r.DB.ExecContext(dbCtx, query, status, errorMsg, sentAt, id)
	if err != nil {
		return fmt.Errorf("failed to update the notification status: %w", err)
	}

	if err := requireAffected(result); err != nil {
		return fmt.Errorf("notification %s: %w", id, err)
	}

	return nil
}
