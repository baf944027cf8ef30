package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/heartcraft/storefront/internal/api/middleware"
	appErrors "github.com/heartcraft/storefront/internal/errors"
	"github.com/heartcraft/storefront/internal/models"
	repository "github.com/heartcraft/storefront/internal/repositories"
	"github.com/heartcraft/storefront/pkg/sendgrid"
	"github.com/sony/gobreaker/v2"
)

const orderConfirmationSubject = "Your HeartCraft order is confirmed"

type NotificationService interface {
	SendOrderConfirmation(ctx context.Context, order *models.Order, recipient, name string) error
}

type notificationService struct {
	repo         repository.NotificationRepository
	emailService sendgrid.EmailService
	breaker      *gobreaker.CircuitBreaker[struct{}]
}

// NewNotificationService wires email delivery through a circuit breaker. A nil
// emailService records every notification as failed without calling out.
func NewNotificationService(repo repository.NotificationRepository, emailService sendgrid.EmailService) NotificationService {
	breaker := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        "sendgrid",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("Circuit breaker state changed",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	})

	return &notificationService{repo: repo, emailService: emailService, breaker: breaker}
}

func (n *notificationService) SendOrderConfirmation(ctx context.Context, order *models.Order, recipient, name string) error {

	logger := middleware.LoggerFromContext(ctx)

	orderID := order.ID
	notification := &models.Notification{
		OrderID:   &orderID,
		Type:      models.NotificationTypeEmail,
		Recipient: recipient,
		Subject:   orderConfirmationSubject,
		Content:   confirmationBody(order, name),
		Status:    models.StatusPending,
	}

	if err := n.repo.CreateNotification(ctx, notification); err != nil {
		return appErrors.DatabaseError("Failed to record notification").WithError(err)
	}

	sendErr := n.deliver(ctx, notification, name)
	if sendErr != nil {
		logger.Warn("Order confirmation email failed",
			slog.String("orderId", order.ID.String()),
			slog.String("error", sendErr.Error()))

		if err := n.repo.UpdateNotificationStatus(ctx, notification.ID, models.StatusFailed, sendErr.Error()); err != nil {
			logger.Error("Failed to mark notification as failed", slog.String("error", err.Error()))
		}

		return appErrors.ThirdPartyError("Failed to send confirmation email").WithError(sendErr)
	}

	if err := n.repo.UpdateNotificationStatus(ctx, notification.ID, models.StatusSent, ""); err != nil {
		return appErrors.DatabaseError("Email sent but failed to update notification status").WithError(err)
	}

	logger.Info("✅ Order confirmation sent", slog.String("orderId", order.ID.String()))

	return nil
}

func (n *notificationService) deliver(ctx context.Context, notification *models.Notification, name string) error {
	if n.emailService == nil {
		return fmt.Errorf("email delivery is not configured")
	}

	_, err := n.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, n.emailService.Send(ctx, &sendgrid.Message{
			To:      notification.Recipient,
			ToName:  name,
			Subject: notification.Subject,
			Content: notification.Content,
		})
	})

	return err
}

func confirmationBody(order *models.Order, name string) string {
	items := 0
	for _, item := range order.Items {
		items += item.Quantity
	}

	return fmt.Sprintf("Hi %s,\n\n%s Thank you for supporting our artisans.\n\n"+
		"Order: %s\nItems: %d\nTotal: $%s\nShipping: %s (%s)\n\n"+
		"You'll receive another email when your order ships.\n\nHeartCraft",
		name, models.OrderConfirmedMessage, order.ID, items, order.TotalAmount.StringFixed(2),
		order.ShippingAddress, models.ShippingFree)
}
