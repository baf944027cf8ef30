package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// CheckoutMarkerRepository remembers a user's most recent order for a short
// while so the checkout page can show its confirmation after the cart is gone.
type CheckoutMarkerRepository interface {
	MarkPlaced(ctx context.Context, userID, orderID uuid.UUID, ttl time.Duration) error
	LastPlaced(ctx context.Context, userID uuid.UUID) (uuid.UUID, bool, error)
}

type checkoutMarkerRepository struct {
	client *redis.Client
}

func NewCheckoutMarkerRepo(client *redis.Client) CheckoutMarkerRepository {
	return &checkoutMarkerRepository{client: client}
}

func placedKey(userID uuid.UUID) string {
	return "checkout:placed:" + userID.String()
}

func (r *checkoutMarkerRepository) MarkPlaced(ctx context.Context, userID, orderID uuid.UUID, ttl time.Duration) error {
	if err := r.client.Set(ctx, placedKey(userID), orderID.String(), ttl).Err(); err != nil {
		return fmt.Errorf("failed to record placed order: %w", err)
	}
	return nil
}

func (r *checkoutMarkerRepository) LastPlaced(ctx context.Context, userID uuid.UUID) (uuid.UUID, bool, error) {
	raw, err := r.client.Get(ctx, placedKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return uuid.Nil, false, nil
		}
		return uuid.Nil, false, fmt.Errorf("failed to read placed order: %w", err)
	}

	orderID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("corrupt placed marker: %w", err)
	}

	return orderID, true, nil
}
