package repos

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/spinshelf/spinshelf-backend/internal/domain"
)

type SubscriptionRepo struct {
	db *gorm.DB
}

func NewSubscriptionRepo(db *gorm.DB) *SubscriptionRepo {
	return &SubscriptionRepo{db: db}
}

// ForUser returns the user's subscription, creating a free one on first
// access so callers never see ErrNotFound here.
func (r *SubscriptionRepo) ForUser(ctx context.Context, userID uuid.UUID) (*domain.Subscription, error) {
	var sub domain.Subscription
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		sub = domain.Subscription{
			ID:        uuid.New(),
			UserID:    userID,
			Tier:      domain.TierFree,
			CreatedAt: time.Now().UTC(),
			UpdatedAt: time.Now().UTC(),
		}
		if err := r.db.WithContext(ctx).Create(&sub).Error; err != nil {
			return nil, fmt.Errorf("create subscription: %w", err)
		}
		return &sub, nil
	}
	if err != nil {
		return nil, fmt.Errorf("subscription for user: %w", err)
	}
	return &sub, nil
}

// IncrementUsage bumps the user's AI usage counter for month ("2006-01"),
// resetting the counter when the month changes.
func (r *SubscriptionRepo) IncrementUsage(ctx context.Context, userID uuid.UUID, month string) error {
	sub, err := r.ForUser(ctx, userID)
	if err != nil {
		return err
	}
	if sub.UsageMonth != month {
		sub.UsageMonth = month
		sub.MonthlyUsage = 0
	}
	sub.MonthlyUsage++
	sub.UpdatedAt = time.Now().UTC()
	if err := r.db.WithContext(ctx).Save(sub).Error; err != nil {
		return fmt.Errorf("increment usage: %w", err)
	}
	return nil
}

// SetTier upgrades or downgrades a user. expiresAt is nil for non-expiring.
func (r *SubscriptionRepo) SetTier(ctx context.Context, userID uuid.UUID, tier string, expiresAt *time.Time) error {
	sub, err := r.ForUser(ctx, userID)
	if err != nil {
		return err
	}
	sub.Tier = tier
	sub.ExpiresAt = expiresAt
	sub.UpdatedAt = time.Now().UTC()
	if err := r.db.WithContext(ctx).Save(sub).Error; err != nil {
		return fmt.Errorf("set tier: %w", err)
	}
	return nil
}
