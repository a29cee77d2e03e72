package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wissamraji-ui/mathtutor-backend/internal/platform/logger"
	"github.com/wissamraji-ui/mathtutor-backend/internal/types"
)

type SubscriptionRepo interface {
	// GetActiveForUser returns the newest active or trialing subscription for
	// the user, or nil when none exists.
	GetActiveForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.Subscription, error)
	Upsert(ctx context.Context, tx *gorm.DB, sub *types.Subscription) (*types.Subscription, error)
}

type subscriptionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSubscriptionRepo(db *gorm.DB, baseLog *logger.Logger) SubscriptionRepo {
	return &subscriptionRepo{db: db, log: baseLog.With("repo", "SubscriptionRepo")}
}

func (r *subscriptionRepo) GetActiveForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.Subscription, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var sub types.Subscription
	err := transaction.WithContext(ctx).
		Where("user_id = ? AND status IN ?", userID, []string{"active", "trialing"}).
		Order("current_period_end DESC").
		First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *subscriptionRepo) Upsert(ctx context.Context, tx *gorm.DB, sub *types.Subscription) (*types.Subscription, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Save(sub).Error; err != nil {
		return nil, err
	}
	return sub, nil
}
