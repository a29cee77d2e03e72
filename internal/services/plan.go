package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/wissamraji-ui/mathtutor-backend/internal/platform/logger"
	"github.com/wissamraji-ui/mathtutor-backend/internal/repos"
	"github.com/wissamraji-ui/mathtutor-backend/internal/tutor"
)

const planCacheTTL = 60 * time.Second

// PlanService resolves the caller's subscription tier. Subscription rows are
// maintained by the external billing reconciler; users without an active or
// trialing subscription are on the free tier.
type PlanService interface {
	GetPlan(ctx context.Context, userID uuid.UUID) (tutor.PlanTier, error)
}

type planService struct {
	db            *gorm.DB
	log           *logger.Logger
	subscriptions repos.SubscriptionRepo
	cache         *redis.Client
}

func NewPlanService(db *gorm.DB, log *logger.Logger, subscriptions repos.SubscriptionRepo, cache *redis.Client) PlanService {
	return &planService{
		db:            db,
		log:           log.With("service", "PlanService"),
		subscriptions: subscriptions,
		cache:         cache,
	}
}

func (s *planService) GetPlan(ctx context.Context, userID uuid.UUID) (tutor.PlanTier, error) {
	if userID == uuid.Nil {
		return "", fmt.Errorf("plan lookup requires a user id")
	}

	cacheKey := "plan:" + userID.String()
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			if tier, perr := tutor.ParsePlanTier(cached); perr == nil {
				return tier, nil
			}
		}
	}

	sub, err := s.subscriptions.GetActiveForUser(ctx, nil, userID)
	if err != nil {
		return "", fmt.Errorf("subscription lookup: %w", err)
	}

	tier := tutor.PlanFree
	if sub != nil {
		if parsed, perr := tutor.ParsePlanTier(sub.Plan); perr == nil {
			tier = parsed
		} else {
			s.log.Warn("Unknown plan on subscription row, defaulting to free", "plan", sub.Plan, "user_id", userID.String())
		}
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, string(tier), planCacheTTL).Err(); err != nil {
			s.log.Debug("Plan cache write failed", "error", err)
		}
	}
	return tier, nil
}
