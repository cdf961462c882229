package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/spinshelf/spinshelf-backend/internal/domain"
	"github.com/spinshelf/spinshelf-backend/internal/platform/apierr"
	"github.com/spinshelf/spinshelf-backend/internal/repos"
)

type PlanService struct {
	subs *repos.SubscriptionRepo
	now  func() time.Time
}

func NewPlanService(subs *repos.SubscriptionRepo) *PlanService {
	return &PlanService{subs: subs, now: func() time.Time { return time.Now().UTC() }}
}

// TierOf returns the user's effective tier, downgrading expired premium to
// free.
func (s *PlanService) TierOf(ctx context.Context, userID uuid.UUID) (string, error) {
	sub, err := s.subs.ForUser(ctx, userID)
	if err != nil {
		return "", apierr.Internal("subscription_lookup", err)
	}
	if sub.Tier == domain.TierPremium && !sub.Active(s.now()) {
		return domain.TierFree, nil
	}
	return sub.Tier, nil
}

// RequirePremium gates the heavier tasks. The 403 body never mentions which
// model sits behind the gate.
func (s *PlanService) RequirePremium(ctx context.Context, userID uuid.UUID) error {
	tier, err := s.TierOf(ctx, userID)
	if err != nil {
		return err
	}
	if tier != domain.TierPremium {
		return apierr.Forbidden("premium_required", fmt.Errorf("this feature requires a premium plan"))
	}
	return nil
}

// RecordUsage bumps the monthly AI usage counter after a successful
// generation. Best effort: a counter failure never fails the request.
func (s *PlanService) RecordUsage(ctx context.Context, userID uuid.UUID) error {
	return s.subs.IncrementUsage(ctx, userID, s.now().Format("2006-01"))
}
