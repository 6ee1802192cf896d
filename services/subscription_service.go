package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"tradermatch_client/models"

	"github.com/patrickmn/go-cache"
)

// SubscriptionService talks to the external subscription collaborator. Plans
// are cached briefly since every premium check would otherwise hit the network.
type SubscriptionService struct {
	API   *APIService
	plans *cache.Cache
}

func NewSubscriptionService(api *APIService) *SubscriptionService {
	return &SubscriptionService{
		API:   api,
		plans: cache.New(1*time.Minute, 5*time.Minute),
	}
}

func (s *SubscriptionService) GetSubscription(ctx context.Context, userID string) (*models.Subscription, error) {
	if cached, found := s.plans.Get(userID); found {
		return cached.(*models.Subscription), nil
	}

	var raw json.RawMessage
	if err := s.API.GetJSON(ctx, PathEscape("subscription", userID), &raw); err != nil {
		return nil, fmt.Errorf("failed to fetch subscription: %w", err)
	}
	sub, err := decodeObject[models.Subscription](raw, "subscription")
	if err != nil {
		return nil, err
	}
	if sub.Plan == "" {
		sub.Plan = models.PlanFree
	}

	s.plans.Set(userID, sub, cache.DefaultExpiration)
	return sub, nil
}

// Upgrade requests a plan change. Payment happens outside this client.
func (s *SubscriptionService) Upgrade(ctx context.Context, userID, plan string) (*models.Subscription, error) {
	s.plans.Delete(userID)

	var raw json.RawMessage
	req := map[string]string{"plan": plan}
	if err := s.API.PostJSON(ctx, PathEscape("subscription", "upgrade", userID), req, &raw); err != nil {
		return nil, fmt.Errorf("failed to upgrade subscription to %s: %w", plan, err)
	}
	if len(raw) == 0 {
		return &models.Subscription{UserID: userID, Plan: plan}, nil
	}
	sub, err := decodeObject[models.Subscription](raw, "subscription")
	if err != nil {
		return nil, err
	}
	if sub.Plan == "" {
		sub.Plan = plan
	}
	return sub, nil
}
