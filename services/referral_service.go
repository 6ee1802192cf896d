package services

import (
	"context"
	"fmt"

	"tradermatch_client/models"
)

// ReferralService reads referral stats and redeems codes
type ReferralService struct {
	API *APIService
}

func (s *ReferralService) GetReferralStats(ctx context.Context, userID string) (*models.ReferralStats, error) {
	var stats models.ReferralStats
	if err := s.API.GetJSON(ctx, PathEscape("referrals", userID), &stats); err != nil {
		return nil, fmt.Errorf("failed to fetch referral stats: %w", err)
	}
	return &stats, nil
}

func (s *ReferralService) ApplyReferralCode(ctx context.Context, req models.ApplyReferralRequest) error {
	if err := Validate(req); err != nil {
		return fmt.Errorf("invalid referral code: %w", err)
	}
	if err := s.API.PostJSON(ctx, "/api/referrals/apply", req, nil); err != nil {
		return fmt.Errorf("failed to apply referral code: %w", err)
	}
	return nil
}
