package services

import (
	"context"
	"fmt"

	"tradermatch_client/models"
)

// ActionService submits swipe decisions
type ActionService struct {
	API *APIService
}

// Swipe posts one like/pass verdict. The decision is sent once; callers
// decide what a failure means.
func (as *ActionService) Swipe(ctx context.Context, decision models.SwipeDecision) (models.SwipeResult, error) {
	if err := Validate(decision); err != nil {
		return models.SwipeResult{}, fmt.Errorf("invalid swipe decision: %w", err)
	}

	var result models.SwipeResult
	if err := as.API.PostJSON(ctx, "/api/swipe", decision, &result); err != nil {
		return models.SwipeResult{}, fmt.Errorf("failed to submit swipe on %s: %w", decision.TargetID, err)
	}

	if result.Matched {
		as.API.Logger.Info("Swipe", "💖 It's a match!", map[string]interface{}{
			"swiper_id": decision.SwiperID, "target_id": decision.TargetID, "match_id": result.MatchID,
		})
	}
	return result, nil
}
