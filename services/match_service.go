package services

import (
	"context"
	"encoding/json"
	"fmt"

	"tradermatch_client/models"
)

type MatchService struct {
	API *APIService
}

// GetMatches fetches the full match list for a user
func (ms *MatchService) GetMatches(ctx context.Context, userID string) ([]models.Match, error) {
	var raw json.RawMessage
	if err := ms.API.GetJSON(ctx, PathEscape("matches", userID), &raw); err != nil {
		return nil, fmt.Errorf("failed to fetch matches: %w", err)
	}

	matches, err := decodeList[models.Match](raw, "matches")
	if err != nil {
		return nil, fmt.Errorf("failed to parse matches: %w", err)
	}
	return matches, nil
}
