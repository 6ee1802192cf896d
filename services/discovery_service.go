package services

import (
	"context"
	"encoding/json"
	"fmt"

	"tradermatch_client/models"
)

// DiscoveryService fetches the two candidate queues. The backend decides the
// order and already excludes anyone the user has swiped on.
type DiscoveryService struct {
	API *APIService
}

// Fetch returns the candidates for a mode in server order.
func (s *DiscoveryService) Fetch(ctx context.Context, userID string, mode models.DiscoveryMode) ([]models.Candidate, error) {
	var path string
	switch mode {
	case models.ModeAI:
		path = PathEscape("ai-matches", userID)
	case models.ModeBrowse:
		path = PathEscape("discover", userID)
	default:
		return nil, fmt.Errorf("unknown discovery mode %q", mode)
	}

	var raw json.RawMessage
	if err := s.API.GetJSON(ctx, path, &raw); err != nil {
		return nil, fmt.Errorf("failed to fetch %s candidates: %w", mode, err)
	}

	candidates, err := decodeList[models.Candidate](raw, "users", "matches", "candidates", "profiles")
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s candidates: %w", mode, err)
	}

	s.API.Logger.Debug("Discovery", "✅ Candidates fetched", map[string]interface{}{
		"mode": mode, "count": len(candidates),
	})
	return candidates, nil
}

// FilterActive keeps only candidates whose status is active, preserving order.
func FilterActive(candidates []models.Candidate) []models.Candidate {
	out := make([]models.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.IsActive() {
			out = append(out, c)
		}
	}
	return out
}
