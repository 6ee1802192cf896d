package services

import (
	"context"
	"encoding/json"
	"fmt"

	"tradermatch_client/models"
)

// ChatService struct
type ChatService struct {
	API *APIService
}

// GetMessagesByMatchID fetches the whole history of one conversation. There is
// no pagination; the backend returns every message in display order.
func (s *ChatService) GetMessagesByMatchID(ctx context.Context, matchID string) ([]models.Message, error) {
	var raw json.RawMessage
	if err := s.API.GetJSON(ctx, PathEscape("messages", matchID), &raw); err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}

	messages, err := decodeList[models.Message](raw, "messages")
	if err != nil {
		return nil, fmt.Errorf("failed to parse messages: %w", err)
	}

	for i := range messages {
		if messages[i].MatchID == "" {
			messages[i].MatchID = matchID
		}
	}
	return messages, nil
}
