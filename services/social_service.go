package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"tradermatch_client/models"
)

// SocialService manages social links and trading highlights
type SocialService struct {
	API *APIService
}

func (s *SocialService) GetSocialLinks(ctx context.Context, userID string) (*models.SocialLinks, error) {
	var raw json.RawMessage
	if err := s.API.GetJSON(ctx, PathEscape("social-links", userID), &raw); err != nil {
		return nil, fmt.Errorf("failed to fetch social links: %w", err)
	}
	return decodeObject[models.SocialLinks](raw, "social_links", "links")
}

func (s *SocialService) SaveSocialLinks(ctx context.Context, userID string, links models.SocialLinks) error {
	if err := Validate(links); err != nil {
		return fmt.Errorf("invalid social links: %w", err)
	}
	if err := s.API.PostJSON(ctx, PathEscape("social-links", userID), links, nil); err != nil {
		return fmt.Errorf("failed to save social links: %w", err)
	}
	return nil
}

func (s *SocialService) GetTradingHighlights(ctx context.Context, userID string) ([]models.TradingHighlight, error) {
	var raw json.RawMessage
	if err := s.API.GetJSON(ctx, PathEscape("trading-highlights", userID), &raw); err != nil {
		return nil, fmt.Errorf("failed to fetch trading highlights: %w", err)
	}
	return decodeList[models.TradingHighlight](raw, "highlights", "trading_highlights")
}

// AddTradingHighlight stores a highlight without an image
func (s *SocialService) AddTradingHighlight(ctx context.Context, userID string, highlight models.TradingHighlight) (*models.TradingHighlight, error) {
	if err := Validate(highlight); err != nil {
		return nil, fmt.Errorf("invalid trading highlight: %w", err)
	}

	var raw json.RawMessage
	if err := s.API.PostJSON(ctx, PathEscape("trading-highlights", userID), highlight, &raw); err != nil {
		return nil, fmt.Errorf("failed to add trading highlight: %w", err)
	}
	if len(raw) == 0 {
		return &highlight, nil
	}
	return decodeObject[models.TradingHighlight](raw, "highlight")
}

// DeleteTradingHighlight removes one highlight of the user
func (s *SocialService) DeleteTradingHighlight(ctx context.Context, userID, highlightID string) error {
	path := PathEscape("trading-highlights", userID) + "?highlight_id=" + url.QueryEscape(highlightID)
	if err := s.API.Delete(ctx, path, nil); err != nil {
		return fmt.Errorf("failed to delete trading highlight %s: %w", highlightID, err)
	}
	return nil
}
