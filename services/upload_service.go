package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"tradermatch_client/models"
	"tradermatch_client/utils"
)

// UploadService sends images to the backend as multipart forms
type UploadService struct {
	API *APIService
}

// UploadProfileImage replaces the user's avatar and returns its URL
func (s *UploadService) UploadProfileImage(ctx context.Context, userID, fileName string, file io.Reader) (*models.UploadResult, error) {
	var raw json.RawMessage
	if err := s.API.PostMultipart(ctx, PathEscape("upload-profile-image", userID), "file", fileName, file, nil, &raw); err != nil {
		return nil, fmt.Errorf("failed to upload profile image: %w", err)
	}
	return parseUploadResult(raw, "avatar_url", "image_url", "url")
}

// UploadTradingHighlight stores a screenshot together with its description
func (s *UploadService) UploadTradingHighlight(ctx context.Context, userID, fileName string, file io.Reader, highlight models.TradingHighlight) (*models.UploadResult, error) {
	if err := Validate(highlight); err != nil {
		return nil, fmt.Errorf("invalid trading highlight: %w", err)
	}

	fields := map[string]string{
		"title":             highlight.Title,
		"description":       highlight.Description,
		"coin":              highlight.Coin,
		"profit_percentage": strconv.FormatFloat(highlight.ProfitPct, 'f', -1, 64),
	}

	var raw json.RawMessage
	if err := s.API.PostMultipart(ctx, PathEscape("upload-trading-highlight", userID), "file", fileName, file, fields, &raw); err != nil {
		return nil, fmt.Errorf("failed to upload trading highlight: %w", err)
	}
	return parseUploadResult(raw, "image_url", "url")
}

func parseUploadResult(raw json.RawMessage, keys ...string) (*models.UploadResult, error) {
	var payload map[string]interface{}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode upload response: %w", err)
	}
	for _, key := range keys {
		if u := utils.ExtractString(payload, key); u != "" {
			return &models.UploadResult{URL: u}, nil
		}
	}
	return &models.UploadResult{}, nil
}
