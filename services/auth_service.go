package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"tradermatch_client/models"
	"tradermatch_client/utils"
)

// AuthService bootstraps a session against the backend
type AuthService struct {
	API *APIService
}

// CreateDemoUser registers a throwaway account and returns its profile
func (s *AuthService) CreateDemoUser(ctx context.Context, req models.DemoUserRequest) (*models.UserProfile, error) {
	if err := Validate(req); err != nil {
		return nil, fmt.Errorf("invalid demo user request: %w", err)
	}

	var raw json.RawMessage
	if err := s.API.PostJSON(ctx, "/api/create-demo-user", req, &raw); err != nil {
		return nil, fmt.Errorf("failed to create demo user: %w", err)
	}

	profile, err := decodeObject[models.UserProfile](raw, "user", "profile")
	if err != nil {
		return nil, err
	}
	if profile.UserID == "" {
		return nil, errors.New("create-demo-user response has no user_id")
	}

	s.API.Logger.Info("Auth", "✅ Demo user created", map[string]interface{}{"user_id": profile.UserID})
	return profile, nil
}

// TwitterLoginURL asks the backend where to send the browser for the
// Twitter OAuth dance.
func (s *AuthService) TwitterLoginURL(ctx context.Context) (string, error) {
	var raw map[string]interface{}
	if err := s.API.GetJSON(ctx, "/api/login/twitter", &raw); err != nil {
		return "", fmt.Errorf("failed to start twitter login: %w", err)
	}
	for _, key := range []string{"auth_url", "authorization_url", "url"} {
		if u := utils.ExtractString(raw, key); u != "" {
			return u, nil
		}
	}
	return "", errors.New("twitter login response has no url")
}
