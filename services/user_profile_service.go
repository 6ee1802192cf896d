package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"tradermatch_client/models"

	"github.com/patrickmn/go-cache"
)

type UserProfileService struct {
	API *APIService

	// public profiles change rarely and are looked up by share links
	publicProfiles *cache.Cache
}

func NewUserProfileService(api *APIService) *UserProfileService {
	return &UserProfileService{
		API:            api,
		publicProfiles: cache.New(5*time.Minute, 10*time.Minute),
	}
}

// GetUserProfile retrieves a user profile by ID
func (ups *UserProfileService) GetUserProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	var raw json.RawMessage
	if err := ups.API.GetJSON(ctx, PathEscape("user", userID), &raw); err != nil {
		return nil, fmt.Errorf("failed to fetch profile %s: %w", userID, err)
	}
	return decodeObject[models.UserProfile](raw, "user", "profile")
}

// UpdateUserProfile updates an existing user profile
func (ups *UserProfileService) UpdateUserProfile(ctx context.Context, userID string, update models.ProfileUpdate) (*models.UserProfile, error) {
	var raw json.RawMessage
	if err := ups.API.PutJSON(ctx, PathEscape("user", userID), update, &raw); err != nil {
		return nil, fmt.Errorf("failed to update profile %s: %w", userID, err)
	}
	return decodeObject[models.UserProfile](raw, "user", "profile")
}

// UpdateActivity bumps the user's last-seen timestamp
func (ups *UserProfileService) UpdateActivity(ctx context.Context, userID string) error {
	if err := ups.API.PostJSON(ctx, PathEscape("user", userID, "update-activity"), nil, nil); err != nil {
		return fmt.Errorf("failed to update activity for %s: %w", userID, err)
	}
	return nil
}

// GetStatus reads the active/offline toggle
func (ups *UserProfileService) GetStatus(ctx context.Context, userID string) (*models.UserStatus, error) {
	var status models.UserStatus
	if err := ups.API.GetJSON(ctx, PathEscape("user-status", userID), &status); err != nil {
		return nil, fmt.Errorf("failed to fetch status for %s: %w", userID, err)
	}
	return &status, nil
}

// SetStatus flips the active/offline toggle
func (ups *UserProfileService) SetStatus(ctx context.Context, userID, status string) (*models.UserStatus, error) {
	req := models.UserStatus{UserID: userID, Status: status}
	if err := Validate(req); err != nil {
		return nil, fmt.Errorf("invalid status %q: %w", status, err)
	}

	var out models.UserStatus
	if err := ups.API.PostJSON(ctx, PathEscape("user-status", userID), req, &out); err != nil {
		return nil, fmt.Errorf("failed to set status for %s: %w", userID, err)
	}
	if out.Status == "" {
		out = req
	}
	return &out, nil
}

// GetPublicProfile resolves a share link. A missing user yields an error
// matching ErrNotFound.
func (ups *UserProfileService) GetPublicProfile(ctx context.Context, username string) (*models.PublicProfile, error) {
	if cached, found := ups.publicProfiles.Get(username); found {
		return cached.(*models.PublicProfile), nil
	}

	var raw json.RawMessage
	if err := ups.API.GetJSON(ctx, PathEscape("public-profile", username), &raw); err != nil {
		return nil, fmt.Errorf("failed to fetch public profile %s: %w", username, err)
	}
	profile, err := decodeObject[models.PublicProfile](raw, "profile", "user")
	if err != nil {
		return nil, err
	}

	ups.publicProfiles.Set(username, profile, cache.DefaultExpiration)
	return profile, nil
}
