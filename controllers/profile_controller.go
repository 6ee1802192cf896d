package controllers

import (
	"context"
	"errors"
	"fmt"
	"io"

	"tradermatch_client/models"
	"tradermatch_client/services"
	"tradermatch_client/utils"
)

// ErrInvalidProfile is returned by Save when the form does not pass
// validation. The form disables submit in that case, so no field errors are
// reported.
var ErrInvalidProfile = errors.New("profile form is incomplete")

// ImageUploader sends images as multipart forms.
type ImageUploader interface {
	UploadProfileImage(ctx context.Context, userID, fileName string, file io.Reader) (*models.UploadResult, error)
	UploadTradingHighlight(ctx context.Context, userID, fileName string, file io.Reader, highlight models.TradingHighlight) (*models.UploadResult, error)
}

// SocialStore manages social links and trading highlights.
type SocialStore interface {
	GetSocialLinks(ctx context.Context, userID string) (*models.SocialLinks, error)
	SaveSocialLinks(ctx context.Context, userID string, links models.SocialLinks) error
	GetTradingHighlights(ctx context.Context, userID string) ([]models.TradingHighlight, error)
	AddTradingHighlight(ctx context.Context, userID string, highlight models.TradingHighlight) (*models.TradingHighlight, error)
	DeleteTradingHighlight(ctx context.Context, userID, highlightID string) error
}

// ProfileController edits the signed-in user's profile.
type ProfileController struct {
	Session *SessionController
	Uploads ImageUploader
	Social  SocialStore
	Logger  utils.ILogger
}

// NewProfileController wires profile editing to the session store.
func NewProfileController(session *SessionController, uploads ImageUploader, social SocialStore, logger utils.ILogger) *ProfileController {
	return &ProfileController{Session: session, Uploads: uploads, Social: social, Logger: logger}
}

// CanSubmit reports whether every required field is filled in.
func (c *ProfileController) CanSubmit(update models.ProfileUpdate) bool {
	return services.Validate(update) == nil
}

// Draft prefills the form from the current profile.
func (c *ProfileController) Draft() models.ProfileUpdate {
	p := c.Session.Profile()
	if p == nil {
		return models.ProfileUpdate{}
	}
	return models.ProfileUpdate{
		DisplayName:     p.DisplayName,
		Bio:             p.Bio,
		Age:             p.Age,
		Location:        p.Location,
		TradingStyle:    p.TradingStyle,
		ExperienceLevel: p.ExperienceLevel,
		FavoriteCoins:   append([]string(nil), p.FavoriteCoins...),
		PortfolioSize:   p.PortfolioSize,
		LookingFor:      p.LookingFor,
		ProfileComplete: p.ProfileComplete,
	}
}

// Save submits the form. A valid form always marks the profile complete.
func (c *ProfileController) Save(ctx context.Context, update models.ProfileUpdate) (*models.UserProfile, error) {
	if !c.CanSubmit(update) {
		return nil, ErrInvalidProfile
	}
	update.ProfileComplete = true

	profile, err := c.Session.SaveProfile(ctx, update)
	if err != nil {
		c.Logger.Error("Profile", "Failed to save profile", map[string]interface{}{"error": err.Error()})
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}
	c.Logger.Info("Profile", "✅ Profile saved", map[string]interface{}{"user_id": profile.UserID})
	return profile, nil
}

func (c *ProfileController) userID() (string, error) {
	s := c.Session.Current()
	if s == nil {
		return "", ErrNoSession
	}
	return s.UserID, nil
}

// UploadAvatar replaces the profile picture and refreshes the session so the
// new avatar shows up.
func (c *ProfileController) UploadAvatar(ctx context.Context, fileName string, file io.Reader) (string, error) {
	id, err := c.userID()
	if err != nil {
		return "", err
	}
	result, err := c.Uploads.UploadProfileImage(ctx, id, fileName, file)
	if err != nil {
		c.Logger.Error("Profile", "Avatar upload failed", map[string]interface{}{"file": fileName, "error": err.Error()})
		return "", err
	}
	if err := c.Session.Refresh(ctx); err != nil {
		c.Logger.Warn("Profile", "Profile refresh after upload failed", map[string]interface{}{"error": err.Error()})
	}
	return result.URL, nil
}

// UploadHighlight stores a trade screenshot with its description.
func (c *ProfileController) UploadHighlight(ctx context.Context, fileName string, file io.Reader, highlight models.TradingHighlight) (string, error) {
	id, err := c.userID()
	if err != nil {
		return "", err
	}
	result, err := c.Uploads.UploadTradingHighlight(ctx, id, fileName, file, highlight)
	if err != nil {
		c.Logger.Error("Profile", "Highlight upload failed", map[string]interface{}{"file": fileName, "error": err.Error()})
		return "", err
	}
	return result.URL, nil
}

func (c *ProfileController) SocialLinks(ctx context.Context) (*models.SocialLinks, error) {
	id, err := c.userID()
	if err != nil {
		return nil, err
	}
	return c.Social.GetSocialLinks(ctx, id)
}

func (c *ProfileController) SaveSocialLinks(ctx context.Context, links models.SocialLinks) error {
	id, err := c.userID()
	if err != nil {
		return err
	}
	return c.Social.SaveSocialLinks(ctx, id, links)
}

func (c *ProfileController) Highlights(ctx context.Context) ([]models.TradingHighlight, error) {
	id, err := c.userID()
	if err != nil {
		return nil, err
	}
	return c.Social.GetTradingHighlights(ctx, id)
}

func (c *ProfileController) AddHighlight(ctx context.Context, highlight models.TradingHighlight) (*models.TradingHighlight, error) {
	id, err := c.userID()
	if err != nil {
		return nil, err
	}
	return c.Social.AddTradingHighlight(ctx, id, highlight)
}

func (c *ProfileController) DeleteHighlight(ctx context.Context, highlightID string) error {
	id, err := c.userID()
	if err != nil {
		return err
	}
	return c.Social.DeleteTradingHighlight(ctx, id, highlightID)
}
