package controllers

import (
	"context"
	"strings"
	"sync"

	"tradermatch_client/models"
	"tradermatch_client/services"
	"tradermatch_client/utils"
)

// Authenticator signs users in.
type Authenticator interface {
	CreateDemoUser(ctx context.Context, req models.DemoUserRequest) (*models.UserProfile, error)
	TwitterLoginURL(ctx context.Context) (string, error)
}

// ProfileStore reads and writes the signed-in user's profile and presence.
type ProfileStore interface {
	GetUserProfile(ctx context.Context, userID string) (*models.UserProfile, error)
	UpdateUserProfile(ctx context.Context, userID string, update models.ProfileUpdate) (*models.UserProfile, error)
	UpdateActivity(ctx context.Context, userID string) error
	GetStatus(ctx context.Context, userID string) (*models.UserStatus, error)
	SetStatus(ctx context.Context, userID, status string) (*models.UserStatus, error)
}

// SessionController holds the signed-in identity. It is the only writer of
// the session; everything else reads snapshots.
type SessionController struct {
	Auth   Authenticator
	Users  ProfileStore
	Logger utils.ILogger

	// OnChange runs after any state change, outside the lock.
	OnChange func()

	mu      sync.Mutex
	session *models.Session
	profile *models.UserProfile
	onClear []func(models.Session)
}

// NewSessionController creates a signed-out store.
func NewSessionController(auth Authenticator, users ProfileStore, logger utils.ILogger) *SessionController {
	return &SessionController{Auth: auth, Users: users, Logger: logger}
}

// Login creates a demo user for username and stores the session.
func (c *SessionController) Login(ctx context.Context, username string) (models.Session, error) {
	username = strings.TrimSpace(username)
	req := models.DemoUserRequest{Username: username, DisplayName: username}
	if err := services.Validate(req); err != nil {
		return models.Session{}, err
	}

	profile, err := c.Auth.CreateDemoUser(ctx, req)
	if err != nil {
		c.Logger.Error("Session", "Login failed", map[string]interface{}{"username": username, "error": err.Error()})
		return models.Session{}, err
	}

	session := c.apply(profile)
	c.Logger.Info("Session", "✅ Signed in", map[string]interface{}{"user_id": session.UserID})
	return session, nil
}

// TwitterLoginURL returns the OAuth start URL. The browser flow itself is
// outside this client.
func (c *SessionController) TwitterLoginURL(ctx context.Context) (string, error) {
	return c.Auth.TwitterLoginURL(ctx)
}

// Current returns a copy of the session, or nil when signed out.
func (c *SessionController) Current() *models.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil
	}
	cp := *c.session
	return &cp
}

// Profile returns a copy of the last known profile.
func (c *SessionController) Profile() *models.UserProfile {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.profile == nil {
		return nil
	}
	cp := *c.profile
	return &cp
}

func (c *SessionController) userID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return ""
	}
	return c.session.UserID
}

// Refresh reloads the profile from the backend.
func (c *SessionController) Refresh(ctx context.Context) error {
	id := c.userID()
	if id == "" {
		return ErrNoSession
	}
	profile, err := c.Users.GetUserProfile(ctx, id)
	if err != nil {
		return err
	}
	c.applyIfCurrent(id, profile)
	return nil
}

// Touch reports activity so the user stays listed as online.
func (c *SessionController) Touch(ctx context.Context) error {
	id := c.userID()
	if id == "" {
		return ErrNoSession
	}
	return c.Users.UpdateActivity(ctx, id)
}

// Status asks the backend for the user's presence.
func (c *SessionController) Status(ctx context.Context) (*models.UserStatus, error) {
	id := c.userID()
	if id == "" {
		return nil, ErrNoSession
	}
	return c.Users.GetStatus(ctx, id)
}

// SetStatus changes presence and mirrors it in the session.
func (c *SessionController) SetStatus(ctx context.Context, status string) error {
	id := c.userID()
	if id == "" {
		return ErrNoSession
	}
	updated, err := c.Users.SetStatus(ctx, id, status)
	if err != nil {
		return err
	}

	c.mu.Lock()
	if c.session != nil && c.session.UserID == id {
		c.session.Status = updated.Status
		if c.profile != nil {
			c.profile.Status = updated.Status
		}
	}
	c.mu.Unlock()
	c.notify()
	return nil
}

// SaveProfile submits a profile update and refreshes the session from the
// server's answer.
func (c *SessionController) SaveProfile(ctx context.Context, update models.ProfileUpdate) (*models.UserProfile, error) {
	id := c.userID()
	if id == "" {
		return nil, ErrNoSession
	}
	profile, err := c.Users.UpdateUserProfile(ctx, id, update)
	if err != nil {
		return nil, err
	}
	c.applyIfCurrent(id, profile)
	return profile, nil
}

// OnClear registers a hook that runs after the session is destroyed.
func (c *SessionController) OnClear(fn func(models.Session)) {
	c.mu.Lock()
	c.onClear = append(c.onClear, fn)
	c.mu.Unlock()
}

// Clear signs out. Hooks see the session that was just destroyed.
func (c *SessionController) Clear() {
	c.mu.Lock()
	old := c.session
	c.session = nil
	c.profile = nil
	hooks := append([]func(models.Session){}, c.onClear...)
	c.mu.Unlock()

	if old == nil {
		return
	}
	c.Logger.Info("Session", "Signed out", map[string]interface{}{"user_id": old.UserID})
	for _, fn := range hooks {
		fn(*old)
	}
	c.notify()
}

func (c *SessionController) apply(profile *models.UserProfile) models.Session {
	session := profile.Session()
	cp := *profile
	c.mu.Lock()
	c.session = &session
	c.profile = &cp
	c.mu.Unlock()
	c.notify()
	return session
}

// applyIfCurrent ignores answers that arrive after a sign-out.
func (c *SessionController) applyIfCurrent(userID string, profile *models.UserProfile) {
	if profile.UserID == "" {
		profile.UserID = userID
	}
	c.mu.Lock()
	current := c.session != nil && c.session.UserID == userID
	c.mu.Unlock()
	if current {
		c.apply(profile)
	}
}

func (c *SessionController) notify() {
	if c.OnChange != nil {
		c.OnChange()
	}
}
