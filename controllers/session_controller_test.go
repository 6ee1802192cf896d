package controllers

import (
	"context"
	"testing"

	"tradermatch_client/mocks"
	"tradermatch_client/models"
	"tradermatch_client/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSessionController(t *testing.T) (*mocks.Backend, *SessionController) {
	t.Helper()
	fake, backend := newBackends(t)
	return fake, NewSessionController(backend.Auth, backend.Users, utils.NewNopLogger())
}

func TestSessionLogin(t *testing.T) {
	fake, c := newSessionController(t)
	assert.Nil(t, c.Current())

	session, err := c.Login(context.Background(), "  satoshi ")
	require.NoError(t, err)

	assert.NotEmpty(t, session.UserID)
	assert.Equal(t, "satoshi", session.DisplayName)
	assert.Equal(t, models.StatusActive, session.Status)
	assert.False(t, session.ProfileComplete)
	assert.Equal(t, &session, c.Current())
	assert.Equal(t, "satoshi", c.Profile().Username)
	assert.Equal(t, 1, fake.Calls("POST /api/create-demo-user"))
}

func TestSessionLoginRequiresName(t *testing.T) {
	fake, c := newSessionController(t)
	_, err := c.Login(context.Background(), "   ")
	require.Error(t, err)
	assert.Nil(t, c.Current())
	assert.Zero(t, fake.Calls("POST /api/create-demo-user"))
}

func TestSessionOperationsNeedSession(t *testing.T) {
	_, c := newSessionController(t)
	ctx := context.Background()

	assert.ErrorIs(t, c.Refresh(ctx), ErrNoSession)
	assert.ErrorIs(t, c.Touch(ctx), ErrNoSession)
	assert.ErrorIs(t, c.SetStatus(ctx, models.StatusOffline), ErrNoSession)
	_, err := c.Status(ctx)
	assert.ErrorIs(t, err, ErrNoSession)
	_, err = c.SaveProfile(ctx, models.ProfileUpdate{})
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestSessionStatusAndActivity(t *testing.T) {
	fake, c := newSessionController(t)
	ctx := context.Background()
	_, err := c.Login(ctx, "vitalik")
	require.NoError(t, err)

	require.NoError(t, c.SetStatus(ctx, models.StatusOffline))
	assert.Equal(t, models.StatusOffline, c.Current().Status)

	status, err := c.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.StatusOffline, status.Status)

	assert.Error(t, c.SetStatus(ctx, "away"))
	assert.Equal(t, models.StatusOffline, c.Current().Status)

	require.NoError(t, c.Touch(ctx))
	assert.Equal(t, 1, fake.Calls("POST /api/user/update-activity"))
}

func TestSessionRefreshPicksUpServerChanges(t *testing.T) {
	fake, c := newSessionController(t)
	ctx := context.Background()
	session, err := c.Login(ctx, "vitalik")
	require.NoError(t, err)

	fake.Configure(func(b *mocks.Backend) {
		p := b.Users[session.UserID]
		p.ProfileComplete = true
		p.AvatarURL = "https://cdn.example/v.png"
		b.Users[session.UserID] = p
	})
	require.NoError(t, c.Refresh(ctx))

	assert.True(t, c.Current().ProfileComplete)
	assert.Equal(t, "https://cdn.example/v.png", c.Current().AvatarURL)
}

func TestSessionClearRunsHooksOnce(t *testing.T) {
	_, c := newSessionController(t)
	var cleared []string
	c.OnClear(func(s models.Session) { cleared = append(cleared, s.UserID) })

	session, err := c.Login(context.Background(), "satoshi")
	require.NoError(t, err)

	c.Clear()
	c.Clear()

	assert.Nil(t, c.Current())
	assert.Nil(t, c.Profile())
	assert.Equal(t, []string{session.UserID}, cleared)
}

func TestTwitterLoginURL(t *testing.T) {
	_, c := newSessionController(t)
	url, err := c.TwitterLoginURL(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://twitter.example/oauth", url)
}
