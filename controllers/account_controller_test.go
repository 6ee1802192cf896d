package controllers

import (
	"context"
	"testing"

	"tradermatch_client/mocks"
	"tradermatch_client/models"
	"tradermatch_client/services"
	"tradermatch_client/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAccountController(t *testing.T) (*mocks.Backend, *AccountController) {
	t.Helper()
	fake, backend := newBackends(t)
	session := NewSessionController(backend.Auth, backend.Users, utils.NewNopLogger())
	_, err := session.Login(context.Background(), "satoshi")
	require.NoError(t, err)
	return fake, NewAccountController(session, backend.Subscription, backend.Referrals, backend.Users, utils.NewNopLogger())
}

func TestSubscriptionIsCachedUntilUpgrade(t *testing.T) {
	fake, c := newAccountController(t)
	ctx := context.Background()

	sub, err := c.Subscription(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.PlanFree, sub.Plan)
	_, err = c.Subscription(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, fake.Calls("GET /api/subscription"))

	upgraded, err := c.Upgrade(ctx, models.PlanPremium)
	require.NoError(t, err)
	assert.Equal(t, models.PlanPremium, upgraded.Plan)

	sub, err = c.Subscription(ctx)
	require.NoError(t, err)
	assert.True(t, sub.Has(models.FeatureRewind))
	assert.Equal(t, 2, fake.Calls("GET /api/subscription"))
}

func TestReferrals(t *testing.T) {
	fake, c := newAccountController(t)
	ctx := context.Background()

	stats, err := c.Referrals(ctx)
	require.NoError(t, err)
	assert.Equal(t, "MOON42", stats.Code)
	assert.Equal(t, 3, stats.TotalReferred)

	require.NoError(t, c.ApplyReferral(ctx, "WAGMI2024"))
	assert.Equal(t, 1, fake.Calls("POST /api/referrals/apply"))

	assert.Error(t, c.ApplyReferral(ctx, "no!"))
	assert.Equal(t, 1, fake.Calls("POST /api/referrals/apply"))
}

func TestPublicProfile(t *testing.T) {
	fake, c := newAccountController(t)
	ctx := context.Background()

	profile, err := c.PublicProfile(ctx, "satoshi")
	require.NoError(t, err)
	assert.Equal(t, "satoshi", profile.Username)

	_, err = c.PublicProfile(ctx, "satoshi")
	require.NoError(t, err)
	assert.Equal(t, 1, fake.Calls("GET /api/public-profile"))

	_, err = c.PublicProfile(ctx, "nobody")
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestAccountNeedsSession(t *testing.T) {
	_, c := newAccountController(t)
	c.Session.Clear()

	_, err := c.Subscription(context.Background())
	assert.ErrorIs(t, err, ErrNoSession)
	assert.ErrorIs(t, c.ApplyReferral(context.Background(), "MOON42"), ErrNoSession)
}
