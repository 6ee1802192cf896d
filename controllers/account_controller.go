package controllers

import (
	"context"

	"tradermatch_client/models"
	"tradermatch_client/utils"
)

// SubscriptionStore reads and changes the user's plan.
type SubscriptionStore interface {
	SubscriptionReader
	Upgrade(ctx context.Context, userID, plan string) (*models.Subscription, error)
}

// ReferralStore reads referral stats and redeems codes.
type ReferralStore interface {
	GetReferralStats(ctx context.Context, userID string) (*models.ReferralStats, error)
	ApplyReferralCode(ctx context.Context, req models.ApplyReferralRequest) error
}

// PublicProfileReader looks up shareable profiles by username.
type PublicProfileReader interface {
	GetPublicProfile(ctx context.Context, username string) (*models.PublicProfile, error)
}

// AccountController covers plan, referrals and public profiles.
type AccountController struct {
	Session       *SessionController
	Subscriptions SubscriptionStore
	ReferralStore ReferralStore
	Profiles      PublicProfileReader
	Logger        utils.ILogger
}

func NewAccountController(session *SessionController, subs SubscriptionStore, referrals ReferralStore, profiles PublicProfileReader, logger utils.ILogger) *AccountController {
	return &AccountController{
		Session:       session,
		Subscriptions: subs,
		ReferralStore: referrals,
		Profiles:      profiles,
		Logger:        logger,
	}
}

func (c *AccountController) userID() (string, error) {
	s := c.Session.Current()
	if s == nil {
		return "", ErrNoSession
	}
	return s.UserID, nil
}

// Subscription returns the current plan.
func (c *AccountController) Subscription(ctx context.Context) (*models.Subscription, error) {
	id, err := c.userID()
	if err != nil {
		return nil, err
	}
	return c.Subscriptions.GetSubscription(ctx, id)
}

// Upgrade moves the user to plan. Billing happens elsewhere.
func (c *AccountController) Upgrade(ctx context.Context, plan string) (*models.Subscription, error) {
	id, err := c.userID()
	if err != nil {
		return nil, err
	}
	sub, err := c.Subscriptions.Upgrade(ctx, id, plan)
	if err != nil {
		c.Logger.Error("Account", "Upgrade failed", map[string]interface{}{"plan": plan, "error": err.Error()})
		return nil, err
	}
	c.Logger.Info("Account", "Plan upgraded", map[string]interface{}{"plan": sub.Plan})
	return sub, nil
}

// Referrals reports the user's code and how many people used it.
func (c *AccountController) Referrals(ctx context.Context) (*models.ReferralStats, error) {
	id, err := c.userID()
	if err != nil {
		return nil, err
	}
	return c.ReferralStore.GetReferralStats(ctx, id)
}

// ApplyReferral redeems someone else's code for the signed-in user.
func (c *AccountController) ApplyReferral(ctx context.Context, code string) error {
	id, err := c.userID()
	if err != nil {
		return err
	}
	return c.ReferralStore.ApplyReferralCode(ctx, models.ApplyReferralRequest{UserID: id, Code: code})
}

// PublicProfile needs no session. An unknown username yields an error that
// matches services.ErrNotFound.
func (c *AccountController) PublicProfile(ctx context.Context, username string) (*models.PublicProfile, error) {
	return c.Profiles.GetPublicProfile(ctx, username)
}
