package controllers

import (
	"testing"
	"time"

	"tradermatch_client/mocks"
	"tradermatch_client/models"
	"tradermatch_client/services"
	"tradermatch_client/utils"
)

func newBackends(t *testing.T) (*mocks.Backend, *services.Backend) {
	t.Helper()
	fake := mocks.NewBackend()
	t.Cleanup(fake.Close)
	return fake, services.NewBackend(fake.URL(), 5*time.Second, utils.NewNopLogger())
}

func newSwipeController(t *testing.T, policy SwipePolicy) (*mocks.Backend, *SwipeController) {
	t.Helper()
	fake, backend := newBackends(t)
	c := NewSwipeController(backend.Discovery, backend.Actions, policy, utils.NewNopLogger())
	c.Subscriptions = backend.Subscription
	t.Cleanup(c.Wait)
	return fake, c
}

func offline(id string) models.Candidate {
	return candidate(id, models.StatusOffline)
}

func ids(cs []models.Candidate) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.UserID
	}
	return out
}
