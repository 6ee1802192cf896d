package routes_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tradermatch_client/controllers"
	"tradermatch_client/mocks"
	"tradermatch_client/models"
	"tradermatch_client/routes"
	"tradermatch_client/services"
	"tradermatch_client/utils"
	"tradermatch_client/views"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bridge struct {
	t    *testing.T
	fake *mocks.Backend
	app  *controllers.App
	srv  *httptest.Server
}

func newBridge(t *testing.T) *bridge {
	t.Helper()
	fake := mocks.NewBackend()
	t.Cleanup(fake.Close)

	logger := utils.NewNopLogger()
	backend := services.NewBackend(fake.URL(), 5*time.Second, logger)
	app := controllers.NewApp(backend, controllers.SocketDialer(fake.WebSocketURL(), logger),
		controllers.AppOptions{Policy: controllers.DefaultSwipePolicy}, logger)
	t.Cleanup(app.Close)

	srv := httptest.NewServer(routes.NewBridgeHandler(app, []string{"http://localhost:3000"}))
	t.Cleanup(srv.Close)
	return &bridge{t: t, fake: fake, app: app, srv: srv}
}

func (b *bridge) do(method, path string, body interface{}) *http.Response {
	b.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(b.t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, b.srv.URL+path, &buf)
	require.NoError(b.t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(b.t, err)
	b.t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (b *bridge) state(resp *http.Response) controllers.ViewState {
	b.t.Helper()
	var state controllers.ViewState
	require.NoError(b.t, json.NewDecoder(resp.Body).Decode(&state))
	return state
}

func (b *bridge) login() controllers.ViewState {
	b.t.Helper()
	resp := b.do("POST", "/login", map[string]string{"username": "satoshi"})
	require.Equal(b.t, http.StatusOK, resp.StatusCode)
	resp = b.do("POST", "/profile", models.ProfileUpdate{
		DisplayName: "Satoshi", Bio: "hodl", Age: 30, TradingStyle: "hodler", ExperienceLevel: "expert",
	})
	require.Equal(b.t, http.StatusOK, resp.StatusCode)
	return b.state(resp)
}

func TestHealth(t *testing.T) {
	b := newBridge(t)
	resp := b.do("GET", "/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestStateBeforeLogin(t *testing.T) {
	b := newBridge(t)
	state := b.state(b.do("GET", "/state", nil))
	assert.Equal(t, views.Login, state.Screen)
}

func TestLoginAndProfileSetup(t *testing.T) {
	b := newBridge(t)
	resp := b.do("POST", "/login", map[string]string{"username": "satoshi"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, views.ProfileSetup, b.state(resp).Screen)

	resp = b.do("POST", "/profile", models.ProfileUpdate{DisplayName: "S"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	state := b.login()
	assert.Equal(t, views.Discover, state.Screen)
	require.NotNil(t, state.Session)
	assert.True(t, state.Session.ProfileComplete)
}

func TestSwipeRoute(t *testing.T) {
	b := newBridge(t)
	b.fake.QueuePage(models.ModeBrowse, models.Candidate{UserProfile: models.UserProfile{UserID: "a", Status: models.StatusActive}})
	b.fake.Configure(func(f *mocks.Backend) { f.MatchOn["a"] = true })
	b.login()

	resp := b.do("POST", "/swipe", map[string]string{"action": "superlike"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = b.do("POST", "/swipe", map[string]string{"action": models.ActionLike})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var outcome controllers.DecisionOutcome
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&outcome))
	assert.True(t, outcome.Matched)
	assert.Equal(t, "a", outcome.Candidate.UserID)
	b.app.Wait()

	resp = b.do("POST", "/swipe", map[string]string{"action": models.ActionPass})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	state := b.state(b.do("POST", "/celebration/dismiss", nil))
	assert.Nil(t, state.Celebration)
}

func TestSwipeNeedsSession(t *testing.T) {
	b := newBridge(t)
	resp := b.do("POST", "/swipe", map[string]string{"action": models.ActionLike})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestModeAndActiveOnly(t *testing.T) {
	b := newBridge(t)
	b.login()

	resp := b.do("POST", "/mode", map[string]string{"mode": "nearby"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	state := b.state(b.do("POST", "/mode", map[string]string{"mode": "ai"}))
	assert.Equal(t, models.ModeAI, state.Discovery.Mode)
	assert.Equal(t, 1, b.fake.Calls("GET /api/ai-matches"))

	state = b.state(b.do("POST", "/active-only", map[string]bool{"enabled": true}))
	assert.True(t, state.ActiveOnly)
	assert.Equal(t, 2, b.fake.Calls("GET /api/ai-matches"))
}

func TestRewindRoute(t *testing.T) {
	b := newBridge(t)
	b.login()
	resp := b.do("POST", "/rewind", nil)
	assert.Equal(t, http.StatusPaymentRequired, resp.StatusCode)
}

func TestConversationRoutes(t *testing.T) {
	b := newBridge(t)
	b.login()
	b.fake.Configure(func(f *mocks.Backend) {
		f.Messages["m1"] = []models.Message{{MessageID: "x1", MatchID: "m1", Content: "gm"}}
	})

	state := b.state(b.do("POST", "/conversations/m1", nil))
	assert.Equal(t, views.Chat, state.Screen)
	require.Len(t, state.Messages, 1)

	resp := b.do("POST", "/messages", map[string]string{"content": "  "})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	require.NoError(t, b.fake.WaitForConnection(state.Session.UserID, 2*time.Second))
	resp = b.do("POST", "/messages", map[string]string{"content": "wagmi"})
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)

	state = b.state(b.do("DELETE", "/conversation", nil))
	assert.Equal(t, views.Matches, state.Screen)

	state = b.state(b.do("POST", "/navigate", map[string]string{"screen": "discover"}))
	assert.Equal(t, views.Discover, state.Screen)
}

func TestLogoutRoute(t *testing.T) {
	b := newBridge(t)
	b.login()
	b.do("POST", "/navigate", map[string]string{"screen": "matches"})

	state := b.state(b.do("POST", "/logout", nil))
	assert.Equal(t, views.Login, state.Screen)
	assert.Nil(t, state.Session)
}

func TestAvatarUploadRoute(t *testing.T) {
	b := newBridge(t)
	state := b.login()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", "me.png")
	require.NoError(t, err)
	_, _ = part.Write([]byte("png"))
	require.NoError(t, w.Close())

	resp, err := http.Post(b.srv.URL+"/profile/avatar", w.FormDataContentType(), &body)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "https://cdn.example/"+state.Session.UserID+"/me.png", out["url"])
}

func TestAccountRoutes(t *testing.T) {
	b := newBridge(t)
	b.login()

	resp := b.do("GET", "/referrals", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var stats models.ReferralStats
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&stats))
	assert.Equal(t, "MOON42", stats.Code)

	resp = b.do("POST", "/referrals/apply", map[string]string{"referral_code": "x"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = b.do("POST", "/subscription/upgrade", map[string]string{"plan": models.PlanPremium})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = b.do("GET", "/public-profile/nobody", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCORSPreflight(t *testing.T) {
	b := newBridge(t)
	req, err := http.NewRequest("OPTIONS", b.srv.URL+"/swipe", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "http://localhost:3000", resp.Header.Get("Access-Control-Allow-Origin"))
}
