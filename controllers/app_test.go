package controllers

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"tradermatch_client/mocks"
	"tradermatch_client/models"
	"tradermatch_client/utils"
	"tradermatch_client/views"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const waitFor = 2 * time.Second

func newApp(t *testing.T) (*mocks.Backend, *App) {
	t.Helper()
	fake, backend := newBackends(t)
	logger := utils.NewNopLogger()
	app := NewApp(backend, SocketDialer(fake.WebSocketURL(), logger), AppOptions{Policy: DefaultSwipePolicy}, logger)
	t.Cleanup(app.Close)
	return fake, app
}

// loginComplete signs in and fills the profile so the main screens resolve.
func loginComplete(t *testing.T, fake *mocks.Backend, app *App) string {
	t.Helper()
	require.NoError(t, app.Login(context.Background(), "satoshi"))
	require.NoError(t, app.SaveProfile(context.Background(), validUpdate()))
	userID := app.Session.Current().UserID
	require.NoError(t, fake.WaitForConnection(userID, waitFor))
	return userID
}

func TestAppStartsOnLogin(t *testing.T) {
	_, app := newApp(t)
	state := app.Snapshot()
	assert.Equal(t, views.Login, state.Screen)
	assert.Nil(t, state.Session)
	assert.False(t, state.ChannelOpen)
	assert.NotNil(t, state.Matches)
	assert.NotNil(t, state.Messages)
}

func TestAppLoginOpensChannelAndLoadsData(t *testing.T) {
	fake, app := newApp(t)
	fake.QueuePage(models.ModeBrowse, candidates("a", "b", "c", "d")...)

	require.NoError(t, app.Login(context.Background(), "satoshi"))
	userID := app.Session.Current().UserID
	require.NoError(t, fake.WaitForConnection(userID, waitFor))

	state := app.Snapshot()
	assert.Equal(t, views.ProfileSetup, state.Screen)
	assert.True(t, state.ChannelOpen)
	assert.Equal(t, 4, state.Discovery.Length)
	assert.Equal(t, 1, fake.Calls("GET /api/discover"))
	assert.Equal(t, 1, fake.Calls("GET /api/matches"))

	require.NoError(t, app.SaveProfile(context.Background(), validUpdate()))
	assert.Equal(t, views.Discover, app.Snapshot().Screen)
}

func TestAppSecondLoginReplacesChannel(t *testing.T) {
	fake, app := newApp(t)
	first := loginComplete(t, fake, app)

	require.NoError(t, app.Login(context.Background(), "vitalik"))
	second := app.Session.Current().UserID
	require.NoError(t, fake.WaitForConnection(second, waitFor))

	assert.NotEqual(t, first, second)
	assert.Eventually(t, func() bool { return !fake.Connected(first) }, waitFor, 10*time.Millisecond)
}

func TestAppMatchOnSwipe(t *testing.T) {
	fake, app := newApp(t)
	fake.QueuePage(models.ModeBrowse, candidates("A", "B", "C")...)
	fake.Configure(func(b *mocks.Backend) { b.MatchOn["A"] = true })
	userID := loginComplete(t, fake, app)
	fake.Configure(func(b *mocks.Backend) { b.Matches[userID] = []models.Match{match("match-A", "A")} })

	outcome, err := app.Decide(context.Background(), models.ActionLike)
	require.NoError(t, err)
	assert.True(t, outcome.Matched)
	app.Wait()

	state := app.Snapshot()
	assert.Equal(t, 1, state.Discovery.Cursor)
	require.NotNil(t, state.Celebration)
	assert.Equal(t, "match-A", state.Celebration.MatchID)
	assert.Equal(t, 2, fake.Calls("GET /api/matches"))
	require.Len(t, state.Matches, 1)

	app.DismissCelebration()
	assert.Nil(t, app.Snapshot().Celebration)
}

func TestAppNewMatchPushRefreshesOnce(t *testing.T) {
	fake, app := newApp(t)
	userID := loginComplete(t, fake, app)
	require.Equal(t, 1, fake.Calls("GET /api/matches"))
	fake.Configure(func(b *mocks.Backend) { b.Matches[userID] = []models.Match{match("m1", "alice")} })

	require.NoError(t, fake.Push(userID, map[string]string{"type": models.FrameNewMatch}))

	require.Eventually(t, func() bool { return fake.Calls("GET /api/matches") == 2 }, waitFor, 10*time.Millisecond)
	app.Wait()
	time.Sleep(50 * time.Millisecond)
	app.Wait()

	state := app.Snapshot()
	assert.Equal(t, 2, fake.Calls("GET /api/matches"))
	assert.Len(t, state.Matches, 1)
	assert.NotNil(t, state.Celebration)
}

func TestAppChatPushWhileViewingConversation(t *testing.T) {
	fake, app := newApp(t)
	userID := loginComplete(t, fake, app)
	fake.Configure(func(b *mocks.Backend) {
		b.Matches[userID] = []models.Match{match("m1", "alice")}
		b.Messages["m1"] = []models.Message{message("old", "m1", "gm")}
	})
	require.NoError(t, app.Matches.Refresh(context.Background()))
	require.NoError(t, app.OpenChat(context.Background(), "m1"))

	state := app.Snapshot()
	assert.Equal(t, views.Chat, state.Screen)
	require.NotNil(t, state.ActiveMatch)
	assert.Equal(t, "alice", state.ActiveMatch.OtherUser.UserID)
	require.Len(t, state.Messages, 1)

	require.NoError(t, fake.Push(userID, map[string]interface{}{
		"type":    models.FrameChatMessage,
		"message": message("m1", "m1", "wagmi"),
	}))

	require.Eventually(t, func() bool { return len(app.Snapshot().Messages) == 2 }, waitFor, 10*time.Millisecond)
	msgs := app.Snapshot().Messages
	assert.Equal(t, "m1", msgs[1].MessageID)

	app.CloseChat()
	state = app.Snapshot()
	assert.Equal(t, views.Matches, state.Screen)
	assert.Empty(t, state.Messages)
}

func TestAppSendMessageWaitsForEcho(t *testing.T) {
	fake, app := newApp(t)
	loginComplete(t, fake, app)
	fake.Configure(func(b *mocks.Backend) { b.EchoChat = true })
	require.NoError(t, app.OpenChat(context.Background(), "m1"))

	assert.ErrorIs(t, app.SendMessage("  "), ErrEmptyMessage)
	require.NoError(t, app.SendMessage("to the moon"))

	require.Eventually(t, func() bool { return len(app.Snapshot().Messages) == 1 }, waitFor, 10*time.Millisecond)
	assert.Equal(t, "to the moon", app.Snapshot().Messages[0].Content)
	require.Len(t, fake.Received(), 1)
	assert.Equal(t, "m1", fake.Received()[0].MatchID)
}

func TestAppLogoutFromMatchesGoesToLogin(t *testing.T) {
	fake, app := newApp(t)
	userID := loginComplete(t, fake, app)
	app.Navigate(views.Matches)
	require.Equal(t, views.Matches, app.Snapshot().Screen)

	app.Logout()

	state := app.Snapshot()
	assert.Equal(t, views.Login, state.Screen)
	assert.False(t, state.ChannelOpen)
	assert.Equal(t, views.Initial(), state.Nav)
	assert.Zero(t, state.Discovery.Length)
	assert.Eventually(t, func() bool { return !fake.Connected(userID) }, waitFor, 10*time.Millisecond)
	assert.ErrorIs(t, app.SendMessage("gm"), ErrNoConversation)
}

func TestAppServerCloseDoesNotReconnect(t *testing.T) {
	fake, app := newApp(t)
	userID := loginComplete(t, fake, app)

	fake.DropConnections()
	require.Eventually(t, func() bool { return !app.Snapshot().ChannelOpen }, waitFor, 10*time.Millisecond)
	time.Sleep(100 * time.Millisecond)
	assert.False(t, fake.Connected(userID))

	require.NoError(t, app.OpenChat(context.Background(), "m1"))
	assert.ErrorIs(t, app.SendMessage("gm"), ErrChannelClosed)
}

func TestAppWorksWithoutRealtime(t *testing.T) {
	fake, backend := newBackends(t)
	fake.QueuePage(models.ModeBrowse, candidates("a", "b", "c")...)
	dial := func(ctx context.Context, userID string) (RealtimeChannel, error) {
		return nil, errors.New("connection refused")
	}
	app := NewApp(backend, dial, AppOptions{Policy: DefaultSwipePolicy}, utils.NewNopLogger())
	t.Cleanup(app.Close)

	require.NoError(t, app.Login(context.Background(), "satoshi"))
	state := app.Snapshot()
	assert.False(t, state.ChannelOpen)
	assert.Empty(t, state.Alert)
	assert.Equal(t, 3, state.Discovery.Length)
}

func TestAppAlertAsymmetry(t *testing.T) {
	fake, app := newApp(t)
	fake.QueuePage(models.ModeBrowse, candidates("a", "b", "c", "d")...)
	loginComplete(t, fake, app)

	fake.Configure(func(b *mocks.Backend) { b.FailSwipes = true })
	_, err := app.Decide(context.Background(), models.ActionLike)
	require.NoError(t, err)
	assert.Empty(t, app.Snapshot().Alert)

	invalid := validUpdate()
	invalid.Bio = ""
	assert.ErrorIs(t, app.SaveProfile(context.Background(), invalid), ErrInvalidProfile)
	assert.Empty(t, app.Snapshot().Alert)

	fake.Configure(func(b *mocks.Backend) { b.FailProfileUpdates = true })
	require.Error(t, app.SaveProfile(context.Background(), validUpdate()))
	assert.Equal(t, AlertProfileFailed, app.Snapshot().Alert)

	app.DismissAlert()
	assert.Empty(t, app.Snapshot().Alert)

	_, err = app.UploadHighlight(context.Background(), "x.png", strings.NewReader("png"), models.TradingHighlight{})
	require.Error(t, err)
	assert.Equal(t, AlertUploadFailed, app.Snapshot().Alert)
}

func TestAppLoginFailureRaisesAlert(t *testing.T) {
	_, app := newApp(t)
	require.Error(t, app.Login(context.Background(), ""))
	state := app.Snapshot()
	assert.Equal(t, AlertLoginFailed, state.Alert)
	assert.Equal(t, views.Login, state.Screen)
}

func TestAppEditProfileReturnsToDiscover(t *testing.T) {
	fake, app := newApp(t)
	loginComplete(t, fake, app)
	app.Navigate(views.Matches)
	app.EditProfile()
	require.Equal(t, views.ProfileEdit, app.Snapshot().Screen)

	require.NoError(t, app.SaveProfile(context.Background(), validUpdate()))
	assert.Equal(t, views.Discover, app.Snapshot().Screen)
}

func TestAppPublicProfileNotFound(t *testing.T) {
	fake, app := newApp(t)
	loginComplete(t, fake, app)

	require.Error(t, app.ViewPublicProfile(context.Background(), "nobody"))
	state := app.Snapshot()
	assert.Equal(t, views.PublicProfile, state.Screen)
	assert.True(t, state.PublicProfileNotFound)
	assert.Nil(t, state.PublicProfile)

	require.NoError(t, app.ViewPublicProfile(context.Background(), "satoshi"))
	state = app.Snapshot()
	assert.False(t, state.PublicProfileNotFound)
	require.NotNil(t, state.PublicProfile)
	assert.Equal(t, "satoshi", state.PublicProfile.Username)
}

func TestAppSignalsChanges(t *testing.T) {
	fake, app := newApp(t)
	fake.QueuePage(models.ModeBrowse, candidates("a", "b", "c")...)

	// drain anything queued by construction
	select {
	case <-app.Changes():
	default:
	}

	require.NoError(t, app.Login(context.Background(), "satoshi"))
	select {
	case <-app.Changes():
	case <-time.After(waitFor):
		t.Fatal("no change signal after login")
	}
}
