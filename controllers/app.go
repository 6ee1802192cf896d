package controllers

import (
	"context"
	"errors"
	"io"
	"sync"

	"tradermatch_client/models"
	"tradermatch_client/services"
	"tradermatch_client/socket"
	"tradermatch_client/utils"
	"tradermatch_client/views"
)

// RealtimeChannel is the push connection of one session.
type RealtimeChannel interface {
	ChatSender
	Subscribe(h socket.Handler) (unsubscribe func())
	Close() error
	Done() <-chan struct{}
}

// Dialer opens the realtime channel for a user.
type Dialer func(ctx context.Context, userID string) (RealtimeChannel, error)

// SocketDialer dials {wsBaseURL}/api/ws/{user_id}.
func SocketDialer(wsBaseURL string, logger utils.ILogger) Dialer {
	return func(ctx context.Context, userID string) (RealtimeChannel, error) {
		ch, err := socket.Dial(ctx, wsBaseURL, userID, logger)
		if err != nil {
			return nil, err
		}
		return ch, nil
	}
}

// Alert texts shown for the flows that report failures to the user.
const (
	AlertLoginFailed   = "Login failed. Please try again."
	AlertProfileFailed = "Failed to save profile. Please try again."
	AlertUploadFailed  = "Upload failed. Please try again."
)

// AppOptions are the per-process defaults of a session.
type AppOptions struct {
	ActiveOnly bool
	Policy     SwipePolicy
}

// ViewState is an immutable snapshot of everything a front end renders.
type ViewState struct {
	Screen                views.Screen          `json:"screen"`
	Nav                   views.Nav             `json:"nav"`
	Session               *models.Session       `json:"session,omitempty"`
	Discovery             QueueView             `json:"discovery"`
	ActiveOnly            bool                  `json:"active_only"`
	Matches               []models.Match        `json:"matches"`
	ActiveMatch           *models.Match         `json:"active_match,omitempty"`
	Messages              []models.Message      `json:"messages"`
	Celebration           *Celebration          `json:"celebration,omitempty"`
	Alert                 string                `json:"alert,omitempty"`
	ChannelOpen           bool                  `json:"channel_open"`
	PublicProfile         *models.PublicProfile `json:"public_profile,omitempty"`
	PublicProfileNotFound bool                  `json:"public_profile_not_found"`
}

// App composes the stores, the realtime channel and the view router for one
// client. Front ends call its methods and render Snapshot after every
// signal on Changes.
type App struct {
	Session *SessionController
	Swipes  *SwipeController
	Matches *MatchController
	Profile *ProfileController
	Account *AccountController
	Logger  utils.ILogger

	dial    Dialer
	options AppOptions

	// lifecycle serializes Login and Logout
	lifecycle sync.Mutex

	mu             sync.Mutex
	nav            views.Nav
	channel        RealtimeChannel
	unsubscribe    []func()
	alert          string
	publicProfile  *models.PublicProfile
	publicNotFound bool

	changes chan struct{}
}

// NewApp wires every store to the backend services.
func NewApp(backend *services.Backend, dial Dialer, options AppOptions, logger utils.ILogger) *App {
	session := NewSessionController(backend.Auth, backend.Users, logger)
	swipes := NewSwipeController(backend.Discovery, backend.Actions, options.Policy, logger)
	swipes.Subscriptions = backend.Subscription
	matches := NewMatchController(backend.Matches, backend.Chat, logger)

	a := &App{
		Session: session,
		Swipes:  swipes,
		Matches: matches,
		Profile: NewProfileController(session, backend.Uploads, backend.Social, logger),
		Account: NewAccountController(session, backend.Subscription, backend.Referrals, backend.Users, logger),
		Logger:  logger,
		dial:    dial,
		options: options,
		nav:     views.Initial(),
		changes: make(chan struct{}, 1),
	}

	session.OnChange = a.notify
	swipes.OnChange = a.notify
	matches.OnChange = a.notify
	swipes.OnMatch = func(candidate models.Candidate, result models.SwipeResult) {
		a.Logger.Info("App", "💖 It's a match", map[string]interface{}{
			"match_id": result.MatchID, "user_id": candidate.UserID,
		})
		matches.RefreshAsync()
	}
	session.OnClear(a.teardown)
	return a
}

// Changes signals that Snapshot may have changed. Signals are coalesced.
func (a *App) Changes() <-chan struct{} {
	return a.changes
}

func (a *App) notify() {
	select {
	case a.changes <- struct{}{}:
	default:
	}
}

// Login signs in, opens realtime and loads the decks and matches. Only the
// sign-in itself can fail; realtime and discovery problems are logged.
// Login and Logout are serialized, so a session owns at most one channel.
func (a *App) Login(ctx context.Context, username string) error {
	a.lifecycle.Lock()
	defer a.lifecycle.Unlock()

	if a.Session.Current() != nil {
		a.Session.Clear()
	}

	session, err := a.Session.Login(ctx, username)
	if err != nil {
		a.setAlert(AlertLoginFailed)
		return err
	}

	a.mu.Lock()
	a.nav = views.Initial()
	a.alert = ""
	a.mu.Unlock()

	channel := a.dialChannel(ctx, session.UserID)
	if current := a.Session.Current(); current == nil || current.UserID != session.UserID {
		if channel != nil {
			_ = channel.Close()
		}
		a.notify()
		return nil
	}

	// Stores are bound before any frame can reach them.
	var sender ChatSender
	if channel != nil {
		sender = channel
	}
	a.Matches.Bind(session.UserID, sender)
	if channel != nil {
		a.attachChannel(channel)
	}
	_ = a.Swipes.Start(ctx, session.UserID, a.options.ActiveOnly)
	_ = a.Matches.Refresh(ctx)

	a.notify()
	return nil
}

func (a *App) dialChannel(ctx context.Context, userID string) RealtimeChannel {
	if a.dial == nil {
		return nil
	}
	channel, err := a.dial(ctx, userID)
	if err != nil {
		a.Logger.Warn("App", "Realtime unavailable", map[string]interface{}{"user_id": userID, "error": err.Error()})
		return nil
	}
	return channel
}

// attachChannel subscribes the stores and replaces any previous channel.
func (a *App) attachChannel(channel RealtimeChannel) {
	unsubscribe := []func(){
		channel.Subscribe(a.Swipes.HandleFrame),
		channel.Subscribe(a.Matches.HandleFrame),
	}

	a.mu.Lock()
	previous, previousUnsubscribe := a.channel, a.unsubscribe
	a.channel = channel
	a.unsubscribe = unsubscribe
	a.mu.Unlock()

	for _, fn := range previousUnsubscribe {
		fn()
	}
	if previous != nil {
		_ = previous.Close()
	}

	go func() {
		<-channel.Done()
		a.notify()
	}()
}

// Logout destroys the session; the clear hook closes the channel.
func (a *App) Logout() {
	a.lifecycle.Lock()
	defer a.lifecycle.Unlock()
	a.Session.Clear()
}

// Close releases the channel and waits for background work.
func (a *App) Close() {
	a.Logout()
	a.Wait()
}

func (a *App) teardown(old models.Session) {
	a.mu.Lock()
	channel := a.channel
	unsubscribe := a.unsubscribe
	a.channel = nil
	a.unsubscribe = nil
	a.nav = views.Reduce(a.nav, views.LoggedOut{})
	a.alert = ""
	a.publicProfile = nil
	a.publicNotFound = false
	a.mu.Unlock()

	for _, fn := range unsubscribe {
		fn()
	}
	if channel != nil {
		if err := channel.Close(); err != nil {
			a.Logger.Debug("App", "Channel close", map[string]interface{}{"user_id": old.UserID, "error": err.Error()})
		}
	}
	a.Swipes.Reset()
	a.Matches.Reset()
	a.notify()
}

// Decide submits a verdict for the card on screen. Delivery failures are
// not reported.
func (a *App) Decide(ctx context.Context, action string) (DecisionOutcome, error) {
	return a.Swipes.Decide(ctx, action)
}

func (a *App) SetMode(ctx context.Context, mode models.DiscoveryMode) error {
	return a.Swipes.SetMode(ctx, mode)
}

func (a *App) SetActiveOnly(ctx context.Context, on bool) error {
	return a.Swipes.SetActiveOnly(ctx, on)
}

func (a *App) DismissCelebration() {
	a.Swipes.DismissCelebration()
}

// Navigate selects a main tab.
func (a *App) Navigate(screen views.Screen) {
	a.dispatch(views.Navigate{To: screen})
	if screen != views.Chat {
		a.Matches.CloseConversation()
	}
}

// OpenChat shows a conversation and loads its history.
func (a *App) OpenChat(ctx context.Context, matchID string) error {
	a.dispatch(views.OpenChat{MatchID: matchID})
	return a.Matches.OpenConversation(ctx, matchID)
}

func (a *App) CloseChat() {
	a.dispatch(views.CloseChat{})
	a.Matches.CloseConversation()
}

func (a *App) SendMessage(content string) error {
	return a.Matches.SendMessage(content)
}

func (a *App) EditProfile() {
	a.dispatch(views.EditProfile{})
}

// SaveProfile submits the profile form. An incomplete form is refused
// without an alert; a failed request raises one.
func (a *App) SaveProfile(ctx context.Context, update models.ProfileUpdate) error {
	if _, err := a.Profile.Save(ctx, update); err != nil {
		if !errors.Is(err, ErrInvalidProfile) {
			a.setAlert(AlertProfileFailed)
		}
		return err
	}
	a.mu.Lock()
	if a.nav.Requested == views.ProfileEdit {
		a.nav = views.Reduce(a.nav, views.ProfileSaved{})
	}
	a.mu.Unlock()
	a.notify()
	return nil
}

func (a *App) UploadAvatar(ctx context.Context, fileName string, file io.Reader) (string, error) {
	url, err := a.Profile.UploadAvatar(ctx, fileName, file)
	if err != nil {
		a.setAlert(AlertUploadFailed)
		return "", err
	}
	return url, nil
}

func (a *App) UploadHighlight(ctx context.Context, fileName string, file io.Reader, highlight models.TradingHighlight) (string, error) {
	url, err := a.Profile.UploadHighlight(ctx, fileName, file, highlight)
	if err != nil {
		a.setAlert(AlertUploadFailed)
		return "", err
	}
	return url, nil
}

// ViewPublicProfile looks up username. An unknown user shows the not found
// view instead of an alert.
func (a *App) ViewPublicProfile(ctx context.Context, username string) error {
	a.dispatch(views.ViewPublicProfile{Username: username})

	profile, err := a.Account.PublicProfile(ctx, username)

	a.mu.Lock()
	if a.nav.Username == username {
		a.publicProfile = profile
		a.publicNotFound = errors.Is(err, services.ErrNotFound)
	}
	a.mu.Unlock()
	a.notify()
	return err
}

func (a *App) DismissAlert() {
	a.setAlert("")
}

func (a *App) setAlert(msg string) {
	a.mu.Lock()
	a.alert = msg
	a.mu.Unlock()
	a.notify()
}

func (a *App) dispatch(event views.NavEvent) {
	a.mu.Lock()
	a.nav = views.Reduce(a.nav, event)
	a.mu.Unlock()
	a.notify()
}

// Snapshot renders the current state. The screen is derived here, never
// stored.
func (a *App) Snapshot() ViewState {
	session := a.Session.Current()

	a.mu.Lock()
	nav := a.nav
	alert := a.alert
	channelOpen := a.channel != nil && a.channel.IsOpen()
	var public *models.PublicProfile
	if a.publicProfile != nil {
		cp := *a.publicProfile
		public = &cp
	}
	notFound := a.publicNotFound
	a.mu.Unlock()

	activeID, messages := a.Matches.Active()
	state := ViewState{
		Screen:                views.Resolve(nav, session),
		Nav:                   nav,
		Session:               session,
		Discovery:             a.Swipes.View(),
		ActiveOnly:            a.Swipes.ActiveOnly(),
		Matches:               a.Matches.List(),
		Messages:              messages,
		Celebration:           a.Swipes.Celebration(),
		Alert:                 alert,
		ChannelOpen:           channelOpen,
		PublicProfile:         public,
		PublicProfileNotFound: notFound,
	}
	if activeID != "" {
		if m, ok := a.Matches.Match(activeID); ok {
			state.ActiveMatch = &m
		}
	}
	if state.Matches == nil {
		state.Matches = []models.Match{}
	}
	if state.Messages == nil {
		state.Messages = []models.Message{}
	}
	return state
}

// Wait blocks until background refills and refreshes have finished.
func (a *App) Wait() {
	a.Swipes.Wait()
	a.Matches.Wait()
}
