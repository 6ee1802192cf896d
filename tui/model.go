// Package tui is the terminal front end of the client. It renders
// controllers.App snapshots and turns key presses into App operations.
package tui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"tradermatch_client/controllers"
	"tradermatch_client/models"
	"tradermatch_client/views"
)

// appChangedMsg is sent whenever the App signals a state change.
type appChangedMsg struct{}

// operationResultMsg carries the outcome of an App call run as a command.
// Alerts are raised by the App itself, so err only feeds the status line.
type operationResultMsg struct {
	err error
}

// Model is the bubbletea model for the whole client.
type Model struct {
	ctx    context.Context
	app    *controllers.App
	keys   KeyMap
	styles styles

	state  controllers.ViewState
	screen views.Screen

	input  textinput.Model
	form   profileForm
	cursor int
	status string

	width  int
	height int
}

// NewModel builds the model around a running App. The context bounds every
// backend call the model starts.
func NewModel(ctx context.Context, app *controllers.App) Model {
	input := textinput.New()
	input.CharLimit = 1000
	model := Model{
		ctx:    ctx,
		app:    app,
		keys:   DefaultKeyMap,
		styles: newStyles(DefaultTheme),
		input:  input,
	}
	model.refresh()
	return model
}

// Init starts listening for App changes.
func (model Model) Init() tea.Cmd {
	return tea.Batch(listenForChanges(model.app.Changes()), textinput.Blink)
}

func listenForChanges(channel <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-channel; !ok {
			return nil
		}
		return appChangedMsg{}
	}
}

// run executes an App call off the update loop.
func (model Model) run(operation func(ctx context.Context) error) tea.Cmd {
	ctx := model.ctx
	return func() tea.Msg {
		return operationResultMsg{err: operation(ctx)}
	}
}

// refresh takes a new snapshot and resets per-screen widgets when the
// screen changed.
func (model *Model) refresh() {
	model.state = model.app.Snapshot()
	if model.state.Screen != model.screen || model.screen == "" {
		model.enter(model.state.Screen)
	}
	if model.cursor >= len(model.state.Matches) {
		model.cursor = max(len(model.state.Matches)-1, 0)
	}
}

func (model *Model) enter(screen views.Screen) {
	model.screen = screen
	model.input.Reset()
	model.input.Blur()
	switch screen {
	case views.Login:
		model.input.Placeholder = "username"
		model.input.Focus()
	case views.Chat:
		model.input.Placeholder = "type a message"
		model.input.Focus()
	case views.ProfileSetup, views.ProfileEdit:
		model.form = newProfileForm(model.app.Profile.Draft())
	}
}

// Update implements tea.Model.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height
		return model, nil

	case appChangedMsg:
		model.refresh()
		return model, listenForChanges(model.app.Changes())

	case operationResultMsg:
		model.status = ""
		if message.err != nil {
			model.status = describe(message.err)
		}
		model.refresh()
		return model, nil

	case tea.KeyMsg:
		if message.Type == tea.KeyCtrlC {
			return model, tea.Quit
		}
		if model.state.Alert != "" {
			if key.Matches(message, model.keys.Submit, model.keys.Back) {
				model.app.DismissAlert()
				model.refresh()
			}
			return model, nil
		}
		if model.state.Celebration != nil {
			return model.updateCelebration(message)
		}
		switch model.screen {
		case views.Login:
			return model.updateLogin(message)
		case views.ProfileSetup, views.ProfileEdit:
			return model.updateForm(message)
		case views.Discover:
			return model.updateDiscover(message)
		case views.Matches:
			return model.updateMatches(message)
		case views.Chat:
			return model.updateChat(message)
		case views.PublicProfile:
			return model.updatePublicProfile(message)
		}
	}
	return model, nil
}

func (model Model) updateCelebration(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.TabMatches):
		model.app.DismissCelebration()
		model.app.Navigate(views.Matches)
	case key.Matches(message, model.keys.Submit, model.keys.Back):
		model.app.DismissCelebration()
	}
	model.refresh()
	return model, nil
}

func (model Model) updateLogin(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(message, model.keys.Submit) {
		username := model.input.Value()
		return model, model.run(func(ctx context.Context) error {
			return model.app.Login(ctx, username)
		})
	}
	var command tea.Cmd
	model.input, command = model.input.Update(message)
	return model, command
}

func (model Model) updateForm(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Next), message.Type == tea.KeyDown:
		model.form.next(1)
		return model, nil
	case message.Type == tea.KeyShiftTab, message.Type == tea.KeyUp:
		model.form.next(-1)
		return model, nil
	case key.Matches(message, model.keys.Back):
		if model.screen == views.ProfileEdit {
			model.app.Navigate(views.Discover)
			model.refresh()
		}
		return model, nil
	case key.Matches(message, model.keys.Submit):
		update := model.form.value()
		if !model.app.Profile.CanSubmit(update) {
			model.status = "fill in name, bio, age (18+), trading style and experience"
			return model, nil
		}
		return model, model.run(func(ctx context.Context) error {
			return model.app.SaveProfile(ctx, update)
		})
	}
	return model, model.form.update(message)
}

func (model Model) updateDiscover(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Quit):
		return model, tea.Quit
	case key.Matches(message, model.keys.Like):
		return model, model.decide(models.ActionLike)
	case key.Matches(message, model.keys.Pass):
		return model, model.decide(models.ActionPass)
	case key.Matches(message, model.keys.ToggleMode):
		mode := models.ModeAI
		if model.state.Discovery.Mode == models.ModeAI {
			mode = models.ModeBrowse
		}
		return model, model.run(func(ctx context.Context) error {
			return model.app.SetMode(ctx, mode)
		})
	case key.Matches(message, model.keys.ActiveOnly):
		on := !model.state.ActiveOnly
		return model, model.run(func(ctx context.Context) error {
			return model.app.SetActiveOnly(ctx, on)
		})
	case key.Matches(message, model.keys.Rewind):
		return model, model.run(model.app.Swipes.Rewind)
	case key.Matches(message, model.keys.ViewProfile):
		if current := model.state.Discovery.Current; current != nil && current.Username != "" {
			username := current.Username
			return model, model.run(func(ctx context.Context) error {
				return model.app.ViewPublicProfile(ctx, username)
			})
		}
	default:
		model.navigateMain(message)
	}
	return model, nil
}

func (model Model) decide(action string) tea.Cmd {
	return model.run(func(ctx context.Context) error {
		_, err := model.app.Decide(ctx, action)
		return err
	})
}

func (model Model) updateMatches(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Quit):
		return model, tea.Quit
	case key.Matches(message, model.keys.Up):
		if model.cursor > 0 {
			model.cursor--
		}
	case key.Matches(message, model.keys.Down):
		if model.cursor < len(model.state.Matches)-1 {
			model.cursor++
		}
	case key.Matches(message, model.keys.Submit):
		if match, ok := model.selectedMatch(); ok {
			matchID := match.MatchID
			return model, model.run(func(ctx context.Context) error {
				return model.app.OpenChat(ctx, matchID)
			})
		}
	case key.Matches(message, model.keys.ViewProfile):
		if match, ok := model.selectedMatch(); ok && match.OtherUser.Username != "" {
			username := match.OtherUser.Username
			return model, model.run(func(ctx context.Context) error {
				return model.app.ViewPublicProfile(ctx, username)
			})
		}
	default:
		model.navigateMain(message)
	}
	return model, nil
}

func (model Model) selectedMatch() (models.Match, bool) {
	if model.cursor < 0 || model.cursor >= len(model.state.Matches) {
		return models.Match{}, false
	}
	return model.state.Matches[model.cursor], true
}

func (model Model) updateChat(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Back):
		model.app.CloseChat()
		model.refresh()
		return model, nil
	case key.Matches(message, model.keys.Submit):
		err := model.app.SendMessage(model.input.Value())
		switch {
		case err == nil:
			model.input.Reset()
			model.status = ""
		case errors.Is(err, controllers.ErrEmptyMessage):
		default:
			model.status = describe(err)
		}
		return model, nil
	}
	var command tea.Cmd
	model.input, command = model.input.Update(message)
	return model, command
}

func (model Model) updatePublicProfile(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Quit):
		return model, tea.Quit
	case key.Matches(message, model.keys.Back):
		model.app.Navigate(views.Discover)
		model.refresh()
	default:
		model.navigateMain(message)
	}
	return model, nil
}

// navigateMain handles the tab keys shared by the main screens.
func (model *Model) navigateMain(message tea.KeyMsg) {
	switch {
	case key.Matches(message, model.keys.TabDiscover):
		model.app.Navigate(views.Discover)
	case key.Matches(message, model.keys.TabMatches):
		model.app.Navigate(views.Matches)
	case key.Matches(message, model.keys.EditProfile):
		model.app.EditProfile()
	case key.Matches(message, model.keys.Logout):
		model.app.Logout()
	default:
		return
	}
	model.status = ""
	model.refresh()
}

// describe turns controller errors into a short status line.
func describe(err error) string {
	switch {
	case errors.Is(err, controllers.ErrQueueExhausted):
		return "no more traders right now"
	case errors.Is(err, controllers.ErrChannelClosed):
		return "chat is offline, message not sent"
	case errors.Is(err, controllers.ErrRewindUnavailable):
		return "rewind is a premium feature"
	case errors.Is(err, controllers.ErrRewindNotSupported):
		return "rewind is not available yet"
	case errors.Is(err, controllers.ErrInvalidProfile):
		return "profile is incomplete"
	default:
		return err.Error()
	}
}
