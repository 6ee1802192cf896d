package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"tradermatch_client/models"
	"tradermatch_client/views"
)

// View implements tea.Model.
func (model Model) View() string {
	var body string
	switch model.screen {
	case views.Login:
		body = model.viewLogin()
	case views.ProfileSetup, views.ProfileEdit:
		body = model.viewForm()
	case views.Discover:
		body = model.viewDiscover()
	case views.Matches:
		body = model.viewMatches()
	case views.Chat:
		body = model.viewChat()
	case views.PublicProfile:
		body = model.viewPublicProfile()
	}

	switch {
	case model.state.Alert != "":
		body = lipgloss.JoinVertical(lipgloss.Left, body,
			model.styles.alert.Render(model.state.Alert+"  "+model.styles.faint.Render("enter to dismiss")))
	case model.state.Celebration != nil:
		body = model.viewCelebration()
	}

	if model.status != "" {
		body = lipgloss.JoinVertical(lipgloss.Left, body, model.styles.faint.Render(model.status))
	}
	if model.width > 0 {
		body = lipgloss.NewStyle().MaxWidth(model.width).Render(body)
	}
	return body
}

func (model Model) header() string {
	var tabs []string
	for _, tab := range []struct {
		screen views.Screen
		label  string
	}{{views.Discover, "1 Discover"}, {views.Matches, "2 Matches"}} {
		if model.screen == tab.screen {
			tabs = append(tabs, model.styles.selected.Render(" "+tab.label+" "))
		} else {
			tabs = append(tabs, model.styles.faint.Render(" "+tab.label+" "))
		}
	}
	name := ""
	if model.state.Session != nil {
		name = model.state.Session.DisplayName
	}
	realtime := model.styles.offline.Render("○ offline")
	if model.state.ChannelOpen {
		realtime = model.styles.online.Render("● live")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		model.styles.title.Render("TraderMatch "), strings.Join(tabs, ""), "  ", name, "  ", realtime)
}

func (model Model) help(bindings ...key.Binding) string {
	var parts []string
	for _, binding := range bindings {
		help := binding.Help()
		parts = append(parts, help.Key+" "+help.Desc)
	}
	return model.styles.help.Render(strings.Join(parts, " • "))
}

func (model Model) viewLogin() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		model.styles.title.Render("TraderMatch"),
		"Find your trading partner.",
		"",
		"Username: "+model.input.View(),
		model.styles.help.Render("enter sign in • ctrl+c quit"),
	)
}

func (model Model) viewForm() string {
	title := "Set up your profile"
	if model.screen == views.ProfileEdit {
		title = "Edit profile"
	}
	lines := []string{model.styles.title.Render(title), ""}
	for i, input := range model.form.inputs {
		label := fmt.Sprintf("%-15s", fieldLabels[i])
		if formField(i) == model.form.focus {
			label = model.styles.accent.Render(label)
		}
		line := label + " " + input.View()
		if hint := fieldHints[i]; hint != "" && formField(i) == model.form.focus {
			line += "  " + model.styles.faint.Render(hint)
		}
		lines = append(lines, line)
	}
	help := "tab next field • enter save"
	if model.screen == views.ProfileEdit {
		help += " • esc cancel"
	}
	lines = append(lines, model.styles.help.Render(help))
	return strings.Join(lines, "\n")
}

func (model Model) viewDiscover() string {
	discovery := model.state.Discovery
	filter := "everyone"
	if model.state.ActiveOnly {
		filter = "online only"
	}
	meta := model.styles.faint.Render(fmt.Sprintf("mode %s • %s • %d/%d", discovery.Mode, filter, discovery.Cursor, discovery.Length))

	var card string
	switch {
	case discovery.Current != nil:
		card = model.renderCandidate(*discovery.Current)
	case !discovery.Loaded || discovery.Refilling:
		card = model.styles.card.Render("Finding traders…")
	default:
		card = model.styles.card.Render("No more traders right now.\nCheck back later or switch mode.")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		model.header(), "", meta, card,
		model.help(model.keys.Pass, model.keys.Like, model.keys.ToggleMode, model.keys.ActiveOnly,
			model.keys.Rewind, model.keys.ViewProfile, model.keys.EditProfile, model.keys.Logout, model.keys.Quit),
	)
}

func (model Model) renderCandidate(candidate models.Candidate) string {
	name := candidate.DisplayName
	if name == "" {
		name = candidate.Username
	}
	status := model.styles.offline.Render("offline")
	if candidate.Status == models.StatusActive {
		status = model.styles.online.Render("online")
	}
	lines := []string{model.styles.title.Render(name) + "  " + status}
	if candidate.Age > 0 || candidate.Location != "" {
		lines = append(lines, strings.TrimSpace(fmt.Sprintf("%s %s", ageText(candidate.Age), candidate.Location)))
	}
	if candidate.TradingStyle != "" || candidate.ExperienceLevel != "" {
		lines = append(lines, model.styles.accent.Render(strings.TrimSpace(candidate.TradingStyle+" "+candidate.ExperienceLevel)))
	}
	if len(candidate.FavoriteCoins) > 0 {
		lines = append(lines, "coins: "+strings.Join(candidate.FavoriteCoins, ", "))
	}
	if candidate.Bio != "" {
		lines = append(lines, "", candidate.Bio)
	}
	if candidate.AICompatibility != nil {
		lines = append(lines, "", model.styles.accent.Render(fmt.Sprintf("%.0f%% compatible", candidate.AICompatibility.Percentage)))
	}
	return model.styles.card.Render(strings.Join(lines, "\n"))
}

func ageText(age int) string {
	if age <= 0 {
		return ""
	}
	return fmt.Sprintf("%d •", age)
}

func (model Model) viewMatches() string {
	lines := []string{model.header(), ""}
	if len(model.state.Matches) == 0 {
		lines = append(lines, model.styles.faint.Render("No matches yet. Keep swiping."))
	}
	for i, match := range model.state.Matches {
		name := match.OtherUser.DisplayName
		if name == "" {
			name = match.OtherUser.Username
		}
		line := fmt.Sprintf(" %s  %s ", name, model.styles.faint.Render(match.OtherUser.TradingStyle))
		if i == model.cursor {
			line = model.styles.selected.Render(line)
		}
		lines = append(lines, line)
	}
	lines = append(lines, model.help(model.keys.Up, model.keys.Down, model.keys.Submit, model.keys.ViewProfile, model.keys.TabDiscover, model.keys.Quit))
	return strings.Join(lines, "\n")
}

func (model Model) viewChat() string {
	title := "Chat"
	if match := model.state.ActiveMatch; match != nil {
		title = match.OtherUser.DisplayName
		if title == "" {
			title = match.OtherUser.Username
		}
	}
	self := ""
	if model.state.Session != nil {
		self = model.state.Session.UserID
	}

	lines := []string{model.header(), "", model.styles.title.Render(title)}
	messages := model.state.Messages
	if model.height > 8 && len(messages) > model.height-8 {
		messages = messages[len(messages)-(model.height-8):]
	}
	for _, message := range messages {
		if message.SenderID == self {
			lines = append(lines, model.styles.accent.Render("you: ")+message.Content)
		} else {
			lines = append(lines, model.styles.faint.Render(title+": ")+message.Content)
		}
	}
	lines = append(lines, "", "> "+model.input.View(), model.styles.help.Render("enter send • esc back"))
	return strings.Join(lines, "\n")
}

func (model Model) viewPublicProfile() string {
	lines := []string{model.header(), ""}
	switch profile := model.state.PublicProfile; {
	case model.state.PublicProfileNotFound:
		lines = append(lines, "Profile not found.")
	case profile == nil:
		lines = append(lines, model.styles.faint.Render("Loading profile…"))
	default:
		lines = append(lines, model.renderCandidate(models.Candidate{UserProfile: profile.UserProfile}))
		links := profile.SocialLinks
		for _, link := range []struct{ label, value string }{
			{"twitter", links.Twitter}, {"telegram", links.Telegram}, {"discord", links.Discord},
			{"linkedin", links.LinkedIn}, {"website", links.Website},
		} {
			if link.value != "" {
				lines = append(lines, fmt.Sprintf("%-9s %s", link.label, link.value))
			}
		}
		for _, highlight := range profile.TradingHighlights {
			lines = append(lines, model.styles.accent.Render(fmt.Sprintf("★ %s %s %+.1f%%", highlight.Title, highlight.Coin, highlight.ProfitPct)))
		}
	}
	lines = append(lines, model.styles.help.Render("esc back"))
	return strings.Join(lines, "\n")
}

func (model Model) viewCelebration() string {
	celebration := model.state.Celebration
	name := "someone"
	if celebration.Candidate != nil {
		name = celebration.Candidate.DisplayName
		if name == "" {
			name = celebration.Candidate.Username
		}
	}
	return model.styles.modal.Render(lipgloss.JoinVertical(lipgloss.Center,
		model.styles.title.Render("It's a match!"),
		"",
		"You and "+name+" liked each other.",
		model.styles.help.Render("2 open matches • enter keep swiping"),
	))
}
