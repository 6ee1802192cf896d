// Package views decides which top-level screen is shown. Navigation intent
// is stored and reduced by pure functions; the visible screen is derived
// from it and the session on every render.
package views

import "tradermatch_client/models"

// Screen is a top-level view.
type Screen string

const (
	Login         Screen = "login"
	ProfileSetup  Screen = "profile_setup"
	Discover      Screen = "discover"
	Matches       Screen = "matches"
	Chat          Screen = "chat"
	ProfileEdit   Screen = "profile_edit"
	PublicProfile Screen = "public_profile"
)

// IsMain reports whether s is one of the signed-in screens.
func IsMain(s Screen) bool {
	switch s {
	case Discover, Matches, Chat:
		return true
	}
	return false
}

// Nav is the stored navigation intent.
type Nav struct {
	Requested     Screen `json:"requested"`
	ActiveMatchID string `json:"active_match_id,omitempty"`
	Username      string `json:"username,omitempty"`
}

// Initial is where a fresh session lands.
func Initial() Nav {
	return Nav{Requested: Discover}
}

// NavEvent is a user navigation event.
type NavEvent interface {
	navEvent()
}

// Navigate selects a main tab.
type Navigate struct{ To Screen }

// OpenChat opens the conversation of a match.
type OpenChat struct{ MatchID string }

// CloseChat goes back to the match list.
type CloseChat struct{}

// EditProfile opens the profile editor.
type EditProfile struct{}

// ProfileSaved leaves the editor after a successful save.
type ProfileSaved struct{}

// ViewPublicProfile shows someone's shareable profile.
type ViewPublicProfile struct{ Username string }

// LoggedOut drops all navigation state.
type LoggedOut struct{}

func (Navigate) navEvent()          {}
func (OpenChat) navEvent()          {}
func (CloseChat) navEvent()         {}
func (EditProfile) navEvent()       {}
func (ProfileSaved) navEvent()      {}
func (ViewPublicProfile) navEvent() {}
func (LoggedOut) navEvent()         {}

// Reduce applies one event. It never looks at the session; guards live in
// Resolve.
func Reduce(nav Nav, event NavEvent) Nav {
	switch e := event.(type) {
	case Navigate:
		switch e.To {
		case Discover, Matches:
			return Nav{Requested: e.To}
		case Chat:
			if nav.ActiveMatchID == "" {
				return Nav{Requested: Matches}
			}
			return Nav{Requested: Chat, ActiveMatchID: nav.ActiveMatchID}
		case ProfileEdit:
			return Reduce(nav, EditProfile{})
		}
		return nav
	case OpenChat:
		if e.MatchID == "" {
			return Nav{Requested: Matches}
		}
		return Nav{Requested: Chat, ActiveMatchID: e.MatchID}
	case CloseChat:
		return Nav{Requested: Matches}
	case EditProfile:
		if !IsMain(nav.Requested) {
			return nav
		}
		return Nav{Requested: ProfileEdit}
	case ProfileSaved:
		return Nav{Requested: Discover}
	case ViewPublicProfile:
		if e.Username == "" {
			return nav
		}
		return Nav{Requested: PublicProfile, Username: e.Username}
	case LoggedOut:
		return Initial()
	}
	return nav
}

// Resolve derives the visible screen. No session always means Login and an
// incomplete profile always means ProfileSetup, whatever was requested.
func Resolve(nav Nav, session *models.Session) Screen {
	if session == nil {
		return Login
	}
	if !session.ProfileComplete {
		return ProfileSetup
	}

	switch nav.Requested {
	case Discover, Matches, ProfileEdit:
		return nav.Requested
	case Chat:
		if nav.ActiveMatchID == "" {
			return Matches
		}
		return Chat
	case PublicProfile:
		if nav.Username == "" {
			return Discover
		}
		return PublicProfile
	}
	return Discover
}
