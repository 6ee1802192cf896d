package controllers

import (
	"net/http"

	"tradermatch_client/models"
)

// ActionController handles bridge requests for the swipe deck
type ActionController struct {
	App *App
}

// NewActionController creates a new ActionController instance
func NewActionController(app *App) *ActionController {
	return &ActionController{App: app}
}

// HandleSwipe decides on the card on screen
func (ac *ActionController) HandleSwipe(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Action string `json:"action"`
	}
	if !decodeBody(w, r, &request) {
		return
	}
	if request.Action != models.ActionLike && request.Action != models.ActionPass {
		writeError(w, http.StatusBadRequest, "action must be like or pass")
		return
	}

	outcome, err := ac.App.Decide(r.Context(), request.Action)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, outcome)
}

// HandleSetMode switches between the browse and ai decks
func (ac *ActionController) HandleSetMode(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Mode models.DiscoveryMode `json:"mode"`
	}
	if !decodeBody(w, r, &request) {
		return
	}
	if request.Mode != models.ModeBrowse && request.Mode != models.ModeAI {
		writeError(w, http.StatusBadRequest, "mode must be browse or ai")
		return
	}

	// discovery failures are not reported, the deck simply stays empty
	_ = ac.App.SetMode(r.Context(), request.Mode)
	writeJSONResponse(w, http.StatusOK, ac.App.Snapshot())
}

// HandleActiveOnly toggles the online-only filter
func (ac *ActionController) HandleActiveOnly(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Enabled bool `json:"enabled"`
	}
	if !decodeBody(w, r, &request) {
		return
	}
	_ = ac.App.SetActiveOnly(r.Context(), request.Enabled)
	writeJSONResponse(w, http.StatusOK, ac.App.Snapshot())
}

// HandleRewind answers whether the last swipe can be undone
func (ac *ActionController) HandleRewind(w http.ResponseWriter, r *http.Request) {
	if err := ac.App.Swipes.Rewind(r.Context()); err != nil {
		writeErr(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, ac.App.Snapshot())
}

// HandleDismissCelebration closes the match overlay
func (ac *ActionController) HandleDismissCelebration(w http.ResponseWriter, r *http.Request) {
	ac.App.DismissCelebration()
	writeJSONResponse(w, http.StatusOK, ac.App.Snapshot())
}
