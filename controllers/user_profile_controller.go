package controllers

import (
	"net/http"

	"tradermatch_client/models"
	"tradermatch_client/views"

	"github.com/gorilla/mux"
)

// UserProfileController handles bridge requests for the session and profile
type UserProfileController struct {
	App *App
}

// NewUserProfileController creates a new instance of UserProfileController
func NewUserProfileController(app *App) *UserProfileController {
	return &UserProfileController{App: app}
}

// HandleGetState returns the full view state
func (c *UserProfileController) HandleGetState(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, http.StatusOK, c.App.Snapshot())
}

// HandleLogin signs in with a demo account
func (c *UserProfileController) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Username string `json:"username"`
	}
	if !decodeBody(w, r, &request) {
		return
	}

	if err := c.App.Login(r.Context(), request.Username); err != nil {
		c.App.Logger.Warn("Bridge", "❌ Login failed", map[string]interface{}{"username": request.Username, "error": err.Error()})
		writeErr(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, c.App.Snapshot())
}

// HandleTwitterLogin returns the OAuth start URL
func (c *UserProfileController) HandleTwitterLogin(w http.ResponseWriter, r *http.Request) {
	url, err := c.App.Session.TwitterLoginURL(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]string{"auth_url": url})
}

// HandleLogout ends the session and closes realtime
func (c *UserProfileController) HandleLogout(w http.ResponseWriter, r *http.Request) {
	c.App.Logout()
	writeJSONResponse(w, http.StatusOK, c.App.Snapshot())
}

// HandleNavigate switches the main tab
func (c *UserProfileController) HandleNavigate(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Screen views.Screen `json:"screen"`
	}
	if !decodeBody(w, r, &request) {
		return
	}
	c.App.Navigate(request.Screen)
	writeJSONResponse(w, http.StatusOK, c.App.Snapshot())
}

// HandleSaveProfile submits the profile form
func (c *UserProfileController) HandleSaveProfile(w http.ResponseWriter, r *http.Request) {
	var update models.ProfileUpdate
	if !decodeBody(w, r, &update) {
		return
	}

	if err := c.App.SaveProfile(r.Context(), update); err != nil {
		c.App.Logger.Error("Bridge", "❌ Failed to save profile", map[string]interface{}{"error": err.Error()})
		writeErr(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, c.App.Snapshot())
}

// HandleSetStatus toggles online presence
func (c *UserProfileController) HandleSetStatus(w http.ResponseWriter, r *http.Request) {
	var request models.UserStatus
	if !decodeBody(w, r, &request) {
		return
	}
	if err := c.App.Session.SetStatus(r.Context(), request.Status); err != nil {
		writeErr(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, c.App.Snapshot())
}

// HandleGetPublicProfile shows someone's shareable profile
func (c *UserProfileController) HandleGetPublicProfile(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]
	if err := c.App.ViewPublicProfile(r.Context(), username); err != nil {
		writeErr(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, c.App.Snapshot())
}

// HandleDismissAlert closes the alert dialog
func (c *UserProfileController) HandleDismissAlert(w http.ResponseWriter, r *http.Request) {
	c.App.DismissAlert()
	writeJSONResponse(w, http.StatusOK, c.App.Snapshot())
}
