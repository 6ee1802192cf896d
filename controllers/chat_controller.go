package controllers

import (
	"net/http"

	"github.com/gorilla/mux"
)

// ChatController struct
type ChatController struct {
	App *App
}

// NewChatController initializes the chat controller
func NewChatController(app *App) *ChatController {
	return &ChatController{App: app}
}

// HandleOpenConversation - Open a match and load its history
func (c *ChatController) HandleOpenConversation(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["matchId"]
	if matchID == "" {
		writeError(w, http.StatusBadRequest, "matchId is required")
		return
	}

	c.App.Logger.Debug("Bridge", "🔍 Opening conversation", map[string]interface{}{"match_id": matchID})
	if err := c.App.OpenChat(r.Context(), matchID); err != nil {
		c.App.Logger.Error("Bridge", "❌ Error fetching messages", map[string]interface{}{"match_id": matchID, "error": err.Error()})
		writeErr(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, c.App.Snapshot())
}

// HandleCloseConversation - Go back to the match list
func (c *ChatController) HandleCloseConversation(w http.ResponseWriter, r *http.Request) {
	c.App.CloseChat()
	writeJSONResponse(w, http.StatusOK, c.App.Snapshot())
}

// HandleSendMessage - Send a message to the open conversation
func (c *ChatController) HandleSendMessage(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Content string `json:"content"`
	}
	if !decodeBody(w, r, &request) {
		return
	}

	if err := c.App.SendMessage(request.Content); err != nil {
		writeErr(w, err)
		return
	}
	// the message appears once the server echoes it over the channel
	writeJSONResponse(w, http.StatusAccepted, map[string]string{"message": "Message sent"})
}
