package routes

import (
	"tradermatch_client/controllers"

	"github.com/gorilla/mux"
)

// RegisterChatRoutes sets up routes for conversations
func RegisterChatRoutes(r *mux.Router, app *controllers.App) {
	controller := controllers.NewChatController(app)

	r.HandleFunc("/conversations/{matchId}", controller.HandleOpenConversation).Methods("POST")
	r.HandleFunc("/conversation", controller.HandleCloseConversation).Methods("DELETE")
	r.HandleFunc("/messages", controller.HandleSendMessage).Methods("POST")
}
