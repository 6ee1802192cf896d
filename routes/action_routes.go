package routes

import (
	"tradermatch_client/controllers"

	"github.com/gorilla/mux"
)

// RegisterActionRoutes sets up routes for the swipe deck
func RegisterActionRoutes(r *mux.Router, app *controllers.App) {
	controller := controllers.NewActionController(app)

	r.HandleFunc("/swipe", controller.HandleSwipe).Methods("POST")
	r.HandleFunc("/mode", controller.HandleSetMode).Methods("POST")
	r.HandleFunc("/active-only", controller.HandleActiveOnly).Methods("POST")
	r.HandleFunc("/rewind", controller.HandleRewind).Methods("POST")
	r.HandleFunc("/celebration/dismiss", controller.HandleDismissCelebration).Methods("POST")
}
