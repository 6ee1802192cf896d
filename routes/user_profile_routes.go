package routes

import (
	"tradermatch_client/controllers"

	"github.com/gorilla/mux"
)

// RegisterUserProfileRoutes sets up routes for session, navigation and profile
func RegisterUserProfileRoutes(r *mux.Router, app *controllers.App) {
	controller := controllers.NewUserProfileController(app)

	r.HandleFunc("/state", controller.HandleGetState).Methods("GET")
	r.HandleFunc("/login", controller.HandleLogin).Methods("POST")
	r.HandleFunc("/login/twitter", controller.HandleTwitterLogin).Methods("GET")
	r.HandleFunc("/logout", controller.HandleLogout).Methods("POST")
	r.HandleFunc("/navigate", controller.HandleNavigate).Methods("POST")
	r.HandleFunc("/profile", controller.HandleSaveProfile).Methods("POST")
	r.HandleFunc("/status", controller.HandleSetStatus).Methods("POST")
	r.HandleFunc("/public-profile/{username}", controller.HandleGetPublicProfile).Methods("GET")
	r.HandleFunc("/alert/dismiss", controller.HandleDismissAlert).Methods("POST")
}
