package routes

import (
	"tradermatch_client/controllers"

	"github.com/gorilla/mux"
)

// RegisterUploadRoutes sets up multipart upload routes
func RegisterUploadRoutes(r *mux.Router, app *controllers.App) {
	controller := controllers.NewUploadController(app)

	r.HandleFunc("/profile/avatar", controller.HandleUploadAvatar).Methods("POST")
	r.HandleFunc("/profile/highlights", controller.HandleUploadHighlight).Methods("POST")
}
