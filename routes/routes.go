package routes

import (
	"net/http"

	"tradermatch_client/controllers"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// RegisterRoutes sets up every bridge route for the application
func RegisterRoutes(r *mux.Router, app *controllers.App) {
	r.HandleFunc("/health", controllers.HealthCheckHandler).Methods("GET")

	RegisterUserProfileRoutes(r, app)
	RegisterActionRoutes(r, app)
	RegisterChatRoutes(r, app)
	RegisterUploadRoutes(r, app)
	RegisterReferralRoutes(r, app)
}

// NewBridgeHandler builds the router and wraps it in CORS for the browser
// shell.
func NewBridgeHandler(app *controllers.App, allowedOrigins []string) http.Handler {
	r := mux.NewRouter()
	r.Use(RequestLogger(app.Logger))
	RegisterRoutes(r, app)

	return cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)
}
