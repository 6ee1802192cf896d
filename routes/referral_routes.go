package routes

import (
	"tradermatch_client/controllers"

	"github.com/gorilla/mux"
)

// RegisterReferralRoutes sets up plan and referral routes
func RegisterReferralRoutes(r *mux.Router, app *controllers.App) {
	controller := controllers.NewReferralController(app)

	r.HandleFunc("/subscription", controller.GetSubscriptionHandler).Methods("GET")
	r.HandleFunc("/subscription/upgrade", controller.UpgradeHandler).Methods("POST")
	r.HandleFunc("/referrals", controller.GetReferralsHandler).Methods("GET")
	r.HandleFunc("/referrals/apply", controller.ApplyReferralHandler).Methods("POST")
}
