package controllers

import (
	"net/http"
)

// ReferralController handles bridge requests for plan and referrals
type ReferralController struct {
	App *App
}

func NewReferralController(app *App) *ReferralController {
	return &ReferralController{App: app}
}

// **1️⃣ Current plan**
func (c *ReferralController) GetSubscriptionHandler(w http.ResponseWriter, r *http.Request) {
	sub, err := c.App.Account.Subscription(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, sub)
}

// **2️⃣ Upgrade plan**
func (c *ReferralController) UpgradeHandler(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Plan string `json:"plan"`
	}
	if !decodeBody(w, r, &request) {
		return
	}
	if request.Plan == "" {
		writeError(w, http.StatusBadRequest, "plan is required")
		return
	}

	sub, err := c.App.Account.Upgrade(r.Context(), request.Plan)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, sub)
}

// **3️⃣ Referral stats**
func (c *ReferralController) GetReferralsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := c.App.Account.Referrals(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, stats)
}

// **4️⃣ Redeem a referral code**
func (c *ReferralController) ApplyReferralHandler(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Code string `json:"referral_code"`
	}
	if !decodeBody(w, r, &request) {
		return
	}

	if err := c.App.Account.ApplyReferral(r.Context(), request.Code); err != nil {
		writeErr(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]string{"message": "Referral code applied"})
}
