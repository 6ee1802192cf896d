package models

// SocialLinks is the payload of /api/social-links/{id}
type SocialLinks struct {
	Twitter  string `json:"twitter,omitempty" validate:"omitempty,url"`
	Telegram string `json:"telegram,omitempty" validate:"omitempty,max=64"`
	Discord  string `json:"discord,omitempty" validate:"omitempty,max=64"`
	LinkedIn string `json:"linkedin,omitempty" validate:"omitempty,url"`
	Website  string `json:"website,omitempty" validate:"omitempty,url"`
}

// TradingHighlight is one showcased trade on a profile
type TradingHighlight struct {
	HighlightID string  `json:"highlight_id,omitempty"`
	Title       string  `json:"title" validate:"required,max=80"`
	Description string  `json:"description,omitempty" validate:"max=500"`
	Coin        string  `json:"coin,omitempty" validate:"max=12"`
	ProfitPct   float64 `json:"profit_percentage,omitempty"`
	ImageURL    string  `json:"image_url,omitempty"`
	CreatedAt   string  `json:"created_at,omitempty"`
}

// Subscription describes the plan granted by the external subscription service
type Subscription struct {
	UserID    string   `json:"user_id,omitempty"`
	Plan      string   `json:"plan"`
	Features  []string `json:"features,omitempty"`
	ExpiresAt string   `json:"expires_at,omitempty"`
}

// Has reports whether the plan grants a named capability.
func (s Subscription) Has(feature string) bool {
	for _, f := range s.Features {
		if f == feature {
			return true
		}
	}
	return false
}

// ReferralStats is the payload of GET /api/referrals/{id}
type ReferralStats struct {
	Code          string   `json:"referral_code"`
	TotalReferred int      `json:"total_referrals"`
	Rewards       float64  `json:"rewards_earned"`
	ReferredUsers []string `json:"referred_users,omitempty"`
}

// ApplyReferralRequest is the body of POST /api/referrals/apply
type ApplyReferralRequest struct {
	UserID string `json:"user_id" validate:"required"`
	Code   string `json:"referral_code" validate:"required,alphanum,min=4,max=16"`
}

// PublicProfile is the shareable page served by /api/public-profile/{username}
type PublicProfile struct {
	UserProfile
	SocialLinks       SocialLinks        `json:"social_links"`
	TradingHighlights []TradingHighlight `json:"trading_highlights,omitempty"`
}

// UploadResult is returned by the multipart upload endpoints
type UploadResult struct {
	URL string `json:"url"`
}
