package services

import (
	"time"

	"tradermatch_client/utils"
)

// Backend groups every endpoint service behind one shared APIService.
type Backend struct {
	API          *APIService
	Auth         *AuthService
	Users        *UserProfileService
	Discovery    *DiscoveryService
	Actions      *ActionService
	Matches      *MatchService
	Chat         *ChatService
	Uploads      *UploadService
	Social       *SocialService
	Subscription *SubscriptionService
	Referrals    *ReferralService
}

func NewBackend(baseURL string, timeout time.Duration, logger utils.ILogger) *Backend {
	api := NewAPIService(baseURL, timeout, logger)
	return &Backend{
		API:          api,
		Auth:         &AuthService{API: api},
		Users:        NewUserProfileService(api),
		Discovery:    &DiscoveryService{API: api},
		Actions:      &ActionService{API: api},
		Matches:      &MatchService{API: api},
		Chat:         &ChatService{API: api},
		Uploads:      &UploadService{API: api},
		Social:       &SocialService{API: api},
		Subscription: NewSubscriptionService(api),
		Referrals:    &ReferralService{API: api},
	}
}
