package models

// UserProfile defines the structure for trader profiles returned by /api/user/{id}
type UserProfile struct {
	UserID          string   `json:"user_id"`
	Username        string   `json:"username,omitempty"`
	DisplayName     string   `json:"display_name,omitempty"`
	AvatarURL       string   `json:"avatar_url,omitempty"`
	Bio             string   `json:"bio,omitempty"`
	Age             int      `json:"age,omitempty"`
	Location        string   `json:"location,omitempty"`
	TradingStyle    string   `json:"trading_style,omitempty"`
	ExperienceLevel string   `json:"experience_level,omitempty"`
	FavoriteCoins   []string `json:"favorite_coins,omitempty"`
	PortfolioSize   string   `json:"portfolio_size,omitempty"`
	LookingFor      string   `json:"looking_for,omitempty"`
	TwitterHandle   string   `json:"twitter_handle,omitempty"`
	Status          string   `json:"status,omitempty"`
	ProfileComplete bool     `json:"profile_complete"`
}

// Session is the signed-in user as the client sees it
type Session struct {
	UserID          string `json:"user_id"`
	DisplayName     string `json:"display_name"`
	AvatarURL       string `json:"avatar_url,omitempty"`
	ProfileComplete bool   `json:"profile_complete"`
	Status          string `json:"status"`
}

// Session projects the profile onto the fields the session store keeps.
func (p UserProfile) Session() Session {
	status := p.Status
	if status == "" {
		status = StatusActive
	}
	name := p.DisplayName
	if name == "" {
		name = p.Username
	}
	return Session{
		UserID:          p.UserID,
		DisplayName:     name,
		AvatarURL:       p.AvatarURL,
		ProfileComplete: p.ProfileComplete,
		Status:          status,
	}
}

// ProfileUpdate is the body of PUT /api/user/{id}. The tags mirror the
// required fields of the profile form.
type ProfileUpdate struct {
	DisplayName     string   `json:"display_name" validate:"required,min=2,max=40"`
	Bio             string   `json:"bio" validate:"required,max=500"`
	Age             int      `json:"age" validate:"required,gte=18,lte=120"`
	Location        string   `json:"location,omitempty" validate:"max=80"`
	TradingStyle    string   `json:"trading_style" validate:"required,oneof=day_trader swing_trader hodler scalper defi_farmer nft_collector"`
	ExperienceLevel string   `json:"experience_level" validate:"required,oneof=beginner intermediate advanced expert"`
	FavoriteCoins   []string `json:"favorite_coins,omitempty" validate:"max=10,dive,required,max=12"`
	PortfolioSize   string   `json:"portfolio_size,omitempty"`
	LookingFor      string   `json:"looking_for,omitempty" validate:"max=120"`
	ProfileComplete bool     `json:"profile_complete"`
}

// DemoUserRequest is the body of POST /api/create-demo-user
type DemoUserRequest struct {
	Username    string `json:"username" validate:"required"`
	DisplayName string `json:"display_name,omitempty"`
}

// UserStatus is the payload of /api/user-status/{id}
type UserStatus struct {
	UserID   string `json:"user_id,omitempty"`
	Status   string `json:"status" validate:"required,oneof=active offline"`
	LastSeen string `json:"last_seen,omitempty"`
}
