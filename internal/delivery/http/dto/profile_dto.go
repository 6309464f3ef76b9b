package dto

// AuthRequest represents the Telegram login payload
type AuthRequest struct {
	InitData string `json:"init_data"`
}

// AuthResponse represents the login response
type AuthResponse struct {
	Token string      `json:"token"`
	User  *UserOutput `json:"user"`
}

// UserOutput represents user details in API responses
type UserOutput struct {
	ID           int64   `json:"id"`
	Username     string  `json:"username"`
	FirstName    string  `json:"first_name"`
	AvatarURL    string  `json:"avatar_url"`
	Balance      float64 `json:"balance"`
	ReferralCode string  `json:"referral_code"`
	Verification string  `json:"verification"`
	Bought       int     `json:"bought"`
	Sold         int     `json:"sold"`
	TotalVolume  float64 `json:"total_volume"`
}

// LeaderboardRowOutput represents one season leaderboard row
type LeaderboardRowOutput struct {
	Rank     int     `json:"rank"`
	UserID   int64   `json:"user_id"`
	Username string  `json:"username"`
	Volume   float64 `json:"volume"`
	Trades   int     `json:"trades"`
}

// UIStateOutput represents the navigation shell state
type UIStateOutput struct {
	View     string   `json:"view"`
	Selected string   `json:"selected,omitempty"`
	Sheets   []string `json:"sheets"`
}
