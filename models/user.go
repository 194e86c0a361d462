package models

// UserProfile is the normalized identity record produced once at startup.
// Balance and IsVerified are only ever updated by re-fetching the profile
// from the commerce service; they are never adjusted locally.
type UserProfile struct {
	ID          string  `json:"id"`
	DisplayName string  `json:"displayName"`
	PhotoURL    string  `json:"photoUrl,omitempty"`
	Balance     float64 `json:"balance"`
	IsVerified  bool    `json:"isVerified"`
}
