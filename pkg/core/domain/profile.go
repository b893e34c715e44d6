package domain

import "time"

// Profile is a user's public page identity. Its ID is derived from the
// auth identity, so every signed-in user owns exactly one profile.
type Profile struct {
	ID              string    `json:"id"`
	Username        string    `json:"username"`
	DisplayName     string    `json:"display_name,omitempty"`
	Bio             string    `json:"bio,omitempty"`
	AvatarURL       string    `json:"avatar_url,omitempty"`
	Website         string    `json:"website,omitempty"`
	SocialInstagram string    `json:"social_instagram,omitempty"`
	SocialLinkedIn  string    `json:"social_linkedin,omitempty"`
	SocialTwitter   string    `json:"social_twitter,omitempty"`
	SocialYouTube   string    `json:"social_youtube,omitempty"`
	IsVerified      bool      `json:"is_verified"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ProfileUpdate carries a partial profile edit. Nil fields are left as they are.
type ProfileUpdate struct {
	Username        *string `json:"username,omitempty"`
	DisplayName     *string `json:"display_name,omitempty"`
	Bio             *string `json:"bio,omitempty"`
	AvatarURL       *string `json:"avatar_url,omitempty"`
	Website         *string `json:"website,omitempty"`
	SocialInstagram *string `json:"social_instagram,omitempty"`
	SocialLinkedIn  *string `json:"social_linkedin,omitempty"`
	SocialTwitter   *string `json:"social_twitter,omitempty"`
	SocialYouTube   *string `json:"social_youtube,omitempty"`
}

// Identity is what the auth provider tells us about a user on sign-in.
type Identity struct {
	Email   string
	Name    string
	Picture string
}

// PublicProfile is what an anonymous visitor gets for a username.
type PublicProfile struct {
	Profile Profile      `json:"profile"`
	Links   []PublicLink `json:"links"`
}
