package model

import "time"

// DefaultAvatarURL is assigned to accounts created through signup.
const DefaultAvatarURL = "https://images.unsplash.com/photo-1472099645785-5658abf4ff4e?w=150&h=150&fit=crop&crop=face"

// DefaultRole is the role given to self-registered accounts.
const DefaultRole = "Team Member"

// User is a member of the workspace.
type User struct {
	// ID is the unique identifier for this user.
	ID string `json:"id" db:"id"`

	// Name is the user's display name.
	Name string `json:"name" db:"name"`

	// Email identifies the account at login. Not unique: the registry
	// permits duplicate emails, and login resolves the earliest match.
	Email string `json:"email" db:"email"`

	// AvatarURL points to the user's profile image.
	AvatarURL string `json:"avatar_url" db:"avatar_url"`

	// Role is a free-form job title shown next to the name.
	Role string `json:"role" db:"role"`

	// CreatedAt is when the account was registered.
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Initials returns up to two uppercase initials for avatar placeholders.
func (u User) Initials() string {
	var initials []rune
	nextIsInitial := true
	for _, r := range u.Name {
		if r == ' ' {
			nextIsInitial = true
			continue
		}
		if nextIsInitial && len(initials) < 2 {
			initials = append(initials, r)
		}
		nextIsInitial = false
	}
	out := make([]rune, 0, len(initials))
	for _, r := range initials {
		if 'a' <= r && r <= 'z' {
			r = r - 'a' + 'A'
		}
		out = append(out, r)
	}
	return string(out)
}
