package user

import "time"

const (
	DefaultBio      = "Welcome to my profile!"
	UnknownUsername = "unknown user"
)

type User struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	Credential string    `json:"-"`
	Bio        string    `json:"bio"`
	HasAvatar  bool      `json:"has_avatar"`
	CreatedAt  time.Time `json:"created_at"`
}

// Profile is the public part of a user joined onto posts and comments.
type Profile struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Bio       string `json:"bio"`
	HasAvatar bool   `json:"has_avatar"`
}

func (u User) Profile() Profile {
	return Profile{ID: u.ID, Username: u.Username, Bio: u.Bio, HasAvatar: u.HasAvatar}
}

// Unknown stands in for a referenced user that no longer resolves.
func Unknown(id string) Profile {
	return Profile{ID: id, Username: UnknownUsername}
}
