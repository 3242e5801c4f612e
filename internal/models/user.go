package models

import "time"

// User represents an account in the Joint network.
type User struct {
	ID               string        `bson:"_id,omitempty" json:"id"`
	Email            string        `bson:"email" json:"email"`
	DisplayName      string        `bson:"display_name" json:"display_name"`
	Bio              string        `bson:"bio,omitempty" json:"bio,omitempty"`
	AvatarMediaID    string        `bson:"avatar_media_id,omitempty" json:"avatar_media_id,omitempty"`
	Links            []ProfileLink `bson:"links,omitempty" json:"links,omitempty"`
	PasswordHash     string        `bson:"password_hash" json:"-"`
	Verified         bool          `bson:"verified" json:"verified"`
	CreatedAt        time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time     `bson:"updated_at" json:"updated_at"`
}

// ProfileLink is an external link on a profile (reel, portfolio, IMDb page).
type ProfileLink struct {
	Label string `bson:"label" json:"label"`
	URL   string `bson:"url" json:"url"`
}

// PublicUser is the shape returned to other users.
type PublicUser struct {
	ID            string        `json:"id"`
	DisplayName   string        `json:"display_name"`
	Bio           string        `json:"bio,omitempty"`
	AvatarMediaID string        `json:"avatar_media_id,omitempty"`
	Links         []ProfileLink `json:"links,omitempty"`
}

func (u *User) Public() *PublicUser {
	return &PublicUser{
		ID:            u.ID,
		DisplayName:   u.DisplayName,
		Bio:           u.Bio,
		AvatarMediaID: u.AvatarMediaID,
		Links:         u.Links,
	}
}
