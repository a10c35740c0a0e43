// Package models defines the entities held by the mapkeeper data layer.
package models

import (
	"log/slog"
	"time"
)

// Role is a user's privilege level.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Profile is the user-editable part of an account.
type Profile struct {
	Nickname string `json:"nickname"`
	Bio      string `json:"bio"`
	// AvatarRef is an opaque reference to an avatar image.
	AvatarRef string `json:"avatar"`
}

// User is a registered account. PasswordSecret never leaves the store: use
// Public for anything handed to callers.
type User struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	Username       string    `json:"username"`
	PasswordSecret string    `json:"passwordSecret"`
	Role           Role      `json:"role"`
	Profile        Profile   `json:"profile"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
	// ActiveCharacterID is a weak reference; "" means none.
	ActiveCharacterID string `json:"activeCharacterId"`
}

// PublicUser is a User without its password secret.
type PublicUser struct {
	ID                string    `json:"id"`
	Email             string    `json:"email"`
	Username          string    `json:"username"`
	Role              Role      `json:"role"`
	Profile           Profile   `json:"profile"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
	ActiveCharacterID string    `json:"activeCharacterId"`
}

func (u User) Public() PublicUser {
	return PublicUser{
		ID:                u.ID,
		Email:             u.Email,
		Username:          u.Username,
		Role:              u.Role,
		Profile:           u.Profile,
		CreatedAt:         u.CreatedAt,
		UpdatedAt:         u.UpdatedAt,
		ActiveCharacterID: u.ActiveCharacterID,
	}
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// LogValue keeps the password secret out of structured logs.
func (u User) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("id", u.ID),
		slog.String("email", u.Email),
		slog.String("role", string(u.Role)),
	)
}

// ProfilePatch lists the profile fields to change; unset fields are kept.
type ProfilePatch struct {
	Nickname          Optional[string]
	Bio               Optional[string]
	AvatarRef         Optional[string]
	Email             Optional[string]
	ActiveCharacterID Optional[string]
}

// Session binds an opaque token to a logged-in user. Sessions live only in
// memory and are never persisted.
type Session struct {
	Token     string
	UserID    string
	CreatedAt time.Time
	// ExpiresAt is zero when the session does not expire.
	ExpiresAt time.Time
}
