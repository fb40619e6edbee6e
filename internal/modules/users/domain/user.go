package domain

import (
	"errors"
	"time"
)

var (
	ErrEmailTaken         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
)

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash"`
	Roles        []string  `json:"roles"`
	Bio          string    `json:"bio,omitempty"`
	University   string    `json:"university,omitempty"`
	Major        string    `json:"major,omitempty"`
	Avatar       string    `json:"avatar,omitempty"`
	Skills       []string  `json:"skills,omitempty"`
	Interests    []string  `json:"interests,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Profile is the user as returned to clients.
type Profile struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Roles      []string  `json:"roles"`
	Bio        string    `json:"bio,omitempty"`
	University string    `json:"university,omitempty"`
	Major      string    `json:"major,omitempty"`
	Avatar     string    `json:"avatar,omitempty"`
	Skills     []string  `json:"skills,omitempty"`
	Interests  []string  `json:"interests,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (u User) Profile() Profile {
	return Profile{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Roles:      u.Roles,
		Bio:        u.Bio,
		University: u.University,
		Major:      u.Major,
		Avatar:     u.Avatar,
		Skills:     u.Skills,
		Interests:  u.Interests,
		CreatedAt:  u.CreatedAt,
	}
}
