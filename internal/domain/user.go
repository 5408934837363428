package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is an identity plus its accumulated assessment history.
type User struct {
	ID       uuid.UUID
	Name     string
	Email    string
	Avatar   string
	IsGuest  bool
	Timezone string

	// Profile is a copy of AssessmentHistory[0] when present.
	Profile *UserProfile
	// AssessmentHistory is ordered newest first and only ever holds completed profiles.
	AssessmentHistory []UserProfile

	CreatedAt time.Time
}

// AddAssessment prepends a completed profile and makes it the current profile.
func (u *User) AddAssessment(p UserProfile) {
	frozen := p.Clone()
	u.AssessmentHistory = append([]UserProfile{frozen}, u.AssessmentHistory...)
	current := frozen.Clone()
	u.Profile = &current
}

// Location resolves the user's timezone, falling back to UTC.
func (u *User) Location() *time.Location {
	if u.Timezone != "" {
		if l, err := time.LoadLocation(u.Timezone); err == nil {
			return l
		}
	}
	return time.UTC
}

// Clone returns a deep copy safe to hand out of the state store.
func (u User) Clone() User {
	c := u
	if u.Profile != nil {
		p := u.Profile.Clone()
		c.Profile = &p
	}
	c.AssessmentHistory = make([]UserProfile, len(u.AssessmentHistory))
	for i, p := range u.AssessmentHistory {
		c.AssessmentHistory[i] = p.Clone()
	}
	return c
}

// UserResponse is the response body for user endpoints
type UserResponse struct {
	ID              uuid.UUID    `json:"id"`
	Name            string       `json:"name"`
	Email           string       `json:"email,omitempty"`
	Avatar          string       `json:"avatar,omitempty"`
	IsGuest         bool         `json:"is_guest"`
	Timezone        string       `json:"timezone"`
	Profile         *UserProfile `json:"profile,omitempty"`
	AssessmentCount int          `json:"assessment_count"`
	CreatedAt       time.Time    `json:"created_at"`
}

func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:              u.ID,
		Name:            u.Name,
		Email:           u.Email,
		Avatar:          u.Avatar,
		IsGuest:         u.IsGuest,
		Timezone:        u.Timezone,
		Profile:         u.Profile,
		AssessmentCount: len(u.AssessmentHistory),
		CreatedAt:       u.CreatedAt,
	}
}

// LoginRequest is the request body for the mock sign-in endpoints.
type LoginRequest struct {
	// IANA timezone used for local calendar dates (defaults to the server default)
	Timezone string `json:"timezone" validate:"omitempty,timezone" example:"Europe/Prague"`
}

// LoginResponse carries the signed-in user and a bearer token.
type LoginResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}
