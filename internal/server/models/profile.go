package models

import "time"

type DifficultyLevel string

const (
	DifficultyBeginner     DifficultyLevel = "Beginner"
	DifficultyIntermediate DifficultyLevel = "Intermediate"
	DifficultyAdvanced     DifficultyLevel = "Advanced"
)

// Valid reports whether d is one of the known levels. Matching is exact.
func (d DifficultyLevel) Valid() bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	}
	return false
}

// Profile holds a user's physical attributes. There is at most one per user.
type Profile struct {
	UserID          int64           `json:"user_id"`
	Height          float64         `json:"height"`
	Weight          float64         `json:"weight"`
	DifficultyLevel DifficultyLevel `json:"difficulty_level"`
	// AvatarKey is the object-storage key of the avatar image, nil until one is requested.
	AvatarKey *string   `json:"-"`
	HasAvatar bool      `json:"has_avatar"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ProfileInput struct {
	Height          float64         `json:"height"`
	Weight          float64         `json:"weight"`
	DifficultyLevel DifficultyLevel `json:"difficulty_level"`
}
