// Package models defines server-side data models persisted in the database
// and the request shapes accepted by the services.
package models

import "time"

// DateLayout is the wire and storage format of a date of birth.
const DateLayout = "2006-01-02"

type User struct {
	ID           int64
	FirstName    string
	LastName     string
	UserName     string
	PasswordHash string
	DOB          time.Time
	Age          int
	Gender       string
	CreatedAt    time.Time
}

type Email struct {
	ID      int64
	UserID  int64
	Address string
}

// UserDetails is the public view of a user: no password hash, the first
// registered e-mail (nil when the user has none).
type UserDetails struct {
	ID        int64   `json:"id"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	UserName  string  `json:"username"`
	DOB       string  `json:"dob"`
	Age       int     `json:"age"`
	Gender    string  `json:"gender"`
	Email     *string `json:"email"`
}

// RegisterInput carries a signup request.
type RegisterInput struct {
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	UserName  string   `json:"username"`
	Password  string   `json:"password"`
	DOB       string   `json:"dob"`
	Age       int      `json:"age"`
	Gender    string   `json:"gender"`
	Emails    []string `json:"emails"`
}
