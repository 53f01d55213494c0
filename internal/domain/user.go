// Package domain contains entities without logic, just meta-data.
package domain

import "errors"

const (
	MaxNameLen     = 64
	MinPasswordLen = 6
)

var (
	ErrNameEmpty   = errors.New("name empty")
	ErrNameTooLong = errors.New("name too long")
)

type UserID string

// User is the account profile as clients see it. The password hash
// never leaves the storage layer.
type User struct {
	ID    UserID `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

func (u *User) Validate() error {
	if u.Name == "" {
		return ErrNameEmpty
	}
	if len(u.Name) > MaxNameLen {
		return ErrNameTooLong
	}
	return nil
}
