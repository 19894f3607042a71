package user

import (
	"time"

	"github.com/MrJamesThe3rd/findash/internal/apperr"
)

var (
	ErrNotFound   = apperr.New(apperr.KindNotFound, "User Not Found")
	ErrEmailTaken = apperr.New(apperr.KindConflict, "User already exists")
)

// User is an account holder. PasswordHash is a bcrypt hash, never the
// plaintext password.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Designation  string
	Phone        string
	CreatedAt    time.Time
}

// Profile is the public view of a User.
type Profile struct {
	Name        string
	Email       string
	Designation string
	Phone       string
}

func (u *User) Profile() *Profile {
	return &Profile{
		Name:        u.Name,
		Email:       u.Email,
		Designation: u.Designation,
		Phone:       u.Phone,
	}
}
