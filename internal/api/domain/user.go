package domain

import (
	"time"

	"github.com/quietwire/courier/pkg/idx"
)

// User is a registered account. PasswordHash is the PHC-format Argon2id hash
// and must never be serialized into an API response.
type User struct {
	ID           idx.ID    `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// FullName is the display name carried in token claims.
func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}
