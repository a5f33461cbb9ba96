package couriersdk

import "time"

// User is the public account shape; it never carries the password hash.
type User struct {
	ID        string    `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type SignupRequest struct {
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8,max=128"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned by signup and login. The refresh token travels
// separately in an HttpOnly cookie and never appears in the body.
type AuthResponse struct {
	User        User   `json:"user"`
	AccessToken string `json:"accessToken"`
}

// RefreshResponse carries only a new access token; the refresh token is not
// rotated.
type RefreshResponse struct {
	AccessToken string `json:"accessToken"`
}

// UserSummary is the projection returned by user search: enough to render a
// contact picker, nothing more.
type UserSummary struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

type SearchUsersResponse struct {
	Users []UserSummary `json:"users"`
}

type SendMessageRequest struct {
	ReceiverID string `json:"receiverId" validate:"required"`
	Body       string `json:"body" validate:"required,max=2000"`
}

type Message struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"senderId"`
	ReceiverID string    `json:"receiverId"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Thread is one inbox entry: the other participant and the latest message
// exchanged with them.
type Thread struct {
	Peer        User    `json:"peer"`
	LastMessage Message `json:"lastMessage"`
}
