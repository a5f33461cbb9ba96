package domain

// TokenPair is the result of a successful signup or login: the access token
// goes to the response body, the refresh token into an HttpOnly cookie.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}
