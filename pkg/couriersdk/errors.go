package couriersdk

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/quietwire/courier/pkg/httpx"
)

// APIError is the error shape the API speaks: a status code and a short
// message under the "error" key. It is shared by the server handlers (to
// write responses) and the SDK client (to surface them).
type APIError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"error"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// WriteError writes this error to an HTTP response writer.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.WriteJSON(w, e.StatusCode, e)
}

var (
	// ErrInvalidRequest covers malformed JSON bodies and failed validation.
	ErrInvalidRequest = &APIError{
		StatusCode: http.StatusBadRequest,
		Message:    "invalid request",
	}

	// ErrInvalidCredentials deliberately does not say whether the email or
	// the password was wrong.
	ErrInvalidCredentials = &APIError{
		StatusCode: http.StatusUnauthorized,
		Message:    "invalid email or password",
	}

	// ErrEmailTaken is returned when signup hits an existing account.
	ErrEmailTaken = &APIError{
		StatusCode: http.StatusConflict,
		Message:    "email already registered",
	}

	// ErrMissingRefreshToken is returned when the refresh cookie is absent.
	ErrMissingRefreshToken = &APIError{
		StatusCode: http.StatusBadRequest,
		Message:    "missing refresh token",
	}

	// ErrInvalidRefreshToken is returned when the refresh cookie fails
	// verification; the server clears the cookie alongside it.
	ErrInvalidRefreshToken = &APIError{
		StatusCode: http.StatusUnauthorized,
		Message:    "invalid refresh token",
	}

	// ErrUserNotFound is returned when a referenced account no longer exists.
	ErrUserNotFound = &APIError{
		StatusCode: http.StatusNotFound,
		Message:    "user not found",
	}

	// ErrServerError hides internal failures behind a generic message.
	ErrServerError = &APIError{
		StatusCode: http.StatusInternalServerError,
		Message:    "internal server error",
	}
)

// NewAPIError builds a one-off error for messages the predefined set doesn't
// cover, such as validation detail.
func NewAPIError(statusCode int, message string) *APIError {
	return &APIError{StatusCode: statusCode, Message: message}
}

// parseErrorResponse turns a non-2xx HTTP response into a typed error.
// Returns nil for success responses.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var apiErr APIError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Message != "" {
		apiErr.StatusCode = resp.StatusCode
		return &apiErr
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
