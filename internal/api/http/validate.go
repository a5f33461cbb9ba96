package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/quietwire/courier/pkg/couriersdk"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// decodeAndValidate parses a JSON request body into dst and runs its
// validation tags. On failure it writes a 400 with a field-level message and
// returns false; the handler should just return.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		couriersdk.ErrInvalidRequest.WriteError(w)
		return false
	}

	if err := validate.Struct(dst); err != nil {
		msg := "invalid request"
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			msg = validationMessage(verrs[0])
		}
		couriersdk.NewAPIError(http.StatusBadRequest, msg).WriteError(w)
		return false
	}
	return true
}

func validationMessage(fe validator.FieldError) string {
	field := lowerFirst(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
