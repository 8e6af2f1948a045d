package jwt

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	gojwt "github.com/golang-jwt/jwt/v5"
)

var bodyValidator = validator.New(validator.WithRequiredStructEnabled())

// DecodeBody decodes the token body into T. The body is re-encoded as
// canonical JSON and unmarshalled with encoding/json, so T uses ordinary
// json struct tags. Fields tagged `validate:"required"` must be present.
//
// Errors wrap ErrStructuredDecode together with the underlying cause.
func DecodeBody[T any](t Token) (T, error) {
	var out T

	body, err := t.decode(SegmentBody)
	if err != nil {
		return out, fmt.Errorf("%w: %w", ErrStructuredDecode, err)
	}
	data, err := body.JSON()
	if err != nil {
		return out, fmt.Errorf("%w: %w", ErrStructuredDecode, err)
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("%w: %w", ErrStructuredDecode, err)
	}
	if err := bodyValidator.Struct(out); err != nil {
		var invalid *validator.InvalidValidationError
		if errors.As(err, &invalid) {
			// Maps, slices and scalars have no field rules.
			return out, nil
		}
		return out, fmt.Errorf("%w: %w", ErrStructuredDecode, err)
	}
	return out, nil
}

// GetBody is DecodeBody with the error collapsed to ok=false.
func GetBody[T any](t Token) (T, bool) {
	out, err := DecodeBody[T](t)
	return out, err == nil
}

// Registered decodes the body into the golang-jwt registered claim set.
func (t Token) Registered() (gojwt.RegisteredClaims, bool) {
	return GetBody[gojwt.RegisteredClaims](t)
}
