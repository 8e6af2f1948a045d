package jwt

import "errors"

var (
	ErrAbsent           = errors.New("token is not set")
	ErrMalformed        = errors.New("token does not have three dot-separated segments")
	ErrBase64           = errors.New("segment is not valid base64url")
	ErrJSON             = errors.New("segment is not a JSON object")
	ErrClaimType        = errors.New("claim has an unexpected JSON type")
	ErrStructuredDecode = errors.New("body does not match target type")
)
