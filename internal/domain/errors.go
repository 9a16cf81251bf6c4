package domain

import (
	"errors"
	"fmt"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrSecretNotFound  = errors.New("secret not found")

	ErrConfig       = errors.New("server configuration error")
	ErrAuth         = errors.New("authorization error")
	ErrStorage      = errors.New("storage error")
	ErrNetwork      = errors.New("network error")
	ErrRegistration = errors.New("push registration error")
	ErrUnsupported  = errors.New("feature not supported by server")
	ErrCanceled     = errors.New("canceled by user")
)

var ErrNoAuthorization = fmt.Errorf("%w: account doesn't have valid authorization", ErrAuth)
