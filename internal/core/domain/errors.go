package domain

import "errors"

var ErrDuplicateUser = errors.New("duplicate username")
var ErrUserNotFound = errors.New("user not found")
var ErrTokenExpired = errors.New("token expired")
var ErrTokenInvalid = errors.New("token invalid")
var ErrMissingCredentials = errors.New("missing refresh token or access token")
var ErrAuthenticationFailed = errors.New("authentication failed")
var ErrForbidden = errors.New("access forbidden")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrTooManyAttempts = errors.New("too many attempts")
var ErrInternal = errors.New("internal error")
