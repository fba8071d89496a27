package auth

import "errors"

// Failure taxonomy of the authentication pipeline. The HTTP layer maps
// each sentinel to an error code and status; nothing else inspects them.
var (
	// ErrInvalidCredentials covers both unknown usernames and wrong
	// passwords so responses carry no enumeration signal.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrDuplicateUsername is returned when the username is already taken.
	ErrDuplicateUsername = errors.New("duplicate username")
	// ErrDuplicateNickname is returned when the nickname is already taken.
	ErrDuplicateNickname = errors.New("duplicate nickname")
	// ErrMissingAccessToken is returned when a protected request carries
	// no access token in cookie or Authorization header.
	ErrMissingAccessToken = errors.New("missing access token")
	// ErrExpiredAccessToken is returned when the access token is past expiry.
	ErrExpiredAccessToken = errors.New("expired access token")
	// ErrInvalidAccessToken is returned for tampered or malformed access tokens.
	ErrInvalidAccessToken = errors.New("invalid access token")
	// ErrCookiesNotFound is returned when a refresh request carries no cookies.
	ErrCookiesNotFound = errors.New("cookies not found")
	// ErrRefreshTokenNotFound is returned when the refresh cookie is absent or blank.
	ErrRefreshTokenNotFound = errors.New("refresh token not found")
	// ErrExpiredRefreshToken is returned when the refresh token is past expiry.
	ErrExpiredRefreshToken = errors.New("expired refresh token")
	// ErrInvalidRefreshToken is returned for tampered refresh tokens and
	// for tokens whose category claim is not "refresh".
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	// ErrMemberNotFound is returned when token claims reference a member
	// that no longer exists.
	ErrMemberNotFound = errors.New("member not found")
)
