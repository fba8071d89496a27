package httpapi

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/devlabhq/devlab/internal/auth"
	"github.com/devlabhq/devlab/internal/issue"
)

// ErrorResponse is the structured error body returned by every endpoint.
type ErrorResponse struct {
	ErrorCode    string            `json:"errorCode"`
	ErrorMessage string            `json:"errorMessage"`
	FieldErrors  map[string]string `json:"fieldErrors,omitempty"`
}

type errorMapping struct {
	status  int
	code    string
	message string
}

// Sentinel-to-HTTP mapping. Anything unmapped is an internal error; raw
// error text never reaches the client.
var errorMappings = []struct {
	err     error
	mapping errorMapping
}{
	{auth.ErrInvalidCredentials, errorMapping{http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid username or password"}},
	{auth.ErrDuplicateUsername, errorMapping{http.StatusBadRequest, "DUPLICATE_USERNAME", "username is already in use"}},
	{auth.ErrDuplicateNickname, errorMapping{http.StatusBadRequest, "DUPLICATE_NICKNAME", "nickname is already in use"}},
	{auth.ErrMissingAccessToken, errorMapping{http.StatusUnauthorized, "MISSING_AUTH_TOKEN", "no access token presented"}},
	{auth.ErrExpiredAccessToken, errorMapping{http.StatusUnauthorized, "EXPIRED_ACCESS_TOKEN", "access token has expired"}},
	{auth.ErrInvalidAccessToken, errorMapping{http.StatusUnauthorized, "INVALID_ACCESS_TOKEN", "access token is invalid"}},
	{auth.ErrCookiesNotFound, errorMapping{http.StatusNotFound, "COOKIES_NOT_FOUND", "no cookies present on request"}},
	{auth.ErrRefreshTokenNotFound, errorMapping{http.StatusNotFound, "REFRESH_TOKEN_NOT_FOUND", "refresh token cookie not found"}},
	{auth.ErrExpiredRefreshToken, errorMapping{http.StatusUnauthorized, "EXPIRED_REFRESH_TOKEN", "refresh token has expired"}},
	{auth.ErrInvalidRefreshToken, errorMapping{http.StatusUnauthorized, "INVALID_REFRESH_TOKEN", "refresh token is invalid"}},
	{auth.ErrMemberNotFound, errorMapping{http.StatusNotFound, "MEMBER_NOT_FOUND", "member not found"}},
	{issue.ErrInvalidURL, errorMapping{http.StatusBadRequest, "INVALID_REQUEST", "not a valid github issue url"}},
	{issue.ErrTokenRequired, errorMapping{http.StatusUnauthorized, "GITHUB_TOKEN_REQUIRED", "a github token is required for private repositories"}},
	{issue.ErrBadToken, errorMapping{http.StatusUnauthorized, "INVALID_GITHUB_TOKEN", "the supplied github token was rejected"}},
	{issue.ErrBadResponse, errorMapping{http.StatusBadGateway, "GITHUB_ISSUE_PARSING_ERROR", "could not parse the github issue"}},
	{issue.ErrAPI, errorMapping{http.StatusBadRequest, "GITHUB_API_ERROR", "github api request failed"}},
}

// respondError maps err onto the error taxonomy and writes the structured
// body.
func respondError(c *gin.Context, err error) {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			c.AbortWithStatusJSON(m.mapping.status, ErrorResponse{
				ErrorCode:    m.mapping.code,
				ErrorMessage: m.mapping.message,
			})
			return
		}
	}

	slog.ErrorContext(c.Request.Context(), "internal error", "path", c.FullPath(), "error", err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
		ErrorCode:    "INTERNAL_SERVER_ERROR",
		ErrorMessage: "an internal error occurred",
	})
}

// respondBindingError writes a 400 with per-field messages when the
// request body fails validation.
func respondBindingError(c *gin.Context, err error) {
	body := ErrorResponse{
		ErrorCode:    "INVALID_REQUEST",
		ErrorMessage: "request validation failed",
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		body.FieldErrors = make(map[string]string, len(verrs))
		for _, fe := range verrs {
			body.FieldErrors[fe.Field()] = fe.Tag()
		}
	}

	c.AbortWithStatusJSON(http.StatusBadRequest, body)
}
