package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devlabhq/devlab/internal/auth"
)

// Cookie names for the token pair. The access cookie stays readable by
// client script; the refresh cookie does not.
const (
	accessCookieName  = "accessToken"
	refreshCookieName = "refreshToken"
)

// writeTokenCookies replaces both token cookies: each is deleted first and
// then set with MaxAge equal to the remaining token lifetime in seconds.
func (s *Server) writeTokenCookies(c *gin.Context, pair *auth.TokenPair) {
	accessTTL, err := s.auth.Tokens().RemainingTTL(pair.AccessToken)
	if err != nil {
		accessTTL = s.auth.Tokens().AccessTTL()
	}
	refreshTTL, err := s.auth.Tokens().RemainingTTL(pair.RefreshToken)
	if err != nil {
		refreshTTL = s.auth.Tokens().RefreshTTL()
	}

	s.deleteCookie(c, accessCookieName, false)
	s.setCookie(c, accessCookieName, pair.AccessToken, int(accessTTL.Seconds()), false)

	s.deleteCookie(c, refreshCookieName, true)
	s.setCookie(c, refreshCookieName, pair.RefreshToken, int(refreshTTL.Seconds()), true)
}

// clearTokenCookies expires both token cookies on the client.
func (s *Server) clearTokenCookies(c *gin.Context) {
	s.deleteCookie(c, accessCookieName, false)
	s.deleteCookie(c, refreshCookieName, true)
}

func (s *Server) setCookie(c *gin.Context, name, value string, maxAge int, httpOnly bool) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    value,
		MaxAge:   maxAge,
		Path:     "/",
		Domain:   s.cfg.Cookie.Domain,
		Secure:   s.cfg.IsProduction(),
		HttpOnly: httpOnly,
	})
}

func (s *Server) deleteCookie(c *gin.Context, name string, httpOnly bool) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    "",
		MaxAge:   -1,
		Path:     "/",
		Domain:   s.cfg.Cookie.Domain,
		Secure:   s.cfg.IsProduction(),
		HttpOnly: httpOnly,
	})
}

// readCookie returns the named cookie value, distinguishing "no cookies at
// all" from "this cookie missing or blank".
func readCookie(c *gin.Context, name string) (string, error) {
	if len(c.Request.Cookies()) == 0 {
		return "", auth.ErrCookiesNotFound
	}
	value, err := c.Cookie(name)
	if err != nil || value == "" {
		return "", auth.ErrRefreshTokenNotFound
	}
	return value, nil
}
