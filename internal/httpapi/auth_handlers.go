package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devlabhq/devlab/internal/auth"
)

// JoinRequest is the registration payload.
type JoinRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Nickname string `json:"nickname" binding:"required"`
}

// LoginRequest is the credential payload.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// MemberResponse is the public view of a member record.
type MemberResponse struct {
	MemberID string `json:"memberId"`
	Username string `json:"username"`
	Nickname string `json:"nickname"`
	Role     string `json:"role"`
}

func (s *Server) join(c *gin.Context) {
	var req JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	m, err := s.auth.Join(c.Request.Context(), req.Username, req.Password, req.Nickname)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, MemberResponse{
		MemberID: m.ID.String(),
		Username: m.Username,
		Nickname: m.Nickname,
		Role:     m.Role,
	})
}

func (s *Server) login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	pair, m, err := s.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Authorization", "Bearer "+pair.AccessToken)
	s.writeTokenCookies(c, pair)

	c.JSON(http.StatusOK, MemberResponse{
		MemberID: m.ID.String(),
		Username: m.Username,
		Nickname: m.Nickname,
		Role:     m.Role,
	})
}

func (s *Server) refresh(c *gin.Context) {
	refreshToken, err := readCookie(c, refreshCookieName)
	if err != nil {
		respondError(c, err)
		return
	}

	pair, m, err := s.auth.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Authorization", "Bearer "+pair.AccessToken)
	s.writeTokenCookies(c, pair)

	slog.DebugContext(c.Request.Context(), "token pair rotated", "username", m.Username)
	c.Status(http.StatusOK)
}

func (s *Server) logout(c *gin.Context) {
	m, ok := memberFromContext(c)
	if !ok {
		respondError(c, auth.ErrMissingAccessToken)
		return
	}

	if err := s.auth.Logout(c.Request.Context(), m); err != nil {
		respondError(c, err)
		return
	}

	s.clearTokenCookies(c)
	c.Status(http.StatusOK)
}

func (s *Server) validateUsername(c *gin.Context) {
	username := c.Query("username")
	if username == "" {
		respondBindingError(c, nil)
		return
	}

	available, err := s.auth.UsernameAvailable(c.Request.Context(), username)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, available)
}

func (s *Server) validateNickname(c *gin.Context) {
	nickname := c.Query("nickname")
	if nickname == "" {
		respondBindingError(c, nil)
		return
	}

	available, err := s.auth.NicknameAvailable(c.Request.Context(), nickname)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, available)
}
