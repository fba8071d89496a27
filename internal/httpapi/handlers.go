package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/devlabhq/devlab/internal/auth"
	"github.com/devlabhq/devlab/internal/issue"
)

// IssueRequest carries the GitHub issue URL to transform; the token is
// only needed for private repositories.
type IssueRequest struct {
	IssueURL    string `json:"issueUrl" binding:"required"`
	GithubToken string `json:"githubToken"`
}

func (s *Server) memberInfo(c *gin.Context) {
	m, ok := memberFromContext(c)
	if !ok {
		respondError(c, auth.ErrMissingAccessToken)
		return
	}

	c.JSON(http.StatusOK, MemberResponse{
		MemberID: m.ID.String(),
		Username: m.Username,
		Nickname: m.Nickname,
		Role:     m.Role,
	})
}

func (s *Server) processIssue(c *gin.Context) {
	var req IssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	ref, err := issue.ParseURL(req.IssueURL)
	if err != nil {
		respondError(c, err)
		return
	}

	title, err := s.github.FetchTitle(c.Request.Context(), ref, req.GithubToken)
	if err != nil {
		respondError(c, err)
		return
	}

	result := issue.Generate(title, req.IssueURL, ref.Number, time.Now())
	slog.DebugContext(c.Request.Context(), "issue processed", "url", req.IssueURL, "branch", result.BranchName)
	c.JSON(http.StatusOK, result)
}
