// Package auth implements the authentication pipeline: registration,
// credential login, stateless access-token verification, refresh-token
// rotation, and logout/invalidation.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/devlabhq/devlab/internal/member"
	"github.com/devlabhq/devlab/internal/password"
	"github.com/devlabhq/devlab/internal/session"
	"github.com/devlabhq/devlab/internal/token"
)

// TokenPair is the access/refresh pair issued on login and refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Service coordinates the member store, token codec, password hasher, and
// session store. One instance serves all requests concurrently.
type Service struct {
	members  member.Repository
	tokens   *token.Manager
	sessions *session.Store
	hasher   *password.Hasher
	log      *slog.Logger
}

// NewService wires the pipeline dependencies.
func NewService(members member.Repository, tokens *token.Manager, sessions *session.Store, hasher *password.Hasher, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		members:  members,
		tokens:   tokens,
		sessions: sessions,
		hasher:   hasher,
		log:      log,
	}
}

// Tokens exposes the codec for transport-level concerns (cookie MaxAge).
func (s *Service) Tokens() *token.Manager { return s.tokens }

// Join registers a new member. Uniqueness is checked username first, then
// nickname, both case-sensitive exact matches. New members get RoleUser.
func (s *Service) Join(ctx context.Context, username, pass, nickname string) (*member.Member, error) {
	taken, err := s.members.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if taken {
		return nil, ErrDuplicateUsername
	}

	taken, err = s.members.ExistsByNickname(ctx, nickname)
	if err != nil {
		return nil, fmt.Errorf("check nickname: %w", err)
	}
	if taken {
		return nil, ErrDuplicateNickname
	}

	hash, err := s.hasher.Hash(pass)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	m := &member.Member{
		Username:     username,
		PasswordHash: hash,
		Nickname:     nickname,
		Role:         member.RoleUser,
	}
	if err := s.members.Save(ctx, m); err != nil {
		return nil, fmt.Errorf("save member: %w", err)
	}

	s.log.Debug("member joined", "username", username)
	return m, nil
}

// Login verifies the credentials and, on success, issues a token pair and
// persists the refresh token as the member's session record, superseding
// any prior session.
func (s *Service) Login(ctx context.Context, username, pass string) (*TokenPair, *member.Member, error) {
	m, err := s.members.FindByUsername(ctx, username)
	if errors.Is(err, member.ErrNotFound) {
		return nil, nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, nil, fmt.Errorf("find member: %w", err)
	}

	if err := s.hasher.Verify(m.PasswordHash, pass); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.issuePair(m)
	if err != nil {
		return nil, nil, err
	}

	if err := s.sessions.Save(ctx, m.ID.String(), pair.RefreshToken, s.tokens.RefreshTTL()); err != nil {
		return nil, nil, fmt.Errorf("save session: %w", err)
	}

	s.log.Debug("login succeeded", "username", username)
	return pair, m, nil
}

// Authenticate performs the stateless access-token check for protected
// routes: verify signature and expiry, then re-resolve the member from the
// username claim. The session store is never consulted.
func (s *Service) Authenticate(ctx context.Context, accessToken string) (*member.Member, error) {
	claims, err := s.tokens.Parse(accessToken)
	switch {
	case errors.Is(err, token.ErrExpired):
		return nil, ErrExpiredAccessToken
	case err != nil:
		return nil, ErrInvalidAccessToken
	}

	m, err := s.members.FindByUsername(ctx, claims.Username)
	if errors.Is(err, member.ErrNotFound) {
		return nil, ErrMemberNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("resolve member: %w", err)
	}
	return m, nil
}

// Refresh validates the presented refresh token and rotates the pair: new
// access and refresh tokens are issued, the old session record is deleted,
// and the new refresh token is written under the same key. A refresh token
// presented after logout finds no record to delete and is rejected.
//
// TODO: compare the presented token against the stored session value
// before rotating; today only signature/expiry/category are checked.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, *member.Member, error) {
	if refreshToken == "" {
		return nil, nil, ErrRefreshTokenNotFound
	}

	claims, err := s.tokens.Parse(refreshToken)
	switch {
	case errors.Is(err, token.ErrExpired):
		return nil, nil, ErrExpiredRefreshToken
	case err != nil:
		return nil, nil, ErrInvalidRefreshToken
	}
	if claims.Category != token.CategoryRefresh {
		s.log.Warn("non-refresh token presented to refresh", "category", claims.Category)
		return nil, nil, ErrInvalidRefreshToken
	}

	m, err := s.members.FindByUsername(ctx, claims.Username)
	if errors.Is(err, member.ErrNotFound) {
		return nil, nil, ErrMemberNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("resolve member: %w", err)
	}

	pair, err := s.issuePair(m)
	if err != nil {
		return nil, nil, err
	}

	// Explicit delete-then-write. A missing old record means the session
	// was logged out or never established; the token is rejected even
	// though its signature is still valid.
	if err := s.sessions.Delete(ctx, m.ID.String()); err != nil {
		if !errors.Is(err, session.ErrNotFound) {
			return nil, nil, fmt.Errorf("delete session: %w", err)
		}
		s.log.Warn("refresh with no stored session record", "username", m.Username)
		return nil, nil, ErrInvalidRefreshToken
	}
	if err := s.sessions.Save(ctx, m.ID.String(), pair.RefreshToken, s.tokens.RefreshTTL()); err != nil {
		return nil, nil, fmt.Errorf("save rotated session: %w", err)
	}

	s.log.Debug("tokens rotated", "username", m.Username)
	return pair, m, nil
}

// Logout deletes the member's session record. An already-absent record is
// logged and still reported as success; the access token stays valid until
// its natural expiry.
func (s *Service) Logout(ctx context.Context, m *member.Member) error {
	err := s.sessions.Delete(ctx, m.ID.String())
	if errors.Is(err, session.ErrNotFound) {
		s.log.Warn("logout with no session record", "username", m.Username)
		return nil
	}
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	s.log.Debug("logged out", "username", m.Username)
	return nil
}

// UsernameAvailable reports whether the username is free to register.
func (s *Service) UsernameAvailable(ctx context.Context, username string) (bool, error) {
	taken, err := s.members.ExistsByUsername(ctx, username)
	if err != nil {
		return false, fmt.Errorf("check username: %w", err)
	}
	return !taken, nil
}

// NicknameAvailable reports whether the nickname is free to register.
func (s *Service) NicknameAvailable(ctx context.Context, nickname string) (bool, error) {
	taken, err := s.members.ExistsByNickname(ctx, nickname)
	if err != nil {
		return false, fmt.Errorf("check nickname: %w", err)
	}
	return !taken, nil
}

func (s *Service) issuePair(m *member.Member) (*TokenPair, error) {
	access, err := s.tokens.IssueAccess(m.Username, m.Role)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := s.tokens.IssueRefresh(m.Username, m.Role)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
