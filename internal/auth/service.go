package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xpensecontrol/xpense/internal"
	"github.com/xpensecontrol/xpense/internal/user"
)

type Service struct {
	users    user.RepositoryAPI
	google   OAuthClient
	sessions *SessionManager
	logger   *slog.Logger
}

func NewService(users user.RepositoryAPI, google OAuthClient, sessions *SessionManager, logger *slog.Logger) *Service {
	return &Service{
		users:    users,
		google:   google,
		sessions: sessions,
		logger:   logger,
	}
}

func (s *Service) Sessions() *SessionManager {
	return s.sessions
}

// LoginURL is the Google consent page URL for the given state nonce.
func (s *Service) LoginURL(state string) string {
	return s.google.AuthCodeURL(state)
}

// HandleCallback finishes the OAuth code flow: exchange the code, fetch the
// Google profile, provision or refresh the local user, and issue a session
// token.
func (s *Service) HandleCallback(ctx context.Context, code string) (string, *user.User, error) {
	token, err := s.google.Exchange(ctx, code)
	if err != nil {
		s.logger.Error("oauth code exchange failed", "error", err)
		return "", nil, err
	}

	profile, err := s.google.FetchProfile(ctx, token)
	if err != nil {
		s.logger.Error("failed to fetch google profile", "error", err)
		return "", nil, err
	}

	u, err := s.upsertUser(profile)
	if err != nil {
		s.logger.Error("failed to provision user", "email", profile.Email, "error", err)
		return "", nil, err
	}

	sessionToken, err := s.sessions.Issue(u.ID, u.Email)
	if err != nil {
		s.logger.Error("failed to issue session token", "user_id", u.ID, "error", err)
		return "", nil, err
	}

	s.logger.Info("user signed in", "user_id", u.ID, "email", u.Email)
	return sessionToken, u, nil
}

// CurrentUser loads the user behind a validated session. A store failure is
// an infrastructure fault, not an auth failure; only a missing user
// invalidates the session.
func (s *Service) CurrentUser(claims *Claims) (*user.User, error) {
	u, err := s.users.GetByID(claims.UserID)
	if err != nil {
		s.logger.Error("failed to load session user", "user_id", claims.UserID, "error", err)
		return nil, internal.NewInternalError("failed to load session user", err)
	}
	if u == nil {
		return nil, ErrInvalidSession
	}
	return u, nil
}

// ValidateSession parses and checks a session token.
func (s *Service) ValidateSession(tokenString string) (*Claims, error) {
	return s.sessions.Validate(tokenString)
}

func (s *Service) upsertUser(profile *GoogleProfile) (*user.User, error) {
	u, err := s.users.GetByEmail(profile.Email)
	if err != nil {
		return nil, fmt.Errorf("user lookup failed: %w", err)
	}

	if u == nil {
		u = &user.User{Email: profile.Email}
	}

	u.Name = profile.Name
	u.GoogleID = profile.ID
	u.AvatarURL = profile.Picture

	if err := s.users.Save(u); err != nil {
		return nil, fmt.Errorf("user save failed: %w", err)
	}
	return u, nil
}
