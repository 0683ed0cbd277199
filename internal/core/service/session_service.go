package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/bookinghub/user-service/internal/core/domain"
	"github.com/bookinghub/user-service/internal/core/token"
)

// SessionService issues access+refresh token pairs and resolves an identity
// from a presented pair.
//
// Resolution contract: an expired access token triggers exactly one silent
// retry against the refresh token; any other verification failure is
// terminal, no retry. When the fallback is taken, the refresh token's claims
// substitute for the access claims and the caller cannot tell which token
// authorized the request.
type SessionService struct {
	codec      *token.Codec
	accessTTL  time.Duration
	refreshTTL time.Duration
	log        zerolog.Logger
}

// NewSessionService wires the codec with the configured TTLs. TTL defaults
// live in the configuration layer; the values arrive here as-is.
func NewSessionService(codec *token.Codec, accessTTL, refreshTTL time.Duration, log zerolog.Logger) *SessionService {
	return &SessionService{codec: codec, accessTTL: accessTTL, refreshTTL: refreshTTL, log: log}
}

// Issue signs two independent claims payloads for username/role, one per
// token type, each with its own TTL.
func (s *SessionService) Issue(username string, role domain.Role) (domain.TokenPair, error) {
	access, err := s.codec.Sign(username, role, token.TypeAccess, s.accessTTL)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := s.codec.Sign(username, role, token.TypeRefresh, s.refreshTTL)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("issue refresh token: %w", err)
	}
	return domain.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Resolve returns the claims authorizing the presented pair.
//
// Both tokens are required inputs even though only one ultimately grants
// trust. Failures wrap domain.ErrAuthenticationFailed and carry the terminal
// verification error, so multi-stage failures keep their last cause.
func (s *SessionService) Resolve(pair domain.TokenPair) (*token.Claims, error) {
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		return nil, domain.ErrMissingCredentials
	}

	claims, err := s.codec.Verify(pair.AccessToken)
	if err == nil {
		return claims, nil
	}

	if !errors.Is(err, domain.ErrTokenExpired) {
		// Invalid signature or malformed token: terminal, no fallback.
		return nil, fmt.Errorf("%w: %v", domain.ErrAuthenticationFailed, err)
	}

	claims, refreshErr := s.codec.Verify(pair.RefreshToken)
	if refreshErr != nil {
		return nil, fmt.Errorf("%w: access token expired, refresh rejected: %v", domain.ErrAuthenticationFailed, refreshErr)
	}

	s.log.Debug().Str("username", claims.Username).Msg("session resolved via refresh fallback")
	return claims, nil
}
