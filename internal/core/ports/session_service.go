package ports

import (
	"github.com/bookinghub/user-service/internal/core/domain"
	"github.com/bookinghub/user-service/internal/core/token"
)

// SessionService is the central authority for issuing and resolving sessions.
type SessionService interface {
	// Issue signs an access+refresh pair for username/role with independent
	// expirations.
	Issue(username string, role domain.Role) (domain.TokenPair, error)
	// Resolve returns the claims authorizing the presented pair. Both tokens
	// must be present. An expired access token triggers exactly one silent
	// retry against the refresh token; any other verification failure is
	// terminal.
	Resolve(pair domain.TokenPair) (*token.Claims, error)
}
