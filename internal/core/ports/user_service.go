package ports

import (
	"context"
	"time"

	"github.com/bookinghub/user-service/internal/core/domain"
)

// RegisterInput carries the fields accepted at registration.
type RegisterInput struct {
	Username    string
	Password    string
	Role        string // normalized by the service; only USER/PROVIDER survive
	Fullname    string
	DateOfBirth string
	Email       string
	PhoneNumber string
	Address     string
}

// Profile is the outward projection of a user. It deliberately has no
// password field, so the hash cannot leak through a response.
type Profile struct {
	Username     string      `json:"username"`
	Role         domain.Role `json:"role"`
	Fullname     string      `json:"fullname,omitempty"`
	DateOfBirth  string      `json:"date_of_birth,omitempty"`
	Email        string      `json:"email,omitempty"`
	PhoneNumber  string      `json:"phone_number,omitempty"`
	Address      string      `json:"address,omitempty"`
	Status       string      `json:"status"`
	CreatedAt    time.Time   `json:"created_at"`
	LastModified time.Time   `json:"last_modified"`
}

// MyProfileResult bundles the rotated token pair with the caller's profile.
type MyProfileResult struct {
	Tokens  domain.TokenPair
	Profile Profile
}

// UserService exposes the user-management workflows.
type UserService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	// Login verifies credentials and issues a fresh token pair.
	Login(ctx context.Context, username, password string) (domain.TokenPair, *domain.User, error)
	// Me resolves the presented pair, rotates it, and returns the caller's
	// profile with the new pair.
	Me(ctx context.Context, pair domain.TokenPair) (*MyProfileResult, error)
	List(ctx context.Context, filter ListUsersFilter) ([]Profile, error)
	Update(ctx context.Context, username string, patch UserUpdate) (*Profile, error)
	Delete(ctx context.Context, username string) (*Profile, error)
}
