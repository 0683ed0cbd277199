package ports

import (
	"context"

	"github.com/bookinghub/user-service/internal/core/domain"
)

// ListUsersFilter carries the optional per-field filters for listing users.
// Every non-empty field matches as a case-insensitive substring.
type ListUsersFilter struct {
	Username    string
	Fullname    string
	DateOfBirth string
	Email       string
	PhoneNumber string
	Address     string
	Role        string
}

// UserUpdate is the partial patch applied by UpdateByUsername. Nil fields are
// left untouched.
type UserUpdate struct {
	Fullname    *string
	DateOfBirth *string
	Email       *string
	PhoneNumber *string
	Address     *string
}

// UserRepository defines persistence operations for user identities.
// Username uniqueness is enforced at the storage layer; Create returns
// domain.ErrDuplicateUser on a collision.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindAll(ctx context.Context, filter ListUsersFilter) ([]*domain.User, error)
	UpdateByUsername(ctx context.Context, username string, patch UserUpdate) (*domain.User, error)
	// SoftDelete marks the user deleted and returns the record. Records are
	// never purged.
	SoftDelete(ctx context.Context, username string) (*domain.User, error)
}

// AuditRepository persists audit trail entries.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuditEvent) error
}
