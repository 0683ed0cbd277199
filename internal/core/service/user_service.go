package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/bookinghub/user-service/internal/core/domain"
	"github.com/bookinghub/user-service/internal/core/ports"
)

// CredentialHasher abstracts password hashing (bcrypt in production).
type CredentialHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hashed string) bool
}

// UserService implements registration, login, profile retrieval and the
// admin CRUD workflows.
type UserService struct {
	repo    ports.UserRepository
	session ports.SessionService
	hasher  CredentialHasher
	audit   ports.AuditSink
	log     zerolog.Logger
}

func NewUserService(repo ports.UserRepository, session ports.SessionService, hasher CredentialHasher, audit ports.AuditSink, log zerolog.Logger) *UserService {
	return &UserService{repo: repo, session: session, hasher: hasher, audit: audit, log: log}
}

// Register creates a new user. The username existence check here is the
// user-friendly fast path; the storage layer's unique index on username is
// the authoritative guard against concurrent duplicates.
func (s *UserService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	existing, err := s.repo.FindByUsername(ctx, input.Username)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("register: lookup username: %w", err)
	}
	if existing != nil && existing.Username != "" {
		return nil, domain.ErrDuplicateUser
	}

	hashed, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInternal, err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     input.Username,
		PasswordHash: hashed,
		Role:         domain.NormalizeRole(input.Role),
		Fullname:     input.Fullname,
		DateOfBirth:  input.DateOfBirth,
		Email:        input.Email,
		PhoneNumber:  input.PhoneNumber,
		Address:      input.Address,
		Status:       domain.StatusActive,
		CreatedAt:    now,
		LastModified: now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	if created == nil || created.Username == "" {
		// Persistence returned without a username: treat as a silent write
		// failure rather than handing back a half-formed identity.
		return nil, domain.ErrInternal
	}

	s.audit.Record(domain.AuditEvent{Username: created.Username, Action: domain.AuditActionRegister, Result: "success", Timestamp: now})
	s.log.Info().Str("username", created.Username).Str("role", string(created.Role)).Msg("user registered")
	return created, nil
}

// Login verifies credentials and issues a fresh token pair.
func (s *UserService) Login(ctx context.Context, username, password string) (domain.TokenPair, *domain.User, error) {
	if username == "" || password == "" {
		return domain.TokenPair{}, nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.TokenPair{}, nil, domain.ErrInvalidCredentials
		}
		return domain.TokenPair{}, nil, err
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		s.audit.Record(domain.AuditEvent{Username: username, Action: domain.AuditActionLogin, Result: "invalid_password", Timestamp: time.Now().UTC()})
		return domain.TokenPair{}, nil, domain.ErrInvalidCredentials
	}

	pair, err := s.session.Issue(user.Username, user.Role)
	if err != nil {
		return domain.TokenPair{}, nil, fmt.Errorf("%w: %v", domain.ErrInternal, err)
	}

	s.audit.Record(domain.AuditEvent{Username: username, Action: domain.AuditActionLogin, Result: "success", Timestamp: time.Now().UTC()})
	return pair, user, nil
}

// Me resolves the presented pair, silently rotates it, and returns the
// caller's profile bundled with the new pair.
func (s *UserService) Me(ctx context.Context, pair domain.TokenPair) (*ports.MyProfileResult, error) {
	claims, err := s.session.Resolve(pair)
	if err != nil {
		return nil, err
	}

	fresh, err := s.session.Issue(claims.Username, domain.Role(claims.Role))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInternal, err)
	}

	user, err := s.repo.FindByUsername(ctx, claims.Username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// Valid session, but the identity has since been removed.
			return nil, fmt.Errorf("%w: no user with username %q", domain.ErrAuthenticationFailed, claims.Username)
		}
		return nil, err
	}

	s.audit.Record(domain.AuditEvent{Username: user.Username, Action: domain.AuditActionProfileRead, Result: "success", Timestamp: time.Now().UTC()})
	return &ports.MyProfileResult{Tokens: fresh, Profile: toProfile(user)}, nil
}

// List returns user profiles matching the per-field substring filter.
func (s *UserService) List(ctx context.Context, filter ports.ListUsersFilter) ([]ports.Profile, error) {
	users, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	profiles := make([]ports.Profile, 0, len(users))
	for _, u := range users {
		profiles = append(profiles, toProfile(u))
	}
	return profiles, nil
}

// Update applies a partial profile patch.
func (s *UserService) Update(ctx context.Context, username string, patch ports.UserUpdate) (*ports.Profile, error) {
	updated, err := s.repo.UpdateByUsername(ctx, username, patch)
	if err != nil {
		return nil, err
	}
	p := toProfile(updated)
	return &p, nil
}

// Delete soft-deletes a user and returns the marked record.
func (s *UserService) Delete(ctx context.Context, username string) (*ports.Profile, error) {
	deleted, err := s.repo.SoftDelete(ctx, username)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("username", username).Msg("user soft-deleted")
	p := toProfile(deleted)
	return &p, nil
}

// toProfile projects a user onto the outward shape. The password hash cannot
// appear here: the Profile type has no field for it.
func toProfile(u *domain.User) ports.Profile {
	return ports.Profile{
		Username:     u.Username,
		Role:         u.Role,
		Fullname:     u.Fullname,
		DateOfBirth:  u.DateOfBirth,
		Email:        u.Email,
		PhoneNumber:  u.PhoneNumber,
		Address:      u.Address,
		Status:       u.Status,
		CreatedAt:    u.CreatedAt,
		LastModified: u.LastModified,
	}
}
