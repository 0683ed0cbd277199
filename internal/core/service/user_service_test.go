package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/bookinghub/user-service/internal/core/domain"
	"github.com/bookinghub/user-service/internal/core/ports"
	"github.com/bookinghub/user-service/internal/core/token"
	"github.com/bookinghub/user-service/internal/pkg/hash"
)

type stubUserRepo struct {
	users   map[string]*domain.User
	creates int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.creates++
	if _, exists := r.users[user.Username]; exists {
		return nil, domain.ErrDuplicateUser
	}
	copy := cloneUser(user)
	copy.ID = user.Username
	r.users[copy.Username] = cloneUser(copy)
	return cloneUser(copy), nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	u, ok := r.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindAll(_ context.Context, filter ports.ListUsersFilter) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range r.users {
		if filter.Username != "" && !strings.Contains(strings.ToLower(u.Username), strings.ToLower(filter.Username)) {
			continue
		}
		out = append(out, cloneUser(u))
	}
	return out, nil
}

func (r *stubUserRepo) UpdateByUsername(_ context.Context, username string, patch ports.UserUpdate) (*domain.User, error) {
	u, ok := r.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if patch.Fullname != nil {
		u.Fullname = *patch.Fullname
	}
	if patch.Email != nil {
		u.Email = *patch.Email
	}
	u.LastModified = time.Now().UTC()
	return cloneUser(u), nil
}

func (r *stubUserRepo) SoftDelete(_ context.Context, username string) (*domain.User, error) {
	u, ok := r.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.Status = domain.StatusDeleted
	u.LastModified = time.Now().UTC()
	return cloneUser(u), nil
}

type recordingAuditSink struct {
	mu     sync.Mutex
	events []domain.AuditEvent
}

func (s *recordingAuditSink) Record(event domain.AuditEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func (s *recordingAuditSink) actions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, e.Action)
	}
	return out
}

func newTestUserService(repo ports.UserRepository, accessTTL time.Duration) (*UserService, *SessionService, *recordingAuditSink) {
	codec := token.NewCodec("test-secret")
	sessions := NewSessionService(codec, accessTTL, 24*time.Hour, zerolog.Nop())
	hasher := hash.NewBcryptHasher(bcrypt.MinCost)
	audit := &recordingAuditSink{}
	return NewUserService(repo, sessions, hasher, audit, zerolog.Nop()), sessions, audit
}

func TestUserService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc, _, audit := newTestUserService(repo, time.Hour)

	user, err := svc.Register(context.Background(), ports.RegisterInput{
		Username: "alice",
		Password: "pw123",
		Role:     "USER",
		Fullname: "Alice Doe",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.PasswordHash == "pw123" || user.PasswordHash == "" {
		t.Fatalf("expected hashed password, got %q", user.PasswordHash)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pw123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if user.Role != domain.RoleUser {
		t.Fatalf("unexpected role: %q", user.Role)
	}
	if user.Status != domain.StatusActive {
		t.Fatalf("unexpected status: %q", user.Status)
	}
	if got := audit.actions(); len(got) != 1 || got[0] != domain.AuditActionRegister {
		t.Fatalf("expected one register audit event, got %v", got)
	}
}

func TestUserService_Register_AdminRoleDowngraded(t *testing.T) {
	repo := newStubUserRepo()
	svc, _, _ := newTestUserService(repo, time.Hour)

	user, err := svc.Register(context.Background(), ports.RegisterInput{
		Username: "mallory",
		Password: "pw123",
		Role:     "ADMIN",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Role != domain.RoleUnassigned {
		t.Fatalf("ADMIN input must downgrade to unassigned, got %q", user.Role)
	}
}

func TestUserService_Register_GarbageRoleDowngraded(t *testing.T) {
	repo := newStubUserRepo()
	svc, _, _ := newTestUserService(repo, time.Hour)

	user, err := svc.Register(context.Background(), ports.RegisterInput{
		Username: "bob",
		Password: "pw123",
		Role:     "super-root",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Role != domain.RoleUnassigned {
		t.Fatalf("unknown role must downgrade to unassigned, got %q", user.Role)
	}
}

func TestUserService_Register_Duplicate(t *testing.T) {
	repo := newStubUserRepo()
	svc, _, _ := newTestUserService(repo, time.Hour)

	if _, err := svc.Register(context.Background(), ports.RegisterInput{Username: "alice", Password: "pw123", Role: "USER"}); err != nil {
		t.Fatalf("first register: %v", err)
	}
	writesBefore := repo.creates

	_, err := svc.Register(context.Background(), ports.RegisterInput{Username: "alice", Password: "other", Role: "USER"})
	if !errors.Is(err, domain.ErrDuplicateUser) {
		t.Fatalf("expected ErrDuplicateUser, got %v", err)
	}
	if repo.creates != writesBefore {
		t.Fatalf("duplicate registration must not attempt a write")
	}
}

type emptyCreateRepo struct{ stubUserRepo }

func (r *emptyCreateRepo) Create(_ context.Context, _ *domain.User) (*domain.User, error) {
	return &domain.User{}, nil
}

func (r *emptyCreateRepo) FindByUsername(_ context.Context, _ string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func TestUserService_Register_SilentPersistenceFailure(t *testing.T) {
	svc, _, _ := newTestUserService(&emptyCreateRepo{}, time.Hour)

	_, err := svc.Register(context.Background(), ports.RegisterInput{Username: "alice", Password: "pw123", Role: "USER"})
	if !errors.Is(err, domain.ErrInternal) {
		t.Fatalf("expected ErrInternal, got %v", err)
	}
}

func TestUserService_Login(t *testing.T) {
	repo := newStubUserRepo()
	svc, sessions, _ := newTestUserService(repo, time.Hour)

	if _, err := svc.Register(context.Background(), ports.RegisterInput{Username: "carol", Password: "s3cret", Role: "PROVIDER"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	pair, user, err := svc.Login(context.Background(), "carol", "s3cret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user.Username != "carol" {
		t.Fatalf("unexpected user: %+v", user)
	}
	claims, err := sessions.Resolve(pair)
	if err != nil {
		t.Fatalf("issued pair does not resolve: %v", err)
	}
	if claims.Username != "carol" || claims.Role != string(domain.RoleProvider) {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	if _, _, err := svc.Login(context.Background(), "carol", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "ghost", "pw"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}

func TestUserService_Me_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc, sessions, _ := newTestUserService(repo, time.Hour)

	if _, err := svc.Register(context.Background(), ports.RegisterInput{Username: "alice", Password: "pw123", Role: "USER", Email: "alice@example.com"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	pair, _, err := svc.Login(context.Background(), "alice", "pw123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	result, err := svc.Me(context.Background(), pair)
	if err != nil {
		t.Fatalf("me: %v", err)
	}
	if result.Profile.Username != "alice" || result.Profile.Email != "alice@example.com" {
		t.Fatalf("unexpected profile: %+v", result.Profile)
	}
	// The rotated pair must itself resolve.
	if _, err := sessions.Resolve(result.Tokens); err != nil {
		t.Fatalf("rotated pair does not resolve: %v", err)
	}
}

func TestUserService_Me_RefreshFallback(t *testing.T) {
	repo := newStubUserRepo()
	// Access tokens expire immediately; refresh carries the session.
	svc, sessions, _ := newTestUserService(repo, -time.Minute)

	if _, err := svc.Register(context.Background(), ports.RegisterInput{Username: "alice", Password: "pw123", Role: "USER"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	pair, err := sessions.Issue("alice", domain.RoleUser)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	result, err := svc.Me(context.Background(), pair)
	if err != nil {
		t.Fatalf("expected refresh fallback to carry the call, got %v", err)
	}
	if result.Profile.Username != "alice" {
		t.Fatalf("unexpected profile: %+v", result.Profile)
	}
}

func TestUserService_Me_MissingCredentials(t *testing.T) {
	repo := newStubUserRepo()
	svc, _, _ := newTestUserService(repo, time.Hour)

	_, err := svc.Me(context.Background(), domain.TokenPair{})
	if !errors.Is(err, domain.ErrMissingCredentials) {
		t.Fatalf("expected ErrMissingCredentials, got %v", err)
	}
}

func TestUserService_Me_UserRemoved(t *testing.T) {
	repo := newStubUserRepo()
	svc, sessions, _ := newTestUserService(repo, time.Hour)

	// Valid session for a user that no longer exists.
	pair, err := sessions.Issue("ghost", domain.RoleUser)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	_, err = svc.Me(context.Background(), pair)
	if !errors.Is(err, domain.ErrAuthenticationFailed) {
		t.Fatalf("expected ErrAuthenticationFailed, got %v", err)
	}
	if !strings.Contains(err.Error(), "ghost") {
		t.Fatalf("expected descriptive message naming the user, got %q", err.Error())
	}
}

func TestUserService_ListUpdateDelete(t *testing.T) {
	repo := newStubUserRepo()
	svc, _, _ := newTestUserService(repo, time.Hour)

	for _, name := range []string{"alice", "alina", "bob"} {
		if _, err := svc.Register(context.Background(), ports.RegisterInput{Username: name, Password: "pw123", Role: "USER"}); err != nil {
			t.Fatalf("register %s: %v", name, err)
		}
	}

	profiles, err := svc.List(context.Background(), ports.ListUsersFilter{Username: "ali"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(profiles) != 2 {
		t.Fatalf("expected 2 matches for substring ali, got %d", len(profiles))
	}

	full := "Robert"
	updated, err := svc.Update(context.Background(), "bob", ports.UserUpdate{Fullname: &full})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Fullname != "Robert" {
		t.Fatalf("patch not applied: %+v", updated)
	}

	deleted, err := svc.Delete(context.Background(), "bob")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deleted.Status != domain.StatusDeleted {
		t.Fatalf("expected soft-deleted status, got %q", deleted.Status)
	}
	// Record survives a soft delete.
	if _, err := repo.FindByUsername(context.Background(), "bob"); err != nil {
		t.Fatalf("soft-deleted user should still exist: %v", err)
	}
}
