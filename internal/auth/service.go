package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	apperrors "github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/core/events"
	"github.com/frahmantamala/leave-management/internal/user"
)

var (
	ErrCredentialsRequired = apperrors.ErrCredentialsRequired
	ErrInvalidCredentials  = apperrors.ErrInvalidCredentials
	ErrPasswordTooLong     = apperrors.ErrPasswordTooLong
)

// CredentialStore is the subset of the user service the resolver needs.
type CredentialStore interface {
	FindByEmail(ctx context.Context, email string) (*user.User, error)
	GetByID(ctx context.Context, id string) (*user.User, error)
	Create(ctx context.Context, p user.Profile) (*user.User, error)
	UpdateRole(ctx context.Context, id string, role user.Role, department string) (*user.User, error)
	VerifyCredential(u *user.User, candidate string) bool
}

// Service resolves identities (login-or-create) and authenticates session
// tokens.
type Service struct {
	users     CredentialStore
	tokens    TokenGenerator
	admins    map[string]struct{}
	publisher events.Publisher
	logger    *slog.Logger
}

// NewService builds the resolver. adminEmails is the allow-list of addresses
// that are promoted to admin on sign-in; entries are normalized here.
func NewService(users CredentialStore, tokens TokenGenerator, adminEmails []string, publisher events.Publisher, logger *slog.Logger) *Service {
	admins := make(map[string]struct{}, len(adminEmails))
	for _, e := range adminEmails {
		if n := user.NormalizeEmail(e); n != "" {
			admins[n] = struct{}{}
		}
	}
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Service{
		users:     users,
		tokens:    tokens,
		admins:    admins,
		publisher: publisher,
		logger:    logger,
	}
}

// LoginResult is a successful resolution.
type LoginResult struct {
	Token string
	User  *user.User
}

// IsAdminEmail reports whether normalizedEmail is on the admin allow-list.
func (s *Service) IsAdminEmail(normalizedEmail string) bool {
	_, ok := s.admins[normalizedEmail]
	return ok
}

// LoginOrCreate finds the identity for email, creating it on first sight and
// promoting it when the address is allow-listed, then verifies password and
// issues a session token. Creation and promotion persist even when the
// password check fails. Passwords longer than bcrypt accepts are refused up
// front, for new and existing identities alike.
func (s *Service) LoginOrCreate(ctx context.Context, email, password string) (*LoginResult, error) {
	normalized := user.NormalizeEmail(email)
	if normalized == "" || password == "" {
		return nil, ErrCredentialsRequired
	}
	if len(password) > user.MaxPasswordBytes {
		return nil, ErrPasswordTooLong
	}
	isAdmin := s.IsAdminEmail(normalized)

	u, err := s.users.FindByEmail(ctx, normalized)
	switch {
	case errors.Is(err, user.ErrNotFound):
		u, err = s.create(ctx, normalized, password, isAdmin)
		if err != nil {
			return nil, err
		}
	case err != nil:
		return nil, fmt.Errorf("find user by email: %w", err)
	}

	if isAdmin && u.Role != user.RoleAdmin {
		u, err = s.promote(ctx, u)
		if err != nil {
			return nil, err
		}
	}

	if !s.users.VerifyCredential(u, password) {
		s.logger.Warn("login rejected", "user_id", u.ID)
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(u.ID, u.Role)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.logger.Info("login succeeded", "user_id", u.ID, "role", u.Role)
	return &LoginResult{Token: token, User: u}, nil
}

// create provisions a new identity. When a concurrent call wins the insert,
// the winner's row is returned so the caller continues as if it had been
// found.
func (s *Service) create(ctx context.Context, email, password string, isAdmin bool) (*user.User, error) {
	role := user.RoleEmployee
	if isAdmin {
		role = user.RoleAdmin
	}

	u, err := s.users.Create(ctx, user.Profile{
		Name:       user.DisplayNameFromEmail(email),
		Email:      email,
		Password:   password,
		Role:       role,
		Department: user.DepartmentFor(role),
	})
	if errors.Is(err, user.ErrDuplicateEmail) {
		s.logger.Info("concurrent first login, using existing identity", "email_domain", domainOf(email))
		existing, findErr := s.users.FindByEmail(ctx, email)
		if findErr != nil {
			return nil, fmt.Errorf("reload user after duplicate: %w", findErr)
		}
		return existing, nil
	}
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	_ = s.publisher.Publish(ctx, events.NewIdentityCreatedEvent(u.ID, string(u.Role), apperrors.ClientIPFromContext(ctx)))
	return u, nil
}

func (s *Service) promote(ctx context.Context, u *user.User) (*user.User, error) {
	from := u.Role
	promoted, err := s.users.UpdateRole(ctx, u.ID, user.RoleAdmin, user.DepartmentManagement)
	if err != nil {
		return nil, fmt.Errorf("promote user: %w", err)
	}

	s.logger.Info("user promoted to admin", "user_id", u.ID)
	_ = s.publisher.Publish(ctx, events.NewIdentityPromotedEvent(u.ID, string(from), string(promoted.Role), apperrors.ClientIPFromContext(ctx)))
	return promoted, nil
}

// ValidateToken verifies a token without touching the store.
func (s *Service) ValidateToken(token string) (*Session, error) {
	return s.tokens.Verify(token)
}

// Authenticate verifies token and loads the identity it names. A token for
// an identity that no longer exists is invalid.
func (s *Service) Authenticate(ctx context.Context, token string) (*user.User, error) {
	session, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	u, err := s.users.GetByID(ctx, session.UserID)
	if errors.Is(err, user.ErrNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, fmt.Errorf("load session user: %w", err)
	}
	return u, nil
}

func domainOf(email string) string {
	_, domain, _ := strings.Cut(email, "@")
	return domain
}
