package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	userDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/user"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// maxCodeAttempts bounds how often Create regenerates an employee code after
// a uniqueness collision.
const maxCodeAttempts = 3

type Repository interface {
	GetByEmail(ctx context.Context, email string) (*userDatamodel.User, error)
	GetByID(ctx context.Context, id string) (*userDatamodel.User, error)
	Create(ctx context.Context, u *userDatamodel.User) error
	UpdateRole(ctx context.Context, id, role, department string) (*userDatamodel.User, error)
}

// Service is the credential store. It owns identity records and is the only
// place plaintext passwords are turned into hashes.
type Service struct {
	repo       Repository
	logger     *slog.Logger
	bcryptCost int
	now        func() time.Time
	newCode    func(time.Time) string
}

type Option func(*Service)

func WithBcryptCost(cost int) Option {
	return func(s *Service) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			s.bcryptCost = cost
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithEmployeeCodeGenerator(gen func(time.Time) string) Option {
	return func(s *Service) { s.newCode = gen }
}

func NewService(repo Repository, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		repo:       repo,
		logger:     logger,
		bcryptCost: bcrypt.DefaultCost,
		now:        time.Now,
		newCode:    GenerateEmployeeCode,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GenerateEmployeeCode derives a short code from the wall clock with two
// random digits appended so retries within the same millisecond differ.
func GenerateEmployeeCode(at time.Time) string {
	return fmt.Sprintf("EMP%06d%02d", at.UnixMilli()%1_000_000, rand.Intn(100))
}

// FindByEmail returns ErrNotFound when no identity has the address.
func (s *Service) FindByEmail(ctx context.Context, email string) (*User, error) {
	u, err := s.repo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	return FromDataModel(u), nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromDataModel(u), nil
}

// Create hashes the password, assigns an id and a unique employee code, and
// persists the identity. ErrDuplicateEmail is returned unchanged so callers
// racing on the same address can recover.
func (s *Service) Create(ctx context.Context, p Profile) (*User, error) {
	email := NormalizeEmail(p.Email)
	if email == "" || p.Password == "" {
		return nil, ErrInvalidProfile
	}

	role := p.Role
	if role == "" {
		role = RoleEmployee
	}
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	department := p.Department
	if department == "" {
		department = DepartmentFor(role)
	}
	name := p.Name
	if name == "" {
		name = DisplayNameFromEmail(email)
	}

	hash, err := HashPassword(p.Password, s.bcryptCost)
	if errors.Is(err, ErrPasswordTooLong) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	record := &userDatamodel.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Role:         string(role),
		Department:   department,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	for attempt := 1; ; attempt++ {
		record.EmployeeCode = s.newCode(s.now())
		err = s.repo.Create(ctx, record)
		if err == nil {
			break
		}
		if !errors.Is(err, ErrDuplicateEmployeeCode) || attempt >= maxCodeAttempts {
			if !errors.Is(err, ErrDuplicateEmail) {
				s.logger.Error("failed to create user", "email", email, "attempt", attempt, "error", err)
			}
			return nil, err
		}
		s.logger.Warn("employee code collision, retrying", "code", record.EmployeeCode, "attempt", attempt)
	}

	s.logger.Info("user created", "user_id", record.ID, "role", record.Role)
	return FromDataModel(record), nil
}

// UpdateRole changes an identity's role and department. Roles only move
// from employee to admin.
func (s *Service) UpdateRole(ctx context.Context, id string, role Role, department string) (*User, error) {
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if Role(current.Role) == RoleAdmin && role != RoleAdmin {
		return nil, ErrRoleDowngrade
	}
	if department == "" {
		department = DepartmentFor(role)
	}

	updated, err := s.repo.UpdateRole(ctx, id, string(role), department)
	if err != nil {
		s.logger.Error("failed to update role", "user_id", id, "role", role, "error", err)
		return nil, err
	}
	return FromDataModel(updated), nil
}

// VerifyCredential compares candidate against the stored hash.
func (s *Service) VerifyCredential(u *User, candidate string) bool {
	if u == nil {
		return false
	}
	return VerifyPassword(u.PasswordHash, candidate)
}
