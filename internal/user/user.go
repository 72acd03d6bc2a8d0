package user

import (
	"errors"
	"strings"
	"time"

	userDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/user"
)

type Role string

const (
	RoleEmployee Role = "employee"
	RoleAdmin    Role = "admin"
)

const (
	DepartmentGeneral    = "General"
	DepartmentManagement = "Management"
)

func (r Role) Valid() bool {
	return r == RoleEmployee || r == RoleAdmin
}

// DepartmentFor returns the department an account is placed in by default.
func DepartmentFor(role Role) string {
	if role == RoleAdmin {
		return DepartmentManagement
	}
	return DepartmentGeneral
}

// User is an identity record. PasswordHash never leaves the process.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Department   string    `json:"department"`
	EmployeeCode string    `json:"employee_code"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// PublicProfile is the client-facing projection of a User.
type PublicProfile struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	Department   string    `json:"department"`
	EmployeeCode string    `json:"employee_code"`
	CreatedAt    time.Time `json:"created_at"`
}

func (u *User) ToPublic() PublicProfile {
	return PublicProfile{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Role:         u.Role,
		Department:   u.Department,
		EmployeeCode: u.EmployeeCode,
		CreatedAt:    u.CreatedAt,
	}
}

// Profile is the input for creating an identity. Password is plaintext and is
// hashed by Service.Create before anything is written.
type Profile struct {
	Name       string
	Email      string
	Password   string
	Role       Role
	Department string
}

var (
	ErrNotFound              = errors.New("user not found")
	ErrDuplicateEmail        = errors.New("email already registered")
	ErrDuplicateEmployeeCode = errors.New("employee code already in use")
	ErrRoleDowngrade         = errors.New("admin role cannot be revoked")
	ErrInvalidRole           = errors.New("invalid role")
	ErrInvalidProfile        = errors.New("email and password are required")
)

// NormalizeEmail lowercases and trims an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// DisplayNameFromEmail returns the local part of an address.
func DisplayNameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}

func ToDataModel(u *User) *userDatamodel.User {
	return &userDatamodel.User{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		Department:   u.Department,
		EmployeeCode: u.EmployeeCode,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func FromDataModel(u *userDatamodel.User) *User {
	return &User{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		Role:         Role(u.Role),
		Department:   u.Department,
		EmployeeCode: u.EmployeeCode,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}
