package auth

import (
	"strings"

	"github.com/frahmantamala/leave-management/internal/core/common/validation"
	"github.com/frahmantamala/leave-management/internal/user"
)

// LoginDTO is the transport shape used by the HTTP handler to accept login requests.
type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate rejects a malformed address or an over-long password. Empty fields are left to the
// resolver, which reports them as missing credentials.
func (d LoginDTO) Validate() error {
	email := strings.TrimSpace(d.Email)
	if email == "" || d.Password == "" {
		return nil
	}

	v := validation.NewValidator()
	v.Field("email", user.NormalizeEmail(email)).Email()
	v.Field("password", d.Password).MaxBytes(user.MaxPasswordBytes)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// LoginResponse mirrors the shape clients already consume.
type LoginResponse struct {
	Success bool               `json:"success"`
	Token   string             `json:"token"`
	User    user.PublicProfile `json:"user"`
}
