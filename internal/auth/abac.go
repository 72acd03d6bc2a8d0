package auth

import (
	apperrors "github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/user"
)

// ABACPolicy holds the attribute checks that depend on the resource as well
// as the caller's role.
type ABACPolicy struct{}

func NewABACPolicy() *ABACPolicy {
	return &ABACPolicy{}
}

// CanViewLeave allows admins to read any leave request and employees only
// their own.
func (p *ABACPolicy) CanViewLeave(u *user.User, ownerID string) error {
	if u == nil || u.ID == "" {
		return apperrors.ErrForbidden
	}
	if u.IsAdmin() {
		return nil
	}
	if u.ID == ownerID {
		return nil
	}
	return apperrors.ErrForbidden
}
