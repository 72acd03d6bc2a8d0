package auth

import (
	"context"
	"net/http"

	apperrors "github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/transport"
	"github.com/frahmantamala/leave-management/internal/user"
	"github.com/frahmantamala/leave-management/pkg/logger"
)

type ServiceAPI interface {
	LoginOrCreate(ctx context.Context, email, password string) (*LoginResult, error)
	ValidateToken(token string) (*Session, error)
	Authenticate(ctx context.Context, token string) (*user.User, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, svc ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     svc,
	}
}

// Login handles POST /auth/login. Unknown emails are provisioned on the fly.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleError(w, r, err)
		return
	}
	if err := dto.Validate(); err != nil {
		h.HandleError(w, r, err)
		return
	}

	result, err := h.Service.LoginOrCreate(r.Context(), dto.Email, dto.Password)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, LoginResponse{
		Success: true,
		Token:   result.Token,
		User:    result.User.ToPublic(),
	})
}

// Logout handles POST /auth/logout. Tokens are stateless so this only
// confirms the token is still valid; the client discards it.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	token := h.ExtractTokenFromHeader(r)
	if token == "" {
		h.HandleError(w, r, apperrors.ErrMissingToken)
		return
	}

	if _, err := h.Service.ValidateToken(token); err != nil {
		h.HandleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AuthMiddleware verifies the bearer token, loads the identity it names and
// attaches it to the request context.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.HandleError(w, r, apperrors.ErrMissingToken)
			return
		}

		u, err := h.Service.Authenticate(r.Context(), token)
		if err != nil {
			logger.From(r.Context()).Warn("token rejected", "token_prefix", tokenPrefix(token), "error", err)
			h.HandleError(w, r, err)
			return
		}

		ctx := user.ContextWithUser(r.Context(), u)
		ctx = logger.With(ctx, "user_id", u.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func tokenPrefix(token string) string {
	if len(token) > 12 {
		return token[:12]
	}
	return token
}
