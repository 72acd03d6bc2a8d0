package auth

import (
	"errors"
	"fmt"
	"time"

	apperrors "github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/user"
	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is the fixed validity window of a session token.
const TokenTTL = 7 * 24 * time.Hour

var (
	ErrInvalidToken = apperrors.ErrInvalidToken
	ErrTokenExpired = apperrors.ErrTokenExpired
)

// Claims represents JWT token claims
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Session is a verified token.
type Session struct {
	UserID    string
	Role      user.Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenGenerator issues session tokens and turns them back into sessions.
type TokenGenerator interface {
	Issue(userID string, role user.Role) (string, error)
	Verify(token string) (*Session, error)
}

// JWTTokenGenerator signs HS256 tokens with a server-held secret. Tokens are
// stateless; there is no revocation.
type JWTTokenGenerator struct {
	secret []byte
	now    func() time.Time
}

type TokenOption func(*JWTTokenGenerator)

func WithTokenClock(now func() time.Time) TokenOption {
	return func(j *JWTTokenGenerator) { j.now = now }
}

func NewJWTTokenGenerator(secret string, opts ...TokenOption) *JWTTokenGenerator {
	j := &JWTTokenGenerator{
		secret: []byte(secret),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

func (j *JWTTokenGenerator) Issue(userID string, role user.Role) (string, error) {
	issuedAt := j.now().UTC().Truncate(time.Second)

	claims := &Claims{
		UserID: userID,
		Role:   string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(TokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature before trusting any claim, then enforces expiry
// as issued-at plus TokenTTL regardless of the exp claim.
func (j *JWTTokenGenerator) Verify(tokenString string) (*Session, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (interface{}, error) {
			return j.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken.WithCause(err)
	}

	if claims.IssuedAt == nil || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	role := user.Role(claims.Role)
	if !role.Valid() {
		return nil, ErrInvalidToken
	}

	issuedAt := claims.IssuedAt.Time
	expiresAt := issuedAt.Add(TokenTTL)
	if !j.now().Before(expiresAt) {
		return nil, ErrTokenExpired
	}

	return &Session{
		UserID:    claims.UserID,
		Role:      role,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	}, nil
}
