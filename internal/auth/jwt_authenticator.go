package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	keyfunc "github.com/MicahParks/keyfunc/v3"
	"github.com/blue-collar-job-portal/moderation/internal/moderation"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Claims carried by the portal's access tokens.
type Claims struct {
	Email  string `json:"email"`
	Role   string `json:"role"`
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

type JWTAuthenticator struct {
	keyFn   jwt.Keyfunc
	methods []string
}

func NewJWTAuthenticatorWithKeyFn(keyFn jwt.Keyfunc, methods ...string) (*JWTAuthenticator, error) {
	if len(methods) == 0 {
		methods = []string{jwt.SigningMethodRS256.Name}
	}
	return &JWTAuthenticator{keyFn: keyFn, methods: methods}, nil
}

// NewJWKAuthenticator validates RS256 tokens against the keys published at jwkCertUrl.
func NewJWKAuthenticator(jwkCertUrl string) (*JWTAuthenticator, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	k, err := keyfunc.NewDefaultCtx(ctx, []string{jwkCertUrl})
	if err != nil {
		return nil, fmt.Errorf("failed to get public keys: %w", err)
	}

	return NewJWTAuthenticatorWithKeyFn(k.Keyfunc, jwt.SigningMethodRS256.Name)
}

// NewLocalAuthenticator validates HS256 tokens signed with the shared secret.
func NewLocalAuthenticator(secret []byte) (*JWTAuthenticator, error) {
	return NewJWTAuthenticatorWithKeyFn(func(t *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.SigningMethodHS256.Name)
}

func (a *JWTAuthenticator) Authenticate(token string) (moderation.Operator, error) {
	parser := jwt.NewParser(jwt.WithValidMethods(a.methods), jwt.WithIssuedAt(), jwt.WithExpirationRequired())

	claims := &Claims{}
	t, err := parser.ParseWithClaims(token, claims, a.keyFn)
	if err != nil {
		return moderation.Operator{}, fmt.Errorf("failed to authenticate token: %w", err)
	}
	if !t.Valid {
		return moderation.Operator{}, errors.New("failed to parse or validate token")
	}

	return operatorFromClaims(claims)
}

func operatorFromClaims(claims *Claims) (moderation.Operator, error) {
	identity := claims.Email
	if identity == "" {
		identity = claims.Subject
	}
	if identity == "" {
		return moderation.Operator{}, errors.New("token has no subject")
	}

	op := moderation.Operator{Identity: identity}
	switch moderation.Role(claims.Role) {
	case moderation.RoleAdmin, moderation.RoleEmployer, moderation.RoleScreener:
		op.Role = moderation.Role(claims.Role)
	default:
		op.Role = moderation.RoleUser
	}

	if claims.UserID != "" {
		id, err := uuid.Parse(claims.UserID)
		if err != nil {
			return moderation.Operator{}, fmt.Errorf("malformed user id %q: %w", claims.UserID, err)
		}
		op.UserID = id
	}
	return op, nil
}

func (a *JWTAuthenticator) Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accessToken, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !found || accessToken == "" {
			http.Error(w, "No token provided", http.StatusUnauthorized)
			return
		}

		op, err := a.Authenticate(accessToken)
		if err != nil {
			zap.S().Named("auth").Debugw("authentication failed", "error", err)
			http.Error(w, "authentication failed", http.StatusUnauthorized)
			return
		}

		ctx := NewOperatorContext(r.Context(), op)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
