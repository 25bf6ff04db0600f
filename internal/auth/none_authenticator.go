package auth

import (
	"net/http"

	"github.com/blue-collar-job-portal/moderation/internal/moderation"
	"github.com/google/uuid"
)

const (
	IdentityHeader = "X-Operator-Identity"
	RoleHeader     = "X-Operator-Role"
	UserIDHeader   = "X-Operator-User-Id"
)

// NoneAuthenticator trusts the operator headers and falls back to a local admin.
// Only meant for development.
type NoneAuthenticator struct{}

func NewNoneAuthenticator() (*NoneAuthenticator, error) {
	return &NoneAuthenticator{}, nil
}

func (n *NoneAuthenticator) Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		op := moderation.NewAdmin("admin")

		if identity := r.Header.Get(IdentityHeader); identity != "" {
			op.Identity = identity
		}
		if role := r.Header.Get(RoleHeader); role != "" {
			op.Role = moderation.Role(role)
		}
		if id, err := uuid.Parse(r.Header.Get(UserIDHeader)); err == nil {
			op.UserID = id
		}

		ctx := NewOperatorContext(r.Context(), op)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
