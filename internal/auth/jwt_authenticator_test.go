package auth_test

import (
	"crypto/rand"
	"crypto/rsa"
	"fmt"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/blue-collar-job-portal/moderation/internal/auth"
	"github.com/blue-collar-job-portal/moderation/internal/moderation"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var secret = []byte("local-dev-secret")

func signLocal(claims auth.Claims) string {
	GinkgoHelper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString(secret)
	Expect(err).To(BeNil())
	return s
}

func validClaims(role moderation.Role, userID uuid.UUID) auth.Claims {
	return auth.Claims{
		Email:  "alice@portal.test",
		Role:   string(role),
		UserID: userID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "alice",
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

type operatorHandler struct {
	op moderation.Operator
}

func (h *operatorHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.op = auth.MustHaveOperator(r.Context())
	w.WriteHeader(http.StatusOK)
}

var _ = Describe("jwt authentication", func() {
	Context("local secret", func() {
		It("turns the claims into an operator", func() {
			userID := uuid.New()
			authenticator, err := auth.NewLocalAuthenticator(secret)
			Expect(err).To(BeNil())

			op, err := authenticator.Authenticate(signLocal(validClaims(moderation.RoleEmployer, userID)))
			Expect(err).To(BeNil())
			Expect(op.Identity).To(Equal("alice@portal.test"))
			Expect(op.Role).To(Equal(moderation.RoleEmployer))
			Expect(op.UserID).To(Equal(userID))
		})

		It("downgrades unknown roles to user", func() {
			authenticator, _ := auth.NewLocalAuthenticator(secret)

			op, err := authenticator.Authenticate(signLocal(validClaims(moderation.Role("root"), uuid.New())))
			Expect(err).To(BeNil())
			Expect(op.Role).To(Equal(moderation.RoleUser))
		})

		It("refuses expired tokens", func() {
			authenticator, _ := auth.NewLocalAuthenticator(secret)
			claims := validClaims(moderation.RoleAdmin, uuid.New())
			claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

			_, err := authenticator.Authenticate(signLocal(claims))
			Expect(err).ToNot(BeNil())
		})

		It("refuses tokens signed with another secret", func() {
			authenticator, _ := auth.NewLocalAuthenticator([]byte("another-secret"))

			_, err := authenticator.Authenticate(signLocal(validClaims(moderation.RoleAdmin, uuid.New())))
			Expect(err).ToNot(BeNil())
		})

		It("refuses a malformed user id", func() {
			authenticator, _ := auth.NewLocalAuthenticator(secret)
			claims := validClaims(moderation.RoleAdmin, uuid.New())
			claims.UserID = "not-a-uuid"

			_, err := authenticator.Authenticate(signLocal(claims))
			Expect(err).ToNot(BeNil())
		})
	})

	Context("key function", func() {
		It("only accepts the configured signing method", func() {
			key, err := rsa.GenerateKey(rand.Reader, 2048)
			Expect(err).To(BeNil())

			authenticator, err := auth.NewJWTAuthenticatorWithKeyFn(func(t *jwt.Token) (any, error) {
				return &key.PublicKey, nil
			})
			Expect(err).To(BeNil())

			signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, validClaims(moderation.RoleAdmin, uuid.New())).SignedString(key)
			Expect(err).To(BeNil())
			op, err := authenticator.Authenticate(signed)
			Expect(err).To(BeNil())
			Expect(op.Role).To(Equal(moderation.RoleAdmin))

			_, err = authenticator.Authenticate(signLocal(validClaims(moderation.RoleAdmin, uuid.New())))
			Expect(err).ToNot(BeNil())
		})
	})

	Context("middleware", func() {
		It("puts the operator in the request context", func() {
			authenticator, _ := auth.NewLocalAuthenticator(secret)
			h := &operatorHandler{}
			ts := httptest.NewServer(authenticator.Authenticator(h))
			defer ts.Close()

			req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
			Expect(err).To(BeNil())
			req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", signLocal(validClaims(moderation.RoleAdmin, uuid.New()))))

			resp, rerr := http.DefaultClient.Do(req)
			Expect(rerr).To(BeNil())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(h.op.Identity).To(Equal("alice@portal.test"))
		})

		It("answers 401 without a token", func() {
			authenticator, _ := auth.NewLocalAuthenticator(secret)
			ts := httptest.NewServer(authenticator.Authenticator(&operatorHandler{}))
			defer ts.Close()

			resp, err := http.Get(ts.URL)
			Expect(err).To(BeNil())
			Expect(resp.StatusCode).To(Equal(http.StatusUnauthorized))
		})

		It("lets the none authenticator read operator headers", func() {
			authenticator, _ := auth.NewNoneAuthenticator()
			h := &operatorHandler{}
			ts := httptest.NewServer(authenticator.Authenticator(h))
			defer ts.Close()

			userID := uuid.New()
			req, _ := http.NewRequest(http.MethodGet, ts.URL, nil)
			req.Header.Set(auth.IdentityHeader, "bob@employer.test")
			req.Header.Set(auth.RoleHeader, string(moderation.RoleEmployer))
			req.Header.Set(auth.UserIDHeader, userID.String())

			resp, err := http.DefaultClient.Do(req)
			Expect(err).To(BeNil())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(h.op).To(Equal(moderation.NewEmployer("bob@employer.test", userID)))
		})
	})
})
