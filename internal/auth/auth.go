package auth

import (
	"errors"
	"net/http"

	"github.com/blue-collar-job-portal/moderation/internal/config"
	"go.uber.org/zap"
)

type Authenticator interface {
	Authenticator(next http.Handler) http.Handler
}

const (
	JWKAuthentication   string = "jwk"
	LocalAuthentication string = "local"
	NoneAuthentication  string = "none"
)

func NewAuthenticator(authConfig config.Auth) (Authenticator, error) {
	zap.S().Named("auth").Infof("authentication: '%s'", authConfig.AuthenticationType)

	switch authConfig.AuthenticationType {
	case JWKAuthentication:
		return NewJWKAuthenticator(authConfig.JwkCertURL)
	case LocalAuthentication:
		if authConfig.LocalSecret == "" {
			return nil, errors.New("local authentication needs a jwt secret")
		}
		return NewLocalAuthenticator([]byte(authConfig.LocalSecret))
	default:
		return NewNoneAuthenticator()
	}
}
