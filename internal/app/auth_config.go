package app

import (
	"time"

	"github.com/charlesng35/weddingrsvp/internal/auth"
)

const defaultPasswordResetTTL = time.Hour

// JWTServiceConfig converts AuthConfig into the parameters expected by the JWT service.
func (c AuthConfig) JWTServiceConfig() auth.JWTConfig {
	ttl := c.JWT.TTL
	if ttl <= 0 {
		ttl = auth.DefaultAccessTokenTTL
	}

	return auth.JWTConfig{
		Secret:         c.JWT.Secret,
		Issuer:         c.JWT.Issuer,
		AccessTokenTTL: ttl,
	}
}

// SessionServiceConfig converts AuthConfig into SessionService parameters.
func (c AuthConfig) SessionServiceConfig() auth.SessionConfig {
	ttl := c.Session.RefreshTTL
	if ttl <= 0 {
		ttl = auth.DefaultRefreshTokenTTL
	}

	length := c.Session.RefreshLength
	if length <= 0 {
		length = 48
	}

	return auth.SessionConfig{
		RefreshTokenTTL: ttl,
		RefreshLength:   length,
	}
}

// PasswordResetTTL returns the reset link lifetime, defaulting to one hour.
func (c AuthConfig) PasswordResetTTL() time.Duration {
	if c.PasswordReset.TTL <= 0 {
		return defaultPasswordResetTTL
	}
	return c.PasswordReset.TTL
}
