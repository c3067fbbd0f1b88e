package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	iauth "github.com/charlesng35/weddingrsvp/internal/auth"
	"github.com/charlesng35/weddingrsvp/pkg/errors"
	"github.com/charlesng35/weddingrsvp/pkg/logger"
	"github.com/charlesng35/weddingrsvp/pkg/response"
)

const (
	CtxClaimsKey    = "authClaims"
	CtxUserIDKey    = "userID"
	CtxSessionIDKey = "sessionID"
)

// Identify resolves the caller from a bearer token or the session cookie and
// stores the claims on the context. When the access token is missing or
// expired but a refresh cookie is present, the session is rotated and new
// cookies are issued. It never rejects a request; Gate and Auth do that.
func Identify(jwt *iauth.JWTService, sessions *iauth.SessionService, cookies SessionCookies) gin.HandlerFunc {
	log := logger.WithModule("auth")

	return func(c *gin.Context) {
		if token := accessToken(c); token != "" {
			if claims, err := jwt.ValidateAccessToken(token); err == nil {
				setIdentity(c, claims)
				c.Next()
				return
			}
		}

		refresh, err := c.Cookie(RefreshCookieName)
		if err != nil || refresh == "" || sessions == nil {
			c.Next()
			return
		}

		pair, _, err := sessions.RefreshSession(c.Request.Context(), refresh)
		if err != nil {
			log.Debug("session refresh rejected", zap.Error(err))
			cookies.Clear(c)
			c.Next()
			return
		}

		claims, err := jwt.ValidateAccessToken(pair.AccessToken)
		if err != nil {
			log.Warn("refreshed access token failed validation", zap.Error(err))
			cookies.Clear(c)
			c.Next()
			return
		}

		cookies.Set(c, pair)
		setIdentity(c, claims)
		c.Next()
	}
}

// Auth rejects requests without a valid identity with 401. Identities
// established by Identify are reused, otherwise the bearer token is checked.
func Auth(jwt *iauth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := UserID(c); ok {
			c.Next()
			return
		}

		token := accessToken(c)
		if token == "" {
			response.Error(c, errors.ErrUnauthorized)
			c.Abort()
			return
		}

		claims, err := jwt.ValidateAccessToken(token)
		if err != nil {
			// Normalise all validation failures to 401
			c.Header("WWW-Authenticate", "Bearer")
			response.Error(c, errors.ErrUnauthorized)
			c.Abort()
			return
		}

		setIdentity(c, claims)
		c.Next()
	}
}

// UserID returns the authenticated user id, if any.
func UserID(c *gin.Context) (string, bool) {
	value := c.GetString(CtxUserIDKey)
	return value, value != ""
}

// Claims returns the validated access token claims, if any.
func Claims(c *gin.Context) (*iauth.Claims, bool) {
	value, ok := c.Get(CtxClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := value.(*iauth.Claims)
	return claims, ok && claims != nil
}

func setIdentity(c *gin.Context, claims *iauth.Claims) {
	c.Set(CtxClaimsKey, claims)
	c.Set(CtxUserIDKey, claims.UserID)
	if claims.SessionID != "" {
		c.Set(CtxSessionIDKey, claims.SessionID)
	}
}

func accessToken(c *gin.Context) string {
	authz := c.GetHeader("Authorization")
	if len(authz) >= 8 && strings.EqualFold(authz[:7], "Bearer ") {
		return strings.TrimSpace(authz[7:])
	}
	if cookie, err := c.Cookie(AccessCookieName); err == nil {
		return strings.TrimSpace(cookie)
	}
	return ""
}
