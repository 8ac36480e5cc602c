package middleware

import (
	"handmade-store/models"
	"handmade-store/services"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	SessionCookieName = "adminToken"
	sessionContextKey = "admin_session"
)

// CookieOptions controls the Secure attribute of the session cookie.
// ForceSecure sets it always; otherwise it follows the request scheme.
type CookieOptions struct {
	ForceSecure bool
}

func (o CookieOptions) secure(c *gin.Context) bool {
	if o.ForceSecure || c.Request.TLS != nil {
		return true
	}
	return strings.EqualFold(c.GetHeader("X-Forwarded-Proto"), "https")
}

func (o CookieOptions) write(c *gin.Context, value string, maxAge int) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   o.secure(c),
		SameSite: http.SameSiteLaxMode,
	})
}

func (o CookieOptions) SetSessionCookie(c *gin.Context, token string) {
	o.write(c, token, int(services.SessionTTL.Seconds()))
}

func (o CookieOptions) ClearSessionCookie(c *gin.Context) {
	o.write(c, "", -1)
}

// SessionFromRequest reads and verifies the session cookie. hadCookie reports
// whether a non-empty cookie was sent at all.
func SessionFromRequest(c *gin.Context, auth *services.AuthService) (claims *services.SessionClaims, hadCookie bool) {
	token, err := c.Cookie(SessionCookieName)
	if err != nil || token == "" {
		return nil, false
	}
	return auth.Session(token), true
}

// AdminMiddleware rejects requests without a valid admin session with 401.
// A cookie that fails verification is cleared on the way out.
func AdminMiddleware(auth *services.AuthService, cookies CookieOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, hadCookie := SessionFromRequest(c, auth)
		if claims == nil {
			if hadCookie {
				cookies.ClearSessionCookie(c)
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
				Error: "Unauthorized",
			})
			return
		}

		c.Set(sessionContextKey, claims)
		c.Next()
	}
}

// CurrentSession returns the claims stored by AdminMiddleware.
func CurrentSession(c *gin.Context) *services.SessionClaims {
	v, ok := c.Get(sessionContextKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*services.SessionClaims)
	return claims
}
