package middleware

import (
	"net/http"
	"strings"

	"github.com/aeroprep/aeroprep-backend/internal/response"
	"github.com/aeroprep/aeroprep-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// ContextKeyClaims is the Gin context key under which validated JWT
// claims are stored for downstream handlers.
const ContextKeyClaims = "claims"

// RequireUserJWT guards candidate routes. The token comes from the
// Authorization header as a bearer token.
func RequireUserJWT(authService *service.AuthService) gin.HandlerFunc {
	return requireTokenType(authService, service.TokenTypeUser, false)
}

// RequireAdminJWT guards back-office routes.
func RequireAdminJWT(authService *service.AuthService) gin.HandlerFunc {
	return requireTokenType(authService, service.TokenTypeAdmin, false)
}

// RequireUserWSAuth guards WebSocket upgrades. Browsers cannot attach
// headers to upgrade requests, so the token rides in ?token=.
func RequireUserWSAuth(authService *service.AuthService) gin.HandlerFunc {
	return requireTokenType(authService, service.TokenTypeUser, true)
}

func requireTokenType(authService *service.AuthService, want service.TokenType, fromQuery bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenStr string
		if fromQuery {
			tokenStr = c.Query("token")
		} else {
			tokenStr = bearerToken(c)
		}
		if tokenStr == "" {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		claims, err := authService.ValidateToken(tokenStr)
		if err != nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
			return
		}

		if claims.TokenType != want {
			denial := response.ErrUserAccessOnly
			if want == service.TokenTypeAdmin {
				denial = response.ErrAdminAccessOnly
			}
			response.AbortFail(c, http.StatusForbidden, denial)
			return
		}

		c.Set(ContextKeyClaims, claims)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return token
}

// GetClaims retrieves the JWT claims placed in the context by one of the
// Require* middlewares. Returns nil when the route is unauthenticated.
func GetClaims(c *gin.Context) *service.Claims {
	val, ok := c.Get(ContextKeyClaims)
	if !ok {
		return nil
	}
	claims, ok := val.(*service.Claims)
	if !ok {
		return nil
	}
	return claims
}
