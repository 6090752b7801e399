package middleware

import (
	"net/http"

	"github.com/aeroprep/aeroprep-backend/internal/response"
	"github.com/aeroprep/aeroprep-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// CheckSingleDeviceSession rejects candidate requests whose JTI no longer
// matches the active login in Redis. That happens when the account logged
// in elsewhere or an admin reset the session. Admin tokens pass through
// untouched since back-office logins are not single-device.
func CheckSingleDeviceSession(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		switch {
		case claims == nil:
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		case claims.TokenType != service.TokenTypeUser:
			c.Next()
		case authService.ValidateUserSession(c.Request.Context(), claims.UserID, claims.ID) != nil:
			response.AbortFail(c, http.StatusUnauthorized, response.ErrSessionInvalidated)
		default:
			c.Next()
		}
	}
}
