package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/blog-api/internal/domain/entity"
	"github.com/oksasatya/blog-api/internal/domain/policy"
	"github.com/oksasatya/blog-api/pkg/helpers"
	"github.com/oksasatya/blog-api/pkg/response"
)

// Context keys set by Auth.
const (
	CtxUserIDKey = "userID"
	CtxRoleKey   = "userRole"
)

// TokenParser validates an access token.
type TokenParser interface {
	ParseAccessToken(token string) (*helpers.Claims, error)
}

// Auth reads the access token from header, validates it and puts the caller's
// id and role in the context. Requests without a valid token stop here with 401.
func Auth(tokens TokenParser, header string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimSpace(c.GetHeader(header))
		token = strings.TrimPrefix(token, "Bearer ")
		if token == "" {
			response.Error(c, http.StatusUnauthorized, "missing access token", nil)
			return
		}
		claims, err := tokens.ParseAccessToken(token)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "invalid access token", err.Error())
			return
		}
		role, err := entity.ParseRole(claims.Role)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "invalid access token", "unknown role")
			return
		}
		c.Set(CtxUserIDKey, claims.UserID())
		c.Set(CtxRoleKey, string(role))
		c.Next()
	}
}

// SubjectFrom returns the caller Auth stored in the context. Outside Auth it
// is the zero Subject, which every policy check rejects as unauthorized.
func SubjectFrom(c *gin.Context) policy.Subject {
	return policy.Subject{
		UserID: c.GetString(CtxUserIDKey),
		Role:   entity.Role(c.GetString(CtxRoleKey)),
	}
}
