package middleware

import (
	"sahayak_backend/internal/config"
	"sahayak_backend/internal/model"
	"sahayak_backend/internal/util"
	"sahayak_backend/pkg/logger"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionResolver turns verified token claims into the caller's current session.
type SessionResolver interface {
	ResolveSession(claims *util.Claims) (model.Session, error)
}

func bearerToken(c *gin.Context) string {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	// EventSource cannot set headers
	return c.Query("token")
}

func AuthMiddleware(cfg *config.Config, resolver SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := util.ParseJWT(tokenString, cfg.JWT.Secret)
		if err != nil {
			logger.Log.Debug("rejected token", zap.String("path", c.FullPath()), zap.Error(err))
			util.Unauthorized(c)
			c.Abort()
			return
		}

		session, err := resolver.ResolveSession(claims)
		if err != nil {
			logger.Log.Info("token for unknown or changed account",
				zap.String("userId", claims.UserID),
				zap.String("role", string(claims.Role)))
			util.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set(util.ContextClaimsKey, claims)
		c.Set(util.ContextSessionKey, session)
		c.Next()
	}
}

// RoleMiddleware admits the listed roles. Admins pass every staff check.
func RoleMiddleware(roles ...model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := util.GetSessionFromContext(c)
		if session == nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		role := session.Role()
		allowed := false
		for _, r := range roles {
			if role == r || (role == model.RoleAdmin && r.IsStaff()) {
				allowed = true
				break
			}
		}

		if !allowed {
			util.Forbidden(c)
			c.Abort()
			return
		}
		c.Next()
	}
}
