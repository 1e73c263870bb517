package v1

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/urbaneye/crime_reporting_system/internal/guard"
	"github.com/urbaneye/crime_reporting_system/internal/models"
	"github.com/urbaneye/crime_reporting_system/internal/service"
)

// Ключи контекста запроса.
const (
	ctxIdentity = "identity"
	ctxSession  = "guard_session"
)

// sessionMiddleware разрешает сессию по токену из Authorization: Bearer.
// Результат (включая "не аутентифицирован" и "не разрешилось") кладется
// в контекст; решение о доступе принимает requireCapability.
func (h *Handler) sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.Set(ctxSession, guard.Session{State: guard.Unauthenticated})
			c.Next()
			return
		}

		identity, err := h.authService.Session(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, service.ErrAuthRequired) {
				c.Set(ctxSession, guard.Session{State: guard.Unauthenticated})
			} else {
				// Хранилище сессий недоступно: состояние неизвестно,
				// редиректы запрещены
				h.logger.WithError(err).Error("Failed to resolve session")
				c.Set(ctxSession, guard.Session{State: guard.Loading})
			}
			c.Next()
			return
		}

		isAdmin, err := h.profileService.IsAdmin(c.Request.Context(), identity.ID)
		if err != nil {
			h.logger.WithError(err).Error("Failed to resolve admin flag")
			c.Set(ctxSession, guard.Session{State: guard.Loading})
			c.Next()
			return
		}

		c.Set(ctxIdentity, identity)
		c.Set(ctxSession, guard.Session{State: guard.Authenticated, IsAdmin: isAdmin})
		c.Next()
	}
}

// requireCapability транслирует решение guard.Decide в HTTP-коды:
// заглушка - 503, редирект на вход - 401, редирект на главную - 403.
func requireCapability(cap guard.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessionFromContext(c)
		decision := guard.Decide(sess, cap)

		switch {
		case decision.Placeholder:
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "session state unresolved, retry"})
		case decision.RedirectTo == guard.AuthPath:
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		case decision.RedirectTo == guard.HomePath:
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
		default:
			c.Next()
		}
	}
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

func sessionFromContext(c *gin.Context) guard.Session {
	if v, ok := c.Get(ctxSession); ok {
		if sess, ok := v.(guard.Session); ok {
			return sess
		}
	}
	return guard.Session{State: guard.Unauthenticated}
}

// identityFromContext возвращает субъекта запроса. nil - запрос анонимный.
func identityFromContext(c *gin.Context) *models.Identity {
	if v, ok := c.Get(ctxIdentity); ok {
		if identity, ok := v.(*models.Identity); ok {
			return identity
		}
	}
	return nil
}
