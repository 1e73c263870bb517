package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/urbaneye/crime_reporting_system/internal/guard"
)

// RegisterRoutes регистрирует все маршруты API v1. Уровень доступа
// каждой группы задается через requireCapability.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	api.Use(h.sessionMiddleware())

	// Аутентификация: вход и регистрация доступны анонимно
	auth := api.Group("/auth")
	{
		auth.POST("/signup", h.signUp)
		auth.POST("/signin", h.signIn)
		auth.POST("/signout", h.signOut)
		auth.GET("/session", requireCapability(guard.CapAuthenticated), h.session)
	}

	// Отчеты о происшествиях
	incidents := api.Group("/incidents", requireCapability(guard.CapAuthenticated))
	{
		incidents.POST("", h.reportIncident)
		incidents.GET("", h.listIncidents)
		incidents.GET("/:id", h.getIncident)
	}

	// Профиль текущего пользователя
	profile := api.Group("/profile", requireCapability(guard.CapAuthenticated))
	{
		profile.GET("", h.getProfile)
		profile.PUT("", h.updateProfile)
	}

	// Дашборд и карта
	api.GET("/dashboard/stats", requireCapability(guard.CapAuthenticated), h.dashboardStats)
	api.GET("/map/config", requireCapability(guard.CapAuthenticated), h.mapConfig)
	api.GET("/map/incidents", requireCapability(guard.CapAuthenticated), h.mapIncidents)

	// Лента сообщества и экстренные оповещения
	community := api.Group("/community", requireCapability(guard.CapAuthenticated))
	{
		community.GET("/posts", h.listPosts)
		community.POST("/posts", h.createPost)
		community.POST("/posts/:id/like", h.likePost)
		community.POST("/posts/:id/view", h.viewPost)
		community.GET("/posts/:id/comments", h.listComments)
		community.POST("/posts/:id/comments", h.addComment)
	}
	api.GET("/alerts", requireCapability(guard.CapAuthenticated), h.listAlerts)
	api.POST("/alerts", requireCapability(guard.CapAuthenticated), h.createAlert)

	// Админ-консоль
	admin := api.Group("/admin", requireCapability(guard.CapAdminOnly))
	{
		admin.GET("/incidents", h.listIncidentsForAdmin)
		admin.PUT("/incidents/:id/status", h.updateIncidentStatus)
		admin.GET("/users", h.listProfiles)
		admin.PUT("/users/:id/admin", h.toggleAdmin)
	}

	// Маршрут Health-check
	api.GET("/system/health", h.healthCheck)
}
