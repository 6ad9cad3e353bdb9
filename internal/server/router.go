package server

import (
	"net/http"

	"smart-dpo/internal/config"
	"smart-dpo/internal/handlers"
	"smart-dpo/internal/middleware"
	"smart-dpo/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

func NewRouter(cfg *config.Config) *gin.Engine {
	r := gin.Default()

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	r.Use(sessions.Sessions("smartdpo_session", store))

	r.Use(middleware.InjectUser())

	// HEALTHCHECK
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	api := r.Group("/api")

	// AUTH
	api.POST("/auth/login", handlers.Login)
	api.POST("/auth/logout", handlers.Logout)

	// public: the frontend needs the app name before login
	api.GET("/settings/app-name", handlers.GetAppName)

	auth := api.Group("/")
	auth.Use(middleware.RequireAuth())

	// every register role can read and write the register itself
	register := middleware.RequireRole(
		models.RoleAdmin, models.RoleSuperAdmin, models.RoleDPO, models.RoleCollaborateur,
	)

	// UTILISATEURS — admins only
	auth.GET("/users",
		middleware.RequireRole(models.RoleAdmin, models.RoleSuperAdmin),
		handlers.ListUsers,
	)
	auth.POST("/users",
		middleware.RequireRole(models.RoleAdmin, models.RoleSuperAdmin),
		handlers.CreateUser,
	)
	auth.PUT("/users/:id",
		middleware.RequireRole(models.RoleAdmin, models.RoleSuperAdmin),
		handlers.UpdateUser,
	)

	// TRAITEMENTS
	auth.GET("/traitements", register, handlers.ListTreatments)
	auth.GET("/traitements/:id", register, handlers.GetTreatment)
	auth.POST("/traitements", register, handlers.CreateTreatment)
	auth.PUT("/traitements/:id", register, handlers.UpdateTreatment)
	auth.DELETE("/traitements/:id", register, handlers.DeleteTreatment)

	// RISQUES
	auth.GET("/risques", register, handlers.ListRisks)
	auth.POST("/risques", register, handlers.CreateRisk)
	auth.PUT("/risques/:id", register, handlers.UpdateRisk)

	// MESURES CORRECTIVES
	auth.GET("/mesures", register, handlers.ListMeasures)
	auth.POST("/mesures", register, handlers.CreateMeasure)
	auth.PUT("/mesures/:id", register, handlers.UpdateMeasure)

	// ALERTES
	auth.GET("/alertes", register, handlers.ListAlerts)
	auth.PUT("/alertes/:id/read", register, handlers.MarkAlertRead)
	auth.POST("/alertes/scan",
		middleware.RequireRole(models.RoleAdmin, models.RoleSuperAdmin, models.RoleDPO),
		handlers.ScanAlerts,
	)

	// JOURNAL — restricted to privileged roles
	auth.GET("/journal",
		middleware.RequireRole(models.RoleAdmin, models.RoleSuperAdmin, models.RoleDPO),
		handlers.ListJournal,
	)

	// DASHBOARD
	auth.GET("/dashboard/stats", register, handlers.DashboardStats)
	auth.GET("/dashboard/evolution", register, handlers.DashboardEvolution)

	// SETTINGS
	auth.PUT("/settings/app-name",
		middleware.RequireRole(models.RoleAdmin, models.RoleSuperAdmin),
		handlers.UpdateAppName,
	)

	return r
}
