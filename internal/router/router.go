package router

import (
	"budgetbook/internal/config"
	"budgetbook/internal/handler"
	"budgetbook/internal/middleware"
	"budgetbook/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// SetupRouter configures the gin engine and wires every endpoint.
func SetupRouter(cfg *config.Config, db *gorm.DB, log zerolog.Logger) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(middleware.RequestLogger(log), gin.Recovery())

	linker := service.NewLinker(db, log)
	users := service.NewUserService(db, cfg.Security.BcryptCost)
	operations := service.NewOperationService(db, linker, cfg.App.DefaultPaymentMethod)
	budgets := service.NewBudgetService(db)

	api := r.Group("/api")

	authHandler := handler.NewAuthHandler(users, cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.ExpireHours)
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(cfg.JWT.Secret, db))

	userHandler := handler.NewUserHandler(users)
	protected.GET("/me", userHandler.Me)
	protected.DELETE("/users/me", userHandler.Delete)

	opHandler := handler.NewOperationHandler(operations, users, linker)
	ops := protected.Group("/operations/account")
	ops.GET("", opHandler.List)
	ops.POST("", opHandler.Create)
	ops.GET("/month", opHandler.ByMonth)
	ops.GET("/getoperationbydate", opHandler.ByDate)
	ops.POST("/linkbudgets", opHandler.LinkBudgets)
	ops.GET("/:id", opHandler.Get)
	ops.PUT("/:id", opHandler.Update)
	ops.DELETE("/:id", opHandler.Delete)

	budgetHandler := handler.NewBudgetHandler(budgets)
	protected.POST("/budget", budgetHandler.Create)
	protected.GET("/budget", budgetHandler.List)
	protected.GET("/budget/:id", budgetHandler.Get)
	protected.PUT("/budget/:id", budgetHandler.Update)
	protected.DELETE("/budget/:id", budgetHandler.Delete)
	protected.GET("/alerts", budgetHandler.Alerts)

	exportHandler := handler.NewExportHandler(operations, users)
	protected.GET("/export/csv", exportHandler.ExportCSV)
	protected.GET("/export/xlsx", exportHandler.ExportXLSX)

	return r
}
