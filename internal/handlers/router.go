package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "expensetracker/internal/docs" // Import swagger docs
	"expensetracker/internal/middleware"
	"expensetracker/internal/services"
)

// RouterConfig holds what the HTTP routes depend on.
type RouterConfig struct {
	UserService    services.UserServicer
	ExpenseService services.ExpenseServicer
	AuditService   services.AuditServicer

	JWTSecret      string
	TokenTTL       time.Duration
	CORSOrigin     string
	ReportLocation *time.Location
}

// NewRouter wires handlers and middleware into a Gin engine.
func NewRouter(cfg RouterConfig) *gin.Engine {
	authHandler := NewAuthHandler(cfg.UserService, cfg.AuditService, cfg.JWTSecret, cfg.TokenTTL)
	expenseHandler := NewExpenseHandler(cfg.ExpenseService, cfg.AuditService)
	reportHandler := NewReportHandler(cfg.ExpenseService, cfg.ReportLocation)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS(cfg.CORSOrigin))

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public routes
	auth := router.Group("/auth")
	auth.POST("/signup", authHandler.Signup)
	auth.POST("/login", authHandler.Login)

	// Protected routes
	expenses := router.Group("/expenses")
	expenses.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	expenses.GET("", expenseHandler.GetExpenses)
	expenses.POST("", expenseHandler.AddExpense)
	expenses.DELETE("", expenseHandler.DeleteAllExpenses)
	expenses.DELETE("/:expenseId", expenseHandler.DeleteExpense)
	expenses.GET("/summary", reportHandler.GetSummary)
	expenses.GET("/summary/monthly", reportHandler.GetMonthlySummary)
	expenses.GET("/export", reportHandler.ExportMonth)

	return router
}
