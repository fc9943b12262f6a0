package api

import (
	"net/http"

	"dailydiet/pkg/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// NewRouter creates and configures the Gin router.
func NewRouter(users *UserHandler, meals *MealHandler) *gin.Engine {
	r := gin.Default()

	// Middleware
	r.Use(middleware.CorrelationID())
	r.Use(middleware.Metrics())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// User routes
	u := r.Group("/users")
	u.POST("/register", users.Register)
	u.POST("/login", users.Login)
	u.GET("", middleware.SessionRequired(), users.ListUsers)

	// Meal routes
	m := r.Group("/meals", middleware.SessionRequired())
	m.GET("", meals.ListMeals)
	m.GET("/summary", meals.Summary)
	m.GET("/:id", meals.GetMeal)
	m.POST("", meals.CreateMeal)
	m.PUT("/:id", meals.UpdateMeal)
	m.DELETE("/:id", meals.DeleteMeal)

	return r
}
