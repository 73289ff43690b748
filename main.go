package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lingobazaar/lingobazaar-api/config"
	"github.com/lingobazaar/lingobazaar-api/controllers"
	"github.com/lingobazaar/lingobazaar-api/middleware"
	"github.com/lingobazaar/lingobazaar-api/models"
	"github.com/lingobazaar/lingobazaar-api/services"
	"gorm.io/gorm"
)

func main() {
	// Basic logging
	log.Println("Starting LingoBazaar API server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := config.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate database models
	if err := db.AutoMigrate(&models.Profile{}, &models.Order{}, &models.OrderItem{}, &models.Message{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	translator := services.NewGoogleTranslateService(cfg)
	router := setupRouter(cfg, db, translator)

	// Start server
	port := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupRouter builds the Gin engine with all routes and middleware wired.
// Shared with the integration tests.
func setupRouter(cfg *config.Config, db *gorm.DB, translator services.Translator) *gin.Engine {
	router := gin.Default()
	router.Use(cors.Default())

	// Health check endpoint
	router.GET("/health", healthCheck)

	// Database status endpoint
	router.GET("/database/status", databaseStatus(db))

	messageController := controllers.NewMessageController(db, translator)
	orderController := controllers.NewOrderController(db)
	profileController := controllers.NewProfileController(db)

	// All API endpoints require a valid bearer token
	authorized := router.Group("/", middleware.EnsureValidToken(cfg.JWTSecret))
	{
		authorized.POST("/messages/send", messageController.SendMessage)
		authorized.GET("/messages/:conversation_id", messageController.ListMessages)
		authorized.GET("/orders/:user_id", orderController.ListOrders)
		authorized.POST("/orders/:order_id/status", orderController.UpdateOrderStatus)
		authorized.GET("/profiles/me", profileController.GetMyProfile)
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "LingoBazaar API is running",
	})
}

// databaseStatus checks database connectivity
func databaseStatus(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get the underlying SQL database to check connection
		sqlDB, err := db.DB()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to get database instance",
				},
			})
			return
		}

		// Ping the database to verify connection
		if err := sqlDB.Ping(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_CONNECTION_ERROR",
					"message": "Database connection failed",
				},
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Database connected",
		})
	}
}
