package http

import (
	"net/http"

	"massage-booking-service/internal/infrastructure/config"
	"massage-booking-service/internal/usecase"
	"massage-booking-service/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/mongo"
)

// NewRouter assembles the gin engine with all routes and middleware
func NewRouter(cfg *config.Config, log logger.Logger, service usecase.BookingUseCase, db *mongo.Database) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Massage Booking API"})
	})

	diagnostics := NewDiagnosticsHandler(cfg, db)
	router.GET("/test", diagnostics.Test)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	handler := NewBookingHandler(service, log)
	handler.Register(router)

	return router
}

// corsMiddleware allows cross-origin calls from the booking widget, which is
// served from a different origin than this API
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With")
		c.Header("Access-Control-Allow-Methods", "GET,POST,PATCH,PUT,DELETE,OPTIONS")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
