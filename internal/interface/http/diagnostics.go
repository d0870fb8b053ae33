package http

import (
	"fmt"
	"net/http"

	"massage-booking-service/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// DiagnosticsHandler serves the connectivity check endpoint
type DiagnosticsHandler struct {
	cfg *config.Config
	db  *mongo.Database
}

// NewDiagnosticsHandler creates a new diagnostics handler
func NewDiagnosticsHandler(cfg *config.Config, db *mongo.Database) *DiagnosticsHandler {
	return &DiagnosticsHandler{cfg: cfg, db: db}
}

// Test reports backend and database availability, mirroring the shape the
// booking widget's status page expects
func (h *DiagnosticsHandler) Test(c *gin.Context) {
	response := gin.H{
		"backend":           "✅ Running",
		"database":          "❌ Not Available",
		"database_url":      "❌ Not Set",
		"database_name":     "❌ Not Set",
		"connection_status": "Not Connected",
		"collections":       []string{},
	}

	if h.cfg.DatabaseURL != "" {
		response["database_url"] = "✅ Set"
	}
	if h.cfg.DatabaseName != "" {
		response["database_name"] = "✅ Set"
	}

	if h.db != nil {
		response["database"] = "✅ Available"
		response["connection_status"] = "Connected"

		collections, err := h.db.ListCollectionNames(c.Request.Context(), bson.M{})
		if err != nil {
			response["database"] = fmt.Sprintf("⚠️  Connected but Error: %s", truncate(err.Error(), 50))
		} else {
			if len(collections) > 10 {
				collections = collections[:10]
			}
			response["collections"] = collections
			response["database"] = "✅ Connected & Working"
		}
	}

	c.JSON(http.StatusOK, response)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
