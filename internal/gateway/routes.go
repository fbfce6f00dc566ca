// Package gateway assembles the HTTP API in front of the gRPC services.
package gateway

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"sunatstock/internal/blob"
	"sunatstock/internal/gateway/handlers"
	"sunatstock/internal/gateway/middleware"
	"sunatstock/internal/rpc"
)

// HealthFunc reports backend states by service name.
type HealthFunc func(ctx context.Context) map[string]string

type RouterConfig struct {
	Inventory   rpc.InventoryService
	User        rpc.UserService
	Images      blob.Store
	Location    *time.Location
	Logger      zerolog.Logger
	RateLimit   string
	CORSOrigins []string
	Health      HealthFunc
}

func NewRouter(cfg RouterConfig) (*gin.Engine, error) {
	r := gin.New()

	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(gin.Recovery())
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.Metrics())

	if cfg.RateLimit != "" {
		limit, err := middleware.RateLimit(cfg.RateLimit)
		if err != nil {
			return nil, err
		}
		r.Use(limit)
	}

	userHandler := handlers.NewUserHTTPHandler(cfg.User)
	inventoryHandler := handlers.NewInventoryHTTPHandler(cfg.Inventory, cfg.Images, cfg.Location, cfg.Logger)

	// --- Public API Group ---
	public := r.Group("/api/v1")
	{
		auth := public.Group("/auth")
		{
			auth.POST("/login", userHandler.Login)
		}
	}

	// --- Protected API Group ---
	protected := r.Group("/api/v1")
	protected.Use(middleware.JWTAuth())
	{
		items := protected.Group("/items")
		{
			items.POST("", inventoryHandler.CreateMedicalItem)
			items.GET("", inventoryHandler.GetMedicalItems)
			items.GET("/low-stock", inventoryHandler.GetLowStockItems)
			items.GET("/:id", inventoryHandler.GetMedicalItem)
			items.PATCH("/:id", inventoryHandler.UpdateMedicalItem)
			items.POST("/:id/restock", inventoryHandler.RestockItem)
			items.GET("/:id/history", inventoryHandler.GetStockHistory)
			items.POST("/:id/image", inventoryHandler.UploadItemImage)
			items.GET("/:id/image", inventoryHandler.GetItemImage)
		}

		procedures := protected.Group("/procedures")
		{
			procedures.POST("", inventoryHandler.CreateProcedure)
			procedures.GET("", inventoryHandler.GetProcedures)
		}

		protected.GET("/dashboard", inventoryHandler.GetDashboardStats)
		protected.GET("/reports/usage", inventoryHandler.GetUsageReport)
	}

	r.GET("/health", healthCheckHandler(cfg.Health))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r, nil
}

func healthCheckHandler(health HealthFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := "healthy"
		httpStatus := http.StatusOK

		services := map[string]string{}
		if health != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			services = health(ctx)
		}

		unavailableServices := []string{}
		for name, state := range services {
			if state != "READY" {
				unavailableServices = append(unavailableServices, name)
			}
		}
		if len(unavailableServices) > 0 {
			status = "degraded"
			httpStatus = http.StatusServiceUnavailable
		}

		c.JSON(httpStatus, gin.H{
			"status":               status,
			"services":             services,
			"unavailable_services": unavailableServices,
			"timestamp":            time.Now(),
		})
	}
}
