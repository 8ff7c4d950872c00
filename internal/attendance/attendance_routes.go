package attendance

import (
	"go-biotime/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rdb *redis.Client, jwtSecret string) {
	attendances := r.Group("/attendances")
	attendances.Use(middleware.AuthMiddleware(jwtSecret))
	{
		attendances.GET("", h.List)
		attendances.GET("/today", h.Today)
		attendances.POST("/check-in",
			middleware.RateLimitByEmployee(rate.Limit(1), 5),
			middleware.Idempotency(rdb),
			h.CheckIn,
		)
		attendances.POST("/check-out",
			middleware.RateLimitByEmployee(rate.Limit(1), 5),
			h.CheckOut,
		)
		attendances.POST("/override/:id",
			middleware.RoleMiddleware("SUPER_ADMIN", "HR_ADMIN"),
			h.Override,
		)
	}
}
