package biometric

import (
	"go-biotime/internal/middleware"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, jwtSecret string) {
	biometrics := r.Group("/biometrics")
	biometrics.Use(middleware.AuthMiddleware(jwtSecret))
	{
		biometrics.POST("/verify/:modality",
			middleware.RateLimitByIP(rate.Limit(5), 20),
			middleware.RateLimitByEmployee(rate.Limit(1), 5),
			h.Verify,
		)

		admin := biometrics.Group("")
		admin.Use(middleware.RoleMiddleware("SUPER_ADMIN", "HR_ADMIN"))
		{
			admin.POST("/enroll/:modality", h.Enroll)
			admin.GET("/employees/:employee_id/templates", h.ListTemplates)
			admin.POST("/templates/:id/deactivate", h.Deactivate)
			admin.DELETE("/templates/:id", h.Delete)
		}
	}
}
