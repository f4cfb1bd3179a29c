package v1

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/clinicdesk/clinicdesk/internal/config"
	"github.com/clinicdesk/clinicdesk/internal/domain"
	"github.com/clinicdesk/clinicdesk/pkg/auth"
	"github.com/clinicdesk/clinicdesk/pkg/metrics"
)

type Handlers struct {
	Auth          *AuthHandler
	Users         *UserHandler
	Appointments  *AppointmentHandler
	Prescriptions *PrescriptionHandler
}

// NewRouter assembles the full HTTP surface.
func NewRouter(
	cfg *config.Config,
	log *zap.Logger,
	m *metrics.Collector,
	jwtManager *auth.JWTManager,
	h Handlers,
) *gin.Engine {
	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		gin.Recovery(),
		RequestID(),
		Observe(log, m),
		CORS(cfg.CORS),
		RateLimit(cfg.RateLimit),
	)

	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": cfg.App.Name,
			"version": cfg.App.Version,
		})
	})
	r.GET("/metrics", gin.WrapH(metrics.MetricsHandler()))

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	// Register accepts an optional bearer token: an authenticated admin may
	// create accounts of any role, anonymous callers only patient/doctor.
	authGroup.POST("/register", maybeAuthenticate(jwtManager), h.Auth.Register)
	authGroup.POST("/login", h.Auth.Login)
	authGroup.GET("/me", Authenticate(jwtManager), h.Auth.GetProfile)
	authGroup.PUT("/me", Authenticate(jwtManager), h.Auth.UpdateProfile)

	users := api.Group("/users", Authenticate(jwtManager), RequireRoles(domain.RoleAdmin))
	users.GET("", h.Users.List)
	users.GET("/:id", h.Users.Get)
	users.PUT("/:id", h.Users.Update)
	users.DELETE("/:id", h.Users.Delete)

	lookup := api.Group("/lookup", Authenticate(jwtManager))
	lookup.GET("/doctors", h.Users.ListDoctors)

	appts := api.Group("/appointments", Authenticate(jwtManager))
	appts.POST("", h.Appointments.Create)
	appts.GET("", h.Appointments.List)
	appts.PATCH("/:id/status", RequireRoles(domain.RoleDoctor, domain.RoleAdmin), h.Appointments.UpdateStatus)
	appts.GET("/analytics/summary", RequireRoles(domain.RoleAdmin), h.Appointments.AnalyticsSummary)

	prescriptions := api.Group("/prescriptions", Authenticate(jwtManager))
	prescriptions.GET("", h.Prescriptions.List)
	prescriptions.GET("/:id", h.Prescriptions.Get)
	prescriptions.POST("", RequireRoles(domain.RoleDoctor, domain.RoleAdmin), h.Prescriptions.Create)

	return r
}

// maybeAuthenticate resolves claims when a bearer token is present but lets
// anonymous requests through untouched.
func maybeAuthenticate(jwtManager *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if strings.HasPrefix(header, "Bearer ") {
			if claims, err := jwtManager.ValidateAccessToken(strings.TrimPrefix(header, "Bearer ")); err == nil {
				c.Set(claimsKey, claims)
			}
		}
		c.Next()
	}
}
