package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/webpv/webpv-backend/internal/config"
	"github.com/webpv/webpv-backend/internal/handler"
	"github.com/webpv/webpv-backend/internal/middleware"
	"github.com/webpv/webpv-backend/internal/model"
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check, used
// by load balancers and monitoring to verify the service is up.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies the
// necessary middleware.  Unauthenticated operations live under /v1/auth,
// protected endpoints live under /v1.  The login route additionally runs
// the per-IP token bucket so one source cannot hammer the credential store;
// rdb may be nil, in which case the bucket is a pass-through.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, rlCfg config.RateLimitConfig, rdb *redis.Client) {
	g := e.Group("/v1/auth")
	// Login is the only endpoint that burns bcrypt time per call, so the
	// edge bucket guards it specifically.
	g.POST("/login", a.Login, middleware.NewTokenBucket(rlCfg, rdb))
	// Refresh does not rotate the refresh token; the same token can be
	// exchanged for new access tokens until it expires or is revoked.
	g.POST("/refresh", a.Refresh)
	// Logout revokes the refresh token presented in the body.  No JWT is
	// required: a refresh token is sufficient proof to end its own session.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole(model.RoleAdvisor, model.RoleSupervisor, model.RoleAdmin))
	auth.GET("/me", a.Me)
}

// RegisterRoutePlan registers the route plan endpoint.  It is protected by
// the same JWT and role middleware as the rest of /v1 and additionally
// wrapped in the Redis response cache, keyed by route code and date.
func RegisterRoutePlan(e *echo.Echo, r *handler.RouteHandler, jwtSecret string, cacheCfg config.CacheConfig, rdb *redis.Client) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleAdvisor, model.RoleSupervisor, model.RoleAdmin))
	g.GET("/route-plan", r.GetPlan, middleware.NewPlanCache(cacheCfg, rdb))
}
