// Package router wires handlers and middleware onto the Echo instance.
package router

import (
    "github.com/labstack/echo/v4"

    "github.com/nexis-travel/bookit-server/internal/handler"
    "github.com/nexis-travel/bookit-server/internal/middleware"
    "github.com/nexis-travel/bookit-server/internal/model"
)

// RegisterRoutes registers routes that carry no authentication at all.
// Currently only the health check used by load balancers.
func RegisterRoutes(e *echo.Echo) {
    e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the session endpoints under /v1/auth plus the
// protected /v1/me identity echo.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
    g := e.Group("/v1/auth")
    g.POST("/register", a.Register)
    g.POST("/login", a.Login)
    g.POST("/refresh", a.Refresh)
    g.POST("/logout", a.Logout)

    auth := e.Group("/v1",
        middleware.JWTAuth(jwtSecret),
        middleware.RequireRole(model.RoleOperator, model.RoleCustomer),
    )
    auth.GET("/me", a.Me)
    auth.POST("/auth/logout-all", a.LogoutAll)
}

// RegisterPublic registers the unauthenticated catalog endpoints.  The
// cache middleware is passed in so main can disable it when Redis is
// absent.
func RegisterPublic(e *echo.Echo, b *handler.BrowseHandler, cache echo.MiddlewareFunc) {
    e.GET("/v1/experiences", b.ListExperiences, cache)
    e.GET("/v1/experiences/:id", b.GetExperience, cache)
}
