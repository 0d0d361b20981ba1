// Package router wires the HTTP surface: public catalog reads, auth
// endpoints and the protected reservation routes, all under /api/v1.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/parintorn/table-reservation/internal/handler"
	"github.com/parintorn/table-reservation/internal/middleware"
)

// Register mounts every route. cacheMW wraps only the public catalog reads;
// protected routes carry JWTAuth and, for catalog mutations, the admin gate.
func Register(e *echo.Echo, auth *handler.AuthHandler, restaurants *handler.RestaurantHandler,
	reservations *handler.ReservationHandler, jwtSecret string, cacheMW echo.MiddlewareFunc) {

	e.GET("/healthz", handler.Health)

	jwtMW := middleware.JWTAuth(jwtSecret)
	adminMW := middleware.RequireAdmin()

	api := e.Group("/api/v1")

	// Public
	api.POST("/auth/register", auth.Register)
	api.POST("/auth/login", auth.Login)
	api.GET("/restaurants", restaurants.List, cacheMW)
	api.GET("/restaurants/:id", restaurants.Get, cacheMW)

	// Protected
	api.GET("/auth/me", auth.Me, jwtMW)
	api.GET("/auth/logout", auth.Logout, jwtMW)

	api.GET("/reservations", reservations.List, jwtMW)
	api.GET("/reservations/:id", reservations.Get, jwtMW)
	api.PUT("/reservations/:id", reservations.Update, jwtMW)
	api.DELETE("/reservations/:id", reservations.Delete, jwtMW)
	api.GET("/restaurants/:id/reservations", reservations.List, jwtMW)
	api.POST("/restaurants/:id/reservations", reservations.Create, jwtMW)

	// Admin-only catalog mutations
	api.POST("/restaurants", restaurants.Create, jwtMW, adminMW)
	api.PUT("/restaurants/:id", restaurants.Update, jwtMW, adminMW)
	api.DELETE("/restaurants/:id", restaurants.Delete, jwtMW, adminMW)
}
