package mockapi // package mockapi defines how HTTP routes are registered for the mock hotel API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing
)

// RegisterRoutes registers every endpoint the guest client consumes on
// the provided Echo instance. Browse endpoints are public; order and
// booking writes require a valid access token signed with jwtSecret.
func RegisterRoutes(e *echo.Echo, a *AuthHandler, g *GuestHandler, jwtSecret string) {
	// Health check for load balancers and the client's connectivity probe.
	e.GET("/healthz", Health)

	// Unauthenticated operations: registration and login.
	e.POST("/api/users", a.Register)
	e.POST("/api/auth/login", a.Login)

	// Public browse endpoints. Auth is optional here: the client sends
	// its bearer token when it has one, but these handlers never need it.
	e.GET("/api/rooms", g.GetRooms)
	e.GET("/api/tables", g.GetTables)
	e.GET("/api/menu", g.GetMenu)
	e.GET("/api/bookings", g.GetBookings)
	e.GET("/api/orders", g.GetOrders)

	// Protected writes. All handlers registered on this group execute
	// the JWTAuth middleware before being invoked.
	auth := e.Group("/api")
	auth.Use(JWTAuth(jwtSecret))
	auth.POST("/orders", g.CreateOrder)
	auth.PUT("/orders/:id", g.UpdateOrder)
	auth.POST("/bookings", g.CreateBooking)
}
