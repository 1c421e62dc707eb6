package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"virtualevents/internal/delivery/http/controllers"
	"virtualevents/internal/delivery/http/middleware"
	"virtualevents/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes.
func NewRouter(
	authController *controllers.AuthController,
	eventController *controllers.EventController,
	attendeeController *controllers.AttendeeController,
	verifier domain.TokenVerifier,
) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier)

	// Users
	mux.HandleFunc("POST /users/register", authController.Register)
	mux.HandleFunc("POST /users/login", authController.Login)

	// Events
	mux.HandleFunc("GET /events", eventController.List)
	mux.HandleFunc("POST /events/create", auth(eventController.Create))
	mux.HandleFunc("GET /events/my-registrations", auth(attendeeController.ListMyRegistrations))
	mux.HandleFunc("GET /events/{eventID}", auth(eventController.Get))
	mux.HandleFunc("PUT /events/{eventID}", auth(eventController.Update))
	mux.HandleFunc("DELETE /events/{eventID}", auth(eventController.Delete))

	// Registrations
	mux.HandleFunc("POST /events/{eventID}/register", auth(attendeeController.RegisterForEvent))
	mux.HandleFunc("GET /events/{eventID}/attendees", auth(attendeeController.ListAttendees))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
