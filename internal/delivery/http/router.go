package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"campusevents/internal/delivery/http/controllers"
	"campusevents/internal/delivery/http/middleware"
	"campusevents/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes
func NewRouter(
	verifier domain.TokenVerifier,
	authController *controllers.AuthController,
	eventController *controllers.EventController,
	registrationController *controllers.RegistrationController,
) *http.ServeMux {
	mux := http.NewServeMux()

	auth := middleware.RequireAuth(verifier)
	organizer := middleware.RequireRole(domain.RoleClub, domain.RoleTNP, domain.RoleAdmin)

	// Auth
	mux.HandleFunc("POST /auth/register", authController.SignUp)
	mux.HandleFunc("POST /auth/login", authController.Login)
	mux.HandleFunc("PUT /auth/profile", auth(authController.UpdateProfile))
	mux.HandleFunc("POST /auth/send-otp", auth(authController.SendOTP))
	mux.HandleFunc("POST /auth/verify-otp", auth(authController.VerifyOTP))

	// Events
	mux.HandleFunc("POST /events", auth(organizer(eventController.Create)))
	mux.HandleFunc("GET /events", eventController.List)
	mux.HandleFunc("GET /events/{eventID}", eventController.GetByID)
	mux.HandleFunc("DELETE /events/{eventID}", auth(eventController.Delete))
	mux.HandleFunc("PUT /events/{eventID}/winners", auth(eventController.SetWinners))

	// Registrations
	mux.HandleFunc("POST /registrations", auth(registrationController.Register))
	mux.HandleFunc("PATCH /registrations/{registrationID}/cancel", auth(registrationController.Cancel))
	mux.HandleFunc("GET /registrations/my-registrations", auth(registrationController.ListMine))
	mux.HandleFunc("GET /registrations/event/{eventID}", auth(registrationController.ListForEvent))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
