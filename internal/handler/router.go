/*
Package handler provides the HTTP handlers and routing setup for the marketplace API.

This file defines the main Router, applying necessary middleware like logging, CORS,
and IP-based rate limiting before delegating requests to specific handlers (API and WebSocket).
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"kwakhanya/internal/pkg/auth/jwt"
	"kwakhanya/internal/pkg/limiter"
	"kwakhanya/internal/pkg/logx"
	"kwakhanya/internal/pkg/resp"
)

const (
	BookingRate  = 0.05
	BookingBurst = 2
	AssistRate   = 0.2
	AssistBurst  = 5
)

// Router sets up the main HTTP routing table (chi.Router) for the application.
// It initializes IP-based rate limiters, configures CORS, and applies global and per-route middleware.
// It requires the AppDeps bundle for business logic and settings (like allowed origins).
func Router(deps *AppDeps) http.Handler {
	bookingLimiter := limiter.NewIPRateLimiter(rate.Limit(BookingRate), BookingBurst)
	assistLimiter := limiter.NewIPRateLimiter(rate.Limit(AssistRate), AssistBurst)

	r := chi.NewRouter()

	// The assistance widget is embedded on arbitrary visitor pages, so the
	// upgrade accepts any origin. Identity claims arrive in the first frame
	// and are trusted as-is.
	wsUpgrader := websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}

	corsAllowedOrigins := []string{}
	if deps.Config.Environment == "development" {
		corsAllowedOrigins = []string{"*"}
	} else if len(deps.Config.AllowedOrigins) > 0 {
		corsAllowedOrigins = deps.Config.AllowedOrigins
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   corsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{},
		AllowCredentials: true,
		MaxAge:           300,
	})
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		data := map[string]string{
			"status":  "ok",
			"service": "Kwakhanya API",
		}
		resp.RespondSuccess(w, r, data)
	})

	r.Route("/api", func(api chi.Router) {
		api.Use(jwt.IdentityExtractorMiddleware(deps.Config.JWTSecret))

		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/register", HandleRegister(deps))
			auth.Post("/login", HandleLogin(deps))
			auth.Post("/change-password", HandleChangePassword(deps))
		})

		api.Route("/user", func(user chi.Router) {
			user.Get("/profile", HandleGetUserProfile(deps))
			user.Post("/profile", HandleUpdateUserProfile(deps))
		})

		api.Route("/schools", func(schools chi.Router) {
			schools.Get("/search", HandleSearchSchools(deps))
			schools.Get("/manage", HandleManageSchool(deps))
			schools.Get("/{id}", HandleGetSchool(deps))
			schools.Post("/", HandleCreateSchool(deps))
		})

		api.Post("/services", HandleCreateService(deps))
		api.Post("/instructors", HandleCreateInstructor(deps))
		api.Post("/vehicles", HandleCreateVehicle(deps))

		api.Route("/bookings", func(bookings chi.Router) {
			rateLimitedCreate := bookingLimiter.Middleware(HandleCreateBooking(deps))
			bookings.Post("/", http.HandlerFunc(rateLimitedCreate.ServeHTTP))
			bookings.Get("/", HandleListBookings(deps))
			bookings.Get("/{id}/invoice", HandleGetInvoice(deps))
		})

		api.Get("/admin/stats", HandleAdminStats(deps))

		api.Post("/file/presign-upload", HandlePresignUploadURL(deps))
		api.Get("/file/presign-download", HandlePresignDownloadURL(deps))
	})

	r.Get("/ws/assistance", HandleAssistSocket(wsUpgrader, assistLimiter, deps))

	return r
}
