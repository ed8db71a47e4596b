package router

import (
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	mw "github.com/gocart-dev/gocart/internal/middleware"
	"github.com/gocart-dev/gocart/internal/middleware/metrics"
	rl "github.com/gocart-dev/gocart/internal/middleware/ratelimiter"
	"github.com/gocart-dev/gocart/internal/setup"
)

// New creates and configures a new mux router with all the routes.
// IMPORTANT! ratelimiters set with .Use limit request for all endpoints combined in that subrouter
func New(deps *setup.Dependencies) *mux.Router {
	r := mux.NewRouter()

	// Enable gzip compression for all responses
	r.Use(handlers.CompressHandler)

	r.Use(handlers.CORS(
		handlers.AllowedOrigins(deps.Config.Public.AllowedOrigins),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		handlers.AllowCredentials(),
	))

	r.Use(metrics.Middleware)

	// Add a wildcard OPTIONS handler to avoid 404s for preflight requests
	r.Methods("OPTIONS").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	h := deps.Handler
	authMw := deps.AuthMiddleware

	// Ops endpoints stay outside /v1
	r.HandleFunc("/health", h.Health).Methods("GET")
	r.HandleFunc("/ready", h.Ready).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	v1 := r.PathPrefix("/v1").Subrouter()

	// Registration and password reset requests send email or hit bcrypt;
	// keep them on tight per-IP budgets
	authSlow := v1.NewRoute().Subrouter()
	authSlow.Use(mw.RateLimit(rl.New(1.0/10, 2, 1*time.Hour), mw.GetIP))
	authSlow.Use(mw.RateLimit(rl.OnceInMinute(), mw.GetEmailFromBody))
	authSlow.Use(mw.GlobalRateLimit(rl.Rps100()))
	authSlow.HandleFunc("/register", h.Register).Methods("POST")
	authSlow.HandleFunc("/forgot-password", h.ForgotPassword).Methods("POST")

	// Login endpoint (separate rate limiting, keyed by form identity and IP)
	authLogin := v1.NewRoute().Subrouter()
	authLogin.Use(mw.RateLimit(rl.OnceInSecond(), mw.GetUsernameFromForm))
	authLogin.Use(mw.RateLimit(rl.New(5, 5, 1*time.Hour), mw.GetIP))
	authLogin.Use(mw.GlobalRateLimit(rl.Rps1000()))
	authLogin.HandleFunc("/login", h.Login).Methods("POST")

	// Token endpoints (no auth middleware: they carry their own tokens)
	v1.HandleFunc("/refresh-token", h.RefreshToken).Methods("POST")
	v1.HandleFunc("/reset-password", h.ResetPasswordForm).Methods("GET")
	v1.HandleFunc("/reset-password", h.ResetPassword).Methods("POST")

	// Admin routes
	admin := v1.NewRoute().Subrouter()
	admin.Use(authMw.AdminOnly())
	admin.HandleFunc("/registers", h.RegisterWithRole).Methods("POST")
	admin.HandleFunc("/get-all", h.GetAllUsers).Methods("GET")

	// Logged-in user routes
	loggedIn := v1.NewRoute().Subrouter()
	loggedIn.Use(authMw.NeedAuth())
	loggedIn.Use(mw.RateLimit(rl.Rps100(), mw.GetUserIDFromContext))

	loggedIn.HandleFunc("/me", h.Me).Methods("GET")
	loggedIn.HandleFunc("/change-password", h.ChangePassword).Methods("POST")
	loggedIn.HandleFunc("/logout", h.Logout).Methods("POST")

	loggedIn.HandleFunc("/categories", h.CreateCategory).Methods("POST")
	loggedIn.HandleFunc("/categories", h.GetCategories).Methods("GET")
	loggedIn.HandleFunc("/categories/paginated", h.GetCategoriesPaginated).Methods("GET")
	loggedIn.HandleFunc("/categories/{id}", h.GetCategory).Methods("GET")
	loggedIn.HandleFunc("/categories/{id}/nested", h.GetCategoryTree).Methods("GET")
	loggedIn.HandleFunc("/categories/{id}", h.UpdateCategory).Methods("PUT")
	loggedIn.HandleFunc("/categories/{id}", h.DeleteCategory).Methods("DELETE")

	loggedIn.HandleFunc("/products", h.CreateProduct).Methods("POST")
	loggedIn.HandleFunc("/products", h.GetProducts).Methods("GET")
	loggedIn.HandleFunc("/products/paginated", h.GetProductsPaginated).Methods("GET")
	loggedIn.HandleFunc("/products/{id}", h.GetProduct).Methods("GET")
	loggedIn.HandleFunc("/products/{id}", h.UpdateProduct).Methods("PUT")
	loggedIn.HandleFunc("/products/{id}", h.DeleteProduct).Methods("DELETE")

	return r
}
