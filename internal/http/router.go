package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/redmonkez12/jeogi-market/internal/auth"
	"github.com/redmonkez12/jeogi-market/internal/config"
	"github.com/redmonkez12/jeogi-market/internal/httputil"
	"github.com/redmonkez12/jeogi-market/internal/logging"
	"github.com/redmonkez12/jeogi-market/internal/media"
	"github.com/redmonkez12/jeogi-market/internal/product"
	"github.com/redmonkez12/jeogi-market/internal/signup"
)

// Handlers groups the feature handlers mounted by the router
type Handlers struct {
	Auth    *auth.Handler
	Signup  *signup.Handler
	Product *product.Handler
	Media   *media.Handler
}

// NewRouter creates and configures the HTTP router
func NewRouter(cfg *config.Config, h Handlers, authMiddleware *auth.Middleware, logger *logging.Logger) *chi.Mux {
	r := chi.NewRouter()

	// CORS - must be first
	r.Use(FallbackOrigin(cfg.Server.TrustedOrigins))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.TrustedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", auth.TrustedCallerHeader},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))
	r.Use(OptionsOK)

	// Global middleware
	r.Use(SecurityHeaders)               // Security headers on all responses
	r.Use(middleware.RequestID)          // Add request ID
	r.Use(middleware.RealIP)             // Set RemoteAddr to real IP
	r.Use(logging.RequestLogger(logger)) // Structured logging with request context
	r.Use(Recover)                       // Panics become the 500 envelope
	r.Use(middleware.Compress(5))        // Compress responses

	r.NotFound(handleNotFound)
	r.MethodNotAllowed(handleMethodNotAllowed)

	// Public routes
	r.Get("/health", handleHealth)

	// Swagger UI - only in development
	if cfg.Server.IsDevelopment() {
		logger.Info("Swagger UI enabled at /swagger/*")
		r.Get("/swagger/*", httpSwagger.WrapHandler)
	}

	r.Route("/api", func(r chi.Router) {
		// Signup handshake (public)
		r.Post("/send-link", h.Signup.SendLink)
		r.Get("/verify", h.Signup.Verify)
		r.Get("/check-email", h.Signup.CheckEmail)
		r.Get("/check-nickname", h.Signup.CheckNickname)

		// Token issuance
		r.Post("/login", h.Auth.Login)
		if cfg.Auth.TrustedCallerKey != "" || cfg.Server.IsDevelopment() {
			r.Post("/login-token", h.Auth.IssueToken)
		} else {
			logger.Warn("login-token disabled: TRUSTED_CALLER_KEY is not set")
		}

		// Product reads (public)
		r.Get("/products", h.Product.List)
		r.Get("/update-product", h.Product.Get)

		// Protected routes (require authentication)
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.RequireAuth)

			r.Get("/my-products", h.Product.ListMine)
			r.Post("/register-product", h.Product.Create)
			r.Post("/update-product", h.Product.Update)
			r.Post("/delete-product", h.Product.Delete)
			r.Post("/update-product-status", h.Product.ChangeStatus)

			r.Post("/upload-base64-images", h.Media.UploadBase64)
			r.Post("/upload-product-images", h.Media.UploadFiles)
		})
	})

	return r
}

// handleHealth is a simple health check endpoint
// @Summary      Health check
// @Description  Check if the API is running
// @Tags         health
// @Produce      json
// @Success      200 {object} map[string]string
// @Router       /health [get]
func handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, map[string]string{"status": "api is running"}, http.StatusOK)
}

func handleNotFound(w http.ResponseWriter, r *http.Request) {
	httputil.RespondErrorWithCode(w, "route not found", httputil.CodeRouteNotFound, http.StatusNotFound)
}

func handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	httputil.RespondErrorWithCode(w, "method not allowed", httputil.CodeMethodNotAllowed, http.StatusMethodNotAllowed)
}
