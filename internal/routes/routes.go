package routes

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"AMESAI_BACK-END/internal/config"
	"AMESAI_BACK-END/internal/handlers"
	"AMESAI_BACK-END/internal/middleware"
)

// SetupRoutes configures all application routes
func SetupRoutes(
	authHandler *handlers.AuthHandler,
	predictHandler *handlers.PredictHandler,
	historyHandler *handlers.HistoryHandler,
	healthHandler *handlers.HealthHandler,
	cfg *config.Config,
) {
	jwtCfg := &cfg.JWT

	// Health check routes
	http.HandleFunc("/healthz", healthHandler.HealthCheck)
	http.HandleFunc("/livez", healthHandler.LivenessCheck)
	http.HandleFunc("/readyz", healthHandler.ReadinessCheck)

	// Authentication routes
	http.HandleFunc("/api/auth/register", authHandler.Register)
	http.HandleFunc("/api/auth/login", authHandler.Login)
	http.HandleFunc("/api/auth/logout", middleware.AuthMiddleware(authHandler.Logout, jwtCfg))

	// Account routes
	http.HandleFunc("/api/account", middleware.AuthMiddleware(authHandler.Account, jwtCfg))

	// Prediction routes. /api/predict is deliberately open: it is stateless
	// and never touches stored data.
	http.HandleFunc("/api/predictions", middleware.AuthMiddleware(predictHandler.Predict, jwtCfg))
	http.HandleFunc("/api/predict", predictHandler.PredictAnonymous)

	// History routes
	http.HandleFunc("/api/history", middleware.AuthMiddleware(historyHandler.List, jwtCfg))
	http.HandleFunc("/api/history/", middleware.AuthMiddleware(historyHandler.Entry, jwtCfg))

	// API documentation
	http.Handle("/swagger/", httpSwagger.WrapHandler)

	// Root route
	http.HandleFunc("/", rootHandler)
}

func rootHandler(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("Ames Housing AI backend is running."))
}
