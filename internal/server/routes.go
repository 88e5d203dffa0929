package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"allo/internal/handlers"
	"allo/internal/middlewares"
)

func (s *Server) RegisterRoutes() http.Handler {
	r := mux.NewRouter()

	prom := middlewares.NewPrometheusMiddleware()
	r.Use(middlewares.CorsMiddleware(s.cfg.AllowedOrigins))
	r.Use(middlewares.RateLimit)
	r.Use(prom.Instrument)

	ch := handlers.NewCommonHandler(s.db)
	r.HandleFunc("/api/health", ch.HealthHandler).Methods("GET", "OPTIONS")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	s.registerAuthRoutes(r)
	s.registerChatRoutes(r)

	return r
}

func (s *Server) registerAuthRoutes(r *mux.Router) {
	ah := handlers.NewAuthHandler(s.authService)
	auth := middlewares.AuthMiddleware([]byte(s.cfg.JWTSecret))

	r.HandleFunc("/api/auth/register", ah.Register).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/auth/login", ah.Login).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/auth/send-otp", ah.SendOTP).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/auth/verify-otp", ah.VerifyOTP).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/auth/session", ah.ExchangeSession).Methods("POST", "OPTIONS")
	r.Handle("/api/auth/logout", auth(http.HandlerFunc(ah.Logout))).Methods("POST", "OPTIONS")
	r.Handle("/api/auth/me", auth(http.HandlerFunc(ah.Me))).Methods("GET", "OPTIONS")
}

func (s *Server) registerChatRoutes(r *mux.Router) {
	th := handlers.NewChatHandler(s.chatService)
	cph := handlers.NewCompletionHandler(s.llmService, s.chatService)
	auth := middlewares.AuthMiddleware([]byte(s.cfg.JWTSecret))
	optionalAuth := middlewares.OptionalAuthMiddleware([]byte(s.cfg.JWTSecret))

	r.Handle("/api/chats", auth(http.HandlerFunc(th.CreateChat))).Methods("POST", "OPTIONS")
	r.Handle("/api/chats", auth(http.HandlerFunc(th.GetChats))).Methods("GET", "OPTIONS")
	r.Handle("/api/chats/{chatId}", auth(http.HandlerFunc(th.GetChat))).Methods("GET", "OPTIONS")
	r.Handle("/api/chats/{chatId}", auth(http.HandlerFunc(th.DeleteChat))).Methods("DELETE", "OPTIONS")
	r.Handle("/api/chats/{chatId}/title", auth(http.HandlerFunc(th.UpdateChatTitle))).Methods("PUT", "OPTIONS")

	r.Handle("/api/chat", optionalAuth(http.HandlerFunc(cph.Chat))).Methods("POST", "OPTIONS")
}
