package server

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"allo/internal/config"
	"allo/internal/database"
	"allo/internal/repositories"
	"allo/internal/services"
)

type Server struct {
	cfg         *config.Config
	httpServer  *http.Server
	db          database.Service
	authService services.AuthService
	chatService services.ChatService
	llmService  services.LLMService
}

func NewServer() *Server {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	db := database.New(cfg)

	userRepo := repositories.NewUserRepository(db)
	chatRepo := repositories.NewChatRepository(db)
	messageRepo := repositories.NewMessageRepository(db)

	passcodes := services.NewPasscodeStore(time.Duration(cfg.OTPExpireMinutes) * time.Minute)
	emailService := services.NewEmailService(cfg)

	s := &Server{
		cfg:         cfg,
		db:          db,
		authService: services.NewAuthService(userRepo, passcodes, emailService, cfg),
		chatService: services.NewChatService(chatRepo, messageRepo),
		llmService:  services.NewLLMService(cfg),
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return s
}

func (s *Server) Start() error {
	log.Info().Int("port", s.cfg.Port).Msg("Starting server")
	return s.httpServer.ListenAndServe()
}

func (s *Server) GracefulShutdown(done chan bool) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	log.Info().Msg("Shutting down gracefully, press Ctrl+C again to force")
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown with error")
	}
	if err := s.db.Close(ctx); err != nil {
		log.Error().Err(err).Msg("Error closing database connection")
	}

	log.Info().Msg("Server exiting")
	done <- true
}
