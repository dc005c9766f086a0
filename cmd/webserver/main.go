package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"teleterm/internal/config"
	"teleterm/internal/domain"
	"teleterm/internal/handler"
	"teleterm/internal/middleware"
	"teleterm/internal/repository/postgres"
	"teleterm/internal/service"
	"teleterm/internal/tdlib"
	"teleterm/internal/tdlib/tdjson"

	"go.uber.org/zap"
)

func main() {
	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting teleterm web console")

	// Load configuration; engine credentials arrive over the socket
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	hub := handler.NewHub(logger)
	sess := newSession(cfg, hub, logger)
	h := handler.NewHandler(hub, sess, logger)

	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: middleware.RequestLogger(logger)(mux),
	}

	go func() {
		logger.Info("Web console listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan

	logger.Info("Shutdown signal received, stopping server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", zap.Error(err))
	}

	sess.Close()
	logger.Info("Server stopped gracefully")
}

// session wires the engine, login flow, listener and sender behind the
// web console's start/send surface. It implements handler.Session.
type session struct {
	cfg    *config.Config
	hub    *handler.Hub
	logger *zap.Logger

	mu      sync.Mutex
	started bool
	client  *tdlib.Client
	sender  *service.Sender
	stop    context.CancelFunc
}

func newSession(cfg *config.Config, hub *handler.Hub, logger *zap.Logger) *session {
	return &session{cfg: cfg, hub: hub, logger: logger}
}

// Start brings up the engine and runs the login flow, then launches the
// listener. Code and password prompts are answered on the server's
// terminal; the web console has no prompt channel.
func (s *session) Start(ctx context.Context, apiID int64, apiHash, phone string) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil
	}
	s.started = true
	s.mu.Unlock()

	engine := tdjson.New()
	client := tdlib.NewClient(engine, s.logger, s.cfg.QueueSize)
	client.Execute(domain.NewSetLogVerbosity(1))

	prompter := service.NewStdinPrompter(os.Stdin, os.Stdout)
	auth := service.NewAuthenticator(client, prompter, service.AuthConfig{
		Params: domain.SessionParams{
			APIID:             apiID,
			APIHash:           apiHash,
			DatabaseDirectory: s.cfg.DatabaseDirectory,
			FilesDirectory:    s.cfg.FilesDirectory,
		},
		PhoneNumber:   phone,
		EncryptionKey: s.cfg.EncryptionKey,
	}, s.logger)

	if err := auth.Run(ctx); err != nil {
		client.Close()
		s.mu.Lock()
		s.started = false
		s.mu.Unlock()
		return err
	}

	consumers := []service.MessageConsumer{s.hub}

	if s.cfg.ArchiveEnabled() {
		db, err := postgres.Connect(s.cfg.DSN(), s.logger)
		if err != nil {
			s.logger.Error("Message archive disabled", zap.Error(err))
		} else if err := postgres.Migrate(db, s.logger); err != nil {
			s.logger.Error("Message archive disabled", zap.Error(err))
			db.Close()
		} else {
			repo := postgres.NewMessageRepo(db)
			if history, err := repo.RecentMessages(100); err != nil {
				s.logger.Warn("Failed to load message history", zap.Error(err))
			} else {
				s.hub.Preload(history)
			}
			consumers = append(consumers, service.NewArchiveConsumer(repo, s.logger))
			s.logger.Info("Message archive enabled")
		}
	}

	resolver := service.NewResolver(client)
	listener := service.NewListener(client, resolver, s.logger, consumers...)
	sender := service.NewSender(client, listener, s.cfg.ResolveTimeout, s.logger)

	// The listener lives until Close cancels it; without that it would
	// block in Receive forever once the bridge stops.
	runCtx, cancel := context.WithCancel(context.Background())
	go func() {
		if err := listener.Run(runCtx); err != nil && runCtx.Err() == nil {
			s.logger.Error("Listener stopped", zap.Error(err))
		}
	}()

	s.mu.Lock()
	s.client = client
	s.sender = sender
	s.stop = cancel
	s.mu.Unlock()
	return nil
}

// Send submits a message through the active session.
func (s *session) Send(ctx context.Context, dest, text string) (int64, error) {
	s.mu.Lock()
	sender := s.sender
	s.mu.Unlock()
	if sender == nil {
		return 0, errors.New("client not authenticated")
	}
	return sender.Send(ctx, dest, text)
}

// Close stops the listener and shuts the engine bridge down if a session
// was started.
func (s *session) Close() {
	s.mu.Lock()
	client := s.client
	stop := s.stop
	s.mu.Unlock()
	if stop != nil {
		stop()
	}
	if client != nil {
		client.Close()
	}
}
