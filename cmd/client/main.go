package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"teleterm/internal/config"
	"teleterm/internal/domain"
	"teleterm/internal/repository/postgres"
	"teleterm/internal/service"
	"teleterm/internal/tdlib"
	"teleterm/internal/tdlib/tdjson"

	flag "github.com/spf13/pflag"
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

	logger.Info("Starting teleterm client")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	// Flags override environment configuration
	flag.Int64Var(&cfg.APIID, "api-id", cfg.APIID, "Telegram API ID from https://my.telegram.org")
	flag.StringVar(&cfg.APIHash, "api-hash", cfg.APIHash, "Telegram API hash from https://my.telegram.org")
	flag.StringVar(&cfg.Phone, "phone", cfg.Phone, "Phone number in international format; prompted for if omitted")
	flag.StringVar(&cfg.DatabaseDirectory, "database-directory", cfg.DatabaseDirectory, "Directory for the engine's local database")
	flag.StringVar(&cfg.FilesDirectory, "files-directory", cfg.FilesDirectory, "Directory for downloaded files")
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	logger.Info("Configuration loaded successfully")

	// Initialize the engine and the transport bridge
	engine := tdjson.New()
	client := tdlib.NewClient(engine, logger, cfg.QueueSize)
	client.Execute(domain.NewSetLogVerbosity(1))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Run the login flow to completion before anything consumes updates
	prompter := service.NewStdinPrompter(os.Stdin, os.Stdout)
	auth := service.NewAuthenticator(client, prompter, service.AuthConfig{
		Params: domain.SessionParams{
			APIID:             cfg.APIID,
			APIHash:           cfg.APIHash,
			DatabaseDirectory: cfg.DatabaseDirectory,
			FilesDirectory:    cfg.FilesDirectory,
		},
		PhoneNumber:   cfg.Phone,
		EncryptionKey: cfg.EncryptionKey,
	}, logger)

	if err := auth.Run(ctx); err != nil {
		client.Close()
		logger.Fatal("Authorization failed", zap.Error(err))
	}

	fmt.Println("Authentication successful. You are now logged in.")

	// Assemble the message consumers
	consumers := []service.MessageConsumer{service.NewConsoleConsumer(os.Stdout)}

	logConsumer, err := service.NewLogFileConsumer(cfg.MessageLog, logger)
	if err != nil {
		logger.Warn("Message log disabled", zap.Error(err))
	} else {
		defer logConsumer.Close()
		consumers = append(consumers, logConsumer)
	}

	if cfg.ArchiveEnabled() {
		db, err := postgres.Connect(cfg.DSN(), logger)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()

		if err := postgres.Migrate(db, logger); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}

		consumers = append(consumers, service.NewArchiveConsumer(postgres.NewMessageRepo(db), logger))
		logger.Info("Message archive enabled")
	}

	// Start the listener and the interactive send loop
	resolver := service.NewResolver(client)
	listener := service.NewListener(client, resolver, logger, consumers...)
	sender := service.NewSender(client, listener, cfg.ResolveTimeout, logger)

	go func() {
		if err := listener.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Error("Listener stopped", zap.Error(err))
		}
	}()

	go func() {
		defer stop()
		runSendLoop(ctx, sender, prompter)
	}()

	<-ctx.Done()

	logger.Info("Shutdown signal received, stopping client...")
	client.Close()
	logger.Info("Client stopped gracefully")
}

// runSendLoop prompts for destinations and message bodies until the user
// exits or input ends.
func runSendLoop(ctx context.Context, sender *service.Sender, prompter service.Prompter) {
	fmt.Println("\nYou can now send messages. Type 'exit' to quit.")
	for ctx.Err() == nil {
		dest, err := prompter.Prompt("Enter chat ID or @username")
		if err != nil {
			return
		}
		if dest == "" {
			continue
		}
		switch strings.ToLower(dest) {
		case "exit", "quit", "q", ":q":
			return
		}

		text, err := prompter.Prompt("Enter your message")
		if err != nil {
			return
		}
		if text == "" {
			continue
		}

		if _, err := sender.Send(ctx, dest, text); err != nil {
			fmt.Printf("Send failed: %v\n", err)
			continue
		}
		fmt.Println("Message sent!")
	}
}
