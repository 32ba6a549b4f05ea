package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"trivia-service/internal/app"
	"trivia-service/internal/config"
	"trivia-service/internal/domain"
	fileloader "trivia-service/internal/infra/file"
	"trivia-service/internal/infra/memory"
	pgloader "trivia-service/internal/infra/postgres"
	redisinfra "trivia-service/internal/infra/redis"
	transport "trivia-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the trivia server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	var loader memory.BankLoader = memory.NewStaticBankLoader(sampleBanks())
	if cfg.Questions.Dir != "" {
		loader = fileloader.NewBankReader(cfg.Questions.Dir)
	}
	if pool != nil {
		loader = pgloader.NewBankLoader(pool)
	}

	bankTTL := config.TTLDuration(cfg.Questions.TTL, 10*time.Minute)
	var banks app.BankRepository
	if redisClient != nil {
		banks = redisinfra.NewBankRepository(redisClient, loader, bankTTL)
	} else {
		banks = memory.NewBankRepository(loader, bankTTL)
	}

	sessionCfg := app.SessionConfig{
		QuestionTime: config.TTLDuration(cfg.Game.QuestionTime, 30*time.Second),
		RevealDelay:  config.TTLDuration(cfg.Game.RevealDelay, 5*time.Second),
		Scoring:      app.ParseScoringPolicy(cfg.Game.Scoring),
	}

	var registry app.SessionRegistry
	if redisClient != nil {
		registry = redisinfra.NewSessionRegistry(redisClient, redisTTL, sessionCfg)
	} else {
		registry = memory.NewSessionRegistry(sessionCfg)
	}

	defaultBank := cfg.Questions.Default
	if defaultBank == "" {
		defaultBank = "questions_2021"
	}
	service := app.NewGameService(registry, banks, defaultBank)
	if err := service.EnsureDefaultGame(ctx); err != nil {
		return err
	}

	wsHandler := transport.NewWSHandler(service)
	adminHandler := transport.NewAdminHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	adminHandler.Register(mux)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting trivia service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// sampleBanks keeps the server usable with no question store configured;
// swap in a directory of bank files or Postgres for real content.
func sampleBanks() map[string]domain.QuestionBank {
	return map[string]domain.QuestionBank{
		"questions_2021": {
			ID: "questions_2021",
			Questions: []domain.Question{
				{
					Text:    "What is 2 + 2?",
					Options: []string{"3", "4", "5"},
					Correct: "4",
				},
				{
					Text:    "Which planet is known as the Red Planet?",
					Options: []string{"Venus", "Mars", "Jupiter"},
					Correct: "Mars",
				},
			},
		},
	}
}
