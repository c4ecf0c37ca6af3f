package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cppquiz-service/internal/config"
	"cppquiz-service/internal/domain"
	"cppquiz-service/internal/infra/memory"
	pginfra "cppquiz-service/internal/infra/postgres"
	redisinfra "cppquiz-service/internal/infra/redis"
	"cppquiz-service/internal/quiz"
	transport "cppquiz-service/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
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

	var loader memory.QuestionLoader = memory.NewStaticQuestionLoader(
		memory.DefaultQuestions(), memory.DefaultBonusQuestions())
	if pool != nil {
		loader = pginfra.NewQuestionLoader(pool)
	}

	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	var bank quiz.QuestionBank
	if redisClient != nil {
		bank = redisinfra.NewQuestionBank(redisClient, loader, quizTTL)
	} else {
		bank = memory.NewQuestionBank(loader, quizTTL)
	}

	var roster quiz.StudentDirectory = memory.NewStudentDirectory(sampleRoster())
	if pool != nil {
		roster = pginfra.NewStudentDirectory(pool)
	}

	var results quiz.ResultStore = memory.NewResultStore()
	switch {
	case pool != nil:
		results = pginfra.NewResultStore(pool)
	case redisClient != nil:
		results = redisinfra.NewResultStore(redisClient)
	}

	var registry quiz.SessionRegistry = memory.NewSessionRegistry()
	if redisClient != nil {
		registry = redisinfra.NewSessionRegistry(redisClient, redisTTL)
	}

	service := quiz.NewService(bank, roster, results, registry, cfg.Settings())

	mux := http.NewServeMux()
	transport.Register(mux, service)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting cppquiz service on :%s", finalPort)
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

// sampleRoster provides a minimal class list for running without a database.
func sampleRoster() []domain.Student {
	return []domain.Student{
		{RegNumber: "RA2411003010001", Name: "Aarav Sharma"},
		{RegNumber: "RA2411003010002", Name: "Diya Patel"},
		{RegNumber: "RA2411003010003", Name: "Rohan Iyer"},
	}
}
