package cli

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"college-exam-system/internal/app"
	"college-exam-system/internal/config"
	"college-exam-system/internal/infra/memory"
	pgloader "college-exam-system/internal/infra/postgres"
	infraredis "college-exam-system/internal/infra/redis"
	transport "college-exam-system/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the exam server.
func NewStartCmd(port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Serve exam attempts over websocket until interrupted, then save",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *port)
		},
	}
}

func runServer(ctx context.Context, portFlag string) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	cfg := ws.cfg

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
		defer redisClient.Close()
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 2*time.Hour)

	var loader memory.ExamLoader = memory.NewStoreExamLoader(ws.store)
	cacheTTL := time.Duration(0)
	if cfg.Exams.Source == "postgres" {
		if cfg.Postgres.URL == "" {
			return errors.New("exams.source is postgres but postgres.url is not configured")
		}
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
		loader = pgloader.NewExamLoader(pool)
		cacheTTL = config.TTLDuration(cfg.Exams.CacheTTL, 10*time.Minute)
	}

	var exams app.ExamRepository
	if redisClient != nil && cacheTTL > 0 {
		exams = infraredis.NewExamRepository(redisClient, loader, cacheTTL)
	} else {
		exams = memory.NewExamRepository(loader, cacheTTL)
	}

	var sessions app.SessionRepository
	if redisClient != nil {
		sessions = infraredis.NewSessionStore(redisClient, redisTTL)
	} else {
		sessions = memory.NewSessionStore()
	}
	service := app.NewExamService(sessions, exams, ws.store)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      transport.NewRouter(service, ws.store),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting exam service on :%s (data in %s)", finalPort, ws.repo.Dir())
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
	shutdownErr := server.Shutdown(shutdownCtx)

	if err := ws.save(); err != nil {
		return err
	}
	log.Println("data saved on exit")
	return shutdownErr
}
