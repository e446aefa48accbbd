package integration

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	"college-exam-system/internal/app"
	"college-exam-system/internal/domain"
	"college-exam-system/internal/infra/memory"
	pgloader "college-exam-system/internal/infra/postgres"
	pgmigrations "college-exam-system/internal/infra/postgres/migrations"
	infraredis "college-exam-system/internal/infra/redis"
	"college-exam-system/internal/store"
	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"github.com/docker/go-connections/nat"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
)

func TestTakeExamFromPostgresEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL := startPostgres(t, ctx)
	redisClient := startRedis(t, ctx)

	migrateDB(t, ctx, pgURL)

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	loader := pgloader.NewExamLoader(pool)
	if err := loader.Insert(ctx, sampleExam()); err != nil {
		t.Fatalf("seed exam: %v", err)
	}
	all, err := loader.LoadAll(ctx)
	if err != nil || len(all) != 1 || len(all[0].Questions) != 3 {
		t.Fatalf("load all: %+v %v", all, err)
	}

	examRepo := infraredis.NewExamRepository(redisClient, loader, 5*time.Minute)
	sessions := infraredis.NewSessionStore(redisClient, 5*time.Minute)

	st := store.New()
	if err := st.AddAccount(domain.Account{ID: "S1", Name: "Alice", Username: "alice", Password: "pw", Role: domain.RoleStudent}); err != nil {
		t.Fatalf("seed student: %v", err)
	}
	service := app.NewExamService(sessions, examRepo, st)

	attempt, err := service.Start(ctx, "S1", "GEO")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := service.Advance(ctx, attempt.ID, "paris"); err != nil {
		t.Fatalf("advance: %v", err)
	}
	if _, err := service.Advance(ctx, attempt.ID, "4"); err != nil {
		t.Fatalf("advance: %v", err)
	}
	done, err := service.Submit(ctx, attempt.ID, "red")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if done.Score != 2 {
		t.Fatalf("expected score 2, got %d", done.Score)
	}
	if rec, err := st.Score("S1", "GEO"); err != nil || rec.Score != 2 {
		t.Fatalf("expected recorded score, got %+v %v", rec, err)
	}
}

func TestPostgresLoaderMissingExam(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL := startPostgres(t, ctx)
	migrateDB(t, ctx, pgURL)

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	repo := memory.NewExamRepository(pgloader.NewExamLoader(pool), time.Minute)
	if _, err := repo.GetExam(ctx, "ART"); err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not found, got %v", err)
	}
}

// startContainer runs req and returns host:port for the given exposed port.
// The container is terminated when the test ends.
func startContainer(t *testing.T, ctx context.Context, req tc.ContainerRequest, exposed string) string {
	t.Helper()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start %s: %v", req.Image, err)
	}
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("%s host: %v", req.Image, err)
	}
	port, err := container.MappedPort(ctx, nat.Port(exposed))
	if err != nil {
		t.Fatalf("%s port: %v", req.Image, err)
	}
	return host + ":" + port.Port()
}

func startPostgres(t *testing.T, ctx context.Context) string {
	addr := startContainer(t, ctx, tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "exams", "POSTGRES_PASSWORD": "examspass", "POSTGRES_DB": "examsdb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForLog("database system is ready to accept connections").WithOccurrence(2).WithStartupTimeout(60 * time.Second),
	}, "5432/tcp")
	return fmt.Sprintf("postgres://exams:examspass@%s/examsdb?sslmode=disable", addr)
}

func startRedis(t *testing.T, ctx context.Context) *goredis.Client {
	addr := startContainer(t, ctx, tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}, "6379/tcp")
	client := goredis.NewClient(&goredis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func migrateDB(t *testing.T, ctx context.Context, dsn string) {
	t.Helper()
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
}

func sampleExam() domain.Exam {
	return domain.Exam{
		SubjectID:  "GEO",
		LecturerID: "L1",
		Duration:   30,
		Questions:  []string{"Capital of France?", "2+2?", "Sky colour?"},
		Answers:    []string{"Paris", "4", "Blue"},
	}
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
