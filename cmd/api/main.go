package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/bryanwahyu/shellcheck-gate/internal/application"
	appai "github.com/bryanwahyu/shellcheck-gate/internal/application/ai"
	appchecks "github.com/bryanwahyu/shellcheck-gate/internal/application/checks"
	"github.com/bryanwahyu/shellcheck-gate/internal/config"
	"github.com/bryanwahyu/shellcheck-gate/internal/domain/analyst"
	"github.com/bryanwahyu/shellcheck-gate/internal/domain/checkerrors"
	domain "github.com/bryanwahyu/shellcheck-gate/internal/domain/checks"
	openaiClient "github.com/bryanwahyu/shellcheck-gate/internal/infra/ai/openai"
	"github.com/bryanwahyu/shellcheck-gate/internal/infra/ai/prompt"
	mysqlp "github.com/bryanwahyu/shellcheck-gate/internal/infra/db/mysql"
	postgresp "github.com/bryanwahyu/shellcheck-gate/internal/infra/db/postgres"
	"github.com/bryanwahyu/shellcheck-gate/internal/infra/httpserver"
	"github.com/bryanwahyu/shellcheck-gate/internal/infra/shellcheck"
	minioStore "github.com/bryanwahyu/shellcheck-gate/internal/infra/storage"
	"github.com/bryanwahyu/shellcheck-gate/internal/middleware"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	// load config
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	ctx := context.Background()

	// connect database (mysql or postgres)
	var (
		db          *sql.DB
		repo        domain.Repository
		errRepo     checkerrors.Repository
		analystRepo analyst.Repository
	)
	switch cfg.Database.Driver {
	case "postgres":
		pg, err := postgresp.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			log.Fatalf("postgres connect error: %v", err)
		}
		db = pg
		repo = postgresp.NewCheckRepository(pg)
		errRepo = postgresp.NewCheckErrorRepository(pg)
		analystRepo = postgresp.NewAnalystRepository(pg)
	default:
		my, err := mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			log.Fatalf("mysql connect error: %v", err)
		}
		db = my
		repo = mysqlp.NewCheckRepository(my)
		errRepo = mysqlp.NewCheckErrorRepository(my)
		analystRepo = mysqlp.NewAnalystRepository(my)
	}
	defer db.Close()

	// init minio
	store, err := minioStore.New(ctx,
		cfg.Minio.Endpoint,
		cfg.Minio.Region,
		cfg.Minio.BucketName,
		cfg.Minio.AccessKey,
		cfg.Minio.SecretKey,
		cfg.Minio.UseSSL,
	)
	if err != nil {
		log.Fatalf("minio init error: %v", err)
	}

	// init engine
	engine := shellcheck.NewEngine(nil)

	// init service
	svc := &appchecks.Service{
		Repo:      repo,
		Runner:    engine,
		Artifacts: store,
		Errors:    errRepo,
		Clock:     application.SystemClock{},
		Defaults:  cfg.TaskDefaults(),
	}

	// AI analysis falls back to the rule-based analyzer when no key is set
	var aiSvc *appai.Service
	if cfg.AI.APIKey != "" {
		aiSvc = appai.NewService(openaiClient.NewClient(cfg.AI.APIKey, cfg.AI.Model), analystRepo)
	} else {
		aiSvc = appai.NewService(prompt.NewOfflineAnalyzer(), analystRepo)
	}

	// init router
	mux := chi.NewRouter()
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-API-Key"},
		MaxAge:         300,
	}))
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.MetricsMiddleware)
	mux.Use(middleware.RateLimitMiddleware(30, 1))
	mux.Use(middleware.APIKeyAuth(cfg.Auth.APIKeys))

	checkers := map[string]middleware.HealthChecker{
		"database": &middleware.DatabaseHealthChecker{DB: db},
	}
	if cfg.Checks.UseDocker {
		checkers["docker"] = middleware.DockerHealthChecker{}
	}
	mux.Mount("/", httpserver.NewRouter(svc, aiSvc, checkers))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		log.Printf("server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
