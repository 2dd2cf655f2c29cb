package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"studynotes/internal/auth"
	"studynotes/internal/config"
	"studynotes/internal/handler"
	"studynotes/internal/middleware"
	"studynotes/internal/ratelimit"
	"studynotes/internal/repository/postgres"
	postgresNotes "studynotes/internal/repository/postgres/notes"
	serviceNotes "studynotes/internal/service/notes"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	var logOutput io.Writer = os.Stdout
	if dir := os.Getenv("LOG_DIR"); dir != "" {
		logFile, err := config.SetupLogFile(dir, 10)
		if err != nil {
			log.Fatalf("Failed to set up log file: %v", err)
		}
		defer logFile.Close()
		logOutput = io.MultiWriter(os.Stdout, logFile)
	}

	logger := slog.New(slog.NewJSONHandler(logOutput, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	// Token verifier: JWKS endpoint when configured, shared secret otherwise.
	var (
		verifier auth.Verifier
		err      error
	)
	if cfg.AuthJWKSURL != "" {
		verifier, err = auth.NewJWKSVerifier(cfg.AuthJWKSURL, logger)
	} else {
		verifier, err = auth.NewHMACVerifier(cfg.AuthJWTSecret)
	}
	if err != nil {
		log.Fatalf("Failed to create token verifier: %v", err)
	}
	defer verifier.Close()

	// Create pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected")

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: postgres.NewTableNames(cfg.TablePrefix),
		Logger: logger,
	}
	userRepo := postgres.NewUserRepository(repoConfig)
	noteRepo := postgresNotes.NewNoteRepository(repoConfig)
	versionRepo := postgresNotes.NewVersionRepository(repoConfig)
	requestRepo := postgresNotes.NewDeletionRequestRepository(repoConfig)
	permRepo := postgresNotes.NewPermissionRepository(repoConfig)
	auditRepo := postgresNotes.NewAuditRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool, logger)

	// Create services
	auditTrail := serviceNotes.NewAuditTrail(auditRepo, logger)
	resolver := serviceNotes.NewPermissionResolver(permRepo, auditTrail, logger)
	versions := serviceNotes.NewVersionStore(versionRepo, logger)
	lifecycle := serviceNotes.NewDocumentLifecycle(noteRepo, versions, resolver, auditTrail, txManager, logger)
	workflow := serviceNotes.NewDeletionWorkflow(requestRepo, noteRepo, resolver, auditTrail, txManager, logger)

	// Create handlers
	noteHandler := handler.NewNoteHandler(lifecycle, versions, resolver, logger)
	deletionHandler := handler.NewDeletionHandler(workflow, logger)
	permissionHandler := handler.NewPermissionHandler(resolver, userRepo, logger)
	auditHandler := handler.NewAuditHandler(auditTrail, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", handler.HealthCheck)

	// Note routes
	mux.HandleFunc("POST /api/notes", noteHandler.CreateNote)
	mux.HandleFunc("GET /api/notes", noteHandler.ListMyNotes)
	mux.HandleFunc("GET /api/notes/{id}", noteHandler.GetNote)
	mux.HandleFunc("PATCH /api/notes/{id}", noteHandler.UpdateNote)
	mux.HandleFunc("POST /api/notes/{id}/publish", noteHandler.PublishNote)
	mux.HandleFunc("POST /api/notes/{id}/archive", noteHandler.ArchiveNote)
	mux.HandleFunc("POST /api/notes/{id}/like", noteHandler.LikeNote)
	mux.HandleFunc("POST /api/notes/{id}/dislike", noteHandler.DislikeNote)

	// Version history
	mux.HandleFunc("GET /api/notes/{id}/versions", noteHandler.ListVersions)
	mux.HandleFunc("GET /api/notes/{id}/versions/{number}", noteHandler.GetVersion)

	// Deletion workflow routes
	mux.HandleFunc("POST /api/notes/{id}/deletion-requests", deletionHandler.RequestDeletion)
	mux.HandleFunc("GET /api/deletion-requests", deletionHandler.ListRequests)
	mux.HandleFunc("GET /api/deletion-requests/pending", deletionHandler.ListPending)
	mux.HandleFunc("POST /api/deletion-requests/{id}/approve", deletionHandler.Approve)
	mux.HandleFunc("POST /api/deletion-requests/{id}/reject", deletionHandler.Reject)

	// Permission routes
	mux.HandleFunc("POST /api/permissions", permissionHandler.Grant)
	mux.HandleFunc("DELETE /api/permissions/{userId}", permissionHandler.Revoke)
	mux.HandleFunc("GET /api/permissions/me", permissionHandler.ListMine)
	mux.HandleFunc("GET /api/permissions/check", permissionHandler.Check)

	// Audit trail (read-only, admin)
	mux.HandleFunc("GET /api/audit", auditHandler.Query)

	// Build middleware chain
	var root http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → RequestMeta → Auth → RateLimit → Routes
	limiter := ratelimit.New(cfg.RateLimitRead, cfg.RateLimitWrite)
	root = middleware.RateLimit(limiter)(root)
	root = middleware.Auth(verifier, userRepo, logger)(root)
	root = middleware.RequestMeta()(root)
	root = middleware.Recovery(logger)(root)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.CorrelationHeader},
		AllowCredentials: true,
	})
	root = corsHandler.Handler(root)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
