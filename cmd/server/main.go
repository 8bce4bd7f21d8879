package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	httpapi "github.com/docflow/docflow/internal/api/http"
	"github.com/docflow/docflow/internal/application/approval"
	"github.com/docflow/docflow/internal/application/audit"
	"github.com/docflow/docflow/internal/application/auth"
	"github.com/docflow/docflow/internal/application/dashboard"
	"github.com/docflow/docflow/internal/application/document"
	"github.com/docflow/docflow/internal/application/policy"
	"github.com/docflow/docflow/internal/application/workflow"
	"github.com/docflow/docflow/internal/config"
	"github.com/docflow/docflow/internal/infrastructure/postgres"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db error: %v", err)
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool, cfg.MigrationsDir); err != nil {
		log.Fatalf("migration error: %v", err)
	}

	// repositories
	userRepo := postgres.NewUserRepository(pool)
	sessionRepo := postgres.NewSessionRepository(pool)
	documentRepo := postgres.NewDocumentRepository(pool)
	documentTypeRepo := postgres.NewDocumentTypeRepository(pool)
	templateRepo := postgres.NewTemplateRepository(pool)
	approvalRepo := postgres.NewApprovalRepository(pool)
	policyRepo := postgres.NewPolicyRepository(pool)
	auditRepo := postgres.NewAuditRepository(pool)

	// services
	auditSvc := audit.NewService(auditRepo, logger)
	authSvc := auth.NewService(userRepo, sessionRepo, cfg.SessionTTL, logger)
	policySvc := policy.NewService(policyRepo, documentRepo, logger)
	approvalSvc := approval.NewService(templateRepo, approvalRepo, userRepo, logger)
	documentSvc := document.NewService(documentRepo, documentTypeRepo, policySvc, approvalSvc, auditSvc, logger)
	workflowSvc := workflow.NewService(approvalRepo, documentRepo, userRepo, auditSvc, logger, cfg.DelegationWindow)
	dashboardSvc := dashboard.NewService(documentRepo, approvalRepo, logger)

	// API server
	apiServer := httpapi.NewServer(documentSvc, workflowSvc, approvalSvc, dashboardSvc, auditSvc, authSvc, pool, cfg.SessionCookieName, cfg.SessionCookieSecure)

	httpServer := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      apiServer.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// background loops
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			_ = authSvc.PurgeExpired(context.Background())
		}
	}()

	// start server
	go func() {
		logger.Info().Str("addr", cfg.ServerAddr).Msg("http server started")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(ctxShutdown)
}
