package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	alertingapp "github.com/backoffice/backend/internal/application/alerting"
	billingapp "github.com/backoffice/backend/internal/application/billing"
	catalogapp "github.com/backoffice/backend/internal/application/catalog"
	identityapp "github.com/backoffice/backend/internal/application/identity"
	partnerapp "github.com/backoffice/backend/internal/application/partner"
	"github.com/backoffice/backend/internal/domain/alerting"
	"github.com/backoffice/backend/internal/infrastructure/auth"
	"github.com/backoffice/backend/internal/infrastructure/cache"
	"github.com/backoffice/backend/internal/infrastructure/config"
	"github.com/backoffice/backend/internal/infrastructure/logger"
	"github.com/backoffice/backend/internal/infrastructure/notification"
	"github.com/backoffice/backend/internal/infrastructure/persistence"
	"github.com/backoffice/backend/internal/infrastructure/storage"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// backendServices groups every application service the process exposes.
type backendServices struct {
	Customers       *partnerapp.CustomerService
	Providers       *partnerapp.ProviderService
	Categories      *catalogapp.CategoryService
	Services        *catalogapp.ServiceService
	ServiceStatuses *catalogapp.ServiceStatusService
	Areas           *catalogapp.AreaOfActivityService
	Budgets         *billingapp.BudgetService
	BudgetStatuses  *billingapp.BudgetStatusService
	BudgetShares    *billingapp.BudgetShareService
	Invoices        *billingapp.InvoiceService
	Documents       *billingapp.DocumentService
	Alerts          *alertingapp.AlertService
	Roles           *identityapp.RoleService
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting back office backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
	)

	// Initialize database connection with SQL logging through zap
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, log, cfg.Log.Level)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Redis backs share token revocation and notification rate limiting.
	// When unreachable, fall back to the in-process implementations so a
	// cache outage does not keep the service down.
	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	var revocations auth.RevocationStore
	var rateLimiter alertingapp.RateLimiter

	pingCtx, cancelPing := context.WithTimeout(context.Background(), 3*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		log.Warn("Redis unavailable, using in-memory revocation store and rate limiter", zap.Error(err))
		revocations = auth.NewInMemoryRevocationStore()
		rateLimiter = cache.NewInMemoryRateLimiter(int64(cfg.Notification.RateLimit), cfg.Notification.RateWindow)
	} else {
		revocations = auth.NewRedisRevocationStore(redisClient)
		rateLimiter = cache.NewRedisRateLimiterWithClient(redisClient, int64(cfg.Notification.RateLimit), cfg.Notification.RateWindow)
		defer func() {
			_ = redisClient.Close()
		}()
		log.Info("Redis connected successfully")
	}
	cancelPing()

	// Object storage: S3-compatible backend when configured, stub otherwise
	var objectStorage billingapp.ObjectStorageService
	if cfg.Storage.Bucket != "" {
		s3Storage, err := storage.NewS3ObjectStorage(&cfg.Storage,
			storage.WithLogger(log),
			storage.WithPresignExpiration(cfg.Storage.PresignExpiration),
		)
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		ensureCtx, cancelEnsure := context.WithTimeout(context.Background(), 10*time.Second)
		if err := s3Storage.EnsureBucket(ensureCtx); err != nil {
			log.Fatal("Failed to ensure storage bucket", zap.Error(err))
		}
		cancelEnsure()
		objectStorage = s3Storage
		log.Info("Object storage ready", zap.String("bucket", cfg.Storage.Bucket))
	} else {
		log.Warn("Storage bucket not configured, using stub object storage")
		objectStorage = storage.NewStubObjectStorage()
	}

	// Initialize repositories
	customerRepo := persistence.NewCustomerRepository(db.DB)
	providerRepo := persistence.NewProviderRepository(db.DB)
	categoryRepo := persistence.NewCategoryRepository(db.DB)
	serviceRepo := persistence.NewServiceRepository(db.DB)
	serviceStatusRepo := persistence.NewServiceStatusRepository(db.DB)
	areaRepo := persistence.NewAreaOfActivityRepository(db.DB)
	commonDataRepo := persistence.NewCommonDataRepository(db.DB)
	budgetRepo := persistence.NewBudgetRepository(db.DB)
	budgetStatusRepo := persistence.NewBudgetStatusRepository(db.DB)
	invoiceRepo := persistence.NewInvoiceRepository(db.DB)
	documentRepo := persistence.NewDocumentRepository(db.DB)
	alertRepo := persistence.NewAlertRepository(db.DB)
	roleRepo := persistence.NewRoleRepository(db.DB)

	partnerScope := persistence.NewGormPartnerTransactionScope(db.DB)
	billingScope := persistence.NewGormBillingTransactionScope(db.DB)

	// Alert delivery channels
	notifiers := []alerting.Notifier{notification.NewLogNotifier(log)}
	if cfg.Notification.SlackWebhookURL != "" {
		notifiers = append(notifiers, notification.NewSlackNotifier(cfg.Notification.SlackWebhookURL))
	}
	if len(cfg.Notification.EmailRecipients) > 0 {
		mailer := notification.NewLoggedMailSender(log)
		notifiers = append(notifiers, notification.NewEmailNotifier(mailer, cfg.Notification.EmailFrom, cfg.Notification.EmailRecipients))
	}

	shareTokens := auth.NewShareTokenService(cfg.ShareToken)

	// Initialize application services. Transport adapters attach here
	// when one is deployed alongside this process.
	services := &backendServices{
		Customers:       partnerapp.NewCustomerService(customerRepo, partnerScope, budgetRepo, invoiceRepo, areaRepo, log),
		Providers:       partnerapp.NewProviderService(providerRepo, partnerScope, areaRepo, log),
		Categories:      catalogapp.NewCategoryService(categoryRepo, serviceRepo, log),
		Services:        catalogapp.NewServiceService(serviceRepo, categoryRepo, log),
		ServiceStatuses: catalogapp.NewServiceStatusService(serviceStatusRepo, log),
		Areas:           catalogapp.NewAreaOfActivityService(areaRepo, commonDataRepo, log),
		Budgets:         billingapp.NewBudgetService(budgetRepo, customerRepo, invoiceRepo, documentRepo, log),
		BudgetStatuses:  billingapp.NewBudgetStatusService(budgetStatusRepo, log),
		BudgetShares:    billingapp.NewBudgetShareService(budgetRepo, shareTokens, revocations, log),
		Invoices:        billingapp.NewInvoiceService(invoiceRepo, customerRepo, budgetRepo, documentRepo, billingScope, log),
		Documents:       billingapp.NewDocumentService(documentRepo, budgetRepo, objectStorage, log),
		Alerts:          alertingapp.NewAlertService(alertRepo, notifiers, rateLimiter, log),
		Roles:           identityapp.NewRoleService(roleRepo, log),
	}
	_ = services

	log.Info("Application services initialized")

	// Budget expiry sweep. Pending budgets past their validity window
	// flip to expired once an hour.
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	go runBudgetExpirySweep(sweepCtx, services.Budgets, log)

	// Block until shutdown is requested
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	stopSweep()
	log.Info("Shutting down", zap.String("signal", sig.String()))
}

const budgetExpiryInterval = time.Hour

// runBudgetExpirySweep expires overdue budgets on an hourly tick until
// the context is cancelled. The first sweep runs immediately so a
// restart does not leave overdue budgets pending for another hour.
func runBudgetExpirySweep(ctx context.Context, budgets *billingapp.BudgetService, log *zap.Logger) {
	ticker := time.NewTicker(budgetExpiryInterval)
	defer ticker.Stop()

	sweep := func() {
		result := budgets.ExpireOverdueAll(ctx, time.Now())
		if !result.IsSuccess() {
			log.Warn("Budget expiry sweep failed", zap.String("reason", result.Message()))
			return
		}
		if result.Data() > 0 {
			log.Info("Budget expiry sweep completed", zap.Int64("expired", result.Data()))
		}
	}

	sweep()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sweep()
		}
	}
}
