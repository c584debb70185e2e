package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/nasiyabro/nasiya-backend/internal/config"
	"github.com/nasiyabro/nasiya-backend/internal/handler"
	"github.com/nasiyabro/nasiya-backend/internal/middleware"
	"github.com/nasiyabro/nasiya-backend/internal/repository"
	"github.com/nasiyabro/nasiya-backend/internal/service"
	"github.com/nasiyabro/nasiya-backend/pkg/response"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("failed to load configuration: %v", err)
	}

	log := newLogger(cfg)

	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	defer db.Close()

	redisClient := initRedis(cfg)
	defer redisClient.Close()

	loanRepo := repository.NewLoanRepository(db)
	installmentRepo := repository.NewInstallmentRepository(db)
	productRepo := repository.NewProductRepository(db)
	clientRepo := repository.NewClientRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	userRepo := repository.NewUserRepository(db)
	reportRepo := repository.NewReportRepository(db)
	txRunner := repository.NewTxRunner(db)

	loanService := service.NewLoanService(loanRepo, installmentRepo, productRepo, clientRepo, ledgerRepo, userRepo, txRunner, log)
	saleService := service.NewSaleService(saleRepo, productRepo, ledgerRepo, userRepo, txRunner, log)
	reportService := service.NewReportService(reportRepo, userRepo, redisClient, cfg.Business.ReportCacheTTL, log)

	loanHandler := handler.NewLoanHandler(loanService, reportService)
	saleHandler := handler.NewSaleHandler(saleService, reportService)
	reportHandler := handler.NewReportHandler(reportService)
	healthHandler := handler.NewHealthHandler(db, redisClient)

	router := setupRoutes(cfg, log, redisClient, loanHandler, saleHandler, reportHandler, healthHandler)

	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.WithField("addr", server.Addr).Info("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Info("server exited")
}

func newLogger(cfg *config.Config) *logrus.Logger {
	log := logrus.New()

	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Logging.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return log
}

func initDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	return db, nil
}

func initRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func setupRoutes(
	cfg *config.Config,
	log *logrus.Logger,
	redisClient *redis.Client,
	loanHandler *handler.LoanHandler,
	saleHandler *handler.SaleHandler,
	reportHandler *handler.ReportHandler,
	healthHandler *handler.HealthHandler,
) *mux.Router {
	router := mux.NewRouter()
	router.Use(response.CORSMiddleware)
	router.Use(response.LoggingMiddleware(log))

	router.HandleFunc("/health", healthHandler.Health).Methods("GET")
	router.HandleFunc("/health/ready", healthHandler.Ready).Methods("GET")

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.RateLimit(redisClient, cfg.Business.RateLimitRPM, log))
	api.Use(middleware.Auth(cfg.Auth.JWTSecret))

	api.HandleFunc("/loans/calculate", loanHandler.Calculate).Methods("POST")
	api.HandleFunc("/loans", loanHandler.Create).Methods("POST")
	api.HandleFunc("/loans", loanHandler.List).Methods("GET")
	api.HandleFunc("/loans/{loanId}", loanHandler.Get).Methods("GET")
	api.HandleFunc("/loans/{loanId}/schedule", loanHandler.Schedule).Methods("GET")
	api.HandleFunc("/loans/{loanId}/payments/{paymentId}", loanHandler.RecordPayment).Methods("POST")
	api.HandleFunc("/loans/{loanId}/pay-full", loanHandler.PayFull).Methods("POST")

	api.HandleFunc("/payments/overdue", loanHandler.ListOverdue).Methods("GET")
	api.HandleFunc("/payments/upcoming", loanHandler.ListUpcoming).Methods("GET")
	api.HandleFunc("/payments/active", loanHandler.ActiveLoans).Methods("GET")

	api.HandleFunc("/sales", saleHandler.Create).Methods("POST")
	api.HandleFunc("/sales", saleHandler.List).Methods("GET")
	api.HandleFunc("/transactions/recent", saleHandler.RecentActivity).Methods("GET")

	api.HandleFunc("/reports/dashboard", reportHandler.Dashboard).Methods("GET")

	return router
}
