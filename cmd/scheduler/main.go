package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/nasiyabro/nasiya-backend/internal/config"
	"github.com/nasiyabro/nasiya-backend/internal/domain"
	"github.com/nasiyabro/nasiya-backend/internal/notify"
	"github.com/nasiyabro/nasiya-backend/internal/repository"
	"github.com/nasiyabro/nasiya-backend/internal/service"
)

const jobTimeout = 10 * time.Minute

// sweepActor runs the scheduled jobs with unrestricted visibility.
var sweepActor = domain.Actor{Role: domain.RoleAdmin}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("failed to load configuration: %v", err)
	}

	log := newLogger(cfg)

	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	defer db.Close()

	loanRepo := repository.NewLoanRepository(db)
	installmentRepo := repository.NewInstallmentRepository(db)
	productRepo := repository.NewProductRepository(db)
	clientRepo := repository.NewClientRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	userRepo := repository.NewUserRepository(db)
	txRunner := repository.NewTxRunner(db)

	loanService := service.NewLoanService(loanRepo, installmentRepo, productRepo, clientRepo, ledgerRepo, userRepo, txRunner, log)
	subscriptionService := service.NewSubscriptionService(userRepo, log)

	var notifier notify.Notifier
	if cfg.SMTPEnabled() {
		notifier = notify.NewEmailNotifier(cfg.SMTP, log)
	} else {
		notifier = notify.NewLogNotifier(log)
	}

	c := cron.New(cron.WithSeconds())
	setupCronJobs(c, cfg, log, loanService, subscriptionService, notifier)

	c.Start()
	log.Info("scheduler started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down scheduler...")
	<-c.Stop().Done()
	log.Info("scheduler stopped")
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

func setupCronJobs(
	c *cron.Cron,
	cfg *config.Config,
	log *logrus.Logger,
	loans *service.LoanService,
	subscriptions *service.SubscriptionService,
	notifier notify.Notifier,
) {
	if _, err := c.AddFunc(cfg.Scheduler.OverdueSweepSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		marked, err := loans.SweepOverdue(ctx, sweepActor)
		if err != nil {
			log.WithError(err).Error("overdue sweep failed")
			return
		}
		log.WithField("marked", marked).Info("overdue sweep finished")
	}); err != nil {
		log.Fatalf("failed to schedule overdue sweep: %v", err)
	}

	if _, err := c.AddFunc(cfg.Scheduler.ReminderSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		upcoming, err := loans.ListUpcoming(ctx, sweepActor, cfg.Scheduler.ReminderDaysAhead)
		if err != nil {
			log.WithError(err).Error("payment reminder query failed")
			return
		}
		for _, payment := range upcoming {
			notifier.NotifyUpcoming(ctx, payment.ClientPhone, payment)
		}

		overdue, err := loans.ListOverdue(ctx, sweepActor)
		if err != nil {
			log.WithError(err).Error("overdue reminder query failed")
			return
		}
		for _, payment := range overdue {
			notifier.NotifyOverdue(ctx, payment.ClientPhone, payment)
		}

		log.WithFields(logrus.Fields{
			"upcoming": len(upcoming),
			"overdue":  len(overdue),
		}).Info("payment reminders sent")
	}); err != nil {
		log.Fatalf("failed to schedule payment reminders: %v", err)
	}

	if _, err := c.AddFunc(cfg.Scheduler.SubscriptionSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		magazines, users, err := subscriptions.DeactivateExpired(ctx)
		if err != nil {
			log.WithError(err).Error("subscription sweep failed")
			return
		}
		log.WithFields(logrus.Fields{
			"magazines": magazines,
			"users":     users,
		}).Info("subscription sweep finished")
	}); err != nil {
		log.Fatalf("failed to schedule subscription sweep: %v", err)
	}
}
