package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/nasiyabro/nasiya-backend/internal/domain"
	"github.com/nasiyabro/nasiya-backend/internal/repository"
	customError "github.com/nasiyabro/nasiya-backend/pkg/errors"
)

// ReportService serves dashboard aggregates, cached in redis per scope.
// Cache misses or redis outages fall through to the database.
type ReportService struct {
	reports  repository.ReportRepository
	users    repository.UserRepository
	redis    *redis.Client
	cacheTTL time.Duration
	log      *logrus.Logger
}

func NewReportService(
	reports repository.ReportRepository,
	users repository.UserRepository,
	redisClient *redis.Client,
	cacheTTL time.Duration,
	log *logrus.Logger,
) *ReportService {
	return &ReportService{
		reports:  reports,
		users:    users,
		redis:    redisClient,
		cacheTTL: cacheTTL,
		log:      log,
	}
}

// Dashboard returns the aggregate report for the actor's scope.
func (s *ReportService) Dashboard(ctx context.Context, actor domain.Actor) (*domain.DashboardReport, error) {
	scope, err := s.scopeFor(ctx, actor)
	if err != nil {
		return nil, err
	}

	key := dashboardCacheKey(scope)
	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, key).Result(); err == nil {
			var report domain.DashboardReport
			if err := json.Unmarshal([]byte(cached), &report); err == nil {
				return &report, nil
			}
		}
	}

	report, err := s.reports.Dashboard(ctx, scope)
	if err != nil {
		return nil, customError.WrapPersistence(err)
	}

	if s.redis != nil {
		if payload, err := json.Marshal(report); err == nil {
			if err := s.redis.Set(ctx, key, payload, s.cacheTTL).Err(); err != nil {
				s.log.WithError(err).Warn("failed to cache dashboard report")
			}
		}
	}

	return report, nil
}

// Invalidate drops the cached report for a magazine after a write.
func (s *ReportService) Invalidate(ctx context.Context, magazineID uuid.UUID) {
	if s.redis == nil {
		return
	}

	pattern := fmt.Sprintf("report:dashboard:%s*", magazineID)
	iter := s.redis.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := s.redis.Del(ctx, iter.Val()).Err(); err != nil {
			s.log.WithError(err).Warn("failed to invalidate report cache")
		}
	}
}

func (s *ReportService) scopeFor(ctx context.Context, actor domain.Actor) (repository.Scope, error) {
	if actor.IsAdmin() {
		return repository.ScopeFor(actor, ""), nil
	}

	magazine, err := s.users.GetMagazine(ctx, actor.MagazineID)
	if err != nil {
		return repository.Scope{}, customError.WrapPersistence(err)
	}

	return repository.ScopeFor(actor, magazine.BusinessMode), nil
}

func dashboardCacheKey(scope repository.Scope) string {
	if scope.All {
		return "report:dashboard:all"
	}
	if scope.SellerID != uuid.Nil {
		return fmt.Sprintf("report:dashboard:%s:%s", scope.MagazineID, scope.SellerID)
	}
	return fmt.Sprintf("report:dashboard:%s", scope.MagazineID)
}
