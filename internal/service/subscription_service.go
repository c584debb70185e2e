package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nasiyabro/nasiya-backend/internal/repository"
	customError "github.com/nasiyabro/nasiya-backend/pkg/errors"
)

// SubscriptionService runs the daily expiration sweeps: magazines and users
// whose subscription lapsed are flipped to inactive.
type SubscriptionService struct {
	users repository.UserRepository
	log   *logrus.Logger
}

func NewSubscriptionService(users repository.UserRepository, log *logrus.Logger) *SubscriptionService {
	return &SubscriptionService{users: users, log: log}
}

// DeactivateExpired sweeps both magazines and users. Returns the counts.
func (s *SubscriptionService) DeactivateExpired(ctx context.Context) (magazines, users int, err error) {
	now := time.Now()

	magazines, err = s.users.DeactivateExpiredMagazines(ctx, now)
	if err != nil {
		return 0, 0, customError.WrapPersistence(err)
	}

	users, err = s.users.DeactivateExpiredUsers(ctx, now)
	if err != nil {
		return magazines, 0, customError.WrapPersistence(err)
	}

	if magazines > 0 || users > 0 {
		s.log.WithFields(logrus.Fields{
			"magazines": magazines,
			"users":     users,
		}).Warn("deactivated expired subscriptions")
	}

	return magazines, users, nil
}
