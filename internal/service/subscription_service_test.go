package service

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestSubscriptionService() (*SubscriptionService, *mockUserRepo) {
	users := &mockUserRepo{}
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewSubscriptionService(users, log), users
}

func TestDeactivateExpired(t *testing.T) {
	svc, users := newTestSubscriptionService()

	users.On("DeactivateExpiredMagazines", mock.Anything, mock.Anything).Return(2, nil)
	users.On("DeactivateExpiredUsers", mock.Anything, mock.Anything).Return(5, nil)

	magazines, userCount, err := svc.DeactivateExpired(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, magazines)
	assert.Equal(t, 5, userCount)
	users.AssertExpectations(t)
}

func TestDeactivateExpired_MagazineSweepFails(t *testing.T) {
	svc, users := newTestSubscriptionService()

	users.On("DeactivateExpiredMagazines", mock.Anything, mock.Anything).Return(0, errors.New("connection reset"))

	_, _, err := svc.DeactivateExpired(context.Background())

	require.Error(t, err)
	users.AssertNotCalled(t, "DeactivateExpiredUsers", mock.Anything, mock.Anything)
}
