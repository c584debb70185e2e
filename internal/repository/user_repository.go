package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/nasiyabro/nasiya-backend/internal/domain"
)

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `
		SELECT id, name, phone, role, status, magazine_id, manager_id,
			subscription_end_date, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	var user domain.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepository) GetMagazine(ctx context.Context, id uuid.UUID) (*domain.Magazine, error) {
	query := `
		SELECT id, name, status, business_mode, subscription_end_date, created_at, updated_at
		FROM magazines
		WHERE id = $1
	`

	var magazine domain.Magazine
	if err := r.db.GetContext(ctx, &magazine, query, id); err != nil {
		return nil, err
	}

	return &magazine, nil
}

func (r *userRepository) DeactivateExpiredUsers(ctx context.Context, now time.Time) (int, error) {
	query := `
		UPDATE users
		SET status = $1, updated_at = $2
		WHERE status = $3
		  AND subscription_end_date IS NOT NULL
		  AND subscription_end_date < $2
	`

	res, err := r.db.ExecContext(ctx, query, domain.UserStatusInactive, now, domain.UserStatusActive)
	if err != nil {
		return 0, err
	}

	n, err := res.RowsAffected()
	return int(n), err
}

func (r *userRepository) DeactivateExpiredMagazines(ctx context.Context, now time.Time) (int, error) {
	query := `
		UPDATE magazines
		SET status = $1, updated_at = $2
		WHERE status = $3
		  AND subscription_end_date IS NOT NULL
		  AND subscription_end_date < $2
	`

	res, err := r.db.ExecContext(ctx, query, domain.MagazineStatusInactive, now, domain.MagazineStatusActive)
	if err != nil {
		return 0, err
	}

	n, err := res.RowsAffected()
	return int(n), err
}
