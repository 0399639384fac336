package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"talkpdf-backend/internal/domain"
	"talkpdf-backend/internal/domain/model"
	"talkpdf-backend/internal/domain/ports/repository"
)

var _ repository.UserRepository = (*userRepo)(nil)

type userRepo struct{ pool *pgxpool.Pool }

func NewUserRepo(pool *pgxpool.Pool) *userRepo {
	return &userRepo{pool: pool}
}

const profileColumns = `id, email, display_name, subscription_plan, subscription_status, subscription_started_at, created_at`

func (r *userRepo) Save(ctx context.Context, tx repository.Tx, u *model.UserProfile) error {
	const q = `
INSERT INTO profiles (id, email, display_name, subscription_plan, subscription_status, subscription_started_at, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
ON CONFLICT (id) DO UPDATE SET
  email=$2, display_name=$3, subscription_plan=$4, subscription_status=$5, subscription_started_at=$6;`

	_, err := execSQL(ctx, r.pool, tx, q, u.ID, u.Email, u.DisplayName, u.SubscriptionPlan, u.SubscriptionStatus, u.SubscriptionStartedAt, u.CreatedAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *userRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.UserProfile, error) {
	q := `SELECT ` + profileColumns + ` FROM profiles WHERE id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	u := &model.UserProfile{}
	if err := row.Scan(&u.ID, &u.Email, &u.DisplayName, &u.SubscriptionPlan, &u.SubscriptionStatus, &u.SubscriptionStartedAt, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return u, nil
}

func (r *userRepo) UpdateSubscription(ctx context.Context, tx repository.Tx, userID string, plan model.PlanID, status model.SubscriptionStatus, startedAt time.Time) error {
	const q = `
UPDATE profiles
   SET subscription_plan=$2, subscription_status=$3, subscription_started_at=$4
 WHERE id=$1;`

	cmd, err := execSQL(ctx, r.pool, tx, q, userID, plan, status, startedAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
