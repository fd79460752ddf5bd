package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"squadhub-backend/internal/domain"
	"squadhub-backend/internal/repository"

	"github.com/lib/pq"
)

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, email, password_hash, name, tier, skill_rating, positions, COALESCE(device_token, ''),
	sub_max_orgs, sub_max_members_per_org, sub_cost_cents, sub_period_start, sub_period_end, sub_active,
	created_on, updated_on`

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `INSERT INTO users (email, password_hash, name, tier, skill_rating, positions, device_token,
	          sub_max_orgs, sub_max_members_per_org, sub_cost_cents, sub_period_start, sub_period_end, sub_active,
	          created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15) RETURNING id`
	now := time.Now().Format("2006-01-02")
	u.CreatedOn = now
	u.UpdatedOn = now
	return r.db.QueryRowContext(ctx, query,
		u.Email, u.PasswordHash, u.Name, u.Tier, u.SkillRating, pq.Array(u.Positions), u.DeviceToken,
		u.Subscription.MaxOrgs, u.Subscription.MaxMembersPerOrg, u.Subscription.CostCents,
		nullDate(u.Subscription.PeriodStart), nullDate(u.Subscription.PeriodEnd), u.Subscription.Active,
		u.CreatedOn, u.UpdatedOn,
	).Scan(&u.ID)
}

func (r *userRepository) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`
	return r.scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *userRepository) Update(ctx context.Context, u *domain.User) error {
	query := `UPDATE users SET email=$1, name=$2, skill_rating=$3, positions=$4, device_token=$5, updated_on=$6 WHERE id=$7`
	u.UpdatedOn = time.Now().Format("2006-01-02")
	_, err := r.db.ExecContext(ctx, query, u.Email, u.Name, u.SkillRating, pq.Array(u.Positions), u.DeviceToken, u.UpdatedOn, u.ID)
	return err
}

func (r *userRepository) UpdateSubscription(ctx context.Context, userID int32, tier domain.Tier, sub domain.Subscription) error {
	query := `UPDATE users SET tier=$1, sub_max_orgs=$2, sub_max_members_per_org=$3, sub_cost_cents=$4,
	          sub_period_start=$5, sub_period_end=$6, sub_active=$7, updated_on=$8 WHERE id=$9`
	now := time.Now().Format("2006-01-02")
	_, err := r.db.ExecContext(ctx, query, tier, sub.MaxOrgs, sub.MaxMembersPerOrg, sub.CostCents,
		nullDate(sub.PeriodStart), nullDate(sub.PeriodEnd), sub.Active, now, userID)
	return err
}

func (r *userRepository) ExpireSubscriptions(ctx context.Context, asOf string) (int64, error) {
	query := `UPDATE users SET sub_active = FALSE WHERE sub_active = TRUE AND sub_period_end < $1`
	result, err := r.db.ExecContext(ctx, query, asOf)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *userRepository) scanUser(row *sql.Row) (*domain.User, error) {
	u := &domain.User{}
	var positions pq.StringArray
	var periodStart, periodEnd sql.NullTime
	var createdOn, updatedOn time.Time
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Tier, &u.SkillRating, &positions, &u.DeviceToken,
		&u.Subscription.MaxOrgs, &u.Subscription.MaxMembersPerOrg, &u.Subscription.CostCents,
		&periodStart, &periodEnd, &u.Subscription.Active,
		&createdOn, &updatedOn,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	u.Positions = positions
	if periodStart.Valid {
		u.Subscription.PeriodStart = periodStart.Time.Format("2006-01-02")
	}
	if periodEnd.Valid {
		u.Subscription.PeriodEnd = periodEnd.Time.Format("2006-01-02")
	}
	u.CreatedOn = createdOn.Format("2006-01-02")
	u.UpdatedOn = updatedOn.Format("2006-01-02")
	return u, nil
}

// nullDate maps an empty yyyy-mm-dd string to SQL NULL.
func nullDate(s string) any {
	if s == "" {
		return nil
	}
	return s
}
