package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"squadhub-backend/internal/domain"
	"squadhub-backend/internal/repository"
)

type joinRequestRepository struct {
	db *sql.DB
}

func NewJoinRequestRepository(db *sql.DB) repository.JoinRequestRepository {
	return &joinRequestRepository{db: db}
}

// Add relies on the unique (org_id, user_id) key for set semantics: two
// racing requests from the same user collapse to one row, the loser sees
// false.
func (r *joinRequestRepository) Add(ctx context.Context, req *domain.JoinRequest) (bool, error) {
	query := `INSERT INTO join_requests (org_id, user_id, role, note, created_on)
	          VALUES ($1, $2, $3, $4, $5)
	          ON CONFLICT (org_id, user_id) DO NOTHING`
	req.CreatedOn = time.Now().Format("2006-01-02")
	result, err := r.db.ExecContext(ctx, query, req.OrgID, req.UserID, req.Role, req.Note, req.CreatedOn)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (r *joinRequestRepository) Get(ctx context.Context, orgID, userID int32) (*domain.JoinRequest, error) {
	query := `SELECT org_id, user_id, role, COALESCE(note, ''), created_on FROM join_requests WHERE org_id = $1 AND user_id = $2`
	req := &domain.JoinRequest{}
	var createdOn time.Time
	err := r.db.QueryRowContext(ctx, query, orgID, userID).Scan(&req.OrgID, &req.UserID, &req.Role, &req.Note, &createdOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	req.CreatedOn = createdOn.Format("2006-01-02")
	return req, nil
}

func (r *joinRequestRepository) ListByOrg(ctx context.Context, orgID int32) ([]domain.JoinRequest, error) {
	query := `SELECT org_id, user_id, role, COALESCE(note, ''), created_on FROM join_requests WHERE org_id = $1 ORDER BY created_on, user_id`
	return r.queryRequests(ctx, query, orgID)
}

func (r *joinRequestRepository) ListByUser(ctx context.Context, userID int32) ([]domain.JoinRequest, error) {
	query := `SELECT org_id, user_id, role, COALESCE(note, ''), created_on FROM join_requests WHERE user_id = $1 ORDER BY created_on, org_id`
	return r.queryRequests(ctx, query, userID)
}

func (r *joinRequestRepository) Remove(ctx context.Context, orgID, userID int32) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM join_requests WHERE org_id = $1 AND user_id = $2`, orgID, userID)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (r *joinRequestRepository) RemoveAllForOrg(ctx context.Context, orgID int32) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM join_requests WHERE org_id = $1`, orgID)
	return err
}

func (r *joinRequestRepository) queryRequests(ctx context.Context, query string, args ...any) ([]domain.JoinRequest, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reqs []domain.JoinRequest
	for rows.Next() {
		var req domain.JoinRequest
		var createdOn time.Time
		if err := rows.Scan(&req.OrgID, &req.UserID, &req.Role, &req.Note, &createdOn); err != nil {
			return nil, err
		}
		req.CreatedOn = createdOn.Format("2006-01-02")
		reqs = append(reqs, req)
	}
	return reqs, rows.Err()
}
