package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"squadhub-backend/internal/domain"
	"squadhub-backend/internal/repository"
)

type organizationRepository struct {
	db *sql.DB
}

func NewOrganizationRepository(db *sql.DB) repository.OrganizationRepository {
	return &organizationRepository{db: db}
}

const orgColumns = `o.id, o.kind, o.name, o.description, o.sport, o.city, o.admin_id, o.max_players, o.status,
	(SELECT COUNT(*) FROM org_members m WHERE m.org_id = o.id) AS member_count,
	o.created_on, o.updated_on`

// statusConvergence recomputes FULL/ACTIVE from the live member count while
// leaving INACTIVE alone.
const statusConvergence = `CASE
	WHEN (SELECT COUNT(*) FROM org_members m WHERE m.org_id = orgs.id) >= orgs.max_players THEN 'FULL'
	WHEN status = 'FULL' THEN 'ACTIVE'
	ELSE status
	END`

func (r *organizationRepository) Create(ctx context.Context, o *domain.Organization) error {
	query := `INSERT INTO orgs (kind, name, description, sport, city, admin_id, max_players, status, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	now := time.Now().Format("2006-01-02")
	o.CreatedOn = now
	o.UpdatedOn = now
	return r.db.QueryRowContext(ctx, query,
		o.Kind, o.Name, o.Description, o.Sport, o.City, o.AdminID, o.MaxPlayers, o.Status, o.CreatedOn, o.UpdatedOn,
	).Scan(&o.ID)
}

func (r *organizationRepository) GetByID(ctx context.Context, id int32) (*domain.Organization, error) {
	query := `SELECT ` + orgColumns + ` FROM orgs o WHERE o.id = $1`
	o := &domain.Organization{}
	var createdOn, updatedOn time.Time
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&o.ID, &o.Kind, &o.Name, &o.Description, &o.Sport, &o.City, &o.AdminID,
		&o.MaxPlayers, &o.Status, &o.MemberCount, &createdOn, &updatedOn,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	o.CreatedOn = createdOn.Format("2006-01-02")
	o.UpdatedOn = updatedOn.Format("2006-01-02")
	return o, nil
}

func (r *organizationRepository) ListByAdmin(ctx context.Context, adminID int32) ([]domain.Organization, error) {
	query := `SELECT ` + orgColumns + ` FROM orgs o WHERE o.admin_id = $1 ORDER BY o.id`
	return r.queryOrgs(ctx, query, adminID)
}

func (r *organizationRepository) ListByMember(ctx context.Context, userID int32, kind domain.OrgKind) ([]domain.Organization, error) {
	query := `SELECT ` + orgColumns + ` FROM orgs o
	          JOIN org_members m ON m.org_id = o.id
	          WHERE m.user_id = $1 AND o.kind = $2 ORDER BY o.id`
	return r.queryOrgs(ctx, query, userID, kind)
}

func (r *organizationRepository) CountByAdmin(ctx context.Context, adminID int32) (int32, error) {
	var count int32
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orgs WHERE admin_id = $1`, adminID).Scan(&count)
	return count, err
}

func (r *organizationRepository) Update(ctx context.Context, o *domain.Organization) error {
	query := `UPDATE orgs SET name=$1, description=$2, sport=$3, city=$4, max_players=$5, status=$6, updated_on=$7 WHERE id=$8`
	o.UpdatedOn = time.Now().Format("2006-01-02")
	_, err := r.db.ExecContext(ctx, query, o.Name, o.Description, o.Sport, o.City, o.MaxPlayers, o.Status, o.UpdatedOn, o.ID)
	return err
}

func (r *organizationRepository) Delete(ctx context.Context, id int32) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM orgs WHERE id = $1`, id)
	return err
}

func (r *organizationRepository) ApplyMemberCeiling(ctx context.Context, orgID, ceiling int32) error {
	// SET expressions read the pre-update row, so the status CASE must
	// compare against the incoming ceiling, not max_players.
	query := `UPDATE orgs SET max_players = $2, status = CASE
		WHEN (SELECT COUNT(*) FROM org_members m WHERE m.org_id = orgs.id) >= $2 THEN 'FULL'
		WHEN status = 'FULL' THEN 'ACTIVE'
		ELSE status
		END WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, orgID, ceiling)
	return err
}

func (r *organizationRepository) RefreshCapacityStatus(ctx context.Context, orgID int32) error {
	query := `UPDATE orgs SET status = ` + statusConvergence + ` WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, orgID)
	return err
}

func (r *organizationRepository) RefreshAllCapacityStatuses(ctx context.Context) (int64, error) {
	query := `UPDATE orgs SET status = ` + statusConvergence + ` WHERE status <> ` + statusConvergence
	result, err := r.db.ExecContext(ctx, query)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *organizationRepository) queryOrgs(ctx context.Context, query string, args ...any) ([]domain.Organization, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orgs []domain.Organization
	for rows.Next() {
		var o domain.Organization
		var createdOn, updatedOn time.Time
		if err := rows.Scan(
			&o.ID, &o.Kind, &o.Name, &o.Description, &o.Sport, &o.City, &o.AdminID,
			&o.MaxPlayers, &o.Status, &o.MemberCount, &createdOn, &updatedOn,
		); err != nil {
			return nil, err
		}
		o.CreatedOn = createdOn.Format("2006-01-02")
		o.UpdatedOn = updatedOn.Format("2006-01-02")
		orgs = append(orgs, o)
	}
	return orgs, rows.Err()
}
