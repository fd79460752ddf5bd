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

type memberRepository struct {
	db *sql.DB
}

func NewMemberRepository(db *sql.DB) repository.MemberRepository {
	return &memberRepository{db: db}
}

// Add performs the capacity check and the insert in one statement so two
// concurrent accepts cannot both squeeze past the last open slot. The unique
// (org_id, user_id) key makes re-adding an existing member a no-op.
func (r *memberRepository) Add(ctx context.Context, m *domain.Member) (bool, error) {
	query := `INSERT INTO org_members (org_id, user_id, is_captain, skill_rating, positions, matches_played, wins, joined_on)
	          SELECT $1, $2, $3, $4, $5, 0, 0, $6
	          WHERE (SELECT COUNT(*) FROM org_members WHERE org_id = $1) <
	                (SELECT max_players FROM orgs WHERE id = $1)
	          ON CONFLICT (org_id, user_id) DO NOTHING`
	m.JoinedOn = time.Now().Format("2006-01-02")
	result, err := r.db.ExecContext(ctx, query, m.OrgID, m.UserID, m.IsCaptain, m.SkillRating, pq.Array(m.Positions), m.JoinedOn)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (r *memberRepository) Get(ctx context.Context, orgID, userID int32) (*domain.Member, error) {
	query := `SELECT org_id, user_id, is_captain, skill_rating, positions, matches_played, wins, joined_on
	          FROM org_members WHERE org_id = $1 AND user_id = $2`
	m := &domain.Member{}
	var positions pq.StringArray
	var joinedOn time.Time
	err := r.db.QueryRowContext(ctx, query, orgID, userID).Scan(
		&m.OrgID, &m.UserID, &m.IsCaptain, &m.SkillRating, &positions, &m.MatchesPlayed, &m.Wins, &joinedOn,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	m.Positions = positions
	m.JoinedOn = joinedOn.Format("2006-01-02")
	return m, nil
}

func (r *memberRepository) List(ctx context.Context, orgID int32) ([]domain.Member, error) {
	query := `SELECT org_id, user_id, is_captain, skill_rating, positions, matches_played, wins, joined_on
	          FROM org_members WHERE org_id = $1 ORDER BY joined_on, user_id`
	rows, err := r.db.QueryContext(ctx, query, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []domain.Member
	for rows.Next() {
		var m domain.Member
		var positions pq.StringArray
		var joinedOn time.Time
		if err := rows.Scan(&m.OrgID, &m.UserID, &m.IsCaptain, &m.SkillRating, &positions, &m.MatchesPlayed, &m.Wins, &joinedOn); err != nil {
			return nil, err
		}
		m.Positions = positions
		m.JoinedOn = joinedOn.Format("2006-01-02")
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *memberRepository) Count(ctx context.Context, orgID int32) (int32, error) {
	var count int32
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM org_members WHERE org_id = $1`, orgID).Scan(&count)
	return count, err
}

func (r *memberRepository) Remove(ctx context.Context, orgID, userID int32) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM org_members WHERE org_id = $1 AND user_id = $2`, orgID, userID)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (r *memberRepository) RemoveAllForOrg(ctx context.Context, orgID int32) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM org_members WHERE org_id = $1`, orgID)
	return err
}
