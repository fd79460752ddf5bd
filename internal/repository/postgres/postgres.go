package postgres

import (
	"database/sql"

	"squadhub-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.UserRepository
	repository.OrganizationRepository
	repository.MemberRepository
	repository.JoinRequestRepository
	repository.NotificationRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                     db,
		UserRepository:         NewUserRepository(db),
		OrganizationRepository: NewOrganizationRepository(db),
		MemberRepository:       NewMemberRepository(db),
		JoinRequestRepository:  NewJoinRequestRepository(db),
		NotificationRepository: NewNotificationRepository(db),
	}
}
