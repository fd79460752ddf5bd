package service_test

import (
	"context"

	"squadhub-backend/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) UpdateSubscription(ctx context.Context, userID int32, tier domain.Tier, sub domain.Subscription) error {
	args := m.Called(ctx, userID, tier, sub)
	return args.Error(0)
}
func (m *MockUserRepo) ExpireSubscriptions(ctx context.Context, asOf string) (int64, error) {
	args := m.Called(ctx, asOf)
	return args.Get(0).(int64), args.Error(1)
}

// MockOrganizationRepo
type MockOrganizationRepo struct {
	mock.Mock
}

func (m *MockOrganizationRepo) Create(ctx context.Context, org *domain.Organization) error {
	args := m.Called(ctx, org)
	return args.Error(0)
}
func (m *MockOrganizationRepo) GetByID(ctx context.Context, id int32) (*domain.Organization, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Organization), args.Error(1)
}
func (m *MockOrganizationRepo) ListByAdmin(ctx context.Context, adminID int32) ([]domain.Organization, error) {
	args := m.Called(ctx, adminID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Organization), args.Error(1)
}
func (m *MockOrganizationRepo) ListByMember(ctx context.Context, userID int32, kind domain.OrgKind) ([]domain.Organization, error) {
	args := m.Called(ctx, userID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Organization), args.Error(1)
}
func (m *MockOrganizationRepo) CountByAdmin(ctx context.Context, adminID int32) (int32, error) {
	args := m.Called(ctx, adminID)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockOrganizationRepo) Update(ctx context.Context, org *domain.Organization) error {
	args := m.Called(ctx, org)
	return args.Error(0)
}
func (m *MockOrganizationRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockOrganizationRepo) ApplyMemberCeiling(ctx context.Context, orgID, ceiling int32) error {
	args := m.Called(ctx, orgID, ceiling)
	return args.Error(0)
}
func (m *MockOrganizationRepo) RefreshCapacityStatus(ctx context.Context, orgID int32) error {
	args := m.Called(ctx, orgID)
	return args.Error(0)
}
func (m *MockOrganizationRepo) RefreshAllCapacityStatuses(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockMemberRepo
type MockMemberRepo struct {
	mock.Mock
}

func (m *MockMemberRepo) Add(ctx context.Context, member *domain.Member) (bool, error) {
	args := m.Called(ctx, member)
	return args.Bool(0), args.Error(1)
}
func (m *MockMemberRepo) Get(ctx context.Context, orgID, userID int32) (*domain.Member, error) {
	args := m.Called(ctx, orgID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}
func (m *MockMemberRepo) List(ctx context.Context, orgID int32) ([]domain.Member, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Member), args.Error(1)
}
func (m *MockMemberRepo) Count(ctx context.Context, orgID int32) (int32, error) {
	args := m.Called(ctx, orgID)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockMemberRepo) Remove(ctx context.Context, orgID, userID int32) (bool, error) {
	args := m.Called(ctx, orgID, userID)
	return args.Bool(0), args.Error(1)
}
func (m *MockMemberRepo) RemoveAllForOrg(ctx context.Context, orgID int32) error {
	args := m.Called(ctx, orgID)
	return args.Error(0)
}

// MockJoinRequestRepo
type MockJoinRequestRepo struct {
	mock.Mock
}

func (m *MockJoinRequestRepo) Add(ctx context.Context, req *domain.JoinRequest) (bool, error) {
	args := m.Called(ctx, req)
	return args.Bool(0), args.Error(1)
}
func (m *MockJoinRequestRepo) Get(ctx context.Context, orgID, userID int32) (*domain.JoinRequest, error) {
	args := m.Called(ctx, orgID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JoinRequest), args.Error(1)
}
func (m *MockJoinRequestRepo) ListByOrg(ctx context.Context, orgID int32) ([]domain.JoinRequest, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JoinRequest), args.Error(1)
}
func (m *MockJoinRequestRepo) ListByUser(ctx context.Context, userID int32) ([]domain.JoinRequest, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JoinRequest), args.Error(1)
}
func (m *MockJoinRequestRepo) Remove(ctx context.Context, orgID, userID int32) (bool, error) {
	args := m.Called(ctx, orgID, userID)
	return args.Bool(0), args.Error(1)
}
func (m *MockJoinRequestRepo) RemoveAllForOrg(ctx context.Context, orgID int32) error {
	args := m.Called(ctx, orgID)
	return args.Error(0)
}

// MockNotificationRepo
type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, note *domain.Notification) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}
func (m *MockNotificationRepo) List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int32), args.Error(2)
	}
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}
func (m *MockNotificationRepo) MarkAsRead(ctx context.Context, id, userID int32) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendJoinDecision(ctx context.Context, email, name, orgName string, approved bool) error {
	args := m.Called(ctx, email, name, orgName, approved)
	return args.Error(0)
}
func (m *MockEmailService) SendSubscriptionReceipt(ctx context.Context, email, name string, tier domain.Tier, costCents int32) error {
	args := m.Called(ctx, email, name, tier, costCents)
	return args.Error(0)
}

// MockPushService
type MockPushService struct {
	mock.Mock
}

func (m *MockPushService) SendJoinDecision(ctx context.Context, deviceToken, orgName string, approved bool) error {
	args := m.Called(ctx, deviceToken, orgName, approved)
	return args.Error(0)
}
