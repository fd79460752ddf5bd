package service_test

import (
	"context"
	"errors"
	"testing"

	"squadhub-backend/internal/domain"
	"squadhub-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type membershipFixture struct {
	orgRepo    *MockOrganizationRepo
	memberRepo *MockMemberRepo
	reqRepo    *MockJoinRequestRepo
	userRepo   *MockUserRepo
	noteRepo   *MockNotificationRepo
	emailSvc   *MockEmailService
	pushSvc    *MockPushService
	svc        service.MembershipService
}

func newMembershipFixture() *membershipFixture {
	f := &membershipFixture{
		orgRepo:    new(MockOrganizationRepo),
		memberRepo: new(MockMemberRepo),
		reqRepo:    new(MockJoinRequestRepo),
		userRepo:   new(MockUserRepo),
		noteRepo:   new(MockNotificationRepo),
		emailSvc:   new(MockEmailService),
		pushSvc:    new(MockPushService),
	}
	f.svc = service.NewMembershipService(f.orgRepo, f.memberRepo, f.reqRepo, f.userRepo, f.noteRepo, f.emailSvc, f.pushSvc)
	return f
}

func activeOrg() *domain.Organization {
	return &domain.Organization{
		ID: 10, Kind: domain.OrgKindClub, Name: "Rovers",
		AdminID: 1, MaxPlayers: 15, MemberCount: 5, Status: domain.OrgStatusActive,
	}
}

func TestMembershipService_RequestJoin(t *testing.T) {
	ctx := context.Background()

	t.Run("Submitted", func(t *testing.T) {
		f := newMembershipFixture()
		f.orgRepo.On("GetByID", ctx, int32(10)).Return(activeOrg(), nil).Once()
		f.memberRepo.On("Get", ctx, int32(10), int32(5)).Return(nil, nil).Once()
		f.reqRepo.On("Add", ctx, mock.MatchedBy(func(r *domain.JoinRequest) bool {
			return r.OrgID == 10 && r.UserID == 5 && r.Role == domain.JoinRoleMember && r.Note == "hi"
		})).Return(true, nil).Once()

		added, err := f.svc.RequestJoin(ctx, 10, 5, domain.JoinRoleMember, "hi")
		assert.NoError(t, err)
		assert.True(t, added)
	})

	t.Run("FullOrganization", func(t *testing.T) {
		f := newMembershipFixture()
		org := activeOrg()
		org.Status = domain.OrgStatusFull
		f.orgRepo.On("GetByID", ctx, int32(10)).Return(org, nil).Once()

		_, err := f.svc.RequestJoin(ctx, 10, 5, domain.JoinRoleMember, "")
		assert.True(t, errors.Is(err, domain.ErrBadRequest))
	})

	t.Run("AlreadyMember", func(t *testing.T) {
		f := newMembershipFixture()
		f.orgRepo.On("GetByID", ctx, int32(10)).Return(activeOrg(), nil).Once()
		f.memberRepo.On("Get", ctx, int32(10), int32(5)).Return(&domain.Member{OrgID: 10, UserID: 5}, nil).Once()

		added, err := f.svc.RequestJoin(ctx, 10, 5, domain.JoinRoleMember, "")
		assert.NoError(t, err)
		assert.False(t, added)
	})

	t.Run("DuplicateRequestIsNoOp", func(t *testing.T) {
		f := newMembershipFixture()
		f.orgRepo.On("GetByID", ctx, int32(10)).Return(activeOrg(), nil).Once()
		f.memberRepo.On("Get", ctx, int32(10), int32(5)).Return(nil, nil).Once()
		f.reqRepo.On("Add", ctx, mock.Anything).Return(false, nil).Once()

		added, err := f.svc.RequestJoin(ctx, 10, 5, domain.JoinRoleCaptain, "")
		assert.NoError(t, err)
		assert.False(t, added)
	})

	t.Run("UnknownOrganization", func(t *testing.T) {
		f := newMembershipFixture()
		f.orgRepo.On("GetByID", ctx, int32(99)).Return(nil, nil).Once()

		_, err := f.svc.RequestJoin(ctx, 99, 5, domain.JoinRoleMember, "")
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})

	t.Run("UnknownRole", func(t *testing.T) {
		f := newMembershipFixture()
		f.orgRepo.On("GetByID", ctx, int32(10)).Return(activeOrg(), nil).Once()
		f.memberRepo.On("Get", ctx, int32(10), int32(5)).Return(nil, nil).Once()

		_, err := f.svc.RequestJoin(ctx, 10, 5, domain.JoinRole("COACH"), "")
		assert.True(t, errors.Is(err, domain.ErrBadRequest))
	})
}

func TestMembershipService_CancelJoin(t *testing.T) {
	ctx := context.Background()

	f := newMembershipFixture()
	f.reqRepo.On("Remove", ctx, int32(10), int32(5)).Return(true, nil).Once()
	removed, err := f.svc.CancelJoin(ctx, 10, 5)
	assert.NoError(t, err)
	assert.True(t, removed)

	f.reqRepo.On("Remove", ctx, int32(10), int32(5)).Return(false, nil).Once()
	removed, err = f.svc.CancelJoin(ctx, 10, 5)
	assert.NoError(t, err)
	assert.False(t, removed)
}

func TestMembershipService_AcceptJoin(t *testing.T) {
	ctx := context.Background()

	t.Run("AdminGrantsCaptaincy", func(t *testing.T) {
		f := newMembershipFixture()
		f.orgRepo.On("GetByID", ctx, int32(10)).Return(activeOrg(), nil).Once()
		f.memberRepo.On("Get", ctx, int32(10), int32(1)).Return(&domain.Member{OrgID: 10, UserID: 1}, nil).Once()
		f.reqRepo.On("Get", ctx, int32(10), int32(5)).Return(&domain.JoinRequest{OrgID: 10, UserID: 5, Role: domain.JoinRoleCaptain}, nil).Once()
		requester := &domain.User{ID: 5, Email: "r@test.com", Name: "Riley", SkillRating: 3, Positions: []string{"FW"}, DeviceToken: "tok"}
		f.userRepo.On("GetByID", ctx, int32(5)).Return(requester, nil).Once()
		f.reqRepo.On("Remove", ctx, int32(10), int32(5)).Return(true, nil).Once()
		f.memberRepo.On("Add", ctx, mock.MatchedBy(func(m *domain.Member) bool {
			return m.OrgID == 10 && m.UserID == 5 && m.IsCaptain && m.SkillRating == 3
		})).Return(true, nil).Once()
		f.orgRepo.On("RefreshCapacityStatus", ctx, int32(10)).Return(nil).Once()
		f.noteRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
		f.emailSvc.On("SendJoinDecision", ctx, "r@test.com", "Riley", "Rovers", true).Return(nil).Once()
		f.pushSvc.On("SendJoinDecision", ctx, "tok", "Rovers", true).Return(nil).Once()

		accepted, err := f.svc.AcceptJoin(ctx, 10, 5, 1)
		assert.NoError(t, err)
		assert.True(t, accepted)
		f.memberRepo.AssertExpectations(t)
		f.emailSvc.AssertExpectations(t)
		f.pushSvc.AssertExpectations(t)
	})

	t.Run("CaptainDemotesCaptainRequest", func(t *testing.T) {
		f := newMembershipFixture()
		f.orgRepo.On("GetByID", ctx, int32(10)).Return(activeOrg(), nil).Once()
		f.memberRepo.On("Get", ctx, int32(10), int32(2)).Return(&domain.Member{OrgID: 10, UserID: 2, IsCaptain: true}, nil).Once()
		f.reqRepo.On("Get", ctx, int32(10), int32(5)).Return(&domain.JoinRequest{OrgID: 10, UserID: 5, Role: domain.JoinRoleCaptain}, nil).Once()
		f.userRepo.On("GetByID", ctx, int32(5)).Return(&domain.User{ID: 5, Email: "r@test.com", Name: "Riley"}, nil).Once()
		f.reqRepo.On("Remove", ctx, int32(10), int32(5)).Return(true, nil).Once()
		f.memberRepo.On("Add", ctx, mock.MatchedBy(func(m *domain.Member) bool {
			return m.UserID == 5 && !m.IsCaptain
		})).Return(true, nil).Once()
		f.orgRepo.On("RefreshCapacityStatus", ctx, int32(10)).Return(nil).Once()
		f.noteRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
		f.emailSvc.On("SendJoinDecision", ctx, "r@test.com", "Riley", "Rovers", true).Return(nil).Once()

		accepted, err := f.svc.AcceptJoin(ctx, 10, 5, 2)
		assert.NoError(t, err)
		assert.True(t, accepted)
		f.memberRepo.AssertExpectations(t)
	})

	t.Run("PlainMemberDenied", func(t *testing.T) {
		f := newMembershipFixture()
		f.orgRepo.On("GetByID", ctx, int32(10)).Return(activeOrg(), nil).Once()
		f.memberRepo.On("Get", ctx, int32(10), int32(3)).Return(&domain.Member{OrgID: 10, UserID: 3}, nil).Once()

		accepted, err := f.svc.AcceptJoin(ctx, 10, 5, 3)
		assert.NoError(t, err)
		assert.False(t, accepted)
	})

	t.Run("NoPendingRequest", func(t *testing.T) {
		f := newMembershipFixture()
		f.orgRepo.On("GetByID", ctx, int32(10)).Return(activeOrg(), nil).Once()
		f.memberRepo.On("Get", ctx, int32(10), int32(1)).Return(nil, nil).Once()
		f.reqRepo.On("Get", ctx, int32(10), int32(5)).Return(nil, nil).Once()

		accepted, err := f.svc.AcceptJoin(ctx, 10, 5, 1)
		assert.NoError(t, err)
		assert.False(t, accepted)
	})

	t.Run("FullOrganization", func(t *testing.T) {
		f := newMembershipFixture()
		org := activeOrg()
		org.MemberCount = 15
		f.orgRepo.On("GetByID", ctx, int32(10)).Return(org, nil).Once()
		f.memberRepo.On("Get", ctx, int32(10), int32(1)).Return(nil, nil).Once()
		f.reqRepo.On("Get", ctx, int32(10), int32(5)).Return(&domain.JoinRequest{OrgID: 10, UserID: 5, Role: domain.JoinRoleMember}, nil).Once()

		_, err := f.svc.AcceptJoin(ctx, 10, 5, 1)
		assert.True(t, errors.Is(err, domain.ErrBadRequest))
	})

	t.Run("LostRaceForLastSlot", func(t *testing.T) {
		f := newMembershipFixture()
		f.orgRepo.On("GetByID", ctx, int32(10)).Return(activeOrg(), nil).Once()
		f.memberRepo.On("Get", ctx, int32(10), int32(1)).Return(nil, nil).Once()
		f.reqRepo.On("Get", ctx, int32(10), int32(5)).Return(&domain.JoinRequest{OrgID: 10, UserID: 5, Role: domain.JoinRoleMember}, nil).Once()
		f.userRepo.On("GetByID", ctx, int32(5)).Return(&domain.User{ID: 5}, nil).Once()
		f.reqRepo.On("Remove", ctx, int32(10), int32(5)).Return(true, nil).Once()
		// The guarded insert refuses: somebody else took the slot first.
		f.memberRepo.On("Add", ctx, mock.Anything).Return(false, nil).Once()

		_, err := f.svc.AcceptJoin(ctx, 10, 5, 1)
		assert.True(t, errors.Is(err, domain.ErrBadRequest))
	})
}

func TestMembershipService_RejectJoin(t *testing.T) {
	ctx := context.Background()

	t.Run("AdminRejects", func(t *testing.T) {
		f := newMembershipFixture()
		f.orgRepo.On("GetByID", ctx, int32(10)).Return(activeOrg(), nil).Once()
		f.memberRepo.On("Get", ctx, int32(10), int32(1)).Return(nil, nil).Once()
		f.reqRepo.On("Remove", ctx, int32(10), int32(5)).Return(true, nil).Once()
		f.userRepo.On("GetByID", ctx, int32(5)).Return(&domain.User{ID: 5, Email: "r@test.com", Name: "Riley"}, nil).Once()
		f.noteRepo.On("Create", ctx, mock.MatchedBy(func(n *domain.Notification) bool {
			return n.UserID == 5 && n.Attributes["outcome"] == "rejected"
		})).Return(nil).Once()
		f.emailSvc.On("SendJoinDecision", ctx, "r@test.com", "Riley", "Rovers", false).Return(nil).Once()

		rejected, err := f.svc.RejectJoin(ctx, 10, 5, 1)
		assert.NoError(t, err)
		assert.True(t, rejected)
		f.noteRepo.AssertExpectations(t)
	})

	t.Run("NothingToReject", func(t *testing.T) {
		f := newMembershipFixture()
		f.orgRepo.On("GetByID", ctx, int32(10)).Return(activeOrg(), nil).Once()
		f.memberRepo.On("Get", ctx, int32(10), int32(1)).Return(nil, nil).Once()
		f.reqRepo.On("Remove", ctx, int32(10), int32(5)).Return(false, nil).Once()

		rejected, err := f.svc.RejectJoin(ctx, 10, 5, 1)
		assert.NoError(t, err)
		assert.False(t, rejected)
	})
}

func TestMembershipService_Leave(t *testing.T) {
	ctx := context.Background()

	t.Run("MemberLeavesAndOrgReopens", func(t *testing.T) {
		f := newMembershipFixture()
		org := activeOrg()
		org.Status = domain.OrgStatusFull
		f.orgRepo.On("GetByID", ctx, int32(10)).Return(org, nil).Once()
		f.memberRepo.On("Remove", ctx, int32(10), int32(5)).Return(true, nil).Once()
		f.orgRepo.On("RefreshCapacityStatus", ctx, int32(10)).Return(nil).Once()

		left, err := f.svc.Leave(ctx, 10, 5)
		assert.NoError(t, err)
		assert.True(t, left)
		f.orgRepo.AssertExpectations(t)
	})

	t.Run("AdminCannotLeave", func(t *testing.T) {
		f := newMembershipFixture()
		f.orgRepo.On("GetByID", ctx, int32(10)).Return(activeOrg(), nil).Once()

		_, err := f.svc.Leave(ctx, 10, 1)
		assert.True(t, errors.Is(err, domain.ErrBadRequest))
	})

	t.Run("NotAMember", func(t *testing.T) {
		f := newMembershipFixture()
		f.orgRepo.On("GetByID", ctx, int32(10)).Return(activeOrg(), nil).Once()
		f.memberRepo.On("Remove", ctx, int32(10), int32(9)).Return(false, nil).Once()

		left, err := f.svc.Leave(ctx, 10, 9)
		assert.NoError(t, err)
		assert.False(t, left)
	})
}

func TestMembershipService_ListJoinRequests(t *testing.T) {
	ctx := context.Background()

	t.Run("AdminSeesQueue", func(t *testing.T) {
		f := newMembershipFixture()
		f.orgRepo.On("GetByID", ctx, int32(10)).Return(activeOrg(), nil).Once()
		f.memberRepo.On("Get", ctx, int32(10), int32(1)).Return(nil, nil).Once()
		f.reqRepo.On("ListByOrg", ctx, int32(10)).Return([]domain.JoinRequest{{OrgID: 10, UserID: 5}}, nil).Once()

		reqs, err := f.svc.ListJoinRequests(ctx, 10, 1)
		assert.NoError(t, err)
		assert.Len(t, reqs, 1)
	})

	t.Run("OutsiderSeesNothing", func(t *testing.T) {
		f := newMembershipFixture()
		f.orgRepo.On("GetByID", ctx, int32(10)).Return(activeOrg(), nil).Once()
		f.memberRepo.On("Get", ctx, int32(10), int32(9)).Return(nil, nil).Once()

		reqs, err := f.svc.ListJoinRequests(ctx, 10, 9)
		assert.NoError(t, err)
		assert.Nil(t, reqs)
	})
}
