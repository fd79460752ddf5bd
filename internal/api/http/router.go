package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"squadhub-backend/internal/domain"
	"squadhub-backend/internal/security"
	"squadhub-backend/internal/service"
)

// Services bundles everything the router needs.
type Services struct {
	Auth          service.AuthService
	Users         service.UserService
	Organizations service.OrganizationService
	Membership    service.MembershipService
	Subscriptions service.SubscriptionService
	Notifications service.NotificationService
	Tokens        security.TokenManager
}

// NewRouter wires all API routes under /api/v1. Everything except the auth
// endpoints and the health check sits behind bearer authentication.
func NewRouter(svc Services) *mux.Router {
	root := mux.NewRouter()
	root.Use(RequestID, Logging)

	root.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusOK, "ok")
	}).Methods(http.MethodGet)

	api := root.PathPrefix("/api/v1").Subrouter()

	ah := &authHandler{auth: svc.Auth}
	api.HandleFunc("/auth/signup", ah.Signup).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", ah.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/refresh", ah.Refresh).Methods(http.MethodPost)

	protected := api.NewRoute().Subrouter()
	protected.Use(Authenticate(svc.Tokens))

	uh := &userHandler{users: svc.Users, subs: svc.Subscriptions}
	protected.HandleFunc("/users/me", uh.GetProfile).Methods(http.MethodGet)
	protected.HandleFunc("/users/me", uh.UpdateProfile).Methods(http.MethodPut)
	protected.HandleFunc("/users/me/subscription", uh.ChangeSubscription).Methods(http.MethodPut)

	nh := &notificationHandler{notifications: svc.Notifications}
	protected.HandleFunc("/notifications", nh.List).Methods(http.MethodGet)
	protected.HandleFunc("/notifications/{id}/read", nh.MarkAsRead).Methods(http.MethodPost)

	mountOrgRoutes(protected, "/clubs", &orgHandler{
		orgs:       svc.Organizations,
		membership: svc.Membership,
		kind:       domain.OrgKindClub,
	})
	mountOrgRoutes(protected, "/groups", &orgHandler{
		orgs:       svc.Organizations,
		membership: svc.Membership,
		kind:       domain.OrgKindGroup,
	})

	return root
}

func mountOrgRoutes(parent *mux.Router, prefix string, h *orgHandler) {
	r := parent.PathPrefix(prefix).Subrouter()
	r.HandleFunc("", h.Create).Methods(http.MethodPost)
	r.HandleFunc("", h.ListMine).Methods(http.MethodGet)
	r.HandleFunc("/{id}", h.Get).Methods(http.MethodGet)
	r.HandleFunc("/{id}", h.Update).Methods(http.MethodPut)
	r.HandleFunc("/{id}", h.Delete).Methods(http.MethodDelete)
	r.HandleFunc("/{id}/members", h.ListMembers).Methods(http.MethodGet)
	r.HandleFunc("/{id}/leave", h.Leave).Methods(http.MethodPost)
	r.HandleFunc("/{id}/join-requests", h.RequestJoin).Methods(http.MethodPost)
	r.HandleFunc("/{id}/join-requests", h.ListJoinRequests).Methods(http.MethodGet)
	r.HandleFunc("/{id}/join-requests", h.CancelJoin).Methods(http.MethodDelete)
	r.HandleFunc("/{id}/join-requests/{userId}/accept", h.AcceptJoin).Methods(http.MethodPost)
	r.HandleFunc("/{id}/join-requests/{userId}/reject", h.RejectJoin).Methods(http.MethodPost)
}
