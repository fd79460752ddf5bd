package http

import (
	"net/http"

	"squadhub-backend/internal/domain"
	"squadhub-backend/internal/service"
)

type userHandler struct {
	users service.UserService
	subs  service.SubscriptionService
}

type updateProfileRequest struct {
	Name        string   `json:"name"`
	SkillRating int32    `json:"skill_rating"`
	Positions   []string `json:"positions"`
	DeviceToken string   `json:"device_token"`
}

type changeSubscriptionRequest struct {
	Tier domain.Tier `json:"tier"`
}

func (h *userHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)

	user, orgs, pending, err := h.users.GetProfile(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	clubs := make([]domain.Organization, 0)
	groups := make([]domain.Organization, 0)
	for _, org := range orgs {
		if org.Kind == domain.OrgKindClub {
			clubs = append(clubs, org)
		} else {
			groups = append(groups, org)
		}
	}

	writeData(w, http.StatusOK, map[string]any{
		"user":                  user,
		"clubs":                 clubs,
		"groups":                groups,
		"pending_join_requests": pending,
	})
}

func (h *userHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)

	var req updateProfileRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := h.users.UpdateProfile(r.Context(), userID, req.Name, req.SkillRating, req.Positions, req.DeviceToken)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, user)
}

func (h *userHandler) ChangeSubscription(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)

	var req changeSubscriptionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := h.subs.ChangeSubscription(r.Context(), userID, req.Tier)
	if err != nil {
		writeError(w, err)
		return
	}
	if user == nil {
		writeNotFoundOrDenied(w)
		return
	}
	writeData(w, http.StatusOK, user)
}
