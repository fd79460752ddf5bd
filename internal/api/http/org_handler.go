package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"squadhub-backend/internal/domain"
	"squadhub-backend/internal/service"
)

// orgHandler serves one organization kind; the router mounts two instances,
// one under /clubs and one under /groups.
type orgHandler struct {
	orgs       service.OrganizationService
	membership service.MembershipService
	kind       domain.OrgKind
}

type createOrgRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Sport       string `json:"sport"`
	City        string `json:"city"`
	MaxPlayers  int32  `json:"max_players"`
}

type joinRequestBody struct {
	Role domain.JoinRole `json:"role"`
	Note string          `json:"note"`
}

func pathID(r *http.Request, name string) (int32, bool) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		return 0, false
	}
	return int32(id), true
}

// load fetches the organization and enforces that it belongs to this
// handler's kind, so a group never leaks through a /clubs URL.
func (h *orgHandler) load(w http.ResponseWriter, r *http.Request) (*domain.Organization, bool) {
	id, ok := pathID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, envelope{Message: "invalid organization id"})
		return nil, false
	}
	org, err := h.orgs.GetOrganization(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	if org == nil || org.Kind != h.kind {
		writeNotFoundOrDenied(w)
		return nil, false
	}
	return org, true
}

func (h *orgHandler) Create(w http.ResponseWriter, r *http.Request) {
	actorID := userIDFrom(r)

	var req createOrgRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, envelope{Message: "name is required"})
		return
	}

	org, err := h.orgs.CreateOrganization(r.Context(), actorID, &domain.Organization{
		Kind:        h.kind,
		Name:        req.Name,
		Description: req.Description,
		Sport:       req.Sport,
		City:        req.City,
		MaxPlayers:  req.MaxPlayers,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, org)
}

func (h *orgHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	actorID := userIDFrom(r)

	orgs, err := h.orgs.ListMyOrganizations(r.Context(), actorID, h.kind)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, orgs)
}

func (h *orgHandler) Get(w http.ResponseWriter, r *http.Request) {
	org, ok := h.load(w, r)
	if !ok {
		return
	}
	writeData(w, http.StatusOK, org)
}

func (h *orgHandler) Update(w http.ResponseWriter, r *http.Request) {
	actorID := userIDFrom(r)
	org, ok := h.load(w, r)
	if !ok {
		return
	}

	var patch domain.OrganizationPatch
	if !decodeBody(w, r, &patch) {
		return
	}

	updated, err := h.orgs.UpdateOrganization(r.Context(), org.ID, actorID, &patch)
	if err != nil {
		writeError(w, err)
		return
	}
	if updated == nil {
		writeNotFoundOrDenied(w)
		return
	}
	writeData(w, http.StatusOK, updated)
}

func (h *orgHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actorID := userIDFrom(r)
	org, ok := h.load(w, r)
	if !ok {
		return
	}

	deleted, err := h.orgs.DeleteOrganization(r.Context(), org.ID, actorID)
	if err != nil {
		writeError(w, err)
		return
	}
	if !deleted {
		writeNotFoundOrDenied(w)
		return
	}
	writeMessage(w, http.StatusOK, "organization deleted")
}

func (h *orgHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	org, ok := h.load(w, r)
	if !ok {
		return
	}

	members, err := h.membership.ListMembers(r.Context(), org.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, members)
}

func (h *orgHandler) RequestJoin(w http.ResponseWriter, r *http.Request) {
	actorID := userIDFrom(r)
	org, ok := h.load(w, r)
	if !ok {
		return
	}

	var req joinRequestBody
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Role == "" {
		req.Role = domain.JoinRoleMember
	}

	added, err := h.membership.RequestJoin(r.Context(), org.ID, actorID, req.Role, req.Note)
	if err != nil {
		writeError(w, err)
		return
	}
	if !added {
		writeConflict(w, "already a member or request already pending")
		return
	}
	writeMessage(w, http.StatusCreated, "join request submitted")
}

func (h *orgHandler) CancelJoin(w http.ResponseWriter, r *http.Request) {
	actorID := userIDFrom(r)
	org, ok := h.load(w, r)
	if !ok {
		return
	}

	removed, err := h.membership.CancelJoin(r.Context(), org.ID, actorID)
	if err != nil {
		writeError(w, err)
		return
	}
	if !removed {
		writeNotFoundOrDenied(w)
		return
	}
	writeMessage(w, http.StatusOK, "join request cancelled")
}

func (h *orgHandler) ListJoinRequests(w http.ResponseWriter, r *http.Request) {
	actorID := userIDFrom(r)
	org, ok := h.load(w, r)
	if !ok {
		return
	}

	requests, err := h.membership.ListJoinRequests(r.Context(), org.ID, actorID)
	if err != nil {
		writeError(w, err)
		return
	}
	if requests == nil {
		writeNotFoundOrDenied(w)
		return
	}
	writeData(w, http.StatusOK, requests)
}

func (h *orgHandler) AcceptJoin(w http.ResponseWriter, r *http.Request) {
	h.decideJoin(w, r, h.membership.AcceptJoin, "join request accepted")
}

func (h *orgHandler) RejectJoin(w http.ResponseWriter, r *http.Request) {
	h.decideJoin(w, r, h.membership.RejectJoin, "join request rejected")
}

func (h *orgHandler) decideJoin(w http.ResponseWriter, r *http.Request, decide func(ctx context.Context, orgID, requesterID, actorID int32) (bool, error), okMsg string) {
	actorID := userIDFrom(r)
	org, ok := h.load(w, r)
	if !ok {
		return
	}
	requesterID, ok := pathID(r, "userId")
	if !ok {
		writeJSON(w, http.StatusBadRequest, envelope{Message: "invalid user id"})
		return
	}

	done, err := decide(r.Context(), org.ID, requesterID, actorID)
	if err != nil {
		writeError(w, err)
		return
	}
	if !done {
		writeNotFoundOrDenied(w)
		return
	}
	writeMessage(w, http.StatusOK, okMsg)
}

func (h *orgHandler) Leave(w http.ResponseWriter, r *http.Request) {
	actorID := userIDFrom(r)
	org, ok := h.load(w, r)
	if !ok {
		return
	}

	left, err := h.membership.Leave(r.Context(), org.ID, actorID)
	if err != nil {
		writeError(w, err)
		return
	}
	if !left {
		writeNotFoundOrDenied(w)
		return
	}
	writeMessage(w, http.StatusOK, "left organization")
}
