package handler

import (
	"net/http"

	"github.com/kjkhy9/perfectplan/internal/middleware"
	"github.com/kjkhy9/perfectplan/internal/service"
)

// GroupHandler serves group creation, membership, and listing endpoints.
type GroupHandler struct {
	groupService *service.GroupService
}

func NewGroupHandler(groupService *service.GroupService) *GroupHandler {
	return &GroupHandler{groupService: groupService}
}

type createGroupRequest struct {
	Name string `json:"name"`
}

type joinGroupRequest struct {
	Code string `json:"code"`
}

type leaveGroupRequest struct {
	GroupID string `json:"groupId"`
}

type leaveGroupResponse struct {
	GroupDeleted bool `json:"groupDeleted"`
}

func (h *GroupHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	var req createGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	group, err := h.groupService.CreateGroup(r.Context(), req.Name, userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, group)
}

func (h *GroupHandler) Join(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	var req joinGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	group, err := h.groupService.JoinGroup(r.Context(), req.Code, userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, group)
}

func (h *GroupHandler) Leave(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	var req leaveGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.groupService.LeaveGroup(r.Context(), req.GroupID, userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, leaveGroupResponse{GroupDeleted: result.GroupDeleted})
}

// ListMine returns the calling user's groups split by relationship.
func (h *GroupHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	groups, err := h.groupService.GetUserGroups(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, groups)
}
