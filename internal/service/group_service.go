package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kjkhy9/perfectplan/internal/invite"
	"github.com/kjkhy9/perfectplan/internal/models"
	"github.com/kjkhy9/perfectplan/internal/storage"
)

// maxCodeAttempts bounds the regenerate-and-retry loop on invite-code
// collisions. With 36^6 codes per pool, a second collision in a row
// indicates something worse than bad luck.
const maxCodeAttempts = 3

// GroupService owns the group membership state machine: creation, invite
// code redemption, leaving, and the per-user group views.
type GroupService struct {
	store storage.Store
}

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store) *GroupService {
	return &GroupService{store: store}
}

// CreateGroup creates a group owned by ownerID, with fresh member and guest
// invite codes and the owner as sole initial member.
func (s *GroupService) CreateGroup(ctx context.Context, name, ownerID string) (*models.Group, error) {
	if strings.TrimSpace(name) == "" {
		return nil, &models.ValidationError{Reason: "group name is required"}
	}

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		memberCode, guestCode, err := invite.NewCodePair()
		if err != nil {
			return nil, err
		}

		group := &models.Group{
			Name:       name,
			MemberCode: memberCode,
			GuestCode:  guestCode,
			CreatorID:  ownerID,
			Members:    []string{ownerID},
		}

		err = s.store.CreateGroup(ctx, group)
		var conflict *models.ConflictError
		if errors.As(err, &conflict) {
			slog.Warn("invite code collision, regenerating", "attempt", attempt+1)
			continue
		}
		if err != nil {
			return nil, err
		}

		slog.Info("group created", "group_id", group.ID, "owner", ownerID)
		return group, nil
	}

	return nil, fmt.Errorf("failed to generate unique invite codes after %d attempts", maxCodeAttempts)
}

// JoinGroup redeems an invite code. A member code adds the user to the
// member set, a guest code to the guest set; both are idempotent, and a
// user may end up in both sets via the two codes.
func (s *GroupService) JoinGroup(ctx context.Context, code, userID string) (*models.Group, error) {
	group, err := s.store.GetGroupByCode(ctx, code)
	if err != nil {
		var notFound *models.NotFoundError
		if errors.As(err, &notFound) {
			return nil, &models.NotFoundError{Entity: "invite code"}
		}
		return nil, err
	}

	switch code {
	case group.MemberCode:
		if err := s.store.AddGroupMember(ctx, group.ID, userID); err != nil {
			return nil, err
		}
	case group.GuestCode:
		if err := s.store.AddGroupGuest(ctx, group.ID, userID); err != nil {
			return nil, err
		}
	}

	slog.Info("user joined group", "group_id", group.ID, "user_id", userID)
	return s.store.GetGroup(ctx, group.ID)
}

// LeaveResult reports the outcome of LeaveGroup.
type LeaveResult struct {
	// GroupDeleted is true when the leaving user was the creator and sole
	// member, which deletes the group and everything it owns.
	GroupDeleted bool
}

// LeaveGroup removes the user from the group. The creator may only leave a
// group no one else is a member of, in which case the group is deleted.
func (s *GroupService) LeaveGroup(ctx context.Context, groupID, userID string) (*LeaveResult, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	if group.CreatorID == userID {
		others := 0
		for _, id := range group.Members {
			if id != userID {
				others++
			}
		}
		if others > 0 {
			return nil, &models.AuthorizationError{Reason: "creator cannot leave a group with members"}
		}

		if err := s.store.DeleteGroup(ctx, groupID); err != nil {
			return nil, err
		}
		slog.Info("group deleted, creator left with no members remaining", "group_id", groupID)
		return &LeaveResult{GroupDeleted: true}, nil
	}

	if err := s.store.RemoveGroupUser(ctx, groupID, userID); err != nil {
		return nil, err
	}
	slog.Info("user left group", "group_id", groupID, "user_id", userID)
	return &LeaveResult{}, nil
}

// GetUserGroups assembles the three labeled views of a user's groups:
// created, joined as member (excluding created), and joined as guest. A
// group may appear in more than one view when the user holds several roles.
func (s *GroupService) GetUserGroups(ctx context.Context, userID string) (*models.UserGroups, error) {
	created, err := s.store.ListGroupsByCreator(ctx, userID)
	if err != nil {
		return nil, err
	}

	member, err := s.store.ListGroupsByMember(ctx, userID)
	if err != nil {
		return nil, err
	}
	var joined []*models.Group
	for _, g := range member {
		if g.CreatorID != userID {
			joined = append(joined, g)
		}
	}

	guest, err := s.store.ListGroupsByGuest(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := &models.UserGroups{}
	if result.Created, err = s.hydrate(ctx, created, models.RoleOwner); err != nil {
		return nil, err
	}
	if result.Joined, err = s.hydrate(ctx, joined, models.RoleMember); err != nil {
		return nil, err
	}
	if result.Guest, err = s.hydrate(ctx, guest, models.RoleGuest); err != nil {
		return nil, err
	}

	return result, nil
}

// hydrate resolves user IDs into display handles for a list of groups.
func (s *GroupService) hydrate(ctx context.Context, groups []*models.Group, role models.Role) ([]*models.GroupDetail, error) {
	var ids []string
	for _, g := range groups {
		ids = append(ids, g.Members...)
		ids = append(ids, g.Guests...)
	}

	users, err := s.store.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	details := make([]*models.GroupDetail, 0, len(groups))
	for _, g := range groups {
		detail := &models.GroupDetail{Group: g, Role: role}
		for _, id := range g.Members {
			detail.Members = append(detail.Members, groupMember(id, users))
		}
		for _, id := range g.Guests {
			detail.Guests = append(detail.Guests, groupMember(id, users))
		}
		details = append(details, detail)
	}

	return details, nil
}

func groupMember(userID string, users map[string]*models.User) models.GroupMember {
	m := models.GroupMember{UserID: userID}
	if u, ok := users[userID]; ok {
		m.Username = u.Username
	}
	return m
}
