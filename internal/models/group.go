package models

// Role describes a user's relationship to a group. Owner supersedes guest,
// and guest supersedes plain member, for authorization purposes.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleMember Role = "member"
	RoleGuest  Role = "guest"
)

// Group is a shared scheduling group. Membership is modeled as two
// independent sets (members and guests) rather than a single role field:
// role resolution is a pure function over both sets plus creator identity,
// so there is no stored role that can drift from the underlying sets.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string `json:"id"`

	// Name is the display name of the group.
	Name string `json:"name"`

	// MemberCode is the invite code that confers full membership.
	MemberCode string `json:"memberCode"`

	// GuestCode is the invite code that confers read-mostly guest access.
	GuestCode string `json:"guestCode"`

	// CreatorID is the user who created the group. Exactly one, immutable.
	CreatorID string `json:"creatorId"`

	// Members holds user IDs with member status. The creator is always
	// included.
	Members []string `json:"members"`

	// Guests holds user IDs with guest status. A user may appear in both
	// Members and Guests; the sets are not deduplicated against each other.
	Guests []string `json:"guests"`

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64 `json:"createdAt"`
}

// RoleOf resolves the user's role in this group. The second return value is
// false when the user has no relationship to the group at all.
func (g *Group) RoleOf(userID string) (Role, bool) {
	if g.CreatorID == userID {
		return RoleOwner, true
	}
	for _, id := range g.Guests {
		if id == userID {
			return RoleGuest, true
		}
	}
	for _, id := range g.Members {
		if id == userID {
			return RoleMember, true
		}
	}
	return "", false
}

// HasMember reports whether the user is in the members set.
func (g *Group) HasMember(userID string) bool {
	for _, id := range g.Members {
		if id == userID {
			return true
		}
	}
	return false
}

// GroupMember pairs a user ID with their display handle, for hydrated views.
type GroupMember struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

// GroupDetail is a group annotated with the viewing user's role and the
// resolved handles of its members and guests.
type GroupDetail struct {
	Group   *Group        `json:"group"`
	Role    Role          `json:"role"`
	Members []GroupMember `json:"members"`
	Guests  []GroupMember `json:"guests"`
}

// UserGroups is the three-view answer to "which groups does this user belong
// to". A group may legitimately appear in more than one view when the user
// holds multiple roles; the views are labeled, not deduplicated.
type UserGroups struct {
	Created []*GroupDetail `json:"created"`
	Joined  []*GroupDetail `json:"joined"`
	Guest   []*GroupDetail `json:"guest"`
}
