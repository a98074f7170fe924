package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kjkhy9/perfectplan/internal/models"
)

// CreateGroup persists a new group and its initial member set in one
// transaction. Invite-code collisions surface as *models.ConflictError so
// the caller can regenerate codes and retry.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO groups (id, name, member_code, guest_code, creator_id, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		group.ID, group.Name, group.MemberCode, group.GuestCode, group.CreatorID, group.CreatedAt,
	)
	if isUniqueViolation(err) {
		return &models.ConflictError{Reason: "invite code collision"}
	}
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}

	for _, userID := range group.Members {
		_, err = tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO group_members (group_id, user_id) VALUES (?, ?)",
			group.ID, userID,
		)
		if err != nil {
			return fmt.Errorf("failed to insert group member: %w", err)
		}
	}
	for _, userID := range group.Guests {
		_, err = tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO group_guests (group_id, user_id) VALUES (?, ?)",
			group.ID, userID,
		)
		if err != nil {
			return fmt.Errorf("failed to insert group guest: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetGroup retrieves a group by ID, including member and guest sets.
func (s *SQLiteStore) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	return s.getGroup(ctx, "id = ?", groupID)
}

// GetGroupByCode retrieves the group whose member or guest code equals code.
func (s *SQLiteStore) GetGroupByCode(ctx context.Context, code string) (*models.Group, error) {
	return s.getGroup(ctx, "member_code = ?1 OR guest_code = ?1", code)
}

func (s *SQLiteStore) getGroup(ctx context.Context, where, arg string) (*models.Group, error) {
	group := &models.Group{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, member_code, guest_code, creator_id, created_at FROM groups WHERE "+where,
		arg,
	).Scan(&group.ID, &group.Name, &group.MemberCode, &group.GuestCode, &group.CreatorID, &group.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, &models.NotFoundError{Entity: "group", ID: arg}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	if err := s.loadGroupSets(ctx, group); err != nil {
		return nil, err
	}

	return group, nil
}

// loadGroupSets fills in the member and guest user-ID sets for a group.
func (s *SQLiteStore) loadGroupSets(ctx context.Context, group *models.Group) error {
	members, err := s.listGroupUsers(ctx, "group_members", group.ID)
	if err != nil {
		return err
	}
	group.Members = members

	guests, err := s.listGroupUsers(ctx, "group_guests", group.ID)
	if err != nil {
		return err
	}
	group.Guests = guests

	return nil
}

func (s *SQLiteStore) listGroupUsers(ctx context.Context, table, groupID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT user_id FROM "+table+" WHERE group_id = ? ORDER BY user_id",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer rows.Close()

	var userIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", table, err)
		}
		userIDs = append(userIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s: %w", table, err)
	}

	return userIDs, nil
}

// AddGroupMember idempotently adds the user to the group's member set.
func (s *SQLiteStore) AddGroupMember(ctx context.Context, groupID, userID string) error {
	return s.addGroupUser(ctx, "group_members", groupID, userID)
}

// AddGroupGuest idempotently adds the user to the group's guest set.
func (s *SQLiteStore) AddGroupGuest(ctx context.Context, groupID, userID string) error {
	return s.addGroupUser(ctx, "group_guests", groupID, userID)
}

func (s *SQLiteStore) addGroupUser(ctx context.Context, table, groupID, userID string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO "+table+" (group_id, user_id) VALUES (?, ?)",
		groupID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to add user to %s: %w", table, err)
	}
	return nil
}

// RemoveGroupUser removes the user from both the member and guest sets.
func (s *SQLiteStore) RemoveGroupUser(ctx context.Context, groupID, userID string) error {
	for _, table := range []string{"group_members", "group_guests"} {
		_, err := s.db.ExecContext(ctx,
			"DELETE FROM "+table+" WHERE group_id = ? AND user_id = ?",
			groupID, userID,
		)
		if err != nil {
			return fmt.Errorf("failed to remove user from %s: %w", table, err)
		}
	}
	return nil
}

// DeleteGroup deletes a group; events, polls, votes and messages cascade.
func (s *SQLiteStore) DeleteGroup(ctx context.Context, groupID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM groups WHERE id = ?", groupID)
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return &models.NotFoundError{Entity: "group", ID: groupID}
	}
	return nil
}

// ListGroupsByCreator returns groups created by the user.
func (s *SQLiteStore) ListGroupsByCreator(ctx context.Context, userID string) ([]*models.Group, error) {
	return s.listGroups(ctx,
		"SELECT id, name, member_code, guest_code, creator_id, created_at FROM groups WHERE creator_id = ? ORDER BY created_at, id",
		userID,
	)
}

// ListGroupsByMember returns groups whose member set contains the user.
func (s *SQLiteStore) ListGroupsByMember(ctx context.Context, userID string) ([]*models.Group, error) {
	return s.listGroups(ctx,
		`SELECT g.id, g.name, g.member_code, g.guest_code, g.creator_id, g.created_at
		 FROM groups g JOIN group_members m ON m.group_id = g.id
		 WHERE m.user_id = ? ORDER BY g.created_at, g.id`,
		userID,
	)
}

// ListGroupsByGuest returns groups whose guest set contains the user.
func (s *SQLiteStore) ListGroupsByGuest(ctx context.Context, userID string) ([]*models.Group, error) {
	return s.listGroups(ctx,
		`SELECT g.id, g.name, g.member_code, g.guest_code, g.creator_id, g.created_at
		 FROM groups g JOIN group_guests u ON u.group_id = g.id
		 WHERE u.user_id = ? ORDER BY g.created_at, g.id`,
		userID,
	)
}

func (s *SQLiteStore) listGroups(ctx context.Context, query, userID string) ([]*models.Group, error) {
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []*models.Group
	for rows.Next() {
		group := &models.Group{}
		if err := rows.Scan(&group.ID, &group.Name, &group.MemberCode, &group.GuestCode, &group.CreatorID, &group.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating groups: %w", err)
	}

	for _, group := range groups {
		if err := s.loadGroupSets(ctx, group); err != nil {
			return nil, err
		}
	}

	return groups, nil
}
