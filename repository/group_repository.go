// repository/group_repository.go
package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/fadhlanhapp/nexbill-backend/models"
)

// GroupRepository handles database operations for groups
type GroupRepository struct {
	DB *sqlx.DB
}

// NewGroupRepository creates a new GroupRepository
func NewGroupRepository(db *sqlx.DB) *GroupRepository {
	return &GroupRepository{DB: db}
}

type groupRow struct {
	ID   string `db:"id"`
	Name string `db:"name"`
}

// StoreGroup saves a group and replaces its member list
func (r *GroupRepository) StoreGroup(ctx context.Context, group *models.Group) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, tx.Rebind(
		`INSERT INTO person_groups (id, name) VALUES (?, ?)
         ON CONFLICT (id) DO UPDATE SET name = excluded.name`),
		group.ID, group.Name,
	)
	if err != nil {
		return fmt.Errorf("failed to store group: %w", err)
	}

	if _, err = tx.ExecContext(ctx, tx.Rebind("DELETE FROM group_members WHERE group_id = ?"), group.ID); err != nil {
		return fmt.Errorf("failed to clear group members: %w", err)
	}

	for position, personID := range group.MemberIDs {
		_, err = tx.ExecContext(ctx, tx.Rebind(
			"INSERT INTO group_members (group_id, position, person_id) VALUES (?, ?, ?)"),
			group.ID, position, personID,
		)
		if err != nil {
			return fmt.Errorf("failed to insert group member: %w", err)
		}
	}

	return tx.Commit()
}

// GetGroups retrieves all groups with their members, sorted by name
func (r *GroupRepository) GetGroups(ctx context.Context) ([]*models.Group, error) {
	var rows []groupRow
	if err := r.DB.SelectContext(ctx, &rows, "SELECT id, name FROM person_groups ORDER BY name ASC, id ASC"); err != nil {
		return nil, fmt.Errorf("failed to get groups: %w", err)
	}

	var members []linkRow
	err := r.DB.SelectContext(ctx, &members,
		"SELECT group_id AS owner_id, person_id FROM group_members ORDER BY group_id, position")
	if err != nil {
		return nil, fmt.Errorf("failed to get group members: %w", err)
	}

	memberIDs := make(map[string][]string)
	for _, link := range members {
		memberIDs[link.OwnerID] = append(memberIDs[link.OwnerID], link.PersonID)
	}

	groups := make([]*models.Group, 0, len(rows))
	for _, row := range rows {
		ids := memberIDs[row.ID]
		if ids == nil {
			ids = []string{}
		}
		groups = append(groups, &models.Group{ID: row.ID, Name: row.Name, MemberIDs: ids})
	}
	return groups, nil
}

// RemoveGroup deletes a group and its member list
func (r *GroupRepository) RemoveGroup(ctx context.Context, groupID string) (bool, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM group_members WHERE group_id = ?"), groupID); err != nil {
		return false, fmt.Errorf("failed to delete group members: %w", err)
	}

	result, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM person_groups WHERE id = ?"), groupID)
	if err != nil {
		return false, fmt.Errorf("failed to delete group: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check deleted group: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit group deletion: %w", err)
	}
	return affected > 0, nil
}

// Store interface, groups

func (s *SQLStore) SaveGroup(ctx context.Context, group *models.Group) error {
	return s.groups.StoreGroup(ctx, group)
}

func (s *SQLStore) ListGroups(ctx context.Context) ([]*models.Group, error) {
	return s.groups.GetGroups(ctx)
}

func (s *SQLStore) DeleteGroup(ctx context.Context, groupID string) (bool, error) {
	return s.groups.RemoveGroup(ctx, groupID)
}
