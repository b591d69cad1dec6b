package services

import (
	"context"

	"github.com/fadhlanhapp/nexbill-backend/models"
	"github.com/fadhlanhapp/nexbill-backend/repository"
	"github.com/fadhlanhapp/nexbill-backend/utils"
)

// GroupService manages saved groups of people
type GroupService struct {
	store repository.Store
}

// NewGroupService creates a new group service
func NewGroupService(store repository.Store) *GroupService {
	return &GroupService{store: store}
}

// CreateGroup stores a new group
func (s *GroupService) CreateGroup(ctx context.Context, name string, memberIDs []string) (*models.Group, error) {
	name = utils.CleanName(name)
	if err := utils.ValidateRequired(name, "group name"); err != nil {
		return nil, err
	}

	group := &models.Group{
		ID:        utils.GenerateID(),
		Name:      name,
		MemberIDs: uniqueIDs(memberIDs),
	}
	if err := s.store.SaveGroup(ctx, group); err != nil {
		return nil, utils.NewInternalError(utils.ErrFailedToStore, err)
	}
	return group, nil
}

// ListGroups returns all groups sorted by name
func (s *GroupService) ListGroups(ctx context.Context) ([]*models.Group, error) {
	groups, err := s.store.ListGroups(ctx)
	if err != nil {
		return nil, utils.NewInternalError(utils.ErrFailedToRetrieve, err)
	}
	return groups, nil
}

// GetGroup finds one group by id
func (s *GroupService) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	groups, err := s.ListGroups(ctx)
	if err != nil {
		return nil, err
	}
	for _, group := range groups {
		if group.ID == groupID {
			return group, nil
		}
	}
	return nil, utils.NewNotFoundError(utils.ErrGroupNotFound)
}

// DeleteGroup removes a group
func (s *GroupService) DeleteGroup(ctx context.Context, groupID string) error {
	deleted, err := s.store.DeleteGroup(ctx, groupID)
	if err != nil {
		return utils.NewInternalError("Failed to delete group", err)
	}
	if !deleted {
		return utils.NewNotFoundError(utils.ErrGroupNotFound)
	}
	return nil
}

// uniqueIDs drops blanks and repeats, keeping first-seen order
func uniqueIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
