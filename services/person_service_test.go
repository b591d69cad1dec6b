package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fadhlanhapp/nexbill-backend/utils"
)

func TestPersonService_CurrentUserCreatedOnce(t *testing.T) {
	store := newMemoryStore()
	service := NewPersonService(store, "Fadhlan")
	ctx := context.Background()

	first, err := service.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, utils.CurrentUserID, first.ID)
	assert.Equal(t, "Fadhlan", first.Name)

	second, err := service.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Same(t, first, second)

	user, err := service.UserContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, utils.CurrentUserID, user.PersonID)
	assert.Equal(t, "Fadhlan", user.Name)
}

func TestPersonService_Friends(t *testing.T) {
	store := newMemoryStore()
	service := NewPersonService(store, "")
	ctx := context.Background()

	_, err := service.CurrentUser(ctx)
	require.NoError(t, err)

	dika, err := service.AddFriend(ctx, "  Dika ")
	require.NoError(t, err)
	assert.Equal(t, "Dika", dika.Name)
	assert.Contains(t, utils.PersonColors, dika.ColorName)

	_, err = service.AddFriend(ctx, "Ajeng")
	require.NoError(t, err)

	friends, err := service.ListFriends(ctx)
	require.NoError(t, err)
	require.Len(t, friends, 2)
	assert.Equal(t, "Ajeng", friends[0].Name)
	assert.Equal(t, "Dika", friends[1].Name)

	_, err = service.AddFriend(ctx, "   ")
	assert.Equal(t, utils.KindValidationFailed, utils.KindOf(err))
}

func TestPersonService_RemoveFriend(t *testing.T) {
	store := newMemoryStore()
	service := NewPersonService(store, "Me")
	ctx := context.Background()

	friend, err := service.AddFriend(ctx, "Tash")
	require.NoError(t, err)

	require.NoError(t, service.RemoveFriend(ctx, friend.ID))
	assert.Equal(t, utils.KindNotFound, utils.KindOf(service.RemoveFriend(ctx, friend.ID)))
	assert.Equal(t, utils.KindValidationFailed, utils.KindOf(service.RemoveFriend(ctx, utils.CurrentUserID)))
}

func TestPersonService_ResolveRemovedContact(t *testing.T) {
	store := newMemoryStore()
	service := NewPersonService(store, "Me")
	ctx := context.Background()

	_, err := service.CurrentUser(ctx)
	require.NoError(t, err)
	friend, err := service.AddFriend(ctx, "Joj")
	require.NoError(t, err)
	gone, err := service.AddFriend(ctx, "Ji")
	require.NoError(t, err)
	require.NoError(t, service.RemoveFriend(ctx, gone.ID))

	views, err := service.Resolve(ctx, []string{utils.CurrentUserID, gone.ID, friend.ID})
	require.NoError(t, err)
	require.Len(t, views, 3)

	assert.Equal(t, "Me", views[0].Name)
	assert.False(t, views[0].Removed)

	assert.Equal(t, gone.ID, views[1].ID)
	assert.Equal(t, utils.RemovedPersonName, views[1].Name)
	assert.True(t, views[1].Removed)

	assert.Equal(t, "Joj", views[2].Name)
}

func TestPersonService_RenamePropagates(t *testing.T) {
	store := newMemoryStore()
	service := NewPersonService(store, "Me")
	ctx := context.Background()

	friend, err := service.AddFriend(ctx, "Del")
	require.NoError(t, err)
	friend.Name = "Adel"
	require.NoError(t, store.SavePerson(ctx, friend))

	views, err := service.Resolve(ctx, []string{friend.ID})
	require.NoError(t, err)
	assert.Equal(t, "Adel", views[0].Name)
}

func TestGroupService(t *testing.T) {
	store := newMemoryStore()
	service := NewGroupService(store)
	ctx := context.Background()

	group, err := service.CreateGroup(ctx, " Makan Siang ", []string{"p1", "p2", "p1", ""})
	require.NoError(t, err)
	assert.Equal(t, "Makan Siang", group.Name)
	assert.Equal(t, []string{"p1", "p2"}, group.MemberIDs)

	_, err = service.CreateGroup(ctx, "", nil)
	assert.Equal(t, utils.KindValidationFailed, utils.KindOf(err))

	found, err := service.GetGroup(ctx, group.ID)
	require.NoError(t, err)
	assert.Equal(t, group.ID, found.ID)

	groups, err := service.ListGroups(ctx)
	require.NoError(t, err)
	assert.Len(t, groups, 1)

	require.NoError(t, service.DeleteGroup(ctx, group.ID))
	assert.Equal(t, utils.KindNotFound, utils.KindOf(service.DeleteGroup(ctx, group.ID)))
	_, err = service.GetGroup(ctx, group.ID)
	assert.Equal(t, utils.KindNotFound, utils.KindOf(err))
}
