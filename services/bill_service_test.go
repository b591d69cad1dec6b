package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fadhlanhapp/nexbill-backend/repository"
	"github.com/fadhlanhapp/nexbill-backend/utils"
)

func TestBillService(t *testing.T) {
	store := newMemoryStore()
	ctx := context.Background()
	calculation := NewCalculationService()
	people := NewPersonService(store, "Me")
	service := NewBillService(store, people, calculation)

	_, err := people.CurrentUser(ctx)
	require.NoError(t, err)

	bill := settledBill("b1", time.Now(), "10", item("A", "100", 1, utils.CurrentUserID, "p2"))
	require.NoError(t, store.SaveBill(ctx, bill))

	detail, err := service.GetBill(ctx, "b1")
	require.NoError(t, err)
	require.Len(t, detail.Participants, 2)
	assert.Equal(t, "Me", detail.Participants[0].Name)
	assert.True(t, detail.Participants[1].Removed)
	assertAmount(t, "110", detail.Split.Attributed)

	bills, err := service.ListBills(ctx, repository.NewestFirst)
	require.NoError(t, err)
	assert.Len(t, bills, 1)

	require.NoError(t, service.DeleteBill(ctx, "b1"))
	assert.Equal(t, utils.KindNotFound, utils.KindOf(service.DeleteBill(ctx, "b1")))

	_, err = service.GetBill(ctx, "b1")
	assert.Equal(t, utils.KindNotFound, utils.KindOf(err))
}
