package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fadhlanhapp/nexbill-backend/models"
	"github.com/fadhlanhapp/nexbill-backend/utils"
)

func settlementBills() []*models.Bill {
	me := utils.CurrentUserID

	// Me pays 100 shared with p2 plus 10 tax, p2 owes 55
	b1 := settledBill("b1", time.Now().Add(-time.Hour), "10", item("A", "100", 1, me, "p2"))
	// p2 pays 30 for p2 and p3, p3 owes 15
	b2 := settledBill("b2", time.Now(), "0", item("B", "30", 1, "p2", "p3"))
	b2.PayerID = "p2"
	b2.ParticipantIDs = []string{"p2", "p3"}

	return []*models.Bill{b1, b2}
}

func TestSettlementService_CalculateBalances(t *testing.T) {
	service := NewSettlementService(nil, nil, NewCalculationService())

	balances := service.CalculateBalances(settlementBills())

	assertAmount(t, "55", balances[utils.CurrentUserID])
	assertAmount(t, "-40", balances["p2"])
	assertAmount(t, "-15", balances["p3"])
}

func TestSettlementService_UnattributedStaysWithPayer(t *testing.T) {
	service := NewSettlementService(nil, nil, NewCalculationService())

	bill := settledBill("b1", time.Now(), "15", item("A", "100", 1, "p2"), item("B", "50", 1))

	balances := service.CalculateBalances([]*models.Bill{bill})

	assertAmount(t, "110", balances[utils.CurrentUserID])
	assertAmount(t, "-110", balances["p2"])
}

func TestSettlementService_BalancesReconcile(t *testing.T) {
	service := NewSettlementService(nil, nil, NewCalculationService())

	bill := settledBill("b1", time.Now(), "0", item("A", "100", 1, utils.CurrentUserID, "p2", "p3"))
	bill.ParticipantIDs = []string{utils.CurrentUserID, "p2", "p3"}

	balances := service.CalculateBalances([]*models.Bill{bill})

	assertAmount(t, "66.66", balances[utils.CurrentUserID])
	assertAmount(t, "-33.33", balances["p2"])
	assertAmount(t, "-33.33", balances["p3"])

	sum := decimal.Zero
	for _, balance := range balances {
		sum = sum.Add(balance)
	}
	assert.True(t, sum.IsZero(), "balances sum to %s", sum)

	settlements := service.calculateOptimalSettlements(balances)
	require.Len(t, settlements, 2)
	for _, settlement := range settlements {
		assert.Equal(t, utils.CurrentUserID, settlement.To)
		assertAmount(t, "33.33", settlement.Amount)
	}
}

func TestSettlementService_CalculateSettlements(t *testing.T) {
	store := newMemoryStore()
	ctx := context.Background()
	people := NewPersonService(store, "Me")
	service := NewSettlementService(store, people, NewCalculationService())

	_, err := people.CurrentUser(ctx)
	require.NoError(t, err)
	for _, bill := range settlementBills() {
		require.NoError(t, store.SaveBill(ctx, bill))
	}

	result, err := service.CalculateSettlements(ctx)
	require.NoError(t, err)

	require.Len(t, result.Settlements, 2)
	assert.Equal(t, "p2", result.Settlements[0].From)
	assert.Equal(t, utils.CurrentUserID, result.Settlements[0].To)
	assert.Equal(t, "Me", result.Settlements[0].ToName)
	assertAmount(t, "40", result.Settlements[0].Amount)

	assert.Equal(t, "p3", result.Settlements[1].From)
	assert.Equal(t, utils.RemovedPersonName, result.Settlements[1].FromName)
	assertAmount(t, "15", result.Settlements[1].Amount)

	assert.Len(t, result.Balances, 3)
}

func TestSettlementService_NoBills(t *testing.T) {
	store := newMemoryStore()
	service := NewSettlementService(store, NewPersonService(store, "Me"), NewCalculationService())

	result, err := service.CalculateSettlements(context.Background())
	require.NoError(t, err)
	assert.Empty(t, result.Settlements)
	assert.Empty(t, result.Balances)
}
