package services

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/fadhlanhapp/nexbill-backend/models"
	"github.com/fadhlanhapp/nexbill-backend/repository"
	"github.com/fadhlanhapp/nexbill-backend/utils"
)

// SettlementService works out who owes whom across settled bills
type SettlementService struct {
	store         repository.Store
	personService *PersonService
	calculation   *CalculationService
}

// NewSettlementService creates a new settlement service
func NewSettlementService(store repository.Store, personService *PersonService, calculation *CalculationService) *SettlementService {
	return &SettlementService{
		store:         store,
		personService: personService,
		calculation:   calculation,
	}
}

// CalculateSettlements calculates balances and transfers over the bill history
func (s *SettlementService) CalculateSettlements(ctx context.Context) (*models.SettlementResult, error) {
	bills, err := s.store.ListBills(ctx, repository.OldestFirst)
	if err != nil {
		return nil, utils.NewInternalError(utils.ErrFailedToRetrieve, err)
	}

	balances := s.CalculateBalances(bills)
	settlements := s.calculateOptimalSettlements(balances)

	// Resolve every id once, in a stable order
	personIDs := make([]string, 0, len(balances))
	for personID := range balances {
		personIDs = append(personIDs, personID)
	}
	sort.Strings(personIDs)

	people, err := s.personService.Resolve(ctx, personIDs)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(people))
	result := &models.SettlementResult{
		Settlements: settlements,
		Balances:    make([]models.PersonBalance, 0, len(people)),
	}
	for _, person := range people {
		names[person.ID] = person.Name
		result.Balances = append(result.Balances, models.PersonBalance{
			PersonID: person.ID,
			Name:     person.Name,
			Balance:  balances[person.ID],
		})
	}
	for i := range result.Settlements {
		result.Settlements[i].FromName = names[result.Settlements[i].From]
		result.Settlements[i].ToName = names[result.Settlements[i].To]
	}

	return result, nil
}

// CalculateBalances credits each payer with everyone else's share of their
// bills. Unattributed cost stays with the payer. Each share is rounded to
// currency precision before it is moved, so the payer absorbs the rounding
// difference and the balances always sum to zero. Positive means the person
// is owed money.
func (s *SettlementService) CalculateBalances(bills []*models.Bill) map[string]decimal.Decimal {
	balances := make(map[string]decimal.Decimal)

	for _, bill := range bills {
		if bill == nil || !bill.IsSettled() {
			continue
		}

		split := s.calculation.Split(bill.Charges(), bill.ParticipantIDs)
		for _, breakdown := range split.PerPerson {
			if breakdown.PersonID == bill.PayerID {
				continue
			}
			owed := utils.RoundForDisplay(breakdown.Total)
			if owed.IsZero() {
				continue
			}
			balances[breakdown.PersonID] = balances[breakdown.PersonID].Sub(owed)
			balances[bill.PayerID] = balances[bill.PayerID].Add(owed)
		}
	}

	return balances
}

// personBalance is a working entry of the settlement matching
type personBalance struct {
	PersonID string
	Balance  decimal.Decimal
}

// calculateOptimalSettlements matches the largest debtors with the largest creditors
func (s *SettlementService) calculateOptimalSettlements(balances map[string]decimal.Decimal) []models.Settlement {
	creditors := s.extractBalances(balances, func(b decimal.Decimal) bool { return b.IsPositive() })
	debtors := s.extractBalances(balances, func(b decimal.Decimal) bool { return b.IsNegative() })

	return s.generateSettlements(creditors, debtors)
}

// extractBalances returns matching balances as positive amounts, largest first
func (s *SettlementService) extractBalances(balances map[string]decimal.Decimal, keep func(decimal.Decimal) bool) []personBalance {
	var out []personBalance
	for personID, balance := range balances {
		if keep(balance) {
			out = append(out, personBalance{PersonID: personID, Balance: balance.Abs()})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Balance.Equal(out[j].Balance) {
			return out[i].PersonID < out[j].PersonID
		}
		return out[i].Balance.GreaterThan(out[j].Balance)
	})
	return out
}

// generateSettlements creates the actual settlement transactions
func (s *SettlementService) generateSettlements(creditors, debtors []personBalance) []models.Settlement {
	settlements := []models.Settlement{}

	i, j := 0, 0
	for i < len(creditors) && j < len(debtors) {
		amount := decimal.Min(creditors[i].Balance, debtors[j].Balance)

		if amount.IsPositive() {
			settlements = append(settlements, models.Settlement{
				From:   debtors[j].PersonID,
				To:     creditors[i].PersonID,
				Amount: amount,
			})
		}

		// Update balances
		creditors[i].Balance = creditors[i].Balance.Sub(amount)
		debtors[j].Balance = debtors[j].Balance.Sub(amount)

		// Move to next creditor/debtor if balance is settled
		if creditors[i].Balance.IsZero() {
			i++
		}
		if debtors[j].Balance.IsZero() {
			j++
		}
	}

	return settlements
}
