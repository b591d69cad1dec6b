package services

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/fadhlanhapp/nexbill-backend/models"
	"github.com/fadhlanhapp/nexbill-backend/repository"
	"github.com/fadhlanhapp/nexbill-backend/utils"
)

// SpendService aggregates a person's shares across their bill history
type SpendService struct {
	store       repository.Store
	calculation *CalculationService
}

// NewSpendService creates a new spend service
func NewSpendService(store repository.Store, calculation *CalculationService) *SpendService {
	return &SpendService{
		store:       store,
		calculation: calculation,
	}
}

// TotalSpend sums personID's share of every settled bill. Drafts are skipped.
func (s *SpendService) TotalSpend(personID string, bills []*models.Bill) decimal.Decimal {
	total := decimal.Zero
	for _, bill := range bills {
		if bill == nil || !bill.IsSettled() {
			continue
		}
		total = total.Add(s.calculation.ShareOf(personID, bill.Charges()))
	}
	return total
}

// BillShares returns personID's share of each settled bill, newest first
func (s *SpendService) BillShares(personID string, bills []*models.Bill) []models.BillShare {
	shares := make([]models.BillShare, 0, len(bills))
	for _, bill := range bills {
		if bill == nil || !bill.IsSettled() {
			continue
		}
		shares = append(shares, models.BillShare{
			BillID: bill.ID,
			Title:  bill.Title,
			Date:   bill.Date,
			Total:  bill.Total,
			Share:  s.calculation.ShareOf(personID, bill.Charges()),
		})
	}

	sort.SliceStable(shares, func(i, j int) bool {
		if shares[i].Date.Equal(shares[j].Date) {
			return shares[i].BillID < shares[j].BillID
		}
		return shares[i].Date.After(shares[j].Date)
	})
	return shares
}

// SummaryFor loads the stored bill history and summarises the user's spend
func (s *SpendService) SummaryFor(ctx context.Context, user models.UserContext) (*models.SpendSummary, error) {
	bills, err := s.store.ListBills(ctx, repository.NewestFirst)
	if err != nil {
		return nil, utils.NewInternalError(utils.ErrFailedToRetrieve, err)
	}

	return &models.SpendSummary{
		PersonID:   user.PersonID,
		TotalSpend: s.TotalSpend(user.PersonID, bills),
		Bills:      s.BillShares(user.PersonID, bills),
	}, nil
}
