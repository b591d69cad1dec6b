package services

import (
	"github.com/shopspring/decimal"

	"github.com/fadhlanhapp/nexbill-backend/models"
	"github.com/fadhlanhapp/nexbill-backend/utils"
)

// CalculationService handles bill calculation logic. It holds no state and
// is safe for concurrent use.
type CalculationService struct{}

// NewCalculationService creates a new calculation service
func NewCalculationService() *CalculationService {
	return &CalculationService{}
}

// ShareOf returns how much personID owes for a bill, unrounded
func (s *CalculationService) ShareOf(personID string, charges models.Charges) decimal.Decimal {
	return s.Breakdown(personID, charges).Total
}

// Breakdown splits a person's share into item, tax and service charge parts.
//
// An item is divided evenly among its distinct assignees, including ids that
// are not participants of the bill. Tax and service charge follow the
// person's fraction of the subtotal; unassigned items are part of the
// subtotal but of nobody's share.
func (s *CalculationService) Breakdown(personID string, charges models.Charges) models.PersonChargeBreakdown {
	itemShare := s.itemShare(personID, charges.Items)
	subtotal := charges.Subtotal()

	breakdown := models.PersonChargeBreakdown{
		PersonID:      personID,
		Items:         itemShare,
		Tax:           decimal.Zero,
		ServiceCharge: decimal.Zero,
	}

	if subtotal.IsPositive() {
		// tax × (share / subtotal), multiplied first so exact ratios stay exact
		breakdown.Tax = utils.SafeDiv(charges.Tax.Mul(itemShare), subtotal)
		breakdown.ServiceCharge = utils.SafeDiv(charges.ServiceCharge.Mul(itemShare), subtotal)
	}

	breakdown.Total = itemShare.Add(breakdown.Tax).Add(breakdown.ServiceCharge)
	return breakdown
}

// Split computes the breakdown of every participant. Duplicate ids are
// reported once, in first-seen order.
func (s *CalculationService) Split(charges models.Charges, participantIDs []string) *models.SplitCalculation {
	result := &models.SplitCalculation{
		Subtotal:      charges.Subtotal(),
		Tax:           charges.Tax,
		ServiceCharge: charges.ServiceCharge,
		Total:         charges.Total(),
		Attributed:    decimal.Zero,
		PerPerson:     make([]models.PersonChargeBreakdown, 0, len(participantIDs)),
	}

	seen := make(map[string]bool, len(participantIDs))
	for _, personID := range participantIDs {
		if seen[personID] {
			continue
		}
		seen[personID] = true

		breakdown := s.Breakdown(personID, charges)
		result.PerPerson = append(result.PerPerson, breakdown)
		result.Attributed = result.Attributed.Add(breakdown.Total)
	}

	result.Unattributed = result.Total.Sub(result.Attributed)
	return result
}

// itemShare sums the person's even slice of every item assigned to them
func (s *CalculationService) itemShare(personID string, items []models.BillItem) decimal.Decimal {
	share := decimal.Zero
	for _, item := range items {
		if len(item.AssignedPersonIDs) == 0 || !item.IsAssignedTo(personID) {
			continue
		}
		share = share.Add(utils.SplitEvenly(item.LineTotal(), item.AssigneeCount()))
	}
	return share
}
