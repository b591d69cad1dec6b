// models/models.go
package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fadhlanhapp/nexbill-backend/utils"
)

// BillItem represents one line of a receipt
type BillItem struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Price             decimal.Decimal `json:"price"`
	Quantity          int             `json:"quantity"`
	AssignedPersonIDs []string        `json:"assignedPersonIds"`
}

// LineTotal returns price × quantity
func (i BillItem) LineTotal() decimal.Decimal {
	return utils.LineTotal(i.Price, i.Quantity)
}

// IsAssignedTo reports whether personID is among the item's assignees
func (i BillItem) IsAssignedTo(personID string) bool {
	for _, id := range i.AssignedPersonIDs {
		if id == personID {
			return true
		}
	}
	return false
}

// AssigneeCount returns the number of distinct assigned ids
func (i BillItem) AssigneeCount() int {
	seen := make(map[string]struct{}, len(i.AssignedPersonIDs))
	for _, id := range i.AssignedPersonIDs {
		seen[id] = struct{}{}
	}
	return len(seen)
}

// Clone returns a copy that shares no memory with i
func (i BillItem) Clone() BillItem {
	clone := i
	clone.AssignedPersonIDs = append([]string{}, i.AssignedPersonIDs...)
	return clone
}

// Charges is everything the settlement calculation reads from a bill
type Charges struct {
	Items         []BillItem
	Tax           decimal.Decimal
	ServiceCharge decimal.Decimal
}

// Subtotal is always recomputed from the items
func (c Charges) Subtotal() decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range c.Items {
		subtotal = subtotal.Add(item.LineTotal())
	}
	return subtotal
}

// Total returns subtotal + tax + service charge
func (c Charges) Total() decimal.Decimal {
	return c.Subtotal().Add(c.Tax).Add(c.ServiceCharge)
}

// Bill represents a finalized, immutable bill
type Bill struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	Date           time.Time       `json:"date"`
	Items          []BillItem      `json:"items"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	Tax            decimal.Decimal `json:"tax"`
	ServiceCharge  decimal.Decimal `json:"serviceCharge"`
	Total          decimal.Decimal `json:"total"`
	PayerID        string          `json:"payerId"`
	ParticipantIDs []string        `json:"participantIds"`
	Status         string          `json:"status"`
}

// Charges exposes the bill to the settlement calculation
func (b *Bill) Charges() Charges {
	return Charges{Items: b.Items, Tax: b.Tax, ServiceCharge: b.ServiceCharge}
}

// IsSettled reports whether the bill has been finalized
func (b *Bill) IsSettled() bool {
	return b.Status == utils.BillStatusSettled
}

// PersonChargeBreakdown represents the parts of one person's share
type PersonChargeBreakdown struct {
	PersonID      string          `json:"personId"`
	Items         decimal.Decimal `json:"items"`
	Tax           decimal.Decimal `json:"tax"`
	ServiceCharge decimal.Decimal `json:"serviceCharge"`
	Total         decimal.Decimal `json:"total"`
}

// SplitCalculation represents the result of splitting a bill among participants
type SplitCalculation struct {
	Subtotal      decimal.Decimal         `json:"subtotal"`
	Tax           decimal.Decimal         `json:"tax"`
	ServiceCharge decimal.Decimal         `json:"serviceCharge"`
	Total         decimal.Decimal         `json:"total"`
	Attributed    decimal.Decimal         `json:"attributed"`
	Unattributed  decimal.Decimal         `json:"unattributed"`
	PerPerson     []PersonChargeBreakdown `json:"perPerson"`
}

// BillShare is one row of a person's spend history
type BillShare struct {
	BillID string          `json:"billId"`
	Title  string          `json:"title"`
	Date   time.Time       `json:"date"`
	Total  decimal.Decimal `json:"total"`
	Share  decimal.Decimal `json:"share"`
}

// SpendSummary represents a person's spend across their bill history
type SpendSummary struct {
	PersonID   string          `json:"personId"`
	TotalSpend decimal.Decimal `json:"totalSpend"`
	Bills      []BillShare     `json:"bills"`
}

// Settlement is one transfer that clears a debt
type Settlement struct {
	From     string          `json:"from"`
	FromName string          `json:"fromName"`
	To       string          `json:"to"`
	ToName   string          `json:"toName"`
	Amount   decimal.Decimal `json:"amount"`
}

// PersonBalance is a person's net position, positive when owed money
type PersonBalance struct {
	PersonID string          `json:"personId"`
	Name     string          `json:"name"`
	Balance  decimal.Decimal `json:"balance"`
}

// SettlementResult represents who owes whom across settled bills
type SettlementResult struct {
	Settlements []Settlement    `json:"settlements"`
	Balances    []PersonBalance `json:"balances"`
}
