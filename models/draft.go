package models

import (
	"github.com/shopspring/decimal"
)

// DraftState is the editor state of the current draft
type DraftState string

const (
	DraftEmpty     DraftState = "EMPTY"
	DraftPopulated DraftState = "POPULATED"
)

// Draft is the bill being edited before it is finalized
type Draft struct {
	Title          string          `json:"title"`
	Items          []BillItem      `json:"items"`
	Tax            decimal.Decimal `json:"tax"`
	ServiceCharge  decimal.Decimal `json:"serviceCharge"`
	ParticipantIDs []string        `json:"participantIds"`
}

// State derives the editor state from the items
func (d *Draft) State() DraftState {
	if len(d.Items) == 0 {
		return DraftEmpty
	}
	return DraftPopulated
}

// Charges exposes the draft to the settlement calculation
func (d *Draft) Charges() Charges {
	return Charges{Items: d.Items, Tax: d.Tax, ServiceCharge: d.ServiceCharge}
}

// Clone returns a deep copy of the draft
func (d *Draft) Clone() *Draft {
	clone := *d
	clone.Items = make([]BillItem, len(d.Items))
	for i, item := range d.Items {
		clone.Items[i] = item.Clone()
	}
	clone.ParticipantIDs = append([]string{}, d.ParticipantIDs...)
	return &clone
}

// DraftView is the draft as returned to clients
type DraftView struct {
	*Draft
	State    DraftState      `json:"state"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Total    decimal.Decimal `json:"total"`
}

// ReceiptExtraction is the document the AI extraction service returns
type ReceiptExtraction struct {
	RestaurantName     *string          `json:"restaurantName"`
	Items              []ExtractedItem  `json:"items"`
	TotalTax           *decimal.Decimal `json:"totalTax"`
	TotalServiceCharge *decimal.Decimal `json:"totalServiceCharge"`
}

// ExtractedItem is one raw line item from the extraction service. Quantity
// arrives as a JSON number and must be a whole number such as 2 or 2.0.
type ExtractedItem struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity decimal.Decimal `json:"quantity"`
}
