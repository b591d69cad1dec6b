package models

import "github.com/shopspring/decimal"

// CreatePersonRequest request model
type CreatePersonRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateGroupRequest request model
type CreateGroupRequest struct {
	Name      string   `json:"name" binding:"required"`
	MemberIDs []string `json:"memberIds"`
}

// AddItemRequest request model, quantity defaults to 1
type AddItemRequest struct {
	Name     string           `json:"name" binding:"required"`
	Price    *decimal.Decimal `json:"price" binding:"required"`
	Quantity *int             `json:"quantity"`
}

// UpdateItemRequest request model, nil fields are left unchanged
type UpdateItemRequest struct {
	Name     *string          `json:"name"`
	Price    *decimal.Decimal `json:"price"`
	Quantity *int             `json:"quantity"`
}

// ToggleAssignmentRequest request model
type ToggleAssignmentRequest struct {
	PersonID string `json:"personId" binding:"required"`
}

// SetAmountRequest request model for tax and service charge
type SetAmountRequest struct {
	Amount *decimal.Decimal `json:"amount" binding:"required"`
}

// SetTitleRequest request model
type SetTitleRequest struct {
	Title string `json:"title"`
}

// SetParticipantsRequest request model. Members of GroupID, when set, are
// added to PersonIDs.
type SetParticipantsRequest struct {
	PersonIDs []string `json:"personIds"`
	GroupID   string   `json:"groupId"`
}

// BillDetail is a settled bill with participants resolved and shares computed
type BillDetail struct {
	*Bill
	Participants []ParticipantView `json:"participants"`
	Split        *SplitCalculation `json:"split"`
}
