package services

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fadhlanhapp/nexbill-backend/models"
	"github.com/fadhlanhapp/nexbill-backend/utils"
)

// ItemChanges holds an item edit, nil fields are left unchanged
type ItemChanges struct {
	Name     *string
	Price    *decimal.Decimal
	Quantity *int
}

// AssignmentService edits a draft. Every method validates before it mutates,
// so a rejected edit leaves the draft as it was.
type AssignmentService struct {
	calculation *CalculationService
}

// NewAssignmentService creates a new assignment service
func NewAssignmentService(calculation *CalculationService) *AssignmentService {
	return &AssignmentService{calculation: calculation}
}

// NewDraft returns an empty draft with the current user preselected
func (s *AssignmentService) NewDraft(user models.UserContext) *models.Draft {
	draft := &models.Draft{
		Items:          []models.BillItem{},
		Tax:            decimal.Zero,
		ServiceCharge:  decimal.Zero,
		ParticipantIDs: []string{},
	}
	if user.PersonID != "" {
		draft.ParticipantIDs = append(draft.ParticipantIDs, user.PersonID)
	}
	return draft
}

// AddItem appends a new unassigned item
func (s *AssignmentService) AddItem(draft *models.Draft, name string, price decimal.Decimal, quantity int) (*models.BillItem, error) {
	name = utils.CleanName(name)
	if err := utils.ValidateItemData(name, price, quantity); err != nil {
		return nil, err
	}

	draft.Items = append(draft.Items, models.BillItem{
		ID:                utils.GenerateID(),
		Name:              name,
		Price:             price,
		Quantity:          quantity,
		AssignedPersonIDs: []string{},
	})
	return &draft.Items[len(draft.Items)-1], nil
}

// RemoveItem deletes an item by id
func (s *AssignmentService) RemoveItem(draft *models.Draft, itemID string) error {
	index, err := s.findItem(draft, itemID)
	if err != nil {
		return err
	}
	draft.Items = append(draft.Items[:index], draft.Items[index+1:]...)
	return nil
}

// UpdateItem edits name, price or quantity of an item
func (s *AssignmentService) UpdateItem(draft *models.Draft, itemID string, changes ItemChanges) (*models.BillItem, error) {
	index, err := s.findItem(draft, itemID)
	if err != nil {
		return nil, err
	}

	updated := draft.Items[index]
	if changes.Name != nil {
		updated.Name = utils.CleanName(*changes.Name)
	}
	if changes.Price != nil {
		updated.Price = *changes.Price
	}
	if changes.Quantity != nil {
		updated.Quantity = *changes.Quantity
	}
	if err := utils.ValidateItemData(updated.Name, updated.Price, updated.Quantity); err != nil {
		return nil, err
	}

	draft.Items[index] = updated
	return &draft.Items[index], nil
}

// ToggleAssignment removes personID from the item if present, else appends it
func (s *AssignmentService) ToggleAssignment(draft *models.Draft, itemID, personID string) (*models.BillItem, error) {
	if err := utils.ValidateRequired(personID, "person id"); err != nil {
		return nil, err
	}
	index, err := s.findItem(draft, itemID)
	if err != nil {
		return nil, err
	}

	item := &draft.Items[index]
	item.AssignedPersonIDs = toggleID(item.AssignedPersonIDs, personID)
	return item, nil
}

// SetTitle sets the draft title; blank titles are kept blank until finalize
func (s *AssignmentService) SetTitle(draft *models.Draft, title string) {
	draft.Title = utils.CleanName(title)
}

// SetTax sets the draft's total tax
func (s *AssignmentService) SetTax(draft *models.Draft, tax decimal.Decimal) error {
	if err := utils.ValidateNonNegative(tax, "tax"); err != nil {
		return err
	}
	draft.Tax = tax
	return nil
}

// SetServiceCharge sets the draft's total service charge
func (s *AssignmentService) SetServiceCharge(draft *models.Draft, serviceCharge decimal.Decimal) error {
	if err := utils.ValidateNonNegative(serviceCharge, "service charge"); err != nil {
		return err
	}
	draft.ServiceCharge = serviceCharge
	return nil
}

// SetParticipants replaces who is on the bill. Item assignments are left
// alone; an assignee who is no longer a participant becomes a dangling id.
func (s *AssignmentService) SetParticipants(draft *models.Draft, personIDs []string) {
	draft.ParticipantIDs = uniqueIDs(personIDs)
}

// ToggleParticipant adds or removes a single participant
func (s *AssignmentService) ToggleParticipant(draft *models.Draft, personID string) error {
	if err := utils.ValidateRequired(personID, "person id"); err != nil {
		return err
	}
	draft.ParticipantIDs = toggleID(draft.ParticipantIDs, personID)
	return nil
}

// Finalize freezes the draft into a settled bill. The bill shares no memory
// with the draft; the caller is responsible for resetting it.
func (s *AssignmentService) Finalize(draft *models.Draft, user models.UserContext, now time.Time) (*models.Bill, error) {
	if err := utils.ValidateNotEmpty(draft.Items, "items"); err != nil {
		return nil, err
	}
	if err := utils.ValidateNotEmpty(draft.ParticipantIDs, "participants"); err != nil {
		return nil, err
	}

	snapshot := draft.Clone()
	charges := snapshot.Charges()

	return &models.Bill{
		ID:             utils.GenerateID(),
		Title:          utils.TitleOrDefault(snapshot.Title, utils.DefaultBillTitle),
		Date:           now,
		Items:          snapshot.Items,
		Subtotal:       charges.Subtotal(),
		Tax:            snapshot.Tax,
		ServiceCharge:  snapshot.ServiceCharge,
		Total:          charges.Total(),
		PayerID:        user.PersonID,
		ParticipantIDs: snapshot.ParticipantIDs,
		Status:         utils.BillStatusSettled,
	}, nil
}

// Split computes live totals for the draft
func (s *AssignmentService) Split(draft *models.Draft) *models.SplitCalculation {
	return s.calculation.Split(draft.Charges(), draft.ParticipantIDs)
}

// View wraps the draft with its derived fields
func (s *AssignmentService) View(draft *models.Draft) *models.DraftView {
	charges := draft.Charges()
	return &models.DraftView{
		Draft:    draft,
		State:    draft.State(),
		Subtotal: charges.Subtotal(),
		Total:    charges.Total(),
	}
}

func (s *AssignmentService) findItem(draft *models.Draft, itemID string) (int, error) {
	for i := range draft.Items {
		if draft.Items[i].ID == itemID {
			return i, nil
		}
	}
	return -1, utils.NewValidationError(utils.ErrItemNotFound + " not found in draft")
}

// toggleID removes every occurrence of id when present, else appends it
func toggleID(ids []string, id string) []string {
	out := make([]string, 0, len(ids)+1)
	found := false
	for _, existing := range ids {
		if existing == id {
			found = true
			continue
		}
		out = append(out, existing)
	}
	if !found {
		out = append(out, id)
	}
	return out
}
