package services

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fadhlanhapp/nexbill-backend/logger"
	"github.com/fadhlanhapp/nexbill-backend/metrics"
	"github.com/fadhlanhapp/nexbill-backend/models"
	"github.com/fadhlanhapp/nexbill-backend/repository"
	"github.com/fadhlanhapp/nexbill-backend/utils"
)

// DraftSession owns the single draft being edited. All methods are safe for
// concurrent use; each returns a copy so callers never alias session state.
type DraftSession struct {
	mu          sync.Mutex
	draft       *models.Draft
	user        models.UserContext
	assignments *AssignmentService
	store       repository.Store
	now         func() time.Time
}

// NewDraftSession creates a session holding an empty draft for user
func NewDraftSession(store repository.Store, assignments *AssignmentService, user models.UserContext) *DraftSession {
	return &DraftSession{
		draft:       assignments.NewDraft(user),
		user:        user,
		assignments: assignments,
		store:       store,
		now:         time.Now,
	}
}

// View returns the current draft with derived totals
func (s *DraftSession) View() *models.DraftView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.assignments.View(s.draft.Clone())
}

// Split computes live per-person totals for the current draft
func (s *DraftSession) Split() *models.SplitCalculation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.assignments.Split(s.draft)
}

// Reset discards the draft
func (s *DraftSession) Reset() *models.DraftView {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = s.assignments.NewDraft(s.user)
	return s.assignments.View(s.draft.Clone())
}

// AddItem appends an item to the draft
func (s *DraftSession) AddItem(name string, price decimal.Decimal, quantity int) (*models.BillItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, err := s.assignments.AddItem(s.draft, name, price, quantity)
	if err != nil {
		return nil, err
	}
	clone := item.Clone()
	return &clone, nil
}

// UpdateItem edits an item of the draft
func (s *DraftSession) UpdateItem(itemID string, changes ItemChanges) (*models.BillItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, err := s.assignments.UpdateItem(s.draft, itemID, changes)
	if err != nil {
		return nil, err
	}
	clone := item.Clone()
	return &clone, nil
}

// RemoveItem deletes an item of the draft
func (s *DraftSession) RemoveItem(itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.assignments.RemoveItem(s.draft, itemID)
}

// ToggleAssignment flips personID on an item
func (s *DraftSession) ToggleAssignment(itemID, personID string) (*models.BillItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, err := s.assignments.ToggleAssignment(s.draft, itemID, personID)
	if err != nil {
		return nil, err
	}
	clone := item.Clone()
	return &clone, nil
}

// SetTitle sets the draft title
func (s *DraftSession) SetTitle(title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assignments.SetTitle(s.draft, title)
}

// SetTax sets the draft tax
func (s *DraftSession) SetTax(tax decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.assignments.SetTax(s.draft, tax)
}

// SetServiceCharge sets the draft service charge
func (s *DraftSession) SetServiceCharge(serviceCharge decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.assignments.SetServiceCharge(s.draft, serviceCharge)
}

// SetParticipants replaces the draft participants
func (s *DraftSession) SetParticipants(personIDs []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assignments.SetParticipants(s.draft, personIDs)
}

// ToggleParticipant adds or removes one participant
func (s *DraftSession) ToggleParticipant(personID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.assignments.ToggleParticipant(s.draft, personID)
}

// ApplyIngestion replaces items, tax, service charge and title with a
// scanned receipt. Participants are kept.
func (s *DraftSession) ApplyIngestion(scanned *models.Draft) *models.DraftView {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := scanned.Clone()
	next.ParticipantIDs = append([]string{}, s.draft.ParticipantIDs...)
	s.draft = next
	return s.assignments.View(s.draft.Clone())
}

// Finalize saves the draft as a settled bill and resets the session. When
// the save fails the draft is kept so the user can retry.
func (s *DraftSession) Finalize(ctx context.Context) (*models.Bill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bill, err := s.assignments.Finalize(s.draft, s.user, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.store.SaveBill(ctx, bill); err != nil {
		logger.GetLogger().Errorw("Failed to store bill", "billId", bill.ID, "error", err)
		return nil, utils.NewInternalError(utils.ErrFailedToStore, err)
	}

	metrics.BillsFinalized.Inc()
	logger.GetLogger().Infow("Bill finalized",
		"billId", bill.ID,
		"title", bill.Title,
		"items", len(bill.Items),
		"participants", len(bill.ParticipantIDs),
		"total", bill.Total.String())

	s.draft = s.assignments.NewDraft(s.user)
	return bill, nil
}
