package services

import (
	"context"
	"errors"

	"github.com/fadhlanhapp/nexbill-backend/logger"
	"github.com/fadhlanhapp/nexbill-backend/models"
	"github.com/fadhlanhapp/nexbill-backend/repository"
	"github.com/fadhlanhapp/nexbill-backend/utils"
)

// BillService reads and deletes settled bills
type BillService struct {
	store         repository.Store
	personService *PersonService
	calculation   *CalculationService
}

// NewBillService creates a new bill service
func NewBillService(store repository.Store, personService *PersonService, calculation *CalculationService) *BillService {
	return &BillService{
		store:         store,
		personService: personService,
		calculation:   calculation,
	}
}

// ListBills returns every stored bill in the requested order
func (s *BillService) ListBills(ctx context.Context, order repository.BillOrder) ([]*models.Bill, error) {
	bills, err := s.store.ListBills(ctx, order)
	if err != nil {
		return nil, utils.NewInternalError(utils.ErrFailedToRetrieve, err)
	}
	return bills, nil
}

// GetBill returns a bill with participants resolved and shares computed
func (s *BillService) GetBill(ctx context.Context, billID string) (*models.BillDetail, error) {
	bill, err := s.store.GetBill(ctx, billID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, utils.NewNotFoundError(utils.ErrBillNotFound)
	}
	if err != nil {
		return nil, utils.NewInternalError(utils.ErrFailedToRetrieve, err)
	}

	participants, err := s.personService.Resolve(ctx, bill.ParticipantIDs)
	if err != nil {
		return nil, err
	}

	return &models.BillDetail{
		Bill:         bill,
		Participants: participants,
		Split:        s.calculation.Split(bill.Charges(), bill.ParticipantIDs),
	}, nil
}

// DeleteBill removes a bill. Settled bills cannot be edited, only deleted.
func (s *BillService) DeleteBill(ctx context.Context, billID string) error {
	deleted, err := s.store.DeleteBill(ctx, billID)
	if err != nil {
		return utils.NewInternalError("Failed to delete bill", err)
	}
	if !deleted {
		return utils.NewNotFoundError(utils.ErrBillNotFound)
	}

	logger.GetLogger().Infow("Bill deleted", "billId", billID)
	return nil
}
