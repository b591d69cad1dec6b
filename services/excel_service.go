package services

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/fadhlanhapp/nexbill-backend/models"
	"github.com/fadhlanhapp/nexbill-backend/repository"
	"github.com/fadhlanhapp/nexbill-backend/utils"
)

// ExcelService handles Excel export functionality
type ExcelService struct {
	store         repository.Store
	spendService  *SpendService
	personService *PersonService
	calculation   *CalculationService
}

// NewExcelService creates a new Excel service
func NewExcelService(store repository.Store, spendService *SpendService, personService *PersonService, calculation *CalculationService) *ExcelService {
	return &ExcelService{
		store:         store,
		spendService:  spendService,
		personService: personService,
		calculation:   calculation,
	}
}

// ExportSpendReport builds a workbook with the user's spend summary and a
// per-bill share matrix of every settled bill
func (s *ExcelService) ExportSpendReport(ctx context.Context, user models.UserContext) (*excelize.File, string, error) {
	bills, err := s.store.ListBills(ctx, repository.OldestFirst)
	if err != nil {
		return nil, "", utils.NewInternalError(utils.ErrFailedToRetrieve, err)
	}

	settled := make([]*models.Bill, 0, len(bills))
	for _, bill := range bills {
		if bill.IsSettled() {
			settled = append(settled, bill)
		}
	}

	f := excelize.NewFile()

	if err := s.createSummarySheet(f, user, settled); err != nil {
		return nil, "", fmt.Errorf("failed to create summary sheet: %w", err)
	}
	if err := s.createBillMatrixSheet(ctx, f, settled); err != nil {
		return nil, "", fmt.Errorf("failed to create bill matrix sheet: %w", err)
	}

	// Delete the default sheet if it exists
	f.DeleteSheet("Sheet1")

	filename := fmt.Sprintf("%s_Spend_%s.xlsx",
		utils.CleanFileName(user.Name),
		time.Now().Format("2006-01-02"))

	return f, filename, nil
}

func headerStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"E6F3FF"}, Pattern: 1},
	})
}

// createSummarySheet creates Sheet 1: Summary
func (s *ExcelService) createSummarySheet(f *excelize.File, user models.UserContext, bills []*models.Bill) error {
	sheetName := "Summary"
	if _, err := f.NewSheet(sheetName); err != nil {
		return err
	}
	sheetIndex, _ := f.GetSheetIndex(sheetName)
	f.SetActiveSheet(sheetIndex)

	style, err := headerStyle(f)
	if err != nil {
		return err
	}

	f.SetCellValue(sheetName, "A1", "Person")
	f.SetCellValue(sheetName, "B1", user.Name)
	f.SetCellValue(sheetName, "A2", "Total Spend")
	f.SetCellValue(sheetName, "B2", utils.RoundForDisplay(s.spendService.TotalSpend(user.PersonID, bills)).InexactFloat64())
	f.SetCellValue(sheetName, "A3", "Settled Bills")
	f.SetCellValue(sheetName, "B3", len(bills))
	f.SetCellStyle(sheetName, "A1", "A3", style)

	headers := []string{"Date", "Bill", "Bill Total", "My Share"}
	for i, header := range headers {
		cell := fmt.Sprintf("%s5", string(rune('A'+i)))
		f.SetCellValue(sheetName, cell, header)
	}
	f.SetCellStyle(sheetName, "A5", fmt.Sprintf("%s5", string(rune('A'+len(headers)-1))), style)

	for i, share := range s.spendService.BillShares(user.PersonID, bills) {
		row := i + 6
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), share.Date.Format("2006-01-02"))
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), share.Title)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), utils.RoundForDisplay(share.Total).InexactFloat64())
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), utils.RoundForDisplay(share.Share).InexactFloat64())
	}

	f.SetColWidth(sheetName, "A", "D", 15)
	f.SetColWidth(sheetName, "B", "B", 30)
	return nil
}

// createBillMatrixSheet creates Sheet 2: one row per bill, one column per person
func (s *ExcelService) createBillMatrixSheet(ctx context.Context, f *excelize.File, bills []*models.Bill) error {
	sheetName := "Bill Matrix"
	if _, err := f.NewSheet(sheetName); err != nil {
		return err
	}

	// Every participant across all bills, in first-seen order
	var personIDs []string
	seen := make(map[string]bool)
	for _, bill := range bills {
		for _, id := range bill.ParticipantIDs {
			if !seen[id] {
				seen[id] = true
				personIDs = append(personIDs, id)
			}
		}
	}

	// Payers who were not participants still need a name
	lookupIDs := append([]string{}, personIDs...)
	for _, bill := range bills {
		if !seen[bill.PayerID] {
			seen[bill.PayerID] = true
			lookupIDs = append(lookupIDs, bill.PayerID)
		}
	}

	people, err := s.personService.Resolve(ctx, lookupIDs)
	if err != nil {
		return err
	}
	names := make(map[string]string, len(people))
	for _, person := range people {
		names[person.ID] = person.Name
	}

	headers := []string{"Date", "Bill", "Paid By", "Total"}
	for _, person := range people[:len(personIDs)] {
		headers = append(headers, person.Name)
	}
	headers = append(headers, "Unattributed")

	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}
	style, err := headerStyle(f)
	if err != nil {
		return err
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(headers), 1)
	f.SetCellStyle(sheetName, "A1", lastHeader, style)

	for i, bill := range bills {
		row := i + 2
		payer := names[bill.PayerID]

		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), bill.Date.Format("2006-01-02"))
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), bill.Title)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), payer)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), utils.RoundForDisplay(bill.Total).InexactFloat64())

		split := s.calculation.Split(bill.Charges(), bill.ParticipantIDs)
		shares := make(map[string]float64, len(split.PerPerson))
		for _, breakdown := range split.PerPerson {
			shares[breakdown.PersonID] = utils.RoundForDisplay(breakdown.Total).InexactFloat64()
		}
		for j, personID := range personIDs {
			cell, _ := excelize.CoordinatesToCellName(5+j, row)
			if share, ok := shares[personID]; ok {
				f.SetCellValue(sheetName, cell, share)
			}
		}
		cell, _ := excelize.CoordinatesToCellName(5+len(personIDs), row)
		f.SetCellValue(sheetName, cell, utils.RoundForDisplay(split.Unattributed).InexactFloat64())
	}

	lastColumn, _ := excelize.ColumnNumberToName(len(headers))
	f.SetColWidth(sheetName, "A", lastColumn, 15)
	f.SetColWidth(sheetName, "B", "B", 30)
	return nil
}
