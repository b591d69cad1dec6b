// repository/bill_repository.go
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/fadhlanhapp/nexbill-backend/models"
)

// BillRepository handles database operations for bills
type BillRepository struct {
	DB *sqlx.DB
}

// NewBillRepository creates a new BillRepository
func NewBillRepository(db *sqlx.DB) *BillRepository {
	return &BillRepository{DB: db}
}

type billRow struct {
	ID            string          `db:"id"`
	Title         string          `db:"title"`
	BillDate      int64           `db:"bill_date"`
	Subtotal      decimal.Decimal `db:"subtotal"`
	Tax           decimal.Decimal `db:"tax"`
	ServiceCharge decimal.Decimal `db:"service_charge"`
	Total         decimal.Decimal `db:"total"`
	PayerID       string          `db:"payer_id"`
	Status        string          `db:"status"`
}

type itemRow struct {
	ID       string          `db:"id"`
	BillID   string          `db:"bill_id"`
	Name     string          `db:"name"`
	Price    decimal.Decimal `db:"price"`
	Quantity int             `db:"quantity"`
}

// linkRow is an ordered (owner, person) pair from any of the link tables
type linkRow struct {
	OwnerID  string `db:"owner_id"`
	PersonID string `db:"person_id"`
}

const selectBillColumns = `SELECT id, title, bill_date, subtotal, tax, service_charge, total, payer_id, status FROM bills`

// StoreBill saves a bill with its items, assignments and participants
func (r *BillRepository) StoreBill(ctx context.Context, bill *models.Bill) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, tx.Rebind(
		`INSERT INTO bills
         (id, title, bill_date, subtotal, tax, service_charge, total, payer_id, status)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		bill.ID, bill.Title, bill.Date.UnixMilli(), bill.Subtotal, bill.Tax,
		bill.ServiceCharge, bill.Total, bill.PayerID, bill.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to insert bill: %w", err)
	}

	for position, item := range bill.Items {
		_, err = tx.ExecContext(ctx, tx.Rebind(
			`INSERT INTO bill_items (id, bill_id, position, name, price, quantity)
             VALUES (?, ?, ?, ?, ?, ?)`),
			item.ID, bill.ID, position, item.Name, item.Price, item.Quantity,
		)
		if err != nil {
			return fmt.Errorf("failed to insert bill item: %w", err)
		}

		for assigneePosition, personID := range item.AssignedPersonIDs {
			_, err = tx.ExecContext(ctx, tx.Rebind(
				"INSERT INTO bill_item_assignees (item_id, position, person_id) VALUES (?, ?, ?)"),
				item.ID, assigneePosition, personID,
			)
			if err != nil {
				return fmt.Errorf("failed to insert item assignee: %w", err)
			}
		}
	}

	for position, personID := range bill.ParticipantIDs {
		_, err = tx.ExecContext(ctx, tx.Rebind(
			"INSERT INTO bill_participants (bill_id, position, person_id) VALUES (?, ?, ?)"),
			bill.ID, position, personID,
		)
		if err != nil {
			return fmt.Errorf("failed to insert bill participant: %w", err)
		}
	}

	return tx.Commit()
}

// GetBill retrieves a single bill by id
func (r *BillRepository) GetBill(ctx context.Context, billID string) (*models.Bill, error) {
	var row billRow
	err := r.DB.GetContext(ctx, &row, r.DB.Rebind(selectBillColumns+" WHERE id = ?"), billID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}

	bills, err := r.attachChildren(ctx, []billRow{row}, " WHERE bill_id = ?", billID)
	if err != nil {
		return nil, err
	}
	return bills[0], nil
}

// GetBills retrieves every bill in the requested order
func (r *BillRepository) GetBills(ctx context.Context, order BillOrder) ([]*models.Bill, error) {
	var rows []billRow
	if err := r.DB.SelectContext(ctx, &rows, selectBillColumns+orderClause(order)); err != nil {
		return nil, fmt.Errorf("failed to get bills: %w", err)
	}
	return r.attachChildren(ctx, rows, "")
}

// RemoveBill deletes a bill and everything that belongs to it
func (r *BillRepository) RemoveBill(ctx context.Context, billID string) (bool, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var count int
	if err := tx.GetContext(ctx, &count, tx.Rebind("SELECT COUNT(*) FROM bills WHERE id = ?"), billID); err != nil {
		return false, fmt.Errorf("failed to check bill: %w", err)
	}
	if count == 0 {
		return false, nil
	}

	// Children first; cascades are not relied on because SQLite only honours
	// them when the foreign_keys pragma is on.
	statements := []string{
		"DELETE FROM bill_item_assignees WHERE item_id IN (SELECT id FROM bill_items WHERE bill_id = ?)",
		"DELETE FROM bill_items WHERE bill_id = ?",
		"DELETE FROM bill_participants WHERE bill_id = ?",
		"DELETE FROM bills WHERE id = ?",
	}
	for _, stmt := range statements {
		if _, err := tx.ExecContext(ctx, tx.Rebind(stmt), billID); err != nil {
			return false, fmt.Errorf("failed to delete bill: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit bill deletion: %w", err)
	}
	return true, nil
}

// attachChildren loads items, assignees and participants for the given bill
// rows. filter restricts the child queries by bill_id; empty loads all.
func (r *BillRepository) attachChildren(ctx context.Context, rows []billRow, filter string, args ...interface{}) ([]*models.Bill, error) {
	bills := make([]*models.Bill, 0, len(rows))
	byID := make(map[string]*models.Bill, len(rows))
	for _, row := range rows {
		bill := &models.Bill{
			ID:             row.ID,
			Title:          row.Title,
			Date:           time.UnixMilli(row.BillDate).UTC(),
			Items:          []models.BillItem{},
			Subtotal:       row.Subtotal,
			Tax:            row.Tax,
			ServiceCharge:  row.ServiceCharge,
			Total:          row.Total,
			PayerID:        row.PayerID,
			ParticipantIDs: []string{},
			Status:         row.Status,
		}
		bills = append(bills, bill)
		byID[bill.ID] = bill
	}
	if len(bills) == 0 {
		return bills, nil
	}

	var items []itemRow
	err := r.DB.SelectContext(ctx, &items, r.DB.Rebind(
		"SELECT id, bill_id, name, price, quantity FROM bill_items"+filter+" ORDER BY bill_id, position"), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get bill items: %w", err)
	}

	assigneeFilter := ""
	if filter != "" {
		assigneeFilter = " WHERE i.bill_id = ?"
	}
	var assignees []linkRow
	err = r.DB.SelectContext(ctx, &assignees, r.DB.Rebind(
		`SELECT a.item_id AS owner_id, a.person_id FROM bill_item_assignees a
         JOIN bill_items i ON i.id = a.item_id`+assigneeFilter+` ORDER BY a.item_id, a.position`), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get item assignees: %w", err)
	}

	assignedTo := make(map[string][]string)
	for _, link := range assignees {
		assignedTo[link.OwnerID] = append(assignedTo[link.OwnerID], link.PersonID)
	}

	for _, row := range items {
		bill, ok := byID[row.BillID]
		if !ok {
			continue
		}
		assigned := assignedTo[row.ID]
		if assigned == nil {
			assigned = []string{}
		}
		bill.Items = append(bill.Items, models.BillItem{
			ID:                row.ID,
			Name:              row.Name,
			Price:             row.Price,
			Quantity:          row.Quantity,
			AssignedPersonIDs: assigned,
		})
	}

	var participants []linkRow
	err = r.DB.SelectContext(ctx, &participants, r.DB.Rebind(
		"SELECT bill_id AS owner_id, person_id FROM bill_participants"+filter+" ORDER BY bill_id, position"), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get bill participants: %w", err)
	}
	for _, link := range participants {
		if bill, ok := byID[link.OwnerID]; ok {
			bill.ParticipantIDs = append(bill.ParticipantIDs, link.PersonID)
		}
	}

	return bills, nil
}

func orderClause(order BillOrder) string {
	switch order {
	case OldestFirst:
		return " ORDER BY bill_date ASC, id ASC"
	case ByTitle:
		return " ORDER BY title ASC, id ASC"
	default:
		return " ORDER BY bill_date DESC, id ASC"
	}
}

// Store interface, bills

func (s *SQLStore) SaveBill(ctx context.Context, bill *models.Bill) error {
	return s.bills.StoreBill(ctx, bill)
}

func (s *SQLStore) GetBill(ctx context.Context, billID string) (*models.Bill, error) {
	return s.bills.GetBill(ctx, billID)
}

func (s *SQLStore) ListBills(ctx context.Context, order BillOrder) ([]*models.Bill, error) {
	return s.bills.GetBills(ctx, order)
}

func (s *SQLStore) DeleteBill(ctx context.Context, billID string) (bool, error) {
	return s.bills.RemoveBill(ctx, billID)
}
