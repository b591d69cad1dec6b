// Package repository persists bills, people and groups.
package repository

import (
	"context"
	"errors"

	"github.com/fadhlanhapp/nexbill-backend/models"
)

// ErrNotFound is returned when a lookup by id matches nothing
var ErrNotFound = errors.New("record not found")

// BillOrder selects how ListBills sorts its result
type BillOrder int

const (
	NewestFirst BillOrder = iota
	OldestFirst
	ByTitle
)

// Store is the persistence contract the services depend on. Collections are
// returned as ordered slices, refreshed on every call.
type Store interface {
	SaveBill(ctx context.Context, bill *models.Bill) error
	GetBill(ctx context.Context, billID string) (*models.Bill, error)
	ListBills(ctx context.Context, order BillOrder) ([]*models.Bill, error)
	DeleteBill(ctx context.Context, billID string) (bool, error)

	SavePerson(ctx context.Context, person *models.Person) error
	GetPerson(ctx context.Context, personID string) (*models.Person, error)
	ListPeople(ctx context.Context) ([]*models.Person, error)
	DeletePerson(ctx context.Context, personID string) (bool, error)

	SaveGroup(ctx context.Context, group *models.Group) error
	ListGroups(ctx context.Context) ([]*models.Group, error)
	DeleteGroup(ctx context.Context, groupID string) (bool, error)

	Close() error
}
