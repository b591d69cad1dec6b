package services

import (
	"context"
	"sort"
	"sync"

	"github.com/fadhlanhapp/nexbill-backend/models"
	"github.com/fadhlanhapp/nexbill-backend/repository"
)

// memoryStore is an in-process repository.Store for service tests
type memoryStore struct {
	mu      sync.Mutex
	bills   map[string]*models.Bill
	people  map[string]*models.Person
	groups  map[string]*models.Group
	saveErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		bills:  make(map[string]*models.Bill),
		people: make(map[string]*models.Person),
		groups: make(map[string]*models.Group),
	}
}

func (m *memoryStore) SaveBill(_ context.Context, bill *models.Bill) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.bills[bill.ID] = bill
	return nil
}

func (m *memoryStore) GetBill(_ context.Context, billID string) (*models.Bill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	bill, ok := m.bills[billID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return bill, nil
}

func (m *memoryStore) ListBills(_ context.Context, order repository.BillOrder) ([]*models.Bill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	bills := make([]*models.Bill, 0, len(m.bills))
	for _, bill := range m.bills {
		bills = append(bills, bill)
	}
	sort.Slice(bills, func(i, j int) bool {
		switch order {
		case repository.OldestFirst:
			return bills[i].Date.Before(bills[j].Date)
		case repository.ByTitle:
			return bills[i].Title < bills[j].Title
		default:
			return bills[i].Date.After(bills[j].Date)
		}
	})
	return bills, nil
}

func (m *memoryStore) DeleteBill(_ context.Context, billID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.bills[billID]
	delete(m.bills, billID)
	return ok, nil
}

func (m *memoryStore) SavePerson(_ context.Context, person *models.Person) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.people[person.ID] = person
	return nil
}

func (m *memoryStore) GetPerson(_ context.Context, personID string) (*models.Person, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	person, ok := m.people[personID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return person, nil
}

func (m *memoryStore) ListPeople(_ context.Context) ([]*models.Person, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	people := make([]*models.Person, 0, len(m.people))
	for _, person := range m.people {
		people = append(people, person)
	}
	sort.Slice(people, func(i, j int) bool { return people[i].Name < people[j].Name })
	return people, nil
}

func (m *memoryStore) DeletePerson(_ context.Context, personID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.people[personID]
	delete(m.people, personID)
	return ok, nil
}

func (m *memoryStore) SaveGroup(_ context.Context, group *models.Group) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.groups[group.ID] = group
	return nil
}

func (m *memoryStore) ListGroups(_ context.Context) ([]*models.Group, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	groups := make([]*models.Group, 0, len(m.groups))
	for _, group := range m.groups {
		groups = append(groups, group)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Name < groups[j].Name })
	return groups, nil
}

func (m *memoryStore) DeleteGroup(_ context.Context, groupID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.groups[groupID]
	delete(m.groups, groupID)
	return ok, nil
}

func (m *memoryStore) Close() error { return nil }
