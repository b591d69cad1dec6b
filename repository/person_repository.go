// repository/person_repository.go
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/fadhlanhapp/nexbill-backend/models"
)

// PersonRepository handles database operations for people
type PersonRepository struct {
	DB *sqlx.DB
}

// NewPersonRepository creates a new PersonRepository
func NewPersonRepository(db *sqlx.DB) *PersonRepository {
	return &PersonRepository{DB: db}
}

type personRow struct {
	ID        string `db:"id"`
	Name      string `db:"name"`
	Avatar    string `db:"avatar"`
	ColorName string `db:"color_name"`
}

func (row personRow) toModel() *models.Person {
	return &models.Person{
		ID:        row.ID,
		Name:      row.Name,
		Avatar:    row.Avatar,
		ColorName: row.ColorName,
	}
}

// StorePerson inserts a person or updates the one with the same id
func (r *PersonRepository) StorePerson(ctx context.Context, person *models.Person) error {
	_, err := r.DB.ExecContext(ctx, r.DB.Rebind(
		`INSERT INTO people (id, name, avatar, color_name) VALUES (?, ?, ?, ?)
         ON CONFLICT (id) DO UPDATE SET
             name = excluded.name,
             avatar = excluded.avatar,
             color_name = excluded.color_name`),
		person.ID, person.Name, person.Avatar, person.ColorName,
	)
	if err != nil {
		return fmt.Errorf("failed to store person: %w", err)
	}
	return nil
}

// GetPerson retrieves a person by id
func (r *PersonRepository) GetPerson(ctx context.Context, personID string) (*models.Person, error) {
	var row personRow
	err := r.DB.GetContext(ctx, &row, r.DB.Rebind(
		"SELECT id, name, avatar, color_name FROM people WHERE id = ?"), personID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get person: %w", err)
	}
	return row.toModel(), nil
}

// GetPeople retrieves everyone, sorted by name
func (r *PersonRepository) GetPeople(ctx context.Context) ([]*models.Person, error) {
	var rows []personRow
	err := r.DB.SelectContext(ctx, &rows,
		"SELECT id, name, avatar, color_name FROM people ORDER BY name ASC, id ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to get people: %w", err)
	}

	people := make([]*models.Person, 0, len(rows))
	for _, row := range rows {
		people = append(people, row.toModel())
	}
	return people, nil
}

// RemovePerson deletes a person. Bills and groups keep their ids.
func (r *PersonRepository) RemovePerson(ctx context.Context, personID string) (bool, error) {
	result, err := r.DB.ExecContext(ctx, r.DB.Rebind("DELETE FROM people WHERE id = ?"), personID)
	if err != nil {
		return false, fmt.Errorf("failed to delete person: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check deleted person: %w", err)
	}
	return affected > 0, nil
}

// Store interface, people

func (s *SQLStore) SavePerson(ctx context.Context, person *models.Person) error {
	return s.people.StorePerson(ctx, person)
}

func (s *SQLStore) GetPerson(ctx context.Context, personID string) (*models.Person, error) {
	return s.people.GetPerson(ctx, personID)
}

func (s *SQLStore) ListPeople(ctx context.Context) ([]*models.Person, error) {
	return s.people.GetPeople(ctx)
}

func (s *SQLStore) DeletePerson(ctx context.Context, personID string) (bool, error) {
	return s.people.RemovePerson(ctx, personID)
}
