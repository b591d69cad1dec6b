package services

import (
	"context"
	"errors"
	"math/rand"

	"github.com/fadhlanhapp/nexbill-backend/logger"
	"github.com/fadhlanhapp/nexbill-backend/models"
	"github.com/fadhlanhapp/nexbill-backend/repository"
	"github.com/fadhlanhapp/nexbill-backend/utils"
)

// PersonService manages the current user and their friends
type PersonService struct {
	store           repository.Store
	currentUserName string
	pickColor       func() string
}

// NewPersonService creates a new person service
func NewPersonService(store repository.Store, currentUserName string) *PersonService {
	return &PersonService{
		store:           store,
		currentUserName: utils.TitleOrDefault(currentUserName, "Me"),
		pickColor: func() string {
			return utils.PersonColors[rand.Intn(len(utils.PersonColors))]
		},
	}
}

// CurrentUser returns the device owner, creating the record on first use
func (s *PersonService) CurrentUser(ctx context.Context) (*models.Person, error) {
	person, err := s.store.GetPerson(ctx, utils.CurrentUserID)
	if err == nil {
		return person, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, utils.NewInternalError(utils.ErrFailedToRetrieve, err)
	}

	person = &models.Person{
		ID:        utils.CurrentUserID,
		Name:      s.currentUserName,
		ColorName: utils.PersonColors[0],
	}
	if err := s.store.SavePerson(ctx, person); err != nil {
		return nil, utils.NewInternalError(utils.ErrFailedToStore, err)
	}

	logger.GetLogger().Infow("Created current user", "personId", person.ID, "name", person.Name)
	return person, nil
}

// UserContext returns the identity threaded through spend calculations
func (s *PersonService) UserContext(ctx context.Context) (models.UserContext, error) {
	person, err := s.CurrentUser(ctx)
	if err != nil {
		return models.UserContext{}, err
	}
	return models.UserContext{PersonID: person.ID, Name: person.Name}, nil
}

// AddFriend creates a person with a color from the palette
func (s *PersonService) AddFriend(ctx context.Context, name string) (*models.Person, error) {
	name = utils.CleanName(name)
	if err := utils.ValidateRequired(name, "name"); err != nil {
		return nil, err
	}

	person := &models.Person{
		ID:        utils.GenerateID(),
		Name:      name,
		ColorName: s.pickColor(),
	}
	if err := s.store.SavePerson(ctx, person); err != nil {
		return nil, utils.NewInternalError(utils.ErrFailedToStore, err)
	}
	return person, nil
}

// ListFriends returns everyone except the current user, sorted by name
func (s *PersonService) ListFriends(ctx context.Context) ([]*models.Person, error) {
	people, err := s.store.ListPeople(ctx)
	if err != nil {
		return nil, utils.NewInternalError(utils.ErrFailedToRetrieve, err)
	}

	friends := make([]*models.Person, 0, len(people))
	for _, person := range people {
		if person.ID != utils.CurrentUserID {
			friends = append(friends, person)
		}
	}
	return friends, nil
}

// RemoveFriend deletes a person. Past bills keep their ids and resolve them
// to a placeholder from then on.
func (s *PersonService) RemoveFriend(ctx context.Context, personID string) error {
	if personID == utils.CurrentUserID {
		return utils.NewValidationError("the current user cannot be removed")
	}

	deleted, err := s.store.DeletePerson(ctx, personID)
	if err != nil {
		return utils.NewInternalError("Failed to delete person", err)
	}
	if !deleted {
		return utils.NewNotFoundError(utils.ErrPersonNotFound)
	}
	return nil
}

// Resolve maps ids to display records. Ids with no live person become a
// "Removed contact" placeholder so history stays readable.
func (s *PersonService) Resolve(ctx context.Context, personIDs []string) ([]models.ParticipantView, error) {
	people, err := s.store.ListPeople(ctx)
	if err != nil {
		return nil, utils.NewInternalError(utils.ErrFailedToRetrieve, err)
	}

	byID := make(map[string]*models.Person, len(people))
	for _, person := range people {
		byID[person.ID] = person
	}

	views := make([]models.ParticipantView, 0, len(personIDs))
	for _, id := range personIDs {
		if person, ok := byID[id]; ok {
			views = append(views, models.ParticipantView{Person: *person})
			continue
		}
		views = append(views, models.ParticipantView{
			Person: models.Person{
				ID:        id,
				Name:      utils.RemovedPersonName,
				ColorName: utils.RemovedPersonColor,
			},
			Removed: true,
		})
	}
	return views, nil
}
