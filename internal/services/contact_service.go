package services

import (
	"errors"
	"strings"

	"contactbook/internal/models"
	"contactbook/internal/repositories"
)

// ContactService owns the contact use-cases. Every operation takes the owner's
// user id and the repository scopes each query by it, so reaching another
// user's contact cannot be expressed at all.
type ContactService struct {
	Repo repositories.ContactRepository
}

func NewContactService(repo repositories.ContactRepository) *ContactService {
	return &ContactService{Repo: repo}
}

func (s *ContactService) Create(userID int, contact *models.Contact) error {
	if strings.TrimSpace(contact.FirstName) == "" {
		return errors.New("first_name is required")
	}
	if strings.TrimSpace(contact.LastName) == "" {
		return errors.New("last_name is required")
	}
	contact.UserID = userID
	return s.Repo.Create(contact)
}

func (s *ContactService) GetByID(id, userID int) (*models.Contact, error) {
	return s.Repo.GetByID(id, userID)
}

func (s *ContactService) List(userID, limit, offset int) ([]*models.Contact, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}
	return s.Repo.ListByUser(userID, limit, offset)
}

// ListAll returns every contact of the user, unpaginated. Export uses it so
// the rendered list is never cut off at a page boundary.
func (s *ContactService) ListAll(userID int) ([]*models.Contact, error) {
	return s.Repo.ListAllByUser(userID)
}

func (s *ContactService) Update(userID int, contact *models.Contact) error {
	if strings.TrimSpace(contact.FirstName) == "" {
		return errors.New("first_name is required")
	}
	if strings.TrimSpace(contact.LastName) == "" {
		return errors.New("last_name is required")
	}
	contact.UserID = userID
	return s.Repo.Update(contact)
}

func (s *ContactService) Delete(id, userID int) error {
	return s.Repo.Delete(id, userID)
}

func (s *ContactService) Search(userID int, query string, limit, offset int) ([]*models.Contact, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("query is required")
	}
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}
	return s.Repo.Search(userID, query, limit, offset)
}

func (s *ContactService) UpcomingBirthdays(userID, days int) ([]*models.Contact, error) {
	if days <= 0 || days > 365 {
		days = 7
	}
	return s.Repo.UpcomingBirthdays(userID, days)
}
