package services

import (
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contactbook/internal/models"
	"contactbook/internal/repositories"
)

type fakeContactRepo struct {
	mu       sync.Mutex
	seq      int
	contacts map[int]*models.Contact
}

func newFakeContactRepo() *fakeContactRepo {
	return &fakeContactRepo{contacts: map[int]*models.Contact{}}
}

func (r *fakeContactRepo) Create(contact *models.Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	contact.ID = r.seq
	contact.CreatedAt = time.Now()
	contact.UpdatedAt = contact.CreatedAt
	cp := *contact
	r.contacts[contact.ID] = &cp
	return nil
}

func (r *fakeContactRepo) GetByID(id, userID int) (*models.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.contacts[id]
	if !ok || c.UserID != userID {
		return nil, repositories.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeContactRepo) ListByUser(userID, limit, offset int) ([]*models.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var res []*models.Contact
	for i := 1; i <= r.seq; i++ {
		if c, ok := r.contacts[i]; ok && c.UserID == userID {
			cp := *c
			res = append(res, &cp)
		}
	}
	if offset >= len(res) {
		return nil, nil
	}
	res = res[offset:]
	if len(res) > limit {
		res = res[:limit]
	}
	return res, nil
}

func (r *fakeContactRepo) ListAllByUser(userID int) ([]*models.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var res []*models.Contact
	for i := 1; i <= r.seq; i++ {
		if c, ok := r.contacts[i]; ok && c.UserID == userID {
			cp := *c
			res = append(res, &cp)
		}
	}
	return res, nil
}

func (r *fakeContactRepo) Update(contact *models.Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.contacts[contact.ID]
	if !ok || c.UserID != contact.UserID {
		return repositories.ErrNotFound
	}
	contact.CreatedAt = c.CreatedAt
	contact.UpdatedAt = time.Now()
	cp := *contact
	r.contacts[contact.ID] = &cp
	return nil
}

func (r *fakeContactRepo) Delete(id, userID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.contacts[id]
	if !ok || c.UserID != userID {
		return repositories.ErrNotFound
	}
	delete(r.contacts, id)
	return nil
}

func (r *fakeContactRepo) Search(userID int, query string, limit, offset int) ([]*models.Contact, error) {
	all, _ := r.ListByUser(userID, r.seq+1, 0)
	var res []*models.Contact
	for _, c := range all {
		if containsFold(c.FirstName, query) || containsFold(c.LastName, query) || containsFold(c.Email, query) {
			res = append(res, c)
		}
	}
	return res, nil
}

func (r *fakeContactRepo) UpcomingBirthdays(userID, days int) ([]*models.Contact, error) {
	all, _ := r.ListByUser(userID, r.seq+1, 0)
	now := time.Now()
	var res []*models.Contact
	for _, c := range all {
		next := time.Date(now.Year(), c.Birthday.Month(), c.Birthday.Day(), 0, 0, 0, 0, time.UTC)
		if next.Before(now.Truncate(24 * time.Hour)) {
			next = next.AddDate(1, 0, 0)
		}
		if next.Sub(now) <= time.Duration(days)*24*time.Hour {
			res = append(res, c)
		}
	}
	return res, nil
}

func (r *fakeContactRepo) UpcomingBirthdaysAll(days int) ([]repositories.BirthdayEntry, error) {
	return nil, nil
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func testContact(first, last string) *models.Contact {
	return &models.Contact{
		FirstName:   first,
		LastName:    last,
		Email:       first + "@example.com",
		PhoneNumber: "+10000000000",
		Birthday:    time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC),
	}
}

func TestContactCreateValidation(t *testing.T) {
	svc := NewContactService(newFakeContactRepo())

	err := svc.Create(1, &models.Contact{LastName: "Doe"})
	assert.EqualError(t, err, "first_name is required")

	err = svc.Create(1, &models.Contact{FirstName: "Jane"})
	assert.EqualError(t, err, "last_name is required")

	c := testContact("Jane", "Doe")
	require.NoError(t, svc.Create(1, c))
	assert.Equal(t, 1, c.UserID)
	assert.NotZero(t, c.ID)
}

func TestContactOwnerScoping(t *testing.T) {
	repo := newFakeContactRepo()
	svc := NewContactService(repo)

	c := testContact("Jane", "Doe")
	require.NoError(t, svc.Create(1, c))

	// another user cannot see, update or delete it
	_, err := svc.GetByID(c.ID, 2)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	stolen := testContact("Hack", "Er")
	stolen.ID = c.ID
	assert.ErrorIs(t, svc.Update(2, stolen), repositories.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(c.ID, 2), repositories.ErrNotFound)

	// owner still can
	got, err := svc.GetByID(c.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, "Jane", got.FirstName)
}

func TestContactListPagination(t *testing.T) {
	svc := NewContactService(newFakeContactRepo())

	for i := 0; i < 5; i++ {
		require.NoError(t, svc.Create(1, testContact("User", string(rune('A'+i)))))
	}
	require.NoError(t, svc.Create(2, testContact("Other", "Owner")))

	page, err := svc.List(1, 3, 0)
	require.NoError(t, err)
	assert.Len(t, page, 3)

	rest, err := svc.List(1, 3, 3)
	require.NoError(t, err)
	assert.Len(t, rest, 2)

	// bad limit falls back to the default
	all, err := svc.List(1, -5, 0)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestContactListAllIsUnpaginated(t *testing.T) {
	svc := NewContactService(newFakeContactRepo())

	for i := 0; i < 150; i++ {
		require.NoError(t, svc.Create(1, testContact("User", strconv.Itoa(i))))
	}
	require.NoError(t, svc.Create(2, testContact("Other", "Owner")))

	// List clamps the page size, ListAll must not
	page, err := svc.List(1, 1000, 0)
	require.NoError(t, err)
	assert.Len(t, page, 10)

	all, err := svc.ListAll(1)
	require.NoError(t, err)
	assert.Len(t, all, 150)
}

func TestContactSearch(t *testing.T) {
	svc := NewContactService(newFakeContactRepo())

	require.NoError(t, svc.Create(1, testContact("Jane", "Doe")))
	require.NoError(t, svc.Create(1, testContact("John", "Smith")))

	res, err := svc.Search(1, "doe", 10, 0)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "Jane", res[0].FirstName)

	_, err = svc.Search(1, "   ", 10, 0)
	assert.EqualError(t, err, "query is required")
}

func TestContactUpcomingBirthdaysWindowDefault(t *testing.T) {
	repo := newFakeContactRepo()
	svc := NewContactService(repo)

	soon := testContact("Soon", "Bday")
	now := time.Now()
	soon.Birthday = time.Date(1990, now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 2)
	require.NoError(t, svc.Create(1, soon))

	later := testContact("Later", "Bday")
	later.Birthday = time.Date(1990, now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 60)
	require.NoError(t, svc.Create(1, later))

	res, err := svc.UpcomingBirthdays(1, 0) // 0 falls back to 7 days
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "Soon", res[0].FirstName)
}
