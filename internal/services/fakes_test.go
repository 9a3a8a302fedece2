package services

import (
	"errors"
	"sync"
	"time"

	"contactbook/internal/models"
	"contactbook/internal/repositories"
)

// fakeUserRepo is an in-memory UserRepository. The mutex makes the refresh
// rotation an atomic compare-and-swap, mirroring the conditional UPDATE the
// real store runs.
type fakeUserRepo struct {
	mu    sync.Mutex
	seq   int
	users map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*models.User{}}
}

func (r *fakeUserRepo) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.Username]; ok {
		return repositories.ErrDuplicate
	}
	r.seq++
	user.ID = r.seq
	user.CreatedAt = time.Now()
	cp := *user
	r.users[user.Username] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(id int) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeUserRepo) GetByUsername(username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[username]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *u
	if u.RefreshToken != nil {
		s := *u.RefreshToken
		cp.RefreshToken = &s
	}
	return &cp, nil
}

func (r *fakeUserRepo) UpdateRefresh(userID int, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == userID {
			u.RefreshToken = &token
			return nil
		}
	}
	return errors.New("user missing")
}

func (r *fakeUserRepo) RotateRefresh(username, oldToken, newToken string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[username]
	if !ok || u.RefreshToken == nil || *u.RefreshToken != oldToken {
		return false, nil
	}
	u.RefreshToken = &newToken
	return true, nil
}

func (r *fakeUserRepo) ClearRefresh(userID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == userID {
			u.RefreshToken = nil
			return nil
		}
	}
	return errors.New("user missing")
}

func (r *fakeUserRepo) Confirm(userID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == userID {
			u.Confirmed = true
			return nil
		}
	}
	return errors.New("user missing")
}

func (r *fakeUserRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

func (r *fakeUserRepo) storedRefresh(username string) *string {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[username]
	if !ok {
		return nil
	}
	return u.RefreshToken
}

// fakeMailer records confirmation sends and pushes the token on a channel so
// tests can wait for the background dispatch.
type fakeMailer struct {
	mu      sync.Mutex
	sendErr error
	tokens  chan string
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{tokens: make(chan string, 8)}
}

func (m *fakeMailer) SendConfirmationEmail(email, token, baseURL string) error {
	m.mu.Lock()
	err := m.sendErr
	m.mu.Unlock()
	m.tokens <- token
	return err
}

func (m *fakeMailer) failWith(err error) {
	m.mu.Lock()
	m.sendErr = err
	m.mu.Unlock()
}

func (m *fakeMailer) waitToken(timeout time.Duration) (string, bool) {
	select {
	case token := <-m.tokens:
		return token, true
	case <-time.After(timeout):
		return "", false
	}
}
