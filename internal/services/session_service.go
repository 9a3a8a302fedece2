package services

import (
	"errors"
	"log"
	"strings"

	"contactbook/internal/models"
	"contactbook/internal/repositories"
)

var (
	// ErrAccountExists - signup with an already registered username.
	ErrAccountExists = errors.New("account already exists")
	// ErrInvalidCredentials is the single error for every login/refresh/token
	// failure, so the response never tells which check failed.
	ErrInvalidCredentials = errors.New("could not validate credentials")
	// ErrUnknownAccount - confirmation token points at a user that does not exist.
	ErrUnknownAccount = errors.New("verification error")
)

// SessionService drives the account lifecycle:
// signup -> email confirmation -> login -> refresh rotation.
type SessionService struct {
	users   repositories.UserRepository
	tokens  *TokenService
	auth    AuthService
	email   EmailService
	baseURL string
}

func NewSessionService(
	users repositories.UserRepository,
	tokens *TokenService,
	auth AuthService,
	email EmailService,
	baseURL string,
) *SessionService {
	return &SessionService{
		users:   users,
		tokens:  tokens,
		auth:    auth,
		email:   email,
		baseURL: baseURL,
	}
}

// Signup registers an unconfirmed account and dispatches the confirmation
// mail in the background.
func (s *SessionService) Signup(username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)

	if _, err := s.users.GetByUsername(username); err == nil {
		return nil, ErrAccountExists
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	hash, err := s.auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Username:     username,
		PasswordHash: hash,
		Confirmed:    false,
	}
	if err := s.users.Create(user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrAccountExists
		}
		return nil, err
	}
	log.Printf("[session][signup] created userID=%d username=%q", user.ID, username)

	s.dispatchConfirmation(username)
	return user, nil
}

// Confirm flips the confirmed flag. The second call with a valid token is a
// no-op; already reports it so the handler can answer distinctly.
func (s *SessionService) Confirm(token string) (already bool, err error) {
	subject, err := s.tokens.Verify(token, ScopeEmail)
	if err != nil {
		log.Printf("[session][confirm] token rejected: %v", err)
		return false, ErrInvalidCredentials
	}
	user, err := s.users.GetByUsername(subject)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return false, ErrUnknownAccount
		}
		return false, err
	}
	if user.Confirmed {
		return true, nil
	}
	if err := s.users.Confirm(user.ID); err != nil {
		return false, err
	}
	log.Printf("[session][confirm] confirmed userID=%d", user.ID)
	return false, nil
}

// Login checks credentials and issues a fresh access+refresh pair, storing
// the refresh token on the account. Unknown user, unconfirmed account and
// wrong password all fail identically.
func (s *SessionService) Login(username, password string) (*models.TokenPair, error) {
	user, err := s.users.GetByUsername(strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.Confirmed {
		log.Printf("[session][login] unconfirmed userID=%d", user.ID)
		return nil, ErrInvalidCredentials
	}
	if !s.auth.CheckPassword(password, user.PasswordHash) {
		log.Printf("[session][login] password mismatch userID=%d", user.ID)
		return nil, ErrInvalidCredentials
	}

	pair, err := s.issuePair(user.Username)
	if err != nil {
		return nil, err
	}
	if err := s.users.UpdateRefresh(user.ID, pair.RefreshToken); err != nil {
		return nil, err
	}
	log.Printf("[session][login] success userID=%d", user.ID)
	return pair, nil
}

// Refresh rotates the token pair. The presented token must exactly equal the
// stored one; a stale token clears the stored value and forces re-login. The
// swap itself is a conditional update, so of two concurrent calls only the
// first wins.
func (s *SessionService) Refresh(presented string) (*models.TokenPair, error) {
	subject, err := s.tokens.Verify(presented, ScopeRefresh)
	if err != nil {
		log.Printf("[session][refresh] token rejected: %v", err)
		return nil, ErrInvalidCredentials
	}
	user, err := s.users.GetByUsername(subject)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if user.RefreshToken == nil || *user.RefreshToken != presented {
		// reuse of a rotated token: revoke the session entirely
		log.Printf("[session][refresh] stale token for userID=%d, clearing", user.ID)
		if err := s.users.ClearRefresh(user.ID); err != nil {
			log.Printf("[session][refresh] clear refresh failed userID=%d: %v", user.ID, err)
		}
		return nil, ErrInvalidCredentials
	}

	pair, err := s.issuePair(user.Username)
	if err != nil {
		return nil, err
	}
	ok, err := s.users.RotateRefresh(user.Username, presented, pair.RefreshToken)
	if err != nil {
		return nil, err
	}
	if !ok {
		// lost the swap to a concurrent refresh
		log.Printf("[session][refresh] rotation race lost userID=%d", user.ID)
		return nil, ErrInvalidCredentials
	}
	return pair, nil
}

// RequestConfirmation resends the confirmation mail. It never reveals whether
// the username exists or is already confirmed.
func (s *SessionService) RequestConfirmation(username string) {
	user, err := s.users.GetByUsername(strings.TrimSpace(username))
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			log.Printf("[session][request-confirmation] lookup failed: %v", err)
		}
		return
	}
	if user.Confirmed {
		return
	}
	s.dispatchConfirmation(user.Username)
}

func (s *SessionService) issuePair(subject string) (*models.TokenPair, error) {
	access, err := s.tokens.Issue(subject, ScopeAccess, s.tokens.AccessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.Issue(subject, ScopeRefresh, s.tokens.RefreshTTL)
	if err != nil {
		return nil, err
	}
	return &models.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
	}, nil
}

// dispatchConfirmation sends the mail on its own goroutine. Errors are logged,
// never returned: mail trouble must not fail or delay the caller.
func (s *SessionService) dispatchConfirmation(username string) {
	go func() {
		token, err := s.tokens.Issue(username, ScopeEmail, s.tokens.EmailTokenTTL)
		if err != nil {
			log.Printf("[session][mail] issue email token for %q: %v", username, err)
			return
		}
		if err := s.email.SendConfirmationEmail(username, token, s.baseURL); err != nil {
			log.Printf("[session][mail] warning: failed to send confirmation to %q: %v", username, err)
		}
	}()
}
