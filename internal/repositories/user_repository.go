package repositories

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"contactbook/internal/models"
)

type UserRepository interface {
	Create(user *models.User) error
	GetByID(id int) (*models.User, error)
	GetByUsername(username string) (*models.User, error)

	// refresh helpers
	UpdateRefresh(userID int, token string) error
	RotateRefresh(username, oldToken, newToken string) (bool, error)
	ClearRefresh(userID int) error

	// confirmation
	Confirm(userID int) error
}

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{DB: db}
}

func (r *userRepository) Create(user *models.User) error {
	const q = `
		INSERT INTO users (username, password_hash, confirmed, refresh_token)
		VALUES ($1, $2, $3, NULL)
		RETURNING id, created_at
	`
	err := r.DB.QueryRow(q, user.Username, user.PasswordHash, user.Confirmed).
		Scan(&user.ID, &user.CreatedAt)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
		return ErrDuplicate
	}
	return err
}

func (r *userRepository) GetByID(id int) (*models.User, error) {
	const q = `
		SELECT id, username, password_hash, confirmed, refresh_token, created_at
		FROM users
		WHERE id = $1
	`
	return r.scanOne(r.DB.QueryRow(q, id))
}

func (r *userRepository) GetByUsername(username string) (*models.User, error) {
	const q = `
		SELECT id, username, password_hash, confirmed, refresh_token, created_at
		FROM users
		WHERE username = $1
	`
	return r.scanOne(r.DB.QueryRow(q, username))
}

func (r *userRepository) scanOne(row *sql.Row) (*models.User, error) {
	u := &models.User{}
	var rt sql.NullString
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Confirmed, &rt, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if rt.Valid {
		s := rt.String
		u.RefreshToken = &s
	}
	return u, nil
}

// ===== refresh helpers =====

func (r *userRepository) UpdateRefresh(userID int, token string) error {
	_, err := r.DB.Exec(`UPDATE users SET refresh_token=$1 WHERE id=$2`, token, userID)
	return err
}

// RotateRefresh swaps the stored refresh token only if it still equals oldToken.
// The conditional UPDATE is the compare-and-swap that keeps two concurrent
// refresh calls from both succeeding: the loser sees zero rows affected.
func (r *userRepository) RotateRefresh(username, oldToken, newToken string) (bool, error) {
	res, err := r.DB.Exec(`
		UPDATE users
		SET refresh_token=$1
		WHERE username=$2 AND refresh_token=$3
	`, newToken, username, oldToken)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *userRepository) ClearRefresh(userID int) error {
	_, err := r.DB.Exec(`UPDATE users SET refresh_token=NULL WHERE id=$1`, userID)
	return err
}

// ===== confirmation =====

func (r *userRepository) Confirm(userID int) error {
	_, err := r.DB.Exec(`UPDATE users SET confirmed=TRUE WHERE id=$1`, userID)
	return err
}
