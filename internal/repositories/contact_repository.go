package repositories

import (
	"database/sql"
	"errors"
	"time"

	"contactbook/internal/models"
)

// BirthdayEntry is a digest row: a contact with an upcoming birthday plus the
// username of the account it belongs to.
type BirthdayEntry struct {
	Owner     string
	FirstName string
	LastName  string
	Birthday  time.Time
}

type ContactRepository interface {
	Create(contact *models.Contact) error
	GetByID(id, userID int) (*models.Contact, error)
	ListByUser(userID, limit, offset int) ([]*models.Contact, error)
	ListAllByUser(userID int) ([]*models.Contact, error)
	Update(contact *models.Contact) error
	Delete(id, userID int) error
	Search(userID int, query string, limit, offset int) ([]*models.Contact, error)
	UpcomingBirthdays(userID, days int) ([]*models.Contact, error)
	UpcomingBirthdaysAll(days int) ([]BirthdayEntry, error)
}

type contactRepository struct {
	DB *sql.DB
}

func NewContactRepository(db *sql.DB) ContactRepository {
	return &contactRepository{DB: db}
}

const contactColumns = `id, user_id, first_name, last_name, email, phone_number, birthday, created_at, updated_at`

func (r *contactRepository) Create(contact *models.Contact) error {
	const q = `
		INSERT INTO contacts (user_id, first_name, last_name, email, phone_number, birthday)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	return r.DB.QueryRow(q,
		contact.UserID,
		contact.FirstName,
		contact.LastName,
		contact.Email,
		contact.PhoneNumber,
		contact.Birthday,
	).Scan(&contact.ID, &contact.CreatedAt, &contact.UpdatedAt)
}

func (r *contactRepository) GetByID(id, userID int) (*models.Contact, error) {
	const q = `
		SELECT ` + contactColumns + `
		FROM contacts
		WHERE id = $1 AND user_id = $2
	`
	c := &models.Contact{}
	err := r.DB.QueryRow(q, id, userID).Scan(
		&c.ID, &c.UserID, &c.FirstName, &c.LastName,
		&c.Email, &c.PhoneNumber, &c.Birthday, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *contactRepository) ListByUser(userID, limit, offset int) ([]*models.Contact, error) {
	const q = `
		SELECT ` + contactColumns + `
		FROM contacts
		WHERE user_id = $1
		ORDER BY id
		LIMIT $2 OFFSET $3
	`
	rows, err := r.DB.Query(q, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}

func (r *contactRepository) ListAllByUser(userID int) ([]*models.Contact, error) {
	const q = `
		SELECT ` + contactColumns + `
		FROM contacts
		WHERE user_id = $1
		ORDER BY id
	`
	rows, err := r.DB.Query(q, userID)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}

func (r *contactRepository) Update(contact *models.Contact) error {
	const q = `
		UPDATE contacts
		SET
			first_name=$1,
			last_name=$2,
			email=$3,
			phone_number=$4,
			birthday=$5,
			updated_at=NOW()
		WHERE id=$6 AND user_id=$7
	`
	res, err := r.DB.Exec(q,
		contact.FirstName,
		contact.LastName,
		contact.Email,
		contact.PhoneNumber,
		contact.Birthday,
		contact.ID,
		contact.UserID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *contactRepository) Delete(id, userID int) error {
	res, err := r.DB.Exec(`DELETE FROM contacts WHERE id=$1 AND user_id=$2`, id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *contactRepository) Search(userID int, query string, limit, offset int) ([]*models.Contact, error) {
	const q = `
		SELECT ` + contactColumns + `
		FROM contacts
		WHERE user_id = $1
		  AND (first_name ILIKE $2 OR last_name ILIKE $2 OR email ILIKE $2)
		ORDER BY id
		LIMIT $3 OFFSET $4
	`
	rows, err := r.DB.Query(q, userID, "%"+query+"%", limit, offset)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}

// UpcomingBirthdays uses day-of-year distance with modulo wraparound; off by
// one around leap days, which is fine for a reminder list.
func (r *contactRepository) UpcomingBirthdays(userID, days int) ([]*models.Contact, error) {
	const q = `
		SELECT ` + contactColumns + `
		FROM contacts
		WHERE user_id = $1
		  AND MOD(CAST(EXTRACT(DOY FROM birthday) - EXTRACT(DOY FROM CURRENT_DATE) AS int) + 365, 365) <= $2
		ORDER BY EXTRACT(DOY FROM birthday)
	`
	rows, err := r.DB.Query(q, userID, days)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}

func (r *contactRepository) UpcomingBirthdaysAll(days int) ([]BirthdayEntry, error) {
	const q = `
		SELECT u.username, c.first_name, c.last_name, c.birthday
		FROM contacts c
		JOIN users u ON u.id = c.user_id
		WHERE MOD(CAST(EXTRACT(DOY FROM c.birthday) - EXTRACT(DOY FROM CURRENT_DATE) AS int) + 365, 365) <= $1
		ORDER BY u.username, EXTRACT(DOY FROM c.birthday)
	`
	rows, err := r.DB.Query(q, days)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []BirthdayEntry
	for rows.Next() {
		var e BirthdayEntry
		if err := rows.Scan(&e.Owner, &e.FirstName, &e.LastName, &e.Birthday); err != nil {
			return nil, err
		}
		res = append(res, e)
	}
	return res, rows.Err()
}

func (r *contactRepository) collect(rows *sql.Rows) ([]*models.Contact, error) {
	defer rows.Close()

	var res []*models.Contact
	for rows.Next() {
		c := &models.Contact{}
		if err := rows.Scan(
			&c.ID, &c.UserID, &c.FirstName, &c.LastName,
			&c.Email, &c.PhoneNumber, &c.Birthday, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		res = append(res, c)
	}
	return res, rows.Err()
}
