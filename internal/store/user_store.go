package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/directoryai/directoryai/internal/models"
)

// ErrDuplicateEmail is returned by Create and Update when the email
// collides with an existing record.
var ErrDuplicateEmail = errors.New("email already exists")

// UserFields carries optional field overwrites for Update.
// Nil fields are left unchanged.
type UserFields struct {
	Name  *string
	Email *string
}

type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

// Ping verifies the underlying database is reachable.
func (s *UserStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Create inserts a new user and returns it with its generated ID.
func (s *UserStore) Create(ctx context.Context, name, email string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.db.ExecContext(ctx, `INSERT INTO users (name, email) VALUES (?, ?)`, name, email)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Get returns the user with the given ID, or (nil, nil) when no row matches.
func (s *UserStore) Get(ctx context.Context, id int64) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var u models.User
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, email, created_at FROM users WHERE id = ?`, id).
		Scan(&u.ID, &u.Name, &u.Email, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// List returns all users ordered by ID.
func (s *UserStore) List(ctx context.Context) ([]models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `SELECT id, name, email, created_at FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Count returns the number of users in the directory.
func (s *UserStore) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Update overwrites the provided fields on the user with the given ID and
// returns the number of rows affected. A missing ID affects zero rows and
// is not an error. Fields left nil are preserved.
func (s *UserStore) Update(ctx context.Context, id int64, fields UserFields) (int64, error) {
	set := make([]string, 0, 2)
	args := make([]any, 0, 3)
	if fields.Name != nil {
		set = append(set, "name = ?")
		args = append(args, *fields.Name)
	}
	if fields.Email != nil {
		set = append(set, "email = ?")
		args = append(args, *fields.Email)
	}
	if len(set) == 0 {
		return 0, errors.New("no fields to update")
	}
	args = append(args, id)

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET `+strings.Join(set, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicateEmail
		}
		return 0, err
	}
	return res.RowsAffected()
}

// Delete removes the user with the given ID and returns the number of rows
// affected (0 when no row matches).
func (s *UserStore) Delete(ctx context.Context, id int64) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteAll removes every user and returns how many were deleted.
func (s *UserStore) DeleteAll(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := s.db.ExecContext(ctx, `DELETE FROM users`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

var sampleUsers = []struct {
	name, email string
}{
	{"Alice Smith", "alice@example.com"},
	{"Bob Johnson", "bob@example.com"},
	{"Charlie Lee", "charlie@example.com"},
	{"Dana White", "dana@example.com"},
	{"Eve Black", "eve@example.com"},
}

// Seed inserts sample users when the table is empty. It returns the created
// users and the number of users that already existed (in which case nothing
// is inserted).
func (s *UserStore) Seed(ctx context.Context) ([]models.User, int64, error) {
	existing, err := s.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	if existing > 0 {
		return nil, existing, nil
	}

	created := make([]models.User, 0, len(sampleUsers))
	for _, su := range sampleUsers {
		u, err := s.Create(ctx, su.name, su.email)
		if err != nil {
			return created, 0, err
		}
		created = append(created, *u)
	}
	return created, 0, nil
}

func isUniqueViolation(err error) bool {
	var serr sqlite3.Error
	if errors.As(err, &serr) {
		return serr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			serr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
