package models

// User represents one record in the directory.
// It maps to the `users` table in SQLite.
type User struct {
	ID        int64  `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	Email     string `db:"email" json:"email"`
	CreatedAt string `db:"created_at" json:"created_at,omitempty"`
}
