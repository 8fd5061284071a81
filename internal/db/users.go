package db

import (
	"context"
	"database/sql"
	"time"
)

const userColumns = "id, name, email, created_at, updated_at"

type CreateUserParams struct {
	Name  string
	Email sql.NullString
}

// CreateUser inserts a new player and returns the stored row.
func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	defer observe("create_user", time.Now())
	var u User
	err := q.db.QueryRowContext(ctx,
		"INSERT INTO users (name, email) VALUES ($1, $2) RETURNING "+userColumns,
		arg.Name, arg.Email).
		Scan(&u.ID, &u.Name, &u.Email, &u.CreatedAt, &u.UpdatedAt)
	return u, observeErr("create_user", err)
}

// GetUserByEmail looks a player up by email.
func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	defer observe("get_user_by_email", time.Now())
	var u User
	err := q.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = $1", email).
		Scan(&u.ID, &u.Name, &u.Email, &u.CreatedAt, &u.UpdatedAt)
	return u, observeErr("get_user_by_email", err)
}

// ListUsers returns up to limit players, newest first.
func (q *Queries) ListUsers(ctx context.Context, limit int32) ([]User, error) {
	defer observe("list_users", time.Now())
	rows, err := q.db.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users ORDER BY created_at DESC LIMIT $1", limit)
	if err != nil {
		return nil, observeErr("list_users", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, observeErr("list_users", err)
		}
		users = append(users, u)
	}
	return users, observeErr("list_users", rows.Err())
}
