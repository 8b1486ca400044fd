package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const userColumns = `id, username, password_hash, email, full_name, phone_number, address, role, created_at`

func scanUser(row interface{ Scan(dest ...any) error }) (User, error) {
	var u User
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.PasswordHash,
		&u.Email,
		&u.FullName,
		&u.PhoneNumber,
		&u.Address,
		&u.Role,
		&u.CreatedAt,
	)
	return u, err
}

// CreateUserParams are the insert values for a new account.
type CreateUserParams struct {
	Username     string
	PasswordHash string
	Email        string
	FullName     string
	PhoneNumber  pgtype.Text
	Address      pgtype.Text
	Role         string
}

// CreateUser inserts a new account and returns the stored row.
func (s *Store) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO users (username, password_hash, email, full_name, phone_number, address, role)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+userColumns,
		arg.Username, arg.PasswordHash, arg.Email, arg.FullName, arg.PhoneNumber, arg.Address, arg.Role,
	)
	return scanUser(row)
}

// GetUserByUsername fetches an account by its unique username.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (User, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	return scanUser(row)
}

// GetUserByID fetches an account by id.
func (s *Store) GetUserByID(ctx context.Context, id int32) (User, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// UpdateUserPassword replaces the stored password hash.
func (s *Store) UpdateUserPassword(ctx context.Context, id int32, passwordHash string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE users SET password_hash = $2 WHERE id = $1`, id, passwordHash)
	return err
}

// UpdateUserContactParams are the editable profile fields.
type UpdateUserContactParams struct {
	ID          int32
	FullName    string
	PhoneNumber pgtype.Text
	Address     pgtype.Text
}

// UpdateUserContact updates the account's contact details and returns the
// stored row.
func (s *Store) UpdateUserContact(ctx context.Context, arg UpdateUserContactParams) (User, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE users
		SET full_name = $2, phone_number = $3, address = $4
		WHERE id = $1
		RETURNING `+userColumns,
		arg.ID, arg.FullName, arg.PhoneNumber, arg.Address,
	)
	return scanUser(row)
}

// CountUsers returns the total number of accounts.
func (s *Store) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := s.pool.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&n)
	return n, err
}
