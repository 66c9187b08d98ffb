package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sqlitelib "modernc.org/sqlite"

	"github.com/digiwallet/wallet-be/internal/models"
	"github.com/digiwallet/wallet-be/internal/storage"
)

const userColumns = "id, username, email, password_hash, first_name, last_name, phone_number, country, currency, provider, roles, created_at"

// CreateUser inserts a new user row, mapping uniqueness conflicts to
// storage.ErrAlreadyExists.
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO users (username, email, password_hash, first_name, last_name, phone_number, country, currency, provider, roles, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.Username, user.Email, user.PasswordHash, user.FirstName, user.LastName,
		user.PhoneNumber, user.Country, user.Currency, user.Provider,
		joinRoles(user.Roles), toMillis(now),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, storage.ErrAlreadyExists
		}
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.User{}, fmt.Errorf("user insert id: %w", err)
	}
	user.ID = id
	user.CreatedAt = now
	return user, nil
}

// UserByID fetches a user by id.
func (s *Store) UserByID(ctx context.Context, id int64) (models.User, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id)
	return scanUser(row)
}

// UserByUsername fetches a user by username.
func (s *Store) UserByUsername(ctx context.Context, username string) (models.User, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE username = ?", username)
	return scanUser(row)
}

// UserByEmail fetches a user by email address.
func (s *Store) UserByEmail(ctx context.Context, email string) (models.User, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE email = ?", email)
	return scanUser(row)
}

// UserByUsernameOrEmail fetches the first user matching the identifier as
// either username or email.
func (s *Store) UserByUsernameOrEmail(ctx context.Context, identifier string) (models.User, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE username = ? OR email = ? LIMIT 1",
		identifier, identifier)
	return scanUser(row)
}

// UsernameExists reports whether a username is taken.
func (s *Store) UsernameExists(ctx context.Context, username string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM users WHERE username = ?", username).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("count usernames: %w", err)
	}
	return n > 0, nil
}

// EmailExists reports whether an email is registered.
func (s *Store) EmailExists(ctx context.Context, email string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM users WHERE email = ?", email).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("count emails: %w", err)
	}
	return n > 0, nil
}

func scanUser(row *sql.Row) (models.User, error) {
	var user models.User
	var roles string
	var createdAt int64
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.FirstName, &user.LastName, &user.PhoneNumber, &user.Country,
		&user.Currency, &user.Provider, &roles, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, storage.ErrNotFound
		}
		return models.User{}, fmt.Errorf("scan user: %w", err)
	}
	user.Roles = splitRoles(roles)
	user.CreatedAt = fromMillis(createdAt)
	return user, nil
}

func joinRoles(roles []string) string {
	if len(roles) == 0 {
		return models.RoleUser
	}
	return strings.Join(roles, ",")
}

func splitRoles(roles string) []string {
	var out []string
	for _, r := range strings.Split(roles, ",") {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}

// SQLITE_CONSTRAINT_UNIQUE
const sqliteConstraintUnique = 2067

func isUniqueViolation(err error) bool {
	var se *sqlitelib.Error
	if errors.As(err, &se) {
		return se.Code() == sqliteConstraintUnique
	}
	return false
}
