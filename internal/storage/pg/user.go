package pg

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/gocart-dev/gocart/internal/domain"
	internal_errors "github.com/gocart-dev/gocart/internal/errors"
)

// =========================================================================
// Public Methods (satisfy the service.UserStorage interface)
// =========================================================================

// SaveUser inserts a new user record inside a transaction. A duplicate email
// surfaces as a 400 conflict, not a raw driver error.
func (s *Storage) SaveUser(user domain.User) (uuid.UUID, error) {
	var id uuid.UUID
	err := s.withTx(func(tx *sql.Tx) error {
		var err error
		id, err = s.saveUser(tx, user)
		return err
	})
	return id, err
}

// UserByEmail fetches a user by exact email match. Read-only, uses the pool.
func (s *Storage) UserByEmail(email string) (domain.User, error) {
	return s.userByEmail(s.db, email)
}

// UserById fetches a user by their id. Read-only, uses the pool.
func (s *Storage) UserById(id uuid.UUID) (domain.User, error) {
	return s.userById(s.db, id)
}

// UpdatePassword persists a new password hash for the user.
func (s *Storage) UpdatePassword(id uuid.UUID, passHash string) error {
	return s.withTx(func(tx *sql.Tx) error {
		return s.updatePassword(tx, id, passHash)
	})
}

// Users returns a page of users, optionally filtered by role.
// roleFilter of "" (or "all") disables the filter.
func (s *Storage) Users(limit, offset int, roleFilter domain.Role) ([]domain.User, error) {
	return s.users(s.db, limit, offset, roleFilter)
}

// =========================================================================
// Internal Methods (Core Database Logic)
// These methods accept a Querier and are transaction-agnostic.
// =========================================================================

func (s *Storage) saveUser(q Querier, user domain.User) (uuid.UUID, error) {
	id := user.Id
	if id == uuid.Nil {
		id = uuid.New()
	}
	_, err := q.Exec("INSERT INTO users(id, email, full_name, password_hash, role) VALUES($1, $2, $3, $4, $5)",
		id, user.Email, user.FullName, user.PassHash, user.Role)
	if err != nil {
		if isUniqueViolation(err) {
			return uuid.Nil, internal_errors.BadRequest("Email already registered")
		}
		return uuid.Nil, fmt.Errorf("failed to insert user: %w", err)
	}
	return id, nil
}

func (s *Storage) userByEmail(q Querier, email string) (domain.User, error) {
	var user domain.User
	err := q.QueryRow("SELECT id, email, full_name, password_hash, role FROM users WHERE email = $1", email).
		Scan(&user.Id, &user.Email, &user.FullName, &user.PassHash, &user.Role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, internal_errors.NotFound("User not found")
		}
		return domain.User{}, fmt.Errorf("failed to query user by email: %w", err)
	}
	return user, nil
}

func (s *Storage) userById(q Querier, id uuid.UUID) (domain.User, error) {
	var user domain.User
	err := q.QueryRow("SELECT id, email, full_name, password_hash, role FROM users WHERE id = $1", id).
		Scan(&user.Id, &user.Email, &user.FullName, &user.PassHash, &user.Role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, internal_errors.NotFound("User not found")
		}
		return domain.User{}, fmt.Errorf("failed to query user by id: %w", err)
	}
	return user, nil
}

func (s *Storage) updatePassword(q Querier, id uuid.UUID, passHash string) error {
	result, err := q.Exec("UPDATE users SET password_hash = $1 WHERE id = $2", passHash, id)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows for password update: %w", err)
	}
	if rowsAffected == 0 {
		return internal_errors.NotFound("User not found")
	}
	return nil
}

func (s *Storage) users(q Querier, limit, offset int, roleFilter domain.Role) ([]domain.User, error) {
	query := "SELECT id, email, full_name, password_hash, role FROM users"
	args := []interface{}{}
	if roleFilter == domain.RoleUser || roleFilter == domain.RoleAdmin {
		query += " WHERE role = $1 ORDER BY email LIMIT $2 OFFSET $3"
		args = append(args, roleFilter, limit, offset)
	} else {
		query += " ORDER BY email LIMIT $1 OFFSET $2"
		args = append(args, limit, offset)
	}

	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(&user.Id, &user.Email, &user.FullName, &user.PassHash, &user.Role); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}
	return users, nil
}
