package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"hesab.local/pfm/internal/matcher"
)

// Accounts returns all accounts ordered by id. The slice is a snapshot owned by the caller.
func (s *Store) Accounts(ctx context.Context) ([]matcher.Entity, error) {
	return s.entities(ctx, "accounts")
}

// Categories returns all categories ordered by id. The slice is a snapshot owned by the caller.
func (s *Store) Categories(ctx context.Context) ([]matcher.Entity, error) {
	return s.entities(ctx, "categories")
}

// AccountName returns the name of the account with id
func (s *Store) AccountName(ctx context.Context, id int64) (string, error) {
	return s.entityName(ctx, "accounts", id)
}

// CategoryName returns the name of the category with id
func (s *Store) CategoryName(ctx context.Context, id int64) (string, error) {
	return s.entityName(ctx, "categories", id)
}

// CreateAccount adds an account and returns it
func (s *Store) CreateAccount(ctx context.Context, name string) (matcher.Entity, error) {
	return s.createEntity(ctx, "accounts", name)
}

// CreateCategory adds a category and returns it
func (s *Store) CreateCategory(ctx context.Context, name string) (matcher.Entity, error) {
	return s.createEntity(ctx, "categories", name)
}

// DeleteAccount removes an account; its transactions keep a NULL account
func (s *Store) DeleteAccount(ctx context.Context, id int64) error {
	return s.deleteEntity(ctx, "accounts", id)
}

// DeleteCategory removes a category; its transactions keep a NULL category
func (s *Store) DeleteCategory(ctx context.Context, id int64) error {
	return s.deleteEntity(ctx, "categories", id)
}

func (s *Store) entities(ctx context.Context, table string) ([]matcher.Entity, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name FROM "+table+" ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", table, err)
	}
	defer rows.Close()

	var entities []matcher.Entity
	for rows.Next() {
		var e matcher.Entity
		if err := rows.Scan(&e.ID, &e.Name); err != nil {
			return nil, fmt.Errorf("scanning %s: %w", table, err)
		}
		entities = append(entities, e)
	}
	return entities, rows.Err()
}

func (s *Store) entityName(ctx context.Context, table string, id int64) (string, error) {
	var name string
	err := s.db.QueryRowContext(ctx, "SELECT name FROM "+table+" WHERE id = ?", id).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("querying %s name: %w", table, err)
	}
	return name, nil
}

func (s *Store) createEntity(ctx context.Context, table, name string) (matcher.Entity, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return matcher.Entity{}, ErrEmptyName
	}

	res, err := s.db.ExecContext(ctx, "INSERT INTO "+table+" (name) VALUES (?)", name)
	if err != nil {
		if isUniqueViolation(err) {
			return matcher.Entity{}, ErrDuplicateName
		}
		return matcher.Entity{}, fmt.Errorf("inserting into %s: %w", table, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return matcher.Entity{}, fmt.Errorf("reading %s id: %w", table, err)
	}
	return matcher.Entity{ID: id, Name: name}, nil
}

func (s *Store) deleteEntity(ctx context.Context, table string, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting from %s: %w", table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting from %s: %w", table, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
