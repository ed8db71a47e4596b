package pg

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/gocart-dev/gocart/internal/domain"
	internal_errors "github.com/gocart-dev/gocart/internal/errors"
)

// Every category query is keyed by owner id. A category belonging to someone
// else is indistinguishable from a missing one: both come back as 404.

// =========================================================================
// Public Methods (satisfy the service.CategoryStorage interface)
// =========================================================================

func (s *Storage) SaveCategory(category domain.Category) (uuid.UUID, error) {
	var id uuid.UUID
	err := s.withTx(func(tx *sql.Tx) error {
		var err error
		id, err = s.saveCategory(tx, category)
		return err
	})
	return id, err
}

func (s *Storage) CategoryById(ownerId, id uuid.UUID) (domain.Category, error) {
	return s.categoryById(s.db, ownerId, id)
}

func (s *Storage) Categories(ownerId uuid.UUID) ([]domain.Category, error) {
	return s.categories(s.db, ownerId, nil, -1, 0)
}

// CategoriesPage returns one page of the owner's categories, optionally
// restricted to children of parentId.
func (s *Storage) CategoriesPage(ownerId uuid.UUID, parentId *uuid.UUID, limit, offset int) ([]domain.Category, error) {
	return s.categories(s.db, ownerId, parentId, limit, offset)
}

// CategoryChildren lists direct subcategories of parentId.
func (s *Storage) CategoryChildren(ownerId, parentId uuid.UUID) ([]domain.Category, error) {
	return s.categories(s.db, ownerId, &parentId, -1, 0)
}

func (s *Storage) UpdateCategory(category domain.Category) error {
	return s.withTx(func(tx *sql.Tx) error {
		return s.updateCategory(tx, category)
	})
}

func (s *Storage) DeleteCategory(ownerId, id uuid.UUID) error {
	return s.withTx(func(tx *sql.Tx) error {
		return s.deleteCategory(tx, ownerId, id)
	})
}

// =========================================================================
// Internal Methods (Core Database Logic)
// =========================================================================

func (s *Storage) saveCategory(q Querier, category domain.Category) (uuid.UUID, error) {
	// a parent reference is resolved within the owner's own forest; a parent
	// owned by someone else must read as missing, not as a constraint error
	if category.ParentId != nil {
		if _, err := s.categoryById(q, category.OwnerId, *category.ParentId); err != nil {
			if internal_errors.IsNotFound(err) {
				return uuid.Nil, internal_errors.NotFound("Parent category not found")
			}
			return uuid.Nil, err
		}
	}

	id := category.Id
	if id == uuid.Nil {
		id = uuid.New()
	}
	_, err := q.Exec("INSERT INTO categories(id, name, owner_id, parent_id) VALUES($1, $2, $3, $4)",
		id, category.Name, category.OwnerId, category.ParentId)
	if err != nil {
		if isUniqueViolation(err) {
			return uuid.Nil, internal_errors.BadRequest("Category name already in use")
		}
		return uuid.Nil, fmt.Errorf("failed to insert category: %w", err)
	}
	return id, nil
}

func (s *Storage) categoryById(q Querier, ownerId, id uuid.UUID) (domain.Category, error) {
	var category domain.Category
	err := q.QueryRow("SELECT id, name, owner_id, parent_id FROM categories WHERE id = $1 AND owner_id = $2", id, ownerId).
		Scan(&category.Id, &category.Name, &category.OwnerId, &category.ParentId)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Category{}, internal_errors.NotFound("Category not found")
		}
		return domain.Category{}, fmt.Errorf("failed to query category: %w", err)
	}
	return category, nil
}

// categories lists an owner's categories; limit < 0 means no paging.
func (s *Storage) categories(q Querier, ownerId uuid.UUID, parentId *uuid.UUID, limit, offset int) ([]domain.Category, error) {
	query := "SELECT id, name, owner_id, parent_id FROM categories WHERE owner_id = $1"
	args := []interface{}{ownerId}
	if parentId != nil {
		args = append(args, *parentId)
		query += fmt.Sprintf(" AND parent_id = $%d", len(args))
	}
	query += " ORDER BY name"
	if limit >= 0 {
		args = append(args, limit, offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var category domain.Category
		if err := rows.Scan(&category.Id, &category.Name, &category.OwnerId, &category.ParentId); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}
	return categories, nil
}

func (s *Storage) updateCategory(q Querier, category domain.Category) error {
	if category.ParentId != nil {
		if *category.ParentId == category.Id {
			return internal_errors.BadRequest("Category cannot be its own parent")
		}
		if _, err := s.categoryById(q, category.OwnerId, *category.ParentId); err != nil {
			if internal_errors.IsNotFound(err) {
				return internal_errors.NotFound("Parent category not found")
			}
			return err
		}
	}

	result, err := q.Exec("UPDATE categories SET name = $1, parent_id = $2 WHERE id = $3 AND owner_id = $4",
		category.Name, category.ParentId, category.Id, category.OwnerId)
	if err != nil {
		if isUniqueViolation(err) {
			return internal_errors.BadRequest("Category name already in use")
		}
		return fmt.Errorf("failed to update category: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows for category update: %w", err)
	}
	if rowsAffected == 0 {
		return internal_errors.NotFound("Category not found")
	}
	return nil
}

func (s *Storage) deleteCategory(q Querier, ownerId, id uuid.UUID) error {
	result, err := q.Exec("DELETE FROM categories WHERE id = $1 AND owner_id = $2", id, ownerId)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	rowsDeleted, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows for category deletion: %w", err)
	}
	if rowsDeleted == 0 {
		return internal_errors.NotFound("Category not found")
	}
	return nil
}
