package pg

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/gocart-dev/gocart/internal/domain"
	internal_errors "github.com/gocart-dev/gocart/internal/errors"
)

// Products have no owner column of their own; ownership flows through the
// owning category, so every query joins categories on owner_id.

// =========================================================================
// Public Methods (satisfy the service.ProductStorage interface)
// =========================================================================

func (s *Storage) SaveProduct(ownerId uuid.UUID, product domain.Product) (uuid.UUID, error) {
	var id uuid.UUID
	err := s.withTx(func(tx *sql.Tx) error {
		var err error
		id, err = s.saveProduct(tx, ownerId, product)
		return err
	})
	return id, err
}

func (s *Storage) ProductById(ownerId, id uuid.UUID) (domain.Product, error) {
	return s.productById(s.db, ownerId, id)
}

func (s *Storage) Products(ownerId uuid.UUID) ([]domain.Product, error) {
	return s.products(s.db, ownerId, domain.ProductFilter{}, -1, 0)
}

func (s *Storage) ProductsPage(ownerId uuid.UUID, filter domain.ProductFilter, limit, offset int) ([]domain.Product, error) {
	return s.products(s.db, ownerId, filter, limit, offset)
}

func (s *Storage) UpdateProduct(ownerId uuid.UUID, product domain.Product) error {
	return s.withTx(func(tx *sql.Tx) error {
		return s.updateProduct(tx, ownerId, product)
	})
}

func (s *Storage) DeleteProduct(ownerId, id uuid.UUID) error {
	return s.withTx(func(tx *sql.Tx) error {
		return s.deleteProduct(tx, ownerId, id)
	})
}

// =========================================================================
// Internal Methods (Core Database Logic)
// =========================================================================

func (s *Storage) saveProduct(q Querier, ownerId uuid.UUID, product domain.Product) (uuid.UUID, error) {
	// the target category must belong to the caller; someone else's category
	// reads as missing
	if _, err := s.categoryById(q, ownerId, product.CategoryId); err != nil {
		if internal_errors.IsNotFound(err) {
			return uuid.Nil, internal_errors.NotFound("Category not found")
		}
		return uuid.Nil, err
	}

	id := product.Id
	if id == uuid.Nil {
		id = uuid.New()
	}
	_, err := q.Exec("INSERT INTO products(id, name, description, price, category_id) VALUES($1, $2, $3, $4, $5)",
		id, product.Name, product.Description, product.Price, product.CategoryId)
	if err != nil {
		if isUniqueViolation(err) {
			return uuid.Nil, internal_errors.BadRequest("Product name already in use within this category")
		}
		return uuid.Nil, fmt.Errorf("failed to insert product: %w", err)
	}
	return id, nil
}

func (s *Storage) productById(q Querier, ownerId, id uuid.UUID) (domain.Product, error) {
	var product domain.Product
	err := q.QueryRow(`
        SELECT p.id, p.name, p.description, p.price, p.category_id
        FROM products p
        JOIN categories c ON c.id = p.category_id
        WHERE p.id = $1 AND c.owner_id = $2`, id, ownerId).
		Scan(&product.Id, &product.Name, &product.Description, &product.Price, &product.CategoryId)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, internal_errors.NotFound("Product not found")
		}
		return domain.Product{}, fmt.Errorf("failed to query product: %w", err)
	}
	return product, nil
}

// products lists the owner's products; limit < 0 means no paging.
func (s *Storage) products(q Querier, ownerId uuid.UUID, filter domain.ProductFilter, limit, offset int) ([]domain.Product, error) {
	query := `
        SELECT p.id, p.name, p.description, p.price, p.category_id
        FROM products p
        JOIN categories c ON c.id = p.category_id
        WHERE c.owner_id = $1`
	args := []interface{}{ownerId}

	if filter.CategoryId != nil {
		args = append(args, *filter.CategoryId)
		query += fmt.Sprintf(" AND p.category_id = $%d", len(args))
	}
	if filter.PriceMin != nil {
		args = append(args, *filter.PriceMin)
		query += fmt.Sprintf(" AND p.price >= $%d", len(args))
	}
	if filter.PriceMax != nil {
		args = append(args, *filter.PriceMax)
		query += fmt.Sprintf(" AND p.price <= $%d", len(args))
	}
	query += " ORDER BY p.name"
	if limit >= 0 {
		args = append(args, limit, offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var product domain.Product
		if err := rows.Scan(&product.Id, &product.Name, &product.Description, &product.Price, &product.CategoryId); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}
	return products, nil
}

func (s *Storage) updateProduct(q Querier, ownerId uuid.UUID, product domain.Product) error {
	// re-check ownership of the (possibly new) category before writing
	if _, err := s.categoryById(q, ownerId, product.CategoryId); err != nil {
		if internal_errors.IsNotFound(err) {
			return internal_errors.NotFound("Category not found")
		}
		return err
	}

	result, err := q.Exec(`
        UPDATE products p SET name = $1, description = $2, price = $3, category_id = $4
        FROM categories c
        WHERE p.id = $5 AND c.id = p.category_id AND c.owner_id = $6`,
		product.Name, product.Description, product.Price, product.CategoryId, product.Id, ownerId)
	if err != nil {
		if isUniqueViolation(err) {
			return internal_errors.BadRequest("Product name already in use within this category")
		}
		return fmt.Errorf("failed to update product: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows for product update: %w", err)
	}
	if rowsAffected == 0 {
		return internal_errors.NotFound("Product not found")
	}
	return nil
}

func (s *Storage) deleteProduct(q Querier, ownerId, id uuid.UUID) error {
	result, err := q.Exec(`
        DELETE FROM products p
        USING categories c
        WHERE p.id = $1 AND c.id = p.category_id AND c.owner_id = $2`, id, ownerId)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	rowsDeleted, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows for product deletion: %w", err)
	}
	if rowsDeleted == 0 {
		return internal_errors.NotFound("Product not found")
	}
	return nil
}
