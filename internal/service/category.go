package service

import (
	"github.com/google/uuid"

	"github.com/gocart-dev/gocart/internal/domain"
	internal_errors "github.com/gocart-dev/gocart/internal/errors"
)

// to mock service in tests
type CategoryService interface {
	Create(ownerId uuid.UUID, name string, parentId *uuid.UUID) (domain.Category, error)
	Get(ownerId, id uuid.UUID) (domain.Category, error)
	List(ownerId uuid.UUID) ([]domain.Category, error)
	Page(ownerId uuid.UUID, parentId *uuid.UUID, page, size int) ([]domain.Category, error)
	Tree(ownerId, id uuid.UUID) (*domain.CategoryNode, error)
	Update(ownerId, id uuid.UUID, name string, parentId *uuid.UUID) (domain.Category, error)
	Delete(ownerId, id uuid.UUID) error
}

type CategoryStorage interface {
	SaveCategory(category domain.Category) (uuid.UUID, error)
	CategoryById(ownerId, id uuid.UUID) (domain.Category, error)
	Categories(ownerId uuid.UUID) ([]domain.Category, error)
	CategoriesPage(ownerId uuid.UUID, parentId *uuid.UUID, limit, offset int) ([]domain.Category, error)
	CategoryChildren(ownerId, parentId uuid.UUID) ([]domain.Category, error)
	UpdateCategory(category domain.Category) error
	DeleteCategory(ownerId, id uuid.UUID) error
}

type Category struct {
	storage         CategoryStorage
	defaultPageSize int
}

func NewCategory(storage CategoryStorage, defaultPageSize int) *Category {
	if defaultPageSize < 1 {
		defaultPageSize = 10
	}
	return &Category{storage: storage, defaultPageSize: defaultPageSize}
}

func (c *Category) Create(ownerId uuid.UUID, name string, parentId *uuid.UUID) (domain.Category, error) {
	name = sanitizeText(name)
	if name == "" {
		return domain.Category{}, internal_errors.BadRequest("Category name is required")
	}

	category := domain.Category{Name: name, OwnerId: ownerId, ParentId: parentId}
	id, err := c.storage.SaveCategory(category)
	if err != nil {
		return domain.Category{}, err
	}
	category.Id = id
	return category, nil
}

func (c *Category) Get(ownerId, id uuid.UUID) (domain.Category, error) {
	return c.storage.CategoryById(ownerId, id)
}

func (c *Category) List(ownerId uuid.UUID) ([]domain.Category, error) {
	return c.storage.Categories(ownerId)
}

func (c *Category) Page(ownerId uuid.UUID, parentId *uuid.UUID, page, size int) ([]domain.Category, error) {
	page = max(1, page)
	if size < 1 {
		size = c.defaultPageSize
	}
	return c.storage.CategoriesPage(ownerId, parentId, size, (page-1)*size)
}

// Tree resolves a category with all its subcategories. The traversal is
// iterative with a visited set: the schema forbids cycles, but a pathological
// row must not hang the request.
func (c *Category) Tree(ownerId, id uuid.UUID) (*domain.CategoryNode, error) {
	root, err := c.storage.CategoryById(ownerId, id)
	if err != nil {
		return nil, err
	}

	rootNode := &domain.CategoryNode{Category: root}
	visited := map[uuid.UUID]struct{}{root.Id: {}}
	queue := []*domain.CategoryNode{rootNode}

	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]

		children, err := c.storage.CategoryChildren(ownerId, node.Id)
		if err != nil {
			return nil, err
		}
		for _, child := range children {
			if _, seen := visited[child.Id]; seen {
				continue
			}
			visited[child.Id] = struct{}{}
			childNode := &domain.CategoryNode{Category: child}
			node.Subcategories = append(node.Subcategories, childNode)
			queue = append(queue, childNode)
		}
	}

	return rootNode, nil
}

func (c *Category) Update(ownerId, id uuid.UUID, name string, parentId *uuid.UUID) (domain.Category, error) {
	name = sanitizeText(name)
	if name == "" {
		return domain.Category{}, internal_errors.BadRequest("Category name is required")
	}

	category := domain.Category{Id: id, Name: name, OwnerId: ownerId, ParentId: parentId}
	if err := c.storage.UpdateCategory(category); err != nil {
		return domain.Category{}, err
	}
	return category, nil
}

func (c *Category) Delete(ownerId, id uuid.UUID) error {
	return c.storage.DeleteCategory(ownerId, id)
}
