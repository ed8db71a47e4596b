package service

import (
	"github.com/google/uuid"

	"github.com/gocart-dev/gocart/internal/domain"
	internal_errors "github.com/gocart-dev/gocart/internal/errors"
)

// to mock service in tests
type ProductService interface {
	Create(ownerId uuid.UUID, name, description string, price float64, categoryId uuid.UUID) (domain.Product, error)
	Get(ownerId, id uuid.UUID) (domain.Product, error)
	List(ownerId uuid.UUID) ([]domain.Product, error)
	Page(ownerId uuid.UUID, filter domain.ProductFilter, page, size int) ([]domain.Product, error)
	Update(ownerId, id uuid.UUID, name, description string, price float64, categoryId uuid.UUID) (domain.Product, error)
	Delete(ownerId, id uuid.UUID) error
}

type ProductStorage interface {
	SaveProduct(ownerId uuid.UUID, product domain.Product) (uuid.UUID, error)
	ProductById(ownerId, id uuid.UUID) (domain.Product, error)
	Products(ownerId uuid.UUID) ([]domain.Product, error)
	ProductsPage(ownerId uuid.UUID, filter domain.ProductFilter, limit, offset int) ([]domain.Product, error)
	UpdateProduct(ownerId uuid.UUID, product domain.Product) error
	DeleteProduct(ownerId, id uuid.UUID) error
}

type Product struct {
	storage         ProductStorage
	defaultPageSize int
}

func NewProduct(storage ProductStorage, defaultPageSize int) *Product {
	if defaultPageSize < 1 {
		defaultPageSize = 10
	}
	return &Product{storage: storage, defaultPageSize: defaultPageSize}
}

func validateProduct(name string, price float64) (string, error) {
	name = sanitizeText(name)
	if name == "" {
		return "", internal_errors.BadRequest("Product name is required")
	}
	if price <= 0 {
		return "", internal_errors.BadRequest("Price must be greater than zero")
	}
	return name, nil
}

func (p *Product) Create(ownerId uuid.UUID, name, description string, price float64, categoryId uuid.UUID) (domain.Product, error) {
	name, err := validateProduct(name, price)
	if err != nil {
		return domain.Product{}, err
	}

	product := domain.Product{
		Name:        name,
		Description: sanitizeText(description),
		Price:       price,
		CategoryId:  categoryId,
	}
	id, err := p.storage.SaveProduct(ownerId, product)
	if err != nil {
		return domain.Product{}, err
	}
	product.Id = id
	return product, nil
}

func (p *Product) Get(ownerId, id uuid.UUID) (domain.Product, error) {
	return p.storage.ProductById(ownerId, id)
}

func (p *Product) List(ownerId uuid.UUID) ([]domain.Product, error) {
	return p.storage.Products(ownerId)
}

func (p *Product) Page(ownerId uuid.UUID, filter domain.ProductFilter, page, size int) ([]domain.Product, error) {
	page = max(1, page)
	if size < 1 {
		size = p.defaultPageSize
	}
	return p.storage.ProductsPage(ownerId, filter, size, (page-1)*size)
}

func (p *Product) Update(ownerId, id uuid.UUID, name, description string, price float64, categoryId uuid.UUID) (domain.Product, error) {
	name, err := validateProduct(name, price)
	if err != nil {
		return domain.Product{}, err
	}

	product := domain.Product{
		Id:          id,
		Name:        name,
		Description: sanitizeText(description),
		Price:       price,
		CategoryId:  categoryId,
	}
	if err := p.storage.UpdateProduct(ownerId, product); err != nil {
		return domain.Product{}, err
	}
	return product, nil
}

func (p *Product) Delete(ownerId, id uuid.UUID) error {
	return p.storage.DeleteProduct(ownerId, id)
}
