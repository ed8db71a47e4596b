package domain

import "github.com/google/uuid"

// Category belongs to exactly one owner. ParentId, when set, must point to a
// category of the same owner; the forest never crosses ownership boundaries.
type Category struct {
	Id       uuid.UUID
	Name     string
	OwnerId  uuid.UUID
	ParentId *uuid.UUID
}

// CategoryNode is a category with its subtree resolved.
type CategoryNode struct {
	Category
	Subcategories []*CategoryNode
}

type Product struct {
	Id          uuid.UUID
	Name        string
	Description string
	Price       float64
	CategoryId  uuid.UUID
}

// ProductFilter narrows paginated product listings.
type ProductFilter struct {
	CategoryId *uuid.UUID
	PriceMin   *float64
	PriceMax   *float64
}
