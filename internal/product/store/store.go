// Package store provides an interface for product storage operations.
package store

import "github.com/abgdnv/inventory/internal/product/schema"

// Product represents a product entity in the store.
type Product struct {
	ID       int
	Name     string
	Sku      string
	Price    float64
	Stock    int
	Category string
}

// ProductStore is an interface for product storage operations.
// Every method returns values; callers never hold a reference into the store.
type ProductStore interface {
	// FindAll returns all live products in insertion order.
	// Returns an empty slice if no products exist.
	FindAll() []Product

	// FindByID retrieves a single product by its unique identifier.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindByID(id int) (Product, error)

	// Create validates the input, enforces SKU uniqueness and stores a new product.
	// Returns the assigned ID, a ValidationError or ErrDuplicateSku.
	Create(in schema.ProductCreate) (int, error)

	// Update applies the provided fields of patch to an existing product.
	// Returns ErrProductNotFound, a ValidationError or ErrDuplicateSku; on error nothing changes.
	Update(id int, patch schema.ProductUpdate) (Product, error)

	// DeleteByID removes a product by its ID.
	// Returns ErrProductNotFound if no product exists with the given ID.
	DeleteByID(id int) error

	// Count returns the number of live products.
	Count() int
}
