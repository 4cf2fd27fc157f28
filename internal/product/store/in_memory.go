package store

import (
	"slices"
	"strings"
	"sync"

	"github.com/abgdnv/inventory/internal/product/errors"
	"github.com/abgdnv/inventory/internal/product/schema"
)

// inMemory implements ProductStore using an in-memory map.
// A single RWMutex guards the whole collection, so the SKU check and the
// write that follows it happen under one lock.
type inMemory struct {
	mu       sync.RWMutex
	products map[int]Product
	order    []int // ids in insertion order
	nextID   int
	schema   *schema.Validator
}

// NewInMemoryStore creates a new instance of ProductStore
func NewInMemoryStore() ProductStore {
	return &inMemory{
		products: make(map[int]Product),
		nextID:   1,
		schema:   schema.New(),
	}
}

// FindAll retrieves all products in insertion order.
func (s *inMemory) FindAll() []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]Product, 0, len(s.order))
	for _, id := range s.order {
		list = append(list, s.products[id])
	}
	return list
}

// FindByID retrieves a product by its ID.
func (s *inMemory) FindByID(id int) (Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return Product{}, errors.ErrProductNotFound
	}
	return p, nil
}

// Create validates and stores a new product and returns its ID.
// The ID counter only advances once the input has been accepted.
func (s *inMemory) Create(in schema.ProductCreate) (int, error) {
	if err := s.schema.ValidateCreate(in); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.skuTaken(in.Sku, 0) {
		return 0, errors.ErrDuplicateSku
	}

	product := Product{
		ID:       s.nextID,
		Name:     in.Name,
		Sku:      in.Sku,
		Price:    in.Price,
		Stock:    in.Stock,
		Category: in.Category,
	}
	s.nextID++
	s.products[product.ID] = product
	s.order = append(s.order, product.ID)

	return product.ID, nil
}

// Update merges the provided fields of patch into the stored product.
func (s *inMemory) Update(id int, patch schema.ProductUpdate) (Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.products[id]
	if !ok {
		return Product{}, errors.ErrProductNotFound
	}
	if err := s.schema.ValidateUpdate(patch); err != nil {
		return Product{}, err
	}
	if patch.Sku != nil && s.skuTaken(*patch.Sku, id) {
		return Product{}, errors.ErrDuplicateSku
	}

	updated := merge(current, patch)
	s.products[id] = updated
	return updated, nil
}

// DeleteByID deletes a product by its ID.
func (s *inMemory) DeleteByID(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.products[id]; !exists {
		return errors.ErrProductNotFound
	}
	delete(s.products, id)
	if i := slices.Index(s.order, id); i >= 0 {
		s.order = slices.Delete(s.order, i, i+1)
	}
	return nil
}

// Count returns the number of live products.
func (s *inMemory) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.products)
}

// skuTaken reports whether a live product other than excludeID already uses sku,
// compared case-insensitively. Must be called with s.mu held.
func (s *inMemory) skuTaken(sku string, excludeID int) bool {
	for id, p := range s.products {
		if id != excludeID && strings.EqualFold(p.Sku, sku) {
			return true
		}
	}
	return false
}

// merge returns a new Product with the provided patch fields applied over current.
func merge(current Product, patch schema.ProductUpdate) Product {
	next := current
	if patch.Name != nil {
		next.Name = *patch.Name
	}
	if patch.Sku != nil {
		next.Sku = *patch.Sku
	}
	if patch.Price != nil {
		next.Price = *patch.Price
	}
	if patch.Stock != nil {
		next.Stock = *patch.Stock
	}
	if patch.Category != nil {
		next.Category = *patch.Category
	}
	return next
}
