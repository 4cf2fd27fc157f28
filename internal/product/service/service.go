// Package service provides the implementation of product-related business logic.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	perrors "github.com/abgdnv/inventory/internal/product/errors"
	"github.com/abgdnv/inventory/internal/product/events"
	"github.com/abgdnv/inventory/internal/product/schema"
	"github.com/abgdnv/inventory/internal/product/store"
	"github.com/abgdnv/inventory/pkg/messaging"
)

// ProductService defines the methods for managing products.
// It abstracts the underlying business logic and data access.
type ProductService interface {
	// FindAll returns all available products in insertion order.
	// Returns an empty slice if no products exist.
	FindAll(ctx context.Context) ([]ProductDto, error)

	// FindByID retrieves a single product by its unique identifier.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindByID(ctx context.Context, id int) (*ProductDto, error)

	// Create adds a new product to the system and returns its ID.
	// Returns a ValidationError or ErrDuplicateSku if the input is rejected.
	Create(ctx context.Context, product schema.ProductCreate) (int, error)

	// Update applies a partial update and returns the resulting product.
	// Returns ErrProductNotFound, a ValidationError or ErrDuplicateSku.
	Update(ctx context.Context, id int, patch schema.ProductUpdate) (*ProductDto, error)

	// DeleteByID removes a product by its ID.
	// Returns ErrProductNotFound if no product exists with the given ID.
	DeleteByID(ctx context.Context, id int) error
}

// Recorder receives operation outcomes for instrumentation.
type Recorder interface {
	ObserveOperation(operation, outcome string)
	SetProductCount(n int)
}

type nopRecorder struct{}

func (nopRecorder) ObserveOperation(string, string) {}
func (nopRecorder) SetProductCount(int)             {}

// Service implements ProductService and provides methods to manage products.
type Service struct {
	repository store.ProductStore
	publisher  messaging.Publisher
	recorder   Recorder
	logger     *slog.Logger
	now        func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithPublisher sets the publisher used for product change events.
func WithPublisher(p messaging.Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithRecorder sets the instrumentation recorder.
func WithRecorder(r Recorder) Option {
	return func(s *Service) { s.recorder = r }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// NewService creates a new instance of ProductService with the provided repository.
func NewService(repo store.ProductStore, opts ...Option) *Service {
	s := &Service{
		repository: repo,
		publisher:  messaging.NopPublisher{},
		recorder:   nopRecorder{},
		logger:     slog.Default(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "service")
	s.recorder.SetProductCount(repo.Count())
	return s
}

// ProductDto represents the data transfer object for a product.
type ProductDto struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Sku      string  `json:"sku"`
	Price    float64 `json:"price"`
	Stock    int     `json:"stock"`
	Category string  `json:"category"`
}

const (
	opList   = "list"
	opGet    = "get"
	opCreate = "create"
	opUpdate = "update"
	opDelete = "delete"
)

// FindAll retrieves a list of all products and returns them as ProductDTOs.
func (s *Service) FindAll(_ context.Context) ([]ProductDto, error) {
	products := s.repository.FindAll()
	productDTOs := make([]ProductDto, len(products))
	for i, item := range products {
		productDTOs[i] = *toDto(item)
	}
	s.recorder.ObserveOperation(opList, outcome(nil))
	return productDTOs, nil
}

// FindByID retrieves a product by its ID and returns it as a ProductDto.
// Returns ErrProductNotFound if no product exists with the given ID.
func (s *Service) FindByID(_ context.Context, id int) (*ProductDto, error) {
	product, err := s.repository.FindByID(id)
	s.recorder.ObserveOperation(opGet, outcome(err))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product by ID %d: %w", id, err)
	}
	return toDto(product), nil
}

// Create creates a new product and returns its ID.
func (s *Service) Create(ctx context.Context, product schema.ProductCreate) (int, error) {
	id, err := s.repository.Create(product)
	s.recorder.ObserveOperation(opCreate, outcome(err))
	if err != nil {
		return 0, fmt.Errorf("failed to create product: %w", err)
	}
	s.recorder.SetProductCount(s.repository.Count())

	created := store.Product{
		ID:       id,
		Name:     product.Name,
		Sku:      product.Sku,
		Price:    product.Price,
		Stock:    product.Stock,
		Category: product.Category,
	}
	s.publish(ctx, events.ProductCreatedEvent{Product: toSnapshot(created), OccurredAt: s.now().UTC()})
	return id, nil
}

// Update applies the patch and returns the updated product as a ProductDto.
func (s *Service) Update(ctx context.Context, id int, patch schema.ProductUpdate) (*ProductDto, error) {
	updated, err := s.repository.Update(id, patch)
	s.recorder.ObserveOperation(opUpdate, outcome(err))
	if err != nil {
		return nil, fmt.Errorf("failed to update product with ID %d: %w", id, err)
	}
	s.publish(ctx, events.ProductUpdatedEvent{Product: toSnapshot(updated), OccurredAt: s.now().UTC()})
	return toDto(updated), nil
}

// DeleteByID deletes a product by its ID.
// Returns ErrProductNotFound if no product exists with the given ID.
func (s *Service) DeleteByID(ctx context.Context, id int) error {
	err := s.repository.DeleteByID(id)
	s.recorder.ObserveOperation(opDelete, outcome(err))
	if err != nil {
		return fmt.Errorf("failed to delete product with ID %d: %w", id, err)
	}
	s.recorder.SetProductCount(s.repository.Count())
	s.publish(ctx, events.ProductDeletedEvent{ProductID: id, OccurredAt: s.now().UTC()})
	return nil
}

// publish sends an event after a committed mutation. A failure is logged and
// does not affect the result of the operation.
func (s *Service) publish(ctx context.Context, event messaging.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish product event", "subject", event.Subject(), "error", err)
	}
}

// outcome maps an operation error to a metrics label.
func outcome(err error) string {
	var verr *perrors.ValidationError
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, perrors.ErrProductNotFound):
		return "not_found"
	case errors.Is(err, perrors.ErrDuplicateSku):
		return "duplicate_sku"
	case errors.As(err, &verr), errors.Is(err, perrors.ErrValidation):
		return "invalid"
	default:
		return "error"
	}
}

// toDto converts a store.Product to a ProductDto.
func toDto(product store.Product) *ProductDto {
	return &ProductDto{
		ID:       product.ID,
		Name:     product.Name,
		Sku:      product.Sku,
		Price:    product.Price,
		Stock:    product.Stock,
		Category: product.Category,
	}
}

func toSnapshot(product store.Product) events.ProductSnapshot {
	return events.ProductSnapshot{
		ID:       product.ID,
		Name:     product.Name,
		Sku:      product.Sku,
		Price:    product.Price,
		Stock:    product.Stock,
		Category: product.Category,
	}
}
