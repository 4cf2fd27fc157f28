// Package rest provides HTTP handlers for product-related operations.
package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	perrors "github.com/abgdnv/inventory/internal/product/errors"
	"github.com/abgdnv/inventory/internal/product/schema"
	"github.com/abgdnv/inventory/internal/product/service"
	"github.com/abgdnv/inventory/pkg/web"
	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service service.ProductService
	schema  *schema.Validator
	logger  *slog.Logger
}

// NewHandler creates a new product Handler backed by the given service.
func NewHandler(service service.ProductService, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		schema:  schema.New(),
		logger:  logger.With("component", "rest"),
	}
}

// DeleteResponse is returned by a successful delete.
type DeleteResponse struct {
	OK bool `json:"ok"`
}

// RegisterRoutes registers the HTTP routes for the product API.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.FindAll)
		r.Post("/", h.Create)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.FindByID)
			r.Put("/", h.Update)
			r.Delete("/", h.DeleteByID)
		})
	})

	r.Get("/healthz", h.HealthCheck)
}

// FindAll returns every product in insertion order.
func (h *Handler) FindAll(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.FindAll(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.logger.DebugContext(r.Context(), "Successfully retrieved product list", "count", len(list))
	web.RespondJSON(w, h.logger, http.StatusOK, list)
}

// FindByID retrieves a product by its ID.
func (h *Handler) FindByID(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}

	h.logger.DebugContext(r.Context(), "Received request to find product by ID", "ID", id)
	found, err := h.service.FindByID(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, found)
}

// Create adds a product and responds with its new ID.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req schema.ProductCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}
	in, err := h.schema.BindCreate(req)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	id, err := h.service.Create(r.Context(), in)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.logger.InfoContext(r.Context(), "Product created successfully", "ID", id, "sku", in.Sku)
	web.RespondJSON(w, h.logger, http.StatusOK, id)
}

// Update applies a partial update. Absent and null fields are left unchanged.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}
	var patch schema.ProductUpdate
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		h.logger.WarnContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := h.service.Update(r.Context(), id, patch)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.logger.InfoContext(r.Context(), "Product updated successfully", "ID", updated.ID)
	web.RespondJSON(w, h.logger, http.StatusOK, updated)
}

// DeleteByID deletes a product by its ID.
func (h *Handler) DeleteByID(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}
	if err := h.service.DeleteByID(r.Context(), id); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.logger.InfoContext(r.Context(), "Product deleted successfully", "ID", id)
	web.RespondJSON(w, h.logger, http.StatusOK, DeleteResponse{OK: true})
}

// HealthCheck is a simple health check endpoint.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// respondServiceError translates a domain error into an HTTP status and detail message.
func (h *Handler) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	logger := h.logger
	var verr *perrors.ValidationError
	switch {
	case errors.Is(err, perrors.ErrProductNotFound):
		logger.WarnContext(r.Context(), "Product not found", "error", err)
		web.RespondError(w, logger, http.StatusNotFound, "Product not found")
	case errors.Is(err, perrors.ErrDuplicateSku):
		logger.WarnContext(r.Context(), "Duplicate SKU", "error", err)
		web.RespondError(w, logger, http.StatusBadRequest, perrors.ErrDuplicateSku.Error())
	case errors.As(err, &verr):
		logger.WarnContext(r.Context(), "Validation errors occurred", "errors", verr.Violations)
		web.RespondError(w, logger, http.StatusBadRequest, verr.Error())
	case errors.Is(err, perrors.ErrValidation):
		logger.WarnContext(r.Context(), "Validation failed", "error", err)
		web.RespondError(w, logger, http.StatusBadRequest, perrors.ErrValidation.Error())
	default:
		logger.ErrorContext(r.Context(), "Unexpected error", "error", err)
		web.RespondError(w, logger, http.StatusInternalServerError, "Internal server error")
	}
}
