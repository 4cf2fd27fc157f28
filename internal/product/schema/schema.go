// Package schema defines the field constraints applied to product input
// before it reaches the store.
package schema

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	perrors "github.com/abgdnv/inventory/internal/product/errors"
	"github.com/go-playground/validator/v10"
)

// ProductCreate is the input for creating a product. All fields are required.
type ProductCreate struct {
	Name     string  `json:"name"     validate:"required"`
	Sku      string  `json:"sku"      validate:"required"`
	Price    float64 `json:"price"    validate:"gt=0"`
	Stock    int     `json:"stock"    validate:"gte=0"`
	Category string  `json:"category" validate:"required"`
}

// ProductUpdate is the input for a partial update.
// A nil field is not provided: it is neither validated nor changed.
type ProductUpdate struct {
	Name     *string  `json:"name,omitempty"     validate:"omitnil,min=1"`
	Sku      *string  `json:"sku,omitempty"      validate:"omitnil,min=1"`
	Price    *float64 `json:"price,omitempty"    validate:"omitnil,gt=0"`
	Stock    *int     `json:"stock,omitempty"    validate:"omitnil,gte=0"`
	Category *string  `json:"category,omitempty" validate:"omitnil,min=1"`
}

// ProductCreateRequest is the wire form of ProductCreate.
// A nil field was absent from the request, which tells a missing stock apart from a zero one.
type ProductCreateRequest struct {
	Name     *string  `json:"name"     validate:"required,min=1"`
	Sku      *string  `json:"sku"      validate:"required,min=1"`
	Price    *float64 `json:"price"    validate:"required,gt=0"`
	Stock    *int     `json:"stock"    validate:"required,gte=0"`
	Category *string  `json:"category" validate:"required,min=1"`
}

// Validator checks product input against the schema.
type Validator struct {
	validate *validator.Validate
}

// New creates a Validator that reports fields by their JSON names.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonName)
	return &Validator{validate: v}
}

// ValidateCreate checks that every field of a create input is present and valid.
func (v *Validator) ValidateCreate(in ProductCreate) error {
	return v.check(in)
}

// BindCreate validates a wire request and converts it to a ProductCreate.
func (v *Validator) BindCreate(req ProductCreateRequest) (ProductCreate, error) {
	if err := v.check(req); err != nil {
		return ProductCreate{}, err
	}
	return ProductCreate{
		Name:     *req.Name,
		Sku:      *req.Sku,
		Price:    *req.Price,
		Stock:    *req.Stock,
		Category: *req.Category,
	}, nil
}

// ValidateUpdate checks every field provided in a patch.
func (v *Validator) ValidateUpdate(patch ProductUpdate) error {
	return v.check(patch)
}

func (v *Validator) check(in any) error {
	err := v.validate.Struct(in)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("%w: %v", perrors.ErrValidation, err)
	}
	verr := &perrors.ValidationError{}
	for _, fieldErr := range validationErrors {
		verr.Violations = append(verr.Violations, perrors.FieldViolation{
			Field:   fieldErr.Field(),
			Message: message(fieldErr),
		})
	}
	return verr
}

// message renders a human-readable description of a failed rule.
func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		return fmt.Sprintf("%s must not be empty", fe.Field())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed on rule: %s", fe.Field(), fe.Tag())
	}
}

func jsonName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}
