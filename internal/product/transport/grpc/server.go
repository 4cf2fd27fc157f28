// Package grpc exposes the product operations over gRPC.
package grpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"

	perrors "github.com/abgdnv/inventory/internal/product/errors"
	"github.com/abgdnv/inventory/internal/product/schema"
	"github.com/abgdnv/inventory/internal/product/service"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

var _ ProductServiceServer = (*Server)(nil)

type Server struct {
	service service.ProductService
	schema  *schema.Validator
	logger  *slog.Logger
}

func NewServer(service service.ProductService, logger *slog.Logger) *Server {
	return &Server{
		service: service,
		schema:  schema.New(),
		logger:  logger.With("component", "grpc"),
	}
}

func (s *Server) ListProducts(ctx context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	list, err := s.service.FindAll(ctx)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	values := make([]*structpb.Value, 0, len(list))
	for _, product := range list {
		st, err := toStruct(&product)
		if err != nil {
			return nil, s.toStatus(ctx, err)
		}
		values = append(values, structpb.NewStructValue(st))
	}
	return &structpb.ListValue{Values: values}, nil
}

func (s *Server) GetProduct(ctx context.Context, req *wrapperspb.Int64Value) (*structpb.Struct, error) {
	found, err := s.service.FindByID(ctx, int(req.GetValue()))
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return s.respond(ctx, found)
}

// CreateProduct expects a Struct with every product field except id.
func (s *Server) CreateProduct(ctx context.Context, req *structpb.Struct) (*wrapperspb.Int64Value, error) {
	var body schema.ProductCreateRequest
	if err := decodeStruct(req, &body); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid product: %v", err)
	}
	in, err := s.schema.BindCreate(body)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	id, err := s.service.Create(ctx, in)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	s.logger.InfoContext(ctx, "Product created via gRPC", "ID", id)
	return wrapperspb.Int64(int64(id)), nil
}

// UpdateProduct expects a Struct carrying "id" plus the fields to change.
func (s *Server) UpdateProduct(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := structID(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	var patch schema.ProductUpdate
	if err := decodeStruct(req, &patch); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid patch: %v", err)
	}
	updated, err := s.service.Update(ctx, id, patch)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return s.respond(ctx, updated)
}

func (s *Server) DeleteProduct(ctx context.Context, req *wrapperspb.Int64Value) (*emptypb.Empty, error) {
	if err := s.service.DeleteByID(ctx, int(req.GetValue())); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &emptypb.Empty{}, nil
}

func (s *Server) respond(ctx context.Context, product *service.ProductDto) (*structpb.Struct, error) {
	st, err := toStruct(product)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return st, nil
}

// toStatus maps a domain error to a gRPC status.
func (s *Server) toStatus(ctx context.Context, err error) error {
	var verr *perrors.ValidationError
	switch {
	case errors.Is(err, perrors.ErrProductNotFound):
		return status.Error(codes.NotFound, "product not found")
	case errors.Is(err, perrors.ErrDuplicateSku):
		return status.Error(codes.AlreadyExists, perrors.ErrDuplicateSku.Error())
	case errors.As(err, &verr):
		return status.Error(codes.InvalidArgument, verr.Error())
	case errors.Is(err, perrors.ErrValidation):
		return status.Error(codes.InvalidArgument, perrors.ErrValidation.Error())
	default:
		s.logger.ErrorContext(ctx, "gRPC request failed", "error", err)
		return status.Error(codes.Internal, "internal server error")
	}
}

func toStruct(product *service.ProductDto) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"id":       product.ID,
		"name":     product.Name,
		"sku":      product.Sku,
		"price":    product.Price,
		"stock":    product.Stock,
		"category": product.Category,
	})
}

// decodeStruct maps a Struct onto a JSON-tagged Go value. Null fields stay nil.
func decodeStruct(src *structpb.Struct, dst any) error {
	raw, err := src.MarshalJSON()
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dst)
}

func structID(src *structpb.Struct) (int, error) {
	v, ok := src.GetFields()["id"]
	if !ok {
		return 0, errors.New("id is required")
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok || n.NumberValue != math.Trunc(n.NumberValue) {
		return 0, fmt.Errorf("invalid id: %v", v.AsInterface())
	}
	return int(n.NumberValue), nil
}
