package grpc

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"testing"

	perrors "github.com/abgdnv/inventory/internal/product/errors"
	"github.com/abgdnv/inventory/internal/product/schema"
	"github.com/abgdnv/inventory/internal/product/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) FindAll(ctx context.Context) ([]service.ProductDto, error) {
	args := m.Called(ctx)
	var list []service.ProductDto
	if args.Get(0) != nil {
		list = args.Get(0).([]service.ProductDto)
	}
	return list, args.Error(1)
}

func (m *MockProductService) FindByID(ctx context.Context, id int) (*service.ProductDto, error) {
	args := m.Called(ctx, id)
	var product *service.ProductDto
	if args.Get(0) != nil {
		product = args.Get(0).(*service.ProductDto)
	}
	return product, args.Error(1)
}

func (m *MockProductService) Create(ctx context.Context, product schema.ProductCreate) (int, error) {
	args := m.Called(ctx, product)
	return args.Int(0), args.Error(1)
}

func (m *MockProductService) Update(ctx context.Context, id int, patch schema.ProductUpdate) (*service.ProductDto, error) {
	args := m.Called(ctx, id, patch)
	var product *service.ProductDto
	if args.Get(0) != nil {
		product = args.Get(0).(*service.ProductDto)
	}
	return product, args.Error(1)
}

func (m *MockProductService) DeleteByID(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// setupTestEnvironment serves the product service over an in-memory listener.
func setupTestEnvironment(t *testing.T, svc service.ProductService) *grpc.ClientConn {
	t.Helper()

	lis := bufconn.Listen(1024 * 1024)
	grpcServer := grpc.NewServer()
	RegisterProductServiceServer(grpcServer, NewServer(svc, slog.New(slog.NewTextHandler(io.Discard, nil))))
	go func() {
		_ = grpcServer.Serve(lis)
	}()

	conn, err := grpc.NewClient("passthrough://bufnet",
		grpc.WithContextDialer(func(ctx context.Context, s string) (net.Conn, error) {
			return lis.Dial()
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = conn.Close()
		grpcServer.Stop()
		_ = lis.Close()
	})
	return conn
}

func laptop() *service.ProductDto {
	return &service.ProductDto{ID: 1, Name: "Laptop", Sku: "LAP123", Price: 1200, Stock: 10, Category: "Electronics"}
}

func mustStruct(t *testing.T, m map[string]any) *structpb.Struct {
	t.Helper()
	st, err := structpb.NewStruct(m)
	require.NoError(t, err)
	return st
}

func Test_Server_ListProducts(t *testing.T) {
	// given
	svc := new(MockProductService)
	svc.On("FindAll", mock.Anything).Return([]service.ProductDto{*laptop()}, nil)
	conn := setupTestEnvironment(t, svc)
	out := new(structpb.ListValue)
	// when
	err := conn.Invoke(context.Background(), ListProductsMethod, &emptypb.Empty{}, out)
	// then
	require.NoError(t, err)
	require.Len(t, out.GetValues(), 1)
	product := out.GetValues()[0].GetStructValue().AsMap()
	assert.Equal(t, "LAP123", product["sku"])
	assert.InDelta(t, 1.0, product["id"], 0)
	svc.AssertExpectations(t)
}

func Test_Server_GetProduct(t *testing.T) {
	testCases := []struct {
		name         string
		mockProduct  *service.ProductDto
		mockError    error
		expectedCode codes.Code
	}{
		{name: "success", mockProduct: laptop(), expectedCode: codes.OK},
		{name: "not found", mockError: perrors.ErrProductNotFound, expectedCode: codes.NotFound},
		{name: "internal error", mockError: errors.New("internal error"), expectedCode: codes.Internal},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			svc := new(MockProductService)
			svc.On("FindByID", mock.Anything, 1).Return(tc.mockProduct, tc.mockError)
			conn := setupTestEnvironment(t, svc)
			out := new(structpb.Struct)
			// when
			err := conn.Invoke(context.Background(), GetProductMethod, wrapperspb.Int64(1), out)
			// then
			assert.Equal(t, tc.expectedCode, status.Code(err))
			if tc.expectedCode == codes.OK {
				assert.Equal(t, "Laptop", out.AsMap()["name"])
				assert.InDelta(t, 1200.0, out.AsMap()["price"], 0)
			}
			svc.AssertExpectations(t)
		})
	}
}

func Test_Server_CreateProduct(t *testing.T) {
	valid := map[string]any{"name": "Laptop", "sku": "LAP123", "price": 1200.0, "stock": 10, "category": "Electronics"}
	validInput := schema.ProductCreate{Name: "Laptop", Sku: "LAP123", Price: 1200, Stock: 10, Category: "Electronics"}

	testCases := []struct {
		name         string
		request      map[string]any
		setup        func(svc *MockProductService)
		expectedCode codes.Code
		expectedMsg  string
	}{
		{
			name:    "success",
			request: valid,
			setup: func(svc *MockProductService) {
				svc.On("Create", mock.Anything, validInput).Return(1, nil)
			},
			expectedCode: codes.OK,
		},
		{
			name:    "duplicate sku",
			request: valid,
			setup: func(svc *MockProductService) {
				svc.On("Create", mock.Anything, validInput).Return(0, perrors.ErrDuplicateSku)
			},
			expectedCode: codes.AlreadyExists,
			expectedMsg:  "SKU must be unique",
		},
		{
			name:         "missing stock",
			request:      map[string]any{"name": "Laptop", "sku": "LAP123", "price": 1200.0, "category": "Electronics"},
			setup:        func(*MockProductService) {},
			expectedCode: codes.InvalidArgument,
			expectedMsg:  "stock is required",
		},
		{
			name:         "wrong field type",
			request:      map[string]any{"name": "Laptop", "sku": "LAP123", "price": "expensive", "stock": 1, "category": "E"},
			setup:        func(*MockProductService) {},
			expectedCode: codes.InvalidArgument,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			svc := new(MockProductService)
			tc.setup(svc)
			conn := setupTestEnvironment(t, svc)
			out := new(wrapperspb.Int64Value)
			// when
			err := conn.Invoke(context.Background(), CreateProductMethod, mustStruct(t, tc.request), out)
			// then
			st, _ := status.FromError(err)
			assert.Equal(t, tc.expectedCode, st.Code())
			if tc.expectedMsg != "" {
				assert.Equal(t, tc.expectedMsg, st.Message())
			}
			if tc.expectedCode == codes.OK {
				assert.Equal(t, int64(1), out.GetValue())
			}
			svc.AssertExpectations(t)
		})
	}
}

func Test_Server_UpdateProduct(t *testing.T) {
	sku, price := "NLAP", 900.0

	testCases := []struct {
		name         string
		request      map[string]any
		setup        func(svc *MockProductService)
		expectedCode codes.Code
	}{
		{
			name:    "success",
			request: map[string]any{"id": 1, "sku": "NLAP", "price": 900.0, "name": nil},
			setup: func(svc *MockProductService) {
				svc.On("Update", mock.Anything, 1, schema.ProductUpdate{Sku: &sku, Price: &price}).Return(laptop(), nil)
			},
			expectedCode: codes.OK,
		},
		{
			name:    "not found",
			request: map[string]any{"id": 5},
			setup: func(svc *MockProductService) {
				svc.On("Update", mock.Anything, 5, schema.ProductUpdate{}).Return(nil, perrors.ErrProductNotFound)
			},
			expectedCode: codes.NotFound,
		},
		{
			name:    "validation",
			request: map[string]any{"id": 1, "price": 0.0},
			setup: func(svc *MockProductService) {
				zero := 0.0
				svc.On("Update", mock.Anything, 1, schema.ProductUpdate{Price: &zero}).
					Return(nil, perrors.NewValidationError("price", "price must be greater than 0"))
			},
			expectedCode: codes.InvalidArgument,
		},
		{
			name:         "missing id",
			request:      map[string]any{"price": 1.0},
			setup:        func(*MockProductService) {},
			expectedCode: codes.InvalidArgument,
		},
		{
			name:         "fractional id",
			request:      map[string]any{"id": 1.5},
			setup:        func(*MockProductService) {},
			expectedCode: codes.InvalidArgument,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			svc := new(MockProductService)
			tc.setup(svc)
			conn := setupTestEnvironment(t, svc)
			out := new(structpb.Struct)
			// when
			err := conn.Invoke(context.Background(), UpdateProductMethod, mustStruct(t, tc.request), out)
			// then
			assert.Equal(t, tc.expectedCode, status.Code(err))
			svc.AssertExpectations(t)
		})
	}
}

func Test_Server_DeleteProduct(t *testing.T) {
	testCases := []struct {
		name         string
		mockError    error
		expectedCode codes.Code
	}{
		{name: "success", expectedCode: codes.OK},
		{name: "not found", mockError: perrors.ErrProductNotFound, expectedCode: codes.NotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			svc := new(MockProductService)
			svc.On("DeleteByID", mock.Anything, 3).Return(tc.mockError)
			conn := setupTestEnvironment(t, svc)
			// when
			err := conn.Invoke(context.Background(), DeleteProductMethod, wrapperspb.Int64(3), new(emptypb.Empty))
			// then
			assert.Equal(t, tc.expectedCode, status.Code(err))
			svc.AssertExpectations(t)
		})
	}
}
