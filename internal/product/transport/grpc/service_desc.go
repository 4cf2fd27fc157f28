package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const ProductServiceName = "inventory.v1.ProductService"

const (
	ListProductsMethod  = "/" + ProductServiceName + "/ListProducts"
	GetProductMethod    = "/" + ProductServiceName + "/GetProduct"
	CreateProductMethod = "/" + ProductServiceName + "/CreateProduct"
	UpdateProductMethod = "/" + ProductServiceName + "/UpdateProduct"
	DeleteProductMethod = "/" + ProductServiceName + "/DeleteProduct"
)

// ProductServiceServer is the server API for the inventory.v1.ProductService service.
// Messages are protobuf well-known types: products travel as Struct, ids as Int64Value.
type ProductServiceServer interface {
	ListProducts(context.Context, *emptypb.Empty) (*structpb.ListValue, error)
	GetProduct(context.Context, *wrapperspb.Int64Value) (*structpb.Struct, error)
	CreateProduct(context.Context, *structpb.Struct) (*wrapperspb.Int64Value, error)
	UpdateProduct(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteProduct(context.Context, *wrapperspb.Int64Value) (*emptypb.Empty, error)
}

// RegisterProductServiceServer registers srv on the given gRPC server.
func RegisterProductServiceServer(s grpc.ServiceRegistrar, srv ProductServiceServer) {
	s.RegisterService(&ProductServiceDesc, srv)
}

var ProductServiceDesc = grpc.ServiceDesc{
	ServiceName: ProductServiceName,
	HandlerType: (*ProductServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ListProducts", Handler: unary(ListProductsMethod, ProductServiceServer.ListProducts)},
		{MethodName: "GetProduct", Handler: unary(GetProductMethod, ProductServiceServer.GetProduct)},
		{MethodName: "CreateProduct", Handler: unary(CreateProductMethod, ProductServiceServer.CreateProduct)},
		{MethodName: "UpdateProduct", Handler: unary(UpdateProductMethod, ProductServiceServer.UpdateProduct)},
		{MethodName: "DeleteProduct", Handler: unary(DeleteProductMethod, ProductServiceServer.DeleteProduct)},
	},
	Streams: []grpc.StreamDesc{},
}

// unary adapts a typed server method to a grpc.MethodHandler.
func unary[Req any, Resp any](fullMethod string, call func(ProductServiceServer, context.Context, *Req) (Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(ProductServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(ProductServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}
