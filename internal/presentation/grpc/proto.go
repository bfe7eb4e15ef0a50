package grpc

// Hand-written service descriptor for credit.v1.CreditService. Messages are
// plain structs carried by the JSON codec registered in json_codec.go.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const serviceName = "credit.v1.CreditService"

// CreditServiceServer is the server API for CreditService.
type CreditServiceServer interface {
	CreateLoan(context.Context, *CreateLoanRequest) (*CreateLoanResponse, error)
	ListLoans(context.Context, *ListLoansRequest) (*ListLoansResponse, error)
	ListInstallments(context.Context, *ListInstallmentsRequest) (*ListInstallmentsResponse, error)
	PayLoan(context.Context, *PayLoanRequest) (*PayLoanResponse, error)
	mustEmbedUnimplementedCreditServiceServer()
}

// UnimplementedCreditServiceServer provides forward-compatible default implementations.
type UnimplementedCreditServiceServer struct{}

func (UnimplementedCreditServiceServer) CreateLoan(context.Context, *CreateLoanRequest) (*CreateLoanResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method CreateLoan not implemented")
}
func (UnimplementedCreditServiceServer) ListLoans(context.Context, *ListLoansRequest) (*ListLoansResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListLoans not implemented")
}
func (UnimplementedCreditServiceServer) ListInstallments(context.Context, *ListInstallmentsRequest) (*ListInstallmentsResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListInstallments not implemented")
}
func (UnimplementedCreditServiceServer) PayLoan(context.Context, *PayLoanRequest) (*PayLoanResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method PayLoan not implemented")
}
func (UnimplementedCreditServiceServer) mustEmbedUnimplementedCreditServiceServer() {}

// RegisterCreditServiceServer registers srv with the gRPC server.
func RegisterCreditServiceServer(s grpclib.ServiceRegistrar, srv CreditServiceServer) {
	s.RegisterService(&creditServiceDesc, srv)
}

var creditServiceDesc = grpclib.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*CreditServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "CreateLoan", Handler: unaryHandler("CreateLoan", func(s CreditServiceServer, ctx context.Context, in *CreateLoanRequest) (any, error) {
			return s.CreateLoan(ctx, in)
		})},
		{MethodName: "ListLoans", Handler: unaryHandler("ListLoans", func(s CreditServiceServer, ctx context.Context, in *ListLoansRequest) (any, error) {
			return s.ListLoans(ctx, in)
		})},
		{MethodName: "ListInstallments", Handler: unaryHandler("ListInstallments", func(s CreditServiceServer, ctx context.Context, in *ListInstallmentsRequest) (any, error) {
			return s.ListInstallments(ctx, in)
		})},
		{MethodName: "PayLoan", Handler: unaryHandler("PayLoan", func(s CreditServiceServer, ctx context.Context, in *PayLoanRequest) (any, error) {
			return s.PayLoan(ctx, in)
		})},
	},
	Streams:  []grpclib.StreamDesc{},
	Metadata: "credit/v1/credit.proto",
}

// FullMethod returns the gRPC method path, e.g. "/credit.v1.CreditService/PayLoan".
func FullMethod(method string) string {
	return "/" + serviceName + "/" + method
}

// unaryHandler builds the decode/intercept/dispatch glue that protoc-gen-go-grpc
// would otherwise generate once per method.
func unaryHandler[Req any](method string, call func(CreditServiceServer, context.Context, *Req) (any, error)) func(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		server := srv.(CreditServiceServer)
		if interceptor == nil {
			return call(server, ctx, in)
		}
		info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: FullMethod(method)}
		return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
			return call(server, ctx, req.(*Req))
		})
	}
}
