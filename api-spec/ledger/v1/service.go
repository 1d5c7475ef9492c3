package ledgerv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "ledger.v1.LedgerService"

const (
	LedgerService_GetInfo_FullMethodName           = "/ledger.v1.LedgerService/GetInfo"
	LedgerService_GetCoins_FullMethodName          = "/ledger.v1.LedgerService/GetCoins"
	LedgerService_GetCoinsToSpend_FullMethodName   = "/ledger.v1.LedgerService/GetCoinsToSpend"
	LedgerService_GetBalance_FullMethodName        = "/ledger.v1.LedgerService/GetBalance"
	LedgerService_GetBalances_FullMethodName       = "/ledger.v1.LedgerService/GetBalances"
	LedgerService_SubmitTransaction_FullMethodName = "/ledger.v1.LedgerService/SubmitTransaction"
	LedgerService_GetReceipts_FullMethodName       = "/ledger.v1.LedgerService/GetReceipts"
	LedgerService_GetTransaction_FullMethodName    = "/ledger.v1.LedgerService/GetTransaction"
)

// LedgerServiceClient is the client API for the ledger service.
type LedgerServiceClient interface {
	GetInfo(ctx context.Context, in *GetInfoRequest, opts ...grpc.CallOption) (*GetInfoResponse, error)
	GetCoins(ctx context.Context, in *GetCoinsRequest, opts ...grpc.CallOption) (*GetCoinsResponse, error)
	GetCoinsToSpend(ctx context.Context, in *GetCoinsToSpendRequest, opts ...grpc.CallOption) (*GetCoinsToSpendResponse, error)
	GetBalance(ctx context.Context, in *GetBalanceRequest, opts ...grpc.CallOption) (*GetBalanceResponse, error)
	GetBalances(ctx context.Context, in *GetBalancesRequest, opts ...grpc.CallOption) (*GetBalancesResponse, error)
	SubmitTransaction(ctx context.Context, in *SubmitTransactionRequest, opts ...grpc.CallOption) (*SubmitTransactionResponse, error)
	GetReceipts(ctx context.Context, in *GetReceiptsRequest, opts ...grpc.CallOption) (*GetReceiptsResponse, error)
	GetTransaction(ctx context.Context, in *GetTransactionRequest, opts ...grpc.CallOption) (*GetTransactionResponse, error)
}

type ledgerServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewLedgerServiceClient returns a client that always encodes messages with
// the json codec.
func NewLedgerServiceClient(cc grpc.ClientConnInterface) LedgerServiceClient {
	return &ledgerServiceClient{cc}
}

func (c *ledgerServiceClient) invoke(
	ctx context.Context, method string, in, out any, opts []grpc.CallOption,
) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	return c.cc.Invoke(ctx, method, in, out, opts...)
}

func (c *ledgerServiceClient) GetInfo(ctx context.Context, in *GetInfoRequest, opts ...grpc.CallOption) (*GetInfoResponse, error) {
	out := new(GetInfoResponse)
	if err := c.invoke(ctx, LedgerService_GetInfo_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ledgerServiceClient) GetCoins(ctx context.Context, in *GetCoinsRequest, opts ...grpc.CallOption) (*GetCoinsResponse, error) {
	out := new(GetCoinsResponse)
	if err := c.invoke(ctx, LedgerService_GetCoins_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ledgerServiceClient) GetCoinsToSpend(ctx context.Context, in *GetCoinsToSpendRequest, opts ...grpc.CallOption) (*GetCoinsToSpendResponse, error) {
	out := new(GetCoinsToSpendResponse)
	if err := c.invoke(ctx, LedgerService_GetCoinsToSpend_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ledgerServiceClient) GetBalance(ctx context.Context, in *GetBalanceRequest, opts ...grpc.CallOption) (*GetBalanceResponse, error) {
	out := new(GetBalanceResponse)
	if err := c.invoke(ctx, LedgerService_GetBalance_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ledgerServiceClient) GetBalances(ctx context.Context, in *GetBalancesRequest, opts ...grpc.CallOption) (*GetBalancesResponse, error) {
	out := new(GetBalancesResponse)
	if err := c.invoke(ctx, LedgerService_GetBalances_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ledgerServiceClient) SubmitTransaction(ctx context.Context, in *SubmitTransactionRequest, opts ...grpc.CallOption) (*SubmitTransactionResponse, error) {
	out := new(SubmitTransactionResponse)
	if err := c.invoke(ctx, LedgerService_SubmitTransaction_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ledgerServiceClient) GetReceipts(ctx context.Context, in *GetReceiptsRequest, opts ...grpc.CallOption) (*GetReceiptsResponse, error) {
	out := new(GetReceiptsResponse)
	if err := c.invoke(ctx, LedgerService_GetReceipts_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ledgerServiceClient) GetTransaction(ctx context.Context, in *GetTransactionRequest, opts ...grpc.CallOption) (*GetTransactionResponse, error) {
	out := new(GetTransactionResponse)
	if err := c.invoke(ctx, LedgerService_GetTransaction_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

// LedgerServiceServer is the server API for the ledger service.
type LedgerServiceServer interface {
	GetInfo(context.Context, *GetInfoRequest) (*GetInfoResponse, error)
	GetCoins(context.Context, *GetCoinsRequest) (*GetCoinsResponse, error)
	GetCoinsToSpend(context.Context, *GetCoinsToSpendRequest) (*GetCoinsToSpendResponse, error)
	GetBalance(context.Context, *GetBalanceRequest) (*GetBalanceResponse, error)
	GetBalances(context.Context, *GetBalancesRequest) (*GetBalancesResponse, error)
	SubmitTransaction(context.Context, *SubmitTransactionRequest) (*SubmitTransactionResponse, error)
	GetReceipts(context.Context, *GetReceiptsRequest) (*GetReceiptsResponse, error)
	GetTransaction(context.Context, *GetTransactionRequest) (*GetTransactionResponse, error)
}

// UnimplementedLedgerServiceServer must be embedded to have forward compatible
// implementations.
type UnimplementedLedgerServiceServer struct{}

func (UnimplementedLedgerServiceServer) GetInfo(context.Context, *GetInfoRequest) (*GetInfoResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetInfo not implemented")
}
func (UnimplementedLedgerServiceServer) GetCoins(context.Context, *GetCoinsRequest) (*GetCoinsResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetCoins not implemented")
}
func (UnimplementedLedgerServiceServer) GetCoinsToSpend(context.Context, *GetCoinsToSpendRequest) (*GetCoinsToSpendResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetCoinsToSpend not implemented")
}
func (UnimplementedLedgerServiceServer) GetBalance(context.Context, *GetBalanceRequest) (*GetBalanceResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetBalance not implemented")
}
func (UnimplementedLedgerServiceServer) GetBalances(context.Context, *GetBalancesRequest) (*GetBalancesResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetBalances not implemented")
}
func (UnimplementedLedgerServiceServer) SubmitTransaction(context.Context, *SubmitTransactionRequest) (*SubmitTransactionResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method SubmitTransaction not implemented")
}
func (UnimplementedLedgerServiceServer) GetReceipts(context.Context, *GetReceiptsRequest) (*GetReceiptsResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetReceipts not implemented")
}
func (UnimplementedLedgerServiceServer) GetTransaction(context.Context, *GetTransactionRequest) (*GetTransactionResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetTransaction not implemented")
}

func RegisterLedgerServiceServer(s grpc.ServiceRegistrar, srv LedgerServiceServer) {
	s.RegisterService(&LedgerService_ServiceDesc, srv)
}

func unaryHandler[Req any, Resp any](
	fullMethod string,
	call func(LedgerServiceServer, context.Context, *Req) (*Resp, error),
) grpc.MethodHandler {
	return func(
		srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor,
	) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(LedgerServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(LedgerServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// LedgerService_ServiceDesc is the grpc.ServiceDesc for the ledger service.
var LedgerService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*LedgerServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetInfo",
			Handler:    unaryHandler(LedgerService_GetInfo_FullMethodName, LedgerServiceServer.GetInfo),
		},
		{
			MethodName: "GetCoins",
			Handler:    unaryHandler(LedgerService_GetCoins_FullMethodName, LedgerServiceServer.GetCoins),
		},
		{
			MethodName: "GetCoinsToSpend",
			Handler: unaryHandler(
				LedgerService_GetCoinsToSpend_FullMethodName, LedgerServiceServer.GetCoinsToSpend,
			),
		},
		{
			MethodName: "GetBalance",
			Handler:    unaryHandler(LedgerService_GetBalance_FullMethodName, LedgerServiceServer.GetBalance),
		},
		{
			MethodName: "GetBalances",
			Handler:    unaryHandler(LedgerService_GetBalances_FullMethodName, LedgerServiceServer.GetBalances),
		},
		{
			MethodName: "SubmitTransaction",
			Handler: unaryHandler(
				LedgerService_SubmitTransaction_FullMethodName, LedgerServiceServer.SubmitTransaction,
			),
		},
		{
			MethodName: "GetReceipts",
			Handler:    unaryHandler(LedgerService_GetReceipts_FullMethodName, LedgerServiceServer.GetReceipts),
		},
		{
			MethodName: "GetTransaction",
			Handler: unaryHandler(
				LedgerService_GetTransaction_FullMethodName, LedgerServiceServer.GetTransaction,
			),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "ledger/v1/service.go",
}
