package brokerage

import (
	context "context"

	grpc "google.golang.org/grpc"
)

const (
	BrokerageService_Deposit_FullMethodName       = "/brokerage.BrokerageService/Deposit"
	BrokerageService_Withdraw_FullMethodName      = "/brokerage.BrokerageService/Withdraw"
	BrokerageService_Buy_FullMethodName           = "/brokerage.BrokerageService/Buy"
	BrokerageService_Sell_FullMethodName          = "/brokerage.BrokerageService/Sell"
	BrokerageService_GetBalance_FullMethodName    = "/brokerage.BrokerageService/GetBalance"
	BrokerageService_GetPositions_FullMethodName  = "/brokerage.BrokerageService/GetPositions"
	BrokerageService_GetHistory_FullMethodName    = "/brokerage.BrokerageService/GetHistory"
	BrokerageService_StreamUpdates_FullMethodName = "/brokerage.BrokerageService/StreamUpdates"
)

type BrokerageServiceClient interface {
	Deposit(ctx context.Context, in *DepositRequest, opts ...grpc.CallOption) (*CommandResponse, error)
	Withdraw(ctx context.Context, in *WithdrawRequest, opts ...grpc.CallOption) (*CommandResponse, error)
	Buy(ctx context.Context, in *OrderRequest, opts ...grpc.CallOption) (*CommandResponse, error)
	Sell(ctx context.Context, in *OrderRequest, opts ...grpc.CallOption) (*CommandResponse, error)
	GetBalance(ctx context.Context, in *GetBalanceRequest, opts ...grpc.CallOption) (*GetBalanceResponse, error)
	GetPositions(ctx context.Context, in *GetPositionsRequest, opts ...grpc.CallOption) (*GetPositionsResponse, error)
	GetHistory(ctx context.Context, in *GetHistoryRequest, opts ...grpc.CallOption) (*GetHistoryResponse, error)
	StreamUpdates(ctx context.Context, in *StreamUpdatesRequest, opts ...grpc.CallOption) (BrokerageService_StreamUpdatesClient, error)
}

type brokerageServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewBrokerageServiceClient(cc grpc.ClientConnInterface) BrokerageServiceClient {
	return &brokerageServiceClient{cc: cc}
}

func (c *brokerageServiceClient) Deposit(ctx context.Context, in *DepositRequest, opts ...grpc.CallOption) (*CommandResponse, error) {
	out := new(CommandResponse)
	err := c.cc.Invoke(ctx, BrokerageService_Deposit_FullMethodName, in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *brokerageServiceClient) Withdraw(ctx context.Context, in *WithdrawRequest, opts ...grpc.CallOption) (*CommandResponse, error) {
	out := new(CommandResponse)
	err := c.cc.Invoke(ctx, BrokerageService_Withdraw_FullMethodName, in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *brokerageServiceClient) Buy(ctx context.Context, in *OrderRequest, opts ...grpc.CallOption) (*CommandResponse, error) {
	out := new(CommandResponse)
	err := c.cc.Invoke(ctx, BrokerageService_Buy_FullMethodName, in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *brokerageServiceClient) Sell(ctx context.Context, in *OrderRequest, opts ...grpc.CallOption) (*CommandResponse, error) {
	out := new(CommandResponse)
	err := c.cc.Invoke(ctx, BrokerageService_Sell_FullMethodName, in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *brokerageServiceClient) GetBalance(ctx context.Context, in *GetBalanceRequest, opts ...grpc.CallOption) (*GetBalanceResponse, error) {
	out := new(GetBalanceResponse)
	err := c.cc.Invoke(ctx, BrokerageService_GetBalance_FullMethodName, in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *brokerageServiceClient) GetPositions(ctx context.Context, in *GetPositionsRequest, opts ...grpc.CallOption) (*GetPositionsResponse, error) {
	out := new(GetPositionsResponse)
	err := c.cc.Invoke(ctx, BrokerageService_GetPositions_FullMethodName, in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *brokerageServiceClient) GetHistory(ctx context.Context, in *GetHistoryRequest, opts ...grpc.CallOption) (*GetHistoryResponse, error) {
	out := new(GetHistoryResponse)
	err := c.cc.Invoke(ctx, BrokerageService_GetHistory_FullMethodName, in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *brokerageServiceClient) StreamUpdates(ctx context.Context, in *StreamUpdatesRequest, opts ...grpc.CallOption) (BrokerageService_StreamUpdatesClient, error) {
	stream, err := c.cc.NewStream(ctx, &BrokerageService_ServiceDesc.Streams[0], BrokerageService_StreamUpdates_FullMethodName, opts...)
	if err != nil {
		return nil, err
	}
	x := &brokerageServiceStreamUpdatesClient{ClientStream: stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

type BrokerageService_StreamUpdatesClient interface {
	Recv() (*Entry, error)
	grpc.ClientStream
}

type brokerageServiceStreamUpdatesClient struct {
	grpc.ClientStream
}

func (x *brokerageServiceStreamUpdatesClient) Recv() (*Entry, error) {
	m := new(Entry)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

type BrokerageServiceServer interface {
	Deposit(context.Context, *DepositRequest) (*CommandResponse, error)
	Withdraw(context.Context, *WithdrawRequest) (*CommandResponse, error)
	Buy(context.Context, *OrderRequest) (*CommandResponse, error)
	Sell(context.Context, *OrderRequest) (*CommandResponse, error)
	GetBalance(context.Context, *GetBalanceRequest) (*GetBalanceResponse, error)
	GetPositions(context.Context, *GetPositionsRequest) (*GetPositionsResponse, error)
	GetHistory(context.Context, *GetHistoryRequest) (*GetHistoryResponse, error)
	StreamUpdates(*StreamUpdatesRequest, BrokerageService_StreamUpdatesServer) error
	mustEmbedUnimplementedBrokerageServiceServer()
}

type UnimplementedBrokerageServiceServer struct{}

func (UnimplementedBrokerageServiceServer) Deposit(context.Context, *DepositRequest) (*CommandResponse, error) {
	return nil, nil
}
func (UnimplementedBrokerageServiceServer) Withdraw(context.Context, *WithdrawRequest) (*CommandResponse, error) {
	return nil, nil
}
func (UnimplementedBrokerageServiceServer) Buy(context.Context, *OrderRequest) (*CommandResponse, error) {
	return nil, nil
}
func (UnimplementedBrokerageServiceServer) Sell(context.Context, *OrderRequest) (*CommandResponse, error) {
	return nil, nil
}
func (UnimplementedBrokerageServiceServer) GetBalance(context.Context, *GetBalanceRequest) (*GetBalanceResponse, error) {
	return nil, nil
}
func (UnimplementedBrokerageServiceServer) GetPositions(context.Context, *GetPositionsRequest) (*GetPositionsResponse, error) {
	return nil, nil
}
func (UnimplementedBrokerageServiceServer) GetHistory(context.Context, *GetHistoryRequest) (*GetHistoryResponse, error) {
	return nil, nil
}
func (UnimplementedBrokerageServiceServer) StreamUpdates(*StreamUpdatesRequest, BrokerageService_StreamUpdatesServer) error {
	return nil
}
func (UnimplementedBrokerageServiceServer) mustEmbedUnimplementedBrokerageServiceServer() {}

type BrokerageService_StreamUpdatesServer interface {
	Send(*Entry) error
	grpc.ServerStream
}

type brokerageServiceStreamUpdatesServer struct {
	grpc.ServerStream
}

func (x *brokerageServiceStreamUpdatesServer) Send(m *Entry) error {
	return x.ServerStream.SendMsg(m)
}

func RegisterBrokerageServiceServer(s grpc.ServiceRegistrar, srv BrokerageServiceServer) {
	s.RegisterService(&BrokerageService_ServiceDesc, srv)
}

func _BrokerageService_Deposit_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(DepositRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BrokerageServiceServer).Deposit(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: BrokerageService_Deposit_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(BrokerageServiceServer).Deposit(ctx, req.(*DepositRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _BrokerageService_Withdraw_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(WithdrawRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BrokerageServiceServer).Withdraw(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: BrokerageService_Withdraw_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(BrokerageServiceServer).Withdraw(ctx, req.(*WithdrawRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _BrokerageService_Buy_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(OrderRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BrokerageServiceServer).Buy(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: BrokerageService_Buy_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(BrokerageServiceServer).Buy(ctx, req.(*OrderRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _BrokerageService_Sell_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(OrderRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BrokerageServiceServer).Sell(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: BrokerageService_Sell_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(BrokerageServiceServer).Sell(ctx, req.(*OrderRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _BrokerageService_GetBalance_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(GetBalanceRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BrokerageServiceServer).GetBalance(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: BrokerageService_GetBalance_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(BrokerageServiceServer).GetBalance(ctx, req.(*GetBalanceRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _BrokerageService_GetPositions_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(GetPositionsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BrokerageServiceServer).GetPositions(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: BrokerageService_GetPositions_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(BrokerageServiceServer).GetPositions(ctx, req.(*GetPositionsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _BrokerageService_GetHistory_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(GetHistoryRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BrokerageServiceServer).GetHistory(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: BrokerageService_GetHistory_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(BrokerageServiceServer).GetHistory(ctx, req.(*GetHistoryRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _BrokerageService_StreamUpdates_Handler(srv interface{}, stream grpc.ServerStream) error {
	m := new(StreamUpdatesRequest)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(BrokerageServiceServer).StreamUpdates(m, &brokerageServiceStreamUpdatesServer{ServerStream: stream})
}

var BrokerageService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "brokerage.BrokerageService",
	HandlerType: (*BrokerageServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Deposit",
			Handler:    _BrokerageService_Deposit_Handler,
		},
		{
			MethodName: "Withdraw",
			Handler:    _BrokerageService_Withdraw_Handler,
		},
		{
			MethodName: "Buy",
			Handler:    _BrokerageService_Buy_Handler,
		},
		{
			MethodName: "Sell",
			Handler:    _BrokerageService_Sell_Handler,
		},
		{
			MethodName: "GetBalance",
			Handler:    _BrokerageService_GetBalance_Handler,
		},
		{
			MethodName: "GetPositions",
			Handler:    _BrokerageService_GetPositions_Handler,
		},
		{
			MethodName: "GetHistory",
			Handler:    _BrokerageService_GetHistory_Handler,
		},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "StreamUpdates",
			Handler:       _BrokerageService_StreamUpdates_Handler,
			ServerStreams: true,
		},
	},
	Metadata: "api/proto/brokerage.proto",
}
