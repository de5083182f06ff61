package server

import (
	"context"

	"github.com/alfredjeanlab/rwa/internal/rpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// walletService is the handler type checked by grpc.RegisterService.
type walletService interface {
	Health(context.Context, *rpc.Empty) (*rpc.HealthResponse, error)
}

// serviceDesc describes the wallet service. Messages are JSON (rpc.Codec);
// there are no generated stubs.
var serviceDesc = grpc.ServiceDesc{
	ServiceName: rpc.ServiceName,
	HandlerType: (*walletService)(nil),
	Methods: []grpc.MethodDesc{
		unary(rpc.MethodHealth, (*WalletServer).Health),
		unary(rpc.MethodGetSession, (*WalletServer).GetSession),
		unary(rpc.MethodConnect, (*WalletServer).Connect),
		unary(rpc.MethodDisconnect, (*WalletServer).Disconnect),
		unary(rpc.MethodCheckConnection, (*WalletServer).CheckConnection),
		unary(rpc.MethodSwitchNetwork, (*WalletServer).SwitchNetwork),
		unary(rpc.MethodClearError, (*WalletServer).ClearError),
		unary(rpc.MethodRefreshCompliance, (*WalletServer).RefreshCompliance),
		unary(rpc.MethodGetCompliance, (*WalletServer).GetCompliance),
		unary(rpc.MethodAuthorize, (*WalletServer).Authorize),
		unary(rpc.MethodTransfer, (*WalletServer).Transfer),
		unary(rpc.MethodMaxAmount, (*WalletServer).MaxAmount),
		unary(rpc.MethodListTransfers, (*WalletServer).ListTransfers),
		unary(rpc.MethodListEvents, (*WalletServer).ListEvents),
	},
	Streams: []grpc.StreamDesc{},
}

func unary[Req, Resp any](name string, call func(*WalletServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			s := srv.(*WalletServer)
			if interceptor == nil {
				return call(s, ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: rpc.Method(name)}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return call(s, ctx, req.(*Req))
			})
		},
	}
}

// NewGRPCServer creates a gRPC server with standard interceptors and
// registers the wallet service and the standard health service.
func NewGRPCServer(ws *WalletServer, authToken string) *grpc.Server {
	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			RecoveryInterceptor,
			LoggingInterceptor(ws.logger),
			AuthInterceptor(authToken),
			ErrorInterceptor,
		),
	)
	srv.RegisterService(&serviceDesc, ws)

	hs := health.NewServer()
	hs.SetServingStatus(rpc.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, hs)

	return srv
}
