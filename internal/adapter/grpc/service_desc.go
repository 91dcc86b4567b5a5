package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified name of the vault gRPC service
const ServiceName = "auravault.v1.VaultService"

// VaultServiceServer is the server API of auravault.v1.VaultService.
// Every message is a google.protobuf.Struct; amounts travel as decimal strings
// and identities as UUID strings.
type VaultServiceServer interface {
	Deposit(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Withdraw(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Redeem(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ReportProfit(context.Context, *structpb.Struct) (*structpb.Struct, error)
	TransferShares(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ApproveShares(context.Context, *structpb.Struct) (*structpb.Struct, error)
	AddStrategy(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RemoveStrategy(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RecallStrategy(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Pause(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Unpause(context.Context, *structpb.Struct) (*structpb.Struct, error)
	TransferOwnership(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetVault(context.Context, *structpb.Struct) (*structpb.Struct, error)
	BalanceOf(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListStrategies(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetStrategy(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListOperations(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Preview(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Harvest(context.Context, *structpb.Struct) (*structpb.Struct, error)
	MintAsset(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ApproveAsset(context.Context, *structpb.Struct) (*structpb.Struct, error)
	AssetBalance(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryMethod func(VaultServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

var methods = []struct {
	name string
	call unaryMethod
}{
	{"Deposit", VaultServiceServer.Deposit},
	{"Withdraw", VaultServiceServer.Withdraw},
	{"Redeem", VaultServiceServer.Redeem},
	{"ReportProfit", VaultServiceServer.ReportProfit},
	{"TransferShares", VaultServiceServer.TransferShares},
	{"ApproveShares", VaultServiceServer.ApproveShares},
	{"AddStrategy", VaultServiceServer.AddStrategy},
	{"RemoveStrategy", VaultServiceServer.RemoveStrategy},
	{"RecallStrategy", VaultServiceServer.RecallStrategy},
	{"Pause", VaultServiceServer.Pause},
	{"Unpause", VaultServiceServer.Unpause},
	{"TransferOwnership", VaultServiceServer.TransferOwnership},
	{"GetVault", VaultServiceServer.GetVault},
	{"BalanceOf", VaultServiceServer.BalanceOf},
	{"ListStrategies", VaultServiceServer.ListStrategies},
	{"GetStrategy", VaultServiceServer.GetStrategy},
	{"ListOperations", VaultServiceServer.ListOperations},
	{"Preview", VaultServiceServer.Preview},
	{"Harvest", VaultServiceServer.Harvest},
	{"MintAsset", VaultServiceServer.MintAsset},
	{"ApproveAsset", VaultServiceServer.ApproveAsset},
	{"AssetBalance", VaultServiceServer.AssetBalance},
}

// VaultServiceDesc describes auravault.v1.VaultService for grpc.Server.RegisterService
var VaultServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*VaultServiceServer)(nil),
	Methods:     methodDescs(),
	Streams:     []grpc.StreamDesc{},
	Metadata:    "auravault/v1/vault.proto",
}

// RegisterVaultServiceServer registers srv on s
func RegisterVaultServiceServer(s grpc.ServiceRegistrar, srv VaultServiceServer) {
	s.RegisterService(&VaultServiceDesc, srv)
}

func methodDescs() []grpc.MethodDesc {
	descs := make([]grpc.MethodDesc, 0, len(methods))
	for _, m := range methods {
		descs = append(descs, grpc.MethodDesc{MethodName: m.name, Handler: unaryHandler(m.name, m.call)})
	}
	return descs
}

// unaryHandler adapts a server method to the shape grpc-go dispatches to
func unaryHandler(name string, call unaryMethod) func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	fullMethod := "/" + ServiceName + "/" + name
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(VaultServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(VaultServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}
