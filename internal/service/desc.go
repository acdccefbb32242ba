package service

import (
	"context"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "ranksystem.RankService"

// RankServiceServer is the host-facing API. Requests and responses are plain
// google.protobuf.Struct messages.
type RankServiceServer interface {
	PlayerJoin(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	PlayerQuit(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	FormatChat(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetPlayerPermissions(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetPlayerNames(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)

	GetRanks(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	CreateRank(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	DeleteRank(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	AddRankPermission(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	RemoveRankPermission(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)

	AddRankToPlayer(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	RemoveRankFromPlayer(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	AddPlayerPermission(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	RemovePlayerPermission(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	SetChatColor(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	AddTag(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	RemoveTag(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	AddDisplayTag(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	RemoveDisplayTag(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

type unaryMethod func(srv RankServiceServer, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)

var RankServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*RankServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("PlayerJoin", RankServiceServer.PlayerJoin),
		unary("PlayerQuit", RankServiceServer.PlayerQuit),
		unary("FormatChat", RankServiceServer.FormatChat),
		unary("GetPlayerPermissions", RankServiceServer.GetPlayerPermissions),
		unary("GetPlayerNames", RankServiceServer.GetPlayerNames),
		unary("GetRanks", RankServiceServer.GetRanks),
		unary("CreateRank", RankServiceServer.CreateRank),
		unary("DeleteRank", RankServiceServer.DeleteRank),
		unary("AddRankPermission", RankServiceServer.AddRankPermission),
		unary("RemoveRankPermission", RankServiceServer.RemoveRankPermission),
		unary("AddRankToPlayer", RankServiceServer.AddRankToPlayer),
		unary("RemoveRankFromPlayer", RankServiceServer.RemoveRankFromPlayer),
		unary("AddPlayerPermission", RankServiceServer.AddPlayerPermission),
		unary("RemovePlayerPermission", RankServiceServer.RemovePlayerPermission),
		unary("SetChatColor", RankServiceServer.SetChatColor),
		unary("AddTag", RankServiceServer.AddTag),
		unary("RemoveTag", RankServiceServer.RemoveTag),
		unary("AddDisplayTag", RankServiceServer.AddDisplayTag),
		unary("RemoveDisplayTag", RankServiceServer.RemoveDisplayTag),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "ranksystem/rank_service.proto",
}

func RegisterRankServiceServer(s grpc.ServiceRegistrar, srv RankServiceServer) {
	s.RegisterService(&RankServiceDesc, srv)
}

func unary(name string, method unaryMethod) grpc.MethodDesc {
	fullMethod := "/" + ServiceName + "/" + name

	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return method(srv.(RankServiceServer), ctx, in)
			}

			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: fullMethod,
			}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return method(srv.(RankServiceServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// RankServiceClient calls RankService methods by name.
type RankServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewRankServiceClient(cc grpc.ClientConnInterface) *RankServiceClient {
	return &RankServiceClient{cc: cc}
}

func (c *RankServiceClient) Call(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
