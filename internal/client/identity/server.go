package identity

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// Server is implemented by identity backends.
type Server interface {
	SignUp(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	SignIn(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	SignOut(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	UpdateProfile(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	ChangePassword(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	Reauthenticate(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	RefreshToken(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
}

type handlerFunc func(Server, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unary(name string, call handlerFunc) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(Server), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(name)}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return call(srv.(Server), ctx, req.(*structpb.Struct))
			})
		},
	}
}

// ServiceDesc describes the identity service for grpc.Server.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*Server)(nil),
	Methods: []grpc.MethodDesc{
		unary(SignUp, Server.SignUp),
		unary(SignIn, Server.SignIn),
		unary(SignOut, Server.SignOut),
		unary(UpdateProfile, Server.UpdateProfile),
		unary(ChangePassword, Server.ChangePassword),
		unary(Reauthenticate, Server.Reauthenticate),
		unary(RefreshToken, Server.RefreshToken),
	},
	Metadata: "gophprofile/identity/v1/identity.proto",
}

// RegisterServer registers srv on s.
func RegisterServer(s grpc.ServiceRegistrar, srv Server) {
	s.RegisterService(&ServiceDesc, srv)
}
