package rpc

import (
	"context"

	"google.golang.org/grpc"

	"sunatstock/internal/api"
)

const UserServiceName = "sunatstock.user.v1.UserService"

// UserService authenticates clinic staff. Login returns a nil result for
// unknown users or wrong passwords.
type UserService interface {
	Login(ctx context.Context, req api.LoginRequest) (*api.LoginResult, error)
}

var userServiceDesc = grpc.ServiceDesc{
	ServiceName: UserServiceName,
	HandlerType: (*UserService)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Login",
			Handler: unary(UserServiceName, "Login",
				func(srv interface{}, ctx context.Context, req *api.LoginRequest) (api.LoginResponse, error) {
					result, err := srv.(UserService).Login(ctx, *req)
					return api.LoginResponse{Result: result}, err
				}),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "sunatstock/user/v1/user.proto",
}

func RegisterUserService(s grpc.ServiceRegistrar, srv UserService) {
	s.RegisterService(&userServiceDesc, srv)
}

type UserClient struct {
	cc grpc.ClientConnInterface
}

var _ UserService = (*UserClient)(nil)

func NewUserClient(cc grpc.ClientConnInterface) *UserClient {
	return &UserClient{cc: cc}
}

func (c *UserClient) Login(ctx context.Context, req api.LoginRequest) (*api.LoginResult, error) {
	var out api.LoginResponse
	if err := invoke(ctx, c.cc, UserServiceName, "Login", req, &out); err != nil {
		return nil, err
	}
	return out.Result, nil
}
