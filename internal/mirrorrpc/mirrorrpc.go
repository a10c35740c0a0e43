// Package mirrorrpc declares the mirror gRPC service by hand. Messages are
// protobuf well-known types, so no generated code is needed: snapshots travel
// as BytesValue and argument-less calls use Empty.
package mirrorrpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const ServiceName = "mapkeeper.mirror.v1.MirrorService"

// Full method names, as seen by interceptors.
const (
	PingMethod         = "/" + ServiceName + "/Ping"
	PushSnapshotMethod = "/" + ServiceName + "/PushSnapshot"
	PullSnapshotMethod = "/" + ServiceName + "/PullSnapshot"
)

// Server is implemented by the mirror.
type Server interface {
	Ping(context.Context, *emptypb.Empty) (*emptypb.Empty, error)
	PushSnapshot(context.Context, *wrapperspb.BytesValue) (*emptypb.Empty, error)
	PullSnapshot(context.Context, *emptypb.Empty) (*wrapperspb.BytesValue, error)
}

func RegisterServer(s grpc.ServiceRegistrar, srv Server) {
	s.RegisterService(&ServiceDesc, srv)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*Server)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Ping", Handler: pingHandler},
		{MethodName: "PushSnapshot", Handler: pushHandler},
		{MethodName: "PullSnapshot", Handler: pullHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "mapkeeper/mirror/v1/mirror.proto",
}

func pingHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(Server).Ping(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: PingMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(Server).Ping(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func pushHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.BytesValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(Server).PushSnapshot(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: PushSnapshotMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(Server).PushSnapshot(ctx, req.(*wrapperspb.BytesValue))
	}
	return interceptor(ctx, in, info, handler)
}

func pullHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(Server).PullSnapshot(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: PullSnapshotMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(Server).PullSnapshot(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

// Client calls the mirror over an existing connection.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) Ping(ctx context.Context, opts ...grpc.CallOption) error {
	return c.cc.Invoke(ctx, PingMethod, &emptypb.Empty{}, new(emptypb.Empty), opts...)
}

func (c *Client) PushSnapshot(ctx context.Context, doc []byte, opts ...grpc.CallOption) error {
	return c.cc.Invoke(ctx, PushSnapshotMethod, wrapperspb.Bytes(doc), new(emptypb.Empty), opts...)
}

func (c *Client) PullSnapshot(ctx context.Context, opts ...grpc.CallOption) ([]byte, error) {
	out := new(wrapperspb.BytesValue)
	if err := c.cc.Invoke(ctx, PullSnapshotMethod, &emptypb.Empty{}, out, opts...); err != nil {
		return nil, err
	}
	return out.GetValue(), nil
}
