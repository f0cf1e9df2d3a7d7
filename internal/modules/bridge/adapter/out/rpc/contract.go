package rpc

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hashicorp/go-plugin"
	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

const (
	PluginMapKey      = "native"
	serviceName       = "pomodoro.bridge.v1.NativeBridge"
	jsonCodecName     = "json"
	methodGetMetadata = "/" + serviceName + "/GetMetadata"
	methodInvoke      = "/" + serviceName + "/Invoke"
)

var HandshakeConfig = plugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "POMODORO_BRIDGE",
	MagicCookieValue: "pomodoro",
}

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return jsonCodecName
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

type Empty struct{}

type Metadata struct {
	Name     string   `json:"name"`
	Version  string   `json:"version"`
	Commands []string `json:"commands"`
}

type InvokeContext struct {
	DataDir   string `json:"data_dir"`
	WeekStart string `json:"week_start"`
}

type InvokeRequest struct {
	Command  string        `json:"command"`
	ArgsJSON string        `json:"args_json"`
	Context  InvokeContext `json:"context"`
}

type InvokeResponse struct {
	ResultJSON string `json:"result_json"`
}

type NativeBridgeServer interface {
	GetMetadata(ctx context.Context, in *Empty) (*Metadata, error)
	Invoke(ctx context.Context, in *InvokeRequest) (*InvokeResponse, error)
}

type NativeBridgeClient interface {
	GetMetadata(ctx context.Context) (*Metadata, error)
	Invoke(ctx context.Context, in *InvokeRequest) (*InvokeResponse, error)
}

type nativeBridgeClient struct {
	conn *grpc.ClientConn
}

func NewNativeBridgeClient(conn *grpc.ClientConn) NativeBridgeClient {
	return &nativeBridgeClient{conn: conn}
}

func (c *nativeBridgeClient) GetMetadata(ctx context.Context) (*Metadata, error) {
	out := &Metadata{}
	if err := c.conn.Invoke(ctx, methodGetMetadata, &Empty{}, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *nativeBridgeClient) Invoke(ctx context.Context, in *InvokeRequest) (*InvokeResponse, error) {
	out := &InvokeResponse{}
	if err := c.conn.Invoke(ctx, methodInvoke, in, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func RegisterNativeBridgeServer(server grpc.ServiceRegistrar, impl NativeBridgeServer) {
	server.RegisterService(&grpc.ServiceDesc{
		ServiceName: serviceName,
		HandlerType: (*NativeBridgeServer)(nil),
		Methods: []grpc.MethodDesc{
			{
				MethodName: "GetMetadata",
				Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
					in := &Empty{}
					if err := dec(in); err != nil {
						return nil, err
					}
					if interceptor == nil {
						return impl.GetMetadata(ctx, in)
					}
					info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodGetMetadata}
					handler := func(ctx context.Context, req any) (any, error) {
						empty, ok := req.(*Empty)
						if !ok {
							return nil, fmt.Errorf("invalid request type")
						}
						return impl.GetMetadata(ctx, empty)
					}
					return interceptor(ctx, in, info, handler)
				},
			},
			{
				MethodName: "Invoke",
				Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
					in := &InvokeRequest{}
					if err := dec(in); err != nil {
						return nil, err
					}
					if interceptor == nil {
						return impl.Invoke(ctx, in)
					}
					info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodInvoke}
					handler := func(ctx context.Context, req any) (any, error) {
						inReq, ok := req.(*InvokeRequest)
						if !ok {
							return nil, fmt.Errorf("invalid request type")
						}
						return impl.Invoke(ctx, inReq)
					}
					return interceptor(ctx, in, info, handler)
				},
			},
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "schemas/native-bridge-v1.proto",
	}, impl)
}

type GRPCPlugin struct {
	plugin.NetRPCUnsupportedPlugin
	Impl NativeBridgeServer
}

func (p *GRPCPlugin) GRPCServer(_ *plugin.GRPCBroker, server *grpc.Server) error {
	RegisterNativeBridgeServer(server, p.Impl)
	return nil
}

func (p *GRPCPlugin) GRPCClient(_ context.Context, _ *plugin.GRPCBroker, conn *grpc.ClientConn) (any, error) {
	return NewNativeBridgeClient(conn), nil
}

func PluginMap(impl NativeBridgeServer) map[string]plugin.Plugin {
	return map[string]plugin.Plugin{
		PluginMapKey: &GRPCPlugin{Impl: impl},
	}
}
