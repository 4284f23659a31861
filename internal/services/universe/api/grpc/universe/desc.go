package universe

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/louisbranch/tickverse/internal/services/universe/storage"
)

const (
	// UniverseServiceName is the fully qualified universe service name.
	UniverseServiceName = "tickverse.universe.v1.UniverseService"
	// CounterServiceName is the fully qualified counter service name.
	CounterServiceName = "tickverse.counter.v1.CounterService"
)

const (
	UniverseService_CreateUniverse_FullMethodName = "/" + UniverseServiceName + "/CreateUniverse"
	UniverseService_Tick_FullMethodName           = "/" + UniverseServiceName + "/Tick"
	UniverseService_GetUniverse_FullMethodName    = "/" + UniverseServiceName + "/GetUniverse"
	UniverseService_ListUniverses_FullMethodName  = "/" + UniverseServiceName + "/ListUniverses"
	UniverseService_ListEvents_FullMethodName     = "/" + UniverseServiceName + "/ListEvents"
	CounterService_StoreValue_FullMethodName      = "/" + CounterServiceName + "/StoreValue"
	CounterService_Increment_FullMethodName       = "/" + CounterServiceName + "/Increment"
)

// UniverseServer is the server API for the universe service. Universe
// messages map to storage.UniverseRecord.
type UniverseServer interface {
	CreateUniverse(context.Context, *CreateUniverseRequest) (*storage.UniverseRecord, error)
	Tick(context.Context, *TickRequest) (*storage.UniverseRecord, error)
	GetUniverse(context.Context, *GetUniverseRequest) (*storage.UniverseRecord, error)
	ListUniverses(context.Context, *ListUniversesRequest) (*ListUniversesResponse, error)
	ListEvents(context.Context, *ListEventsRequest) (*ListEventsResponse, error)
}

// CounterServer is the server API for the counter service.
type CounterServer interface {
	StoreValue(context.Context, *StoreValueRequest) (*CounterValue, error)
	Increment(context.Context, *IncrementRequest) (*CounterValue, error)
}

// UniverseService_ServiceDesc is the grpc.ServiceDesc for the universe service.
var UniverseService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: UniverseServiceName,
	HandlerType: (*UniverseServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreateUniverse", Handler: unaryHandler(UniverseService_CreateUniverse_FullMethodName, createUniverseRequestCodec, universeCodec, UniverseServer.CreateUniverse)},
		{MethodName: "Tick", Handler: unaryHandler(UniverseService_Tick_FullMethodName, tickRequestCodec, universeCodec, UniverseServer.Tick)},
		{MethodName: "GetUniverse", Handler: unaryHandler(UniverseService_GetUniverse_FullMethodName, getUniverseRequestCodec, universeCodec, UniverseServer.GetUniverse)},
		{MethodName: "ListUniverses", Handler: unaryHandler(UniverseService_ListUniverses_FullMethodName, listUniversesRequestCodec, listUniversesResponseCodec, UniverseServer.ListUniverses)},
		{MethodName: "ListEvents", Handler: unaryHandler(UniverseService_ListEvents_FullMethodName, listEventsRequestCodec, listEventsResponseCodec, UniverseServer.ListEvents)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "tickverse/universe/v1/universe.proto",
}

// CounterService_ServiceDesc is the grpc.ServiceDesc for the counter service.
var CounterService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: CounterServiceName,
	HandlerType: (*CounterServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "StoreValue", Handler: unaryHandler(CounterService_StoreValue_FullMethodName, storeValueRequestCodec, counterValueCodec, CounterServer.StoreValue)},
		{MethodName: "Increment", Handler: unaryHandler(CounterService_Increment_FullMethodName, incrementRequestCodec, counterValueCodec, CounterServer.Increment)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "tickverse/counter/v1/counter.proto",
}

// RegisterUniverseServer registers srv with s.
func RegisterUniverseServer(s grpc.ServiceRegistrar, srv UniverseServer) {
	s.RegisterService(&UniverseService_ServiceDesc, srv)
}

// RegisterCounterServer registers srv with s.
func RegisterCounterServer(s grpc.ServiceRegistrar, srv CounterServer) {
	s.RegisterService(&CounterService_ServiceDesc, srv)
}

// unaryHandler adapts a typed server method to a grpc.MethodHandler. The
// interceptor chain sees the decoded request and the encoded response.
func unaryHandler[S, Req, Resp any](fullMethod string, in messageCodec[Req], out messageCodec[Resp], call func(S, context.Context, Req) (Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		raw := in.new()
		if err := dec(raw); err != nil {
			return nil, err
		}
		req, err := in.unmarshal(raw)
		if err != nil {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		handler := func(ctx context.Context, req any) (any, error) {
			resp, err := call(srv.(S), ctx, req.(Req))
			if err != nil {
				return nil, err
			}
			return out.marshal(resp), nil
		}
		if interceptor == nil {
			return handler(ctx, req)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		return interceptor(ctx, req, info, handler)
	}
}

// invoke sends req on method and decodes the reply.
func invoke[Req, Resp any](ctx context.Context, conn grpc.ClientConnInterface, method string, in messageCodec[Req], out messageCodec[Resp], req Req, opts ...grpc.CallOption) (Resp, error) {
	reply := out.new()
	if err := conn.Invoke(ctx, method, in.marshal(req), reply, opts...); err != nil {
		var zero Resp
		return zero, err
	}
	return out.unmarshal(reply)
}
