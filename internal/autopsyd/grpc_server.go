package autopsyd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/GoSim-25-26J-441/system-autopsy/internal/simulation"
	"github.com/GoSim-25-26J-441/system-autopsy/pkg/logger"
)

// AutopsyServiceName is the fully qualified gRPC service name.
const AutopsyServiceName = "autopsy.v1.AutopsyService"

// AutopsyServer is the server API for autopsy.v1.AutopsyService. Requests
// and responses are google.protobuf.Struct documents with the same fields
// as the HTTP API.
type AutopsyServer interface {
	ListScenarios(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	Simulate(context.Context, *structpb.Struct) (*structpb.Struct, error)
	InjectFailure(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Explain(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// AutopsyServiceDesc describes autopsy.v1.AutopsyService for grpc.Server.
var AutopsyServiceDesc = grpc.ServiceDesc{
	ServiceName: AutopsyServiceName,
	HandlerType: (*AutopsyServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ListScenarios", Handler: listScenariosHandler},
		{MethodName: "Simulate", Handler: structHandler("Simulate", AutopsyServer.Simulate)},
		{MethodName: "InjectFailure", Handler: structHandler("InjectFailure", AutopsyServer.InjectFailure)},
		{MethodName: "Explain", Handler: structHandler("Explain", AutopsyServer.Explain)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "autopsy/v1/autopsy.proto",
}

// RegisterAutopsyServer registers srv on s.
func RegisterAutopsyServer(s grpc.ServiceRegistrar, srv AutopsyServer) {
	s.RegisterService(&AutopsyServiceDesc, srv)
}

func fullMethod(name string) string {
	return "/" + AutopsyServiceName + "/" + name
}

func listScenariosHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AutopsyServer).ListScenarios(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod("ListScenarios")}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AutopsyServer).ListScenarios(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func structHandler(name string, call func(AutopsyServer, context.Context, *structpb.Struct) (*structpb.Struct, error)) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(AutopsyServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod(name)}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(AutopsyServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// AutopsyGRPCServer implements AutopsyServer on top of a Service.
type AutopsyGRPCServer struct {
	service *Service
}

// NewAutopsyGRPCServer creates the gRPC adapter for service.
func NewAutopsyGRPCServer(service *Service) *AutopsyGRPCServer {
	return &AutopsyGRPCServer{service: service}
}

func (s *AutopsyGRPCServer) ListScenarios(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	ids := s.service.ScenarioIDs()
	list := make([]any, len(ids))
	for i, id := range ids {
		list[i] = string(id)
	}
	out, err := structpb.NewStruct(map[string]any{"scenarios": list})
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

func (s *AutopsyGRPCServer) Simulate(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	state, err := s.service.Simulate(ctx, requestFromStruct(req))
	if err != nil {
		return nil, grpcError(err)
	}
	return toStruct(state)
}

func (s *AutopsyGRPCServer) InjectFailure(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	state, err := s.service.InjectFailure(ctx, requestFromStruct(req))
	if err != nil {
		return nil, grpcError(err)
	}
	return toStruct(state)
}

func (s *AutopsyGRPCServer) Explain(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	resp, err := s.service.Explain(ctx, requestFromStruct(req).Scenario)
	if err != nil {
		return nil, grpcError(err)
	}
	return toStruct(resp)
}

func requestFromStruct(in *structpb.Struct) simulation.Request {
	fields := in.GetFields()
	return simulation.Request{
		Scenario: fields["scenario"].GetStringValue(),
		Severity: fields["severity"].GetStringValue(),
	}
}

// toStruct converts a JSON-tagged view into a Struct through its JSON form.
func toStruct(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, status.Error(codes.Internal, fmt.Sprintf("encode response: %v", err))
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(data, out); err != nil {
		return nil, status.Error(codes.Internal, fmt.Sprintf("convert response: %v", err))
	}
	return out, nil
}

func grpcError(err error) error {
	if isClientError(err) {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	switch {
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	}
	return status.Error(codes.Internal, err.Error())
}

// UnaryLoggingInterceptor logs each call with its status code and duration.
func UnaryLoggingInterceptor(l *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(logger.NewContext(ctx, l.With("grpc_method", info.FullMethod)), req)
		l.Info("grpc request",
			"method", info.FullMethod,
			"code", status.Code(err).String(),
			"duration_ms", time.Since(start).Milliseconds())
		return resp, err
	}
}

// UnaryRecoveryInterceptor turns a handler panic into codes.Internal.
func UnaryRecoveryInterceptor(l *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
		defer func() {
			if r := recover(); r != nil {
				l.Error("panic recovered", "panic", r, "method", info.FullMethod)
				err = status.Error(codes.Internal, "internal error")
			}
		}()
		return handler(ctx, req)
	}
}

// NewGRPCServer builds a grpc.Server with the autopsy service and the
// standard health service registered.
func NewGRPCServer(service *Service, health *HealthPublisher, l *slog.Logger) *grpc.Server {
	if l == nil {
		l = logger.Default
	}
	s := grpc.NewServer(grpc.ChainUnaryInterceptor(
		UnaryRecoveryInterceptor(l),
		UnaryLoggingInterceptor(l),
	))
	RegisterAutopsyServer(s, NewAutopsyGRPCServer(service))
	if health != nil {
		healthpb.RegisterHealthServer(s, health.Server())
	}
	return s
}
