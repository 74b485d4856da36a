// Package service exposes the combined geode answers over gRPC.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/napolitain/solver-geode/internal/aggregate"
	"github.com/napolitain/solver-geode/internal/converter"
	"github.com/napolitain/solver-geode/internal/solver/geode"
)

const serviceName = "geode.SolverService"

// SolverServer is the server API of the solver service
type SolverServer interface {
	QualitySum(ctx context.Context, req *converter.SolveRequest) (*converter.SolveResponse, error)
	TopProduct(ctx context.Context, req *converter.SolveRequest) (*converter.SolveResponse, error)
}

// ServiceDesc describes the solver service for grpc.Server.RegisterService
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*SolverServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "QualitySum", Handler: qualitySumHandler},
		{MethodName: "TopProduct", Handler: topProductHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "geode/solver",
}

// Register adds the solver service to a gRPC server
func Register(s grpc.ServiceRegistrar, srv SolverServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func qualitySumHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(converter.SolveRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SolverServer).QualitySum(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/QualitySum"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SolverServer).QualitySum(ctx, req.(*converter.SolveRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func topProductHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(converter.SolveRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SolverServer).TopProduct(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/TopProduct"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SolverServer).TopProduct(ctx, req.(*converter.SolveRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// Defaults fill request fields left at zero.
// MaxHorizon bounds the horizon a request may ask for.
type Defaults struct {
	Horizon         int
	ExtendedHorizon int
	TopN            int
	MaxHorizon      int
}

// DefaultDefaults are the puzzle's horizons and top count
var DefaultDefaults = Defaults{
	Horizon:         geode.DefaultHorizon,
	ExtendedHorizon: geode.ExtendedHorizon,
	TopN:            geode.DefaultTopN,
	MaxHorizon:      geode.ExtendedHorizon,
}

func (d Defaults) checkHorizon(horizon int) error {
	if horizon < 1 || horizon > d.MaxHorizon {
		return status.Error(codes.InvalidArgument,
			fmt.Sprintf("horizon %d outside 1..%d", horizon, d.MaxHorizon))
	}
	return nil
}

// Server implements SolverServer on top of an aggregate runner
type Server struct {
	Runner   *aggregate.Runner
	Defaults Defaults
	Logger   *slog.Logger
}

// NewServer creates a server with the puzzle defaults
func NewServer(runner *aggregate.Runner, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{Runner: runner, Defaults: DefaultDefaults, Logger: logger}
}

// QualitySum implements the QualitySum RPC
func (s *Server) QualitySum(ctx context.Context, req *converter.SolveRequest) (*converter.SolveResponse, error) {
	bps, err := converter.RequestToBlueprints(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	horizon := req.Horizon
	if horizon == 0 {
		horizon = s.Defaults.Horizon
	}
	if err := s.Defaults.checkHorizon(horizon); err != nil {
		return nil, err
	}

	report, err := s.Runner.QualitySum(ctx, bps, horizon)
	if err != nil {
		return nil, toStatus(err)
	}
	// The search does not stop mid-blueprint, so the caller may have gone away meanwhile
	if err := ctx.Err(); err != nil {
		return nil, toStatus(err)
	}

	s.Logger.Info("quality sum served", "blueprints", len(bps), "horizon", horizon, "value", report.Value)
	return converter.ReportToResponse(report), nil
}

// TopProduct implements the TopProduct RPC
func (s *Server) TopProduct(ctx context.Context, req *converter.SolveRequest) (*converter.SolveResponse, error) {
	bps, err := converter.RequestToBlueprints(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	horizon := req.Horizon
	if horizon == 0 {
		horizon = s.Defaults.ExtendedHorizon
	}
	if err := s.Defaults.checkHorizon(horizon); err != nil {
		return nil, err
	}
	top := req.Top
	if top < 0 {
		return nil, status.Error(codes.InvalidArgument, fmt.Sprintf("top %d is negative", top))
	}
	if top == 0 {
		top = s.Defaults.TopN
	}

	report, err := s.Runner.TopProduct(ctx, bps, top, horizon)
	if err != nil {
		return nil, toStatus(err)
	}
	if err := ctx.Err(); err != nil {
		return nil, toStatus(err)
	}

	s.Logger.Info("top product served", "blueprints", len(report.Results), "horizon", horizon, "value", report.Value)
	return converter.ReportToResponse(report), nil
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, aggregate.ErrInvalidTopN):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return status.FromContextError(err).Err()
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
