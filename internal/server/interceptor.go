package server

import (
	"context"
	"time"

	"github.com/emrgen/docversion/internal/metrics"
	grpcrecovery "github.com/grpc-ecosystem/go-grpc-middleware/recovery"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// UnaryGrpcRequestTimeInterceptor logs and records the handling time of every call.
func UnaryGrpcRequestTimeInterceptor(m *metrics.Metrics) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		code := status.Code(err)
		m.ObserveRequest(info.FullMethod, code.String(), start)
		logrus.Infof("request time: %v: %v (%s)", info.FullMethod, time.Since(start), code)
		return resp, err
	}
}

func UnaryRequestTimeInterceptor() grpc.UnaryClientInterceptor {
	return func(
		ctx context.Context,
		method string,
		req interface{},
		reply interface{},
		cc *grpc.ClientConn,
		invoker grpc.UnaryInvoker,
		opts ...grpc.CallOption,
	) error {
		start := time.Now()
		err := invoker(ctx, method, req, reply, cc, opts...)
		reqTime := time.Since(start)
		logrus.Debugf("request time: %v: %v", method, reqTime)
		return err
	}
}

// UnaryRecoveryInterceptor turns handler panics into Internal errors.
func UnaryRecoveryInterceptor() grpc.UnaryServerInterceptor {
	return grpcrecovery.UnaryServerInterceptor(
		grpcrecovery.WithRecoveryHandlerContext(func(ctx context.Context, p interface{}) error {
			logrus.Errorf("panic while handling request: %v", p)
			return status.Errorf(codes.Internal, "internal error")
		}),
	)
}
