package app

import (
	"context"
	"strings"

	"github.com/newrelic/go-agent/v3/newrelic"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/franRappazzini/boltick-contracts/pkg/metrics"
)

const (
	grpcResponseStatusCodeAttributeKey    = "grpc.response.statusCode"
	grpcResponseStatusMessageAttributeKey = "grpc.response.statusMessage"
)

// Codes that are the caller's fault and are not noticed as errors
var expectedStatusCodes = map[codes.Code]struct{}{
	codes.OK:              {},
	codes.AlreadyExists:   {},
	codes.Canceled:        {},
	codes.InvalidArgument: {},
	codes.NotFound:        {},
	codes.Unauthenticated: {},
}

// newRelicUnaryServerInterceptor traces every unary call as a New Relic
// transaction and carries the application in the context
func newRelicUnaryServerInterceptor(app *newrelic.Application) grpc.UnaryServerInterceptor {
	if app == nil {
		return func(ctx context.Context, req interface{}, _ *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
			return handler(ctx, req)
		}
	}

	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		ctx = metrics.NewContext(ctx, app)

		m := app.StartTransaction(strings.TrimPrefix(info.FullMethod, "/"))
		defer m.End()
		ctx = newrelic.NewContext(ctx, m)

		resp, err := handler(ctx, req)

		s := status.Convert(err)
		m.AddAttribute(grpcResponseStatusCodeAttributeKey, s.Code().String())
		m.AddAttribute(grpcResponseStatusMessageAttributeKey, s.Message())
		if _, ok := expectedStatusCodes[s.Code()]; !ok {
			m.NoticeError(&newrelic.Error{
				Message: s.Message(),
				Class:   "gRPC Status: " + s.Code().String(),
			})
		}

		return resp, err
	}
}
