package grpc

import (
	"context"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/simaogato/auravault-backend/internal/domain"
)

// CallerHeader carries the identity a request acts as
const CallerHeader = "x-caller-id"

// AuthInterceptor returns a gRPC unary server interceptor that validates
// the authorization token from request metadata.
// If the token is missing or invalid, it returns status.Unauthenticated.
// If valid, the caller identity from x-caller-id (when present) is attached
// to the context before the handler runs.
func AuthInterceptor(validToken string) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		md, ok := metadata.FromIncomingContext(ctx)
		if !ok {
			return nil, status.Error(codes.Unauthenticated, "missing metadata")
		}

		authHeaders := md.Get("authorization")
		if len(authHeaders) == 0 {
			return nil, status.Error(codes.Unauthenticated, "missing authorization header")
		}

		if authHeaders[0] != validToken {
			return nil, status.Error(codes.Unauthenticated, "invalid token")
		}

		if callers := md.Get(CallerHeader); len(callers) > 0 {
			caller, err := uuid.Parse(callers[0])
			if err != nil {
				return nil, status.Errorf(codes.InvalidArgument, "invalid %s: %v", CallerHeader, err)
			}
			ctx = domain.WithCaller(ctx, caller)
		}

		return handler(ctx, req)
	}
}
