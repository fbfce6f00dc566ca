// Package rpc carries the internal/api messages over gRPC. Each message
// travels as a google.protobuf.Struct built from its JSON form, so the
// services need no generated code.
package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// RequestIDKey is the metadata key the gateway forwards its request id under.
const RequestIDKey = "x-request-id"

type requestIDCtxKey struct{}

// WithRequestID stores id in ctx so clients forward it to the services.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDCtxKey{}, id)
}

// Encode converts v into a Struct through its JSON form.
func Encode(v interface{}) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var fields map[string]interface{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("message must encode as a JSON object: %w", err)
	}
	return structpb.NewStruct(fields)
}

// Decode fills v from s. A nil Struct decodes as an empty object.
func Decode(s *structpb.Struct, v interface{}) error {
	fields := map[string]interface{}{}
	if s != nil {
		fields = s.AsMap()
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

type methodHandler = func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error)

// unary adapts a typed call into a grpc method handler.
func unary[Req any, Resp any](service, method string, call func(srv interface{}, ctx context.Context, req *Req) (Resp, error)) methodHandler {
	fullMethod := "/" + service + "/" + method
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		handler := func(ctx context.Context, msg interface{}) (interface{}, error) {
			req := new(Req)
			if err := Decode(msg.(*structpb.Struct), req); err != nil {
				return nil, status.Errorf(codes.InvalidArgument, "malformed request: %v", err)
			}
			resp, err := call(srv, ctx, req)
			if err != nil {
				return nil, toStatus(err)
			}
			out, err := Encode(resp)
			if err != nil {
				return nil, status.Errorf(codes.Internal, "encode response: %v", err)
			}
			return out, nil
		}
		if interceptor == nil {
			return handler(ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		return interceptor(ctx, in, info, handler)
	}
}

// toStatus keeps errors that already carry a gRPC status and reports
// everything else as Internal.
func toStatus(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return status.FromContextError(err).Err()
	}
	if st, ok := status.FromError(err); ok {
		return st.Err()
	}
	return status.Error(codes.Internal, err.Error())
}

func invoke(ctx context.Context, cc grpc.ClientConnInterface, service, method string, req, resp interface{}) error {
	in, err := Encode(req)
	if err != nil {
		return status.Errorf(codes.Internal, "encode request: %v", err)
	}
	if id, ok := ctx.Value(requestIDCtxKey{}).(string); ok && id != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, RequestIDKey, id)
	}
	out := new(structpb.Struct)
	if err := cc.Invoke(ctx, "/"+service+"/"+method, in, out); err != nil {
		return err
	}
	if err := Decode(out, resp); err != nil {
		return status.Errorf(codes.Internal, "decode response: %v", err)
	}
	return nil
}

// LoggingInterceptor logs one line per call with its code and latency.
func LoggingInterceptor(logger zerolog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		code := status.Code(err)
		event := logger.Info()
		switch code {
		case codes.OK:
		case codes.Internal, codes.Unknown, codes.DataLoss, codes.Unavailable:
			event = logger.Error().Err(err)
		default:
			event = logger.Warn().Err(err)
		}
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if ids := md.Get(RequestIDKey); len(ids) > 0 {
				event = event.Str("request_id", ids[0])
			}
		}
		event.
			Str("method", info.FullMethod).
			Str("code", code.String()).
			Dur("duration", time.Since(start)).
			Msg("grpc call")
		return resp, err
	}
}
