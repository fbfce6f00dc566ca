package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"sunatstock/internal/gateway/middleware"
	"sunatstock/internal/rpc"
)

const CallTimeout = 10 * time.Second

// requestContext bounds a backend call and forwards the request id.
func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	ctx := rpc.WithRequestID(c.Request.Context(), c.GetString(middleware.ContextRequestID))
	return context.WithTimeout(ctx, CallTimeout)
}

// httpStatusFromError maps a gRPC status onto the HTTP status and message
// returned to the client.
func httpStatusFromError(err error) (int, string) {
	st := status.Convert(err)
	switch st.Code() {
	case codes.InvalidArgument:
		return http.StatusBadRequest, st.Message()
	case codes.NotFound:
		return http.StatusNotFound, st.Message()
	case codes.FailedPrecondition:
		return http.StatusConflict, st.Message()
	case codes.Unauthenticated:
		return http.StatusUnauthorized, st.Message()
	case codes.DeadlineExceeded:
		return http.StatusGatewayTimeout, "Upstream service timed out"
	case codes.Unavailable:
		return http.StatusServiceUnavailable, "Upstream service unavailable"
	}
	return http.StatusInternalServerError, "Internal server error"
}
