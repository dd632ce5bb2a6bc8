package admin

import (
	"fmt"
	"math"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/vyrodovalexey/routeregistry/internal/observability"
	"github.com/vyrodovalexey/routeregistry/internal/util"
)

const (
	// RequestIDHeader is the header name for request ID.
	RequestIDHeader = "X-Request-ID"
	// requestIDKey is the gin context key for request ID.
	requestIDKey = "requestID"
)

// requestID takes the caller's X-Request-ID or generates one, echoes it
// and stores it on the request context for logging.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Request = c.Request.WithContext(util.ContextWithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

// GetRequestID returns the request ID from the gin context.
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// recovery turns a handler panic into a 500 response.
func recovery(logger observability.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.WithContext(c.Request.Context()).Error("panic recovered",
					observability.Any("error", rec),
					observability.String("method", c.Request.Method),
					observability.String("path", c.Request.URL.Path),
					observability.String("stack", string(debug.Stack())),
				)
				if span := trace.SpanFromContext(c.Request.Context()); span.IsRecording() {
					span.RecordError(fmt.Errorf("panic: %v", rec))
				}
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error":   "Internal Server Error",
					"message": "An unexpected error occurred",
				})
			}
		}()

		c.Next()
	}
}

// tracing opens a server span per request.
func tracing(tracer *observability.Tracer) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracer.StartSpan(c.Request.Context(),
			fmt.Sprintf("%s %s", c.Request.Method, c.Request.URL.Path),
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", c.Request.Method),
				attribute.String("http.target", c.Request.URL.Path),
				attribute.String("request.id", GetRequestID(c)),
			),
		)
		defer span.End()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		status := c.Writer.Status()
		span.SetAttributes(attribute.Int("http.status_code", status))
		if route := c.FullPath(); route != "" {
			span.SetName(fmt.Sprintf("%s %s", c.Request.Method, route))
		}
		if status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
	}
}

// logging writes one line per request at a level chosen by status.
func logging(logger observability.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		l := logger.WithContext(c.Request.Context())
		fields := []observability.Field{
			observability.String("method", c.Request.Method),
			observability.String("path", c.Request.URL.Path),
			observability.Int("status", status),
			observability.Duration("latency", time.Since(start)),
			observability.String("client_ip", c.ClientIP()),
			observability.Int("body_size", c.Writer.Size()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, observability.String("errors", c.Errors.String()))
		}

		switch {
		case status >= http.StatusInternalServerError:
			l.Error("admin request completed", fields...)
		case status >= http.StatusBadRequest:
			l.Warn("admin request completed", fields...)
		default:
			l.Info("admin request completed", fields...)
		}
	}
}

// requestMetrics records request counts and latencies by route template.
func requestMetrics(metrics *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.RecordRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}

// rateLimit rejects requests the limiter cannot admit with 429.
func rateLimit(limiter *rate.Limiter, metrics *observability.Metrics, logger observability.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reservation := limiter.Reserve()
		if !reservation.OK() {
			reject(c, metrics, logger, time.Second)
			return
		}
		if delay := reservation.Delay(); delay > 0 {
			reservation.Cancel()
			reject(c, metrics, logger, delay)
			return
		}
		c.Next()
	}
}

func reject(c *gin.Context, metrics *observability.Metrics, logger observability.Logger, retryAfter time.Duration) {
	if metrics != nil {
		metrics.RecordRateLimitHit()
	}
	logger.WithContext(c.Request.Context()).Debug("admin rate limit exceeded",
		observability.String("path", c.Request.URL.Path),
	)

	seconds := int(math.Ceil(retryAfter.Seconds()))
	c.Header("Retry-After", strconv.Itoa(seconds))
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
		"error":       "Too Many Requests",
		"message":     "Rate limit exceeded",
		"retry_after": seconds,
	})
}

// maxBodySize caps the request body.
func maxBodySize(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}
