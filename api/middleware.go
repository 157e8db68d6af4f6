package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/Domenick1991/airfare/internal/metrics"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// RequestID propagates the caller's request id or assigns a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// AccessLog writes one structured line per request.
func AccessLog(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()
		log.InfoContext(c.Request.Context(), "http request",
			"method", c.Request.Method,
			"route", c.FullPath(),
			"status", c.Writer.Status(),
			"duration_ms", time.Since(started).Milliseconds(),
			"client_ip", c.ClientIP(),
			"request_id", c.GetString(requestIDKey),
		)
	}
}

// Metrics counts requests by matched route so path parameters do not explode cardinality.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.IncHTTPRequest(c.Request.Method, route, strconv.Itoa(c.Writer.Status()))
	}
}

// limiterIdleTTL is how long a client's bucket survives without requests.
const limiterIdleTTL = 5 * time.Minute

type clientEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ClientLimiter keeps one token bucket per client IP. Buckets idle for longer
// than limiterIdleTTL are dropped by a sweep run from Allow.
type ClientLimiter struct {
	mu        sync.Mutex
	limit     rate.Limit
	burst     int
	clients   map[string]*clientEntry
	lastSweep time.Time
	clockNow  func() time.Time
}

func NewClientLimiter(perSecond float64, burst int) *ClientLimiter {
	if burst < 1 {
		burst = 1
	}
	limit := rate.Limit(perSecond)
	if perSecond <= 0 {
		limit = rate.Inf
	}
	return &ClientLimiter{
		limit:    limit,
		burst:    burst,
		clients:  make(map[string]*clientEntry),
		clockNow: time.Now,
	}
}

func (l *ClientLimiter) Allow(client string) bool {
	now := l.clockNow()
	l.mu.Lock()
	if now.Sub(l.lastSweep) >= limiterIdleTTL {
		l.sweep(now)
	}
	entry, ok := l.clients[client]
	if !ok {
		entry = &clientEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[client] = entry
	}
	entry.lastSeen = now
	lim := entry.limiter
	l.mu.Unlock()
	return lim.AllowN(now, 1)
}

// Clients returns the number of tracked client buckets.
func (l *ClientLimiter) Clients() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// sweep must be called with l.mu held.
func (l *ClientLimiter) sweep(now time.Time) {
	for id, entry := range l.clients {
		if now.Sub(entry.lastSeen) >= limiterIdleTTL {
			delete(l.clients, id)
		}
	}
	l.lastSweep = now
}

// Middleware rejects requests over the client's budget with 429.
func (l *ClientLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, errorResponse{Error: "too many quote requests", Code: CodeRateLimited})
			return
		}
		c.Next()
	}
}
