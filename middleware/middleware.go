// File: /middleware/middleware.go
package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"globe-travel-api/logging"
	"globe-travel-api/metrics"
)

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
	Code   int    `json:"code,omitempty"`
}

// ErrorHandler turns errors attached with c.Error into a generic 500. With
// debug set the error text is included as detail.
func ErrorHandler(debug bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last()

		logging.Error().
			Err(err.Err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Request failed")

		if c.Writer.Written() {
			return
		}

		resp := ErrorResponse{Error: "Internal server error"}
		if debug {
			resp.Detail = err.Error()
		}
		c.JSON(http.StatusInternalServerError, resp)
	}
}

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	limiters map[string]*visitor
	mutex    sync.Mutex
	rate     rate.Limit
	burst    int
	window   time.Duration
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter allows max requests per window, refilled evenly.
func NewRateLimiter(max int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*visitor),
		rate:     rate.Every(window / time.Duration(max)),
		burst:    max,
		window:   window,
	}
}

// GetLimiter returns the rate limiter for a given key (IP address)
func (rl *RateLimiter) GetLimiter(key string) *rate.Limiter {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	v, exists := rl.limiters[key]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.limiters[key] = v
	}
	v.lastSeen = time.Now()
	return v.limiter
}

// CleanupLimiters drops limiters idle for longer than one window; they
// would be full again anyway.
func (rl *RateLimiter) CleanupLimiters() {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	cutoff := time.Now().Add(-rl.window)
	for key, v := range rl.limiters {
		if v.lastSeen.Before(cutoff) {
			delete(rl.limiters, key)
		}
	}
}

func (rl *RateLimiter) Len() int {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()
	return len(rl.limiters)
}

// RateLimitPolicy describes one route class.
type RateLimitPolicy struct {
	Name    string
	Max     int
	Window  time.Duration
	Message string
	// SkipSuccessful only counts responses with status >= 400.
	SkipSuccessful bool
}

var (
	APIPolicy = RateLimitPolicy{
		Name:    "api",
		Max:     100,
		Window:  15 * time.Minute,
		Message: "Too many requests from this IP, please try again later.",
	}
	UploadPolicy = RateLimitPolicy{
		Name:    "upload",
		Max:     20,
		Window:  time.Hour,
		Message: "Too many uploads from this IP, please try again later.",
	}
	AuthPolicy = RateLimitPolicy{
		Name:           "auth",
		Max:            5,
		Window:         15 * time.Minute,
		Message:        "Too many authentication attempts, please try again later.",
		SkipSuccessful: true,
	}
)

// RateLimit middleware
func RateLimit(policy RateLimitPolicy) gin.HandlerFunc {
	rateLimiter := NewRateLimiter(policy.Max, policy.Window)

	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()

		for range ticker.C {
			rateLimiter.CleanupLimiters()
		}
	}()

	return rateLimitHandler(rateLimiter, policy)
}

func rateLimitHandler(rateLimiter *RateLimiter, policy RateLimitPolicy) gin.HandlerFunc {
	return func(c *gin.Context) {
		limiter := rateLimiter.GetLimiter(c.ClientIP())
		now := time.Now()

		c.Header("X-RateLimit-Limit", strconv.Itoa(policy.Max))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(now.Add(policy.Window).Unix(), 10))

		var allowed bool
		if policy.SkipSuccessful {
			// Charged after the handler runs, and only for failures.
			allowed = limiter.TokensAt(now) >= 1
		} else {
			allowed = limiter.AllowN(now, 1)
		}

		if !allowed {
			metrics.RateLimitRejections.WithLabelValues(policy.Name).Inc()

			c.Header("X-RateLimit-Remaining", "0")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorResponse{
				Error: policy.Message,
				Code:  http.StatusTooManyRequests,
			})
			return
		}

		remaining := int(limiter.TokensAt(now))
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		c.Next()

		if policy.SkipSuccessful && c.Writer.Status() >= http.StatusBadRequest {
			limiter.AllowN(time.Now(), 1)
		}
	}
}

// RequestLogger writes one structured access line per request.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		status := c.Writer.Status()
		event := logging.Info()
		if status >= http.StatusInternalServerError {
			event = logging.Error()
		} else if status >= http.StatusBadRequest {
			event = logging.Warn()
		}

		event.
			Str("ip", c.ClientIP()).
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("user_agent", c.Request.UserAgent()).
			Msg("request")
	}
}

// Metrics records request counts and latency per matched route.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		metrics.TrackActiveRequest(true)
		defer metrics.TrackActiveRequest(false)

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.RecordAPIRequest(c.Request.Method, route, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}

// SecurityHeaders middleware adds security headers
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
		c.Next()
	}
}

// BodyLimit caps the request body; reads past the limit fail.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}
