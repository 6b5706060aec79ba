package transport

import (
	"net/http"
	"time"

	"linkhut/internal/logger"
)

// LoggingRoundTripper logs every outgoing request with its status and latency.
type LoggingRoundTripper struct {
	Next   http.RoundTripper
	Logger logger.Logger
}

func NewLoggingRoundTripper(next http.RoundTripper, l logger.Logger) *LoggingRoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return &LoggingRoundTripper{Next: next, Logger: l}
}

func (rt *LoggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := rt.Next.RoundTrip(req)
	// The query is left out; it carries bookmark data.
	if err != nil {
		rt.Logger.Debug("request failed",
			logger.String("method", req.Method),
			logger.String("host", req.URL.Host),
			logger.String("path", req.URL.Path),
			logger.Duration("elapsed", time.Since(start)),
			logger.Error(err),
		)
		return nil, err
	}
	rt.Logger.Debug("request",
		logger.String("method", req.Method),
		logger.String("host", req.URL.Host),
		logger.String("path", req.URL.Path),
		logger.Int("status", resp.StatusCode),
		logger.Duration("elapsed", time.Since(start)),
	)
	return resp, nil
}
