package utils

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// ShouldRetry reports whether err looks transient: rate limits, 5xx
// responses, timeouts and dropped connections.
func ShouldRetry(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	var openAIErr *openai.APIError
	if errors.As(err, &openAIErr) {
		return openAIErr.HTTPStatusCode >= 500 || openAIErr.HTTPStatusCode == http.StatusTooManyRequests
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode >= 500 || reqErr.HTTPStatusCode == http.StatusTooManyRequests
	}
	errMsg := strings.ToLower(err.Error())
	for _, marker := range []string{
		"rate limit",
		"500 internal server error",
		"502 bad gateway",
		"503 service unavailable",
		"504 gateway timeout",
		"timeout",
		"connection reset by peer",
		"context deadline exceeded",
	} {
		if strings.Contains(errMsg, marker) {
			return true
		}
	}
	return false
}

// NewHTTPClient returns an http.Client that retries transient failures with
// exponential backoff and logs attempts through logger.
func NewHTTPClient(logger *zap.Logger, retries int, timeout time.Duration) *http.Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = retries
	rc.RetryWaitMin = 500 * time.Millisecond
	rc.RetryWaitMax = 5 * time.Second
	rc.Logger = zapLeveled{logger.Named("http")}
	rc.HTTPClient.Timeout = timeout
	return rc.StandardClient()
}

// zapLeveled adapts zap to retryablehttp.LeveledLogger.
type zapLeveled struct{ l *zap.Logger }

func (z zapLeveled) Error(msg string, kv ...interface{}) { z.l.Sugar().Errorw(msg, kv...) }
func (z zapLeveled) Info(msg string, kv ...interface{})  { z.l.Sugar().Debugw(msg, kv...) }
func (z zapLeveled) Debug(msg string, kv ...interface{}) { z.l.Sugar().Debugw(msg, kv...) }
func (z zapLeveled) Warn(msg string, kv ...interface{})  { z.l.Sugar().Warnw(msg, kv...) }
