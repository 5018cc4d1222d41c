package common

import (
	"time"

	"github.com/bitrise-io/bitrise-plugins-ai-optimizer/logger"
	"github.com/hashicorp/go-retryablehttp"
)

// RetryConfig holds the configuration for HTTP retry logic
type RetryConfig struct {
	// Maximum number of retries, 0 sends every request exactly once
	RetryMax int
	// Minimum time to wait between retries
	RetryWaitMin time.Duration
	// Maximum time to wait between retries
	RetryWaitMax time.Duration
	// Function to determine if a request should be retried
	CheckRetry retryablehttp.CheckRetry
}

// DefaultRetryConfig returns a single-attempt RetryConfig
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		RetryMax:     0,
		RetryWaitMin: 1 * time.Second,
		RetryWaitMax: 5 * time.Second,
		CheckRetry:   retryablehttp.DefaultRetryPolicy,
	}
}

// RetryConfigFromSettings converts the retry section of the settings file
func RetryConfigFromSettings(r Retry) RetryConfig {
	config := DefaultRetryConfig()
	if r.Max > 0 {
		config.RetryMax = r.Max
	}
	if r.WaitMin > 0 {
		config.RetryWaitMin = time.Duration(r.WaitMin) * time.Second
	}
	if r.WaitMax > 0 {
		config.RetryWaitMax = time.Duration(r.WaitMax) * time.Second
	}
	if config.RetryWaitMax < config.RetryWaitMin {
		config.RetryWaitMax = config.RetryWaitMin
	}
	return config
}

// NewRetryableClient creates a new HTTP client with retry capabilities
func NewRetryableClient(config RetryConfig) *retryablehttp.Client {
	retryClient := retryablehttp.NewClient()

	retryClient.RetryMax = config.RetryMax
	retryClient.RetryWaitMin = config.RetryWaitMin
	retryClient.RetryWaitMax = config.RetryWaitMax

	logger.Debugf("Created retryable client with max retries: %d, min wait: %s, max wait: %s",
		config.RetryMax, config.RetryWaitMin, config.RetryWaitMax)

	if config.CheckRetry != nil {
		retryClient.CheckRetry = config.CheckRetry
	}

	// retryablehttp swallows the final response body unless ErrorHandler is set
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	retryClient.Logger = &zapRetryLogger{}

	return retryClient
}

// zapRetryLogger adapts our zap logger to the interface required by retryablehttp
type zapRetryLogger struct{}

func (z *zapRetryLogger) Error(msg string, keysAndValues ...interface{}) {
	logger.Sugar().Errorw(msg, keysAndValues...)
}

func (z *zapRetryLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.Sugar().Infow(msg, keysAndValues...)
}

func (z *zapRetryLogger) Debug(msg string, keysAndValues ...interface{}) {
	logger.Sugar().Debugw(msg, keysAndValues...)
}

func (z *zapRetryLogger) Warn(msg string, keysAndValues ...interface{}) {
	logger.Sugar().Warnw(msg, keysAndValues...)
}
