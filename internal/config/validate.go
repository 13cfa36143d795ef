package config

import (
	"errors"

	"github.com/hashicorp/go-multierror"
)

var (
	ErrInvalidPort             = errors.New("port must be between 1 and 65535")
	ErrNoPublicRoot            = errors.New("public-root must be defined")
	ErrNoDataDir               = errors.New("data-dir must be defined")
	ErrNegativeLargeFileSize   = errors.New("large-file-threshold must be greater than or equal to 0")
	ErrNegativeMaxUploadSize   = errors.New("max-upload-size must be greater than or equal to 0")
	ErrNegativeMaxConns        = errors.New("max-conns must be greater than or equal to 0")
	ErrNegativeRateLimit       = errors.New("rate-limit-source-ip must be greater than or equal to 0")
	ErrInvalidRateLimitBurst   = errors.New("rate-limit-source-ip-burst must be greater than 0 when rate limiting is enabled")
	ErrUnsupportedLogFormat    = errors.New("log-format must be either 'text' or 'json'")
	ErrNegativeShutdownTimeout = errors.New("server-shutdown-timeout must be greater than or equal to 0")
)

func validateConfig(config *Config) error {
	var result *multierror.Error

	result = multierror.Append(result, validateListenersConfig(config))
	result = multierror.Append(result, validateServingConfig(config))
	result = multierror.Append(result, validateLimitsConfig(config))

	switch config.Log.Format {
	case "text", "json":
	default:
		result = multierror.Append(result, ErrUnsupportedLogFormat)
	}

	return result.ErrorOrNil()
}

func validateListenersConfig(config *Config) error {
	if config.ListenHTTPStrings.Len() > 0 {
		return nil
	}

	if config.General.Port < 1 || config.General.Port > 65535 {
		return ErrInvalidPort
	}

	return nil
}

func validateServingConfig(config *Config) error {
	var result *multierror.Error

	if config.Serving.PublicRoot == "" {
		result = multierror.Append(result, ErrNoPublicRoot)
	}
	if config.Serving.DataDir == "" {
		result = multierror.Append(result, ErrNoDataDir)
	}
	if config.Serving.LargeFileThreshold < 0 {
		result = multierror.Append(result, ErrNegativeLargeFileSize)
	}
	if config.Upload.MaxSize < 0 {
		result = multierror.Append(result, ErrNegativeMaxUploadSize)
	}

	return result.ErrorOrNil()
}

func validateLimitsConfig(config *Config) error {
	var result *multierror.Error

	if config.General.MaxConns < 0 {
		result = multierror.Append(result, ErrNegativeMaxConns)
	}
	if config.RateLimit.SourceIPLimitPerSecond < 0 {
		result = multierror.Append(result, ErrNegativeRateLimit)
	}
	if config.RateLimit.SourceIPLimitPerSecond > 0 && config.RateLimit.SourceIPBurst < 1 {
		result = multierror.Append(result, ErrInvalidRateLimitBurst)
	}
	if config.Server.ShutdownTimeout < 0 {
		result = multierror.Append(result, ErrNegativeShutdownTimeout)
	}

	return result.ErrorOrNil()
}
