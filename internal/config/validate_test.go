package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		General: General{Port: 8080},
		Serving: Serving{
			PublicRoot:         "./public",
			DataDir:            "./public/data",
			LandingPage:        "./public/index.html",
			LargeFileThreshold: DefaultLargeFileThreshold,
		},
		RateLimit: RateLimit{SourceIPBurst: 100},
		Server:    Server{ShutdownTimeout: 30 * time.Second},
		Log:       Log{Format: "text"},
	}
}

func TestConfigValidate(t *testing.T) {
	tests := map[string]struct {
		cfg          func(*Config)
		expectedErrs []error
	}{
		"valid": {
			cfg: func(*Config) {},
		},
		"port_out_of_range": {
			cfg:          func(c *Config) { c.General.Port = 70000 },
			expectedErrs: []error{ErrInvalidPort},
		},
		"port_ignored_with_listen_http": {
			cfg: func(c *Config) {
				c.General.Port = 0
				require.NoError(t, c.ListenHTTPStrings.Set("127.0.0.1:9000"))
			},
		},
		"missing_directories": {
			cfg: func(c *Config) {
				c.Serving.PublicRoot = ""
				c.Serving.DataDir = ""
			},
			expectedErrs: []error{ErrNoPublicRoot, ErrNoDataDir},
		},
		"negative_sizes": {
			cfg: func(c *Config) {
				c.Serving.LargeFileThreshold = -1
				c.Upload.MaxSize = -1
			},
			expectedErrs: []error{ErrNegativeLargeFileSize, ErrNegativeMaxUploadSize},
		},
		"rate_limit_without_burst": {
			cfg: func(c *Config) {
				c.RateLimit.SourceIPLimitPerSecond = 10
				c.RateLimit.SourceIPBurst = 0
			},
			expectedErrs: []error{ErrInvalidRateLimitBurst},
		},
		"limits": {
			cfg: func(c *Config) {
				c.General.MaxConns = -1
				c.RateLimit.SourceIPLimitPerSecond = -1
				c.Server.ShutdownTimeout = -time.Second
			},
			expectedErrs: []error{ErrNegativeMaxConns, ErrNegativeRateLimit, ErrNegativeShutdownTimeout},
		},
		"unsupported_log_format": {
			cfg:          func(c *Config) { c.Log.Format = "xml" },
			expectedErrs: []error{ErrUnsupportedLogFormat},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := validConfig()
			tt.cfg(cfg)

			err := validateConfig(cfg)
			if len(tt.expectedErrs) == 0 {
				require.NoError(t, err)
				return
			}

			for _, expected := range tt.expectedErrs {
				require.ErrorIs(t, err, expected)
			}
		})
	}
}

func TestHTTPAddresses(t *testing.T) {
	cfg := validConfig()
	require.Equal(t, []string{":8080"}, cfg.HTTPAddresses())

	require.NoError(t, cfg.ListenHTTPStrings.Set("127.0.0.1:9000,[::1]:9000"))
	require.Equal(t, []string{"127.0.0.1:9000", "[::1]:9000"}, cfg.HTTPAddresses())
}

func TestSearchPaths(t *testing.T) {
	cfg := validConfig()
	require.Equal(t, []string{"./public", "./public/data"}, cfg.Serving.SearchPaths())
}
