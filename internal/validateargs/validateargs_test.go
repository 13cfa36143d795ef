package validateargs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSensitive(t *testing.T) {
	tests := map[string]struct {
		args    []string
		wantErr string
	}{
		"no args": {},
		"safe args": {
			args: []string{"-port", "9000", "-log-format=json"},
		},
		"separate value": {
			args:    []string{"-sentry-dsn", "https://key@sentry.example.com/1"},
			wantErr: "-sentry-dsn should be set through the environment or -config instead of command line arguments",
		},
		"double dash with equals": {
			args:    []string{"--sentry-dsn=https://key@sentry.example.com/1"},
			wantErr: "-sentry-dsn should be set",
		},
		"value mentioning the flag": {
			args: []string{"-landing-page", "sentry-dsn.html"},
		},
		"similar flag": {
			args: []string{"-sentry-environment", "production"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := Sensitive(tt.args)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}

			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
