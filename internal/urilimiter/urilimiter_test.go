package urilimiter

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"gitlab.com/tachyons/filedrop/metrics"
)

var next = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("served"))
})

func TestNewMiddleware(t *testing.T) {
	longName := strings.Repeat("n", MaxSegmentLength+1)

	tests := map[string]struct {
		limit      int
		target     string
		wantReason string
	}{
		"uri_check_disabled": {
			limit:  0,
			target: "/upload/" + strings.Repeat("n", 200) + ".csv?" + strings.Repeat("q", 500),
		},
		"uri_at_limit": {
			limit:  14,
			target: "/data.csv?v=10",
		},
		"uri_over_limit": {
			limit:      14,
			target:     "/data.csv?v=100",
			wantReason: reasonURILength,
		},
		"longest_storable_name": {
			target: "/upload/" + strings.Repeat("n", MaxSegmentLength),
		},
		"upload_name_too_long": {
			target:     "/upload/" + longName,
			wantReason: reasonSegmentLength,
		},
		"static_name_too_long_with_uri_check_on": {
			limit:      4096,
			target:     "/" + longName + ".js",
			wantReason: reasonSegmentLength,
		},
		"escaped_name_measured_decoded": {
			target: "/upload/" + strings.Repeat("%41", MaxSegmentLength),
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var rejected float64
			if tt.wantReason != "" {
				rejected = testutil.ToFloat64(metrics.RejectedURIs.WithLabelValues(tt.wantReason))
			}

			w := httptest.NewRecorder()
			NewMiddleware(next, tt.limit).ServeHTTP(w, httptest.NewRequest(http.MethodPost, tt.target, nil))

			if tt.wantReason == "" {
				require.Equal(t, http.StatusOK, w.Code)
				require.Equal(t, "served", w.Body.String())
				return
			}

			require.Equal(t, http.StatusRequestURITooLong, w.Code)
			require.Equal(t, "Request URI too long", w.Body.String())
			require.Equal(t, rejected+1, testutil.ToFloat64(metrics.RejectedURIs.WithLabelValues(tt.wantReason)))
		})
	}
}
