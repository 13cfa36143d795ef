package netutil

import (
	"net"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func newTestGauges() Gauges {
	return Gauges{
		Max:        prometheus.NewGauge(prometheus.GaugeOpts{Name: "test_max_conns"}),
		Concurrent: prometheus.NewGauge(prometheus.GaugeOpts{Name: "test_concurrent_conns"}),
		Waiting:    prometheus.NewGauge(prometheus.GaugeOpts{Name: "test_waiting_conns"}),
	}
}

func listen(t *testing.T) net.Listener {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	return ln
}

func acceptAll(l net.Listener) <-chan net.Conn {
	accepted := make(chan net.Conn, 4)

	go func() {
		for {
			c, err := l.Accept()
			if err != nil {
				return
			}
			accepted <- c
		}
	}()

	return accepted
}

func dial(t *testing.T, l net.Listener) {
	t.Helper()

	c, err := net.Dial("tcp", l.Addr().String())
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
}

func TestNewLimiterSetsMax(t *testing.T) {
	gauges := newTestGauges()
	NewLimiter(7, gauges)

	require.Equal(t, float64(7), testutil.ToFloat64(gauges.Max))
}

func TestLimiterSharedAcrossListeners(t *testing.T) {
	gauges := newTestGauges()
	limiter := NewLimiter(1, gauges)

	plain, proxy := limiter.Wrap(listen(t)), limiter.Wrap(listen(t))
	defer plain.Close()
	defer proxy.Close()

	dial(t, plain)
	first, err := plain.Accept()
	require.NoError(t, err)
	require.Equal(t, float64(1), testutil.ToFloat64(gauges.Concurrent))

	fromProxy := acceptAll(proxy)
	dial(t, proxy)

	select {
	case <-fromProxy:
		t.Fatal("proxy listener accepted while the shared slot was taken")
	case <-time.After(50 * time.Millisecond):
	}

	require.NoError(t, first.Close())
	// closing twice releases the slot once
	first.Close()

	select {
	case second := <-fromProxy:
		second.Close()
	case <-time.After(time.Second):
		t.Fatal("proxy listener did not accept after the slot was released")
	}
}

func TestClosedListenerStopsWaiting(t *testing.T) {
	gauges := newTestGauges()
	listener := NewLimiter(0, gauges).Wrap(listen(t))

	errCh := make(chan error)
	go func() {
		_, err := listener.Accept()
		errCh <- err
	}()

	require.Eventually(t, func() bool {
		return testutil.ToFloat64(gauges.Waiting) == 1
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, listener.Close())
	require.Error(t, <-errCh)
	require.Equal(t, float64(0), testutil.ToFloat64(gauges.Waiting))
}
