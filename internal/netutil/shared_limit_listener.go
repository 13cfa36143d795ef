package netutil

import (
	"net"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Gauges report how a Limiter's slots are used
type Gauges struct {
	Max        prometheus.Gauge
	Concurrent prometheus.Gauge
	Waiting    prometheus.Gauge
}

// Limiter caps the connections open across every listener it wraps, so the
// plain and PROXY protocol listeners draw from one pool of slots
type Limiter struct {
	slots  chan struct{}
	gauges Gauges
}

// NewLimiter returns a Limiter with n slots
func NewLimiter(n int, gauges Gauges) *Limiter {
	gauges.Max.Set(float64(n))

	return &Limiter{
		slots:  make(chan struct{}, n),
		gauges: gauges,
	}
}

// Wrap returns a listener whose Accept waits for a free slot. A slot is
// held until the accepted connection is closed.
func (lim *Limiter) Wrap(l net.Listener) net.Listener {
	return &limitedListener{
		Listener: l,
		limiter:  lim,
		closed:   make(chan struct{}),
	}
}

// acquire blocks for a slot. It gives up when stop is closed.
func (lim *Limiter) acquire(stop <-chan struct{}) bool {
	lim.gauges.Waiting.Inc()
	defer lim.gauges.Waiting.Dec()

	select {
	case lim.slots <- struct{}{}:
		lim.gauges.Concurrent.Inc()
		return true
	case <-stop:
		return false
	}
}

func (lim *Limiter) release() {
	<-lim.slots
	lim.gauges.Concurrent.Dec()
}

type limitedListener struct {
	net.Listener
	limiter   *Limiter
	closeOnce sync.Once
	closed    chan struct{}
}

func (l *limitedListener) Accept() (net.Conn, error) {
	acquired := l.limiter.acquire(l.closed)

	// without a slot the listener is closed and Accept returns an error
	conn, err := l.Listener.Accept()
	if err != nil {
		if acquired {
			l.limiter.release()
		}
		return nil, err
	}

	return &limitedConn{Conn: conn, release: l.limiter.release}, nil
}

func (l *limitedListener) Close() error {
	err := l.Listener.Close()
	l.closeOnce.Do(func() { close(l.closed) })

	return err
}

type limitedConn struct {
	net.Conn
	releaseOnce sync.Once
	release     func()
}

func (c *limitedConn) Close() error {
	err := c.Conn.Close()
	c.releaseOnce.Do(c.release)

	return err
}
