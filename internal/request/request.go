package request

import (
	"net"
	"net/http"
)

// IsRead reports whether r only reads a resource
func IsRead(r *http.Request) bool {
	return r.Method == http.MethodGet || r.Method == http.MethodHead
}

// GetRemoteAddrWithoutPort strips the port from r.RemoteAddr.
// An address without a port is returned unchanged.
func GetRemoteAddrWithoutPort(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return host
}
