package main

import (
	"errors"
	"net"
	"net/http"
	"time"

	proxyproto "github.com/pires/go-proxyproto"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"gitlab.com/tachyons/filedrop/internal/netutil"
)

type keepAliveListener struct {
	net.Listener
	period time.Duration
}

type keepAliveSetter interface {
	SetKeepAlive(bool) error
	SetKeepAlivePeriod(time.Duration) error
}

type listenerConfig struct {
	listener net.Listener
	isProxy  bool
	limiter  *netutil.Limiter
	handler  http.Handler
}

func (ln *keepAliveListener) Accept() (net.Conn, error) {
	conn, err := ln.Listener.Accept()
	if err != nil {
		return nil, err
	}

	if kc, ok := conn.(keepAliveSetter); ok {
		kc.SetKeepAlive(true)
		kc.SetKeepAlivePeriod(ln.period)
	}

	return conn, nil
}

func (a *theApp) newServer(config listenerConfig) (*http.Server, error) {
	server := &http.Server{
		Handler:           config.handler,
		ReadHeaderTimeout: a.config.Server.ReadHeaderTimeout,
	}

	if a.config.General.HTTP2 {
		h2s := &http2.Server{}
		if err := http2.ConfigureServer(server, h2s); err != nil {
			return nil, err
		}

		server.Handler = h2c.NewHandler(config.handler, h2s)
	}

	return server, nil
}

// serve blocks until server stops. A server stopped by Shutdown is not an
// error.
func (a *theApp) serve(server *http.Server, config listenerConfig) error {
	l := config.listener

	// keep-alive is set on the raw TCP connection, before the limiter wraps it
	if a.config.Server.KeepAlive > 0 {
		l = &keepAliveListener{Listener: l, period: a.config.Server.KeepAlive}
	}

	if config.limiter != nil {
		l = config.limiter.Wrap(l)
	}

	if config.isProxy {
		l = &proxyproto.Listener{
			Listener: l,
			Policy: func(upstream net.Addr) (proxyproto.Policy, error) {
				return proxyproto.REQUIRE, nil
			},
		}
	}

	err := server.Serve(l)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}

	return err
}
