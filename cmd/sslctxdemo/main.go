package main

import (
	"crypto/tls"
	"flag"
	"fmt"
	"net"
	"os"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/ngsec/sslctxmgr/pkg/sessioncache"
	"github.com/ngsec/sslctxmgr/pkg/ticket"
	"github.com/ngsec/sslctxmgr/sslctx"
)

var (
	configFile = flag.String("config", "config.yaml", "the certificate config file to load")
	listenAddr = flag.String("listen", ":8443", "address to bind the demo TLS listener on")
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zlog.Logger = zlog.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339Nano})

	fmt.Fprintf(os.Stderr, "sslctxdemo - per-listener TLS context manager demo\n")
	flag.Parse()

	fmt.Fprintf(os.Stderr, "%s %s %s\nconfig: %s  listen: %s\n\n",
		runtime.Version(), runtime.GOOS, runtime.GOARCH, *configFile, *listenAddr)

	f, err := os.Open(*configFile)
	if err != nil {
		zlog.Error().Err(err).Str("path", *configFile).Msg("opening config file")
		os.Exit(1)
	}
	cfg, err := sslctx.LoadConfig(f)
	f.Close()
	if err != nil {
		zlog.Error().Err(err).Msg("parsing config file")
		os.Exit(1)
	}

	mgr := sslctx.NewManager(sslctx.BuildOptions{
		SessionCache:     sessioncache.NewLRUSessionCache(),
		NewTicketManager: func() sslctx.TicketManager { return ticket.NewHKDFTicketManager() },
	})

	start := time.Now()
	if err := mgr.Reset(cfg); err != nil {
		zlog.Error().Err(err).Msg("building contexts from config")
		os.Exit(1)
	}
	zlog.Info().Dur("elapsed", time.Since(start)).Int("contexts", len(cfg.Certificates)).Msg("contexts built")

	ln, err := tls.Listen("tcp", *listenAddr, &tls.Config{
		GetConfigForClient: mgr.GetConfigForClient,
	})
	if err != nil {
		zlog.Error().Err(err).Str("addr", *listenAddr).Msg("listening")
		os.Exit(1)
	}
	defer ln.Close()

	zlog.Info().Str("addr", *listenAddr).Msg("listening for TLS connections")
	for {
		conn, err := ln.Accept()
		if err != nil {
			zlog.Warn().Err(err).Msg("accept failed")
			continue
		}
		go handle(conn)
	}
}

func handle(conn net.Conn) {
	defer conn.Close()
	tconn, ok := conn.(*tls.Conn)
	if !ok {
		return
	}
	if err := tconn.Handshake(); err != nil {
		zlog.Debug().Err(err).Str("remote", conn.RemoteAddr().String()).Msg("handshake failed")
		return
	}
	state := tconn.ConnectionState()
	zlog.Info().Str("sni", state.ServerName).Str("remote", conn.RemoteAddr().String()).Msg("handshake complete")
}
