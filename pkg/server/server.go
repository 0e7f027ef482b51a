package server

import (
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/facebookgo/grace/gracehttp"
	"github.com/fritzpay/banktransferd/pkg/config"
	"golang.org/x/net/context"
	"gopkg.in/inconshreveable/log15.v2"
)

// Server is a banktransferd server
//
// It serves the registered HTTP services and supports graceful restarts
// (SIGUSR2) and shutdowns (SIGTERM, SIGINT).
type Server struct {
	ctx context.Context
	log log15.Logger

	httpServers []*http.Server
}

// NewServer creates a new server
func NewServer(ctx context.Context) *Server {
	srv := &Server{
		httpServers: make([]*http.Server, 0, 2),
	}
	srv.ctx = ctx
	if log, ok := srv.ctx.Value("log").(log15.Logger); ok {
		srv.log = log
	} else {
		srv.log = log15.New()
		srv.log.SetHandler(log15.StderrHandler)
	}
	srv.log = srv.log.New(log15.Ctx{"pkg": "github.com/fritzpay/banktransferd/pkg/server"})
	return srv
}

// RegisterService adds a service to the server
// It will serve the HTTP with the given service
func (s *Server) RegisterService(cfg config.ServiceConfig, handler http.Handler) error {
	if cfg.Address == "" {
		return errors.New("service address is empty")
	}
	srv := &http.Server{
		Addr:           cfg.Address,
		Handler:        handler,
		MaxHeaderBytes: cfg.MaxHeaderBytes,
	}
	var err error
	srv.ReadTimeout, err = cfg.ReadTimeout.Duration()
	if err != nil {
		return fmt.Errorf("error parsing duration for server %s: %v", cfg.Address, err)
	}
	srv.WriteTimeout, err = cfg.WriteTimeout.Duration()
	if err != nil {
		return fmt.Errorf("error parsing duration for server %s: %v", cfg.Address, err)
	}
	s.httpServers = append(s.httpServers, srv)
	return nil
}

// Serve starts serving and blocks until all services are stopped
func (s *Server) Serve() error {
	if len(s.httpServers) == 0 {
		return errors.New("no services registered")
	}
	pid := os.Getpid()
	for _, srv := range s.httpServers {
		s.log.Info("server listening", log15.Ctx{
			"address": srv.Addr,
			"PID":     pid,
		})
	}
	err := gracehttp.Serve(s.httpServers...)
	if err != nil {
		s.log.Crit("error serving", log15.Ctx{"err": err})
		return err
	}
	s.log.Info("exiting. graceful handoff complete.", log15.Ctx{
		"pid": pid,
	})
	return nil
}
