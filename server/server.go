package server

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/maxgerhardt/agon-vdp/api"
	"github.com/maxgerhardt/agon-vdp/buffer"
	"github.com/maxgerhardt/agon-vdp/network"
	"github.com/maxgerhardt/agon-vdp/stream"
	"github.com/maxgerhardt/agon-vdp/vm"
	"go.uber.org/zap"
)

var defaultReadTimeout = 200 * time.Millisecond

type ServerOpts struct {
	ListenerAddr    string
	ApiListenerAddr string
	ReadTimeout     time.Duration
	MaxCallDepth    int
	Store           *buffer.Store
	Logger          *zap.Logger
}

// Server owns the buffer store and runs one top-level interpreter per
// accepted host connection.
type Server struct {
	ServerOpts
	store   *buffer.Store
	logger  *zap.Logger
	errChan chan error
}

func NewServer(opts ServerOpts) (*Server, error) {
	if opts.Logger == nil {
		opts.Logger, _ = zap.NewDevelopment()
	}
	if opts.ReadTimeout == time.Duration(0) {
		opts.ReadTimeout = defaultReadTimeout
	}
	if opts.Store == nil {
		opts.Store = buffer.NewStore(buffer.WithLogger(opts.Logger))
	}
	s := &Server{
		ServerOpts: opts,
		store:      opts.Store,
		logger:     opts.Logger.Named("server"),
		errChan:    make(chan error, 1),
	}
	return s, nil
}

func (s *Server) Store() *buffer.Store {
	return s.store
}

func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("starting server",
		zap.String("addr", s.ListenerAddr))

	wg := sync.WaitGroup{}

	feed, err := network.NewTCPFeed(
		s.ListenerAddr,
		func(src stream.Source, sink stream.Sink) {
			wg.Add(1)
			defer wg.Done()
			s.runInterpreter(ctx, src, sink)
		},
		network.FeedLogger(s.logger),
		network.FeedTimeout(s.ReadTimeout),
	)
	if err != nil {
		return err
	}
	defer feed.Close()

	if s.ApiListenerAddr != "" {
		apiServer, _ := api.NewServer(
			api.ServerConfig{
				ListenerAddr: s.ApiListenerAddr,

				Logger: s.logger.Named("api-server")},
			s.store,
		)
		go apiServer.Start()
	}

errorLoop:
	for {
		select {
		case err := <-s.errChan:
			if err != nil {
				s.logger.Error(err.Error())
			}
		case err := <-feed.Errs():
			if err != nil {
				s.logger.Error("feed error", zap.Error(err))
			}
		case <-ctx.Done():
			s.logger.Info("received done")
			break errorLoop
		}
	}

	s.logger.Sugar().Info("waiting for shutdown of goroutines")
	wg.Wait()
	return nil
}

func (s *Server) runInterpreter(ctx context.Context, src stream.Source, sink stream.Sink) {
	opts := []vm.ProcOpt{
		vm.LoggerOpt(s.logger),
		vm.OutputOpt(sink),
	}
	if s.MaxCallDepth > 0 {
		opts = append(opts, vm.WithFrames(vm.NewFrames(vm.MaxDepth(s.MaxCallDepth))))
	}
	proc := vm.NewProc(s.store, src, opts...)
	err := proc.Run(ctx)
	if err != nil && !errors.Is(err, io.EOF) {
		s.errChan <- err
	}
}
