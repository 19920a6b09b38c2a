package network

import (
	"fmt"
	"net"
	"time"

	"github.com/maxgerhardt/agon-vdp/stream"
	"go.uber.org/zap"
)

var defaultConnTimeout = 200 * time.Millisecond

// Handler runs one accepted connection as a command feed.
type Handler func(src stream.Source, sink stream.Sink)

// TCPFeed listens for host connections and hands each one to the
// handler as a timed byte source -- the serial link of the original
// hardware, reborn as a socket.
type TCPFeed struct {
	addr    string
	logger  *zap.Logger
	timeout time.Duration

	listener net.Listener
	handler  Handler
	errCh    chan error
}

type TCPFeedOpt func(t *TCPFeed) *TCPFeed

func FeedLogger(l *zap.Logger) TCPFeedOpt {
	return func(t *TCPFeed) *TCPFeed {
		if l != nil {
			t.logger = l
		}
		return t
	}
}

func FeedTimeout(d time.Duration) TCPFeedOpt {
	return func(t *TCPFeed) *TCPFeed {
		t.timeout = d
		return t
	}
}

func NewTCPFeed(addr string, handler Handler, opts ...TCPFeedOpt) (*TCPFeed, error) {
	t := &TCPFeed{
		addr:    addr,
		logger:  zap.L(),
		timeout: defaultConnTimeout,
		handler: handler,
		errCh:   make(chan error),
	}

	for _, opt := range opts {
		t = opt(t)
	}
	t.logger = t.logger.Named(fmt.Sprintf("feed-%s", addr))

	l, err := net.Listen("tcp", t.addr)
	if err != nil {
		return nil, err
	}
	t.listener = l
	go t.listen()
	return t, nil
}

func (t *TCPFeed) listen() {
	for {
		conn, err := t.listener.Accept()
		if err != nil {
			t.errCh <- err
			return
		}
		t.logger.Info("host connected",
			zap.String("remote", conn.RemoteAddr().String()))
		go t.serve(conn)
	}
}

func (t *TCPFeed) serve(conn net.Conn) {
	defer conn.Close()
	src := NewConnSource(conn, t.timeout)
	t.handler(src, src)
	t.logger.Info("host disconnected",
		zap.String("remote", conn.RemoteAddr().String()))
}

func (t *TCPFeed) Addr() net.Addr {
	return t.listener.Addr()
}

func (t *TCPFeed) Errs() <-chan error {
	return t.errCh
}

func (t *TCPFeed) Close() error {
	return t.listener.Close()
}
