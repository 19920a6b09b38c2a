package stream

import (
	"time"

	"go.uber.org/zap"
)

var defaultReadTimeout = 200 * time.Millisecond

// PipeSource is a channel-fed byte source with a bounded read timeout.
// It stands in for the serial receive buffer of the original hardware:
// a producer pushes chunks in, the interpreter pulls bytes out, and a
// read that waits longer than the bound fails with ErrTimeout.
type PipeSource struct {
	recvCh  chan []byte
	pending []byte
	timeout time.Duration
	logger  *zap.Logger
}

type PipeSourceOpt func(*PipeSource) *PipeSource

func PipeTimeout(d time.Duration) PipeSourceOpt {
	return func(p *PipeSource) *PipeSource {
		p.timeout = d
		return p
	}
}

func PipeLogger(l *zap.Logger) PipeSourceOpt {
	return func(p *PipeSource) *PipeSource {
		if l != nil {
			p.logger = l
		}
		return p
	}
}

func NewPipeSource(opts ...PipeSourceOpt) *PipeSource {
	p := &PipeSource{
		recvCh:  make(chan []byte, 1024),
		timeout: defaultReadTimeout,
		logger:  zap.L(),
	}
	for _, opt := range opts {
		p = opt(p)
	}
	p.logger = p.logger.Named("pipe")
	return p
}

// Feed queues a chunk for the reader. Safe to call from another
// goroutine; this is the producer half of the pipe.
func (p *PipeSource) Feed(data []byte) {
	p.recvCh <- data
}

func (p *PipeSource) ReadByte() (byte, error) {
	if len(p.pending) == 0 {
		select {
		case chunk := <-p.recvCh:
			p.pending = chunk
		case <-time.After(p.timeout):
			p.logger.Debug("read timed out",
				zap.Duration("timeout", p.timeout))
			return 0, ErrTimeout
		}
	}
	if len(p.pending) == 0 {
		// producer sent an empty chunk
		return 0, ErrTimeout
	}
	b := p.pending[0]
	p.pending = p.pending[1:]
	return b, nil
}

// Available reports only what has already been delivered; bytes still
// sitting in the channel don't count, mirroring a receive buffer.
func (p *PipeSource) Available() int {
	return len(p.pending)
}
